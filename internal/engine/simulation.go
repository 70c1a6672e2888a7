// Simulation owns the tree population and wires the grove sweeps each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/grove/internal/grove"
	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/weather"
	"github.com/talgya/grove/internal/world"
)

var seasonOrder = [4]grove.Season{
	grove.SeasonSpring,
	grove.SeasonSummer,
	grove.SeasonAutumn,
	grove.SeasonWinter,
}

// SeasonForTick derives the current season from the tick counter.
func SeasonForTick(tick uint64) grove.Season {
	return seasonOrder[(tick/TicksPerSimSeason)%4]
}

// Event is a notable occurrence in the grove.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "growth", "harvest", "plant", "chop"
}

// Simulation holds the world state and runs the grove systems once per tick.
// The sweeps themselves are synchronous and single-threaded; the mutex only
// fences them against HTTP actions arriving between ticks.
type Simulation struct {
	mu sync.Mutex

	Map     *world.Map
	Trees   []*grove.Tree
	index   map[uuid.UUID]*grove.Tree
	Tier    species.Tier
	Weather *weather.Client // nil = neutral multiplier

	Events   []Event
	LastTick uint64
}

// NewSimulation creates a simulation over an existing tree population.
func NewSimulation(m *world.Map, trees []*grove.Tree, tier species.Tier) *Simulation {
	s := &Simulation{
		Map:   m,
		Trees: trees,
		index: make(map[uuid.UUID]*grove.Tree, len(trees)),
		Tier:  tier,
	}
	for _, t := range trees {
		s.index[t.ID] = t
		// Trees loaded at Mature or beyond need their facet re-attached.
		grove.InitHarvestable(t, species.Get)
	}
	return s
}

// TickSecond runs every tick: one growth sweep and one harvest sweep over the
// whole population. A full sweep completes before control returns.
func (s *Simulation) TickSecond(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	season := SeasonForTick(tick)

	env := grove.Env{
		Season:     season,
		Weather:    1.0,
		Lookup:     species.Get,
		Structures: s.Map,
		WaterTiles: s.Map.WaterTiles(),
	}
	if s.Weather != nil {
		env.Weather = s.Weather.GrowthMultiplier()
	}

	before := make(map[uuid.UUID]grove.Stage, len(s.Trees))
	for _, t := range s.Trees {
		before[t.ID] = t.Stage
	}

	grove.GrowthSystem(s.Trees, 1.0, env)

	for _, t := range s.Trees {
		prev := before[t.ID]
		if t.Stage == prev {
			continue
		}
		if prev < grove.StageMature && t.Stage >= grove.StageMature {
			grove.InitHarvestable(t, species.Get)
		}
		s.emit(tick, "growth", fmt.Sprintf("%s at (%d,%d) grew to %s",
			t.Species, t.Pos.X, t.Pos.Z, grove.StageName(t.Stage)))
	}

	grove.HarvestSystem(s.Trees, 1.0)
}

// TickDay logs a daily report.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[grove.Stage]int)
	ready := 0
	for _, t := range s.Trees {
		counts[t.Stage]++
		if t.Harvest != nil && t.Harvest.Ready {
			ready++
		}
	}
	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"season", SeasonForTick(tick),
		"trees", len(s.Trees),
		"seeds", counts[grove.StageSeed],
		"sprouts", counts[grove.StageSprout],
		"saplings", counts[grove.StageSapling],
		"mature", counts[grove.StageMature],
		"old_growth", counts[grove.StageOldGrowth],
		"ready_to_harvest", ready,
	)

	// Trim old events to prevent unbounded growth.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// TickSeason logs the season change.
func (s *Simulation) TickSeason(tick uint64) {
	slog.Info("season change", "tick", tick, "time", SimTime(tick), "season", SeasonForTick(tick))
}

// Plant adds a new tree, resolving fuzzy species input.
func (s *Simulation) Plant(speciesName string, pos world.GridPos) (*grove.Tree, error) {
	sp, ok := species.Resolve(speciesName)
	if !ok {
		return nil, fmt.Errorf("unknown species %q", speciesName)
	}
	if s.Map != nil && s.Map.TileAt(pos) == world.TileWater {
		return nil, fmt.Errorf("cannot plant on water at (%d,%d)", pos.X, pos.Z)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := grove.NewTree(sp.ID, pos)
	s.Trees = append(s.Trees, t)
	s.index[t.ID] = t
	s.emit(s.LastTick, "plant", fmt.Sprintf("%s planted at (%d,%d)", sp.ID, pos.X, pos.Z))
	return t, nil
}

// WaterTree sets the one-shot water flag. False if the tree is unknown.
func (s *Simulation) WaterTree(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[id]
	if !ok {
		return false
	}
	t.Watered = true
	return true
}

// FertilizeTree sets the one-shot fertilizer flag. False if unknown.
func (s *Simulation) FertilizeTree(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[id]
	if !ok {
		return false
	}
	t.Fertilized = true
	return true
}

// PruneTree marks a tree pruned (consumed by the next collection) and, for a
// mature tree mid-cooldown, advances the cooldown by a quarter cycle before
// refreshing the facet snapshot.
func (s *Simulation) PruneTree(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[id]
	if !ok {
		return false
	}
	t.Pruned = true
	if h := t.Harvest; h != nil && !h.Ready {
		h.CooldownElapsed += h.CooldownTotal * 0.25
		grove.InitHarvestable(t, species.Get)
	}
	return true
}

// CollectTree harvests a ready tree. Nil when there is nothing to collect.
func (s *Simulation) CollectTree(id uuid.UUID) []grove.ResourceAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[id]
	if !ok {
		return nil
	}
	out := grove.CollectHarvest(t, grove.CollectEnv{
		Season:     SeasonForTick(s.LastTick),
		Structures: s.Map,
		Lookup:     species.Get,
		YieldMult:  s.Tier.YieldMult,
	})
	if out != nil {
		s.emit(s.LastTick, "harvest", fmt.Sprintf("harvested %s at (%d,%d)", t.Species, t.Pos.X, t.Pos.Z))
	}
	return out
}

// ChopTree removes a tree from the world. False if unknown.
func (s *Simulation) ChopTree(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	for i, other := range s.Trees {
		if other.ID == id {
			s.Trees = append(s.Trees[:i], s.Trees[i+1:]...)
			break
		}
	}
	s.emit(s.LastTick, "chop", fmt.Sprintf("%s chopped at (%d,%d)", t.Species, t.Pos.X, t.Pos.Z))
	return true
}

// TreeByID returns a tree pointer, or nil.
func (s *Simulation) TreeByID(id uuid.UUID) *grove.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[id]
}

// TreeList returns a snapshot copy of the population slice.
func (s *Simulation) TreeList() []*grove.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*grove.Tree, len(s.Trees))
	copy(out, s.Trees)
	return out
}

// CatchUp applies offline growth to the whole population and re-attaches
// harvest facets for trees that matured during the absence.
func (s *Simulation) CatchUp(elapsedSec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grove.CatchUpAll(s.Trees, elapsedSec, species.Get, s.Tier.GrowthScalar)
	for _, t := range s.Trees {
		grove.InitHarvestable(t, species.Get)
	}
	slog.Info("offline catch-up applied", "elapsed_sec", elapsedSec, "trees", len(s.Trees))
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastTick
}

// DrainEvents returns accumulated events and clears the buffer.
func (s *Simulation) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.Events
	s.Events = nil
	return out
}

func (s *Simulation) emit(tick uint64, category, description string) {
	s.Events = append(s.Events, Event{Tick: tick, Description: description, Category: category})
}
