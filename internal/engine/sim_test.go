package engine

import (
	"testing"

	"github.com/google/uuid"

	"github.com/talgya/grove/internal/grove"
	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/world"
)

func newTestSim(trees ...*grove.Tree) *Simulation {
	return NewSimulation(&world.Map{}, trees, species.TierByID("normal"))
}

func TestSeasonForTick(t *testing.T) {
	cases := []struct {
		tick uint64
		want grove.Season
	}{
		{0, grove.SeasonSpring},
		{TicksPerSimSeason - 1, grove.SeasonSpring},
		{TicksPerSimSeason, grove.SeasonSummer},
		{2 * TicksPerSimSeason, grove.SeasonAutumn},
		{3 * TicksPerSimSeason, grove.SeasonWinter},
		{4 * TicksPerSimSeason, grove.SeasonSpring},
	}
	for _, c := range cases {
		if got := SeasonForTick(c.tick); got != c.want {
			t.Fatalf("SeasonForTick(%d) = %s, want %s", c.tick, got, c.want)
		}
	}
}

func TestSimTime(t *testing.T) {
	cases := []struct {
		tick uint64
		want string
	}{
		{0, "Spring Day 1, Year 1"},
		{TicksPerSimSeason, "Summer Day 5, Year 1"},
		{4 * TicksPerSimSeason, "Spring Day 17, Year 2"},
	}
	for _, c := range cases {
		if got := SimTime(c.tick); got != c.want {
			t.Fatalf("SimTime(%d) = %q, want %q", c.tick, got, c.want)
		}
	}
}

func TestEngineStepSchedule(t *testing.T) {
	e := NewEngine()
	var ticks, days, seasons int
	e.OnTick = func(uint64) { ticks++ }
	e.OnDay = func(uint64) { days++ }
	e.OnSeason = func(uint64) { seasons++ }

	for i := 0; i < TicksPerSimSeason; i++ {
		e.step()
	}

	if ticks != TicksPerSimSeason {
		t.Fatalf("expected %d tick callbacks, got %d", TicksPerSimSeason, ticks)
	}
	if days != TicksPerSimSeason/TicksPerSimDay {
		t.Fatalf("expected %d day callbacks, got %d", TicksPerSimSeason/TicksPerSimDay, days)
	}
	if seasons != 1 {
		t.Fatalf("expected 1 season callback, got %d", seasons)
	}
}

func TestPlantResolvesFuzzyInput(t *testing.T) {
	sim := newTestSim()

	tree, err := sim.Plant("oka", world.GridPos{X: 3, Z: 3})
	if err != nil {
		t.Fatalf("fuzzy plant failed: %v", err)
	}
	if tree.Species != "oak" {
		t.Fatalf("expected oak, got %s", tree.Species)
	}

	if _, err := sim.Plant("xyzzy", world.GridPos{X: 4, Z: 4}); err == nil {
		t.Fatal("expected error for unresolvable species")
	}
}

func TestPlantRejectsWaterTiles(t *testing.T) {
	// Water level 0 floods every tile.
	flooded := world.Generate(world.GenConfig{Width: 4, Height: 4, Seed: 1, WaterLevel: 0, NoiseScale: 2})
	sim := NewSimulation(flooded, nil, species.TierByID("normal"))

	if _, err := sim.Plant("oak", world.GridPos{X: 1, Z: 1}); err == nil {
		t.Fatal("expected error planting on water")
	}
}

func TestTreeActions(t *testing.T) {
	sim := newTestSim()
	tree, err := sim.Plant("birch", world.GridPos{X: 2, Z: 2})
	if err != nil {
		t.Fatalf("plant failed: %v", err)
	}

	if !sim.WaterTree(tree.ID) || !tree.Watered {
		t.Fatal("watering failed")
	}
	if !sim.FertilizeTree(tree.ID) || !tree.Fertilized {
		t.Fatal("fertilizing failed")
	}
	if sim.WaterTree(uuid.New()) {
		t.Fatal("unknown tree must not be waterable")
	}

	if !sim.ChopTree(tree.ID) {
		t.Fatal("chop failed")
	}
	if sim.TreeByID(tree.ID) != nil {
		t.Fatal("chopped tree still indexed")
	}
	if len(sim.TreeList()) != 0 {
		t.Fatal("chopped tree still listed")
	}
}

func TestTickSecondAttachesFacetOnMaturity(t *testing.T) {
	tree := grove.NewTree("apple", world.GridPos{X: 2, Z: 2})
	tree.Stage = grove.StageSapling
	tree.Progress = 0.999

	sim := newTestSim(tree)
	sim.TickSecond(1)

	if tree.Stage != grove.StageMature {
		t.Fatalf("expected maturity, got %v at progress %v", tree.Stage, tree.Progress)
	}
	if tree.Harvest == nil {
		t.Fatal("maturity must attach the harvest facet")
	}

	events := sim.DrainEvents()
	if len(events) != 1 || events[0].Category != "growth" {
		t.Fatalf("expected one growth event, got %+v", events)
	}
	if sim.DrainEvents() != nil {
		t.Fatal("drain must clear the event buffer")
	}
}

func TestPruneAdvancesCooldown(t *testing.T) {
	tree := grove.NewTree("apple", world.GridPos{X: 2, Z: 2})
	tree.Stage = grove.StageMature

	sim := newTestSim(tree)
	if tree.Harvest == nil {
		t.Fatal("expected facet attached on load")
	}

	if !sim.PruneTree(tree.ID) {
		t.Fatal("prune failed")
	}
	if !tree.Pruned {
		t.Fatal("prune must mark the tree")
	}
	// Quarter of the apple's 45s cycle.
	if tree.Harvest.CooldownElapsed != 45*0.25 {
		t.Fatalf("expected cooldown advanced by quarter cycle, got %v", tree.Harvest.CooldownElapsed)
	}
}

func TestCatchUpMaturesAndAttachesFacets(t *testing.T) {
	tree := grove.NewTree("apple", world.GridPos{X: 2, Z: 2})
	tree.Stage = grove.StageSapling
	tree.Watered = true

	sim := newTestSim(tree)
	sim.CatchUp(grove.OfflineCapSec)

	if tree.Stage != grove.StageOldGrowth {
		t.Fatalf("a full day away must finish an apple sapling, got %v", tree.Stage)
	}
	if tree.Watered {
		t.Fatal("water must not survive the absence")
	}
	if tree.Harvest == nil {
		t.Fatal("catch-up must attach facets to trees that matured away")
	}
}

func TestCollectTreeEmitsEvent(t *testing.T) {
	tree := grove.NewTree("apple", world.GridPos{X: 2, Z: 2})
	tree.Stage = grove.StageMature

	sim := newTestSim(tree)
	tree.Harvest.Ready = true

	out := sim.CollectTree(tree.ID)
	if len(out) != 1 || out[0].Type != species.ResourceFruit || out[0].Amount != 5 {
		t.Fatalf("unexpected harvest: %+v", out)
	}

	events := sim.DrainEvents()
	if len(events) != 1 || events[0].Category != "harvest" {
		t.Fatalf("expected one harvest event, got %+v", events)
	}

	if sim.CollectTree(tree.ID) != nil {
		t.Fatal("second collect must return nil until the cycle runs again")
	}
}
