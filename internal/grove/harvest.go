package grove

import (
	"math"
	"slices"

	"github.com/talgya/grove/internal/species"
)

// InitHarvestable attaches (or refreshes) the harvest facet. A no-op below
// Mature or when the species cannot be resolved. On re-invocation — after a
// 3→4 stage advance, or after a pruning action that pre-advanced the
// cooldown — the base-yield snapshot and cycle length are recomputed while
// CooldownElapsed and Ready carry over.
func InitHarvestable(t *Tree, lookup species.Lookup) {
	if t == nil || t.Stage < StageMature || lookup == nil {
		return
	}
	sp, ok := lookup(t.Species)
	if !ok {
		return
	}
	if t.Harvest == nil {
		t.Harvest = &Harvestable{}
	}
	// Base yields stored verbatim; multipliers are never baked in here.
	t.Harvest.Resources = slices.Clone(sp.Yield)
	t.Harvest.CooldownTotal = sp.HarvestCycleSec
}

// HarvestSystem advances harvest cooldowns by dt seconds. Ready transitions
// false→true exactly once per cycle; once set, only collection clears it.
func HarvestSystem(trees []*Tree, dt float64) {
	if dt <= 0 {
		return
	}
	for _, t := range trees {
		h := t.Harvest
		if h == nil || h.Ready {
			continue
		}
		h.CooldownElapsed += dt
		if h.CooldownElapsed >= h.CooldownTotal {
			h.Ready = true
		}
	}
}

// CollectEnv is the world state sampled at collection time.
type CollectEnv struct {
	Season     Season
	Structures StructureQuery // may be nil
	Lookup     species.Lookup
	YieldMult  float64 // active difficulty yield multiplier; values <= 0 are treated as 1.0
}

// CollectHarvest composes the yield multiplier from current tree and world
// state and returns the collected resources. Returns nil — not an error —
// when the facet is absent or not ready. Side effects on success: readiness
// and cooldown reset, pruned flag consumed.
//
// Species specials apply per resource type: dense wood triples timber entries
// only (and only at old growth), golden triples fruit entries only (and only
// in autumn). A co-yielded sap entry is never inflated by either.
func CollectHarvest(t *Tree, env CollectEnv) []ResourceAmount {
	if t == nil || t.Harvest == nil || !t.Harvest.Ready {
		return nil
	}

	stageMult := 1.0
	if t.Stage >= StageOldGrowth {
		stageMult = 1.5
	}
	prunedMult := 1.0
	if t.Pruned {
		prunedMult = 1.5
	}
	structureMult := 1.0
	if env.Structures != nil {
		structureMult = env.Structures.HarvestBoost(t.Pos)
	}
	yieldMult := env.YieldMult
	if yieldMult <= 0 {
		yieldMult = 1.0
	}
	combined := stageMult * prunedMult * structureMult * yieldMult

	var special species.Special
	if env.Lookup != nil {
		if sp, ok := env.Lookup(t.Species); ok {
			special = sp.Special
		}
	}

	out := make([]ResourceAmount, 0, len(t.Harvest.Resources))
	for _, y := range t.Harvest.Resources {
		mult := combined
		switch special {
		case species.SpecialDenseWood:
			if t.Stage >= StageOldGrowth && y.Resource == species.ResourceTimber {
				mult *= 3.0
			}
		case species.SpecialGoldenFruit:
			if env.Season == SeasonAutumn && y.Resource == species.ResourceFruit {
				mult *= 3.0
			}
		}
		// Rounding is always upward, so a positive base yield always
		// produces at least one unit.
		out = append(out, ResourceAmount{
			Type:   y.Resource,
			Amount: int(math.Ceil(y.Amount * mult)),
		})
	}

	t.Harvest.Ready = false
	t.Harvest.CooldownElapsed = 0
	t.Pruned = false

	return out
}
