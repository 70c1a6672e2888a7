package grove

import (
	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/world"
)

// Season is supplied per tick by the clock as a plain value.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// seasonMultiplier returns the base seasonal growth multiplier. Unknown
// seasons are treated as summer.
func seasonMultiplier(s Season) float64 {
	switch s {
	case SeasonSpring:
		return 1.5
	case SeasonSummer:
		return 1.0
	case SeasonAutumn:
		return 0.8
	case SeasonWinter:
		return 0.0
	default:
		return 1.0
	}
}

// CalcGrowthRate is the single source of truth for growth speed, shared by
// the per-tick sweep and the offline integrator. It returns progress per
// second for the current stage, or 0 when growth is halted (winter for
// ordinary deciduous species, or malformed base time).
func CalcGrowthRate(baseTime float64, difficulty int, season Season, watered bool, evergreen bool, special species.Special) float64 {
	seasonMult := seasonMultiplier(season)
	if season == SeasonWinter {
		switch {
		case special == species.SpecialColdHardy:
			seasonMult = 0.5
		case evergreen:
			seasonMult = 0.3
		}
	}
	if seasonMult == 0 {
		return 0
	}

	diffMult := species.GrowthDivisor(difficulty)

	waterMult := 1.0
	if watered {
		waterMult = 1.3
	}

	if baseTime <= 0 {
		return 0
	}
	return (seasonMult * waterMult) / (baseTime * diffMult)
}

// Env is the read-only world snapshot a growth sweep runs against. Season and
// weather are explicit parameters rather than ambient state so the sweep and
// the offline integrator can be compared in isolation.
type Env struct {
	Season  Season
	Weather float64 // weather growth multiplier; values <= 0 are treated as 1.0

	Lookup     species.Lookup
	Structures StructureQuery // may be nil
	WaterTiles []world.GridPos
}

// GrowthSystem advances every growing tree by dt seconds. Two spatial indices
// are built up front in O(n) — the water-tile set and a per-cell tree count —
// giving O(1) neighbor lookups for the species bonuses instead of an
// all-pairs scan. Both indices are fixed for the duration of the sweep; tree
// mutation never feeds back into the same sweep's lookups.
func GrowthSystem(trees []*Tree, dt float64, env Env) {
	if dt <= 0 || env.Lookup == nil {
		return
	}

	weather := env.Weather
	if weather <= 0 {
		weather = 1.0
	}

	water := make(map[world.GridPos]struct{}, len(env.WaterTiles))
	for _, p := range env.WaterTiles {
		water[p] = struct{}{}
	}
	occupancy := make(map[world.GridPos]int, len(trees))
	for _, t := range trees {
		occupancy[t.Pos]++
	}

	for _, t := range trees {
		if t.Stage >= StageOldGrowth {
			continue
		}

		sp, ok := env.Lookup(t.Species)
		if !ok {
			continue // unresolved species freezes growth, never throws
		}
		baseTime := sp.BaseGrowthTimes[t.Stage]
		rate := CalcGrowthRate(baseTime, sp.Difficulty, env.Season, t.Watered, sp.Evergreen, sp.Special)
		if rate <= 0 {
			continue
		}

		structureMult := 1.0
		if env.Structures != nil {
			structureMult = env.Structures.GrowthBoost(t.Pos)
		}

		fertilizedMult := 1.0
		if t.Fertilized {
			fertilizedMult = 2.0
		}

		bonus := spatialBonus(t, sp.Special, water, occupancy)

		t.Progress += rate * weather * structureMult * fertilizedMult * bonus * dt
		t.TotalGrowthTime += dt

		// A single oversized tick may cross several stage boundaries.
		for t.Progress >= 1 && t.Stage < StageOldGrowth {
			t.Progress -= 1
			t.Stage++
			t.Watered = false
			t.Fertilized = false
		}
		if t.Stage >= StageOldGrowth && t.Progress > terminalProgressCap {
			t.Progress = terminalProgressCap
		}
	}
}

// spatialBonus computes the per-species positional growth bonus from the
// sweep's precomputed indices.
func spatialBonus(t *Tree, special species.Special, water map[world.GridPos]struct{}, occupancy map[world.GridPos]int) float64 {
	switch special {
	case species.SpecialColdHardy:
		// ×1.2 when any water tile sits in the 8-neighbor ring.
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dz == 0 {
					continue
				}
				if _, ok := water[world.GridPos{X: t.Pos.X + dx, Z: t.Pos.Z + dz}]; ok {
					return 1.2
				}
			}
		}
		return 1.0
	case species.SpecialCluster:
		// +15% per neighboring tree over the 8-neighbor ring, self excluded,
		// capped at +60%.
		neighbors := occupancy[t.Pos] - 1
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dz == 0 {
					continue
				}
				neighbors += occupancy[world.GridPos{X: t.Pos.X + dx, Z: t.Pos.Z + dz}]
			}
		}
		if neighbors <= 0 {
			return 1.0
		}
		bonus := 0.15 * float64(neighbors)
		if bonus > 0.6 {
			bonus = 0.6
		}
		return 1 + bonus
	default:
		return 1.0
	}
}
