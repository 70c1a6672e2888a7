package grove

import "github.com/talgya/grove/internal/species"

// OfflineCapSec caps offline catch-up at 24 hours of real time.
const OfflineCapSec = 86400

// OfflineResult is the computed post-absence state of a tree.
type OfflineResult struct {
	Stage    Stage
	Progress float64
	Watered  bool // always false — water evaporates during the absence
}

// CalculateOfflineGrowth advances a tree over elapsed real seconds in closed
// form, without per-frame stepping. It reuses CalcGrowthRate under a
// simplified modifier set: summer-equivalent season, no water bonus, and none
// of the live-world multipliers (fertilizer, weather, structures, spatial
// bonuses) — those need world state that does not exist offline. The active
// difficulty growth scalar still applies. A non-positive base time or rate
// freezes the tree in place.
func CalculateOfflineGrowth(t *Tree, elapsed float64, sp species.Species, growthScalar float64) OfflineResult {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > OfflineCapSec {
		elapsed = OfflineCapSec
	}

	stage := t.Stage
	progress := t.Progress

	if stage >= StageOldGrowth {
		if progress > terminalProgressCap {
			progress = terminalProgressCap
		}
		return OfflineResult{Stage: StageOldGrowth, Progress: progress}
	}

	remaining := elapsed
	for remaining > 0 && stage < StageOldGrowth {
		baseTime := sp.BaseGrowthTimes[stage]
		if baseTime <= 0 {
			break
		}
		rate := CalcGrowthRate(baseTime, sp.Difficulty, SeasonSummer, false, sp.Evergreen, sp.Special) * growthScalar
		if rate <= 0 {
			break
		}

		secondsToFill := (1 - progress) / rate
		if remaining >= secondsToFill {
			// Complete this stage and keep going; one call may cross
			// several stage boundaries.
			remaining -= secondsToFill
			stage++
			progress = 0
		} else {
			progress += rate * remaining
			remaining = 0
		}
	}

	if stage > StageOldGrowth {
		stage = StageOldGrowth
	}
	if progress > 1 {
		progress = 1
	}
	if stage == StageOldGrowth && progress > terminalProgressCap {
		progress = terminalProgressCap
	}

	return OfflineResult{Stage: stage, Progress: progress}
}

// CatchUpAll applies offline growth to a whole population. Trees whose
// species cannot be resolved are left untouched except that their water flag
// is cleared like everyone else's.
func CatchUpAll(trees []*Tree, elapsed float64, lookup species.Lookup, growthScalar float64) {
	for _, t := range trees {
		t.Watered = false
		if lookup == nil {
			continue
		}
		sp, ok := lookup(t.Species)
		if !ok {
			continue
		}
		r := CalculateOfflineGrowth(t, elapsed, sp, growthScalar)
		t.Stage = r.Stage
		t.Progress = r.Progress
	}
}
