package grove

import (
	"testing"

	"github.com/talgya/grove/internal/species"
)

func TestOfflineGrowthClosedForm(t *testing.T) {
	sp := species.Species{
		ID:              "slowwood",
		BaseGrowthTimes: [4]float64{60, 80, 100, 120},
		Difficulty:      2,
	}
	tree := &Tree{Species: sp.ID, Stage: StageSeed}

	// Divisor 1.25: stage fills take 75s, 100s, 125s, 150s. 200s of absence
	// completes the first two stages and leaves 25s at rate 1/125.
	r := CalculateOfflineGrowth(tree, 200, sp, 1.0)
	if r.Stage != StageSapling {
		t.Fatalf("expected stage %v, got %v", StageSapling, r.Stage)
	}
	approx(t, r.Progress, 0.2, 1e-9, "progress after 200s")
}

func TestOfflineGrowthCapped(t *testing.T) {
	sp := species.Species{
		ID:              "ancient",
		BaseGrowthTimes: [4]float64{1e6, 1e6, 1e6, 1e6},
		Difficulty:      1,
	}

	atCap := CalculateOfflineGrowth(&Tree{Species: sp.ID}, OfflineCapSec, sp, 1.0)
	overCap := CalculateOfflineGrowth(&Tree{Species: sp.ID}, 5*OfflineCapSec, sp, 1.0)

	if atCap != overCap {
		t.Fatalf("a week away must equal a day away: %+v vs %+v", overCap, atCap)
	}
	approx(t, atCap.Progress, float64(OfflineCapSec)/1e6, 1e-9, "capped progress")
}

func TestOfflineGrowthNegativeElapsed(t *testing.T) {
	sp := plainSpecies()
	tree := &Tree{Species: sp.ID, Stage: StageSprout, Progress: 0.4}

	r := CalculateOfflineGrowth(tree, -100, sp, 1.0)
	if r.Stage != StageSprout || r.Progress != 0.4 {
		t.Fatalf("negative elapsed must change nothing, got %+v", r)
	}
}

func TestOfflineGrowthScalar(t *testing.T) {
	sp := plainSpecies()
	tree := &Tree{Species: sp.ID, Stage: StageSapling}

	// Stage fill is 30s; 10s at scalar 1.15 yields 11.5s worth of progress.
	r := CalculateOfflineGrowth(tree, 10, sp, 1.15)
	approx(t, r.Progress, 11.5/30, 1e-9, "scaled progress")

	frozen := CalculateOfflineGrowth(tree, 10, sp, 0)
	if frozen.Stage != StageSapling || frozen.Progress != 0 {
		t.Fatalf("zero scalar must freeze the tree, got %+v", frozen)
	}
}

func TestOfflineGrowthFreezesOnBadBaseTime(t *testing.T) {
	sp := species.Species{
		ID:              "broken",
		BaseGrowthTimes: [4]float64{10, 0, 30, 40},
		Difficulty:      1,
	}
	tree := &Tree{Species: sp.ID, Stage: StageSeed}

	// The seed stage completes, then growth stalls at the malformed stage.
	r := CalculateOfflineGrowth(tree, 1000, sp, 1.0)
	if r.Stage != StageSprout || r.Progress != 0 {
		t.Fatalf("expected stall at broken stage, got %+v", r)
	}
}

func TestOfflineGrowthTerminalStage(t *testing.T) {
	sp := plainSpecies()
	tree := &Tree{Species: sp.ID, Stage: StageOldGrowth, Progress: 1.7}

	r := CalculateOfflineGrowth(tree, OfflineCapSec, sp, 1.0)
	if r.Stage != StageOldGrowth {
		t.Fatalf("old growth must stay terminal, got %v", r.Stage)
	}
	if r.Progress != terminalProgressCap {
		t.Fatalf("expected terminal clamp %v, got %v", terminalProgressCap, r.Progress)
	}
}

func TestOfflineMatchesPerTickSimulation(t *testing.T) {
	sp := plainSpecies()
	lookup := testLookup(sp)

	live := &Tree{Species: sp.ID, Stage: StageSeed}
	env := Env{Season: SeasonSummer, Lookup: lookup}
	const dt = 0.05
	for elapsed := 0.0; elapsed < 35; elapsed += dt {
		GrowthSystem([]*Tree{live}, dt, env)
	}

	away := &Tree{Species: sp.ID, Stage: StageSeed}
	r := CalculateOfflineGrowth(away, 35, sp, 1.0)

	if live.Stage != r.Stage {
		t.Fatalf("stage diverged: live %v, offline %v", live.Stage, r.Stage)
	}
	approx(t, r.Progress, live.Progress, 0.01, "offline vs live progress")
}

func TestCatchUpAllClearsWaterAndSkipsUnknown(t *testing.T) {
	sp := plainSpecies()

	known := &Tree{Species: sp.ID, Stage: StageSeed, Watered: true}
	unknown := &Tree{Species: "ghost", Stage: StageSprout, Progress: 0.5, Watered: true}

	CatchUpAll([]*Tree{known, unknown}, 5, testLookup(sp), 1.0)

	if known.Watered || unknown.Watered {
		t.Fatal("water must evaporate on every tree during the absence")
	}
	approx(t, known.Progress, 0.5, 1e-9, "known tree progress")
	if unknown.Stage != StageSprout || unknown.Progress != 0.5 {
		t.Fatalf("unresolved species must not advance, got stage %v progress %v", unknown.Stage, unknown.Progress)
	}
}
