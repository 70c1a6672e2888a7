// Package grove implements the tree lifecycle core: the per-tick growth and
// stage engine, harvest readiness and yield composition, and the closed-form
// offline catch-up integrator. Every exported function here is total — bad
// data degrades to "no growth" or a nil result, never a panic.
package grove

import (
	"github.com/google/uuid"

	"github.com/talgya/grove/internal/species"
	"github.com/talgya/grove/internal/world"
)

// Stage is the discrete lifecycle phase of a tree.
type Stage uint8

const (
	StageSeed Stage = iota
	StageSprout
	StageSapling
	StageMature
	StageOldGrowth // terminal
)

// StageName returns a human-readable stage name.
func StageName(s Stage) string {
	switch s {
	case StageSeed:
		return "Seed"
	case StageSprout:
		return "Sprout"
	case StageSapling:
		return "Sapling"
	case StageMature:
		return "Mature"
	case StageOldGrowth:
		return "Old Growth"
	default:
		return "Unknown"
	}
}

// terminalProgressCap keeps progress strictly below 1.0 at the terminal stage
// so consumers reading it as "fraction of current stage" never see completion.
const terminalProgressCap = 0.99

// Tree is one planted plant. Stage is monotonically non-decreasing; Progress
// lives in [0,1) below the terminal stage.
type Tree struct {
	ID      uuid.UUID     `json:"id"`
	Species species.ID    `json:"species"`
	Pos     world.GridPos `json:"pos"`

	Stage    Stage   `json:"stage"`
	Progress float64 `json:"progress"`

	// One-shot flags. Watered and Fertilized clear on stage advance;
	// Pruned is consumed by the next successful harvest collection.
	Watered    bool `json:"watered"`
	Fertilized bool `json:"fertilized"`
	Pruned     bool `json:"pruned"`

	// Cumulative seconds of growth applied. Diagnostic only.
	TotalGrowthTime float64 `json:"total_growth_time"`

	// Attached once the tree reaches Mature. Nil before that.
	Harvest *Harvestable `json:"harvest,omitempty"`
}

// NewTree creates a freshly planted tree at stage Seed.
func NewTree(sp species.ID, pos world.GridPos) *Tree {
	return &Tree{
		ID:      uuid.New(),
		Species: sp,
		Pos:     pos,
	}
}

// Harvestable tracks harvest readiness for a mature tree. Resources hold the
// species' base, unmultiplied per-cycle yield — all multipliers are applied
// fresh at collection time, never stored here.
type Harvestable struct {
	Resources       []species.Yield `json:"resources"`
	CooldownElapsed float64         `json:"cooldown_elapsed"`
	CooldownTotal   float64         `json:"cooldown_total"`
	Ready           bool            `json:"ready"`
}

// ResourceAmount is one collected yield entry.
type ResourceAmount struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

// StructureQuery supplies nearby-structure multipliers for a position.
// Implementations return 1.0 when nothing is in range.
type StructureQuery interface {
	GrowthBoost(p world.GridPos) float64
	HarvestBoost(p world.GridPos) float64
}
