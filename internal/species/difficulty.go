package species

// growthDivisors maps the per-species difficulty rating (1–5) to a growth-time
// divisor. Higher difficulty means a larger divisor and slower growth.
var growthDivisors = map[int]float64{
	1: 1.0,
	2: 1.25,
	3: 1.5,
	4: 2.0,
	5: 3.0,
}

// GrowthDivisor returns the growth-time divisor for a difficulty rating.
// Unknown ratings fall back to 1.0 rather than failing.
func GrowthDivisor(difficulty int) float64 {
	if d, ok := growthDivisors[difficulty]; ok {
		return d
	}
	return 1.0
}

// Tier is an active world-difficulty setting. YieldMult scales harvest output,
// GrowthScalar scales growth speed (including offline catch-up).
type Tier struct {
	ID           string
	YieldMult    float64
	GrowthScalar float64
}

var tiers = map[string]Tier{
	"settle":   {ID: "settle", YieldMult: 1.5, GrowthScalar: 1.25},
	"normal":   {ID: "normal", YieldMult: 1.0, GrowthScalar: 1.0},
	"explore":  {ID: "explore", YieldMult: 1.3, GrowthScalar: 1.15},
	"hardcore": {ID: "hardcore", YieldMult: 0.8, GrowthScalar: 0.85},
}

// TierByID resolves an active difficulty identifier. Unknown identifiers get
// the neutral tier so callers never have to handle a miss.
func TierByID(id string) Tier {
	if t, ok := tiers[id]; ok {
		return t
	}
	return Tier{ID: id, YieldMult: 1.0, GrowthScalar: 1.0}
}
