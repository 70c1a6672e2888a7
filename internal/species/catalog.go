// Package species holds the read-only species catalog and difficulty tables.
// All growth and harvest math reads from here; nothing here is mutated at runtime.
package species

// ID identifies a species in the catalog.
type ID string

// Resource type identifiers used in yield entries. Species special rules key off
// these (dense wood boosts timber only, golden boosts fruit only).
const (
	ResourceTimber = "timber"
	ResourceFruit  = "fruit"
	ResourceSap    = "sap"
	ResourceResin  = "resin"
	ResourceFrond  = "frond"
)

// Yield is one base, unmultiplied per-cycle yield entry.
type Yield struct {
	Resource string  `json:"resource"`
	Amount   float64 `json:"amount"`
}

// Special tags the hard-coded per-species exceptions to the generic rate and
// yield formulas. A closed set keeps the engine functions total and
// exhaustively testable.
type Special uint8

const (
	SpecialNone        Special = iota
	SpecialColdHardy           // grows at half rate in winter, +20% next to water
	SpecialCluster             // +15% per adjacent tree, capped at +60%
	SpecialDenseWood           // ×3 timber yield once old growth
	SpecialGoldenFruit         // ×3 fruit yield when collected in autumn
)

// Species is one catalog entry.
type Species struct {
	ID   ID
	Name string

	// Seconds to complete stages 0–3 (Seed, Sprout, Sapling, Mature).
	BaseGrowthTimes [4]float64

	Difficulty      int // 1 (easy) to 5 (slow-growing)
	Evergreen       bool
	HarvestCycleSec float64
	Yield           []Yield
	Special         Special
}

// Catalog returns every species entry. Yield amounts are per harvest cycle,
// before any multipliers.
func Catalog() []Species {
	return []Species{
		{ID: "oak", Name: "Oak", BaseGrowthTimes: [4]float64{60, 90, 120, 180}, Difficulty: 2, HarvestCycleSec: 60, Yield: []Yield{{ResourceTimber, 4}, {ResourceSap, 1}}},
		{ID: "birch", Name: "Birch", BaseGrowthTimes: [4]float64{45, 70, 100, 140}, Difficulty: 2, HarvestCycleSec: 50, Yield: []Yield{{ResourceTimber, 2}, {ResourceSap, 2}}},
		{ID: "pine", Name: "Pine", BaseGrowthTimes: [4]float64{50, 80, 110, 150}, Difficulty: 1, Evergreen: true, HarvestCycleSec: 55, Yield: []Yield{{ResourceTimber, 3}, {ResourceResin, 2}}},
		{ID: "apple", Name: "Apple Tree", BaseGrowthTimes: [4]float64{60, 120, 180, 240}, Difficulty: 1, HarvestCycleSec: 45, Yield: []Yield{{ResourceFruit, 5}}},
		{ID: "frostwillow", Name: "Frostwillow", BaseGrowthTimes: [4]float64{80, 120, 160, 200}, Difficulty: 3, HarvestCycleSec: 70, Yield: []Yield{{ResourceTimber, 2}, {ResourceSap, 3}}, Special: SpecialColdHardy},
		{ID: "clusterfern", Name: "Cluster Fern", BaseGrowthTimes: [4]float64{15, 30, 45, 60}, Difficulty: 1, HarvestCycleSec: 30, Yield: []Yield{{ResourceFrond, 3}}, Special: SpecialCluster},
		{ID: "ironoak", Name: "Ironoak", BaseGrowthTimes: [4]float64{120, 200, 300, 420}, Difficulty: 4, HarvestCycleSec: 120, Yield: []Yield{{ResourceTimber, 6}, {ResourceSap, 1}}, Special: SpecialDenseWood},
		{ID: "goldenbough", Name: "Goldenbough", BaseGrowthTimes: [4]float64{150, 260, 380, 520}, Difficulty: 5, HarvestCycleSec: 90, Yield: []Yield{{ResourceFruit, 3}, {ResourceTimber, 1}}, Special: SpecialGoldenFruit},
	}
}

var byID = func() map[ID]Species {
	m := make(map[ID]Species)
	for _, sp := range Catalog() {
		m[sp.ID] = sp
	}
	return m
}()

// Get looks up a species by exact id.
func Get(id ID) (Species, bool) {
	sp, ok := byID[id]
	return sp, ok
}

// Lookup is the catalog access signature the engine consumes. Using a function
// type keeps the core testable against synthetic species.
type Lookup func(ID) (Species, bool)
