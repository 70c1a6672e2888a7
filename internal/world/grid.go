// Package world provides the planting grid, water tiles, and structure
// effect queries consumed by the grove engine.
package world

// GridPos is an integer grid coordinate. X runs east, Z runs south.
type GridPos struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Chebyshev returns the chessboard distance between two positions. A distance
// of 1 covers the full 8-neighbor ring.
func Chebyshev(a, b GridPos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// Tile classifies a grid cell.
type Tile uint8

const (
	TileSoil Tile = iota
	TileWater
)

// Structure is a placed building whose effect radius boosts nearby trees.
// Boost values are multipliers; 1.0 is neutral.
type Structure struct {
	Name         string  `json:"name"`
	Pos          GridPos `json:"pos"`
	Radius       int     `json:"radius"`
	GrowthBoost  float64 `json:"growth_boost"`
	HarvestBoost float64 `json:"harvest_boost"`
}

// Map holds the generated tile grid and placed structures.
type Map struct {
	Width  int
	Height int

	tiles      []Tile
	water      []GridPos
	Structures []Structure
}

// TileAt returns the tile at a position, soil for anything off-map.
func (m *Map) TileAt(p GridPos) Tile {
	if p.X < 0 || p.Z < 0 || p.X >= m.Width || p.Z >= m.Height {
		return TileSoil
	}
	return m.tiles[p.Z*m.Width+p.X]
}

// WaterTiles returns every water-carrying coordinate. The slice is owned by
// the map; callers must not mutate it.
func (m *Map) WaterTiles() []GridPos {
	return m.water
}

// AddStructure places a structure on the map. Non-positive boosts are lifted
// to neutral so a malformed entry can never zero out growth.
func (m *Map) AddStructure(s Structure) {
	if s.GrowthBoost <= 0 {
		s.GrowthBoost = 1.0
	}
	if s.HarvestBoost <= 0 {
		s.HarvestBoost = 1.0
	}
	if s.Radius < 0 {
		s.Radius = 0
	}
	m.Structures = append(m.Structures, s)
}

// GrowthBoost returns the product of growth boosts of all structures whose
// radius covers p. 1.0 with no structures in range.
func (m *Map) GrowthBoost(p GridPos) float64 {
	mult := 1.0
	for _, s := range m.Structures {
		if Chebyshev(s.Pos, p) <= s.Radius {
			mult *= s.GrowthBoost
		}
	}
	return mult
}

// HarvestBoost returns the product of harvest boosts of all structures whose
// radius covers p. 1.0 with no structures in range.
func (m *Map) HarvestBoost(p GridPos) float64 {
	mult := 1.0
	for _, s := range m.Structures {
		if Chebyshev(s.Pos, p) <= s.Radius {
			mult *= s.HarvestBoost
		}
	}
	return mult
}
