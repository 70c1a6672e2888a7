// Map generation using simplex moisture noise. Cells whose moisture exceeds
// the water level become ponds and streams; everything else is plantable soil.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Width      int
	Height     int
	Seed       int64   // 0 = random
	WaterLevel float64 // moisture threshold for water tiles (0.0–1.0)
	NoiseScale float64 // feature size; larger = broader ponds
}

// DefaultGenConfig returns a garden-sized map with scattered ponds.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:      64,
		Height:     64,
		WaterLevel: 0.78,
		NoiseScale: 8.0,
	}
}

// Generate creates a map deterministically from the config seed.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.Width <= 0 {
		cfg.Width = 64
	}
	if cfg.Height <= 0 {
		cfg.Height = 64
	}
	if cfg.NoiseScale <= 0 {
		cfg.NoiseScale = 8.0
	}

	moisture := opensimplex.NewNormalized(seed)

	m := &Map{
		Width:  cfg.Width,
		Height: cfg.Height,
		tiles:  make([]Tile, cfg.Width*cfg.Height),
	}

	for z := 0; z < cfg.Height; z++ {
		for x := 0; x < cfg.Width; x++ {
			v := moisture.Eval2(float64(x)/cfg.NoiseScale, float64(z)/cfg.NoiseScale)
			if v >= cfg.WaterLevel {
				m.tiles[z*cfg.Width+x] = TileWater
				m.water = append(m.water, GridPos{X: x, Z: z})
			}
		}
	}

	return m
}
