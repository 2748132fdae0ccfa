package brush

import (
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

// Band maps noise values below a threshold to a terrain.
type Band struct {
	Below   float64 `yaml:"below"`
	Terrain int     `yaml:"terrain"`
}

type NoiseConfig struct {
	Seed        int64   `yaml:"seed"`
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	// Bands are checked in ascending threshold order; values above the
	// last threshold take the last band's terrain.
	Bands []Band `yaml:"bands"`
}

func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Frequency:   0.08,
		Octaves:     4,
		Persistence: 0.5,
		Bands: []Band{
			{Below: 0.45, Terrain: tileset.NoTerrain},
			{Below: 1, Terrain: 0},
		},
	}
}

// Noise assigns a terrain to every cell of the rectangle from layered
// simplex noise.
func Noise(cfg NoiseConfig, a, b grid.Coords) map[grid.Coords]int {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	bands := append([]Band(nil), cfg.Bands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Below < bands[j].Below })

	noise := opensimplex.NewNormalized(seed)
	out := make(map[grid.Coords]int)
	for _, c := range Rect(a, b) {
		if len(bands) == 0 {
			break
		}
		v := octaveNoise(noise, float64(c.X), float64(c.Y), cfg.Octaves, cfg.Frequency, cfg.Persistence)
		t := bands[len(bands)-1].Terrain
		for _, band := range bands {
			if v < band.Below {
				t = band.Terrain
				break
			}
		}
		out[c] = t
	}
	return out
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
