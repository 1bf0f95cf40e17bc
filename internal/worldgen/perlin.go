package worldgen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/world"
)

// Heightmap generates rolling terrain from 2D Perlin noise. Columns below
// the sampled height are stone, capped by dirt and a grass surface, with
// sand near the water line. Purely a function of (seed, chunk coordinate).
type Heightmap struct {
	noise *perlin.Perlin

	// BaseHeight is the mean surface level; Amplitude scales the noise.
	BaseHeight int
	Amplitude  float64
	// Scale converts world cells to noise-space units.
	Scale float64
	// SeaLevel controls where sand replaces grass.
	SeaLevel int
}

// NewHeightmap returns a heightmap generator for the given seed.
func NewHeightmap(seed int64) *Heightmap {
	return &Heightmap{
		noise:      perlin.NewPerlin(2, 2, 3, seed),
		BaseHeight: 10,
		Amplitude:  8,
		Scale:      1.0 / 48.0,
		SeaLevel:   6,
	}
}

// HeightAt returns the surface height (world Y of the top solid cell) for
// a world column.
func (h *Heightmap) HeightAt(wx, wz int) int {
	n := h.noise.Noise2D(float64(wx)*h.Scale, float64(wz)*h.Scale)
	return h.BaseHeight + int(math.Floor(n*h.Amplitude))
}

// Populate fills the chunk's share of the heightmap terrain.
func (h *Heightmap) Populate(coord world.ChunkCoord, g *world.Grid) {
	baseX, baseY, baseZ := coord.Origin()

	for lz := 0; lz < world.GridSize; lz++ {
		for lx := 0; lx < world.GridSize; lx++ {
			top := h.HeightAt(baseX+lx, baseZ+lz)
			topLocal := top - baseY
			if topLocal < 0 {
				continue
			}
			if topLocal >= world.GridSize {
				topLocal = world.GridSize - 1
			}
			for ly := 0; ly <= topLocal; ly++ {
				wy := baseY + ly
				var t block.Type
				switch {
				case wy == top && top <= h.SeaLevel:
					t = block.Sand
				case wy == top:
					t = block.Grass
				case wy >= top-2:
					t = block.Dirt
				default:
					t = block.Stone
				}
				g.Set(lx, ly, lz, t)
			}
		}
	}
}
