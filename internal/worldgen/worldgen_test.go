package worldgen

import (
	"testing"

	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/world"
)

func TestFlatPopulate(t *testing.T) {
	f := NewFlat(8)
	g := world.NewGrid()
	f.Populate(world.ChunkCoord{}, g)

	if g.Get(5, 8, 5) != block.Grass {
		t.Error("surface layer must be grass")
	}
	if g.Get(5, 7, 5) != block.Dirt || g.Get(5, 0, 5) != block.Dirt {
		t.Error("below-surface cells must be dirt")
	}
	if g.Get(5, 9, 5) != block.Air {
		t.Error("cells above ground must be air")
	}
	// 8 dirt layers plus one grass layer.
	if want := 9 * world.GridSize * world.GridSize; g.NonAirCount() != want {
		t.Errorf("NonAirCount = %d, want %d", g.NonAirCount(), want)
	}
}

func TestFlatAboveGround(t *testing.T) {
	f := NewFlat(8)
	g := world.NewGrid()
	f.Populate(world.ChunkCoord{Y: 1}, g)

	if !g.IsEmpty() {
		t.Errorf("chunk above ground has %d cells", g.NonAirCount())
	}
}

func TestFlatFullyBelowSurface(t *testing.T) {
	f := NewFlat(8)
	g := world.NewGrid()
	f.Populate(world.ChunkCoord{Y: -1}, g)

	if g.NonAirCount() != world.GridSize*world.GridSize*world.GridSize {
		t.Errorf("deep chunk not fully solid: %d cells", g.NonAirCount())
	}
	if g.Get(0, 15, 0) != block.Dirt {
		t.Error("deep chunk must be the below-surface material")
	}
}

func TestFlatSurfaceOnChunkBoundary(t *testing.T) {
	// Ground level 15 puts the grass layer on the chunk's top row.
	f := NewFlat(15)
	g := world.NewGrid()
	f.Populate(world.ChunkCoord{}, g)

	if g.Get(0, 15, 0) != block.Grass {
		t.Error("top row must be grass")
	}
	above := world.NewGrid()
	f.Populate(world.ChunkCoord{Y: 1}, above)
	if !above.IsEmpty() {
		t.Error("chunk above the boundary surface must be empty")
	}
}

func TestHeightmapDeterministic(t *testing.T) {
	coord := world.ChunkCoord{X: 3, Z: -2}

	a := world.NewGrid()
	NewHeightmap(42).Populate(coord, a)
	b := world.NewGrid()
	NewHeightmap(42).Populate(coord, b)

	for y := 0; y < world.GridSize; y++ {
		for z := 0; z < world.GridSize; z++ {
			for x := 0; x < world.GridSize; x++ {
				if a.Get(x, y, z) != b.Get(x, y, z) {
					t.Fatalf("same seed differs at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestHeightmapSeedChangesTerrain(t *testing.T) {
	h1 := NewHeightmap(1)
	h2 := NewHeightmap(999)

	same := true
	for wx := 0; wx < 64 && same; wx++ {
		for wz := 0; wz < 64; wz++ {
			if h1.HeightAt(wx, wz) != h2.HeightAt(wx, wz) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different seeds produced identical heightmaps over a 64x64 region")
	}
}

func TestHeightmapColumnLayers(t *testing.T) {
	h := NewHeightmap(7)
	g := world.NewGrid()
	h.Populate(world.ChunkCoord{}, g)

	for lz := 0; lz < world.GridSize; lz++ {
		for lx := 0; lx < world.GridSize; lx++ {
			top := h.HeightAt(lx, lz)
			if top < 0 || top >= world.GridSize {
				continue
			}
			got := g.Get(lx, top, lz)
			if top <= h.SeaLevel {
				if got != block.Sand {
					t.Errorf("column (%d,%d) top=%d: got %v, want sand", lx, lz, top, got)
				}
			} else if got != block.Grass {
				t.Errorf("column (%d,%d) top=%d: got %v, want grass", lx, lz, top, got)
			}
			if top >= 4 && g.Get(lx, 0, lz) != block.Stone {
				t.Errorf("column (%d,%d) base: got %v, want stone", lx, lz, g.Get(lx, 0, lz))
			}
			if top >= 1 && g.Get(lx, top-1, lz) != block.Dirt {
				t.Errorf("column (%d,%d) below top: got %v, want dirt", lx, lz, g.Get(lx, top-1, lz))
			}
		}
	}
}
