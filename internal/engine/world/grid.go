// Package world implements the chunked voxel world: dense per-chunk block
// storage, the sparse chunk store with streaming and eviction, the
// rate-limited chunk task queue, and the background mesh worker.
package world

import (
	"fmt"

	"github.com/voxelforge/voxelforge/internal/engine/block"
)

// GridSize is the cubic chunk extent in cells.
const GridSize = 16

// gridVolume is the number of cells in one chunk.
const gridVolume = GridSize * GridSize * GridSize

// MeshHandle is an opaque reference to a chunk's last generated mesh,
// owned by the grid. The handle is never authoritative: the mesh is always
// reconstructible from block data. Release frees only resources the mesh
// itself created; shared materials supplied by the renderer are untouched.
type MeshHandle interface {
	Release()
}

// Grid is the dense block storage for one chunk. Cells are indexed
// x + z*W + y*W*W so that y-outer iteration walks memory linearly.
//
// A Grid is owned by the main/streaming goroutine. The mesh worker only
// ever sees immutable snapshots produced by Clone.
type Grid struct {
	cells  [gridVolume]block.Type
	nonAir int
	dirty  bool
	mesh   MeshHandle
}

// NewGrid returns an empty, clean grid.
func NewGrid() *Grid {
	return &Grid{}
}

func cellIndex(x, y, z int) int {
	return x + z*GridSize + y*GridSize*GridSize
}

// boundsCheck panics when a local coordinate is outside [0,GridSize).
// Out-of-range access is a contract violation by the caller (the store's
// coordinate translation must make it impossible), not a runtime condition.
func boundsCheck(x, y, z int) {
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize || z < 0 || z >= GridSize {
		panic(fmt.Sprintf("world: local coordinate (%d,%d,%d) out of bounds [0,%d)", x, y, z, GridSize))
	}
}

// Get returns the block type at the local coordinate.
func (g *Grid) Get(x, y, z int) block.Type {
	boundsCheck(x, y, z)
	return g.cells[cellIndex(x, y, z)]
}

// Set writes the block type at the local coordinate, maintaining the
// non-air counter incrementally. Overwriting a cell with its current type
// is a no-op and does not mark the grid dirty.
func (g *Grid) Set(x, y, z int, t block.Type) {
	boundsCheck(x, y, z)
	idx := cellIndex(x, y, z)
	old := g.cells[idx]
	if old == t {
		return
	}
	g.cells[idx] = t
	if old == block.Air {
		g.nonAir++
	} else if t == block.Air {
		g.nonAir--
	}
	g.dirty = true
}

// Fill bulk-sets the box [x0,x1]×[y0,y1]×[z0,z1], clamped to the grid.
// The non-air counter is adjusted by the exact delta over the region.
func (g *Grid) Fill(x0, y0, z0, x1, y1, z1 int, t block.Type) {
	x0, x1 = clampRange(x0, x1)
	y0, y1 = clampRange(y0, y1)
	z0, z1 = clampRange(z0, z1)
	changed := false
	for y := y0; y <= y1; y++ {
		for z := z0; z <= z1; z++ {
			base := cellIndex(x0, y, z)
			for x := x0; x <= x1; x++ {
				idx := base + (x - x0)
				old := g.cells[idx]
				if old == t {
					continue
				}
				g.cells[idx] = t
				if old == block.Air {
					g.nonAir++
				} else if t == block.Air {
					g.nonAir--
				}
				changed = true
			}
		}
	}
	if changed {
		g.dirty = true
	}
}

// clampRange orders and clamps an inclusive axis range to [0,GridSize).
func clampRange(lo, hi int) (int, int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= GridSize {
		hi = GridSize - 1
	}
	if hi < 0 || lo >= GridSize {
		// Fully outside: empty range.
		return 0, -1
	}
	return lo, hi
}

// NonAirCount returns the number of non-air cells.
func (g *Grid) NonAirCount() int { return g.nonAir }

// IsEmpty reports whether every cell is air. O(1).
func (g *Grid) IsEmpty() bool { return g.nonAir == 0 }

// MarkDirty flags the grid's cached mesh as stale.
func (g *Grid) MarkDirty() { g.dirty = true }

// IsDirty reports whether the cached mesh is stale.
func (g *Grid) IsDirty() bool { return g.dirty }

// ClearDirty marks the grid's mesh as current. Only call after the
// regenerated mesh has been successfully attached.
func (g *Grid) ClearDirty() { g.dirty = false }

// Mesh returns the grid's owned mesh handle, if any.
func (g *Grid) Mesh() MeshHandle { return g.mesh }

// SetMesh replaces the owned mesh handle, releasing the previous one.
func (g *Grid) SetMesh(m MeshHandle) {
	if g.mesh != nil && g.mesh != m {
		g.mesh.Release()
	}
	g.mesh = m
}

// Dispose releases the owned mesh handle. Block data is left intact; a
// disposed grid can be re-meshed if it is ever needed again.
func (g *Grid) Dispose() {
	if g.mesh != nil {
		g.mesh.Release()
		g.mesh = nil
	}
}

// Clone returns an independent copy of the block data for handoff to the
// mesh worker. Dirty flag and mesh handle are not carried over.
func (g *Grid) Clone() *Grid {
	c := &Grid{nonAir: g.nonAir}
	c.cells = g.cells
	return c
}
