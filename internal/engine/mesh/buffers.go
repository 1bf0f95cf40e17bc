// Package mesh turns chunk block grids into renderable triangle meshes
// using binary greedy meshing. The mesher is a pure function of its inputs
// and is safe to run on a background worker against a grid snapshot.
package mesh

import "github.com/voxelforge/voxelforge/internal/engine/block"

// Mode selects the meshing fidelity applied to a chunk.
type Mode uint8

const (
	// ModeGreedy merges exposed faces maximally, ignoring per-face tiling
	// policy. Used for chunks far from the anchor.
	ModeGreedy Mode = iota
	// ModeDetailed honors the atlas tileable policy: merged runs of
	// tileable faces are subdivided into width-1 columns so repeating
	// textures are not stretched. Used near the anchor.
	ModeDetailed
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeDetailed {
		return "detailed"
	}
	return "greedy"
}

// Group is a contiguous index range drawn with one material.
type Group struct {
	Start uint32
	Count uint32
	Key   block.MaterialKey
}

// Buffers holds the derived, disposable mesh data for one chunk. It is
// never the source of truth; it is always regenerable from a grid plus its
// loaded neighbors. Positions are chunk-local (the renderer translates by
// the chunk origin).
type Buffers struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	UVs       []float32 // 2 per vertex
	Indices   []uint32
	Groups    []Group
}

// VertexCount returns the number of vertices in the buffers.
func (b *Buffers) VertexCount() int { return len(b.Positions) / 3 }

// QuadCount returns the number of quads (two triangles each).
func (b *Buffers) QuadCount() int { return len(b.Indices) / 6 }

// Empty reports whether the mesh has no geometry.
func (b *Buffers) Empty() bool { return len(b.Indices) == 0 }
