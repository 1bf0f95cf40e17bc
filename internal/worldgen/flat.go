// Package worldgen provides the deterministic chunk population rules used
// by the chunk store: a flat ground fill and a Perlin heightmap terrain.
package worldgen

import (
	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/world"
)

// Flat fills everything at or below GroundLevel, with a one-cell surface
// layer on top. It is the default world rule and the reference for
// deterministic regeneration.
type Flat struct {
	// GroundLevel is the world Y of the highest solid cell.
	GroundLevel int
	// Surface is the block type of the top layer.
	Surface block.Type
	// Below is the block type under the surface layer.
	Below block.Type
}

// NewFlat returns a flat generator with grass over dirt at the given level.
func NewFlat(groundLevel int) *Flat {
	return &Flat{GroundLevel: groundLevel, Surface: block.Grass, Below: block.Dirt}
}

// Populate fills the chunk's share of the flat ground slab.
func (f *Flat) Populate(coord world.ChunkCoord, g *world.Grid) {
	_, baseY, _ := coord.Origin()

	topLocal := f.GroundLevel - baseY
	if topLocal < 0 {
		return // chunk entirely above ground
	}
	if topLocal >= world.GridSize {
		// Chunk entirely below the surface layer.
		g.Fill(0, 0, 0, world.GridSize-1, world.GridSize-1, world.GridSize-1, f.Below)
		return
	}
	if topLocal > 0 {
		g.Fill(0, 0, 0, world.GridSize-1, topLocal-1, world.GridSize-1, f.Below)
	}
	g.Fill(0, topLocal, 0, world.GridSize-1, topLocal, world.GridSize-1, f.Surface)
}
