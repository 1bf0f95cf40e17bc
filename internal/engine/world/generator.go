package world

// Generator deterministically populates a freshly created chunk. It must be
// a pure function of the chunk coordinate (plus its own fixed parameters):
// re-creating a coordinate after eviction yields identical content, which
// is what lets the world stay ephemeral with no persistence.
type Generator interface {
	Populate(coord ChunkCoord, g *Grid)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(coord ChunkCoord, g *Grid)

// Populate calls the function.
func (f GeneratorFunc) Populate(coord ChunkCoord, g *Grid) { f(coord, g) }
