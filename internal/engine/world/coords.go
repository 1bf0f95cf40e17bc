package world

// ChunkCoord identifies a chunk by its position in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// Offset returns the coordinate shifted by the given chunk deltas.
func (c ChunkCoord) Offset(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Origin returns the world coordinate of the chunk's (0,0,0) cell.
func (c ChunkCoord) Origin() (x, y, z int) {
	return c.X * GridSize, c.Y * GridSize, c.Z * GridSize
}

// Split translates a world coordinate into the owning chunk coordinate and
// the local cell coordinate inside it. Every world coordinate maps to
// exactly one such pair.
func Split(wx, wy, wz int) (ChunkCoord, int, int, int) {
	coord := ChunkCoord{
		X: floorDiv(wx, GridSize),
		Y: floorDiv(wy, GridSize),
		Z: floorDiv(wz, GridSize),
	}
	return coord, mod(wx, GridSize), mod(wy, GridSize), mod(wz, GridSize)
}

// floorDiv performs integer division that rounds toward negative infinity.
func floorDiv(a, b int) int {
	if a < 0 {
		return (a - b + 1) / b
	}
	return a / b
}

// mod returns the remainder of a/b, always in [0,b).
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
