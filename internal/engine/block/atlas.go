package block

// Face is the face category of a block used for texture selection.
// Opposite side faces of a cube share one texture, so only three
// categories exist.
type Face uint8

const (
	FaceTop Face = iota
	FaceBottom
	FaceSide

	faceCount
)

// String returns the face category name.
func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "side"
	}
}

// AtlasRect is a tile rectangle in normalized UV space.
type AtlasRect struct {
	U, V          float32
	Width, Height float32
}

// MaterialKey identifies one (block type, face category) material.
// The renderer issues one draw range per key present in a chunk mesh.
type MaterialKey struct {
	Block Type
	Face  Face
}

// AtlasTable answers texture lookups for the mesher. It is a pure,
// read-only policy object: the same inputs always yield the same outputs.
type AtlasTable interface {
	// Rect returns the atlas tile for the given block face.
	Rect(t Type, f Face) AtlasRect
	// Tileable reports whether the face carries a repeating pattern that
	// must not be stretched across merged quads.
	Tileable(t Type, f Face) bool
}

// tileSpec describes one block's texturing policy in the built-in atlas.
type tileSpec struct {
	// Tile column per face category; all tiles sit on one row per block.
	top, bottom, side int
	// Side faces of patterned blocks tile per cell instead of stretching.
	sideTileable bool
}

var tiles = map[Type]tileSpec{
	Grass:  {top: 0, bottom: 1, side: 2, sideTileable: true},
	Dirt:   {top: 1, bottom: 1, side: 1},
	Stone:  {top: 3, bottom: 3, side: 3},
	Sand:   {top: 4, bottom: 4, side: 4},
	Wood:   {top: 5, bottom: 5, side: 6, sideTileable: true},
	Leaves: {top: 7, bottom: 7, side: 7},
	Water:  {top: 8, bottom: 8, side: 8},
	Brick:  {top: 9, bottom: 9, side: 9, sideTileable: true},
}

// GridAtlas is the default AtlasTable: a single-row atlas of equally sized
// square tiles, addressed by column index.
type GridAtlas struct {
	// Columns is the number of tiles along the atlas row.
	Columns int
}

// DefaultAtlas returns the built-in atlas layout matching the tiles table.
func DefaultAtlas() *GridAtlas {
	return &GridAtlas{Columns: 10}
}

// Rect returns the normalized UV rectangle of the tile for a block face.
// Unknown block types fall back to the first tile.
func (a *GridAtlas) Rect(t Type, f Face) AtlasRect {
	col := 0
	if spec, ok := tiles[t]; ok {
		switch f {
		case FaceTop:
			col = spec.top
		case FaceBottom:
			col = spec.bottom
		default:
			col = spec.side
		}
	}
	w := 1.0 / float32(a.Columns)
	return AtlasRect{U: float32(col) * w, V: 0, Width: w, Height: 1}
}

// Tileable reports the repeat policy for a block face.
func (a *GridAtlas) Tileable(t Type, f Face) bool {
	spec, ok := tiles[t]
	if !ok {
		return false
	}
	return f == FaceSide && spec.sideTileable
}
