package renderer

// The demo client ships no image assets: the texture atlas is generated
// procedurally, one square tile per column matching block.DefaultAtlas's
// layout. Tiles get a darker border and patterned interiors so both
// stretched and tiled UV mapping are visible in the world.

const atlasTilePixels = 16

// tileColors is the base RGB per atlas column (see the block package's
// tile table for which block face uses which column).
var tileColors = [][3]uint8{
	{106, 170, 64},  // 0: grass top
	{134, 96, 67},   // 1: dirt
	{120, 153, 83},  // 2: grass side
	{127, 127, 127}, // 3: stone
	{218, 210, 158}, // 4: sand
	{156, 127, 78},  // 5: wood end
	{103, 82, 49},   // 6: wood bark
	{60, 112, 44},   // 7: leaves
	{52, 95, 209},   // 8: water
	{150, 84, 65},   // 9: brick
}

// buildAtlasPixels renders the RGBA atlas image, atlasTilePixels high and
// columns*atlasTilePixels wide.
func buildAtlasPixels(columns int) []uint8 {
	w := columns * atlasTilePixels
	h := atlasTilePixels
	pix := make([]uint8, w*h*4)

	for col := 0; col < columns; col++ {
		base := [3]uint8{200, 0, 200} // loud fallback for unmapped columns
		if col < len(tileColors) {
			base = tileColors[col]
		}
		for py := 0; py < atlasTilePixels; py++ {
			for px := 0; px < atlasTilePixels; px++ {
				r, g, b := base[0], base[1], base[2]
				border := px == 0 || py == 0 || px == atlasTilePixels-1 || py == atlasTilePixels-1
				if border {
					r, g, b = dim(r), dim(g), dim(b)
				} else if (px+py)%5 == 0 {
					// Faint diagonal speckle so stretching is visible.
					r, g, b = dim(r), dim(g), dim(b)
				}
				a := uint8(255)
				if col == 8 {
					a = 200 // water
				}
				off := ((py * w) + col*atlasTilePixels + px) * 4
				pix[off], pix[off+1], pix[off+2], pix[off+3] = r, g, b, a
			}
		}
	}
	return pix
}

func dim(v uint8) uint8 {
	return uint8(int(v) * 8 / 10)
}
