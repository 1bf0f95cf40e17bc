package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/internal/engine/world"
)

func TestChunkOrigin(t *testing.T) {
	tests := []struct {
		coord world.ChunkCoord
		want  mgl32.Vec3
	}{
		{world.ChunkCoord{}, mgl32.Vec3{0, 0, 0}},
		{world.ChunkCoord{X: 1, Y: 2, Z: 3}, mgl32.Vec3{16, 32, 48}},
		{world.ChunkCoord{X: -1, Y: 0, Z: -2}, mgl32.Vec3{-16, 0, -32}},
	}
	for _, tt := range tests {
		if got := chunkOrigin(tt.coord); got != tt.want {
			t.Errorf("chunkOrigin(%v) = %v, want %v", tt.coord, got, tt.want)
		}
	}
}

func TestHandleReleaseNeedsNoContext(t *testing.T) {
	// The store releases handles during ticks and teardown; that must be
	// safe without a GL context because deletion belongs to the fading
	// list on the render thread.
	m := &chunkMesh{destroyed: true}
	m.Release()
	m.Release()
	m.destroy() // already destroyed: must not touch GL
}

func TestAtlasPixelsLayout(t *testing.T) {
	const columns = 10
	pix := buildAtlasPixels(columns)

	if want := columns * atlasTilePixels * atlasTilePixels * 4; len(pix) != want {
		t.Fatalf("len = %d, want %d", len(pix), want)
	}

	// Interior pixel of the stone tile (column 3) carries its base color.
	interior := ((2 * columns * atlasTilePixels) + 3*atlasTilePixels + 2) * 4
	if pix[interior] != 127 && pix[interior] != dim(127) {
		t.Errorf("stone interior R = %d, want base or speckled base", pix[interior])
	}
	if pix[interior+3] != 255 {
		t.Errorf("stone alpha = %d, want opaque", pix[interior+3])
	}

	// The water column (8) is translucent.
	water := ((2 * columns * atlasTilePixels) + 8*atlasTilePixels + 2) * 4
	if pix[water+3] != 200 {
		t.Errorf("water alpha = %d, want 200", pix[water+3])
	}

	// Tile borders are darker than the base color.
	border := (0*columns*atlasTilePixels + 3*atlasTilePixels) * 4
	if pix[border] >= 127 {
		t.Errorf("border R = %d, want darker than base 127", pix[border])
	}
}
