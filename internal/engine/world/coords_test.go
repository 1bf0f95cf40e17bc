package world

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		wx, wy, wz int
		coord      ChunkCoord
		lx, ly, lz int
	}{
		{0, 0, 0, ChunkCoord{0, 0, 0}, 0, 0, 0},
		{15, 15, 15, ChunkCoord{0, 0, 0}, 15, 15, 15},
		{16, 16, 16, ChunkCoord{1, 1, 1}, 0, 0, 0},
		{-1, -1, -1, ChunkCoord{-1, -1, -1}, 15, 15, 15},
		{-16, -16, -16, ChunkCoord{-1, -1, -1}, 0, 0, 0},
		{-17, 0, 31, ChunkCoord{-2, 0, 1}, 15, 0, 15},
	}
	for _, tt := range tests {
		coord, lx, ly, lz := Split(tt.wx, tt.wy, tt.wz)
		if coord != tt.coord || lx != tt.lx || ly != tt.ly || lz != tt.lz {
			t.Errorf("Split(%d,%d,%d) = %v (%d,%d,%d), want %v (%d,%d,%d)",
				tt.wx, tt.wy, tt.wz, coord, lx, ly, lz, tt.coord, tt.lx, tt.ly, tt.lz)
		}
	}
}

func TestSplitRoundTrip(t *testing.T) {
	// Every world coordinate maps to exactly one (chunk, local) pair and
	// back, across the sign change.
	for w := -40; w <= 40; w++ {
		coord, lx, _, _ := Split(w, 0, 0)
		if lx < 0 || lx >= GridSize {
			t.Fatalf("Split(%d) local %d out of range", w, lx)
		}
		if coord.X*GridSize+lx != w {
			t.Fatalf("Split(%d) does not round-trip: chunk %d local %d", w, coord.X, lx)
		}
	}
}

func TestOrigin(t *testing.T) {
	x, y, z := (ChunkCoord{-1, 2, 0}).Origin()
	if x != -16 || y != 32 || z != 0 {
		t.Errorf("Origin = (%d,%d,%d), want (-16,32,0)", x, y, z)
	}
}

func TestOffset(t *testing.T) {
	c := ChunkCoord{1, 2, 3}.Offset(-1, 0, 2)
	if c != (ChunkCoord{0, 2, 5}) {
		t.Errorf("Offset = %v", c)
	}
}
