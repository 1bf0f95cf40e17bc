package picking

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/internal/engine/block"
)

// sparseWorld is a map-backed block source; absent cells are air.
type sparseWorld struct {
	cells map[[3]int]block.Type
}

func newSparseWorld() *sparseWorld {
	return &sparseWorld{cells: make(map[[3]int]block.Type)}
}

func (w *sparseWorld) set(x, y, z int, t block.Type) { w.cells[[3]int{x, y, z}] = t }

func (w *sparseWorld) GetBlock(wx, wy, wz int) block.Type {
	return w.cells[[3]int{wx, wy, wz}]
}

func TestAxisAlignedHit(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	r := NewRaycaster(w)

	hit, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 10, false)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.X != 5 || hit.Y != 0 || hit.Z != 0 {
		t.Errorf("hit voxel (%d,%d,%d), want (5,0,0)", hit.X, hit.Y, hit.Z)
	}
	if hit.Normal != [3]int{-1, 0, 0} {
		t.Errorf("normal %v, want (-1,0,0)", hit.Normal)
	}
	if hit.Block != block.Stone {
		t.Errorf("block %v, want stone", hit.Block)
	}
	if hit.Distance < 4.4 || hit.Distance > 4.6 {
		t.Errorf("distance %v, want ~4.5", hit.Distance)
	}
}

func TestNegativeDirectionNormal(t *testing.T) {
	w := newSparseWorld()
	w.set(0, -4, 0, block.Dirt)
	r := NewRaycaster(w)

	hit, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, -1, 0}, 10, false)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Y != -4 {
		t.Errorf("hit Y = %d, want -4", hit.Y)
	}
	if hit.Normal != [3]int{0, 1, 0} {
		t.Errorf("normal %v, want (0,1,0)", hit.Normal)
	}
}

func TestMaxDistanceMiss(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	r := NewRaycaster(w)

	if _, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 3, false); ok {
		t.Error("hit beyond max distance")
	}
}

func TestDiagonalVisitsCellsInOrder(t *testing.T) {
	w := newSparseWorld()
	// A wall at x=4; a diagonal ray must strike its -X face.
	for y := -10; y <= 10; y++ {
		for z := -10; z <= 10; z++ {
			w.set(4, y, z, block.Brick)
		}
	}
	r := NewRaycaster(w)

	dir := mgl32.Vec3{1, 0.3, 0.2}.Normalize()
	hit, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, dir, 20, false)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.X != 4 {
		t.Errorf("hit X = %d, want 4", hit.X)
	}
	if hit.Normal != [3]int{-1, 0, 0} {
		t.Errorf("normal %v, want (-1,0,0)", hit.Normal)
	}
}

func TestStartInsideSolidSkipsOwnVoxel(t *testing.T) {
	w := newSparseWorld()
	w.set(0, 0, 0, block.Stone) // the viewer's own cell
	w.set(3, 0, 0, block.Stone)
	r := NewRaycaster(w)

	hit, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 10, false)
	if !ok {
		t.Fatal("expected a hit past the starting voxel")
	}
	if hit.X != 3 {
		t.Errorf("hit X = %d, want 3 (not the self-cell)", hit.X)
	}
	if hit.Normal != [3]int{-1, 0, 0} {
		t.Errorf("normal %v, want (-1,0,0)", hit.Normal)
	}
}

func TestZeroDirectionTerminates(t *testing.T) {
	w := newSparseWorld()
	r := NewRaycaster(w)

	if _, ok := r.Query(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{}, 10, false); ok {
		t.Error("zero direction must miss")
	}
}

func TestQueryCache(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	r := NewRaycaster(w)

	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	origin := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}

	if _, ok := r.Query(origin, dir, 10, false); !ok {
		t.Fatal("expected a hit")
	}

	// The world changes but the identical query inside the window still
	// answers from cache.
	delete(w.cells, [3]int{5, 0, 0})
	clock = clock.Add(10 * time.Millisecond)
	if _, ok := r.Query(origin, dir, 10, false); !ok {
		t.Error("expected cached hit inside the reuse window")
	}

	// forceRefresh bypasses the cache.
	if _, ok := r.Query(origin, dir, 10, true); ok {
		t.Error("forceRefresh must observe the removed block")
	}
}

func TestQueryCacheExpires(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	r := NewRaycaster(w)

	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	origin := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	r.Query(origin, dir, 10, false)

	delete(w.cells, [3]int{5, 0, 0})
	clock = clock.Add(cacheWindow + time.Millisecond)
	if _, ok := r.Query(origin, dir, 10, false); ok {
		t.Error("expired cache entry must not be reused")
	}
}

func TestInvalidate(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	r := NewRaycaster(w)

	origin := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	r.Query(origin, dir, 10, false)

	delete(w.cells, [3]int{5, 0, 0})
	r.Invalidate()
	if _, ok := r.Query(origin, dir, 10, false); ok {
		t.Error("Invalidate must force a fresh traversal")
	}
}

func TestDifferentArgumentsBypassCache(t *testing.T) {
	w := newSparseWorld()
	w.set(5, 0, 0, block.Stone)
	w.set(0, 5, 0, block.Dirt)
	r := NewRaycaster(w)

	origin := mgl32.Vec3{0.5, 0.5, 0.5}
	hitA, _ := r.Query(origin, mgl32.Vec3{1, 0, 0}, 10, false)
	hitB, _ := r.Query(origin, mgl32.Vec3{0, 1, 0}, 10, false)

	if hitA.Block != block.Stone || hitB.Block != block.Dirt {
		t.Errorf("blocks %v/%v, want stone/dirt", hitA.Block, hitB.Block)
	}
}
