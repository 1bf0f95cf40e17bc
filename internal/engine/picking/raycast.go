// Package picking provides block targeting via discrete ray traversal
// over the voxel world.
package picking

import (
	gomath "math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/internal/engine/block"
)

// BlockSource answers block reads at world coordinates. Unloaded regions
// read as air.
type BlockSource interface {
	GetBlock(wx, wy, wz int) block.Type
}

// Hit describes the solid voxel a ray struck.
type Hit struct {
	// X, Y, Z are the integer world coordinates of the voxel.
	X, Y, Z int
	// Block is the voxel's type.
	Block block.Type
	// Distance is the ray parameter at the struck face (world units for a
	// unit direction).
	Distance float32
	// Normal is the outward unit normal of the struck face.
	Normal [3]int
}

// Pos returns the hit voxel coordinates as a vector.
func (h Hit) Pos() (int, int, int) { return h.X, h.Y, h.Z }

const (
	// maxSteps caps traversal against degenerate direction vectors.
	maxSteps = 1024
	// startNudge moves the origin off a cell boundary or out of the
	// viewer's own voxel before traversal.
	startNudge = 1e-4
	// cacheWindow is how long a previous result may be reused.
	cacheWindow = 50 * time.Millisecond
)

// Raycaster walks rays through the voxel grid using Amanatides–Woo DDA:
// it visits exactly the voxels the ray passes through, in order. Results
// are cached for a short window; callers about to mutate the world based
// on a result must pass forceRefresh.
type Raycaster struct {
	src BlockSource

	now func() time.Time

	lastValid  bool
	lastOrigin mgl32.Vec3
	lastDir    mgl32.Vec3
	lastMax    float32
	lastHit    Hit
	lastOK     bool
	lastAt     time.Time
}

// NewRaycaster creates a raycaster over the given block source.
func NewRaycaster(src BlockSource) *Raycaster {
	return &Raycaster{src: src, now: time.Now}
}

// Query casts a ray from origin along the unit direction dir, returning
// the first solid voxel within maxDistance. A cached result is reused when
// the same query repeats inside a small time window and forceRefresh is
// false.
func (r *Raycaster) Query(origin, dir mgl32.Vec3, maxDistance float32, forceRefresh bool) (Hit, bool) {
	if !forceRefresh && r.lastValid &&
		origin == r.lastOrigin && dir == r.lastDir && maxDistance == r.lastMax &&
		r.now().Sub(r.lastAt) < cacheWindow {
		return r.lastHit, r.lastOK
	}

	hit, ok := r.cast(origin, dir, maxDistance)

	r.lastValid = true
	r.lastOrigin, r.lastDir, r.lastMax = origin, dir, maxDistance
	r.lastHit, r.lastOK = hit, ok
	r.lastAt = r.now()
	return hit, ok
}

// Invalidate drops the cached result, forcing the next query to traverse.
func (r *Raycaster) Invalidate() { r.lastValid = false }

func (r *Raycaster) cast(origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool) {
	ox := float64(origin.X())
	oy := float64(origin.Y())
	oz := float64(origin.Z())
	dx := float64(dir.X())
	dy := float64(dir.Y())
	dz := float64(dir.Z())

	// Starting inside a solid voxel (the viewer's own cell) must not
	// produce an instant self-hit: nudge forward and skip that voxel.
	startX := int(gomath.Floor(ox))
	startY := int(gomath.Floor(oy))
	startZ := int(gomath.Floor(oz))
	skipStart := r.src.GetBlock(startX, startY, startZ).IsSolid()
	if skipStart {
		ox += dx * startNudge
		oy += dy * startNudge
		oz += dz * startNudge
	}

	vx := int(gomath.Floor(ox))
	vy := int(gomath.Floor(oy))
	vz := int(gomath.Floor(oz))

	stepX, tMaxX, tDeltaX := axisSetup(ox, dx)
	stepY, tMaxY, tDeltaY := axisSetup(oy, dy)
	stepZ, tMaxZ, tDeltaZ := axisSetup(oz, dz)

	// At the very first voxel no axis has stepped yet; a hit there infers
	// its face from the dominant offset of the entry point from the voxel
	// center.
	lastAxis := -1
	lastSign := 0
	t := 0.0

	for i := 0; i < maxSteps; i++ {
		if t > float64(maxDistance) {
			return Hit{}, false
		}
		if !(skipStart && vx == startX && vy == startY && vz == startZ) {
			if bt := r.src.GetBlock(vx, vy, vz); bt.IsSolid() {
				h := Hit{X: vx, Y: vy, Z: vz, Block: bt, Distance: float32(t)}
				if lastAxis >= 0 {
					h.Normal[lastAxis] = -lastSign
				} else {
					h.Normal = entryNormal(ox, oy, oz, vx, vy, vz)
				}
				return h, true
			}
		}

		// Advance along the axis whose boundary is nearest.
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			t = tMaxX
			tMaxX += tDeltaX
			vx += stepX
			lastAxis, lastSign = 0, stepX
		case tMaxY <= tMaxZ:
			t = tMaxY
			tMaxY += tDeltaY
			vy += stepY
			lastAxis, lastSign = 1, stepY
		default:
			t = tMaxZ
			tMaxZ += tDeltaZ
			vz += stepZ
			lastAxis, lastSign = 2, stepZ
		}
	}
	return Hit{}, false
}

// axisSetup computes the DDA step sign, the ray parameter of the first
// boundary crossing, and the per-cell parameter delta for one axis. A zero
// direction component never steps (infinite tMax).
func axisSetup(o, d float64) (step int, tMax, tDelta float64) {
	if d > 0 {
		step = 1
		tDelta = 1 / d
		tMax = (gomath.Floor(o) + 1 - o) * tDelta
	} else if d < 0 {
		step = -1
		tDelta = -1 / d
		tMax = (o - gomath.Floor(o)) * tDelta
	} else {
		tMax = gomath.Inf(1)
		tDelta = gomath.Inf(1)
	}
	return step, tMax, tDelta
}

// entryNormal picks the face normal for a hit in the ray's starting voxel
// from the dominant offset of the entry point relative to the voxel
// center.
func entryNormal(ox, oy, oz float64, vx, vy, vz int) [3]int {
	fx := ox - (float64(vx) + 0.5)
	fy := oy - (float64(vy) + 0.5)
	fz := oz - (float64(vz) + 0.5)

	ax, ay, az := gomath.Abs(fx), gomath.Abs(fy), gomath.Abs(fz)
	var n [3]int
	switch {
	case ax >= ay && ax >= az:
		n[0] = sign(fx)
	case ay >= az:
		n[1] = sign(fy)
	default:
		n[2] = sign(fz)
	}
	return n
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
