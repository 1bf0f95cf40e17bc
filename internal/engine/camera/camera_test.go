package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func vecNear(a, b mgl32.Vec3) bool {
	return gomath.Abs(float64(a.X()-b.X())) < eps &&
		gomath.Abs(float64(a.Y()-b.Y())) < eps &&
		gomath.Abs(float64(a.Z()-b.Z())) < eps
}

func TestForwardAtRest(t *testing.T) {
	c := New(mgl32.Vec3{})
	if !vecNear(c.Forward(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v, want (0,0,-1)", c.Forward())
	}
	if !vecNear(c.Right(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Right = %v, want (1,0,0)", c.Right())
	}
}

func TestForwardAfterQuarterTurn(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Yaw = gomath.Pi / 2 // quarter turn left
	if !vecNear(c.Forward(), mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("Forward = %v, want (-1,0,0)", c.Forward())
	}
}

func TestPitchClamp(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.HandleLook(0, -1e6) // drag far up
	if c.Pitch >= gomath.Pi/2 {
		t.Errorf("Pitch %v not clamped below +90°", c.Pitch)
	}
	c.HandleLook(0, 1e6) // drag far down
	if c.Pitch <= -gomath.Pi/2 {
		t.Errorf("Pitch %v not clamped above -90°", c.Pitch)
	}
}

func TestMovementIsFrameRateIndependent(t *testing.T) {
	a := New(mgl32.Vec3{})
	a.HandleMovement(1, 0, 0, false, 1.0)

	b := New(mgl32.Vec3{})
	for i := 0; i < 10; i++ {
		b.HandleMovement(1, 0, 0, false, 0.1)
	}

	if !vecNear(a.Position, b.Position) {
		t.Errorf("one 1s step %v != ten 0.1s steps %v", a.Position, b.Position)
	}
}

func TestDiagonalMovementNormalized(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.HandleMovement(1, 1, 0, false, 1.0)

	want := float64(c.MoveSpeed)
	if got := float64(c.Position.Len()); gomath.Abs(got-want) > 1e-3 {
		t.Errorf("diagonal speed %v, want %v", got, want)
	}
}

func TestSprintMultiplier(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.HandleMovement(1, 0, 0, true, 1.0)

	want := float64(c.MoveSpeed * c.SprintMultiplier)
	if got := float64(c.Position.Len()); gomath.Abs(got-want) > 1e-3 {
		t.Errorf("sprint distance %v, want %v", got, want)
	}
}

func TestZeroInputDoesNotMove(t *testing.T) {
	c := New(mgl32.Vec3{1, 2, 3})
	c.HandleMovement(0, 0, 0, false, 1.0)
	if !vecNear(c.Position, mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position drifted to %v", c.Position)
	}
}
