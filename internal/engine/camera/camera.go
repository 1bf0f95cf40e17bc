// Package camera provides the free-flying first-person camera used by the
// voxel client.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyCamera is a yaw/pitch camera that moves freely through the world.
type FlyCamera struct {
	Position mgl32.Vec3

	Yaw   float32 // radians, 0 looks toward -Z
	Pitch float32 // radians, clamped to avoid gimbal flip

	MoveSpeed        float32 // world units per second
	LookSensitivity  float32 // radians per pixel of mouse motion
	SprintMultiplier float32
}

// New returns a fly camera at the given position with sensible defaults.
func New(pos mgl32.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:         pos,
		MoveSpeed:        12,
		LookSensitivity:  0.0025,
		SprintMultiplier: 3,
	}
}

// Forward returns the camera's view direction as a unit vector.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	cy := float32(gomath.Cos(float64(c.Yaw)))
	sy := float32(gomath.Sin(float64(c.Yaw)))
	cp := float32(gomath.Cos(float64(c.Pitch)))
	sp := float32(gomath.Sin(float64(c.Pitch)))
	return mgl32.Vec3{-sy * cp, sp, -cy * cp}
}

// Right returns the camera's right direction on the horizontal plane.
func (c *FlyCamera) Right() mgl32.Vec3 {
	cy := float32(gomath.Cos(float64(c.Yaw)))
	sy := float32(gomath.Sin(float64(c.Yaw)))
	return mgl32.Vec3{cy, 0, -sy}
}

// HandleLook applies mouse motion to yaw and pitch.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.LookSensitivity
	c.Pitch -= deltaY * c.LookSensitivity

	limit := float32(gomath.Pi/2 - 0.01)
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// HandleMovement moves the camera. forward/right/up are -1..1 input axes,
// dt is the frame time in seconds.
func (c *FlyCamera) HandleMovement(forward, right, up float32, sprint bool, dt float32) {
	speed := c.MoveSpeed * dt
	if sprint {
		speed *= c.SprintMultiplier
	}
	move := c.Forward().Mul(forward).Add(c.Right().Mul(right)).Add(mgl32.Vec3{0, up, 0})
	if move.Len() > 0 {
		c.Position = c.Position.Add(move.Normalize().Mul(speed))
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the viewport.
func (c *FlyCamera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(width) / float32(max(height, 1))
	return mgl32.Perspective(mgl32.DegToRad(70), aspect, 0.1, 1000)
}
