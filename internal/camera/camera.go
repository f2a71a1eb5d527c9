package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// FPSCamera is a mouse-look camera mounted on a moving body. It turns
// keyboard input into a horizontal move direction relative to where it
// looks.
type FPSCamera struct {
	Yaw       float32
	Pitch     float32
	LookSpeed float32
	EyeHeight float32 // Height of camera above feet
	Fovy      float32
}

func New() *FPSCamera {
	return &FPSCamera{
		Yaw:       -135.0,
		Pitch:     -15.0,
		LookSpeed: 0.1,
		EyeHeight: 1.8,
		Fovy:      80,
	}
}

// Look turns the camera by a mouse delta in pixels.
func (c *FPSCamera) Look(delta rl.Vector2) {
	c.Yaw += delta.X * c.LookSpeed
	c.Pitch -= delta.Y * c.LookSpeed
	c.Pitch = min(max(c.Pitch, -89), 89)
}

// Directions returns the horizontal forward and right unit vectors.
func (c *FPSCamera) Directions() (forward, right rl.Vector3) {
	yaw := c.Yaw * rl.Deg2rad
	forward = rl.Vector3{X: math32.Cos(yaw), Z: math32.Sin(yaw)}
	right = rl.Vector3{X: -math32.Sin(yaw), Z: math32.Cos(yaw)}
	return
}

// LookDirection returns the unit vector the camera looks along.
func (c *FPSCamera) LookDirection() rl.Vector3 {
	yaw := c.Yaw * rl.Deg2rad
	pitch := c.Pitch * rl.Deg2rad
	return rl.Vector3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
}

// MoveDirection combines directional input into a horizontal direction of
// length at most 1. Diagonals are not faster.
func (c *FPSCamera) MoveDirection(forward, back, left, right bool) rl.Vector3 {
	f, r := c.Directions()

	var move rl.Vector3
	if forward {
		move = rl.Vector3Add(move, f)
	}
	if back {
		move = rl.Vector3Subtract(move, f)
	}
	if right {
		move = rl.Vector3Add(move, r)
	}
	if left {
		move = rl.Vector3Subtract(move, r)
	}

	if rl.Vector3Length(move) > 1 {
		move = rl.Vector3Normalize(move)
	}
	return move
}

// Eye returns the camera position for a body standing at feet.
func (c *FPSCamera) Eye(feet rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(feet, rl.Vector3{Y: c.EyeHeight})
}

// Camera returns the raylib camera for a body standing at feet.
func (c *FPSCamera) Camera(feet rl.Vector3) rl.Camera3D {
	eye := c.Eye(feet)
	return rl.Camera3D{
		Position:   eye,
		Target:     rl.Vector3Add(eye, c.LookDirection()),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}
