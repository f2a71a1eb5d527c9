package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon is the tolerance used for parallel and degenerate tests.
const Epsilon = 1e-6

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// TRS builds a scale, then rotate, then translate matrix. The basis is
// rotated with Vector3RotateByQuaternion so the matrix agrees with Frame.
func TRS(position rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) rl.Matrix {
	rotation = rl.QuaternionNormalize(rotation)
	x := rl.Vector3Scale(rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rotation), scale.X)
	y := rl.Vector3Scale(rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation), scale.Y)
	z := rl.Vector3Scale(rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rotation), scale.Z)

	// Columns hold the basis, as read by Vector3Transform.
	return rl.Matrix{
		M0: x.X, M4: y.X, M8: z.X, M12: position.X,
		M1: x.Y, M5: y.Y, M9: z.Y, M13: position.Y,
		M2: x.Z, M6: y.Z, M10: z.Z, M14: position.Z,
		M15: 1,
	}
}

// TransformDirection applies the linear part of m to v, ignoring translation.
func TransformDirection(v rl.Vector3, m rl.Matrix) rl.Vector3 {
	return rl.Vector3{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z,
	}
}

// MaxAbsComponent returns the largest absolute component of v.
func MaxAbsComponent(v rl.Vector3) float32 {
	return math32.Max(math32.Abs(v.X), math32.Max(math32.Abs(v.Y), math32.Abs(v.Z)))
}

// Angle returns the angle between a and b in degrees.
func Angle(a, b rl.Vector3) float32 {
	la := rl.Vector3Length(a)
	lb := rl.Vector3Length(b)
	if la < Epsilon || lb < Epsilon {
		return 0
	}
	cos := clamp(rl.Vector3DotProduct(a, b)/(la*lb), -1, 1)
	return math32.Acos(cos) * rl.Rad2deg
}

// Frame is a rigid transform (rotation then translation). Distances are
// preserved between its local and world spaces.
type Frame struct {
	Origin   rl.Vector3
	Rotation rl.Quaternion
	inverse  rl.Quaternion
}

func NewFrame(origin rl.Vector3, rotation rl.Quaternion) Frame {
	rotation = rl.QuaternionNormalize(rotation)
	return Frame{
		Origin:   origin,
		Rotation: rotation,
		inverse:  rl.QuaternionInvert(rotation),
	}
}

func (f Frame) PointToLocal(p rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3Subtract(p, f.Origin), f.inverse)
}

func (f Frame) DirToLocal(d rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(d, f.inverse)
}

func (f Frame) PointToWorld(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(rl.Vector3RotateByQuaternion(p, f.Rotation), f.Origin)
}

func (f Frame) DirToWorld(d rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(d, f.Rotation)
}

// RayToLocal moves a ray into the frame's local space.
func (f Frame) RayToLocal(ray rl.Ray) rl.Ray {
	return rl.Ray{
		Position:  f.PointToLocal(ray.Position),
		Direction: f.DirToLocal(ray.Direction),
	}
}

// ProjectOnPlane removes the component of v along the unit normal.
func ProjectOnPlane(v, normal rl.Vector3) rl.Vector3 {
	return rl.Vector3Subtract(v, rl.Vector3Scale(normal, rl.Vector3DotProduct(v, normal)))
}
