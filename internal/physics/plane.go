package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Plane is defined by a point on it and a unit normal.
type Plane struct {
	Origin rl.Vector3
	Normal rl.Vector3
	d      float32
}

func NewPlane(origin, normal rl.Vector3) Plane {
	normal = rl.Vector3Normalize(normal)
	return Plane{
		Origin: origin,
		Normal: normal,
		d:      -rl.Vector3DotProduct(normal, origin),
	}
}

// NewPlaneFromTriangle returns the plane through a, b and c with the normal
// following counter-clockwise winding. ok is false for degenerate triangles.
func NewPlaneFromTriangle(a, b, c rl.Vector3) (Plane, bool) {
	n := rl.Vector3CrossProduct(rl.Vector3Subtract(b, a), rl.Vector3Subtract(c, a))
	if rl.Vector3LengthSqr(n) < Epsilon*Epsilon {
		return Plane{}, false
	}
	return NewPlane(a, n), true
}

func (p Plane) SignedDistance(point rl.Vector3) float32 {
	return rl.Vector3DotProduct(point, p.Normal) + p.d
}

// IsFrontFacing reports whether a direction points against the normal.
// Directions parallel to the plane are not front facing.
func (p Plane) IsFrontFacing(dir rl.Vector3) bool {
	return rl.Vector3DotProduct(p.Normal, dir) < 0
}

// Project returns point moved onto the plane along the normal.
func (p Plane) Project(point rl.Vector3) rl.Vector3 {
	return rl.Vector3Subtract(point, rl.Vector3Scale(p.Normal, p.SignedDistance(point)))
}
