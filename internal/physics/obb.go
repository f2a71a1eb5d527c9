package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, full size and rotation.
func NewOBB(center, size rl.Vector3, rotation rl.Quaternion) OBB {
	rotation = rl.QuaternionNormalize(rotation)
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3Scale(absVector(size), 0.5),
		Axes: [3]rl.Vector3{
			rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rotation),
		},
	}
}

// local returns p in the box's axes, relative to its center.
func (o OBB) local(p rl.Vector3) [3]float32 {
	d := rl.Vector3Subtract(p, o.Center)
	return [3]float32{
		rl.Vector3DotProduct(d, o.Axes[0]),
		rl.Vector3DotProduct(d, o.Axes[1]),
		rl.Vector3DotProduct(d, o.Axes[2]),
	}
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := o.ClosestPoint(center)
	return rl.Vector3DistanceSqr(center, closest) <= radius*radius
}

// ClosestPoint returns the closest point inside or on the OBB to point.
func (o OBB) ClosestPoint(point rl.Vector3) rl.Vector3 {
	l := o.local(point)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}

	result := o.Center
	for i := 0; i < 3; i++ {
		result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[i], clamp(l[i], -half[i], half[i])))
	}
	return result
}

// Bounds returns the world AABB enclosing the box.
func (o OBB) Bounds() AABB {
	extents := rl.Vector3Zero()
	for i, h := range [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z} {
		extents = rl.Vector3Add(extents, absVector(rl.Vector3Scale(o.Axes[i], h)))
	}
	return NewAABBFromExtents(o.Center, extents)
}
