package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// ClosestPointOnSegment returns the point on a-b nearest to p.
func ClosestPointOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := rl.Vector3LengthSqr(ab)
	if lenSq < Epsilon {
		return a
	}
	t := clamp(rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

func SphereOverlapsSphere(c1 rl.Vector3, r1 float32, c2 rl.Vector3, r2 float32) bool {
	r := r1 + r2
	return rl.Vector3DistanceSqr(c1, c2) <= r*r
}

// SphereOverlapsCapsule tests a sphere against a capsule centered on frame's
// origin with its segment along axis.
func SphereOverlapsCapsule(center rl.Vector3, radius float32, frame Frame, axis rl.Vector3, capRadius, height float32) bool {
	local := frame.PointToLocal(center)
	half := rl.Vector3Scale(rl.Vector3Normalize(axis), height*0.5)
	closest := ClosestPointOnSegment(local, rl.Vector3Negate(half), half)
	r := radius + capRadius
	return rl.Vector3DistanceSqr(local, closest) <= r*r
}

// SphereOverlapsTriangles tests a sphere against a triangle list in frame's
// local space, scaled by scale.
func SphereOverlapsTriangles(center rl.Vector3, radius float32, frame Frame, scale rl.Vector3, vertices []rl.Vector3) bool {
	if len(vertices)%3 != 0 {
		return false
	}
	local := frame.PointToLocal(center)
	rSq := radius * radius
	for i := 0; i < len(vertices)/3; i++ {
		tri := TriangleAt(vertices, i).Scaled(scale)
		closest := ClosestPointOnTriangle(local, tri.V0, tri.V1, tri.V2)
		if rl.Vector3DistanceSqr(local, closest) <= rSq {
			return true
		}
	}
	return false
}
