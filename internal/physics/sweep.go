package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LowestRoot returns the smallest root of a*x^2 + b*x + c in (0, maxR).
// Only a == 0 is rejected; a small a still yields its finite root.
func LowestRoot(a, b, c, maxR float32) (float32, bool) {
	if a == 0 {
		return 0, false
	}
	det := b*b - 4*a*c
	if det < 0 {
		return 0, false
	}

	// q keeps the root nearest zero accurate when a is tiny next to b.
	sqrtD := math32.Sqrt(det)
	q := -0.5 * (b + math32.Copysign(sqrtD, b))
	r1 := q / a
	r2 := r1
	if q != 0 {
		r2 = c / q
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	if r1 > 0 && r1 < maxR {
		return r1, true
	}
	if r2 > 0 && r2 < maxR {
		return r2, true
	}
	return 0, false
}

// SweepSphere sweeps a sphere of rayRadius along ray against a sphere at
// center. A probe already overlapping and moving inward reports distance 0.
func SweepSphere(ray rl.Ray, rayRadius float32, center rl.Vector3, radius float32) (RaycastHit, bool) {
	length := rl.Vector3Length(ray.Direction)
	if length < Epsilon {
		return RaycastHit{}, false
	}
	dir := rl.Vector3Scale(ray.Direction, 1/length)
	combined := rayRadius + radius

	toCenter := rl.Vector3Subtract(center, ray.Position)
	along := rl.Vector3DotProduct(toCenter, dir)

	// Closest approach on the swept segment.
	closest := rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, clamp(along, 0, length)))
	if rl.Vector3Distance(closest, center) >= combined {
		return RaycastHit{}, false
	}

	perpSq := rl.Vector3LengthSqr(toCenter) - along*along
	base := math32.Sqrt(math32.Max(combined*combined-perpSq, 0))
	dist := along - base
	if dist < 0 {
		if along <= 0 {
			return RaycastHit{}, false
		}
		dist = 0
	}
	if dist > length {
		return RaycastHit{}, false
	}

	probe := rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, dist))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(probe, center))
	return RaycastHit{
		Point:    rl.Vector3Add(center, rl.Vector3Scale(normal, radius)),
		Normal:   normal,
		Distance: dist,
	}, true
}

// unitSweep is a sweep of the unit sphere from base along velocity, with t
// the fraction of velocity travelled.
type unitSweep struct {
	base     rl.Vector3
	velocity rl.Vector3
	velSq    float32
	t        float32
	point    rl.Vector3
	found    bool
}

func newUnitSweep(base, velocity rl.Vector3) unitSweep {
	return unitSweep{
		base:     base,
		velocity: velocity,
		velSq:    rl.Vector3LengthSqr(velocity),
		t:        1,
	}
}

// vertex tests the sphere against a single point.
func (s *unitSweep) vertex(p rl.Vector3) {
	a := s.velSq
	b := 2 * rl.Vector3DotProduct(s.velocity, rl.Vector3Subtract(s.base, p))
	c := rl.Vector3LengthSqr(rl.Vector3Subtract(p, s.base)) - 1
	if t, ok := LowestRoot(a, b, c, s.t); ok {
		s.t = t
		s.point = p
		s.found = true
	}
}

// edge tests the sphere against the segment p1-p2.
func (s *unitSweep) edge(p1, p2 rl.Vector3) {
	edge := rl.Vector3Subtract(p2, p1)
	baseToVertex := rl.Vector3Subtract(p1, s.base)
	edgeSq := rl.Vector3LengthSqr(edge)
	edgeDotVel := rl.Vector3DotProduct(edge, s.velocity)
	edgeDotBtv := rl.Vector3DotProduct(edge, baseToVertex)

	a := edgeSq*-s.velSq + edgeDotVel*edgeDotVel
	b := edgeSq*(2*rl.Vector3DotProduct(s.velocity, baseToVertex)) - 2*edgeDotVel*edgeDotBtv
	c := edgeSq*(1-rl.Vector3LengthSqr(baseToVertex)) + edgeDotBtv*edgeDotBtv

	t, ok := LowestRoot(a, b, c, s.t)
	if !ok {
		return
	}
	f := (edgeDotVel*t - edgeDotBtv) / edgeSq
	if f < 0 || f > 1 {
		return
	}
	s.t = t
	s.point = rl.Vector3Add(p1, rl.Vector3Scale(edge, f))
	s.found = true
}

// triangle tests the sphere against a front-facing triangle.
func (s *unitSweep) triangle(tri Triangle) {
	plane, ok := NewPlaneFromTriangle(tri.V0, tri.V1, tri.V2)
	if !ok || s.velSq < Epsilon*Epsilon {
		return
	}
	if !plane.IsFrontFacing(s.velocity) {
		return
	}

	signedDist := plane.SignedDistance(s.base)
	normalDotVel := rl.Vector3DotProduct(plane.Normal, s.velocity)

	var t0 float32
	embedded := false
	if math32.Abs(normalDotVel) < Epsilon {
		// Moving parallel to the plane.
		if math32.Abs(signedDist) >= 1 {
			return
		}
		embedded = true
	} else {
		t0 = (-1 - signedDist) / normalDotVel
		t1 := (1 - signedDist) / normalDotVel
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > 1 || t1 < 0 {
			return
		}
		t0 = clamp(t0, 0, 1)
	}

	if !embedded {
		contact := rl.Vector3Add(
			rl.Vector3Subtract(s.base, plane.Normal),
			rl.Vector3Scale(s.velocity, t0),
		)
		if PointInTriangle(contact, tri.V0, tri.V1, tri.V2) {
			if t0 < s.t {
				s.t = t0
				s.point = contact
				s.found = true
			}
			return
		}
	}

	s.vertex(tri.V0)
	s.vertex(tri.V1)
	s.vertex(tri.V2)

	s.edge(tri.V0, tri.V1)
	s.edge(tri.V1, tri.V2)
	s.edge(tri.V2, tri.V0)
}

// hit converts the unit-space result back to world space. scale is the
// probe radius used to enter unit space.
func (s *unitSweep) hit(ray rl.Ray, frame Frame, scale float32) RaycastHit {
	length := rl.Vector3Length(ray.Direction)
	dist := s.t * length
	point := frame.PointToWorld(rl.Vector3Scale(s.point, scale))
	probe := rl.Vector3Add(ray.Position, rl.Vector3Scale(rl.Vector3Normalize(ray.Direction), dist))
	return RaycastHit{
		Point:    point,
		Normal:   rl.Vector3Normalize(rl.Vector3Subtract(probe, point)),
		Distance: dist,
	}
}

// SweepTriangles sweeps a sphere of the given radius against a triangle list
// in frame's local space. scale is applied to vertices before the test.
func SweepTriangles(ray rl.Ray, radius float32, frame Frame, scale rl.Vector3, vertices []rl.Vector3) (RaycastHit, bool) {
	if len(vertices) == 0 || len(vertices)%3 != 0 || radius <= 0 {
		return RaycastHit{}, false
	}
	if rl.Vector3Length(ray.Direction) < Epsilon {
		return RaycastHit{}, false
	}

	local := frame.RayToLocal(ray)
	inv := 1 / radius
	s := newUnitSweep(rl.Vector3Scale(local.Position, inv), rl.Vector3Scale(local.Direction, inv))

	for i := 0; i < len(vertices)/3; i++ {
		tri := TriangleAt(vertices, i).Scaled(rl.Vector3Scale(scale, inv))
		s.triangle(tri)
	}
	if !s.found {
		return RaycastHit{}, false
	}
	return s.hit(ray, frame, radius), true
}

// SweepBox sweeps a sphere against an oriented box by testing its 12
// outward-facing triangles.
func SweepBox(ray rl.Ray, radius float32, center rl.Vector3, rotation rl.Quaternion, size rl.Vector3) (RaycastHit, bool) {
	if radius <= 0 {
		return RayBox(ray, center, rotation, size)
	}
	tris := BoxTriangles(rl.Vector3Scale(absVector(size), 0.5))
	return SweepTriangles(ray, radius, NewFrame(center, rotation), rl.Vector3One(), tris[:])
}

// SweepCapsule sweeps a sphere of the given radius against a capsule whose
// segment runs along axis for height, centered on frame's origin. The test
// runs in a space rescaled by the combined radius where the capsule becomes
// a segment and the probe a unit sphere.
func SweepCapsule(ray rl.Ray, radius float32, frame Frame, axis rl.Vector3, capRadius, height float32) (RaycastHit, bool) {
	combined := radius + capRadius
	if combined <= 0 || rl.Vector3Length(ray.Direction) < Epsilon {
		return RaycastHit{}, false
	}

	local := frame.RayToLocal(ray)
	inv := 1 / combined
	s := newUnitSweep(rl.Vector3Scale(local.Position, inv), rl.Vector3Scale(local.Direction, inv))

	half := rl.Vector3Scale(rl.Vector3Normalize(axis), height*0.5*inv)
	p1 := rl.Vector3Negate(half)
	p2 := half

	s.vertex(p1)
	s.vertex(p2)
	if height > 0 {
		s.edge(p1, p2)
	}
	if !s.found {
		return RaycastHit{}, false
	}

	// The contact is on the capsule axis; push it out to the surface.
	h := s.hit(ray, frame, combined)
	h.Point = rl.Vector3Add(h.Point, rl.Vector3Scale(h.Normal, capRadius))
	return h, true
}
