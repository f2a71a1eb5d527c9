package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastHit describes the first contact of a ray or swept sphere.
// Distance is measured in world units along the ray direction.
type RaycastHit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// RaySphere intersects a ray with a sphere. The ray direction's length is the
// ray length. Origins inside the sphere report the exit point.
func RaySphere(ray rl.Ray, center rl.Vector3, radius float32) (RaycastHit, bool) {
	length := rl.Vector3Length(ray.Direction)
	if length < Epsilon {
		return RaycastHit{}, false
	}
	dir := rl.Vector3Scale(ray.Direction, 1/length)

	oc := rl.Vector3Subtract(ray.Position, center)
	b := rl.Vector3DotProduct(oc, dir)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return RaycastHit{}, false
	}

	sqrt := math32.Sqrt(disc)
	t := -b - sqrt
	if t < 0 {
		t = -b + sqrt
	}
	if t < 0 || t > length {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, t))
	return RaycastHit{
		Point:    point,
		Normal:   rl.Vector3Normalize(rl.Vector3Subtract(point, center)),
		Distance: t,
	}, true
}

// rayUnitCube runs the slab test against the cube [-0.5, 0.5]^3. t is the
// ray parameter, so the ray length is 1.
func rayUnitCube(origin, dir rl.Vector3) (float32, rl.Vector3, bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	for axis := 0; axis < 3; axis++ {
		if math32.Abs(d[axis]) < Epsilon {
			if o[axis] < -0.5 || o[axis] > 0.5 {
				return 0, rl.Vector3{}, false
			}
			continue
		}
		t1 := (-0.5 - o[axis]) / d[axis]
		t2 := (0.5 - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmin > tmax || tmax < 0 || tmin > 1 {
		return 0, rl.Vector3{}, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t > 1 {
		return 0, rl.Vector3{}, false
	}

	// The face whose plane is closest to the hit point gives the normal.
	p := rl.Vector3Add(origin, rl.Vector3Scale(dir, t))
	pc := [3]float32{p.X, p.Y, p.Z}
	best := 0
	bestDist := float32(math32.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		dist := math32.Abs(0.5 - math32.Abs(pc[axis]))
		if dist < bestDist {
			bestDist = dist
			best = axis
		}
	}
	var n [3]float32
	n[best] = 1
	if pc[best] < 0 {
		n[best] = -1
	}
	return t, rl.Vector3{X: n[0], Y: n[1], Z: n[2]}, true
}

// RayBox intersects a ray with an oriented box by moving the ray into the
// box's unit-cube space.
func RayBox(ray rl.Ray, center rl.Vector3, rotation rl.Quaternion, size rl.Vector3) (RaycastHit, bool) {
	length := rl.Vector3Length(ray.Direction)
	if length < Epsilon {
		return RaycastHit{}, false
	}
	size = absVector(size)
	if size.X < Epsilon || size.Y < Epsilon || size.Z < Epsilon {
		return RaycastHit{}, false
	}

	frame := NewFrame(center, rotation)
	local := frame.RayToLocal(ray)
	origin := rl.Vector3{X: local.Position.X / size.X, Y: local.Position.Y / size.Y, Z: local.Position.Z / size.Z}
	dir := rl.Vector3{X: local.Direction.X / size.X, Y: local.Direction.Y / size.Y, Z: local.Direction.Z / size.Z}

	t, normal, ok := rayUnitCube(origin, dir)
	if !ok {
		return RaycastHit{}, false
	}

	return RaycastHit{
		Point:    rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, t)),
		Normal:   frame.DirToWorld(normal),
		Distance: t * length,
	}, true
}

// RayMesh intersects a ray with a triangle list placed by transform. The
// nearest triangle wins. A vertex count that is not a multiple of 3 never
// hits.
func RayMesh(ray rl.Ray, vertices []rl.Vector3, transform rl.Matrix) (RaycastHit, bool) {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return RaycastHit{}, false
	}
	length := rl.Vector3Length(ray.Direction)
	if length < Epsilon {
		return RaycastHit{}, false
	}

	inv := rl.MatrixInvert(transform)
	origin := rl.Vector3Transform(ray.Position, inv)
	localDir := TransformDirection(ray.Direction, inv)
	localLength := rl.Vector3Length(localDir)
	if localLength < Epsilon {
		return RaycastHit{}, false
	}
	dir := rl.Vector3Scale(localDir, 1/localLength)

	best := float32(-1)
	var bestTri Triangle
	for i := 0; i < len(vertices)/3; i++ {
		tri := TriangleAt(vertices, i)
		t, ok := RayTriangle(origin, dir, tri)
		if !ok || t > localLength {
			continue
		}
		if best < 0 || t < best {
			best = t
			bestTri = tri
		}
	}
	if best < 0 {
		return RaycastHit{}, false
	}

	// t along the local unit direction maps to a fraction of the ray.
	fraction := best / localLength
	normal := bestTri.Normal()
	// Normals transform by the inverse transpose.
	normal = rl.Vector3Normalize(rl.Vector3{
		X: inv.M0*normal.X + inv.M1*normal.Y + inv.M2*normal.Z,
		Y: inv.M4*normal.X + inv.M5*normal.Y + inv.M6*normal.Z,
		Z: inv.M8*normal.X + inv.M9*normal.Y + inv.M10*normal.Z,
	})

	return RaycastHit{
		Point:    rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, fraction)),
		Normal:   normal,
		Distance: fraction * length,
	}, true
}

// RayCapsule intersects a ray with a capsule. It is the capsule sweep with a
// zero-radius probe.
func RayCapsule(ray rl.Ray, frame Frame, axis rl.Vector3, radius, height float32) (RaycastHit, bool) {
	return SweepCapsule(ray, 0, frame, axis, radius, height)
}
