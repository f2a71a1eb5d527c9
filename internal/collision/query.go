package collision

import (
	"cmp"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/physics"
	"collide3d/internal/spatial"
)

// RayHit is a query result. Distance is measured from the ray origin along
// its direction.
type RayHit struct {
	physics.RaycastHit
	Collider Handle
	UserData UserData
}

// gather fills w.candidates with the colliders whose cells overlap b.
func (w *World) gather(b physics.AABB) []Handle {
	w.candidates = w.index.Query(b, w.candidates[:0])
	w.instrumentCandidates(len(w.candidates))
	return w.candidates
}

// collect runs test against every candidate matching mask and returns the
// hits sorted by distance. Ties keep gather order. The returned slice is
// scratch owned by the world.
func (w *World) collect(b physics.AABB, mask uint32, test func(c *collider) (physics.RaycastHit, bool)) []RayHit {
	w.hits = w.hits[:0]
	for _, h := range w.gather(b) {
		c := &w.colliders[h.index]
		if !c.matches(mask) {
			continue
		}
		hit, ok := test(c)
		if !ok {
			continue
		}
		w.hits = append(w.hits, RayHit{
			RaycastHit: hit,
			Collider:   h,
			UserData:   c.userData,
		})
	}

	slices.SortStableFunc(w.hits, func(a, b RayHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return w.hits
}

func rayBounds(ray rl.Ray) physics.AABB {
	return physics.NewAABBFromPoints(ray.Position, rl.Vector3Add(ray.Position, ray.Direction))
}

func intersectRay(c *collider, ray rl.Ray) (physics.RaycastHit, bool) {
	switch s := c.shape.(type) {
	case Sphere:
		return physics.RaySphere(ray, c.center(), c.sphereRadius(s))
	case Box:
		return physics.RayBox(ray, c.center(), c.rotation, c.boxSize(s))
	case Capsule:
		radius, height := c.capsule(s)
		return physics.RayCapsule(ray, c.frame(), s.Dir, radius, height)
	case Mesh:
		return physics.RayMesh(ray, s.Vertices, c.transform())
	}
	return physics.RaycastHit{}, false
}

func intersectSweep(c *collider, ray rl.Ray, radius float32) (physics.RaycastHit, bool) {
	if radius <= 0 {
		return intersectRay(c, ray)
	}

	switch s := c.shape.(type) {
	case Sphere:
		return physics.SweepSphere(ray, radius, c.center(), c.sphereRadius(s))
	case Box:
		return physics.SweepBox(ray, radius, c.center(), c.rotation, c.boxSize(s))
	case Capsule:
		capRadius, height := c.capsule(s)
		return physics.SweepCapsule(ray, radius, c.frame(), s.Dir, capRadius, height)
	case Mesh:
		return physics.SweepTriangles(ray, radius, c.frame(), c.scale, s.Vertices)
	}
	return physics.RaycastHit{}, false
}

// Raycast returns the nearest collider hit by ray. The ray direction's
// length is the ray length.
func (w *World) Raycast(ray rl.Ray, mask uint32) (RayHit, bool) {
	w.instrumentQuery(queryRaycast)

	hits := w.collect(rayBounds(ray), mask, func(c *collider) (physics.RaycastHit, bool) {
		return intersectRay(c, ray)
	})
	if len(hits) == 0 {
		return RayHit{}, false
	}
	return hits[0], true
}

// RaycastAll writes up to len(dst) hits into dst in ascending distance and
// returns how many were written.
func (w *World) RaycastAll(ray rl.Ray, dst []RayHit, mask uint32) int {
	w.instrumentQuery(queryRaycastAll)

	hits := w.collect(rayBounds(ray), mask, func(c *collider) (physics.RaycastHit, bool) {
		return intersectRay(c, ray)
	})
	return copy(dst, hits)
}

func sweepBounds(ray rl.Ray, radius float32) physics.AABB {
	return rayBounds(ray).Inflate(max(radius, 0))
}

// SphereCast sweeps a sphere of radius along ray and returns the first
// collider it touches.
func (w *World) SphereCast(ray rl.Ray, radius float32, mask uint32) (RayHit, bool) {
	w.instrumentQuery(querySphereCast)

	hits := w.collect(sweepBounds(ray, radius), mask, func(c *collider) (physics.RaycastHit, bool) {
		return intersectSweep(c, ray, radius)
	})
	if len(hits) == 0 {
		return RayHit{}, false
	}
	return hits[0], true
}

// SphereCastAll writes up to len(dst) sweep hits into dst in ascending
// distance and returns how many were written.
func (w *World) SphereCastAll(ray rl.Ray, radius float32, dst []RayHit, mask uint32) int {
	w.instrumentQuery(querySphereCastAll)

	hits := w.collect(sweepBounds(ray, radius), mask, func(c *collider) (physics.RaycastHit, bool) {
		return intersectSweep(c, ray, radius)
	})
	return copy(dst, hits)
}

// OverlapSphere appends to dst every collider matching mask whose shape
// overlaps the sphere.
func (w *World) OverlapSphere(center rl.Vector3, radius float32, mask uint32, dst []Handle) []Handle {
	w.instrumentQuery(queryOverlap)

	b := physics.NewAABBFromExtents(center, rl.Vector3{X: radius, Y: radius, Z: radius})
	for _, h := range w.gather(b) {
		c := &w.colliders[h.index]
		if !c.matches(mask) || !c.world.Intersects(b) {
			continue
		}
		if overlapsSphere(c, center, radius) {
			dst = append(dst, h)
		}
	}
	return dst
}

func overlapsSphere(c *collider, center rl.Vector3, radius float32) bool {
	switch s := c.shape.(type) {
	case Sphere:
		return physics.SphereOverlapsSphere(center, radius, c.center(), c.sphereRadius(s))
	case Box:
		return physics.NewOBB(c.center(), c.boxSize(s), c.rotation).IntersectsSphere(center, radius)
	case Capsule:
		capRadius, height := c.capsule(s)
		return physics.SphereOverlapsCapsule(center, radius, c.frame(), s.Dir, capRadius, height)
	case Mesh:
		return physics.SphereOverlapsTriangles(center, radius, c.frame(), c.scale, s.Vertices)
	}
	return false
}

// QueryBounds appends the raw candidates the spatial index returns for b.
// Disabled colliders and every layer are included.
func (w *World) QueryBounds(b physics.AABB, dst []Handle) []Handle {
	return w.index.Query(b, dst)
}

// ForEachCell calls fn with the bounds and collider count of every
// materialized index cell.
func (w *World) ForEachCell(fn func(bounds physics.AABB, count int)) {
	w.index.ForEachCell(func(_ int32, c *spatial.Cell[Handle]) {
		fn(c.Bounds, len(c.Items))
	})
}
