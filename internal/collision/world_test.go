package collision

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"collide3d/internal/physics"
	"collide3d/internal/spatial"
)

const tolerance = 1e-3

func vec(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}

// quad returns two triangles spanning center ± u ± v facing along u x v.
func quad(center, u, v rl.Vector3) []rl.Vector3 {
	p0 := rl.Vector3Subtract(rl.Vector3Subtract(center, u), v)
	p1 := rl.Vector3Subtract(rl.Vector3Add(center, u), v)
	p2 := rl.Vector3Add(rl.Vector3Add(center, u), v)
	p3 := rl.Vector3Add(rl.Vector3Subtract(center, u), v)
	return []rl.Vector3{p0, p1, p2, p0, p2, p3}
}

func groundVertices(size float32) []rl.Vector3 {
	return quad(rl.Vector3Zero(), vec(0, 0, size), vec(size, 0, 0))
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(DefaultConfig())
	t.Cleanup(w.Close)
	return w
}

// mustHandle unwraps a factory result: mustHandle(t)(w.CreateSphereCollider(...)).
func mustHandle(t *testing.T) func(Handle, error) Handle {
	t.Helper()
	return func(h Handle, err error) Handle {
		t.Helper()
		require.NoError(t, err)
		require.True(t, h.IsValid())
		return h
	}
}

func TestFactoriesRejectInvalidShapes(t *testing.T) {
	w := newTestWorld(t)

	tests := []struct {
		name   string
		create func() (Handle, error)
	}{
		{"zero radius sphere", func() (Handle, error) { return w.CreateSphereCollider(0, rl.Vector3Zero()) }},
		{"flat box", func() (Handle, error) { return w.CreateBoxCollider(rl.Vector3Zero(), vec(1, 0, 1)) }},
		{"zero height capsule", func() (Handle, error) { return w.CreateCapsuleCollider(rl.Vector3Zero(), vec(0, 1, 0), 1, 0) }},
		{"zero direction capsule", func() (Handle, error) { return w.CreateCapsuleCollider(rl.Vector3Zero(), rl.Vector3Zero(), 1, 1) }},
		{"empty mesh", func() (Handle, error) { return w.CreateMeshCollider(nil, rl.Vector3Zero()) }},
		{"partial triangle", func() (Handle, error) { return w.CreateMeshCollider(make([]rl.Vector3, 4), rl.Vector3Zero()) }},
		{"bad indices", func() (Handle, error) {
			return w.CreateMeshColliderIndexed(make([]rl.Vector3, 3), []uint16{0, 1, 7}, rl.Vector3Zero())
		}},
		{"empty raylib mesh", func() (Handle, error) { return w.CreateMeshColliderFromMesh(rl.Mesh{}, rl.Vector3Zero()) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h, err := test.create()
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidShape, errors.Type(err))
			require.False(t, h.IsValid())
		})
	}
	require.Equal(t, 0, w.Len())
}

func TestFreedHandlesAreStale(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.FreeCollider(h))
	require.Equal(t, 0, w.Len())

	err := w.SetPosition(h, vec(1, 0, 0))
	require.True(t, errors.IsType(err, ErrTypeStaleHandle))

	_, err = w.Collider(h)
	require.Equal(t, ErrTypeStaleHandle, errors.Type(err))
	require.Error(t, w.FreeCollider(h))

	// The slot is reused with a new generation.
	h2 := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NotEqual(t, h, h2)
	_, err = w.Collider(h)
	require.Error(t, err)

	_, err = w.Collider(Handle{})
	require.Error(t, err)
}

func TestCloseFreesEverything(t *testing.T) {
	w := NewWorld(DefaultConfig())
	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	mustHandle(t)(w.CreateBoxCollider(rl.Vector3Zero(), vec(1, 1, 1)))

	w.Close()
	require.Equal(t, 0, w.Len())
	require.Empty(t, w.QueryBounds(w.Bounds(), nil))

	_, err := w.Collider(h)
	require.Error(t, err)

	h2 := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NotEqual(t, h, h2)
}

func TestIndexRoundTrip(t *testing.T) {
	w := newTestWorld(t)

	var handles []Handle
	for i := 0; i < 40; i++ {
		p := vec(float32(i*23%800-400), float32(i%7), float32(i*37%800-400))
		var h Handle
		switch i % 4 {
		case 0:
			h = mustHandle(t)(w.CreateSphereCollider(float32(i%3+1), rl.Vector3Zero()))
		case 1:
			h = mustHandle(t)(w.CreateBoxCollider(vec(0, 1, 0), vec(2, 2, 4)))
		case 2:
			h = mustHandle(t)(w.CreateCapsuleCollider(vec(0, 1, 0), vec(0, 1, 0), 0.5, 2))
		case 3:
			h = mustHandle(t)(w.CreateMeshCollider(groundVertices(3), rl.Vector3Zero()))
		}
		require.NoError(t, w.SetPosition(h, p))
		handles = append(handles, h)
	}

	for _, h := range handles {
		info, err := w.Collider(h)
		require.NoError(t, err)
		require.NotEqual(t, spatial.NoCell, info.Cell)

		count := 0
		for _, got := range w.QueryBounds(info.Bounds, nil) {
			if got == h {
				count++
			}
		}
		require.Equal(t, 1, count, "collider %v", h)
	}
}

func TestSetPositionMigratesCells(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.SetPosition(h, vec(-400, 0, -400)))
	before, err := w.Collider(h)
	require.NoError(t, err)

	require.NoError(t, w.SetPosition(h, vec(400, 0, 400)))
	after, err := w.Collider(h)
	require.NoError(t, err)

	require.NotEqual(t, before.Cell, after.Cell)
	require.NotContains(t, w.QueryBounds(before.Bounds, nil), h)
	require.Contains(t, w.QueryBounds(after.Bounds, nil), h)
}

func TestCollidersOutsideTheWorldAreDropped(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.SetPosition(h, vec(1000, 0, 0)))

	info, err := w.Collider(h)
	require.NoError(t, err)
	require.Equal(t, spatial.NoCell, info.Cell)

	_, ok := w.Raycast(rl.Ray{Position: vec(990, 0, 0), Direction: vec(20, 0, 0)}, AllLayers)
	require.False(t, ok)

	// Moving back inside makes it queryable again.
	require.NoError(t, w.SetPosition(h, vec(10, 0, 0)))
	_, ok = w.Raycast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(20, 0, 0)}, AllLayers)
	require.True(t, ok)
}

func TestWorldBoundsContainRotatedShapes(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateBoxCollider(rl.Vector3Zero(), vec(2, 2, 2)))
	require.NoError(t, w.SetRotation(h, rl.QuaternionFromAxisAngle(vec(0, 1, 0), 45*rl.Deg2rad)))

	info, err := w.Collider(h)
	require.NoError(t, err)
	require.InDelta(t, 1.41421, info.Bounds.Max.X, tolerance)
	require.InDelta(t, 1, info.Bounds.Max.Y, tolerance)

	c := mustHandle(t)(w.CreateCapsuleCollider(vec(5, 0, 0), vec(0, 1, 0), 0.5, 2))
	require.NoError(t, w.SetRotation(c, rl.QuaternionFromAxisAngle(vec(0, 0, 1), 90*rl.Deg2rad)))
	info, err = w.Collider(c)
	require.NoError(t, err)
	require.InDelta(t, 6.5, info.Bounds.Max.X, tolerance)
	require.InDelta(t, 0.5, info.Bounds.Max.Y, tolerance)
}

func TestRaycastSphereClosedForm(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateSphereCollider(2, rl.Vector3Zero()))
	require.NoError(t, w.SetPosition(h, vec(10, 0, 0)))

	hit, ok := w.Raycast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(50, 0, 0)}, AllLayers)
	require.True(t, ok)
	require.Equal(t, h, hit.Collider)
	require.InDelta(t, 8, hit.Distance, tolerance)

	_, ok = w.Raycast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(-50, 0, 0)}, AllLayers)
	require.False(t, ok)
}

func TestRaycastShapes(t *testing.T) {
	w := newTestWorld(t)

	box := mustHandle(t)(w.CreateBoxCollider(vec(0, 1, 0), vec(2, 2, 2)))
	require.NoError(t, w.SetPosition(box, vec(10, 0, 0)))
	hit, ok := w.Raycast(rl.Ray{Position: vec(0, 1, 0), Direction: vec(20, 0, 0)}, AllLayers)
	require.True(t, ok)
	require.Equal(t, box, hit.Collider)
	require.InDelta(t, 9, hit.Distance, tolerance)

	capsule := mustHandle(t)(w.CreateCapsuleCollider(rl.Vector3Zero(), vec(0, 1, 0), 1, 2))
	require.NoError(t, w.SetPosition(capsule, vec(0, 0, 10)))
	hit, ok = w.Raycast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(0, 0, 20)}, AllLayers)
	require.True(t, ok)
	require.Equal(t, capsule, hit.Collider)
	require.InDelta(t, 9, hit.Distance, tolerance)

	sphere := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.SetTransform(sphere, vec(-10, 0, 0), rl.QuaternionIdentity(), vec(2, 2, 2)))
	hit, ok = w.Raycast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(-20, 0, 0)}, AllLayers)
	require.True(t, ok)
	require.Equal(t, sphere, hit.Collider)
	require.InDelta(t, 8, hit.Distance, tolerance)

	mesh := mustHandle(t)(w.CreateMeshColliderIndexed(
		[]rl.Vector3{vec(-5, 0, -5), vec(-5, 0, 5), vec(5, 0, 5), vec(5, 0, -5)},
		[]uint16{0, 1, 2, 0, 2, 3},
		vec(0, -20, 0),
	))
	hit, ok = w.Raycast(rl.Ray{Position: vec(1, 0, 1), Direction: vec(0, -40, 0)}, AllLayers)
	require.True(t, ok)
	require.Equal(t, mesh, hit.Collider)
	require.InDelta(t, 20, hit.Distance, tolerance)
	require.InDelta(t, 1, hit.Normal.Y, tolerance)
}

func TestRaycastAllSortedAndPrefixStable(t *testing.T) {
	w := newTestWorld(t)

	for _, x := range []float32{14, 4, 20, 8, 2, 16, 10, 6, 18, 12} {
		h := mustHandle(t)(w.CreateSphereCollider(0.5, rl.Vector3Zero()))
		require.NoError(t, w.SetPosition(h, vec(x, 0, 0)))
	}
	ray := rl.Ray{Position: rl.Vector3Zero(), Direction: vec(30, 0, 0)}

	all := make([]RayHit, 16)
	n := w.RaycastAll(ray, all, AllLayers)
	require.Equal(t, 10, n)
	for i := 1; i < n; i++ {
		require.LessOrEqual(t, all[i-1].Distance, all[i].Distance)
	}
	require.InDelta(t, 1.5, all[0].Distance, tolerance)

	for capacity := 1; capacity < 10; capacity++ {
		a := make([]RayHit, capacity)
		b := make([]RayHit, capacity+1)
		require.Equal(t, capacity, w.RaycastAll(ray, a, AllLayers))
		require.Equal(t, capacity+1, w.RaycastAll(ray, b, AllLayers))
		require.Equal(t, a, b[:capacity])
	}

	sweeps := make([]RayHit, 4)
	require.Equal(t, 4, w.SphereCastAll(ray, 0.25, sweeps, AllLayers))
	require.InDelta(t, 1.25, sweeps[0].Distance, tolerance)
	require.InDelta(t, 3.25, sweeps[1].Distance, tolerance)
}

func TestLayerMaskAndEnabledFilter(t *testing.T) {
	w := newTestWorld(t)

	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.SetPosition(h, vec(5, 0, 0)))
	require.NoError(t, w.SetLayer(h, 1<<3))
	require.NoError(t, w.SetUserData(h, UserData{Type: 7, Data: "rock"}))
	ray := rl.Ray{Position: rl.Vector3Zero(), Direction: vec(10, 0, 0)}

	_, ok := w.Raycast(ray, LayerDefault)
	require.False(t, ok)

	hit, ok := w.Raycast(ray, 1<<3)
	require.True(t, ok)
	require.Equal(t, uint32(7), hit.UserData.Type)
	require.Equal(t, "rock", hit.UserData.Data)

	require.NoError(t, w.SetEnabled(h, false))
	_, ok = w.SphereCast(ray, 0.5, AllLayers)
	require.False(t, ok)
	require.Contains(t, w.QueryBounds(physics.NewAABBFromPoints(vec(4, 0, 0), vec(6, 0, 0)), nil), h)
}

func TestSphereCastFlatGroundStop(t *testing.T) {
	w := newTestWorld(t)
	mustHandle(t)(w.CreateMeshCollider(groundVertices(400), rl.Vector3Zero()))

	hit, ok := w.SphereCast(rl.Ray{Position: vec(0, 10, 0), Direction: vec(0, -100, 0)}, 1, AllLayers)
	require.True(t, ok)
	require.InDelta(t, 9, hit.Distance, tolerance)
	require.InDelta(t, 1, hit.Normal.Y, tolerance)
}

func TestSphereCastZeroRadiusMatchesRaycast(t *testing.T) {
	w := newTestWorld(t)

	tilted := []rl.Vector3{vec(-5, 0, -5), vec(-5, 2, 5), vec(5, 1, 0)}
	h := mustHandle(t)(w.CreateMeshCollider(tilted, rl.Vector3Zero()))
	require.NoError(t, w.SetTransform(h, vec(3, 1, -2), rl.QuaternionFromAxisAngle(vec(0, 1, 0), 30*rl.Deg2rad), rl.Vector3One()))

	rays := []rl.Ray{
		{Position: vec(3, 10, -2), Direction: vec(0, -20, 0)},
		{Position: vec(2, 8, -1), Direction: vec(0.5, -20, 0.3)},
		{Position: vec(4, 6, -3), Direction: vec(-1, -12, 0.5)},
	}
	for i, ray := range rays {
		rayHit, ok := w.Raycast(ray, AllLayers)
		require.True(t, ok, "ray %d", i)

		sweepHit, ok := w.SphereCast(ray, 1e-3, AllLayers)
		require.True(t, ok, "ray %d", i)
		require.InDelta(t, rayHit.Distance, sweepHit.Distance, 1e-2, "ray %d", i)
	}
}

func TestSphereCastCapsuleAndBox(t *testing.T) {
	w := newTestWorld(t)

	capsule := mustHandle(t)(w.CreateCapsuleCollider(rl.Vector3Zero(), vec(0, 1, 0), 1, 4))
	require.NoError(t, w.SetPosition(capsule, vec(10, 0, 0)))
	box := mustHandle(t)(w.CreateBoxCollider(rl.Vector3Zero(), vec(2, 2, 2)))
	require.NoError(t, w.SetPosition(box, vec(-10, 0, 0)))

	hit, ok := w.SphereCast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(20, 0, 0)}, 0.5, AllLayers)
	require.True(t, ok)
	require.Equal(t, capsule, hit.Collider)
	require.InDelta(t, 8.5, hit.Distance, tolerance)

	hit, ok = w.SphereCast(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(-20, 0, 0)}, 0.5, AllLayers)
	require.True(t, ok)
	require.Equal(t, box, hit.Collider)
	require.InDelta(t, 8.5, hit.Distance, tolerance)
}

func TestSlideStopsOnGround(t *testing.T) {
	w := newTestWorld(t)
	mustHandle(t)(w.CreateMeshCollider(groundVertices(400), rl.Vector3Zero()))

	p := w.SphereCastSlide(vec(0, 10, 0), vec(0, -100, 0), 1, AllLayers, DefaultSlideRecursion)
	require.InDelta(t, 1+DefaultSlideEpsilon, p.Y, 1e-2)
	require.InDelta(t, 0, p.X, tolerance)
	require.InDelta(t, 0, p.Z, tolerance)
}

func TestSlideAlongWall(t *testing.T) {
	w := newTestWorld(t)
	wall := quad(vec(5, 0, 0), vec(0, 0, 50), vec(0, 50, 0))
	mustHandle(t)(w.CreateMeshCollider(wall, rl.Vector3Zero()))

	start := rl.Vector3Zero()
	velocity := vec(10, 0, 10)
	radius := float32(0.5)

	contact, ok := w.SphereCast(rl.Ray{Position: start, Direction: velocity}, radius, AllLayers)
	require.True(t, ok)
	require.InDelta(t, -1, contact.Normal.X, 1e-2)

	end := w.SphereCastSlide(start, velocity, radius, AllLayers, DefaultSlideRecursion)
	require.InDelta(t, 4.5, end.X, 0.1)
	require.InDelta(t, 10, end.Z, 0.1)

	// Motion after the contact runs along the wall.
	contactCenter := rl.Vector3Add(start, rl.Vector3Scale(rl.Vector3Normalize(velocity), contact.Distance))
	after := rl.Vector3Normalize(rl.Vector3Subtract(end, contactCenter))
	require.InDelta(t, 0, rl.Vector3DotProduct(after, vec(-1, 0, 0)), 0.02)
}

func TestSlideTerminates(t *testing.T) {
	w := newTestWorld(t)

	// A closed box of walls around the origin.
	mustHandle(t)(w.CreateMeshCollider(quad(vec(2, 0, 0), vec(0, 0, 2), vec(0, 2, 0)), rl.Vector3Zero()))
	mustHandle(t)(w.CreateMeshCollider(quad(vec(-2, 0, 0), vec(0, 2, 0), vec(0, 0, 2)), rl.Vector3Zero()))
	mustHandle(t)(w.CreateMeshCollider(quad(vec(0, 0, 2), vec(0, 2, 0), vec(2, 0, 0)), rl.Vector3Zero()))
	mustHandle(t)(w.CreateMeshCollider(quad(vec(0, 0, -2), vec(2, 0, 0), vec(0, 2, 0)), rl.Vector3Zero()))

	for _, v := range []rl.Vector3{vec(50, 0, 3), vec(-40, 0, 40), vec(0, 0, -100)} {
		p := w.SphereCastSlide(rl.Vector3Zero(), v, 0.5, AllLayers, DefaultSlideRecursion)
		require.Less(t, p.X, float32(1.5+tolerance))
		require.Greater(t, p.X, float32(-1.5-tolerance))
		require.Less(t, p.Z, float32(1.5+tolerance))
		require.Greater(t, p.Z, float32(-1.5-tolerance))
	}

	require.Equal(t, rl.Vector3Zero(), w.SphereCastSlide(rl.Vector3Zero(), vec(5, 0, 0), 0.5, AllLayers, 0))
	require.Equal(t, vec(1, 1, 1), w.SphereCastSlide(vec(1, 1, 1), vec(0.001, 0, 0), 0.5, AllLayers, 8))
}

func TestOverlapSphere(t *testing.T) {
	w := newTestWorld(t)

	sphere := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	require.NoError(t, w.SetPosition(sphere, vec(0, 0, 0)))
	box := mustHandle(t)(w.CreateBoxCollider(rl.Vector3Zero(), vec(2, 2, 2)))
	require.NoError(t, w.SetPosition(box, vec(20, 0, 0)))
	capsule := mustHandle(t)(w.CreateCapsuleCollider(rl.Vector3Zero(), vec(0, 1, 0), 1, 2))
	require.NoError(t, w.SetPosition(capsule, vec(40, 0, 0)))
	mesh := mustHandle(t)(w.CreateMeshCollider(groundVertices(2), vec(60, 0, 0)))

	require.Equal(t, []Handle{sphere}, w.OverlapSphere(vec(1.5, 0, 0), 1, AllLayers, nil))
	require.Equal(t, []Handle{box}, w.OverlapSphere(vec(21.5, 0, 0), 1, AllLayers, nil))
	require.Equal(t, []Handle{capsule}, w.OverlapSphere(vec(40, 2.5, 0), 1, AllLayers, nil))
	require.Equal(t, []Handle{mesh}, w.OverlapSphere(vec(60, 0.5, 0), 1, AllLayers, nil))
	require.Empty(t, w.OverlapSphere(vec(60, 1.5, 0), 1, AllLayers, nil))
	require.Empty(t, w.OverlapSphere(vec(30, 0, 0), 1, AllLayers, nil))
}

func TestForEachCell(t *testing.T) {
	w := newTestWorld(t)
	h := mustHandle(t)(w.CreateSphereCollider(1, rl.Vector3Zero()))
	// Kept clear of cell boundaries so it lands in a leaf.
	require.NoError(t, w.SetPosition(h, vec(-300, 0, 260)))

	total := 0
	cells := 0
	w.ForEachCell(func(b physics.AABB, count int) {
		cells++
		total += count
	})
	require.Equal(t, 1, total)
	require.Equal(t, DefaultDepth+1, cells)
}

func TestRotatedShapesAgreeAcrossQueries(t *testing.T) {
	w := newTestWorld(t)
	rot := rl.QuaternionFromAxisAngle(vec(0, 1, 0), 30*rl.Deg2rad)

	box := mustHandle(t)(w.CreateBoxCollider(rl.Vector3Zero(), vec(10, 2, 1)))
	require.NoError(t, w.SetRotation(box, rot))

	tests := []struct {
		name   string
		x, z   float32
		inside bool
	}{
		{name: "front end", x: 4, z: -2.2, inside: true},
		{name: "back end", x: -4, z: 2.2, inside: true},
		{name: "mirrored front", x: -4, z: -2.2},
		{name: "mirrored back", x: 4, z: 2.2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ray := rl.Ray{Position: vec(test.x, 10, test.z), Direction: vec(0, -20, 0)}

			rayHit, rayOK := w.Raycast(ray, AllLayers)
			sweepHit, sweepOK := w.SphereCast(ray, 1e-3, AllLayers)
			overlaps := w.OverlapSphere(vec(test.x, 0, test.z), 0.1, AllLayers, nil)

			require.Equal(t, test.inside, rayOK)
			require.Equal(t, test.inside, sweepOK)
			require.Equal(t, test.inside, len(overlaps) == 1)
			if test.inside {
				require.InDelta(t, 9, rayHit.Distance, tolerance)
				require.InDelta(t, rayHit.Distance, sweepHit.Distance, 1e-2)
			}
		})
	}

	tilted := []rl.Vector3{vec(-5, 0, -5), vec(-5, 2, 5), vec(5, 1, 0)}
	mesh := mustHandle(t)(w.CreateMeshCollider(tilted, rl.Vector3Zero()))
	require.NoError(t, w.SetTransform(mesh, vec(100, 0, 0), rot, rl.Vector3One()))

	info, err := w.Collider(mesh)
	require.NoError(t, err)
	frame := physics.NewFrame(info.Position, info.Rotation)
	for _, v := range tilted {
		require.True(t, info.Bounds.Inflate(tolerance).Contains(frame.PointToWorld(v)), "%v", v)
	}

	centroid := frame.PointToWorld(vec(-5.0/3, 1, 0))
	ray := rl.Ray{Position: vec(centroid.X, 10, centroid.Z), Direction: vec(0, -20, 0)}
	rayHit, ok := w.Raycast(ray, AllLayers)
	require.True(t, ok)
	require.Equal(t, mesh, rayHit.Collider)
	require.InDelta(t, 9, rayHit.Distance, tolerance)

	sweepHit, ok := w.SphereCast(ray, 1e-3, AllLayers)
	require.True(t, ok)
	require.InDelta(t, rayHit.Distance, sweepHit.Distance, 1e-2)
	require.Equal(t, []Handle{mesh}, w.OverlapSphere(centroid, 0.1, AllLayers, nil))
}

func TestHitBufferGrowsPastMaxHits(t *testing.T) {
	conf := DefaultConfig()
	conf.MaxHits = 2
	w := NewWorld(conf)
	t.Cleanup(w.Close)

	for _, x := range []float32{2, 4, 6, 8, 10} {
		h := mustHandle(t)(w.CreateSphereCollider(0.5, rl.Vector3Zero()))
		require.NoError(t, w.SetPosition(h, vec(x, 0, 0)))
	}

	hits := make([]RayHit, 8)
	require.Equal(t, 5, w.RaycastAll(rl.Ray{Position: rl.Vector3Zero(), Direction: vec(20, 0, 0)}, hits, AllLayers))
	require.InDelta(t, 9.5, hits[4].Distance, tolerance)
}

func gaugeValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "collision_colliders" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == worldLabel && l.GetValue() == name {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCollidersGaugeSumsSharedNames(t *testing.T) {
	conf := DefaultConfig()
	conf.Name = "gauge-shared"
	a := NewWorld(conf)
	b := NewWorld(conf)

	h := mustHandle(t)(a.CreateSphereCollider(1, rl.Vector3Zero()))
	mustHandle(t)(a.CreateSphereCollider(1, rl.Vector3Zero()))
	mustHandle(t)(b.CreateSphereCollider(1, rl.Vector3Zero()))
	require.Equal(t, float64(3), gaugeValue(t, conf.Name))

	require.NoError(t, a.FreeCollider(h))
	require.Equal(t, float64(2), gaugeValue(t, conf.Name))

	b.Close()
	require.Equal(t, float64(1), gaugeValue(t, conf.Name))
	a.Close()
	require.Equal(t, float64(0), gaugeValue(t, conf.Name))
}
