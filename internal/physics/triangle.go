package physics

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle is three vertices in counter-clockwise order.
type Triangle struct {
	V0, V1, V2 rl.Vector3
}

// Normal returns the unit face normal following the winding order.
func (t Triangle) Normal() rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3CrossProduct(
		rl.Vector3Subtract(t.V1, t.V0),
		rl.Vector3Subtract(t.V2, t.V0),
	))
}

// Scaled returns the triangle with every vertex multiplied by s component-wise.
func (t Triangle) Scaled(s rl.Vector3) Triangle {
	return Triangle{
		V0: rl.Vector3Multiply(t.V0, s),
		V1: rl.Vector3Multiply(t.V1, s),
		V2: rl.Vector3Multiply(t.V2, s),
	}
}

// TriangleAt returns triangle i of a flat vertex list.
func TriangleAt(vertices []rl.Vector3, i int) Triangle {
	return Triangle{V0: vertices[i*3], V1: vertices[i*3+1], V2: vertices[i*3+2]}
}

// PointInTriangle reports whether p, assumed to lie on the triangle's plane,
// is inside it. Uses barycentric coordinates.
func PointInTriangle(p, a, b, c rl.Vector3) bool {
	v0 := rl.Vector3Subtract(c, a)
	v1 := rl.Vector3Subtract(b, a)
	v2 := rl.Vector3Subtract(p, a)

	dot00 := rl.Vector3DotProduct(v0, v0)
	dot01 := rl.Vector3DotProduct(v0, v1)
	dot02 := rl.Vector3DotProduct(v0, v2)
	dot11 := rl.Vector3DotProduct(v1, v1)
	dot12 := rl.Vector3DotProduct(v1, v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

// ClosestPointOnTriangle finds the closest point on a triangle to point p
func ClosestPointOnTriangle(p, a, b, c rl.Vector3) rl.Vector3 {
	// Vertex region outside A
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Vertex region outside B
	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Edge region of AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v))
	}

	// Vertex region outside C
	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Edge region of AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w))
	}

	// Edge region of BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w))
	}

	// Inside face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}

// RayTriangle runs Möller-Trumbore against a triangle. dir must be unit
// length; the returned t is the distance along it. Hits closer than Epsilon
// are ignored.
func RayTriangle(origin, dir rl.Vector3, tri Triangle) (float32, bool) {
	edge1 := rl.Vector3Subtract(tri.V1, tri.V0)
	edge2 := rl.Vector3Subtract(tri.V2, tri.V0)

	h := rl.Vector3CrossProduct(dir, edge2)
	det := rl.Vector3DotProduct(edge1, h)
	if det > -Epsilon && det < Epsilon {
		return 0, false // parallel
	}

	inv := 1 / det
	s := rl.Vector3Subtract(origin, tri.V0)
	u := inv * rl.Vector3DotProduct(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := rl.Vector3CrossProduct(s, edge1)
	v := inv * rl.Vector3DotProduct(dir, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := inv * rl.Vector3DotProduct(edge2, q)
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// BoxTriangles returns the 12 outward-facing triangles of a box centered on
// the origin with the given half extents.
func BoxTriangles(half rl.Vector3) [36]rl.Vector3 {
	x := rl.Vector3{X: half.X}
	y := rl.Vector3{Y: half.Y}
	z := rl.Vector3{Z: half.Z}

	// Each face is (normal, u, v) with u x v pointing along the normal.
	faces := [6][3]rl.Vector3{
		{x, y, z},
		{rl.Vector3Negate(x), z, y},
		{y, z, x},
		{rl.Vector3Negate(y), x, z},
		{z, x, y},
		{rl.Vector3Negate(z), y, x},
	}

	var out [36]rl.Vector3
	for i, f := range faces {
		c, u, v := f[0], f[1], f[2]
		q0 := rl.Vector3Subtract(rl.Vector3Subtract(c, u), v)
		q1 := rl.Vector3Subtract(rl.Vector3Add(c, u), v)
		q2 := rl.Vector3Add(rl.Vector3Add(c, u), v)
		q3 := rl.Vector3Add(rl.Vector3Subtract(c, u), v)
		copy(out[i*6:], []rl.Vector3{q0, q1, q2, q0, q2, q3})
	}
	return out
}

// ExpandIndexed flattens an indexed vertex list into one vertex per triangle
// corner. ok is false when the index count is not a multiple of 3 or an
// index is out of range.
func ExpandIndexed(vertices []rl.Vector3, indices []uint16) ([]rl.Vector3, bool) {
	if len(indices)%3 != 0 {
		return nil, false
	}
	out := make([]rl.Vector3, 0, len(indices))
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, false
		}
		out = append(out, vertices[i])
	}
	return out, true
}

// MeshVertices extracts the triangle list of a raylib mesh, expanding the
// index buffer when present.
func MeshVertices(mesh rl.Mesh) []rl.Vector3 {
	if mesh.Vertices == nil || mesh.VertexCount == 0 {
		return nil
	}

	raw := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
	vertices := make([]rl.Vector3, mesh.VertexCount)
	for i := range vertices {
		vertices[i] = rl.Vector3{X: raw[i*3+0], Y: raw[i*3+1], Z: raw[i*3+2]}
	}

	if mesh.Indices == nil {
		// Non-indexed mesh (every 3 vertices = 1 triangle)
		return vertices[:len(vertices)-len(vertices)%3]
	}

	indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
	expanded, ok := ExpandIndexed(vertices, indices)
	if !ok {
		return nil
	}
	return expanded
}
