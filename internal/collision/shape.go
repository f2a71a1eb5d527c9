package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/physics"
)

// ShapeKind identifies the active variant of a Shape.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCapsule
	ShapeMesh
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	case ShapeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Shape is one of Sphere, Box, Capsule or Mesh.
type Shape interface {
	Kind() ShapeKind

	// bounds returns the shape's bounds around its own origin, before the
	// collider's placement is applied.
	bounds() physics.AABB
}

type Sphere struct {
	Radius float32
}

func (Sphere) Kind() ShapeKind { return ShapeSphere }

func (s Sphere) bounds() physics.AABB {
	return physics.NewAABBFromExtents(rl.Vector3Zero(), rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius})
}

// Box is centered on the collider origin with full Size.
type Box struct {
	Size rl.Vector3
}

func (Box) Kind() ShapeKind { return ShapeBox }

func (b Box) bounds() physics.AABB {
	return physics.NewAABBFromCenter(rl.Vector3Zero(), b.Size)
}

// Capsule is a segment of Height along Dir, centered on the collider origin,
// inflated by Radius.
type Capsule struct {
	Dir    rl.Vector3
	Radius float32
	Height float32
}

func (Capsule) Kind() ShapeKind { return ShapeCapsule }

func (c Capsule) bounds() physics.AABB {
	half := rl.Vector3Scale(rl.Vector3Normalize(c.Dir), c.Height/2)
	return physics.NewAABBFromPoints(half, rl.Vector3Negate(half)).Inflate(c.Radius)
}

// Mesh is a triangle list owned by the collider.
type Mesh struct {
	Vertices []rl.Vector3
}

func (Mesh) Kind() ShapeKind { return ShapeMesh }

func (m Mesh) bounds() physics.AABB {
	return physics.NewAABBFromPoints(m.Vertices...)
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}
