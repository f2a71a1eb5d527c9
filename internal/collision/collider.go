package collision

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/physics"
	"collide3d/internal/spatial"
)

const (
	// LayerDefault is the layer given to new colliders.
	LayerDefault uint32 = 1

	// AllLayers matches every layer.
	AllLayers = ^uint32(0)
)

// Handle refers to a collider in a World. The zero Handle is invalid.
type Handle struct {
	index      uint32
	generation uint32
}

func (h Handle) IsValid() bool {
	return h.generation != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

// UserData is an opaque value attached by gameplay code. The collision
// engine never reads it.
type UserData struct {
	Data any
	Type uint32
}

// ColliderInfo is a snapshot of a collider's state.
type ColliderInfo struct {
	Handle   Handle
	Shape    Shape
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
	Offset   rl.Vector3
	Bounds   physics.AABB
	Layer    uint32
	Enabled  bool
	UserData UserData

	// Cell is the spatial index cell holding the collider, or
	// spatial.NoCell when it was dropped.
	Cell int32
}

type collider struct {
	generation uint32
	alive      bool

	shape    Shape
	position rl.Vector3
	rotation rl.Quaternion
	scale    rl.Vector3
	offset   rl.Vector3

	local physics.AABB
	world physics.AABB

	layer    uint32
	enabled  bool
	userData UserData
	cell     int32
}

func newCollider(shape Shape, offset rl.Vector3, generation uint32) collider {
	c := collider{
		generation: generation,
		alive:      true,
		shape:      shape,
		rotation:   rl.QuaternionIdentity(),
		scale:      rl.Vector3One(),
		offset:     offset,
		local:      shape.bounds(),
		layer:      LayerDefault,
		enabled:    true,
		cell:       spatial.NoCell,
	}
	c.world = c.worldBounds()
	return c
}

// center is the world position of the shape's origin. The offset is not
// rotated.
func (c *collider) center() rl.Vector3 {
	return rl.Vector3Add(c.position, c.offset)
}

func (c *collider) frame() physics.Frame {
	return physics.NewFrame(c.center(), c.rotation)
}

func (c *collider) transform() rl.Matrix {
	return physics.TRS(c.center(), c.rotation, c.scale)
}

func (c *collider) uniformScale() float32 {
	return physics.MaxAbsComponent(c.scale)
}

func (c *collider) sphereRadius(s Sphere) float32 {
	return s.Radius * c.uniformScale()
}

func (c *collider) boxSize(b Box) rl.Vector3 {
	return rl.Vector3Multiply(b.Size, c.scale)
}

func (c *collider) capsule(cp Capsule) (radius, height float32) {
	s := c.uniformScale()
	return cp.Radius * s, cp.Height * s
}

// worldBounds derives the axis-aligned bounds of the placed shape.
func (c *collider) worldBounds() physics.AABB {
	switch s := c.shape.(type) {
	case Sphere:
		r := c.sphereRadius(s)
		return physics.NewAABBFromExtents(c.center(), rl.Vector3{X: r, Y: r, Z: r})
	case Box:
		return physics.NewOBB(c.center(), c.boxSize(s), c.rotation).Bounds()
	case Capsule:
		radius, height := c.capsule(s)
		scaled := Capsule{Dir: s.Dir, Radius: radius, Height: height}
		return scaled.bounds().Transform(physics.TRS(c.center(), c.rotation, rl.Vector3One()))
	default:
		return c.local.Transform(c.transform())
	}
}

func (c *collider) info(h Handle) ColliderInfo {
	return ColliderInfo{
		Handle:   h,
		Shape:    c.shape,
		Position: c.position,
		Rotation: c.rotation,
		Scale:    c.scale,
		Offset:   c.offset,
		Bounds:   c.world,
		Layer:    c.layer,
		Enabled:  c.enabled,
		UserData: c.userData,
		Cell:     c.cell,
	}
}

// matches reports whether the collider takes part in a query with mask.
func (c *collider) matches(mask uint32) bool {
	return c.alive && c.enabled && c.layer&mask != 0
}
