package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// AABB is an axis-aligned bounding box stored as min/max corners.
type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	return NewAABBFromExtents(center, rl.Vector3Scale(size, 0.5))
}

// NewAABBFromExtents creates an AABB from a center point and half-size extents.
func NewAABBFromExtents(center, extents rl.Vector3) AABB {
	extents = absVector(extents)
	return AABB{
		Min: rl.Vector3Subtract(center, extents),
		Max: rl.Vector3Add(center, extents),
	}
}

// NewAABBFromPoints returns the smallest box containing every point.
// An empty slice yields the zero box.
func NewAABBFromPoints(points ...rl.Vector3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Encapsulate(p)
	}
	return b
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// Encapsulate grows the box so it contains p.
func (a AABB) Encapsulate(p rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Min(a.Min, p),
		Max: rl.Vector3Max(a.Max, p),
	}
}

// Inflate grows the box by r on every side.
func (a AABB) Inflate(r float32) AABB {
	d := rl.Vector3{X: r, Y: r, Z: r}
	return AABB{
		Min: rl.Vector3Subtract(a.Min, d),
		Max: rl.Vector3Add(a.Max, d),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// IntersectsXZ ignores the vertical axis.
func (a AABB) IntersectsXZ(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Corners returns the 8 corners of the box.
func (a AABB) Corners() [8]rl.Vector3 {
	return [8]rl.Vector3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}

// Transform returns the axis-aligned bounds of the box after applying m to
// all of its corners.
func (a AABB) Transform(m rl.Matrix) AABB {
	corners := a.Corners()
	out := AABB{Min: rl.Vector3Transform(corners[0], m)}
	out.Max = out.Min
	for _, c := range corners[1:] {
		out = out.Encapsulate(rl.Vector3Transform(c, m))
	}
	return out
}

// BoundingBox converts to the raylib type, clamping infinite extents to
// limit so the result can be drawn.
func (a AABB) BoundingBox(limit float32) rl.BoundingBox {
	clampInf := func(v rl.Vector3) rl.Vector3 {
		return rl.Vector3{
			X: clamp(v.X, -limit, limit),
			Y: clamp(v.Y, -limit, limit),
			Z: clamp(v.Z, -limit, limit),
		}
	}
	return rl.NewBoundingBox(clampInf(a.Min), clampInf(a.Max))
}

func absVector(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Abs(v.X), Y: math32.Abs(v.Y), Z: math32.Abs(v.Z)}
}
