package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/physics"
)

// SphereCastSlide moves a sphere of radius from position by velocity,
// sliding along whatever it touches. Each contact redirects the remaining
// motion along the contact plane and costs one unit of recursion. The
// returned position is where the sphere ends up.
func (w *World) SphereCastSlide(position, velocity rl.Vector3, radius float32, mask uint32, recursion int) rl.Vector3 {
	w.instrumentQuery(querySlide)
	return w.slide(position, velocity, radius, mask, recursion)
}

func (w *World) slide(position, velocity rl.Vector3, radius float32, mask uint32, recursion int) rl.Vector3 {
	eps := w.conf.SlideEpsilon
	speed := rl.Vector3Length(velocity)
	if speed < eps || recursion <= 0 {
		return position
	}

	destination := rl.Vector3Add(position, velocity)
	hit, ok := w.SphereCast(rl.Ray{Position: position, Direction: velocity}, radius, mask)
	if !ok {
		return destination
	}

	// Stop just short of the contact.
	base := position
	if hit.Distance >= eps {
		dir := rl.Vector3Scale(velocity, 1/speed)
		base = rl.Vector3Add(position, rl.Vector3Scale(dir, hit.Distance-eps))
	}

	plane := physics.NewPlane(hit.Point, rl.Vector3Subtract(base, hit.Point))
	target := plane.Project(destination)
	remaining := rl.Vector3Subtract(target, hit.Point)

	return w.slide(base, remaining, radius, mask, recursion-1)
}
