package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/collision"
	"collide3d/internal/physics"
	"collide3d/internal/scenery"
)

const boundsLimit = 1000

var (
	colorSky        = rl.NewColor(20, 20, 30, 255)
	colorCell       = rl.NewColor(108, 99, 255, 120)
	colorBounds     = rl.NewColor(255, 200, 0, 160)
	colorProjectile = rl.Orange
	colorTrunk      = rl.NewColor(110, 75, 40, 255)
	colorLeaves     = rl.NewColor(40, 120, 50, 255)
	colorBush       = rl.NewColor(60, 140, 60, 255)
	colorGrass      = rl.NewColor(110, 180, 70, 255)
)

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorSky)

	drawStart := time.Now()
	rl.BeginMode3D(g.Camera.Camera(g.Player.Position()))
	g.drawColliders()
	if g.showScenery {
		g.drawScenery()
	}
	for _, p := range g.projectiles {
		rl.DrawSphere(p.Position(), p.Radius, colorProjectile)
	}
	if g.showCells {
		g.World.ForEachCell(func(bounds physics.AABB, count int) {
			if count > 0 {
				rl.DrawBoundingBox(bounds.BoundingBox(20), colorCell)
			}
		})
	}
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawColliders() {
	g.World.Colliders(func(info collision.ColliderInfo) {
		// The player's own body is not drawn in first person.
		if info.Handle == g.Player.Collider() {
			return
		}
		if g.showBounds {
			rl.DrawBoundingBox(info.Bounds.BoundingBox(boundsLimit), colorBounds)
		}
		if info.UserData.Type == scenery.UserDataScenery {
			return
		}

		color, ok := g.colors[info.Handle]
		if !ok {
			color = rl.LightGray
		}
		if !info.Enabled {
			color = rl.Fade(color, 0.25)
		}
		drawShape(info, color)
	})
}

func drawShape(info collision.ColliderInfo, color rl.Color) {
	center := rl.Vector3Add(info.Position, info.Offset)
	frame := physics.NewFrame(center, info.Rotation)
	scale := physics.MaxAbsComponent(info.Scale)

	switch s := info.Shape.(type) {
	case collision.Sphere:
		rl.DrawSphere(center, s.Radius*scale, color)

	case collision.Box:
		size := rl.Vector3Multiply(s.Size, info.Scale)
		tris := physics.BoxTriangles(rl.Vector3Scale(size, 0.5))
		for i := 0; i < len(tris); i += 3 {
			rl.DrawTriangle3D(frame.PointToWorld(tris[i]), frame.PointToWorld(tris[i+1]), frame.PointToWorld(tris[i+2]), color)
		}
		drawWireBox(frame, size, rl.Black)

	case collision.Capsule:
		half := rl.Vector3Scale(s.Dir, s.Height*scale*0.5)
		rl.DrawCapsule(frame.PointToWorld(rl.Vector3Negate(half)), frame.PointToWorld(half), s.Radius*scale, 12, 6, color)

	case collision.Mesh:
		m := physics.TRS(center, info.Rotation, info.Scale)
		for i := 0; i+2 < len(s.Vertices); i += 3 {
			rl.DrawTriangle3D(
				rl.Vector3Transform(s.Vertices[i], m),
				rl.Vector3Transform(s.Vertices[i+1], m),
				rl.Vector3Transform(s.Vertices[i+2], m),
				color,
			)
		}
	}
}

func drawWireBox(frame physics.Frame, size rl.Vector3, color rl.Color) {
	corners := physics.NewAABBFromCenter(rl.Vector3Zero(), size).Corners()
	for i := range corners {
		corners[i] = frame.PointToWorld(corners[i])
	}
	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			// Corners differing in exactly one axis share an edge.
			if diff := i ^ j; diff == 1 || diff == 2 || diff == 4 {
				rl.DrawLine3D(corners[i], corners[j], color)
			}
		}
	}
}

func (g *Game) drawScenery() {
	kinds := g.Field.Kinds()
	g.Field.Objects(func(o scenery.Object) {
		kind, _ := kinds.Get(o.Kind)
		switch kind.Name {
		case "tree":
			height := 10 * o.Scale.Y
			rl.DrawCylinder(o.Position, 0.3, 0.4, height, 8, colorTrunk)
			rl.DrawSphere(rl.Vector3Add(o.Position, rl.Vector3{Y: height}), kind.Radius, colorLeaves)
		case "bush":
			rl.DrawSphere(rl.Vector3Add(o.Position, rl.Vector3{Y: 0.5 * o.Scale.Y}), kind.Radius*0.5, colorBush)
		default:
			rl.DrawCubeV(rl.Vector3Add(o.Position, rl.Vector3{Y: 0.2 * o.Scale.Y}), rl.Vector3{X: 0.1, Y: 0.4 * o.Scale.Y, Z: 0.1}, colorGrass)
		}
	})
}
