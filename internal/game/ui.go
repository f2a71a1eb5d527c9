package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors - indigo dark theme
var (
	colorBgDark        = rl.NewColor(10, 10, 15, 255)
	colorBgPanel       = rl.NewColor(18, 18, 24, 235)
	colorBgElement     = rl.NewColor(28, 28, 38, 255)
	colorBgHover       = rl.NewColor(38, 38, 52, 255)
	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
)

const (
	panelWidth  = 230
	panelHeight = 330
	rowHeight   = 24
)

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

func (g *Game) drawUI() {
	rl.DrawText("WASD move, Space jump, LMB shoot, RMB chop, G mow", 10, 10, 18, rl.LightGray)
	rl.DrawText("Tab toggles the cursor, F1 cells, P pause", 10, 32, 18, rl.LightGray)
	rl.DrawFPS(10, 56)

	x := float32(rl.GetScreenWidth() - panelWidth - 10)
	y := float32(10)
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: panelWidth, Height: panelHeight}, colorBgPanel)

	x += 10
	y += 10
	row := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}
		y += rowHeight
		return r
	}
	text := func(format string, args ...any) {
		rl.DrawText(fmt.Sprintf(format, args...), int32(x), int32(y), 14, colorTextSecondary)
		y += rowHeight - 6
	}

	g.showCells = gui.CheckBox(row(), "Index cells", g.showCells)
	g.showBounds = gui.CheckBox(row(), "Collider bounds", g.showBounds)
	g.showScenery = gui.CheckBox(row(), "Scenery", g.showScenery)
	g.paused = gui.CheckBox(row(), "Paused", g.paused)

	slider := rl.Rectangle{X: x + 50, Y: y, Width: panelWidth - 100, Height: 16}
	g.shotSpeed = gui.Slider(slider, "Shot", fmt.Sprintf("%.0f", g.shotSpeed), g.shotSpeed, 5, 80)
	y += rowHeight

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: panelWidth - 20, Height: 20}, "Clear projectiles") {
		clear(g.projectiles)
		g.projectiles = g.projectiles[:0]
	}
	y += rowHeight + 6

	pos := g.Player.Position()
	vel := g.Player.Velocity()
	text("Colliders:   %d", g.World.Len())
	text("Scenery:     %d", g.Field.Len())
	text("Projectiles: %d", len(g.projectiles))
	text("Position: %.1f %.1f %.1f", pos.X, pos.Y, pos.Z)
	text("Speed:    %.2f", rl.Vector3Length(vel))
	text("Grounded: %t", g.Player.IsGrounded())
	text("Last bounce: %s", g.lastContact)
	text("Update: %.2f ms", g.updateMs)
	text("Draw:   %.2f ms", g.drawMs)
}
