// Package game runs the interactive collision viewer: a walking character,
// bouncing projectiles and scenery on top of a level.
package game

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/camera"
	"collide3d/internal/character"
	"collide3d/internal/collision"
	"collide3d/internal/level"
	"collide3d/internal/scenery"
)

const (
	maxProjectiles   = 256
	projectileTTL    = 20 * time.Second
	shootCooldown    = 0.15
	jumpSpeed        = 8
	mowRadius        = 2
	chopDamage       = 1
	killPlaneY       = -50
	interactDistance = 6
)

// Options configures a Game.
type Options struct {
	LevelPath string
	Depth     uint32
	Spawn     rl.Vector3
}

type projectile struct {
	*character.Projectile
	spawned time.Time
}

type Game struct {
	World  *collision.World
	Field  *scenery.Field
	Player *character.Controller
	Camera *camera.FPSCamera

	colors      map[collision.Handle]rl.Color
	projectiles []projectile

	// Debug toggles driven by the UI panel.
	showCells   bool
	showBounds  bool
	showScenery bool
	paused      bool
	shotSpeed   float32

	lastShotTime float64
	lastContact  string

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New loads the level and places the player. It does not open a window.
func New(opts Options) (*Game, error) {
	conf := collision.DefaultConfig()
	conf.Depth = opts.Depth

	g := &Game{
		World:       collision.NewWorld(conf),
		Camera:      camera.New(),
		colors:      make(map[collision.Handle]rl.Color),
		showScenery: true,
		shotSpeed:   30,
	}
	g.Field = scenery.NewField(g.World, scenery.DefaultKinds(), collision.SceneryConfig())

	f, err := level.Load(opts.LevelPath)
	if err != nil {
		g.Close()
		return nil, err
	}

	handles, err := f.Spawn(g.World)
	if err != nil {
		g.Close()
		return nil, err
	}
	for i, h := range handles {
		g.colors[h] = f.Colliders[i].RGBA()
	}

	if _, err := f.Plant(g.Field); err != nil {
		g.Close()
		return nil, err
	}

	g.Player = character.NewController(g.World, opts.Spawn)
	if _, err := g.Player.AttachCollider(); err != nil {
		g.Close()
		return nil, errors.New("creating player failed").Wrap(err)
	}

	logs.WithTag("level", opts.LevelPath).
		WithTag("colliders", g.World.Len()).
		WithTag("scenery", g.Field.Len()).
		Info("level loaded")
	return g, nil
}

// Close releases every collider.
func (g *Game) Close() {
	g.Field.Clear()
	g.World.Close()
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "collide3d viewer")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)
	rl.DisableCursor()
	initRayguiStyle()

	for !rl.WindowShouldClose() {
		g.Update(rl.GetFrameTime())
		g.Draw()
	}
}

func (g *Game) Update(dt float32) {
	updateStart := time.Now()

	// Toggle between looking around and using the panel.
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsCursorHidden() {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.showCells = !g.showCells
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	looking := rl.IsCursorHidden()
	if looking {
		g.Camera.Look(rl.GetMouseDelta())
	}

	if !g.paused {
		g.updatePlayer(dt, looking)
		g.updateProjectiles(dt)
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) updatePlayer(dt float32, looking bool) {
	move := g.Camera.MoveDirection(
		rl.IsKeyDown(rl.KeyW),
		rl.IsKeyDown(rl.KeyS),
		rl.IsKeyDown(rl.KeyA),
		rl.IsKeyDown(rl.KeyD),
	)
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Player.Jump(jumpSpeed)
	}
	g.Player.Update(move, dt)

	if rl.IsKeyPressed(rl.KeyG) {
		if n := g.Field.Mow(g.Player.Position(), mowRadius); n > 0 {
			logs.WithTag("count", n).Debug("grass mowed")
		}
	}

	if !looking {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) && rl.GetTime()-g.lastShotTime >= shootCooldown {
		g.shoot()
		g.lastShotTime = rl.GetTime()
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		g.chop()
	}
}

func (g *Game) shoot() {
	look := g.Camera.LookDirection()
	eye := g.Camera.Eye(g.Player.Position())
	start := rl.Vector3Add(eye, rl.Vector3Scale(look, 1.5))
	velocity := rl.Vector3Scale(look, g.shotSpeed)

	// Spawning inside geometry would tunnel through it.
	if _, blocked := g.World.Raycast(rl.Ray{Position: eye, Direction: rl.Vector3Scale(look, 1.5)}, g.Player.Mask); blocked {
		return
	}

	var p *character.Projectile
	if len(g.projectiles) >= maxProjectiles {
		// Recycle the oldest projectile.
		p = g.projectiles[0].Projectile
		g.projectiles = append(g.projectiles[:0], g.projectiles[1:]...)
		p.SetPosition(start)
		p.Launch(velocity)
	} else {
		p = character.NewProjectile(g.World, start, velocity)
		p.Radius = 0.15
	}
	g.projectiles = append(g.projectiles, projectile{Projectile: p, spawned: time.Now()})
}

// chop damages the scenery object under the crosshair.
func (g *Game) chop() {
	eye := g.Camera.Eye(g.Player.Position())
	ray := rl.Ray{Position: eye, Direction: rl.Vector3Scale(g.Camera.LookDirection(), interactDistance)}

	hit, ok := g.World.Raycast(ray, g.Player.Mask)
	if !ok || hit.UserData.Type != scenery.UserDataScenery {
		return
	}
	id, _ := hit.UserData.Data.(uint32)

	destroyed, err := g.Field.Damage(id, chopDamage)
	if err != nil {
		logs.Warn(errors.New("damaging scenery failed").Wrap(err))
		return
	}
	if destroyed {
		logs.WithTag("id", id).Info("tree felled")
	}
}

func (g *Game) updateProjectiles(dt float32) {
	now := time.Now()
	live := g.projectiles[:0]

	for _, p := range g.projectiles {
		if contact, ok := p.Update(dt); ok && contact.Bounced {
			g.lastContact = surfaceName(contact.UserData)
		}
		if p.Position().Y < killPlaneY || now.Sub(p.spawned) > projectileTTL {
			continue
		}
		live = append(live, p)
	}

	clear(g.projectiles[len(live):])
	g.projectiles = live
}

func surfaceName(data collision.UserData) string {
	switch data.Type {
	case scenery.UserDataScenery:
		return "scenery"
	case character.UserDataCharacter:
		return "character"
	case level.UserDataLevel:
		if name, ok := data.Data.(string); ok && name != "" {
			return name
		}
		return "level"
	default:
		return "unknown"
	}
}
