// Interactive viewer for a level: walk around, shoot bouncing projectiles
// and inspect the collision index.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/segmentio/encoding/json"

	"collide3d/internal/collision"
	"collide3d/internal/game"
)

type config struct {
	Level    string `cli:"" env:"COLLISION_VIEWER_LEVEL"     help:"Level file to load."`
	Depth    int    `cli:"" env:"COLLISION_VIEWER_DEPTH"     help:"Quadtree depth of the collision world."`
	LogLevel string `cli:"" env:"COLLISION_VIEWER_LOG_LEVEL" help:"Log level (debug|info|warning|error)."`
	Help     bool   `cli:"" env:"-"                          help:"Show help."`
}

func main() {
	conf := config{
		Level:    "assets/levels/playground.json",
		Depth:    collision.DefaultDepth,
		LogLevel: logs.InfoLevel.String(),
	}

	cli.Register().
		Help("Opens a level in the collision viewer.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	if conf.Depth < 0 {
		logs.Fatal(errors.New("depth must not be negative").WithTag("depth", conf.Depth))
	}

	// Relative level paths resolve next to deployed builds.
	// "go run" puts the binary in a temp directory, so skip it there.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") && !filepath.IsAbs(conf.Level) {
			if err := os.Chdir(execDir); err != nil {
				logs.Warn(errors.New("changing working directory failed").Wrap(err))
			}
		}
	}

	g, err := game.New(game.Options{
		LevelPath: conf.Level,
		Depth:     uint32(conf.Depth),
		Spawn:     rl.Vector3{Y: 2},
	})
	if err != nil {
		logs.Fatal(errors.New("starting viewer failed").Wrap(err))
	}
	defer g.Close()

	g.Run()
}
