package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/spatial"
)

const (
	DefaultDepth          = 5
	DefaultSceneryDepth   = 4
	DefaultExtents        = 500
	DefaultMaxHits        = 64
	DefaultSlideEpsilon   = 0.005
	DefaultSlideRecursion = 8
)

// Config describes the area covered by a world and its query limits.
type Config struct {
	// Name labels the world's metrics.
	Name string

	// Depth of the spatial index, clamped to spatial.MaxDepth.
	Depth uint32

	// Center and Extents (half size) of the indexed area. Only X and Z
	// matter for placement.
	Center  rl.Vector3
	Extents rl.Vector3

	// MaxHits is the initial capacity of the hit buffer shared by queries.
	// The buffer grows when a query collects more hits.
	MaxHits int

	SlideEpsilon   float32
	SlideRecursion int
}

// DefaultConfig returns the configuration used for moving actors.
func DefaultConfig() Config {
	return Config{
		Name:           "actors",
		Depth:          DefaultDepth,
		Extents:        rl.Vector3{X: DefaultExtents, Y: DefaultExtents, Z: DefaultExtents},
		MaxHits:        DefaultMaxHits,
		SlideEpsilon:   DefaultSlideEpsilon,
		SlideRecursion: DefaultSlideRecursion,
	}
}

// SceneryConfig returns the shallower configuration used for decorative
// scenery.
func SceneryConfig() Config {
	c := DefaultConfig()
	c.Name = "scenery"
	c.Depth = DefaultSceneryDepth
	return c
}

func (c Config) normalized() Config {
	if c.Name == "" {
		c.Name = "default"
	}
	c.Depth = min(c.Depth, spatial.MaxDepth)
	if c.MaxHits <= 0 {
		c.MaxHits = DefaultMaxHits
	}
	if c.SlideEpsilon <= 0 {
		c.SlideEpsilon = DefaultSlideEpsilon
	}
	if c.SlideRecursion <= 0 {
		c.SlideRecursion = DefaultSlideRecursion
	}
	return c
}
