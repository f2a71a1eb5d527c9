// Stress test comparing quadtree vs brute-force candidate gathering and
// timing the collision queries built on top of it.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"

	"collide3d/internal/collision"
	"collide3d/internal/physics"
)

var _ = reflect.TypeOf(config{})

type config struct {
	Count       int     `cli:"" env:"COLLISION_STRESS_COUNT"        help:"Number of colliders. Zero runs the default ladder."`
	Seed        int     `cli:"" env:"COLLISION_STRESS_SEED"         help:"Random seed."`
	Queries     int     `cli:"" env:"COLLISION_STRESS_QUERIES"      help:"Number of queries per measurement."`
	Depth       int     `cli:"" env:"COLLISION_STRESS_DEPTH"        help:"Quadtree depth."`
	Extents     float64 `cli:"" env:"COLLISION_STRESS_EXTENTS"      help:"Half size of the world on X and Z."`
	LogLevel    string  `cli:"" env:"COLLISION_STRESS_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	MetricsAddr string  `cli:"" env:"COLLISION_STRESS_METRICS_ADDR" help:"Serve Prometheus metrics on this address and keep running after the test."`
	Help        bool    `cli:"" env:"-"                             help:"Show help."`
}

var ladder = []int{100, 500, 1000, 5000, 10000, 20000}

type result struct {
	Count          int     `json:"count"`
	TreeCandidates float64 `json:"tree_candidates"`
	TreeGather     string  `json:"tree_gather"`
	BruteGather    string  `json:"brute_gather"`
	Raycast        string  `json:"raycast"`
	SphereCast     string  `json:"spherecast"`
	Slide          string  `json:"slide"`
	Dropped        int     `json:"dropped"`
}

func main() {
	conf := config{
		Seed:     42,
		Queries:  2000,
		Depth:    collision.DefaultDepth,
		Extents:  collision.DefaultExtents,
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Measures collision query performance.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	if conf.MetricsAddr != "" {
		go serveMetrics(conf.MetricsAddr)
	}

	counts := ladder
	if conf.Count > 0 {
		counts = []int{conf.Count}
	}

	for _, count := range counts {
		if ctx.Err() != nil {
			return
		}
		res := run(conf, count)
		fmt.Printf("%6d colliders: tree %9v (%7.1f cand) | brute %10v | ray %9v | sphere %9v | slide %9v | dropped %d\n",
			res.Count, res.TreeGather, res.TreeCandidates, res.BruteGather,
			res.Raycast, res.SphereCast, res.Slide, res.Dropped)

		logs.WithTag("count", res.Count).
			WithTag("tree_candidates", res.TreeCandidates).
			WithTag("tree_gather", res.TreeGather).
			WithTag("brute_gather", res.BruteGather).
			Debug("stress run done")
	}

	if conf.MetricsAddr != "" {
		logs.WithTag("addr", conf.MetricsAddr).Info("test done, serving metrics until interrupted")
		<-ctx.Done()
	}
}

func validateConfig(conf config) error {
	if conf.Count < 0 {
		return errors.New("count must not be negative")
	}
	if conf.Queries <= 0 {
		return errors.New("queries must be positive")
	}
	if conf.Depth < 0 {
		return errors.New("depth must not be negative")
	}
	if conf.Extents <= 0 {
		return errors.New("extents must be positive")
	}
	return nil
}

func serveMetrics(addr string) {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())

	logs.WithTag("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, &admin); err != nil {
		logs.Fatal(errors.New("serving metrics failed").Wrap(err))
	}
}

func run(conf config, count int) result {
	rng := rand.New(rand.NewPCG(uint64(conf.Seed), uint64(count)))
	extents := float32(conf.Extents)

	worldConf := collision.DefaultConfig()
	worldConf.Name = "stress"
	worldConf.Depth = uint32(conf.Depth)
	worldConf.Extents = rl.Vector3{X: extents, Y: extents, Z: extents}

	w := collision.NewWorld(worldConf)
	defer w.Close()

	for range count {
		if err := spawn(w, rng, extents); err != nil {
			logs.Fatal(errors.New("spawning collider failed").Wrap(err))
		}
	}

	var all []collision.ColliderInfo
	var dropped int
	w.Colliders(func(info collision.ColliderInfo) {
		all = append(all, info)
		if info.Cell < 0 {
			dropped++
		}
	})

	rays := make([]rl.Ray, conf.Queries)
	for i := range rays {
		origin := randomPoint(rng, extents*0.9)
		origin.Y = 1 + rng.Float32()*10
		dir := rl.Vector3Normalize(rl.Vector3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*0.4 - 0.3,
			Z: rng.Float32()*2 - 1,
		})
		rays[i] = rl.Ray{Position: origin, Direction: rl.Vector3Scale(dir, 5+rng.Float32()*20)}
	}

	res := result{Count: count, Dropped: dropped}

	var candidates int
	var scratch []collision.Handle
	res.TreeGather = measure(len(rays), func(i int) {
		scratch = w.QueryBounds(rayBounds(rays[i]), scratch[:0])
		candidates += len(scratch)
	})
	res.TreeCandidates = float64(candidates) / float64(len(rays))

	var brute int
	res.BruteGather = measure(len(rays), func(i int) {
		b := rayBounds(rays[i])
		for j := range all {
			if all[j].Bounds.IntersectsXZ(b) {
				brute++
			}
		}
	})

	res.Raycast = measure(len(rays), func(i int) {
		w.Raycast(rays[i], collision.AllLayers)
	})
	res.SphereCast = measure(len(rays), func(i int) {
		w.SphereCast(rays[i], 0.5, collision.AllLayers)
	})
	res.Slide = measure(len(rays), func(i int) {
		w.SphereCastSlide(rays[i].Position, rays[i].Direction, 0.5, collision.AllLayers, worldConf.SlideRecursion)
	})

	logs.WithTag("count", count).
		WithTag("brute_candidates", float64(brute)/float64(len(rays))).
		Debug("brute force gather done")
	return res
}

func measure(n int, fn func(i int)) string {
	start := time.Now()
	for i := range n {
		fn(i)
	}
	return (time.Since(start) / time.Duration(n)).Round(time.Nanosecond * 10).String()
}

func rayBounds(ray rl.Ray) physics.AABB {
	return physics.NewAABBFromPoints(ray.Position, rl.Vector3Add(ray.Position, ray.Direction))
}

func randomPoint(rng *rand.Rand, extents float32) rl.Vector3 {
	return rl.Vector3{
		X: (rng.Float32()*2 - 1) * extents,
		Z: (rng.Float32()*2 - 1) * extents,
	}
}

func spawn(w *collision.World, rng *rand.Rand, extents float32) error {
	pos := randomPoint(rng, extents*0.95)
	pos.Y = rng.Float32() * 5

	var h collision.Handle
	var err error
	switch rng.IntN(3) {
	case 0:
		h, err = w.CreateSphereCollider(0.5+rng.Float32(), rl.Vector3Zero())
	case 1:
		size := rl.Vector3{X: 0.5 + rng.Float32()*3, Y: 0.5 + rng.Float32()*3, Z: 0.5 + rng.Float32()*3}
		h, err = w.CreateBoxCollider(rl.Vector3Zero(), size)
	default:
		h, err = w.CreateCapsuleCollider(rl.Vector3Zero(), rl.Vector3{Y: 1}, 0.3+rng.Float32()*0.5, 1+rng.Float32()*3)
	}
	if err != nil {
		return err
	}

	rotation := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, rng.Float32()*2*rl.Pi)
	return w.SetTransform(h, pos, rotation, rl.Vector3One())
}
