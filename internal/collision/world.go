// Package collision indexes sphere, box, capsule and mesh colliders in a
// Morton quadtree and answers ray casts, sphere casts and collide-and-slide
// moves against them.
//
// A World is not safe for concurrent use. All mutations and queries are
// expected to run on the simulation thread.
package collision

import (
	"slices"

	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"collide3d/internal/physics"
	"collide3d/internal/spatial"
)

// World owns colliders and the spatial index over them.
type World struct {
	id    string
	conf  Config
	index *spatial.Quadtree[Handle]

	colliders []collider
	free      []uint32
	count     int

	// Scratch buffers reused across queries.
	candidates []Handle
	hits       []RayHit
}

// NewWorld creates an empty world covering conf's area.
func NewWorld(conf Config) *World {
	conf = conf.normalized()
	bounds := physics.NewAABBFromExtents(conf.Center, conf.Extents)

	w := &World{
		id:    uuid.NewString(),
		conf:  conf,
		index: spatial.New[Handle](conf.Depth, bounds),
		hits:  make([]RayHit, 0, conf.MaxHits),
	}

	logs.WithTag("world", w.id).
		WithTag("name", conf.Name).
		WithTag("depth", conf.Depth).
		Debug("collision world created")
	return w
}

func (w *World) ID() string {
	return w.id
}

func (w *World) Config() Config {
	return w.conf
}

// Len returns the number of live colliders.
func (w *World) Len() int {
	return w.count
}

// Bounds returns the area covered by the spatial index.
func (w *World) Bounds() physics.AABB {
	return w.index.Bounds()
}

// Close frees every collider. Outstanding handles become stale.
func (w *World) Close() {
	freed := w.count
	w.index.Clear()
	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.alive {
			continue
		}
		*c = collider{generation: c.generation}
		w.free = append(w.free, uint32(i))
	}
	w.count = 0
	w.instrumentColliders(-freed)

	logs.WithTag("world", w.id).
		WithTag("name", w.conf.Name).
		WithTag("freed", freed).
		Info("collision world closed")
}

func (w *World) get(h Handle) (*collider, error) {
	if !h.IsValid() || int(h.index) >= len(w.colliders) {
		return nil, staleHandle(h)
	}
	c := &w.colliders[h.index]
	if !c.alive || c.generation != h.generation {
		return nil, staleHandle(h)
	}
	return c, nil
}

func (w *World) register(shape Shape, offset rl.Vector3) Handle {
	var index uint32
	var generation uint32 = 1

	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
		generation = w.colliders[index].generation + 1
		if generation == 0 {
			generation = 1
		}
		w.colliders[index] = newCollider(shape, offset, generation)
	} else {
		index = uint32(len(w.colliders))
		w.colliders = append(w.colliders, newCollider(shape, offset, generation))
	}

	h := Handle{index: index, generation: generation}
	w.count++
	w.instrumentColliders(1)
	w.reindex(h, &w.colliders[index])
	return h
}

// reindex recomputes world bounds and moves the collider to its new cell.
func (w *World) reindex(h Handle, c *collider) {
	c.world = c.worldBounds()
	c.cell = w.index.Update(h, c.world)
	if c.cell == spatial.NoCell {
		w.instrumentDropped()
		logs.WithTag("world", w.id).
			WithTag("collider", h.String()).
			WithTag("shape", c.shape.Kind().String()).
			Debug("collider does not fit the spatial index")
	}
}

// CreateSphereCollider registers a sphere centered at offset from the
// collider position.
func (w *World) CreateSphereCollider(radius float32, offset rl.Vector3) (Handle, error) {
	if !(radius > 0) {
		return Handle{}, invalidShape("sphere radius must be positive")
	}
	return w.register(Sphere{Radius: radius}, offset), nil
}

// CreateBoxCollider registers a box of full size centered at center from
// the collider position.
func (w *World) CreateBoxCollider(center, size rl.Vector3) (Handle, error) {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return Handle{}, invalidShape("box size must be positive")
	}
	return w.register(Box{Size: size}, center), nil
}

// CreateCapsuleCollider registers a capsule whose segment of height runs
// along dir through offset.
func (w *World) CreateCapsuleCollider(offset, dir rl.Vector3, radius, height float32) (Handle, error) {
	if !(radius > 0) {
		return Handle{}, invalidShape("capsule radius must be positive")
	}
	if !(height > 0) {
		return Handle{}, invalidShape("capsule height must be positive")
	}
	if rl.Vector3Length(dir) < physics.Epsilon {
		return Handle{}, invalidShape("capsule direction must not be zero")
	}
	return w.register(Capsule{Dir: rl.Vector3Normalize(dir), Radius: radius, Height: height}, offset), nil
}

// CreateMeshCollider registers a triangle list. The vertices are copied.
func (w *World) CreateMeshCollider(vertices []rl.Vector3, offset rl.Vector3) (Handle, error) {
	if len(vertices) == 0 {
		return Handle{}, invalidShape("mesh has no vertices")
	}
	if len(vertices)%3 != 0 {
		return Handle{}, invalidShape("mesh vertex count must be a multiple of 3")
	}
	return w.register(Mesh{Vertices: slices.Clone(vertices)}, offset), nil
}

// CreateMeshColliderIndexed registers a mesh given as a vertex buffer and a
// triangle index buffer. Indices are resolved to positions.
func (w *World) CreateMeshColliderIndexed(vertices []rl.Vector3, indices []uint16, offset rl.Vector3) (Handle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return Handle{}, invalidShape("mesh has no vertices")
	}
	expanded, ok := physics.ExpandIndexed(vertices, indices)
	if !ok {
		return Handle{}, invalidShape("mesh indices are invalid")
	}
	return w.register(Mesh{Vertices: expanded}, offset), nil
}

// CreateMeshColliderFromMesh registers the triangles of a raylib mesh.
func (w *World) CreateMeshColliderFromMesh(mesh rl.Mesh, offset rl.Vector3) (Handle, error) {
	vertices := physics.MeshVertices(mesh)
	if len(vertices) == 0 {
		return Handle{}, invalidShape("mesh has no vertices")
	}
	return w.register(Mesh{Vertices: vertices}, offset), nil
}

// FreeCollider removes a collider from the index and releases it. The
// handle and any copies of it become stale.
func (w *World) FreeCollider(h Handle) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}

	w.index.Remove(h)
	*c = collider{generation: c.generation}
	w.free = append(w.free, h.index)
	w.count--
	w.instrumentColliders(-1)
	return nil
}

// Collider returns a snapshot of a collider.
func (w *World) Collider(h Handle) (ColliderInfo, error) {
	c, err := w.get(h)
	if err != nil {
		return ColliderInfo{}, err
	}
	return c.info(h), nil
}

// Colliders calls fn for every live collider in handle order.
func (w *World) Colliders(fn func(ColliderInfo)) {
	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.alive {
			continue
		}
		fn(c.info(Handle{index: uint32(i), generation: c.generation}))
	}
}

func (w *World) SetPosition(h Handle, position rl.Vector3) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.position = position
	w.reindex(h, c)
	return nil
}

func (w *World) SetRotation(h Handle, rotation rl.Quaternion) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.rotation = rl.QuaternionNormalize(rotation)
	w.reindex(h, c)
	return nil
}

func (w *World) SetScale(h Handle, scale rl.Vector3) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.scale = scale
	w.reindex(h, c)
	return nil
}

// SetTransform sets position, rotation and scale with a single re-index.
func (w *World) SetTransform(h Handle, position rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.position = position
	c.rotation = rl.QuaternionNormalize(rotation)
	c.scale = scale
	w.reindex(h, c)
	return nil
}

// SetEnabled toggles whether queries see the collider. Disabled colliders
// stay indexed.
func (w *World) SetEnabled(h Handle, enabled bool) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.enabled = enabled
	return nil
}

func (w *World) SetLayer(h Handle, layer uint32) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.layer = layer
	return nil
}

func (w *World) SetUserData(h Handle, data UserData) error {
	c, err := w.get(h)
	if err != nil {
		return err
	}
	c.userData = data
	return nil
}
