// Package scenery manages large numbers of static decorative objects such as
// grass, bushes and trees. Objects are indexed in their own quadtree for
// spacing and area removal and, when their kind has a collider, registered
// in a collision world.
package scenery

import (
	"math/rand/v2"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/collision"
	"collide3d/internal/physics"
	"collide3d/internal/spatial"
)

// UserDataScenery tags colliders owned by a Field. Their UserData.Data holds
// the object id as a uint32.
const UserDataScenery uint32 = 3

// Object is a placed scenery object.
type Object struct {
	ID       uint32
	Kind     KindID
	Position rl.Vector3
	// Scale is the render scale. Height varies per position in [0.5, 1].
	Scale    rl.Vector3
	Health   float32
	Collider collision.Handle

	alive bool
}

// Field owns scenery objects placed in a collision world.
type Field struct {
	// GroundMask selects the layers Scatter snaps onto.
	GroundMask uint32

	world *collision.World
	kinds *Kinds
	index *spatial.Quadtree[uint32]

	objects []Object
	free    []uint32
	count   int
	scratch []uint32
}

// NewField creates an empty field. conf sets the area and depth of the
// field's own index, typically collision.SceneryConfig().
func NewField(w *collision.World, kinds *Kinds, conf collision.Config) *Field {
	bounds := physics.NewAABBFromExtents(conf.Center, conf.Extents)
	return &Field{
		GroundMask: collision.AllLayers,
		world:      w,
		kinds:      kinds,
		index:      spatial.New[uint32](conf.Depth, bounds),
	}
}

func (f *Field) Kinds() *Kinds {
	return f.kinds
}

// Len returns the number of live objects.
func (f *Field) Len() int {
	return f.count
}

func footprint(position rl.Vector3, radius float32) physics.AABB {
	return physics.NewAABBFromExtents(position, rl.Vector3{X: radius, Y: radius, Z: radius})
}

// variation derives a stable pseudo random value in [0, 1] from a position.
func variation(p rl.Vector3) float32 {
	h := uint32(int32(p.X))*92837111 ^ uint32(int32(p.Y))*689287499 ^ uint32(int32(p.Z))*283923481
	h ^= h >> 15
	h *= 0x2c1b3c6d
	h ^= h >> 12
	return float32(h%256) / 255
}

// Add places an object of kind at position and returns its id.
func (f *Field) Add(kind KindID, position rl.Vector3) (uint32, error) {
	k, ok := f.kinds.Get(kind)
	if !ok {
		return 0, unknownKind(kind)
	}

	bounds := footprint(position, k.Radius)
	if _, ok := f.index.SlotFor(bounds); !ok {
		return 0, errors.New("scenery object outside the field").
			WithType(ErrTypeOutOfBounds).
			WithTag("kind", k.Name)
	}

	var id uint32
	if n := len(f.free); n > 0 {
		id = f.free[n-1]
		f.free = f.free[:n-1]
	} else {
		id = uint32(len(f.objects))
		f.objects = append(f.objects, Object{})
	}

	collider, err := f.createCollider(id, k, position)
	if err != nil {
		f.free = append(f.free, id)
		return 0, errors.New("creating scenery collider failed").
			WithTag("kind", k.Name).
			Wrap(err)
	}

	f.objects[id] = Object{
		ID:       id,
		Kind:     kind,
		Position: position,
		Scale:    rl.Vector3{X: 1, Y: variation(position)*0.5 + 0.5, Z: 1},
		Health:   k.Health,
		Collider: collider,
		alive:    true,
	}
	f.index.Insert(id, bounds)
	f.count++
	objectsGauge.Inc()
	return id, nil
}

func (f *Field) createCollider(id uint32, k Kind, position rl.Vector3) (collision.Handle, error) {
	var h collision.Handle
	var err error

	switch s := k.Collider.(type) {
	case nil:
		return collision.Handle{}, nil
	case collision.Sphere:
		h, err = f.world.CreateSphereCollider(s.Radius, k.Center)
	case collision.Box:
		h, err = f.world.CreateBoxCollider(k.Center, s.Size)
	case collision.Capsule:
		h, err = f.world.CreateCapsuleCollider(k.Center, s.Dir, s.Radius, s.Height)
	}
	if err != nil {
		return collision.Handle{}, err
	}

	if err := f.world.SetPosition(h, position); err != nil {
		return collision.Handle{}, err
	}
	if err := f.world.SetUserData(h, collision.UserData{Data: id, Type: UserDataScenery}); err != nil {
		return collision.Handle{}, err
	}
	return h, nil
}

// Scatter tries attempts random positions within radius of center on the
// XZ plane. Candidates that overlap an existing object are skipped and the
// rest are snapped onto the ground below. It returns the ids added.
func (f *Field) Scatter(kind KindID, center rl.Vector3, radius float32, attempts int, rng *rand.Rand) ([]uint32, error) {
	k, ok := f.kinds.Get(kind)
	if !ok {
		return nil, unknownKind(kind)
	}

	var added []uint32
	for range attempts {
		p := rl.Vector3Add(center, randInSphere(rng, radius))
		p.Y = center.Y

		if f.overlaps(p, k.Radius) {
			continue
		}

		ray := rl.Ray{Position: rl.Vector3Add(p, rl.Vector3{Y: 1}), Direction: rl.Vector3{Y: -2}}
		hit, ok := f.world.Raycast(ray, f.GroundMask)
		if !ok {
			continue
		}

		id, err := f.Add(kind, hit.Point)
		if errors.IsType(err, ErrTypeOutOfBounds) {
			continue
		} else if err != nil {
			return added, err
		}
		added = append(added, id)
	}
	return added, nil
}

func randInSphere(rng *rand.Rand, radius float32) rl.Vector3 {
	for {
		v := rl.Vector3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		}
		if rl.Vector3LengthSqr(v) <= 1 {
			return rl.Vector3Scale(v, radius)
		}
	}
}

func (f *Field) overlaps(p rl.Vector3, radius float32) bool {
	for _, id := range f.query(p, radius) {
		o := &f.objects[id]
		other, _ := f.kinds.Get(o.Kind)
		if rl.Vector3Distance(p, o.Position) < radius+other.Radius {
			return true
		}
	}
	return false
}

func (f *Field) query(p rl.Vector3, radius float32) []uint32 {
	f.scratch = f.index.Query(footprint(p, radius), f.scratch[:0])
	return f.scratch
}

// Get returns the object with id.
func (f *Field) Get(id uint32) (Object, bool) {
	if int(id) >= len(f.objects) || !f.objects[id].alive {
		return Object{}, false
	}
	return f.objects[id], true
}

// Objects calls fn for every live object in id order.
func (f *Field) Objects(fn func(Object)) {
	for _, o := range f.objects {
		if o.alive {
			fn(o)
		}
	}
}

// Remove deletes the object and frees its collider.
func (f *Field) Remove(id uint32) error {
	if err := f.remove(id); err != nil {
		return err
	}
	instrumentRemoved(causeRemoved)
	return nil
}

func (f *Field) remove(id uint32) error {
	if _, ok := f.Get(id); !ok {
		return notFound(id)
	}

	o := &f.objects[id]
	if o.Collider.IsValid() {
		if err := f.world.FreeCollider(o.Collider); err != nil {
			logs.WithTag("id", id).
				WithTag("collider", o.Collider.String()).
				Warn("scenery collider already freed")
		}
	}
	f.index.Remove(id)
	*o = Object{}
	f.free = append(f.free, id)
	f.count--
	objectsGauge.Dec()
	return nil
}

// RemoveAround removes every object whose position lies within radius of
// position, widened by the object's own radius. It returns how many were
// removed.
func (f *Field) RemoveAround(position rl.Vector3, radius float32) int {
	return f.removeAround(position, radius, false)
}

// Mow removes the mowable objects around position.
func (f *Field) Mow(position rl.Vector3, radius float32) int {
	return f.removeAround(position, radius, true)
}

func (f *Field) removeAround(position rl.Vector3, radius float32, mowableOnly bool) int {
	var removed int
	ids := append([]uint32(nil), f.query(position, radius)...)
	for _, id := range ids {
		o := f.objects[id]
		k, _ := f.kinds.Get(o.Kind)
		if mowableOnly && !k.Mowable {
			continue
		}
		if rl.Vector3DistanceSqr(o.Position, position) >= radius*radius+k.Radius*k.Radius {
			continue
		}
		if f.remove(id) == nil {
			removed++
		}
	}

	cause := causeRemoved
	if mowableOnly {
		cause = causeMowed
	}
	for range removed {
		instrumentRemoved(cause)
	}
	return removed
}

// Replace clears the area kind would occupy at position and places an
// object there.
func (f *Field) Replace(kind KindID, position rl.Vector3) (uint32, error) {
	k, ok := f.kinds.Get(kind)
	if !ok {
		return 0, unknownKind(kind)
	}
	f.RemoveAround(position, k.Radius)
	return f.Add(kind, position)
}

// Damage subtracts amount from the object's health and removes it once
// health runs out. It reports whether the object was destroyed.
// Indestructible objects are never damaged.
func (f *Field) Damage(id uint32, amount float32) (bool, error) {
	if _, ok := f.Get(id); !ok {
		return false, notFound(id)
	}

	o := &f.objects[id]
	k, _ := f.kinds.Get(o.Kind)
	if k.Health <= 0 {
		return false, nil
	}

	o.Health -= amount
	if o.Health > 0 {
		return false, nil
	}
	if err := f.remove(id); err != nil {
		return false, err
	}
	instrumentRemoved(causeDestroyed)
	return true, nil
}

// Clear removes every object.
func (f *Field) Clear() {
	cleared := f.count
	for i := range f.objects {
		o := &f.objects[i]
		if o.alive && o.Collider.IsValid() {
			_ = f.world.FreeCollider(o.Collider)
		}
	}
	f.objects = f.objects[:0]
	f.free = f.free[:0]
	f.index.Clear()
	f.count = 0
	objectsGauge.Sub(float64(cleared))

	logs.WithTag("cleared", cleared).Debug("scenery cleared")
}
