package scenery

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/collision"
)

// KindID identifies a registered Kind.
type KindID uint16

// Kind describes one type of scenery object.
type Kind struct {
	Name string

	// Radius is the footprint used for spacing and removal.
	Radius float32

	// Collider is the shape registered in the collision world for each
	// object, or nil for objects without collision. Only spheres, boxes and
	// capsules are accepted.
	Collider collision.Shape
	// Center offsets the collider from the object position.
	Center rl.Vector3

	// Mowable objects are cleared by Field.Mow.
	Mowable bool
	// Health is the damage an object absorbs before it is destroyed. Zero
	// makes it indestructible.
	Health float32
}

// Kinds is a registry of scenery kinds addressable by id or name.
type Kinds struct {
	list  []Kind
	names map[string]KindID
}

func NewKinds() *Kinds {
	return &Kinds{
		names: make(map[string]KindID),
	}
}

// DefaultKinds returns grass, bush and tree.
func DefaultKinds() *Kinds {
	k := NewKinds()
	k.MustRegister(Kind{
		Name:    "grass",
		Radius:  0.4,
		Mowable: true,
	})
	k.MustRegister(Kind{
		Name:   "bush",
		Radius: 1.8,
	})
	k.MustRegister(Kind{
		Name:     "tree",
		Radius:   2,
		Collider: collision.Capsule{Dir: rl.Vector3{Y: 1}, Radius: 0.4, Height: 10},
		Center:   rl.Vector3{Y: 5},
		Health:   4,
	})
	return k
}

// Register adds a kind and returns its id.
func (k *Kinds) Register(kind Kind) (KindID, error) {
	if kind.Name == "" {
		return 0, errors.New("scenery kind has no name").WithType(ErrTypeInvalidKind)
	}
	if _, ok := k.names[kind.Name]; ok {
		return 0, errors.New("scenery kind already registered").
			WithType(ErrTypeInvalidKind).
			WithTag("kind", kind.Name)
	}
	if !(kind.Radius > 0) {
		return 0, errors.New("scenery kind radius must be positive").
			WithType(ErrTypeInvalidKind).
			WithTag("kind", kind.Name)
	}
	switch kind.Collider.(type) {
	case nil, collision.Sphere, collision.Box, collision.Capsule:
	default:
		return 0, errors.New("scenery kind collider must be a sphere, box or capsule").
			WithType(ErrTypeInvalidKind).
			WithTag("kind", kind.Name)
	}

	id := KindID(len(k.list))
	k.list = append(k.list, kind)
	k.names[kind.Name] = id
	return id, nil
}

// MustRegister is like Register but panics on error.
func (k *Kinds) MustRegister(kind Kind) KindID {
	id, err := k.Register(kind)
	if err != nil {
		panic(err)
	}
	return id
}

func (k *Kinds) Get(id KindID) (Kind, bool) {
	if int(id) >= len(k.list) {
		return Kind{}, false
	}
	return k.list[id], true
}

func (k *Kinds) Lookup(name string) (KindID, bool) {
	id, ok := k.names[name]
	return id, ok
}

func (k *Kinds) Len() int {
	return len(k.list)
}
