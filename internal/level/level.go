// Package level reads and writes JSON level files describing static
// colliders and scenery placements.
package level

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/segmentio/encoding/json"

	"collide3d/internal/collision"
	"collide3d/internal/scenery"
)

const (
	ErrTypeRead     = "level_read"
	ErrTypeParse    = "level_parse"
	ErrTypeCollider = "level_collider"
	ErrTypeScenery  = "level_scenery"
)

// UserDataLevel tags colliders spawned from a level file. Their
// UserData.Data holds the collider name.
const UserDataLevel uint32 = 4

// --- JSON types ---

type File struct {
	Colliders []ColliderDef  `json:"colliders"`
	Scenery   []PlacementDef `json:"scenery,omitempty"`
}

type ColliderDef struct {
	Name  string `json:"name"`
	Shape string `json:"shape"`
	Color string `json:"color,omitempty"`

	Position [3]float32 `json:"position"`
	// Rotation is in euler degrees.
	Rotation [3]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
	Offset   [3]float32 `json:"offset,omitempty"`

	Size     [3]float32   `json:"size,omitempty"`
	Radius   float32      `json:"radius,omitempty"`
	Height   float32      `json:"height,omitempty"`
	Dir      [3]float32   `json:"dir,omitempty"`
	Vertices [][3]float32 `json:"vertices,omitempty"`
	Indices  []uint16     `json:"indices,omitempty"`

	Layer    uint32 `json:"layer,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

type PlacementDef struct {
	Kind     string     `json:"kind"`
	Position [3]float32 `json:"position"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"DarkGreen": rl.DarkGreen,
}

// RGBA returns the named color of a collider, or LightGray.
func (d ColliderDef) RGBA() rl.Color {
	if c, ok := colorByName[d.Color]; ok {
		return c
	}
	return rl.LightGray
}

func vector(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func array(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

// Load reads and parses the level at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("reading level failed").
			WithType(ErrTypeRead).
			WithTag("path", path).
			Wrap(err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.New("loading level failed").
			WithTag("path", path).
			Wrap(err)
	}
	return f, nil
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.New("parsing level failed").
			WithType(ErrTypeParse).
			Wrap(err)
	}
	return &f, nil
}

// Spawn creates every collider of the level in w and returns their handles
// in file order. On error every collider spawned so far is freed.
func (f *File) Spawn(w *collision.World) ([]collision.Handle, error) {
	handles := make([]collision.Handle, 0, len(f.Colliders))

	for i, def := range f.Colliders {
		h, err := spawn(w, def)
		if err != nil {
			for _, spawned := range handles {
				_ = w.FreeCollider(spawned)
			}
			return nil, errors.New("spawning level collider failed").
				WithType(ErrTypeCollider).
				WithTag("index", i).
				WithTag("name", def.Name).
				WithTag("shape", def.Shape).
				Wrap(err)
		}
		handles = append(handles, h)
	}

	logs.WithTag("colliders", len(handles)).Debug("level spawned")
	return handles, nil
}

func spawn(w *collision.World, def ColliderDef) (collision.Handle, error) {
	h, err := create(w, def)
	if err != nil {
		return collision.Handle{}, err
	}

	scale := rl.Vector3One()
	if def.Scale != [3]float32{} {
		scale = vector(def.Scale)
	}
	rotation := rl.QuaternionFromEuler(
		def.Rotation[0]*rl.Deg2rad,
		def.Rotation[1]*rl.Deg2rad,
		def.Rotation[2]*rl.Deg2rad,
	)

	err = w.SetTransform(h, vector(def.Position), rotation, scale)
	if err == nil && def.Layer != 0 {
		err = w.SetLayer(h, def.Layer)
	}
	if err == nil && def.Disabled {
		err = w.SetEnabled(h, false)
	}
	if err == nil {
		err = w.SetUserData(h, collision.UserData{Data: def.Name, Type: UserDataLevel})
	}
	if err != nil {
		_ = w.FreeCollider(h)
		return collision.Handle{}, err
	}
	return h, nil
}

func create(w *collision.World, def ColliderDef) (collision.Handle, error) {
	offset := vector(def.Offset)

	switch def.Shape {
	case "sphere":
		return w.CreateSphereCollider(def.Radius, offset)
	case "box":
		return w.CreateBoxCollider(offset, vector(def.Size))
	case "capsule":
		dir := vector(def.Dir)
		if def.Dir == [3]float32{} {
			dir = rl.Vector3{Y: 1}
		}
		return w.CreateCapsuleCollider(offset, dir, def.Radius, def.Height)
	case "mesh":
		vertices := make([]rl.Vector3, len(def.Vertices))
		for i, v := range def.Vertices {
			vertices[i] = vector(v)
		}
		if len(def.Indices) > 0 {
			return w.CreateMeshColliderIndexed(vertices, def.Indices, offset)
		}
		return w.CreateMeshCollider(vertices, offset)
	default:
		return collision.Handle{}, errors.Newf("unknown collider shape %q", def.Shape).
			WithType(collision.ErrTypeInvalidShape)
	}
}

// Plant places the level's scenery in field and returns the object ids in
// file order. On error every object placed so far is removed.
func (f *File) Plant(field *scenery.Field) ([]uint32, error) {
	ids := make([]uint32, 0, len(f.Scenery))

	for i, def := range f.Scenery {
		kind, ok := field.Kinds().Lookup(def.Kind)
		var id uint32
		var err error
		if !ok {
			err = errors.New("unknown scenery kind").WithType(scenery.ErrTypeUnknownKind)
		} else {
			id, err = field.Add(kind, vector(def.Position))
		}
		if err != nil {
			for _, placed := range ids {
				_ = field.Remove(placed)
			}
			return nil, errors.New("planting level scenery failed").
				WithType(ErrTypeScenery).
				WithTag("index", i).
				WithTag("kind", def.Kind).
				Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- Saving ---

// Capture describes every live collider of w as a level. Mesh colliders are
// written as triangle lists.
func Capture(w *collision.World) *File {
	var f File

	w.Colliders(func(info collision.ColliderInfo) {
		euler := rl.QuaternionToEuler(info.Rotation)
		def := ColliderDef{
			Position: array(info.Position),
			Rotation: array(rl.Vector3Scale(euler, rl.Rad2deg)),
			Scale:    array(info.Scale),
			Offset:   array(info.Offset),
			Layer:    info.Layer,
			Disabled: !info.Enabled,
		}
		if name, ok := info.UserData.Data.(string); ok {
			def.Name = name
		}

		switch s := info.Shape.(type) {
		case collision.Sphere:
			def.Shape = "sphere"
			def.Radius = s.Radius
		case collision.Box:
			def.Shape = "box"
			def.Size = array(s.Size)
		case collision.Capsule:
			def.Shape = "capsule"
			def.Dir = array(s.Dir)
			def.Radius = s.Radius
			def.Height = s.Height
		case collision.Mesh:
			def.Shape = "mesh"
			def.Vertices = make([][3]float32, len(s.Vertices))
			for i, v := range s.Vertices {
				def.Vertices[i] = array(v)
			}
		}

		f.Colliders = append(f.Colliders, def)
	})
	return &f
}

// CaptureScenery appends the placements of every object in field.
func (f *File) CaptureScenery(field *scenery.Field) {
	field.Objects(func(o scenery.Object) {
		kind, _ := field.Kinds().Get(o.Kind)
		f.Scenery = append(f.Scenery, PlacementDef{
			Kind:     kind.Name,
			Position: array(o.Position),
		})
	})
}

// Save writes f to path as indented JSON.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.New("marshaling level failed").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("writing level failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
