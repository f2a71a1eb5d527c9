// Package character moves spheres through a collision world: a walking
// controller that sticks to the ground and a ballistic projectile that
// bounces and rolls.
package character

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/collision"
	"collide3d/internal/physics"
)

const (
	// LayerCharacter is the layer of colliders owned by controllers. The
	// default controller mask excludes it so a controller never sweeps
	// against its own body.
	LayerCharacter uint32 = 1 << 1

	// UserDataCharacter tags colliders owned by controllers.
	UserDataCharacter uint32 = 1
	// UserDataProjectile tags colliders owned by projectiles.
	UserDataProjectile uint32 = 2
)

// groundProbe is the downward sweep used to detect ground contact.
var groundProbe = rl.Vector3{Y: -0.01}

// Controller handles walking movement with gravity, ground detection and
// collide-and-slide.
type Controller struct {
	// Radius of the body sphere.
	Radius float32
	// Offset from the feet position to the sphere center.
	Offset rl.Vector3

	Gravity  float32 // Gravity strength (positive = down)
	Speed    float32 // Acceleration applied per update for a unit move
	MaxSpeed float32
	Friction float32 // Velocity fraction lost per second on the ground

	// SlopeLimit is the steepest ground angle in degrees that counts as
	// grounded. Zero disables the check.
	SlopeLimit float32

	// Mask selects the layers the controller collides with.
	Mask uint32
	// Recursion bounds the slide iterations per move.
	Recursion int

	world    *collision.World
	position rl.Vector3
	velocity rl.Vector3

	isGrounded bool
	jumping    bool
	ground     collision.RayHit
	collider   collision.Handle
}

// NewController creates a controller standing at position in w.
func NewController(w *collision.World, position rl.Vector3) *Controller {
	return &Controller{
		Radius:    1,
		Offset:    rl.Vector3{Y: 1},
		Gravity:   20,
		Speed:     2,
		MaxSpeed:  15,
		Friction:  8,
		Mask:      collision.AllLayers &^ LayerCharacter,
		Recursion: w.Config().SlideRecursion,
		world:     w,
		position:  position,
	}
}

// AttachCollider registers a sphere collider on LayerCharacter that follows
// the controller.
func (c *Controller) AttachCollider() (collision.Handle, error) {
	if c.collider.IsValid() {
		return c.collider, nil
	}

	h, err := c.world.CreateSphereCollider(c.Radius, c.Offset)
	if err != nil {
		return collision.Handle{}, errors.New("creating character collider failed").Wrap(err)
	}
	if err := c.world.SetLayer(h, LayerCharacter); err != nil {
		return collision.Handle{}, err
	}
	if err := c.world.SetUserData(h, collision.UserData{Data: c, Type: UserDataCharacter}); err != nil {
		return collision.Handle{}, err
	}

	c.collider = h
	c.syncCollider()
	return h, nil
}

// Collider returns the attached collider, or the zero handle.
func (c *Controller) Collider() collision.Handle {
	return c.collider
}

// Close frees the attached collider.
func (c *Controller) Close() error {
	if !c.collider.IsValid() {
		return nil
	}
	h := c.collider
	c.collider = collision.Handle{}
	return c.world.FreeCollider(h)
}

func (c *Controller) Position() rl.Vector3 {
	return c.position
}

// SetPosition teleports the controller without collision.
func (c *Controller) SetPosition(position rl.Vector3) {
	c.position = position
	c.syncCollider()
}

func (c *Controller) Velocity() rl.Vector3 {
	return c.velocity
}

func (c *Controller) SetVelocity(v rl.Vector3) {
	c.velocity = v
}

func (c *Controller) IsGrounded() bool {
	return c.isGrounded
}

// Ground returns the last ground contact.
func (c *Controller) Ground() (collision.RayHit, bool) {
	return c.ground, c.isGrounded
}

// Jump sets the vertical velocity when grounded and reports whether it did.
func (c *Controller) Jump(speed float32) bool {
	if !c.isGrounded {
		return false
	}
	c.velocity.Y = speed
	c.isGrounded = false
	c.jumping = true
	return true
}

// Update advances the controller by dt seconds. move is the desired walking
// direction; lengths above 1 are normalized.
func (c *Controller) Update(move rl.Vector3, dt float32) {
	if rl.Vector3Length(move) > 1 {
		move = rl.Vector3Normalize(move)
	}

	wasGrounded := c.isGrounded
	c.probeGround()

	if c.isGrounded && !wasGrounded {
		c.velocity = physics.ProjectOnPlane(c.velocity, c.ground.Normal)
	}

	if c.isGrounded {
		c.velocity = rl.Vector3Add(c.velocity, rl.Vector3Scale(move, c.Speed))
		if c.MaxSpeed > 0 && rl.Vector3Length(c.velocity) > c.MaxSpeed {
			c.velocity = rl.Vector3Scale(rl.Vector3Normalize(c.velocity), c.MaxSpeed)
		}
		c.velocity = rl.Vector3Subtract(c.velocity, rl.Vector3Scale(c.velocity, c.Friction*dt))
	} else {
		c.velocity.Y -= c.Gravity * dt
	}

	c.Move(rl.Vector3Scale(c.velocity, dt))
}

// Move slides the controller by motion and returns the new position.
func (c *Controller) Move(motion rl.Vector3) rl.Vector3 {
	center := rl.Vector3Add(c.position, c.Offset)
	center = c.world.SphereCastSlide(center, motion, c.Radius, c.Mask, c.Recursion)
	c.position = rl.Vector3Subtract(center, c.Offset)
	c.syncCollider()
	return c.position
}

func (c *Controller) probeGround() {
	center := rl.Vector3Add(c.position, c.Offset)
	hit, ok := c.world.SphereCast(rl.Ray{Position: center, Direction: groundProbe}, c.Radius, c.Mask)

	// Leaving the ground after a jump must not snap back on the first frames.
	if c.jumping {
		if c.velocity.Y > 0 {
			ok = false
		} else {
			c.jumping = false
		}
	}
	if ok && c.SlopeLimit > 0 && physics.Angle(hit.Normal, rl.Vector3{Y: 1}) > c.SlopeLimit {
		ok = false
	}

	c.isGrounded = ok
	if ok {
		c.ground = hit
	}
}

func (c *Controller) syncCollider() {
	if !c.collider.IsValid() {
		return
	}
	// The handle can only go stale if someone else freed it.
	if err := c.world.SetPosition(c.collider, c.position); err != nil {
		c.collider = collision.Handle{}
	}
}
