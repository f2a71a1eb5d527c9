package character

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/collision"
	"collide3d/internal/physics"
)

const (
	// contactSkin separates a projectile from the surface it hit.
	contactSkin = 0.001

	// bounceAngle is the minimum angle in degrees between the step and the
	// contact normal for a bounce. Shallower contacts slide.
	bounceAngle = 95
	// bounceStep is the minimum step length for a bounce.
	bounceStep = 0.08
)

// Contact describes a projectile hitting a collider during an update.
type Contact struct {
	collision.RayHit

	// Bounced is true when the projectile reflected off the surface rather
	// than sliding along it.
	Bounced bool
	// Angle between the step direction and the contact normal in degrees.
	Angle float32
	// Step is the length of the motion that produced the contact.
	Step float32
}

// Projectile is a ballistic sphere that bounces off steep impacts, slides
// along shallow ones and rolls to a stop on the ground.
type Projectile struct {
	Radius  float32
	Gravity float32
	// Bounciness is the fraction of speed kept after a bounce.
	Bounciness float32
	// Damping is the velocity fraction lost per second while rolling.
	Damping float32
	Mask    uint32

	world      *collision.World
	position   rl.Vector3
	velocity   rl.Vector3
	isGrounded bool
}

// NewProjectile creates a projectile at position moving with velocity.
func NewProjectile(w *collision.World, position, velocity rl.Vector3) *Projectile {
	return &Projectile{
		Radius:     0.05,
		Gravity:    20,
		Bounciness: 0.6,
		Damping:    1.8,
		Mask:       collision.AllLayers &^ LayerCharacter,
		world:      w,
		position:   position,
		velocity:   velocity,
	}
}

func (p *Projectile) Position() rl.Vector3 {
	return p.position
}

func (p *Projectile) SetPosition(position rl.Vector3) {
	p.position = position
}

func (p *Projectile) Velocity() rl.Vector3 {
	return p.velocity
}

// Launch replaces the velocity.
func (p *Projectile) Launch(velocity rl.Vector3) {
	p.velocity = velocity
}

func (p *Projectile) IsGrounded() bool {
	return p.isGrounded
}

// Update advances the projectile by dt seconds and returns the contact it
// made, if any.
func (p *Projectile) Update(dt float32) (Contact, bool) {
	_, p.isGrounded = p.world.SphereCast(rl.Ray{Position: p.position, Direction: groundProbe}, p.Radius, p.Mask)
	if !p.isGrounded {
		p.velocity.Y -= p.Gravity * dt
	}

	step := rl.Vector3Scale(p.velocity, dt)
	length := rl.Vector3Length(step)
	if length < physics.Epsilon {
		return Contact{}, false
	}

	hit, ok := p.world.SphereCast(rl.Ray{Position: p.position, Direction: step}, p.Radius, p.Mask)
	if !ok {
		p.position = rl.Vector3Add(p.position, step)
		p.damp(dt, false)
		return Contact{}, false
	}

	dir := rl.Vector3Scale(step, 1/length)
	p.position = rl.Vector3Add(p.position, rl.Vector3Scale(dir, hit.Distance))
	p.position = rl.Vector3Add(p.position, rl.Vector3Scale(hit.Normal, contactSkin))

	contact := Contact{
		RayHit: hit,
		Angle:  physics.Angle(dir, hit.Normal),
		Step:   length,
	}
	if contact.Angle >= bounceAngle && length > bounceStep {
		p.velocity = rl.Vector3Scale(rl.Vector3Reflect(p.velocity, hit.Normal), p.Bounciness)
		contact.Bounced = true
	} else {
		p.velocity = physics.ProjectOnPlane(p.velocity, hit.Normal)
	}

	p.damp(dt, contact.Bounced)
	return contact, true
}

func (p *Projectile) damp(dt float32, bounced bool) {
	if p.isGrounded && !bounced {
		p.velocity = rl.Vector3Subtract(p.velocity, rl.Vector3Scale(p.velocity, p.Damping*dt))
	}
}
