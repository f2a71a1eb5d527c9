package character

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"

	"collide3d/internal/collision"
)

const dt = float32(1) / 60

func vec(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}

// groundWorld returns a world with an upward-facing square of half size 50
// at y = 0. The square is centered off the origin so the tests do not run
// along its diagonal.
func groundWorld(t *testing.T) *collision.World {
	t.Helper()

	w := collision.NewWorld(collision.DefaultConfig())
	t.Cleanup(w.Close)

	p0, p1, p2, p3 := vec(-40, 0, -30), vec(-40, 0, 70), vec(60, 0, 70), vec(60, 0, -30)
	_, err := w.CreateMeshCollider([]rl.Vector3{p0, p1, p2, p0, p2, p3}, rl.Vector3Zero())
	require.NoError(t, err)
	return w
}

func settle(c *Controller, frames int) {
	for range frames {
		c.Update(rl.Vector3Zero(), dt)
	}
}

func TestControllerFallsAndLands(t *testing.T) {
	c := NewController(groundWorld(t), vec(0, 5, 0))

	c.Update(rl.Vector3Zero(), dt)
	require.False(t, c.IsGrounded())
	require.Less(t, c.Velocity().Y, float32(0))

	settle(c, 120)
	require.True(t, c.IsGrounded())
	require.InDelta(t, 0, c.Position().Y, 0.02)
	require.InDelta(t, 0, c.Velocity().Y, 1e-3)

	ground, ok := c.Ground()
	require.True(t, ok)
	require.InDelta(t, 1, ground.Normal.Y, 1e-3)
}

func TestControllerWalks(t *testing.T) {
	c := NewController(groundWorld(t), vec(0, 2, 0))
	settle(c, 120)
	require.True(t, c.IsGrounded())

	for range 60 {
		c.Update(vec(1, 0, 0), dt)
	}
	require.True(t, c.IsGrounded())
	require.Greater(t, c.Position().X, float32(1))
	require.InDelta(t, 0, c.Position().Y, 0.02)
	require.LessOrEqual(t, rl.Vector3Length(c.Velocity()), c.MaxSpeed)

	// Friction brings it to rest once input stops.
	settle(c, 240)
	require.Less(t, rl.Vector3Length(c.Velocity()), float32(0.01))
}

func TestControllerJump(t *testing.T) {
	c := NewController(groundWorld(t), vec(0, 2, 0))
	require.False(t, c.Jump(8))

	settle(c, 120)
	require.True(t, c.Jump(8))

	before := c.Position().Y
	c.Update(rl.Vector3Zero(), dt)
	require.False(t, c.IsGrounded())
	require.Greater(t, c.Position().Y, before)

	settle(c, 180)
	require.True(t, c.IsGrounded())
	require.InDelta(t, 0, c.Position().Y, 0.02)
}

func TestControllerMoveSlidesAlongWall(t *testing.T) {
	w := groundWorld(t)
	_, err := w.CreateBoxCollider(vec(5, 2, 0), vec(1, 4, 20))
	require.NoError(t, err)

	c := NewController(w, vec(0, 0.5, 0))
	pos := c.Move(vec(10, 0, 10))
	require.Less(t, pos.X, float32(3.5))
	require.Greater(t, pos.Z, float32(5))
}

func TestControllerAttachedColliderFollows(t *testing.T) {
	w := groundWorld(t)
	c := NewController(w, vec(0, 5, 0))

	h, err := c.AttachCollider()
	require.NoError(t, err)
	again, err := c.AttachCollider()
	require.NoError(t, err)
	require.Equal(t, h, again)

	info, err := w.Collider(h)
	require.NoError(t, err)
	require.Equal(t, LayerCharacter, info.Layer)
	require.Equal(t, UserDataCharacter, info.UserData.Type)

	// The controller's own sphere is masked out of its sweeps.
	settle(c, 120)
	require.True(t, c.IsGrounded())
	require.InDelta(t, 0, c.Position().Y, 0.02)

	info, err = w.Collider(h)
	require.NoError(t, err)
	require.Equal(t, c.Position(), info.Position)

	// Other queries still see it.
	hit, ok := w.Raycast(rl.Ray{Position: vec(-5, 1, 0), Direction: vec(10, 0, 0)}, LayerCharacter)
	require.True(t, ok)
	require.Equal(t, h, hit.Collider)

	require.NoError(t, c.Close())
	_, err = w.Collider(h)
	require.Error(t, err)
	require.NoError(t, c.Close())
}

func TestControllerSlopeLimit(t *testing.T) {
	w := collision.NewWorld(collision.DefaultConfig())
	t.Cleanup(w.Close)

	// 60 degree ramp rising along +x.
	box, err := w.CreateBoxCollider(rl.Vector3Zero(), vec(40, 1, 40))
	require.NoError(t, err)
	require.NoError(t, w.SetRotation(box, rl.QuaternionFromAxisAngle(vec(0, 0, 1), 60*rl.Deg2rad)))

	c := NewController(w, vec(0, 3, 0))
	c.SlopeLimit = 45
	settle(c, 30)
	require.False(t, c.IsGrounded())
}

func TestProjectileBouncesOffGround(t *testing.T) {
	p := NewProjectile(groundWorld(t), vec(0, 3, 0), rl.Vector3Zero())

	var contact Contact
	var ok bool
	for range 120 {
		if contact, ok = p.Update(dt); ok {
			break
		}
	}
	require.True(t, ok)
	require.True(t, contact.Bounced)
	require.InDelta(t, 180, contact.Angle, 1)
	require.Greater(t, p.Velocity().Y, float32(0))
	require.GreaterOrEqual(t, p.Position().Y, p.Radius)
}

func TestProjectileComesToRest(t *testing.T) {
	p := NewProjectile(groundWorld(t), vec(0, 3, 0), vec(2, 0, 0))

	for range 900 {
		p.Update(dt)
	}
	require.True(t, p.IsGrounded())
	require.InDelta(t, p.Radius, p.Position().Y, 0.02)
	require.Less(t, rl.Vector3Length(p.Velocity()), float32(0.05))
}

func TestProjectileReportsSurface(t *testing.T) {
	w := collision.NewWorld(collision.DefaultConfig())
	t.Cleanup(w.Close)

	wall, err := w.CreateBoxCollider(vec(5, 0, 0), vec(1, 10, 10))
	require.NoError(t, err)
	require.NoError(t, w.SetUserData(wall, collision.UserData{Type: 7}))

	p := NewProjectile(w, rl.Vector3Zero(), vec(20, 0, 0))
	p.Gravity = 0

	var contact Contact
	var ok bool
	for range 60 {
		if contact, ok = p.Update(dt); ok {
			break
		}
	}
	require.True(t, ok)
	require.Equal(t, wall, contact.Collider)
	require.Equal(t, uint32(7), contact.UserData.Type)
	require.True(t, contact.Bounced)
	require.InDelta(t, -12, p.Velocity().X, 1e-3)
	require.InDelta(t, 4.5-p.Radius, p.Position().X, 0.01)
}

func TestProjectileSlidesOnGrazingHit(t *testing.T) {
	p := NewProjectile(groundWorld(t), vec(0, 0.08, 0), vec(3, -2.5, 0))

	contact, ok := p.Update(dt)
	require.True(t, ok)
	require.False(t, contact.Bounced)
	require.InDelta(t, 0, p.Velocity().Y, 1e-3)
	require.Greater(t, p.Velocity().X, float32(0))
}
