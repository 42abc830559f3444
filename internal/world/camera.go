package world

import (
	"sync"

	"github.com/Versifine/locomotion/internal/kinematics"
	"github.com/go-gl/mathgl/mgl32"
)

const followPitchLimit = float32(80)

// FollowCamera orbits a target at a fixed distance. Only its orientation is
// consumed by the third person controller; Position is for display.
type FollowCamera struct {
	mu       sync.Mutex
	yaw      float32
	pitch    float32
	distance float32
	height   float32
	target   func() mgl32.Vec3
}

func NewFollowCamera(yaw, pitch, distance, height float32, target func() mgl32.Vec3) *FollowCamera {
	return &FollowCamera{
		yaw:      yaw,
		pitch:    kinematics.Clamp(pitch, -followPitchLimit, followPitchLimit),
		distance: distance,
		height:   height,
		target:   target,
	}
}

func (c *FollowCamera) Rotation() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return kinematics.YawRotation(c.yaw).Mul(kinematics.PitchRotation(c.pitch))
}

// Orbit turns the camera by the given degrees.
func (c *FollowCamera) Orbit(yawDelta, pitchDelta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += yawDelta
	c.pitch = kinematics.Clamp(c.pitch+pitchDelta, -followPitchLimit, followPitchLimit)
}

func (c *FollowCamera) Angles() (yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw, c.pitch
}

func (c *FollowCamera) Position() mgl32.Vec3 {
	rot := c.Rotation()
	var focus mgl32.Vec3
	if c.target != nil {
		focus = c.target()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	focus = focus.Add(kinematics.WorldUp.Mul(c.height))
	back := kinematics.Transform{Rotation: rot}.Forward().Mul(-c.distance)
	return focus.Add(back)
}
