// Package firstperson implements a mouse-look character controller that moves
// relative to its own facing and can fire hitscan rays from the eye.
package firstperson

import (
	"errors"
	"fmt"
	"time"

	"github.com/Versifine/locomotion/internal/kinematics"
	"github.com/Versifine/locomotion/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrMissingMover   = errors.New("mover is nil")
	ErrMissingSpatial = errors.New("spatial query is nil")
)

const rayDrawDuration = time.Second

type Mover interface {
	Move(delta mgl32.Vec3) (resolved mgl32.Vec3, grounded bool)
	Grounded() bool
	Position() mgl32.Vec3
}

type SpatialQuery interface {
	Raycast(r world.Ray) (world.Hit, bool)
}

// RayDrawer visualizes a ray for a while. It has no effect on the simulation.
type RayDrawer interface {
	DrawRay(origin, dir mgl32.Vec3, length float32, color string, duration time.Duration)
}

type Config struct {
	MoveSpeed        float32
	Gravity          float32
	JumpHeight       float32
	MouseSensitivity float32
	EyeHeight        float32
	RayDistance      float32
	HitLayers        world.LayerMask
	RayColor         string
	// GravityOnJumpTick integrates gravity on the tick a jump starts, which
	// takes dt*|gravity| off every launch.
	GravityOnJumpTick bool
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:        5,
		Gravity:          kinematics.DefaultGravity,
		JumpHeight:       1.5,
		MouseSensitivity: 200,
		EyeHeight:        1.6,
		RayDistance:      20,
		HitLayers:        world.AllLayers,
		RayColor:         "red",
	}
}

type Deps struct {
	Mover   Mover
	Spatial SpatialQuery
	Debug   RayDrawer
}

// Input is one tick of raw input. Jump and Fire are press edges.
type Input struct {
	Axis  mgl32.Vec2
	Mouse mgl32.Vec2
	Jump  bool
	Fire  bool
}

type Frame struct {
	Delta            mgl32.Vec3
	Resolved         mgl32.Vec3
	Pitch            float32
	YawDelta         float32
	Grounded         bool
	Jumped           bool
	VerticalVelocity float32
	Shot             *Shot
}

type Controller struct {
	cfg     Config
	mover   Mover
	spatial SpatialQuery
	debug   RayDrawer

	rotation mgl32.Quat
	yaw      float32
	pitch    float32
	state    kinematics.LocomotionState
}

func New(cfg Config, deps Deps) (*Controller, error) {
	var errs []error
	if deps.Mover == nil {
		errs = append(errs, ErrMissingMover)
	}
	if deps.Spatial == nil {
		errs = append(errs, ErrMissingSpatial)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("first person controller: %w", errors.Join(errs...))
	}

	return &Controller{
		cfg:      cfg,
		mover:    deps.Mover,
		spatial:  deps.Spatial,
		debug:    deps.Debug,
		rotation: mgl32.QuatIdent(),
		state:    kinematics.LocomotionState{Grounded: deps.Mover.Grounded()},
	}, nil
}

func (c *Controller) Update(in Input, dt float32) Frame {
	body := c.Transform()
	move := body.Right().Mul(in.Axis.X()).Add(body.Forward().Mul(in.Axis.Y()))

	c.state.Ground(c.state.Grounded)
	jumped := in.Jump && c.state.Jump(c.cfg.JumpHeight, c.cfg.Gravity)
	if !jumped || c.cfg.GravityOnJumpTick {
		c.state.Integrate(c.cfg.Gravity, dt)
	}

	velocity := move.Mul(c.cfg.MoveSpeed).Add(kinematics.WorldUp.Mul(c.state.VerticalVelocity))
	delta := velocity.Mul(dt)
	resolved, grounded := c.mover.Move(delta)
	c.state.Grounded = grounded

	yawDelta := c.look(in.Mouse, dt)

	frame := Frame{
		Delta:            delta,
		Resolved:         resolved,
		Pitch:            c.pitch,
		YawDelta:         yawDelta,
		Grounded:         grounded,
		Jumped:           jumped,
		VerticalVelocity: c.state.VerticalVelocity,
	}
	if in.Fire {
		shot := c.Hitscan()
		frame.Shot = &shot
	}
	return frame
}

// look applies mouse deltas: pitch is clamped to straight up/down, yaw turns
// the whole body around world up and is never wrapped.
func (c *Controller) look(mouse mgl32.Vec2, dt float32) float32 {
	pitchDelta := mouse.Y() * c.cfg.MouseSensitivity * dt
	c.pitch = kinematics.Clamp(c.pitch-pitchDelta, -kinematics.PitchLimit, kinematics.PitchLimit)

	yawDelta := mouse.X() * c.cfg.MouseSensitivity * dt
	if yawDelta != 0 {
		c.yaw += yawDelta
		c.rotation = kinematics.YawRotation(yawDelta).Mul(c.rotation).Normalize()
	}
	return yawDelta
}

func (c *Controller) Transform() kinematics.Transform {
	return kinematics.Transform{Position: c.mover.Position(), Rotation: c.rotation}
}

func (c *Controller) CameraLocalRotation() mgl32.Quat {
	return kinematics.PitchRotation(c.pitch)
}

func (c *Controller) CameraRotation() mgl32.Quat {
	return c.rotation.Mul(c.CameraLocalRotation())
}

func (c *Controller) CameraPosition() mgl32.Vec3 {
	return c.mover.Position().Add(kinematics.WorldUp.Mul(c.cfg.EyeHeight))
}

func (c *Controller) Pitch() float32 {
	return c.pitch
}

// Yaw is the accumulated body heading in degrees.
func (c *Controller) Yaw() float32 {
	return c.yaw
}

func (c *Controller) State() kinematics.LocomotionState {
	return c.state
}

func (c *Controller) Config() Config {
	return c.cfg
}
