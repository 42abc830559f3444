// Package thirdperson implements a camera-relative avatar controller: movement
// is steered by the camera's heading, the body turns toward the direction of
// travel and a smoothed 2D blend vector drives directional animation.
package thirdperson

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Versifine/locomotion/internal/anim"
	"github.com/Versifine/locomotion/internal/event"
	"github.com/Versifine/locomotion/internal/kinematics"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrMissingCamera   = errors.New("camera is nil")
	ErrMissingMover    = errors.New("mover is nil")
	ErrMissingAnimator = errors.New("animator is nil")
)

// Camera supplies the view orientation movement input is relative to.
type Camera interface {
	Rotation() mgl32.Quat
}

// Mover resolves a requested displacement against the world. Its ground report
// is authoritative.
type Mover interface {
	Move(delta mgl32.Vec3) (resolved mgl32.Vec3, grounded bool)
	Grounded() bool
}

type Params struct {
	MoveX    string
	MoveY    string
	Jump     string
	Emote    string
	Grounded string
}

func DefaultParams() Params {
	return Params{
		MoveX:    "MoveX",
		MoveY:    "MoveY",
		Jump:     "Jump",
		Emote:    "Emote",
		Grounded: "Grounded",
	}
}

type Config struct {
	MoveSpeed   float32
	RotateSpeed float32
	Gravity     float32
	JumpHeight  float32
	SmoothTime  float32
	Params      Params
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:   4,
		RotateSpeed: 10,
		Gravity:     kinematics.DefaultGravity,
		JumpHeight:  1.4,
		SmoothTime:  0.08,
		Params:      DefaultParams(),
	}
}

type Deps struct {
	Camera   Camera
	Mover    Mover
	Animator anim.Sink
}

// Frame is the outcome of one Update.
type Frame struct {
	Direction        mgl32.Vec3
	Delta            mgl32.Vec3
	Resolved         mgl32.Vec3
	Rotation         mgl32.Quat
	Blend            kinematics.Blend
	Grounded         bool
	VerticalVelocity float32
}

type Controller struct {
	cfg      Config
	camera   Camera
	mover    Mover
	animator anim.Sink

	rotation mgl32.Quat
	state    kinematics.LocomotionState
	blend    kinematics.Blend
}

// New validates the collaborators once; a controller is never built with a
// missing reference.
func New(cfg Config, deps Deps) (*Controller, error) {
	var errs []error
	if deps.Camera == nil {
		errs = append(errs, ErrMissingCamera)
	}
	if deps.Mover == nil {
		errs = append(errs, ErrMissingMover)
	}
	if deps.Animator == nil {
		errs = append(errs, ErrMissingAnimator)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("third person controller: %w", errors.Join(errs...))
	}

	return &Controller{
		cfg:      cfg,
		camera:   deps.Camera,
		mover:    deps.Mover,
		animator: deps.Animator,
		rotation: mgl32.QuatIdent(),
		state:    kinematics.LocomotionState{Grounded: deps.Mover.Grounded()},
	}, nil
}

// HandleEvents consumes one tick's worth of discrete input. It must run on the
// simulation thread before Update.
func (c *Controller) HandleEvents(events []event.Kind) (jumped, emoted bool) {
	for _, e := range events {
		switch e {
		case event.Jump:
			jumped = c.Jump() || jumped
		case event.Emote:
			emoted = c.Emote() || emoted
		}
	}
	return jumped, emoted
}

func (c *Controller) Jump() bool {
	if !c.state.Jump(c.cfg.JumpHeight, c.cfg.Gravity) {
		return false
	}
	c.animator.SetTrigger(c.cfg.Params.Jump)
	slog.Debug("Third person jump", "vertical_velocity", c.state.VerticalVelocity)
	return true
}

func (c *Controller) Emote() bool {
	if !c.state.Grounded {
		return false
	}
	c.animator.SetTrigger(c.cfg.Params.Emote)
	return true
}

func (c *Controller) Update(move mgl32.Vec2, dt float32) Frame {
	dir := c.moveDirection(move)

	if dir.LenSqr() > kinematics.MinTurnSqrMagnitude {
		target := kinematics.LookRotation(dir, kinematics.WorldUp)
		c.rotation = kinematics.Slerp(c.rotation, target, c.cfg.RotateSpeed*dt)
	}

	c.state.Ground(c.state.Grounded)
	c.animator.SetBool(c.cfg.Params.Grounded, c.state.Grounded)
	if !c.state.Grounded {
		c.state.Integrate(c.cfg.Gravity, dt)
	}

	motion := dir.Mul(c.cfg.MoveSpeed)
	motion[1] = c.state.VerticalVelocity
	delta := motion.Mul(dt)
	resolved, grounded := c.mover.Move(delta)
	c.state.Grounded = grounded

	local := c.Transform().InverseTransformDirection(dir)
	targetX := kinematics.Clamp(local.X(), -1, 1)
	targetY := kinematics.Clamp(local.Z(), -1, 1)
	c.blend.Step(targetX, targetY, c.cfg.SmoothTime, dt)

	c.animator.SetFloat(c.cfg.Params.MoveX, c.blend.X)
	c.animator.SetFloat(c.cfg.Params.MoveY, c.blend.Y)

	return Frame{
		Direction:        dir,
		Delta:            delta,
		Resolved:         resolved,
		Rotation:         c.rotation,
		Blend:            c.blend,
		Grounded:         grounded,
		VerticalVelocity: c.state.VerticalVelocity,
	}
}

// moveDirection turns stick input into a flat world direction relative to the
// camera heading. Input below the dead zone yields the zero vector.
func (c *Controller) moveDirection(move mgl32.Vec2) mgl32.Vec3 {
	cam := kinematics.Transform{Rotation: c.camera.Rotation()}
	forward := kinematics.SafeNormalize(kinematics.ProjectOnPlane(cam.Forward(), kinematics.WorldUp))
	right := kinematics.SafeNormalize(kinematics.ProjectOnPlane(cam.Right(), kinematics.WorldUp))

	world := forward.Mul(move.Y()).Add(right.Mul(move.X()))
	flat := kinematics.Flatten(world)
	if flat.LenSqr() <= kinematics.MinMoveSqrMagnitude {
		return mgl32.Vec3{}
	}
	return flat.Normalize()
}

func (c *Controller) Transform() kinematics.Transform {
	return kinematics.Transform{Rotation: c.rotation}
}

func (c *Controller) Rotation() mgl32.Quat {
	return c.rotation
}

func (c *Controller) SetRotation(q mgl32.Quat) {
	c.rotation = q.Normalize()
}

func (c *Controller) State() kinematics.LocomotionState {
	return c.state
}

func (c *Controller) Blend() kinematics.Blend {
	return c.blend
}

func (c *Controller) Config() Config {
	return c.cfg
}
