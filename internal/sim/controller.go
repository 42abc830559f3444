package sim

import (
	"github.com/Versifine/locomotion/internal/config"
	"github.com/Versifine/locomotion/internal/event"
	"github.com/Versifine/locomotion/internal/firstperson"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/kinematics"
	"github.com/Versifine/locomotion/internal/thirdperson"
	"github.com/Versifine/locomotion/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// Controller adapts one locomotion controller to the runner.
type Controller interface {
	Mode() string
	Tick(frame input.Frame, dt float32) Snapshot
}

// Snapshot is the observable state after a tick.
type Snapshot struct {
	Frame            int
	Position         mgl32.Vec3
	Resolved         mgl32.Vec3
	Grounded         bool
	VerticalVelocity float32
	Heading          float32
	Pitch            float32
	Blend            kinematics.Blend
	Events           []event.Kind
	Jumped           bool
	Shot             *firstperson.Shot
}

type thirdPersonDriver struct {
	ctrl       *thirdperson.Controller
	body       *world.Body
	camera     *world.FollowCamera
	orbitSpeed float32
}

func (d *thirdPersonDriver) Mode() string { return config.ModeThirdPerson }

func (d *thirdPersonDriver) Tick(frame input.Frame, dt float32) Snapshot {
	if frame.Look != (mgl32.Vec2{}) {
		d.camera.Orbit(frame.Look.X()*d.orbitSpeed*dt, -frame.Look.Y()*d.orbitSpeed*dt)
	}

	jumped, _ := d.ctrl.HandleEvents(frame.Events)

	f := d.ctrl.Update(frame.Move, dt)
	_, pitch := d.camera.Angles()
	return Snapshot{
		Position:         d.body.Position(),
		Resolved:         f.Resolved,
		Grounded:         f.Grounded,
		VerticalVelocity: f.VerticalVelocity,
		Heading:          kinematics.YawOf(f.Rotation),
		Pitch:            pitch,
		Blend:            f.Blend,
		Events:           frame.Events,
		Jumped:           jumped,
	}
}

type firstPersonDriver struct {
	ctrl *firstperson.Controller
	body *world.Body
}

func (d *firstPersonDriver) Mode() string { return config.ModeFirstPerson }

func (d *firstPersonDriver) Tick(frame input.Frame, dt float32) Snapshot {
	f := d.ctrl.Update(firstperson.Input{
		Axis:  frame.Move,
		Mouse: frame.Look,
		Jump:  frame.Has(event.Jump),
		Fire:  frame.Has(event.Fire),
	}, dt)
	return Snapshot{
		Position:         d.body.Position(),
		Resolved:         f.Resolved,
		Grounded:         f.Grounded,
		VerticalVelocity: f.VerticalVelocity,
		Heading:          d.ctrl.Yaw(),
		Pitch:            f.Pitch,
		Events:           frame.Events,
		Jumped:           f.Jumped,
		Shot:             f.Shot,
	}
}
