package sim

import (
	"fmt"
	"log/slog"

	"github.com/Versifine/locomotion/internal/anim"
	"github.com/Versifine/locomotion/internal/config"
	"github.com/Versifine/locomotion/internal/firstperson"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/thirdperson"
	"github.com/Versifine/locomotion/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// Session is a fully wired simulation: world, body, controller and runner.
type Session struct {
	Mode     string
	World    *world.World
	Body     *world.Body
	Camera   *world.FollowCamera
	Animator *anim.Recorder
	Drawer   *world.LogDrawer
	Runner   *Runner

	ThirdPerson *thirdperson.Controller
	FirstPerson *firstperson.Controller
}

// Build wires a session for cfg.Sim.Mode reading input from source.
func Build(cfg *config.Config, source input.Source) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("build session: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}

	w, err := world.BuildScene(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	body := world.SpawnBody(w, cfg.Scene)
	log := slog.Default()

	s := &Session{
		Mode:   cfg.Sim.Mode,
		World:  w,
		Body:   body,
		Drawer: world.NewLogDrawer(log.With("component", "debug_draw")),
	}

	var driver Controller
	switch cfg.Sim.Mode {
	case config.ModeThirdPerson:
		s.Camera = world.NewFollowCamera(cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Distance, cfg.Camera.Height, body.Position)
		s.Animator = anim.NewRecorder(log.With("component", "animator"))
		ctrl, err := thirdperson.New(ThirdPersonConfig(cfg.ThirdPerson), thirdperson.Deps{
			Camera:   s.Camera,
			Mover:    body,
			Animator: s.Animator,
		})
		if err != nil {
			return nil, err
		}
		s.ThirdPerson = ctrl
		driver = &thirdPersonDriver{ctrl: ctrl, body: body, camera: s.Camera, orbitSpeed: cfg.Camera.OrbitSpeed}
	case config.ModeFirstPerson:
		ctrl, err := firstperson.New(FirstPersonConfig(cfg.FirstPerson), firstperson.Deps{
			Mover:   body,
			Spatial: w,
			Debug:   s.Drawer,
		})
		if err != nil {
			return nil, err
		}
		s.FirstPerson = ctrl
		driver = &firstPersonDriver{ctrl: ctrl, body: body}
	default:
		return nil, fmt.Errorf("build session: unknown mode %q", cfg.Sim.Mode)
	}

	runner, err := NewRunner(source, driver, cfg.Sim.TickRate)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	s.Runner = runner

	slog.Info("Session ready",
		"mode", s.Mode,
		"colliders", len(w.Colliders()),
		"spawn", formatVec(body.Position()),
		"grounded", body.Grounded(),
		"tick_rate", cfg.Sim.TickRate,
	)
	return s, nil
}

func ThirdPersonConfig(c config.ThirdPersonConfig) thirdperson.Config {
	params := thirdperson.DefaultParams()
	overrideParam(&params.MoveX, c.Params.MoveX)
	overrideParam(&params.MoveY, c.Params.MoveY)
	overrideParam(&params.Jump, c.Params.Jump)
	overrideParam(&params.Emote, c.Params.Emote)
	overrideParam(&params.Grounded, c.Params.Grounded)
	return thirdperson.Config{
		MoveSpeed:   c.MoveSpeed,
		RotateSpeed: c.RotateSpeed,
		Gravity:     c.Gravity,
		JumpHeight:  c.JumpHeight,
		SmoothTime:  c.SmoothTime,
		Params:      params,
	}
}

func FirstPersonConfig(c config.FirstPersonConfig) firstperson.Config {
	color := c.RayColor
	if color == "" {
		color = firstperson.DefaultConfig().RayColor
	}
	return firstperson.Config{
		MoveSpeed:         c.MoveSpeed,
		Gravity:           c.Gravity,
		JumpHeight:        c.JumpHeight,
		MouseSensitivity:  c.MouseSensitivity,
		EyeHeight:         c.EyeHeight,
		RayDistance:       c.RayDistance,
		HitLayers:         world.MaskOf(c.HitLayers...),
		RayColor:          color,
		GravityOnJumpTick: c.GravityOnJumpTick,
	}
}

func overrideParam(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}
