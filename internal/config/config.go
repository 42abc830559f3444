package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultYAML []byte

const (
	ModeThirdPerson = "third_person"
	ModeFirstPerson = "first_person"
)

type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Sim         SimConfig         `yaml:"sim"`
	ThirdPerson ThirdPersonConfig `yaml:"third_person"`
	FirstPerson FirstPersonConfig `yaml:"first_person"`
	Camera      CameraConfig      `yaml:"camera"`
	Scene       SceneConfig       `yaml:"scene"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimConfig struct {
	Mode     string       `yaml:"mode"`
	TickRate int          `yaml:"tick_rate"`
	Frames   int          `yaml:"frames"`
	Script   []ScriptStep `yaml:"script"`
}

// ScriptStep holds input for a number of consecutive frames. Events fire on
// the first frame of the step only; Hold buttons press when they go down.
type ScriptStep struct {
	Frames int        `yaml:"frames"`
	Move   [2]float32 `yaml:"move"`
	Look   [2]float32 `yaml:"look"`
	Events []string   `yaml:"events"`
	Hold   []string   `yaml:"hold"`
}

type AnimatorParams struct {
	MoveX    string `yaml:"move_x"`
	MoveY    string `yaml:"move_y"`
	Jump     string `yaml:"jump"`
	Emote    string `yaml:"emote"`
	Grounded string `yaml:"grounded"`
}

type ThirdPersonConfig struct {
	MoveSpeed   float32        `yaml:"move_speed"`
	RotateSpeed float32        `yaml:"rotate_speed"`
	Gravity     float32        `yaml:"gravity"`
	JumpHeight  float32        `yaml:"jump_height"`
	SmoothTime  float32        `yaml:"smooth_time"`
	Params      AnimatorParams `yaml:"params"`
}

type FirstPersonConfig struct {
	MoveSpeed         float32 `yaml:"move_speed"`
	Gravity           float32 `yaml:"gravity"`
	JumpHeight        float32 `yaml:"jump_height"`
	MouseSensitivity  float32 `yaml:"mouse_sensitivity"`
	EyeHeight         float32 `yaml:"eye_height"`
	RayDistance       float32 `yaml:"ray_distance"`
	HitLayers         []uint8 `yaml:"hit_layers"`
	RayColor          string  `yaml:"ray_color"`
	GravityOnJumpTick bool    `yaml:"gravity_on_jump_tick"`
}

type CameraConfig struct {
	Yaw        float32 `yaml:"yaw"`
	Pitch      float32 `yaml:"pitch"`
	Distance   float32 `yaml:"distance"`
	Height     float32 `yaml:"height"`
	OrbitSpeed float32 `yaml:"orbit_speed"`
}

type SceneConfig struct {
	Ground     bool             `yaml:"ground"`
	GroundSize float32          `yaml:"ground_size"`
	Spawn      [3]float32       `yaml:"spawn"`
	Body       BodyConfig       `yaml:"body"`
	Colliders  []ColliderConfig `yaml:"colliders"`
}

type BodyConfig struct {
	Width      float32 `yaml:"width"`
	Height     float32 `yaml:"height"`
	StepOffset float32 `yaml:"step_offset"`
}

type ColliderConfig struct {
	Name    string     `yaml:"name"`
	Min     [3]float32 `yaml:"min"`
	Max     [3]float32 `yaml:"max"`
	Layer   uint8      `yaml:"layer"`
	Trigger bool       `yaml:"trigger"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// Load reads path on top of the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrInvalidTickRate = errors.New("tick_rate must be positive")
	ErrInvalidFrames   = errors.New("frames must not be negative")
	ErrInvalidSpeed    = errors.New("speeds must be positive")
	ErrInvalidGravity  = errors.New("gravity must be negative")
	ErrInvalidJump     = errors.New("jump_height must not be negative")
	ErrInvalidSmooth   = errors.New("smooth_time must be positive")
	ErrInvalidRay      = errors.New("ray_distance must be positive")
	ErrInvalidLayer    = errors.New("layer must be below 32")
	ErrInvalidBody     = errors.New("body dimensions must be positive")
	ErrInvalidCollider = errors.New("collider min must not exceed max")
)

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Sim.Mode {
	case ModeThirdPerson, ModeFirstPerson:
	default:
		errs = append(errs, fmt.Errorf("sim.mode %q: %w", c.Sim.Mode, ErrUnknownMode))
	}
	if c.Sim.TickRate <= 0 {
		errs = append(errs, ErrInvalidTickRate)
	}
	if c.Sim.Frames < 0 {
		errs = append(errs, ErrInvalidFrames)
	}

	tp := c.ThirdPerson
	if tp.MoveSpeed <= 0 || tp.RotateSpeed <= 0 {
		errs = append(errs, fmt.Errorf("third_person: %w", ErrInvalidSpeed))
	}
	if tp.Gravity >= 0 {
		errs = append(errs, fmt.Errorf("third_person: %w", ErrInvalidGravity))
	}
	if tp.JumpHeight < 0 {
		errs = append(errs, fmt.Errorf("third_person: %w", ErrInvalidJump))
	}
	if tp.SmoothTime <= 0 {
		errs = append(errs, fmt.Errorf("third_person: %w", ErrInvalidSmooth))
	}

	fp := c.FirstPerson
	if fp.MoveSpeed <= 0 || fp.MouseSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("first_person: %w", ErrInvalidSpeed))
	}
	if fp.Gravity >= 0 {
		errs = append(errs, fmt.Errorf("first_person: %w", ErrInvalidGravity))
	}
	if fp.JumpHeight < 0 {
		errs = append(errs, fmt.Errorf("first_person: %w", ErrInvalidJump))
	}
	if fp.RayDistance <= 0 {
		errs = append(errs, fmt.Errorf("first_person: %w", ErrInvalidRay))
	}
	for _, l := range fp.HitLayers {
		if l >= 32 {
			errs = append(errs, fmt.Errorf("first_person.hit_layers %d: %w", l, ErrInvalidLayer))
		}
	}

	if c.Scene.Body.Width <= 0 || c.Scene.Body.Height <= 0 {
		errs = append(errs, ErrInvalidBody)
	}
	for _, col := range c.Scene.Colliders {
		if col.Layer >= 32 {
			errs = append(errs, fmt.Errorf("collider %q: %w", col.Name, ErrInvalidLayer))
		}
		for i := 0; i < 3; i++ {
			if col.Min[i] > col.Max[i] {
				errs = append(errs, fmt.Errorf("collider %q: %w", col.Name, ErrInvalidCollider))
				break
			}
		}
	}
	return errors.Join(errs...)
}
