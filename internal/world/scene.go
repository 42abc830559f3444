package world

import (
	"fmt"
	"strconv"

	"github.com/Versifine/locomotion/internal/config"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

const groundThickness = float32(1)

// BuildScene creates a world from configuration. The optional ground is a
// slab whose top face sits at y=0.
func BuildScene(cfg config.SceneConfig) (*World, error) {
	w := New()
	if cfg.Ground {
		half := cfg.GroundSize / 2
		if half <= 0 {
			return nil, fmt.Errorf("scene ground_size must be positive, got %v", cfg.GroundSize)
		}
		w.AddBox("ground", cube.Box(-half, -groundThickness, -half, half, 0, half), 0)
	}
	for i, c := range cfg.Colliders {
		if c.Layer >= 32 {
			return nil, fmt.Errorf("scene collider %d: layer %d out of range", i, c.Layer)
		}
		name := c.Name
		if name == "" {
			name = "collider_" + strconv.Itoa(i)
		}
		box := cube.Box(c.Min[0], c.Min[1], c.Min[2], c.Max[0], c.Max[1], c.Max[2])
		w.Add(Collider{Name: name, Box: box, Layer: c.Layer, Trigger: c.Trigger})
	}
	return w, nil
}

// SpawnBody places a body at the configured spawn point.
func SpawnBody(w *World, cfg config.SceneConfig) *Body {
	spawn := mgl32.Vec3{cfg.Spawn[0], cfg.Spawn[1], cfg.Spawn[2]}
	return NewBody(w, spawn, cfg.Body.Width, cfg.Body.Height, cfg.Body.StepOffset)
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}
