package firstperson

import (
	"log/slog"

	"github.com/Versifine/locomotion/internal/kinematics"
	"github.com/Versifine/locomotion/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

// Shot is the outcome of one hitscan query.
type Shot struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Hit       world.Hit
	OK        bool
}

// Hitscan casts a ray from the camera along its forward axis. Trigger volumes
// are ignored.
func (c *Controller) Hitscan() Shot {
	origin := c.CameraPosition()
	dir := kinematics.Transform{Rotation: c.CameraRotation()}.Forward()

	if c.debug != nil {
		c.debug.DrawRay(origin, dir, c.cfg.RayDistance, c.cfg.RayColor, rayDrawDuration)
	}

	hit, ok := c.spatial.Raycast(world.Ray{
		Origin:      origin,
		Direction:   dir,
		MaxDistance: c.cfg.RayDistance,
		Layers:      c.cfg.HitLayers,
	})
	if ok {
		slog.Info("Hitscan hit", "target", hit.Name, "id", hit.ID, "distance", hit.Distance)
	} else {
		slog.Info("Hitscan missed", "max_distance", c.cfg.RayDistance)
	}

	return Shot{
		Origin:    origin,
		Direction: dir,
		Hit:       hit,
		OK:        ok,
	}
}
