package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Ray is a spatial query. Direction need not be normalized.
type Ray struct {
	Origin          mgl32.Vec3
	Direction       mgl32.Vec3
	MaxDistance     float32
	Layers          LayerMask
	IncludeTriggers bool
}

type Hit struct {
	ID       uuid.UUID
	Name     string
	Layer    uint8
	Point    mgl32.Vec3
	Distance float32
}

// Raycast returns the nearest collider hit by r. Colliders that contain the
// origin are not reported.
func (w *World) Raycast(r Ray) (Hit, bool) {
	if r.MaxDistance <= 0 || r.Direction.LenSqr() < 1e-12 {
		return Hit{}, false
	}
	dir := r.Direction.Normalize()
	end := r.Origin.Add(dir.Mul(r.MaxDistance))

	w.mu.RLock()
	defer w.mu.RUnlock()

	var (
		best  Hit
		found bool
	)
	best.Distance = math32.MaxFloat32
	for _, c := range w.colliders {
		if c.Trigger && !r.IncludeTriggers {
			continue
		}
		if !r.Layers.Has(c.Layer) {
			continue
		}
		if contains(c.Box, r.Origin) {
			continue
		}
		result, ok := trace.BBoxIntercept(c.Box, r.Origin, end)
		if !ok {
			continue
		}
		point := result.Position()
		dist := point.Sub(r.Origin).Len()
		if dist > r.MaxDistance || dist >= best.Distance {
			continue
		}
		best = Hit{
			ID:       c.ID,
			Name:     c.Name,
			Layer:    c.Layer,
			Point:    point,
			Distance: dist,
		}
		found = true
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}

func contains(box cube.BBox, p mgl32.Vec3) bool {
	lo, hi := box.Min(), box.Max()
	for i := 0; i < 3; i++ {
		if p[i] <= lo[i] || p[i] >= hi[i] {
			return false
		}
	}
	return true
}
