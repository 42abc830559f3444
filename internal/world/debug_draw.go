package world

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type DrawnRay struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Length    float32
	Color     string
	Expires   time.Time
}

// LogDrawer stands in for an on-screen debug overlay: rays are logged and the
// ones still visible can be listed.
type LogDrawer struct {
	mu   sync.Mutex
	log  *slog.Logger
	now  func() time.Time
	rays []DrawnRay
}

func NewLogDrawer(log *slog.Logger) *LogDrawer {
	if log == nil {
		log = slog.Default()
	}
	return &LogDrawer{log: log, now: time.Now}
}

func (d *LogDrawer) DrawRay(origin, dir mgl32.Vec3, length float32, color string, duration time.Duration) {
	now := d.now()
	ray := DrawnRay{
		Origin:    origin,
		Direction: dir,
		Length:    length,
		Color:     color,
		Expires:   now.Add(duration),
	}

	d.mu.Lock()
	d.rays = append(pruneExpired(d.rays, now), ray)
	d.mu.Unlock()

	end := origin.Add(dir.Mul(length))
	d.log.Debug("Debug ray",
		"from", formatVec(origin),
		"to", formatVec(end),
		"color", color,
		"duration", duration,
	)
}

// Visible returns the rays that have not expired yet.
func (d *LogDrawer) Visible() []DrawnRay {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rays = pruneExpired(d.rays, d.now())
	out := make([]DrawnRay, len(d.rays))
	copy(out, d.rays)
	return out
}

func pruneExpired(rays []DrawnRay, now time.Time) []DrawnRay {
	kept := rays[:0]
	for _, r := range rays {
		if now.Before(r.Expires) {
			kept = append(kept, r)
		}
	}
	return kept
}
