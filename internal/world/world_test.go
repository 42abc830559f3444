package world

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/locomotion/internal/config"
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math32.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func approxVec(t *testing.T, got, want mgl32.Vec3, tol float32, field string) {
	t.Helper()
	if got.Sub(want).Len() > tol {
		t.Fatalf("%s = %v, want %v (tol=%g)", field, got, want, tol)
	}
}

func newFloorWorld() *World {
	w := New()
	w.AddBox("floor", cube.Box(-10, -1, -10, 10, 0, 10), 0)
	return w
}

func TestBody_FallsAndLands(t *testing.T) {
	w := newFloorWorld()
	b := NewBody(w, mgl32.Vec3{0, 2, 0}, 0.6, 1.8, 0)
	if b.Grounded() {
		t.Fatalf("grounded in mid air")
	}

	resolved, grounded := b.Move(mgl32.Vec3{0, -1, 0})
	approxEqual(t, resolved.Y(), -1, 1e-5, "first drop")
	if grounded {
		t.Fatalf("grounded after partial fall")
	}

	resolved, grounded = b.Move(mgl32.Vec3{0, -5, 0})
	approxEqual(t, resolved.Y(), -1, 1e-5, "clipped drop")
	approxEqual(t, b.Position().Y(), 0, 1e-5, "feet height")
	if !grounded || !b.Grounded() {
		t.Fatalf("not grounded after landing")
	}
}

func TestBody_StickVelocityKeepsGrounded(t *testing.T) {
	w := newFloorWorld()
	b := NewBody(w, mgl32.Vec3{}, 0.6, 1.8, 0)
	if !b.Grounded() {
		t.Fatalf("spawned on floor but not grounded")
	}
	for i := 0; i < 10; i++ {
		_, grounded := b.Move(mgl32.Vec3{0.05, -2.0 / 60.0, 0})
		if !grounded {
			t.Fatalf("tick %d lost ground contact", i)
		}
	}
	approxEqual(t, b.Position().Y(), 0, 1e-5, "feet height")
	approxEqual(t, b.Position().X(), 0.5, 1e-4, "x")
}

func TestBody_WallStopsHorizontalMovement(t *testing.T) {
	w := newFloorWorld()
	w.AddBox("wall", cube.Box(1, 0, -2, 2, 3, 2), 0)
	b := NewBody(w, mgl32.Vec3{0, 0, 0}, 0.6, 1.8, 0)

	resolved, _ := b.Move(mgl32.Vec3{2, 0, 0})
	approxEqual(t, resolved.X(), 0.7, 1e-4, "resolved x")
	approxEqual(t, b.Position().X(), 0.7, 1e-4, "position x")

	// sliding along the wall keeps the free axis
	resolved, _ = b.Move(mgl32.Vec3{1, 0, 0.5})
	approxEqual(t, resolved.X(), 0, 1e-4, "slide x")
	approxEqual(t, resolved.Z(), 0.5, 1e-4, "slide z")
}

func TestBody_TriggersDoNotBlock(t *testing.T) {
	w := newFloorWorld()
	w.AddTrigger("zone", cube.Box(0.5, 0, -1, 1.5, 2, 1), 0)
	b := NewBody(w, mgl32.Vec3{}, 0.6, 1.8, 0)

	resolved, _ := b.Move(mgl32.Vec3{1, 0, 0})
	approxEqual(t, resolved.X(), 1, 1e-5, "resolved x")
	overlapping := w.Overlapping(b.Box())
	if len(overlapping) != 1 || overlapping[0].Name != "zone" {
		t.Fatalf("overlapping = %+v, want only the trigger", overlapping)
	}
}

func TestBody_StepOffsetClimbsLowLedge(t *testing.T) {
	w := newFloorWorld()
	w.AddBox("step", cube.Box(0.5, 0, -2, 3, 0.2, 2), 0)

	flat := NewBody(w, mgl32.Vec3{}, 0.6, 1.8, 0)
	resolved, _ := flat.Move(mgl32.Vec3{0.5, -0.01, 0})
	approxEqual(t, resolved.X(), 0.2, 1e-4, "blocked without step offset")

	climber := NewBody(w, mgl32.Vec3{}, 0.6, 1.8, 0.3)
	resolved, grounded := climber.Move(mgl32.Vec3{0.5, -0.01, 0})
	approxEqual(t, resolved.X(), 0.5, 1e-4, "stepped x")
	approxEqual(t, climber.Position().Y(), 0.2, 1e-4, "stepped height")
	if !grounded {
		t.Fatalf("not grounded on top of step")
	}
}

func TestBody_StepOffsetDoesNotClimbWalls(t *testing.T) {
	w := newFloorWorld()
	w.AddBox("wall", cube.Box(0.5, 0, -2, 3, 1, 2), 0)
	b := NewBody(w, mgl32.Vec3{}, 0.6, 1.8, 0.3)
	resolved, _ := b.Move(mgl32.Vec3{0.5, -0.01, 0})
	approxEqual(t, resolved.X(), 0.2, 1e-4, "resolved x")
	approxEqual(t, b.Position().Y(), 0, 1e-5, "height")
}

func TestRaycast(t *testing.T) {
	w := New()
	near := w.AddBox("near", cube.Box(-1, 0, 5, 1, 2, 6), 0)
	w.AddBox("far", cube.Box(-1, 0, 10, 1, 2, 11), 0)
	w.AddBox("masked", cube.Box(-1, 0, 3, 1, 2, 4), 2)
	w.AddTrigger("zone", cube.Box(-1, 0, 1, 1, 2, 2), 0)

	origin := mgl32.Vec3{0, 1, 0}
	forward := mgl32.Vec3{0, 0, 1}

	tests := []struct {
		name     string
		ray      Ray
		wantOK   bool
		wantName string
		wantDist float32
	}{
		{
			name:     "nearest blocking collider",
			ray:      Ray{Origin: origin, Direction: forward, MaxDistance: 20, Layers: MaskOf(0, 1)},
			wantOK:   true,
			wantName: "near",
			wantDist: 5,
		},
		{
			name:     "all layers hits masked layer first",
			ray:      Ray{Origin: origin, Direction: forward, MaxDistance: 20, Layers: AllLayers},
			wantOK:   true,
			wantName: "masked",
			wantDist: 3,
		},
		{
			name:     "triggers included on request",
			ray:      Ray{Origin: origin, Direction: forward, MaxDistance: 20, Layers: AllLayers, IncludeTriggers: true},
			wantOK:   true,
			wantName: "zone",
			wantDist: 1,
		},
		{
			name:   "out of range",
			ray:    Ray{Origin: origin, Direction: forward, MaxDistance: 2.5, Layers: MaskOf(0)},
			wantOK: false,
		},
		{
			name:   "empty direction",
			ray:    Ray{Origin: origin, MaxDistance: 20, Layers: AllLayers},
			wantOK: false,
		},
		{
			name:   "looking away",
			ray:    Ray{Origin: origin, Direction: mgl32.Vec3{0, 0, -1}, MaxDistance: 20, Layers: AllLayers},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Raycast(tt.ray)
			if ok != tt.wantOK {
				t.Fatalf("Raycast() ok = %v, want %v (hit=%+v)", ok, tt.wantOK, hit)
			}
			if !ok {
				return
			}
			if hit.Name != tt.wantName {
				t.Fatalf("hit = %q, want %q", hit.Name, tt.wantName)
			}
			approxEqual(t, hit.Distance, tt.wantDist, 1e-3, "distance")
		})
	}

	hit, _ := w.Raycast(Ray{Origin: origin, Direction: forward, MaxDistance: 20, Layers: MaskOf(0)})
	if hit.ID != near.ID || hit.ID == uuid.Nil {
		t.Fatalf("hit id = %v, want %v", hit.ID, near.ID)
	}
}

func TestRaycast_EmptyWorld(t *testing.T) {
	if _, ok := New().Raycast(Ray{Direction: mgl32.Vec3{0, 0, 1}, MaxDistance: 100, Layers: AllLayers}); ok {
		t.Fatalf("hit in empty world")
	}
}

func TestLayerMask(t *testing.T) {
	m := MaskOf(1, 3)
	if !m.Has(1) || !m.Has(3) || m.Has(0) || m.Has(40) {
		t.Fatalf("mask %b membership wrong", m)
	}
	if MaskOf() != AllLayers {
		t.Fatalf("empty mask should select every layer")
	}
}

func TestFollowCamera(t *testing.T) {
	cam := NewFollowCamera(0, 0, 4, 1.5, func() mgl32.Vec3 { return mgl32.Vec3{1, 0, 1} })
	pos := cam.Position()
	approxVec(t, pos, mgl32.Vec3{1, 1.5, -3}, 1e-4, "camera position")
	cam.Orbit(90, 200)
	yaw, pitch := cam.Angles()
	if yaw != 90 || pitch != followPitchLimit {
		t.Fatalf("angles = (%v,%v), want (90,%v)", yaw, pitch, followPitchLimit)
	}
}

func TestLogDrawer(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDrawer(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	now := time.Unix(100, 0)
	d.now = func() time.Time { return now }

	d.DrawRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 20, "red", time.Second)
	if got := len(d.Visible()); got != 1 {
		t.Fatalf("visible rays = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "color=red") {
		t.Fatalf("log missing ray: %s", buf.String())
	}

	now = now.Add(2 * time.Second)
	if got := len(d.Visible()); got != 0 {
		t.Fatalf("visible rays after expiry = %d, want 0", got)
	}
}

func TestBuildScene(t *testing.T) {
	cfg := config.Default().Scene
	w, err := BuildScene(cfg)
	if err != nil {
		t.Fatalf("BuildScene() error = %v", err)
	}
	if got, want := len(w.Colliders()), len(cfg.Colliders)+1; got != want {
		t.Fatalf("colliders = %d, want %d", got, want)
	}
	b := SpawnBody(w, cfg)
	if !b.Grounded() {
		t.Fatalf("spawned body not grounded on default scene")
	}

	cfg.GroundSize = 0
	if _, err := BuildScene(cfg); err == nil {
		t.Fatalf("BuildScene() with zero ground size should fail")
	}
}
