package debug

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/locomotion/internal/event"
	"github.com/Versifine/locomotion/internal/firstperson"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/sim"
	"github.com/Versifine/locomotion/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeStepper struct {
	source input.Source
	frames []input.Frame
	last   sim.Snapshot
	shot   *firstperson.Shot
}

func (s *fakeStepper) Step() sim.Snapshot {
	f := s.source.Poll()
	s.frames = append(s.frames, f)
	s.last = sim.Snapshot{Frame: len(s.frames) - 1, Events: f.Events}
	if f.Has(event.Fire) {
		s.last.Shot = s.shot
	}
	return s.last
}

func (s *fakeStepper) Last() sim.Snapshot           { return s.last }
func (s *fakeStepper) TickInterval() time.Duration { return time.Second / 60 }

type fakeBody struct {
	pos mgl32.Vec3
}

func (b *fakeBody) Position() mgl32.Vec3        { return b.pos }
func (b *fakeBody) SetPosition(pos mgl32.Vec3) { b.pos = pos }

func newTestConsole() (*Console, *fakeStepper, *fakeBody, *bytes.Buffer) {
	live := input.NewLive()
	stepper := &fakeStepper{source: live}
	body := &fakeBody{}
	c := NewConsole("third_person", stepper, body, live)
	out := &bytes.Buffer{}
	c.out = out
	return c, stepper, body, out
}

func typeKeys(c *Console, keys string) {
	reader := bufio.NewReader(strings.NewReader(""))
	for i := 0; i < len(keys); i++ {
		c.handleKey(reader, keys[i])
	}
}

// Movement keys hold only for the pulse window.
func TestConsoleMovePulse(t *testing.T) {
	c, stepper, _, _ := newTestConsole()
	typeKeys(c, "wd")

	now := time.Now()
	c.tick(now)
	if got := stepper.frames[0].Move; got.X() <= 0 || got.Y() <= 0 {
		t.Fatalf("pulsed move = %v, want forward-right", got)
	}

	c.tick(now.Add(time.Second))
	if got := stepper.frames[1].Move; got != (mgl32.Vec2{}) {
		t.Fatalf("move after pulse = %v, want zero", got)
	}
}

// Opposite directions cancel each other.
func TestConsoleOppositePulseCancels(t *testing.T) {
	c, stepper, _, _ := newTestConsole()
	typeKeys(c, "ws")
	c.tick(time.Now())
	if got := stepper.frames[0].Move; got != (mgl32.Vec2{0, -1}) {
		t.Fatalf("move = %v, want backward", got)
	}
}

// Discrete keys reach exactly one tick.
func TestConsoleDiscreteKeys(t *testing.T) {
	c, stepper, _, out := newTestConsole()
	stepper.shot = &firstperson.Shot{OK: true, Hit: world.Hit{Name: "target", Distance: 15}}
	typeKeys(c, " ef")

	c.tick(time.Now())
	c.tick(time.Now())

	first := stepper.frames[0]
	for _, kind := range []event.Kind{event.Jump, event.Emote, event.Fire} {
		if !first.Has(kind) {
			t.Fatalf("first tick missing %s: %v", kind, first.Events)
		}
	}
	if len(stepper.frames[1].Events) != 0 {
		t.Fatalf("second tick events = %v, want none", stepper.frames[1].Events)
	}
	if !strings.Contains(out.String(), "hit target") {
		t.Fatalf("output missing hit line: %q", out.String())
	}
}

// Arrow keys become look input.
func TestConsoleArrowLook(t *testing.T) {
	c, stepper, _, _ := newTestConsole()
	reader := bufio.NewReader(strings.NewReader("[C[A"))
	c.handleKey(reader, 27)
	c.handleKey(reader, 27)

	c.tick(time.Now())
	if got := stepper.frames[0].Look; got != (mgl32.Vec2{lookStep, lookStep}) {
		t.Fatalf("look = %v, want (%v,%v)", got, lookStep, lookStep)
	}
}

func TestConsoleCommands(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		wantOut string
		wantPos mgl32.Vec3
	}{
		{name: "tp", keys: ":tp 1 2.5 -3\r", wantOut: "teleported to", wantPos: mgl32.Vec3{1, 2.5, -3}},
		{name: "tp bad args", keys: ":tp a b c\r", wantOut: "invalid tp args"},
		{name: "tp usage", keys: ":tp 1\r", wantOut: "usage: :tp"},
		{name: "state", keys: ":state\r", wantOut: "frame=0"},
		{name: "help", keys: ":help\r", wantOut: ":tp <x> <y> <z>"},
		{name: "unknown", keys: ":fly\r", wantOut: "unknown command: fly"},
		{name: "cancel", keys: ":tp 9 9 9\x1b", wantOut: "command cancelled"},
		{name: "backspace", keys: ":tpx\x7f 4 5 6\r", wantOut: "teleported to", wantPos: mgl32.Vec3{4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, body, out := newTestConsole()
			typeKeys(c, tt.keys)
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Fatalf("output = %q, want substring %q", out.String(), tt.wantOut)
			}
			if body.pos != tt.wantPos {
				t.Fatalf("position = %v, want %v", body.pos, tt.wantPos)
			}
			if c.isCommandMode() {
				t.Fatalf("still in command mode")
			}
		})
	}
}
