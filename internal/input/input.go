// Package input turns raw device state into per-tick input frames.
package input

import (
	"sync"

	"github.com/Versifine/locomotion/internal/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is everything a controller reads in one tick. Move is the 2D move
// vector (x strafe, y forward), Look the pointer delta and Events the edges
// that happened since the previous tick.
type Frame struct {
	Move   mgl32.Vec2
	Look   mgl32.Vec2
	Events []event.Kind
}

func (f Frame) Has(kind event.Kind) bool {
	return event.Contains(f.Events, kind)
}

// Source is polled exactly once per tick.
type Source interface {
	Poll() Frame
}

// Edge turns a held button into a press edge.
type Edge struct {
	down bool
}

// Update records the button state and reports whether it was just pressed.
func (e *Edge) Update(down bool) bool {
	pressed := down && !e.down
	e.down = down
	return pressed
}

// Live is a Source fed from another goroutine, such as a terminal reader.
// Look deltas accumulate until the next Poll; discrete presses go through an
// event queue so the tick sees each of them once.
type Live struct {
	mu     sync.Mutex
	move   mgl32.Vec2
	look   mgl32.Vec2
	events *event.Queue
}

func NewLive() *Live {
	return &Live{events: event.NewQueue()}
}

func (l *Live) SetMove(move mgl32.Vec2) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.move = clampVec2(move)
}

func (l *Live) Move() mgl32.Vec2 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move
}

func (l *Live) AddLook(delta mgl32.Vec2) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.look = l.look.Add(delta)
}

func (l *Live) Press(kind event.Kind) {
	l.events.Push(kind)
}

func (l *Live) Poll() Frame {
	l.mu.Lock()
	frame := Frame{Move: l.move, Look: l.look}
	l.look = mgl32.Vec2{}
	l.mu.Unlock()

	frame.Events = l.events.Drain()
	return frame
}

func clampVec2(v mgl32.Vec2) mgl32.Vec2 {
	if v.LenSqr() > 1 {
		return v.Normalize()
	}
	return v
}
