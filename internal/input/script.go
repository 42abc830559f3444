package input

import (
	"fmt"

	"github.com/Versifine/locomotion/internal/config"
	"github.com/Versifine/locomotion/internal/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Step is input held for Frames ticks. Events fire on its first frame; Hold
// buttons stay down for the whole step and press only when they go down, so a
// button held across consecutive steps presses once.
type Step struct {
	Frames int
	Move   mgl32.Vec2
	Look   mgl32.Vec2
	Events []event.Kind
	Hold   []event.Kind
}

// Script replays a fixed sequence of steps, then idles.
type Script struct {
	steps []Step
	step  int
	frame int
	edges map[event.Kind]*Edge
}

func NewScript(steps []Step) *Script {
	return &Script{steps: steps, edges: make(map[event.Kind]*Edge)}
}

// ScriptFromConfig converts configured steps, rejecting unknown event names.
func ScriptFromConfig(steps []config.ScriptStep) (*Script, error) {
	out := make([]Step, 0, len(steps))
	for i, s := range steps {
		if s.Frames <= 0 {
			return nil, fmt.Errorf("script step %d: frames must be positive", i)
		}
		st := Step{
			Frames: s.Frames,
			Move:   mgl32.Vec2{s.Move[0], s.Move[1]},
			Look:   mgl32.Vec2{s.Look[0], s.Look[1]},
		}
		var err error
		if st.Events, err = parseKinds(s.Events); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i, err)
		}
		if st.Hold, err = parseKinds(s.Hold); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i, err)
		}
		out = append(out, st)
	}
	return NewScript(out), nil
}

func parseKinds(names []string) ([]event.Kind, error) {
	var kinds []event.Kind
	for _, name := range names {
		kind, ok := event.Parse(name)
		if !ok {
			return nil, fmt.Errorf("unknown event %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (s *Script) Poll() Frame {
	if s.Done() {
		s.press(nil)
		return Frame{}
	}
	cur := s.steps[s.step]
	frame := Frame{Move: cur.Move, Look: cur.Look}
	if s.frame == 0 && len(cur.Events) > 0 {
		frame.Events = append([]event.Kind(nil), cur.Events...)
	}
	for _, kind := range s.press(cur.Hold) {
		if !event.Contains(frame.Events, kind) {
			frame.Events = append(frame.Events, kind)
		}
	}

	s.frame++
	if s.frame >= cur.Frames {
		s.step++
		s.frame = 0
	}
	return frame
}

// press feeds this tick's held buttons through their edge detectors and
// returns the ones that just went down, in held order.
func (s *Script) press(held []event.Kind) []event.Kind {
	if s.edges == nil {
		s.edges = make(map[event.Kind]*Edge)
	}
	var pressed []event.Kind
	down := make(map[event.Kind]bool, len(held))
	for _, kind := range held {
		if down[kind] {
			continue
		}
		down[kind] = true
		e, ok := s.edges[kind]
		if !ok {
			e = &Edge{}
			s.edges[kind] = e
		}
		if e.Update(true) {
			pressed = append(pressed, kind)
		}
	}
	for kind, e := range s.edges {
		if !down[kind] {
			e.Update(false)
		}
	}
	return pressed
}

func (s *Script) Done() bool {
	return s.step >= len(s.steps)
}

// Len is the total number of scripted frames.
func (s *Script) Len() int {
	n := 0
	for _, st := range s.steps {
		n += st.Frames
	}
	return n
}
