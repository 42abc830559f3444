// Package sim drives a locomotion controller at a fixed tick rate.
package sim

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Versifine/locomotion/internal/event"
	"github.com/Versifine/locomotion/internal/input"
)

var (
	ErrMissingSource     = errors.New("input source is nil")
	ErrMissingController = errors.New("controller is nil")
	ErrInvalidTickRate   = errors.New("tick rate must be positive")
)

// Summary aggregates a run.
type Summary struct {
	Frames       int
	Distance     float32
	Jumps        int
	Shots        int
	Hits         int
	AirborneTime time.Duration
	Final        Snapshot
}

// Runner owns the simulation thread: each Step polls the source once and
// ticks the controller once. Only Last and Frame may be called from other
// goroutines.
type Runner struct {
	source   input.Source
	ctrl     Controller
	tickRate int
	dt       float32

	// Pace is the wall-clock delay between ticks; zero runs as fast as
	// possible.
	Pace time.Duration

	mu    sync.Mutex
	frame int
	last  Snapshot
	sum   Summary
}

func NewRunner(source input.Source, ctrl Controller, tickRate int) (*Runner, error) {
	var errs []error
	if source == nil {
		errs = append(errs, ErrMissingSource)
	}
	if ctrl == nil {
		errs = append(errs, ErrMissingController)
	}
	if tickRate <= 0 {
		errs = append(errs, ErrInvalidTickRate)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Runner{
		source:   source,
		ctrl:     ctrl,
		tickRate: tickRate,
		dt:       1 / float32(tickRate),
	}, nil
}

func (r *Runner) TickInterval() time.Duration {
	return time.Second / time.Duration(r.tickRate)
}

func (r *Runner) DeltaTime() float32 {
	return r.dt
}

// Step runs a single tick.
func (r *Runner) Step() Snapshot {
	frame := r.source.Poll()
	snap := r.ctrl.Tick(frame, r.dt)

	r.mu.Lock()
	snap.Frame = r.frame
	r.frame++
	r.record(snap)
	r.last = snap
	r.mu.Unlock()

	slog.Debug("Tick",
		"mode", r.ctrl.Mode(),
		"frame", snap.Frame,
		"pos", formatVec(snap.Position),
		"grounded", snap.Grounded,
		"vy", snap.VerticalVelocity,
		"heading", snap.Heading,
	)
	if len(frame.Events) > 0 {
		slog.Debug("Tick events", "frame", snap.Frame, "events", eventNames(frame.Events))
	}
	return snap
}

func (r *Runner) record(snap Snapshot) {
	r.sum.Frames++
	r.sum.Distance += mgl32.Vec3{snap.Resolved.X(), 0, snap.Resolved.Z()}.Len()
	if snap.Jumped {
		r.sum.Jumps++
	}
	if !snap.Grounded {
		r.sum.AirborneTime += r.TickInterval()
	}
	if snap.Shot != nil {
		r.sum.Shots++
		if snap.Shot.OK {
			r.sum.Hits++
		}
	}
	r.sum.Final = snap
}

// Run ticks until frames have elapsed (frames <= 0 means until ctx is done).
// It returns ctx's error when cancelled early.
func (r *Runner) Run(ctx context.Context, frames int) (Summary, error) {
	var ticker *time.Ticker
	if r.Pace > 0 {
		ticker = time.NewTicker(r.Pace)
		defer ticker.Stop()
	}

	for i := 0; frames <= 0 || i < frames; i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return r.Summary(), ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return r.Summary(), err
		}
		r.Step()
	}

	sum := r.Summary()
	slog.Info("Simulation finished",
		"mode", r.ctrl.Mode(),
		"frames", sum.Frames,
		"distance", sum.Distance,
		"jumps", sum.Jumps,
		"shots", sum.Shots,
		"hits", sum.Hits,
		"final_pos", formatVec(sum.Final.Position),
	)
	return sum, nil
}

func (r *Runner) Last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Runner) Frame() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

func (r *Runner) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sum
}

func eventNames(events []event.Kind) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.String()
	}
	return names
}
