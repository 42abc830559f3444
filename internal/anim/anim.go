// Package anim defines the animation parameter sink the controllers drive and
// a recording implementation of it.
package anim

import (
	"log/slog"
	"sync"
)

// Sink receives animation parameters. Calls are fire-and-forget.
type Sink interface {
	SetFloat(name string, value float32)
	SetBool(name string, value bool)
	SetTrigger(name string)
}

// Recorder is a Sink that keeps the latest value of every parameter and counts
// triggers. It is safe to read from another goroutine while a controller writes.
type Recorder struct {
	mu       sync.Mutex
	floats   map[string]float32
	bools    map[string]bool
	triggers map[string]int
	log      *slog.Logger
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{
		floats:   make(map[string]float32),
		bools:    make(map[string]bool),
		triggers: make(map[string]int),
		log:      log,
	}
}

func (r *Recorder) SetFloat(name string, value float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats[name] = value
}

func (r *Recorder) SetBool(name string, value bool) {
	r.mu.Lock()
	prev, seen := r.bools[name]
	r.bools[name] = value
	r.mu.Unlock()

	if r.log != nil && (!seen || prev != value) {
		r.log.Debug("Animator bool changed", "param", name, "value", value)
	}
}

func (r *Recorder) SetTrigger(name string) {
	r.mu.Lock()
	r.triggers[name]++
	r.mu.Unlock()

	if r.log != nil {
		r.log.Info("Animator trigger", "param", name)
	}
}

func (r *Recorder) Float(name string) float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.floats[name]
}

func (r *Recorder) Bool(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bools[name]
}

func (r *Recorder) Triggers(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.triggers[name]
}
