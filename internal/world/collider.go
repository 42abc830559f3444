// Package world is a minimal box-collider scene: a collision-aware mover, ray
// queries, a follow camera and a debug ray sink.
package world

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/google/uuid"
)

// LayerMask selects collider layers, one bit per layer.
type LayerMask uint32

const AllLayers = ^LayerMask(0)

func LayerBit(layer uint8) LayerMask {
	if layer >= 32 {
		return 0
	}
	return LayerMask(1) << layer
}

// MaskOf builds a mask from layer numbers. No layers means every layer.
func MaskOf(layers ...uint8) LayerMask {
	if len(layers) == 0 {
		return AllLayers
	}
	var m LayerMask
	for _, l := range layers {
		m |= LayerBit(l)
	}
	return m
}

func (m LayerMask) Has(layer uint8) bool {
	return m&LayerBit(layer) != 0
}

// Collider is a static axis-aligned box. Triggers never block movement.
type Collider struct {
	ID      uuid.UUID
	Name    string
	Box     cube.BBox
	Layer   uint8
	Trigger bool
}

type World struct {
	mu        sync.RWMutex
	colliders []Collider
}

func New() *World {
	return &World{}
}

// Add stores c, assigning an ID when it has none, and returns the stored copy.
func (w *World) Add(c Collider) Collider {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	w.mu.Lock()
	w.colliders = append(w.colliders, c)
	w.mu.Unlock()
	return c
}

func (w *World) AddBox(name string, box cube.BBox, layer uint8) Collider {
	return w.Add(Collider{Name: name, Box: box, Layer: layer})
}

func (w *World) AddTrigger(name string, box cube.BBox, layer uint8) Collider {
	return w.Add(Collider{Name: name, Box: box, Layer: layer, Trigger: true})
}

func (w *World) Colliders() []Collider {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Collider, len(w.colliders))
	copy(out, w.colliders)
	return out
}

// Solid returns the boxes of blocking colliders that intersect region.
func (w *World) Solid(region cube.BBox) []cube.BBox {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []cube.BBox
	for _, c := range w.colliders {
		if c.Trigger {
			continue
		}
		if overlaps(c.Box, region, 0) {
			out = append(out, c.Box)
		}
	}
	return out
}

// Overlapping returns every collider, triggers included, touching region.
func (w *World) Overlapping(region cube.BBox) []Collider {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Collider
	for _, c := range w.colliders {
		if overlaps(c.Box, region, 0) {
			out = append(out, c)
		}
	}
	return out
}

// overlaps reports whether a and b share volume deeper than tol on every axis.
func overlaps(a, b cube.BBox, tol float32) bool {
	amin, amax := a.Min(), a.Max()
	bmin, bmax := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if amax[i]-bmin[i] <= tol || bmax[i]-amin[i] <= tol {
			return false
		}
	}
	return true
}
