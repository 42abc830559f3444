package world

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	GroundProbeDistance = float32(0.001)
	axisTolerance       = float32(1e-5)
	sweepMargin         = float32(0.01)
)

const (
	axisX = 0
	axisY = 1
	axisZ = 2
)

// Body is a collision-aware mover for an upright box standing on its
// position. It is the authority on whether the character is grounded.
type Body struct {
	mu         sync.Mutex
	world      *World
	position   mgl32.Vec3
	width      float32
	height     float32
	stepOffset float32
	grounded   bool
}

func NewBody(w *World, position mgl32.Vec3, width, height, stepOffset float32) *Body {
	b := &Body{
		world:      w,
		position:   position,
		width:      width,
		height:     height,
		stepOffset: stepOffset,
	}
	b.grounded = b.probeGround(position)
	return b
}

func (b *Body) Position() mgl32.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

// SetPosition teleports the body without collision checks.
func (b *Body) SetPosition(pos mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = pos
	b.grounded = b.probeGround(pos)
}

func (b *Body) Grounded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grounded
}

func (b *Body) Box() cube.BBox {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.boxAt(b.position)
}

func (b *Body) boxAt(pos mgl32.Vec3) cube.BBox {
	hw := b.width / 2
	return cube.Box(
		pos.X()-hw, pos.Y(), pos.Z()-hw,
		pos.X()+hw, pos.Y()+b.height, pos.Z()+hw,
	)
}

// Move resolves delta against the world's solid colliders, vertical axis
// first, and returns the displacement actually applied.
func (b *Body) Move(delta mgl32.Vec3) (mgl32.Vec3, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.position
	wasGrounded := b.grounded

	pos, blockedDown := b.resolveY(start, delta.Y())
	flat, clipped := b.resolveHorizontal(pos, delta.X(), delta.Z())

	if clipped && wasGrounded && b.stepOffset > 0 && delta.Y() <= 0 {
		if stepped, ok := b.tryStep(pos, delta.X(), delta.Z()); ok {
			if horizontalDistSqr(pos, stepped) > horizontalDistSqr(pos, flat) {
				flat = stepped
			}
		}
	}

	b.position = flat
	b.grounded = blockedDown || b.probeGround(flat)
	return flat.Sub(start), b.grounded
}

func (b *Body) resolveY(pos mgl32.Vec3, dy float32) (mgl32.Vec3, bool) {
	if nearlyZero(dy) {
		return pos, false
	}
	allowed := b.clip(pos, axisY, dy)
	pos[axisY] += allowed
	return pos, dy < 0 && !nearlyEqual(allowed, dy)
}

func (b *Body) resolveHorizontal(pos mgl32.Vec3, dx, dz float32) (mgl32.Vec3, bool) {
	clipped := false
	if !nearlyZero(dx) {
		allowed := b.clip(pos, axisX, dx)
		clipped = clipped || !nearlyEqual(allowed, dx)
		pos[axisX] += allowed
	}
	if !nearlyZero(dz) {
		allowed := b.clip(pos, axisZ, dz)
		clipped = clipped || !nearlyEqual(allowed, dz)
		pos[axisZ] += allowed
	}
	return pos, clipped
}

// tryStep lifts the body by the step offset, moves horizontally and settles
// back down, mirroring how a character climbs a low ledge.
func (b *Body) tryStep(pos mgl32.Vec3, dx, dz float32) (mgl32.Vec3, bool) {
	up := b.clip(pos, axisY, b.stepOffset)
	if up <= axisTolerance {
		return pos, false
	}
	raised := pos
	raised[axisY] += up
	moved, _ := b.resolveHorizontal(raised, dx, dz)
	down := b.clip(moved, axisY, -up)
	moved[axisY] += down
	if nearlyEqual(down, -up) && !b.probeGround(moved) {
		// nothing to stand on at the top of the step
		return pos, false
	}
	return moved, true
}

// clip shortens a single-axis displacement so the body stops flush against
// the first solid collider in its way.
func (b *Body) clip(pos mgl32.Vec3, axis int, delta float32) float32 {
	if b.world == nil {
		return delta
	}
	box := b.boxAt(pos)
	bmin, bmax := box.Min(), box.Max()

	smin, smax := bmin, bmax
	if delta > 0 {
		smax[axis] += delta
	} else {
		smin[axis] += delta
	}
	sweep := cube.Box(
		smin.X()-sweepMargin, smin.Y()-sweepMargin, smin.Z()-sweepMargin,
		smax.X()+sweepMargin, smax.Y()+sweepMargin, smax.Z()+sweepMargin,
	)

	allowed := delta
	for _, obstacle := range b.world.Solid(sweep) {
		omin, omax := obstacle.Min(), obstacle.Max()
		if !overlapOnOtherAxes(bmin, bmax, omin, omax, axis) {
			continue
		}
		if delta > 0 && bmax[axis] <= omin[axis]+axisTolerance {
			if gap := omin[axis] - bmax[axis]; gap < allowed {
				allowed = math32.Max(gap, 0)
			}
		} else if delta < 0 && bmin[axis] >= omax[axis]-axisTolerance {
			if gap := omax[axis] - bmin[axis]; gap > allowed {
				allowed = math32.Min(gap, 0)
			}
		}
	}
	return allowed
}

func (b *Body) probeGround(pos mgl32.Vec3) bool {
	if b.world == nil {
		return false
	}
	box := b.boxAt(pos)
	lo, hi := box.Min(), box.Max()
	probe := cube.Box(
		lo.X(), lo.Y()-GroundProbeDistance, lo.Z(),
		hi.X(), hi.Y()-GroundProbeDistance, hi.Z(),
	)
	for _, solid := range b.world.Solid(probe) {
		if overlaps(probe, solid, axisTolerance/10) {
			return true
		}
	}
	return false
}

func overlapOnOtherAxes(amin, amax, bmin, bmax mgl32.Vec3, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if amax[i]-bmin[i] <= axisTolerance || bmax[i]-amin[i] <= axisTolerance {
			return false
		}
	}
	return true
}

func horizontalDistSqr(a, b mgl32.Vec3) float32 {
	dx := b.X() - a.X()
	dz := b.Z() - a.Z()
	return dx*dx + dz*dz
}

func nearlyZero(v float32) bool {
	return math32.Abs(v) <= axisTolerance
}

func nearlyEqual(a, b float32) bool {
	return math32.Abs(a-b) <= axisTolerance
}
