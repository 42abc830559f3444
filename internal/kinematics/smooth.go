package kinematics

import "github.com/chewxy/math32"

// SmoothDamp moves current toward target with a critically damped spring.
// velocity is the caller-owned spring state; the updated value is returned
// alongside the new position so the function itself holds no state.
func SmoothDamp(current, target, velocity, smoothTime, dt float32) (float32, float32) {
	if dt <= 0 {
		return current, velocity
	}
	smoothTime = math32.Max(MinSmoothTime, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	originalTarget := target
	target = current - change

	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	// no overshoot past the target
	if (originalTarget-current > 0) == (output > originalTarget) {
		output = originalTarget
		velocity = (output - originalTarget) / dt
	}
	return output, velocity
}

// Blend is the smoothed 2D vector that drives directional locomotion animation.
type Blend struct {
	X         float32
	Y         float32
	VelocityX float32
	VelocityY float32
}

func (b *Blend) Step(targetX, targetY, smoothTime, dt float32) {
	if b == nil {
		return
	}
	b.X, b.VelocityX = SmoothDamp(b.X, targetX, b.VelocityX, smoothTime, dt)
	b.Y, b.VelocityY = SmoothDamp(b.Y, targetY, b.VelocityY, smoothTime, dt)
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}
