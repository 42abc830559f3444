package kinematics

import "github.com/chewxy/math32"

// LocomotionState is the vertical half of a character's motion. It is the only
// place that tracks vertical movement; height itself belongs to the mover.
type LocomotionState struct {
	VerticalVelocity float32
	Grounded         bool
}

// Ground records the mover's latest ground report and applies the landing reset.
func (s *LocomotionState) Ground(grounded bool) {
	if s == nil {
		return
	}
	s.Grounded = grounded
	if grounded && s.VerticalVelocity < 0 {
		s.VerticalVelocity = GroundStickVelocity
	}
}

func (s *LocomotionState) Integrate(gravity, dt float32) {
	if s == nil {
		return
	}
	s.VerticalVelocity += gravity * dt
}

// Jump applies the jump impulse when grounded and reports whether it did.
func (s *LocomotionState) Jump(jumpHeight, gravity float32) bool {
	if s == nil || !s.Grounded {
		return false
	}
	s.VerticalVelocity = JumpVelocity(jumpHeight, gravity)
	return true
}

// JumpVelocity is the launch speed that reaches jumpHeight under constant gravity.
func JumpVelocity(jumpHeight, gravity float32) float32 {
	if jumpHeight <= 0 {
		return 0
	}
	return math32.Sqrt(jumpHeight * 2 * math32.Abs(gravity))
}
