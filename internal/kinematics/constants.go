package kinematics

const (
	// GroundStickVelocity keeps a grounded character pressed into the floor so
	// the mover keeps reporting contact.
	GroundStickVelocity = float32(-2.0)

	DefaultGravity = float32(-9.81)

	MinMoveSqrMagnitude = float32(0.001)
	MinTurnSqrMagnitude = float32(0.0001)

	MinSmoothTime = float32(1e-4)

	PitchLimit = float32(90.0)
)
