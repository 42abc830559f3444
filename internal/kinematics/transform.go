package kinematics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	WorldForward = mgl32.Vec3{0, 0, 1}
	WorldRight   = mgl32.Vec3{1, 0, 0}
)

// Transform is a position plus orientation. Rotation maps local +Z to the
// transform's forward direction.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(WorldForward)
}

func (t Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(WorldRight)
}

func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(WorldUp)
}

func (t Transform) InverseTransformDirection(dir mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Inverse().Rotate(dir)
}

// ProjectOnPlane removes the component of v along normal.
func ProjectOnPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	sqr := normal.LenSqr()
	if sqr < 1e-12 {
		return v
	}
	return v.Sub(normal.Mul(v.Dot(normal) / sqr))
}

func Flatten(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

// SafeNormalize returns the unit vector of v, or zero when v is too short to
// have a meaningful direction.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() < 1e-10 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

// LookRotation builds the rotation whose forward is forward and whose up is as
// close to up as possible. A degenerate forward yields the identity.
func LookRotation(forward, up mgl32.Vec3) mgl32.Quat {
	f := SafeNormalize(forward)
	if f.LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	r := SafeNormalize(up.Cross(f))
	if r.LenSqr() == 0 {
		// forward is parallel to up; pick any perpendicular right axis
		r = SafeNormalize(WorldForward.Cross(f))
		if r.LenSqr() == 0 {
			r = WorldRight
		}
	}
	u := f.Cross(r)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(r, u, f).Mat4()).Normalize()
}

// YawRotation rotates by degrees around world up.
func YawRotation(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), WorldUp)
}

// PitchRotation rotates by degrees around the local right axis. Positive
// pitch looks down.
func PitchRotation(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(degrees), WorldRight)
}

// Slerp interpolates along the shortest arc; t is clamped to [0,1].
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t == 0 {
		return a.Normalize()
	}
	if t == 1 {
		return b.Normalize()
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}

// YawOf returns the heading of a rotation in degrees, 0 facing +Z and
// positive turning toward +X.
func YawOf(q mgl32.Quat) float32 {
	f := q.Rotate(WorldForward)
	return mgl32.RadToDeg(math32.Atan2(f.X(), f.Z()))
}

// AngleBetween returns the angle between two rotations in degrees.
func AngleBetween(a, b mgl32.Quat) float32 {
	dot := math32.Abs(a.Normalize().Dot(b.Normalize()))
	dot = Clamp(dot, 0, 1)
	return mgl32.RadToDeg(2 * math32.Acos(dot))
}
