package math3d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/adammck/mech/utils"
)

// Quaternion is a rotation. The zero value is not a valid rotation; use
// IdentityQuaternion.
type Quaternion struct {
	W float64 `yaml:"w" json:"w" msgpack:"w"`
	X float64 `yaml:"x" json:"x" msgpack:"x"`
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
	Z float64 `yaml:"z" json:"z" msgpack:"z"`
}

var (
	IdentityQuaternion = Quaternion{W: 1}
)

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func (q Quaternion) String() string {
	ea := q.EulerAngles()
	return fmt.Sprintf("&Quat{p=%+.2f° y=%+.2f° r=%+.2f°}", ea.X, ea.Y, ea.Z)
}

// AngleAxis returns a rotation of deg degrees around axis.
func AngleAxis(deg float64, axis Vector3) Quaternion {
	axis = axis.Unit()
	if axis.Zero() {
		return IdentityQuaternion
	}

	h := utils.Rad(deg) / 2
	s := math.Sin(h)
	return Quaternion{W: math.Cos(h), X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// Euler returns the rotation for the given pitch (X), yaw (Y) and roll (Z), in
// degrees. Roll is applied first, then pitch, then yaw.
func Euler(pitch, yaw, roll float64) Quaternion {
	qx := AngleAxis(pitch, RightVector3)
	qy := AngleAxis(yaw, UpVector3)
	qz := AngleAxis(roll, ForwardVector3)
	return qy.Mul(qx).Mul(qz)
}

// EulerVector is Euler with the angles packed into a vector, which is how
// rotation offsets are written in config files.
func EulerVector(v Vector3) Quaternion {
	return Euler(v.X, v.Y, v.Z)
}

// EulerAngles returns the pitch (X), yaw (Y) and roll (Z) of the rotation, in
// degrees. This is the inverse of Euler, away from the pitch singularity.
func (q Quaternion) EulerAngles() Vector3 {
	q = q.Normalize()

	sp := 2 * (q.W*q.X - q.Y*q.Z)
	sp = math.Max(-1, math.Min(1, sp))
	pitch := math.Asin(sp)
	yaw := math.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	roll := math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.X*q.X+q.Z*q.Z))

	return Vector3{utils.Deg(pitch), utils.Deg(yaw), utils.Deg(roll)}
}

// LookRotation returns the rotation whose forward axis points along forward and
// whose up axis is as close to up as possible. If the two are parallel, an
// arbitrary perpendicular is used for the right axis.
func LookRotation(forward, up Vector3) Quaternion {
	f := forward.Unit()
	if f.Zero() {
		return IdentityQuaternion
	}

	r := up.Cross(f).Unit()
	if r.Zero() {
		r = RightVector3.ProjectOnPlane(f).Unit()
		if r.Zero() {
			r = UpVector3.Cross(f).Unit()
		}
	}

	u := f.Cross(r)
	return fromBasis(r, u, f)
}

// fromBasis converts the rotation matrix with columns r, u, f into a quaternion.
func fromBasis(r, u, f Vector3) Quaternion {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quaternion
	tr := m00 + m11 + m22

	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = Quaternion{W: s / 4, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}

	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quaternion{W: (m21 - m12) / s, X: s / 4, Y: (m01 + m10) / s, Z: (m02 + m20) / s}

	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quaternion{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: s / 4, Z: (m12 + m21) / s}

	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quaternion{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: s / 4}
	}

	return q.Normalize()
}

// Mul composes two rotations. qq is applied first, so q.Mul(qq).Rotate(v) is
// q.Rotate(qq.Rotate(v)).
func (q Quaternion) Mul(qq Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), qq.number()))
}

func (q Quaternion) Normalize() Quaternion {
	n := quat.Abs(q.number())
	if n < 1e-12 {
		return IdentityQuaternion
	}

	return fromNumber(quat.Scale(1/n, q.number()))
}

// Inverse returns the opposite rotation. Rotations are unit quaternions, so this
// is just the conjugate.
func (q Quaternion) Inverse() Quaternion {
	return fromNumber(quat.Conj(q.Normalize().number()))
}

func (q Quaternion) Dot(qq Quaternion) float64 {
	return q.W*qq.W + q.X*qq.X + q.Y*qq.Y + q.Z*qq.Z
}

// Rotate returns v rotated by q.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	n := q.number()
	r := quat.Mul(quat.Mul(n, p), quat.Conj(n))
	return Vector3{r.Imag, r.Jmag, r.Kmag}
}

// Angle returns the angle (in degrees) between two rotations.
func (q Quaternion) Angle(qq Quaternion) float64 {
	d := math.Abs(q.Normalize().Dot(qq.Normalize()))
	d = math.Min(1, d)
	return utils.Deg(2 * math.Acos(d))
}

// Slerp interpolates along the shortest arc between q and qq. The ratio is
// clamped to [0, 1].
func (q Quaternion) Slerp(qq Quaternion, t float64) Quaternion {
	t = utils.Clamp01(t)
	a := q.Normalize()
	b := qq.Normalize()

	d := a.Dot(b)
	if d < 0 {
		b = Quaternion{-b.W, -b.X, -b.Y, -b.Z}
		d = -d
	}

	// Nearly identical; fall back to lerp to avoid dividing by ~zero.
	if d > 0.9995 {
		return Quaternion{
			W: a.W + (b.W-a.W)*t,
			X: a.X + (b.X-a.X)*t,
			Y: a.Y + (b.Y-a.Y)*t,
			Z: a.Z + (b.Z-a.Z)*t,
		}.Normalize()
	}

	theta := math.Acos(d)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin

	return Quaternion{
		W: a.W*wa + b.W*wb,
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
	}
}
