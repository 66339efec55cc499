package math3d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Vector3 struct {
	X float64 `yaml:"x" json:"x" msgpack:"x"`
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
	Z float64 `yaml:"z" json:"z" msgpack:"z"`
}

var (
	ZeroVector3    = Vector3{}
	UpVector3      = Vector3{0, 1, 0}
	DownVector3    = Vector3{0, -1, 0}
	ForwardVector3 = Vector3{0, 0, 1}
	RightVector3   = Vector3{1, 0, 0}
)

// MakeVector3 returns a pointer to a new Vector3.
func MakeVector3(x float64, y float64, z float64) *Vector3 {
	return &Vector3{x, y, z}
}

func fromR3(v r3.Vec) Vector3 {
	return Vector3{v.X, v.Y, v.Z}
}

func (v Vector3) r3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("&Vec3{x=%0.2f y=%0.2f z=%0.2f}", v.X, v.Y, v.Z)
}

// Zero returns true if the vector is at 0,0,0.
func (v Vector3) Zero() bool {
	return (v.X == 0) && (v.Y == 0) && (v.Z == 0)
}

func (v Vector3) Add(vv Vector3) Vector3 {
	return fromR3(r3.Add(v.r3(), vv.r3()))
}

func (v Vector3) Subtract(vv Vector3) Vector3 {
	return fromR3(r3.Sub(v.r3(), vv.r3()))
}

func (v Vector3) MultiplyByScalar(s float64) Vector3 {
	return fromR3(r3.Scale(s, v.r3()))
}

func (v Vector3) Magnitude() float64 {
	return r3.Norm(v.r3())
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector3) Distance(vv Vector3) float64 {
	return v.Subtract(vv).Magnitude()
}

// Unit returns a vector with the same direction and a magnitude of one. The zero
// vector stays zero, rather than turning into NaNs.
func (v Vector3) Unit() Vector3 {
	if v.Zero() {
		return ZeroVector3
	}

	return fromR3(r3.Unit(v.r3()))
}

func (v Vector3) Dot(vv Vector3) float64 {
	return r3.Dot(v.r3(), vv.r3())
}

func (v Vector3) Cross(vv Vector3) Vector3 {
	return fromR3(r3.Cross(v.r3(), vv.r3()))
}

// Lerp interpolates between v and vv. The ratio is clamped to [0, 1].
func (v Vector3) Lerp(vv Vector3, t float64) Vector3 {
	t = math.Max(0, math.Min(1, t))
	return v.Add(vv.Subtract(v).MultiplyByScalar(t))
}

// ProjectOnPlane removes the component of v along the plane normal n.
func (v Vector3) ProjectOnPlane(n Vector3) Vector3 {
	sq := n.Dot(n)
	if sq < 1e-12 {
		return v
	}

	return v.Subtract(n.MultiplyByScalar(v.Dot(n) / sq))
}

// Angle returns the angle (in degrees) between two vectors.
func (v Vector3) Angle(vv Vector3) float64 {
	d := v.Magnitude() * vv.Magnitude()
	if d < 1e-12 {
		return 0
	}

	c := math.Max(-1, math.Min(1, v.Dot(vv)/d))
	return math.Acos(c) * 180 / math.Pi
}

// Slerp rotates v towards vv by the fraction t of the angle between them. The
// length is interpolated linearly. The ratio is clamped to [0, 1].
func (v Vector3) Slerp(vv Vector3, t float64) Vector3 {
	t = math.Max(0, math.Min(1, t))

	axis := v.Cross(vv)
	a := v.Angle(vv)
	if a < 1e-9 || axis.Magnitude() < 1e-12 {
		return v.Lerp(vv, t)
	}

	mag := v.Magnitude() + (vv.Magnitude()-v.Magnitude())*t
	return AngleAxis(a*t, axis).Rotate(v.Unit()).MultiplyByScalar(mag)
}
