package math3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVecInDelta(t *testing.T, exp, act Vector3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, exp.X, act.X, delta, msgAndArgs...)
	assert.InDelta(t, exp.Y, act.Y, delta, msgAndArgs...)
	assert.InDelta(t, exp.Z, act.Z, delta, msgAndArgs...)
}

func TestEulerRotate(t *testing.T) {
	type eg struct {
		rot Quaternion
		in  Vector3
		out Vector3
	}

	examples := []eg{
		{IdentityQuaternion, Vector3{1, 2, 3}, Vector3{1, 2, 3}},
		{Euler(0, 90, 0), ForwardVector3, RightVector3},
		{Euler(0, 90, 0), RightVector3, Vector3{0, 0, -1}},
		{Euler(0, 180, 0), Vector3{1, 0, 1}, Vector3{-1, 0, -1}},
		{Euler(90, 0, 0), ForwardVector3, DownVector3},
		{Euler(180, 0, 0), UpVector3, DownVector3},
		{Euler(0, 0, 90), UpVector3, Vector3{-1, 0, 0}},
	}

	for i, x := range examples {
		assertVecInDelta(t, x.out, x.rot.Rotate(x.in), 1e-9, "example %d", i+1)
	}
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	for _, in := range []Vector3{
		{0, 0, 0},
		{10, 20, 30},
		{-45, 120, 5},
		{30, -170, -60},
	} {
		assertVecInDelta(t, in, EulerVector(in).EulerAngles(), 1e-6, "angles %v", in)
	}
}

func TestLookRotation(t *testing.T) {
	q := LookRotation(ForwardVector3, UpVector3)
	assert.InDelta(t, 0.0, q.Angle(IdentityQuaternion), 1e-6)

	q = LookRotation(RightVector3, UpVector3)
	assertVecInDelta(t, RightVector3, q.Rotate(ForwardVector3), 1e-9)
	assertVecInDelta(t, UpVector3, q.Rotate(UpVector3), 1e-9)

	// Feet point down, so the up axis is the inverted ground normal.
	q = LookRotation(ForwardVector3, DownVector3)
	assertVecInDelta(t, ForwardVector3, q.Rotate(ForwardVector3), 1e-9)
	assertVecInDelta(t, DownVector3, q.Rotate(UpVector3), 1e-9)

	// Parallel forward and up still produce a valid rotation.
	q = LookRotation(UpVector3, UpVector3)
	assertVecInDelta(t, UpVector3, q.Rotate(ForwardVector3), 1e-9)
}

func TestSlerp(t *testing.T) {
	a := IdentityQuaternion
	b := Euler(0, 90, 0)

	assert.InDelta(t, 0.0, a.Slerp(b, 0).Angle(a), 1e-6)
	assert.InDelta(t, 0.0, a.Slerp(b, 1).Angle(b), 1e-6)
	assert.InDelta(t, 45.0, a.Slerp(b, 0.5).Angle(a), 1e-6)

	// Ratios outside [0, 1] are clamped.
	assert.InDelta(t, 0.0, a.Slerp(b, 5).Angle(b), 1e-6)
	assert.InDelta(t, 0.0, a.Slerp(b, -5).Angle(a), 1e-6)
}

func TestInverse(t *testing.T) {
	q := Euler(12, 34, 56)
	v := Vector3{1, 2, 3}
	assertVecInDelta(t, v, q.Inverse().Rotate(q.Rotate(v)), 1e-9)
}

func TestAngleAxisZeroAxis(t *testing.T) {
	assert.Equal(t, IdentityQuaternion, AngleAxis(45, ZeroVector3))
}
