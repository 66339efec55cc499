package rig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

func TestSSS(t *testing.T) {
	type eg struct {
		a, b, c float64
		exp     float64
	}

	examples := []eg{
		{1, 1, 1, 60},
		{5, 3, 4, 90},
		{3, 4, 5, 36.8699},

		// Not a triangle, but shouldn't be NaN.
		{10, 1, 1, 180},
	}

	for i, x := range examples {
		assert.InDelta(t, x.exp, sss(x.a, x.b, x.c), 0.001, "example %d", i+1)
	}
}

func TestSolveReachesTarget(t *testing.T) {
	c := NewChain("test", math3d.ZeroVector3, math3d.Vector3{Y: -2}, 1.5, 1.5)
	c.Target.Position = math3d.Vector3{Y: -2, Z: 0.5}
	*c.Hint = math3d.Vector3{Y: -1, Z: 5}
	c.Solve(math3d.MakePose(math3d.ZeroVector3))

	assert.False(t, c.Stretched)
	assertVec(t, c.Target.Position, c.Foot().Pose().Position, 1e-9)

	// Both bones keep their length.
	knee := c.Knee().Pose().Position
	assert.InDelta(t, 1.5, knee.Magnitude(), 1e-9)
	assert.InDelta(t, 1.5, knee.Distance(c.Target.Position), 1e-9)

	// And the knee bends towards the hint.
	assert.Greater(t, knee.Z, 0.5)
}

func TestSolveHintFlipsKnee(t *testing.T) {
	c := NewChain("test", math3d.ZeroVector3, math3d.Vector3{Y: -2}, 1.5, 1.5)
	c.Target.Position = math3d.Vector3{Y: -2}

	*c.Hint = math3d.Vector3{Y: -1, Z: -5}
	c.Solve(math3d.MakePose(math3d.ZeroVector3))
	assert.Less(t, c.Knee().Pose().Position.Z, 0.0)

	*c.Hint = math3d.Vector3{Y: -1, Z: 5}
	c.Solve(math3d.MakePose(math3d.ZeroVector3))
	assert.Greater(t, c.Knee().Pose().Position.Z, 0.0)
}

func TestSolveOutOfReach(t *testing.T) {
	c := NewChain("test", math3d.Vector3{X: 1}, math3d.Vector3{Y: -2}, 1, 1)
	c.Target.Position = math3d.Vector3{X: 1, Y: -10}
	c.Solve(math3d.MakePose(math3d.ZeroVector3))

	assert.True(t, c.Stretched)
	assertVec(t, math3d.Vector3{X: 1, Y: -2 + reachMargin}, c.Foot().Pose().Position, 1e-9)
}

func TestPlaceAndTick(t *testing.T) {
	r := Quadruped(2, 3, 2, 1.5, 1.5)
	require.NoError(t, r.Boot())

	pose := math3d.Pose{Position: math3d.Vector3{Y: 2, Z: 10}, Rotation: math3d.Euler(0, 90, 0)}
	r.Place(pose)

	for i, c := range r.Chains {
		assertVec(t, pose.TransformPoint(c.Rest), c.Foot().Pose().Position, 1e-9, "chain %d", i)
	}

	// Front left is on the left of the platform, which is facing +X.
	fl := r.Chains[gait.FrontLeft].Foot().Pose().Position
	assert.InDelta(t, 1.5, fl.X, 1e-9)
	assert.InDelta(t, 11.0, fl.Z, 1e-9)

	// Moving a target moves the foot on the next tick.
	r.Chains[gait.BackRight].Target.Position.Y += 0.5
	st := &mech.State{Pose: pose}
	require.NoError(t, r.Tick(time.Now(), st))
	assert.InDelta(t, 0.5, r.Chains[gait.BackRight].Foot().Pose().Position.Y, 1e-9)
}

func TestLegsShareBindings(t *testing.T) {
	r := Quadruped(2, 3, 2, 1.5, 1.5)
	ll := r.Legs()

	for i, leg := range ll {
		require.NotNil(t, leg)
		assert.Equal(t, gait.Corner(i), leg.Corner)
		assert.Same(t, r.Chains[i].Target, leg.Target)
		assert.Same(t, r.Chains[i].Hint, leg.KneeHint)
	}
}

func TestBootRejectsBadChains(t *testing.T) {
	r := Quadruped(2, 3, 2, 1.5, 0)
	assert.Error(t, r.Boot())
}

func assertVec(t *testing.T, exp, act math3d.Vector3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, exp.X, act.X, delta, msgAndArgs...)
	assert.InDelta(t, exp.Y, act.Y, delta, msgAndArgs...)
	assert.InDelta(t, exp.Z, act.Z, delta, msgAndArgs...)
}
