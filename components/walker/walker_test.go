package walker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/legs"
	fakeground "github.com/adammck/mech/fake/ground"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

const frame = 1.0 / 60

type point math3d.Vector3

func (p point) Pose() math3d.Pose {
	return math3d.MakePose(math3d.Vector3(p))
}

// tilted is flat ground at zero, which claims to have some other normal.
type tilted struct {
	normal math3d.Vector3
}

func (g tilted) CastDown(origin math3d.Vector3, maxDistance float64, mask ground.Mask) (ground.Hit, bool) {
	h, ok := ground.NewPlane(0, ground.LayerTerrain).CastDown(origin, maxDistance, mask)
	h.Normal = g.normal
	return h, ok
}

func feet(y float64) []legs.Bone {
	return []legs.Bone{
		point{X: -1, Y: y, Z: 1},
		point{X: 1, Y: y, Z: 1},
		point{X: -1, Y: y, Z: -1},
		point{X: 1, Y: y, Z: -1},
	}
}

func standing() *mech.State {
	return &mech.State{
		Pose:   math3d.MakePose(math3d.Vector3{Y: 2}),
		Normal: math3d.UpVector3,
	}
}

func run(w *Walker, st *mech.State, n int) {
	for i := 0; i < n; i++ {
		w.Update(frame, st)
	}
}

func TestGroundedWithFeet(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	require.NoError(t, w.Boot())

	st := standing()
	w.Update(frame, st)
	assert.True(t, st.Grounded)
}

func TestGroundedNeedsTwoFeet(t *testing.T) {
	g := ground.NewPlane(0, ground.LayerTerrain)
	ff := feet(5)
	ff[0] = point{Y: 0.1}
	w := New(DefaultConfig(), g, ff...)

	st := standing()
	w.Update(frame, st)
	assert.False(t, st.Grounded)

	ff[1] = point{Y: 0.2}
	w = New(DefaultConfig(), g, ff...)
	w.Update(frame, st)
	assert.True(t, st.Grounded)
}

func TestGroundedGraceTime(t *testing.T) {
	rec := fakeground.NewRecorder(ground.NewPlane(0, ground.LayerTerrain))
	w := New(DefaultConfig(), rec, feet(0.1)...)
	st := standing()
	w.Update(frame, st)
	require.True(t, st.Grounded)

	// The ground vanishes, but the grace time keeps the platform grounded for a
	// few more frames.
	rec.Caster = fakeground.Void{}
	w.Update(frame, st)
	assert.True(t, st.Grounded)

	run(w, st, 10)
	assert.False(t, st.Grounded)
	assert.Greater(t, rec.Casts, 0)
}

func TestGroundedWithoutFeet(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain))
	st := standing()
	w.Update(frame, st)
	assert.True(t, st.Grounded)

	st.Pose.Position.Y = 10
	run(w, st, 10)
	assert.False(t, st.Grounded)
}

func TestNormalFollowsGround(t *testing.T) {
	n := math3d.AngleAxis(20, math3d.RightVector3).Rotate(math3d.UpVector3)
	w := New(DefaultConfig(), tilted{n}, feet(0.1)...)
	st := standing()

	run(w, st, 120)
	assert.InDelta(t, 0.0, st.Normal.Angle(n), 0.5)

	// Undriven, the platform stands up on the slope.
	assert.InDelta(t, 0.0, st.Pose.Up().Angle(n), 0.5)
}

func TestSteepSlopesAreIgnored(t *testing.T) {
	n := math3d.AngleAxis(60, math3d.RightVector3).Rotate(math3d.UpVector3)
	w := New(DefaultConfig(), tilted{n}, feet(0.1)...)
	st := standing()

	run(w, st, 120)
	assert.InDelta(t, 0.0, st.Normal.Angle(math3d.UpVector3), 1e-6)
}

func TestAutopilotWalksForward(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	st := standing()
	st.Drive.Autopilot = true

	run(w, st, 120)
	assert.InDelta(t, w.Config.MoveSpeed, st.Velocity.Z, 0.01)
	assert.InDelta(t, 0.0, st.Velocity.X, 1e-9)
	assert.Greater(t, st.Pose.Position.Z, 3.0)
	assert.InDelta(t, 2.0, st.Pose.Position.Y, 1e-6)
}

func TestThrottleIsClamped(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	st := standing()
	st.Drive = mech.Drive{Driven: true, Throttle: -1}

	run(w, st, 60)
	assert.Equal(t, 0.0, st.Velocity.Z)

	st.Drive.Throttle = 5
	run(w, st, 120)
	assert.InDelta(t, w.Config.MoveSpeed, st.Velocity.Z, 0.01)
}

func TestSteering(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	st := standing()
	st.Drive = mech.Drive{Driven: true, Turn: 1}

	w.Update(frame, st)
	first := w.yaw

	run(w, st, 60)

	// The turn rate ramps up, rather than jumping.
	assert.Greater(t, w.yaw, first)
	assert.Less(t, first, 2.5*w.Config.TurnSpeed)

	// Positive turns are to the right.
	fwd := st.Pose.Forward()
	assert.Greater(t, fwd.X, 0.0)
	assert.InDelta(t, 0.0, fwd.Y, 1e-9)
	assert.InDelta(t, 0.0, st.Pose.Up().Angle(math3d.UpVector3), 1e-6)
}

func TestCoastingSlowsDown(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	st := standing()
	st.Drive.Autopilot = true
	run(w, st, 120)

	st.Drive.Autopilot = false
	run(w, st, 120)
	assert.InDelta(t, 0.0, st.Velocity.Z, 0.01)
}

func TestFallingAndAirControl(t *testing.T) {
	w := New(DefaultConfig(), fakeground.Void{}, feet(0.1)...)
	st := standing()
	st.Drive = mech.Drive{Driven: true, Throttle: 1}

	// Exactly one second, so the gravity integrates cleanly.
	w.Update(1, st)
	assert.False(t, st.Grounded)
	assert.InDelta(t, -w.Config.Gravity, st.Velocity.Y, 1e-9)
	assert.InDelta(t, w.Config.MoveSpeed*airControl, st.Velocity.Z, 1e-9)
}

func TestRideHeight(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(1, ground.LayerTerrain), feet(1.1)...)
	st := standing()

	run(w, st, 120)
	assert.InDelta(t, 3.0, st.Pose.Position.Y, 1e-3)
}

func TestTickUsesWallTime(t *testing.T) {
	w := New(DefaultConfig(), ground.NewPlane(0, ground.LayerTerrain), feet(0.1)...)
	st := standing()
	st.Drive.Autopilot = true

	t0 := time.Unix(100, 0)
	require.NoError(t, w.Tick(t0, st))
	assert.Equal(t, 2.0, st.Pose.Position.Y)
	assert.Equal(t, 0.0, st.Pose.Position.Z)

	require.NoError(t, w.Tick(t0.Add(50*time.Millisecond), st))
	assert.Greater(t, st.Pose.Position.Z, 0.0)
}

func TestBootRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroundCheckDistance = 0
	assert.Error(t, New(cfg, fakeground.Void{}).Boot())
	assert.Error(t, New(DefaultConfig(), nil).Boot())
}
