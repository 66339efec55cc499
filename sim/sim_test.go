package sim

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech/builder"
	"github.com/adammck/mech/components/controller"
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/config"
	"github.com/adammck/mech/fake/input"
	"github.com/adammck/mech/server"
)

func starter(t *testing.T) *builder.Design {
	d, err := builder.Starter(builder.DefaultCatalog())
	require.NoError(t, err)
	return d
}

// run ticks the sim n times at 60Hz, starting at t0, and returns the time of
// the next tick.
func run(t *testing.T, s *Sim, t0 time.Time, n int, each func()) time.Time {
	for i := 0; i < n; i++ {
		require.NoError(t, s.Tick(t0))
		t0 = t0.Add(time.Second / 60)
		if each != nil {
			each()
		}
	}

	return t0
}

func TestAssembleStarter(t *testing.T) {
	s, err := New(config.Default(), starter(t), input.NewScript(controller.Input{}))
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	require.NotNil(t, s.Cannon)
	assert.Equal(t, 360.0, s.Health.Max)
	assert.Len(t, s.Walker.Feet, gait.NumCorners)
	for _, leg := range s.Legs.Legs {
		assert.NotNil(t, leg)
	}

	// Controller, walker, legs, rig, cannon, health, publisher.
	assert.Len(t, s.Mech.Components, 7)
}

func TestInvalidDesign(t *testing.T) {
	d := builder.NewDesign("empty")
	_, err := New(config.Default(), d, input.NewScript(controller.Input{}))
	assert.ErrorIs(t, err, builder.ErrNoModules)
}

func TestStandingStill(t *testing.T) {
	s, err := New(config.Default(), starter(t), input.NewScript(controller.Input{}))
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	run(t, s, time.Unix(0, 0), 120, func() {
		for _, leg := range s.Legs.Legs {
			assert.False(t, leg.Stepping())
		}
	})

	st := s.Mech.State
	assert.True(t, st.Grounded)
	assert.InDelta(t, 0, st.Pose.Position.X, 1e-6)
	assert.InDelta(t, 0, st.Pose.Position.Z, 1e-6)
	assert.InDelta(t, 2, st.Pose.Position.Y, 1e-3)
}

func TestAutopilotWalks(t *testing.T) {
	src := input.NewScript(controller.Input{Autopilot: true}, controller.Input{})
	s, err := New(config.Default(), starter(t), src)
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	stepped := map[gait.Corner]bool{}
	run(t, s, time.Unix(0, 0), 600, func() {
		for _, leg := range s.Legs.Legs {
			if leg.Stepping() {
				stepped[leg.Corner] = true
			}
		}
	})

	st := s.Mech.State
	assert.True(t, st.Drive.Autopilot)
	assert.True(t, st.Grounded)
	assert.Greater(t, st.Pose.Position.Z, 10.0)
	assert.Len(t, stepped, gait.NumCorners)

	// The mech published itself to its own registry.
	r, ok := s.Registry.Get(s.Mech.ID)
	require.True(t, ok)
	snap, ok := r.Snapshot()
	require.True(t, ok)
	assert.Equal(t, s.Publisher.Version(), snap.Version)
	assert.InDelta(t, st.Pose.Position.Z, snap.Pose.Position.Z, 0.5)

	assert.Contains(t, s.Status(), "autopilot")
}

func TestDamage(t *testing.T) {
	s, err := New(config.Default(), starter(t), input.NewScript(controller.Input{}))
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	assert.ErrorIs(t, s.Damage(uuid.New(), 10), server.ErrUnknownMech)

	require.NoError(t, s.Damage(s.Mech.ID, 100))
	t0 := run(t, s, time.Unix(0, 0), 1, nil)
	assert.Equal(t, 260.0, s.Health.Current())
	assert.False(t, s.Shutdown())

	require.NoError(t, s.Damage(s.Mech.ID, 1000))
	run(t, s, t0, 1, nil)
	assert.True(t, s.Shutdown())
}

func TestFewerLegs(t *testing.T) {
	c := builder.DefaultCatalog()
	f := starter(t).File()

	// Drop the back right leg.
	mods := f.Modules[:0]
	for _, m := range f.Modules {
		if m.Snap != "br" {
			mods = append(mods, m)
		}
	}
	f.Modules = mods

	d, err := f.Build(c)
	require.NoError(t, err)

	s, err := New(config.Default(), d, input.NewScript(controller.Input{}))
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	assert.Nil(t, s.Legs.Legs[gait.BackRight])
	assert.Len(t, s.Walker.Feet, 3)
	run(t, s, time.Unix(0, 0), 10, nil)
}

func TestLoadDesign(t *testing.T) {
	c := builder.DefaultCatalog()
	store := builder.NewStore(nil, c)

	d, err := LoadDesign(store, c, "")
	require.NoError(t, err)
	assert.Equal(t, "starter", d.Name)

	// The starter was saved, so can be loaded by name.
	dd, err := LoadDesign(store, c, "starter")
	require.NoError(t, err)
	assert.Equal(t, d.Stats(), dd.Stats())

	_, err = LoadDesign(store, c, "nope")
	assert.Error(t, err)
}
