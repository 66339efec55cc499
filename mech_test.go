package mech

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/mech/math3d"
)

type counter struct {
	bootErr error
	tickErr error
	boots   int
	ticks   int
}

func (c *counter) Boot() error {
	c.boots += 1
	return c.bootErr
}

func (c *counter) Tick(now time.Time, state *State) error {
	c.ticks += 1
	return c.tickErr
}

func TestNew(t *testing.T) {
	pose := math3d.MakePose(math3d.Vector3{Y: 2})
	m := New(pose)

	assert.NotEqual(t, New(pose).ID, m.ID)
	assert.Equal(t, pose, m.World())
	assert.Equal(t, math3d.UpVector3, m.State.Normal)
}

func TestBootError(t *testing.T) {
	bad := errors.New("bad")
	a, b, c := &counter{}, &counter{bootErr: bad}, &counter{}

	m := New(math3d.Pose{})
	m.Add(a)
	m.Add(b)
	m.Add(c)

	err := m.Boot()
	assert.ErrorIs(t, err, bad)
	assert.Contains(t, err.Error(), "#1")
	assert.Equal(t, 1, a.boots)
	assert.Equal(t, 0, c.boots)
}

func TestTickOrderAndError(t *testing.T) {
	bad := errors.New("bad")
	a, b, c := &counter{}, &counter{}, &counter{}

	m := New(math3d.Pose{})
	m.Add(a)
	m.Add(b)
	m.Add(c)
	require.NoError(t, m.Boot())

	now := time.Unix(0, 0)
	require.NoError(t, m.Tick(now))
	assert.Equal(t, []int{1, 1, 1}, []int{a.ticks, b.ticks, c.ticks})

	// Components after the failing one are skipped.
	b.tickErr = bad
	assert.ErrorIs(t, m.Tick(now), bad)
	assert.Equal(t, []int{2, 2, 1}, []int{a.ticks, b.ticks, c.ticks})
}
