package mech

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adammck/mech/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "mech",
})

// Drive is the input which the pilot (or autopilot) is currently applying.
type Drive struct {

	// True if someone is at the controls. An undriven mech only keeps itself
	// upright, unless the autopilot is on.
	Driven bool

	Throttle  float64
	Turn      float64
	Autopilot bool

	// Gunner input.
	Aim  math3d.Vector3 // X = yaw, Y = pitch; degrees per second
	Fire bool
}

// State is shared by all of the components of a mech. It's only touched from
// the tick loop, so doesn't need locking.
type State struct {

	// The world pose of the platform (the center of the body).
	Pose math3d.Pose

	// Linear velocity of the platform, as integrated by the walker.
	Velocity math3d.Vector3

	Drive Drive

	// Whether the walker considers the platform to be on the ground, and the
	// smoothed normal of that ground.
	Grounded bool
	Normal   math3d.Vector3

	// Components can set this to true to indicate that the mech should shut
	// down.
	Shutdown bool
}

type Component interface {
	Boot() error
	Tick(now time.Time, state *State) error
}

type Mech struct {
	ID         uuid.UUID
	Components []Component
	State      State
}

// New creates a new Mech standing at the given pose.
func New(pose math3d.Pose) *Mech {
	return &Mech{
		ID:         uuid.New(),
		Components: []Component{},
		State: State{
			Pose:   pose,
			Normal: math3d.UpVector3,
		},
	}
}

// Add registers a component to receive ticks every frame. Components are ticked
// in the order they were added.
func (m *Mech) Add(c Component) {
	m.Components = append(m.Components, c)
}

// Boot calls Boot on each component.
func (m *Mech) Boot() error {
	for i, c := range m.Components {
		err := c.Boot()
		if err != nil {
			return fmt.Errorf("error while booting component #%d (%T): %w", i, c, err)
		}
	}

	log.WithField("id", m.ID).Infof("booted %d components", len(m.Components))
	return nil
}

// Tick calls Tick on each component, and returns the first error. Components
// after the failing one are not ticked.
func (m *Mech) Tick(now time.Time) error {
	for _, c := range m.Components {
		err := c.Tick(now, &m.State)
		if err != nil {
			return fmt.Errorf("error while ticking %T: %w", c, err)
		}
	}

	return nil
}

// World returns the pose of the platform in the world.
func (m *Mech) World() math3d.Pose {
	return m.State.Pose
}
