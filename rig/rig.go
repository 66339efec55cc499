package rig

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/legs"
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "rig",
})

// Rig poses every chain from its target and hint, once per tick. It stands in
// for the animation rig which would normally do the IK.
type Rig struct {
	Chains [gait.NumCorners]*Chain
}

// Quadruped returns a rig with four identical legs, with the hips at the
// corners of a width x length rectangle, and the feet resting height below.
func Quadruped(width, length, height, thigh, shin float64) *Rig {
	r := &Rig{}
	for i := range r.Chains {
		c := gait.Corner(i)

		z := -length / 2
		if c.Front() {
			z = length / 2
		}

		hip := math3d.Vector3{X: c.Side() * width / 2, Z: z}
		rest := math3d.Vector3{X: c.Side() * width / 2, Y: -height, Z: z}
		r.Chains[i] = NewChain(c.String(), hip, rest, thigh, shin)
	}

	return r
}

func (r *Rig) Boot() error {
	for _, c := range r.Chains {
		if c == nil {
			continue
		}

		if c.Thigh <= 0 || c.Shin <= 0 {
			return fmt.Errorf("chain %s has invalid bone lengths: %0.2f, %0.2f", c.Name, c.Thigh, c.Shin)
		}

		if c.Target == nil || c.Hint == nil {
			return fmt.Errorf("chain %s is missing its target or hint", c.Name)
		}
	}

	return nil
}

// Place puts every foot at its rest position relative to the given platform
// pose, and solves. This must be called before the legs first read the bones.
func (r *Rig) Place(platform math3d.Pose) {
	for _, c := range r.Chains {
		if c == nil {
			continue
		}

		c.Target.Position = platform.TransformPoint(c.Rest)
		c.Target.Rotation = platform.Rotation
		*c.Hint = platform.TransformPoint(c.Hip.Add(c.Rest).MultiplyByScalar(0.5)).Add(platform.Forward())
		c.Solve(platform)
	}
}

func (r *Rig) Tick(now time.Time, state *mech.State) error {
	for _, c := range r.Chains {
		if c == nil {
			continue
		}

		was := c.Stretched
		c.Solve(state.Pose)
		if c.Stretched && !was {
			log.Debugf("%s can't reach %v", c.Name, c.Target.Position)
		}
	}

	return nil
}

// Legs returns the bindings of each chain, for the legs component to drive.
func (r *Rig) Legs() [gait.NumCorners]*legs.Leg {
	var out [gait.NumCorners]*legs.Leg
	for i, c := range r.Chains {
		if c == nil {
			continue
		}

		out[i] = legs.NewLeg(gait.Corner(i), c.Target, c.Foot(), c.Knee(), c.Hint)
	}

	return out
}
