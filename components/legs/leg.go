package legs

import (
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

type StepState string

const (
	Idle     StepState = "idle"
	Stepping StepState = "stepping"
)

// Bone is a read-only view of a bone in the rig, which is posed by whatever is
// doing the IK.
type Bone interface {
	Pose() math3d.Pose
}

type Leg struct {
	Name   string
	Corner gait.Corner

	// Where the foot should be. This is the output of the whole component; the
	// rig reads it every frame.
	Target *math3d.Pose

	// Where the foot and knee actually are.
	Foot Bone
	Knee Bone

	// IK pole target, to bias which way the knee bends.
	KneeHint *math3d.Vector3

	// Extra rotation (degrees) applied to this foot when it lands, on top of the
	// configured foot rotation offset.
	RotationOffset math3d.Vector3

	Step StepState

	// Normalized time through the current step. Zero when the foot lifts, one
	// when it lands.
	Progress float64

	// The target at the start of the current step, and the planned landing.
	start math3d.Pose
	end   math3d.Pose

	// The position of the target in the platform space, captured when the legs
	// are first planted. This is where the foot naturally rests, whichever way
	// the platform is facing.
	RestOffset math3d.Vector3
	rested     bool
}

// NewLeg returns a leg bound to the given target and bones. Any of them may be
// nil; the leg is just skipped by the operations which need them.
func NewLeg(c gait.Corner, target *math3d.Pose, foot, knee Bone, hint *math3d.Vector3) *Leg {
	return &Leg{
		Name:     c.String(),
		Corner:   c,
		Target:   target,
		Foot:     foot,
		Knee:     knee,
		KneeHint: hint,
		Step:     Idle,
		Progress: 1,
	}
}

// Stepping returns true if the foot is currently in the air.
func (leg *Leg) Stepping() bool {
	return leg.Step == Stepping
}

// Landing returns the planned end of the current (or most recent) step.
func (leg *Leg) Landing() math3d.Pose {
	return leg.end
}

func (leg *Leg) begin(plan math3d.Pose) {
	leg.Step = Stepping
	leg.Progress = 0
	leg.start = *leg.Target
	leg.end = plan
}
