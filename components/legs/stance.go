package legs

import (
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

// plant eases an idle foot onto the ground directly below it. This only
// happens while the platform is standing still; otherwise feet stay wherever
// they landed until it's their turn to step.
func (l *Legs) plant(leg *Leg, pose math3d.Pose, dt float64) {
	if leg.Target == nil || leg.Foot == nil {
		return
	}

	origin := leg.Foot.Pose().Position.Add(math3d.UpVector3.MultiplyByScalar(castLift))
	hit, ok := l.Ground.CastDown(origin, l.Config.GroundCheckDistance, l.Config.GroundMask)
	if !ok {
		return
	}

	offset := pose.TransformDirection(l.Config.FootPositionOffset)
	want := hit.Point.Add(math3d.UpVector3.MultiplyByScalar(plantClearance)).Add(offset)
	leg.Target.Position = leg.Target.Position.Lerp(want, dt*plantBlend)

	down := pose.Rotation.Mul(math3d.Euler(180, 0, 0))
	leg.Target.Rotation = leg.Target.Rotation.Slerp(down, dt*l.Config.RotationSpeed)
}

// updateKneeHints puts each knee hint a little in front of (or, for the back
// legs, behind) its knee, and out to the side. This stops the rig bending the
// knees the wrong way.
func (l *Legs) updateKneeHints(pose math3d.Pose) {
	fwd := pose.Forward()
	right := pose.Right()

	for _, leg := range l.Legs {
		if leg == nil || leg.Knee == nil || leg.KneeHint == nil {
			continue
		}

		f := -kneeForward
		if leg.Corner.Front() {
			f = kneeForward
		}

		*leg.KneeHint = leg.Knee.Pose().Position.
			Add(fwd.MultiplyByScalar(f)).
			Add(right.MultiplyByScalar(kneeSide * leg.Corner.Side()))
	}
}

// updateBodyTilt leans the body visual into the direction of travel.
func (l *Legs) updateBodyTilt(pose math3d.Pose, dt float64) {
	if l.Body == nil {
		return
	}

	local := pose.InverseTransformDirection(l.velocity)
	pitch := -local.Z * l.Config.TiltAmount
	roll := -local.X * l.Config.TiltAmount

	want := math3d.Euler(pitch, 0, roll)
	*l.Body = l.Body.Slerp(want, dt*l.Config.TiltSpeed)
}

// Leg returns the leg at the given corner, which may be nil.
func (l *Legs) Leg(c gait.Corner) *Leg {
	if c < 0 || c >= gait.NumCorners {
		return nil
	}

	return l.Legs[c]
}
