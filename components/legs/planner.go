package legs

import (
	"github.com/adammck/mech/math3d"
)

// Plan returns the pose at which the given leg should land, if it started a
// step now. It has no side effects, so it doubles as the "how far is this foot
// from where it should be" query. The second value is false if the leg has no
// rest position (because it isn't bound to a foot).
func (l *Legs) Plan(leg *Leg, pose math3d.Pose) (math3d.Pose, bool) {
	if leg == nil || !leg.rested {
		return math3d.Pose{}, false
	}

	rest := pose.TransformPoint(leg.RestOffset)
	anticipated := rest.Add(l.velocity.Unit().MultiplyByScalar(anticipation))
	offset := pose.TransformDirection(l.Config.FootPositionOffset)

	origin := anticipated.Add(math3d.UpVector3.MultiplyByScalar(castLift))
	hit, ok := l.Ground.CastDown(origin, l.Config.GroundCheckDistance, l.Config.GroundMask)
	if ok {
		return math3d.Pose{
			Position: hit.Point.Add(math3d.UpVector3.MultiplyByScalar(landingClearance)).Add(offset),
			Rotation: l.groundRotation(leg, pose, hit.Normal),
		}, true
	}

	// Nothing below. Put the foot where it would be if the platform was
	// standing on flat ground.
	anticipated.Y = pose.Position.Y - l.Config.BodyHeight
	return math3d.Pose{
		Position: anticipated.Add(offset),
		Rotation: l.footRotation(leg, pose),
	}, true
}

// footRotation returns the orientation of a foot relative to the platform,
// ignoring the ground.
func (l *Legs) footRotation(leg *Leg, pose math3d.Pose) math3d.Quaternion {
	return pose.Rotation.Mul(l.footOffset(leg))
}

func (l *Legs) footOffset(leg *Leg) math3d.Quaternion {
	return math3d.EulerVector(l.Config.FootRotationOffset).Mul(math3d.EulerVector(leg.RotationOffset))
}

// groundRotation returns the orientation of a foot landing on ground with the
// given normal. Unless AlignToGround is set, that's just the platform
// orientation. Otherwise the foot keeps the platform heading, and its up axis
// points into the ground.
func (l *Legs) groundRotation(leg *Leg, pose math3d.Pose, normal math3d.Vector3) math3d.Quaternion {
	if !l.Config.AlignToGround {
		return l.footRotation(leg, pose)
	}

	fwd := pose.Forward()
	fwd.Y = 0
	if fwd.Zero() {
		fwd = pose.Up().MultiplyByScalar(-1)
		fwd.Y = 0
	}

	// The foot offset is usually a flip to point the sole down; here the
	// look rotation has already done that.
	return math3d.LookRotation(fwd, normal.MultiplyByScalar(-1)).Mul(math3d.EulerVector(leg.RotationOffset))
}
