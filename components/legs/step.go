package legs

import (
	"math"

	"github.com/adammck/mech/math3d"
)

// Arc returns the height which a foot is lifted at the given point through a
// step. It's zero at both ends, and peaks at height half way through.
func Arc(progress, height float64) float64 {
	if progress <= 0 || progress >= 1 {
		return 0
	}

	return math.Sin(progress*math.Pi) * height
}

// Swing returns the pose of a foot at the given point through a step from start
// to end. The foot moves in a straight line, lifted by the arc, but never dips
// below the height it's landing at.
func Swing(start, end math3d.Pose, progress, height float64) math3d.Pose {
	pos := start.Position.Lerp(end.Position, progress)
	pos.Y += Arc(progress, height)
	pos.Y = math.Max(pos.Y, end.Position.Y)

	return math3d.Pose{
		Position: pos,
		Rotation: start.Rotation.Slerp(end.Rotation, progress),
	}
}

// advance moves a stepping foot along its swing. When the step is finished, the
// foot is put exactly on the planned landing.
func (l *Legs) advance(leg *Leg, dt float64) {
	if leg.Target == nil {
		leg.Step = Idle
		return
	}

	if dt > 0 {
		leg.Progress += dt * l.Config.StepSpeed
	}

	if leg.Progress >= 1 {
		*leg.Target = leg.end
		leg.Progress = 1
		leg.Step = Idle
		log.Debugf("%s landed at %v", leg.Name, leg.end.Position)
		return
	}

	*leg.Target = Swing(leg.start, leg.end, leg.Progress, l.Config.StepHeight)
}
