package legs

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

type Legs struct {
	Config Config
	Ground ground.Caster
	Gait   *gait.Scheduler

	// Indexed by gait.Corner. Nil legs are skipped.
	Legs [gait.NumCorners]*Leg

	// Local rotation of the body visual, which is tilted according to the
	// velocity. May be nil.
	Body *math3d.Quaternion

	// Set on the first tick, when the feet are first planted.
	initialized bool

	lastTick     time.Time
	lastPosition math3d.Vector3
	velocity     math3d.Vector3
}

func New(cfg Config, g ground.Caster, legs [gait.NumCorners]*Leg, body *math3d.Quaternion) *Legs {
	for i, leg := range legs {
		if leg != nil {
			leg.Corner = gait.Corner(i)
			if leg.Name == "" {
				leg.Name = leg.Corner.String()
			}
		}
	}

	return &Legs{
		Config: cfg,
		Ground: g,
		Gait:   gait.NewScheduler(cfg.Gait),
		Legs:   legs,
		Body:   body,
	}
}

// Boot checks the config. The feet can't be planted until the first tick,
// because that's when we find out where the platform is.
func (l *Legs) Boot() error {
	if err := l.Config.Validate(); err != nil {
		return fmt.Errorf("invalid legs config: %w", err)
	}

	if l.Ground == nil {
		return fmt.Errorf("legs need a ground caster")
	}

	return nil
}

// Velocity returns the platform velocity estimated during the last tick.
func (l *Legs) Velocity() math3d.Vector3 {
	return l.velocity
}

func (l *Legs) Tick(now time.Time, state *mech.State) error {
	if !l.initialized {
		l.Init(state.Pose)
		l.lastTick = now
		return nil
	}

	dt := now.Sub(l.lastTick).Seconds()
	l.lastTick = now
	l.Update(dt, state.Pose)
	return nil
}

// Init plants every foot directly below its bone, and records where that is
// relative to the platform. That becomes the rest position of each foot.
func (l *Legs) Init(pose math3d.Pose) {
	for _, leg := range l.Legs {
		if leg == nil || leg.Target == nil || leg.Foot == nil {
			continue
		}

		pos := leg.Foot.Pose().Position
		hit, ok := l.Ground.CastDown(pos.Add(math3d.UpVector3.MultiplyByScalar(castLift)), l.Config.GroundCheckDistance, l.Config.GroundMask)
		if ok {
			pos = hit.Point
		} else {
			pos.Y = pose.Position.Y - l.Config.BodyHeight
		}

		leg.Target.Position = pos
		leg.Target.Rotation = l.footRotation(leg, pose)
		leg.RestOffset = pose.InverseTransformPoint(pos)
		leg.rested = true
		leg.Step = Idle

		log.Debugf("%s rests at %v (local %v)", leg.Name, pos, leg.RestOffset)
	}

	l.lastPosition = pose.Position
	l.velocity = math3d.ZeroVector3
	l.initialized = true
}

// Update advances everything by dt seconds, given the current pose of the
// platform. Tick calls this with the time since the previous tick.
func (l *Legs) Update(dt float64, pose math3d.Pose) {
	if !l.initialized {
		l.Init(pose)
		return
	}

	l.estimateVelocity(pose.Position, dt)
	moving := l.Moving()

	for _, leg := range l.Legs {
		if leg == nil {
			continue
		}

		if leg.Stepping() {
			l.advance(leg, dt)
		} else if !moving {
			l.plant(leg, pose, dt)
		}
	}

	if moving && !l.AnyStepping() {
		l.tryStartGaitCycle(pose)
	}

	l.updateKneeHints(pose)
	l.updateBodyTilt(pose, dt)
}

// Moving returns true if the platform is moving fast enough to need steps.
func (l *Legs) Moving() bool {
	return l.velocity.Magnitude() > idleSpeed
}

// AnyStepping returns true if any foot is in the air.
func (l *Legs) AnyStepping() bool {
	for _, leg := range l.Legs {
		if leg != nil && leg.Stepping() {
			return true
		}
	}

	return false
}

// estimateVelocity updates the velocity from the distance the platform moved
// since the last update. There's no smoothing.
func (l *Legs) estimateVelocity(pos math3d.Vector3, dt float64) {
	if dt > 0 {
		l.velocity = pos.Subtract(l.lastPosition).MultiplyByScalar(1 / dt)
	} else {
		l.velocity = math3d.ZeroVector3
	}

	l.lastPosition = pos
}

// tryStartGaitCycle starts the pair of legs for the current phase, if either of
// them has drifted too far from where it should be. Each leg's landing is
// planned once, here, and that same plan is used for the step. So the decision
// and the landing can never disagree.
func (l *Legs) tryStartGaitCycle(pose math3d.Pose) {
	pair := l.Gait.Next()

	var plans [2]math3d.Pose
	var ok [2]bool
	need := false

	for i, c := range pair {
		leg := l.Legs[c]
		if leg == nil || leg.Target == nil {
			continue
		}

		plans[i], ok[i] = l.Plan(leg, pose)
		if ok[i] && leg.Target.Position.Distance(plans[i].Position) > l.Config.StepDistance {
			need = true
		}
	}

	if !need {
		return
	}

	phase := l.Gait.Phase()
	l.Gait.Advance()
	log.Debugf("stepping %s (phase %s -> %s)", pair, phase, l.Gait.Phase())

	for i, c := range pair {
		if ok[i] {
			l.Legs[c].begin(plans[i])
		}
	}
}
