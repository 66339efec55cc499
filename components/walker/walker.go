package walker

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/legs"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/utils"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "walker",
})

const (

	// Feet which must be on the ground for the platform to be grounded.
	minGroundedFeet = 2

	// The ground normal is only estimated from the feet when at least this many
	// are bound. Otherwise it's assumed to be straight up.
	minNormalFeet = 3

	// Extra distance for the normal casts, beyond the grounded check.
	normalCastExtra = 0.2

	// Rate at which the velocity approaches the throttle when grounded.
	acceleration = 10.0

	// Fraction of the move speed available while airborne.
	airControl = 0.3
)

type Config struct {
	MoveSpeed           float64     `yaml:"moveSpeed"`
	TurnSpeed           float64     `yaml:"turnSpeed"`
	RotationSmoothTime  float64     `yaml:"rotationSmoothTime"`
	RotationSensitivity float64     `yaml:"rotationSensitivity"`
	AlignmentSpeed      float64     `yaml:"alignmentSpeed"`
	GroundCheckDistance float64     `yaml:"groundCheckDistance"`
	GroundedGraceTime   float64     `yaml:"groundedGraceTime"`
	GroundMask          ground.Mask `yaml:"groundMask"`
	MaxSlopeAngle       float64     `yaml:"maxSlopeAngle"`
	GroundDrag          float64     `yaml:"groundDrag"`
	AirDrag             float64     `yaml:"airDrag"`
	Gravity             float64     `yaml:"gravity"`

	// Height of the platform above the ground under it.
	RideHeight float64 `yaml:"rideHeight"`
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:           3,
		TurnSpeed:           7,
		RotationSmoothTime:  0.35,
		RotationSensitivity: 2,
		AlignmentSpeed:      5,
		GroundCheckDistance: 0.5,
		GroundedGraceTime:   0.12,
		GroundMask:          ground.Everything,
		MaxSlopeAngle:       40,
		GroundDrag:          5,
		AirDrag:             0.5,
		Gravity:             9.81,
		RideHeight:          2,
	}
}

func (c Config) Validate() error {
	if c.MoveSpeed < 0 {
		return fmt.Errorf("moveSpeed must not be negative, got %0.2f", c.MoveSpeed)
	}

	if c.GroundCheckDistance <= 0 {
		return fmt.Errorf("groundCheckDistance must be positive, got %0.2f", c.GroundCheckDistance)
	}

	if c.RotationSmoothTime <= 0 {
		return fmt.Errorf("rotationSmoothTime must be positive, got %0.2f", c.RotationSmoothTime)
	}

	return nil
}

// Walker moves the platform. It's the only thing which writes the pose of the
// mech; the legs just follow along.
type Walker struct {
	Config Config
	Ground ground.Caster

	// Points (usually the feet) which are checked for ground contact. If there
	// are none, the platform itself is checked.
	Feet []legs.Bone

	velocity math3d.Vector3
	normal   math3d.Vector3
	grounded bool
	timer    float64

	// Current yaw rate (degrees per second), and its SmoothDamp velocity.
	yaw    float64
	yawVel float64

	lastTick time.Time
}

func New(cfg Config, g ground.Caster, feet ...legs.Bone) *Walker {
	return &Walker{
		Config: cfg,
		Ground: g,
		Feet:   feet,
		normal: math3d.UpVector3,
	}
}

func (w *Walker) Boot() error {
	if err := w.Config.Validate(); err != nil {
		return fmt.Errorf("invalid walker config: %w", err)
	}

	if w.Ground == nil {
		return fmt.Errorf("walker needs a ground caster")
	}

	return nil
}

func (w *Walker) Tick(now time.Time, state *mech.State) error {
	var dt float64
	if !w.lastTick.IsZero() {
		dt = now.Sub(w.lastTick).Seconds()
	}

	w.lastTick = now
	w.Update(dt, state)
	return nil
}

// Grounded returns whether the platform was on the ground at the last update.
func (w *Walker) Grounded() bool {
	return w.grounded
}

// Update moves the platform by dt seconds of drive input.
func (w *Walker) Update(dt float64, state *mech.State) {
	w.checkGrounded(dt, state.Pose)

	if w.grounded {
		n := w.groundNormal()
		if n.Angle(math3d.UpVector3) > w.Config.MaxSlopeAngle {
			n = math3d.UpVector3
		}

		w.normal = w.normal.Slerp(n, w.Config.AlignmentSpeed*dt).Unit()
	} else {
		w.normal = w.normal.Slerp(math3d.UpVector3, w.Config.AlignmentSpeed*0.5*dt).Unit()
	}

	d := state.Drive
	if d.Driven {
		state.Pose.Rotation = w.steer(dt, d.Turn, state.Pose)
	} else if w.grounded {
		state.Pose.Rotation = state.Pose.Rotation.Slerp(w.level(state.Pose), w.Config.AlignmentSpeed*dt)
	}

	if d.Driven || d.Autopilot {
		w.drive(dt, d, state.Pose)
	} else {
		w.coast(dt)
	}

	w.fall(dt, &state.Pose)
	state.Pose.Position = state.Pose.Position.Add(w.velocity.MultiplyByScalar(dt))

	state.Velocity = w.velocity
	state.Grounded = w.grounded
	state.Normal = w.normal
}

// checkGrounded casts down from each foot. If enough of them are on the ground,
// the grace timer is reset; otherwise it runs down. So very brief losses of
// contact (e.g. when stepping over a gap) are ignored.
func (w *Walker) checkGrounded(dt float64, pose math3d.Pose) {
	hit := false

	if len(w.Feet) > 0 {
		n := 0
		for _, f := range w.Feet {
			if f == nil {
				continue
			}

			if _, ok := w.Ground.CastDown(f.Pose().Position, w.Config.GroundCheckDistance, w.Config.GroundMask); ok {
				n += 1
			}
		}

		hit = n >= minGroundedFeet
	} else {
		_, hit = w.Ground.CastDown(pose.Position, w.Config.RideHeight+w.Config.GroundCheckDistance, w.Config.GroundMask)
	}

	if hit {
		w.timer = w.Config.GroundedGraceTime
	} else {
		w.timer -= dt
	}

	was := w.grounded
	w.grounded = hit || w.timer > 0
	if was != w.grounded {
		log.Infof("grounded: %v", w.grounded)
	}
}

// groundNormal returns the average normal of the ground under the feet.
func (w *Walker) groundNormal() math3d.Vector3 {
	if len(w.Feet) < minNormalFeet {
		return math3d.UpVector3
	}

	sum := math3d.ZeroVector3
	n := 0

	for _, f := range w.Feet {
		if f == nil {
			continue
		}

		hit, ok := w.Ground.CastDown(f.Pose().Position, w.Config.GroundCheckDistance+normalCastExtra, w.Config.GroundMask)
		if ok {
			sum = sum.Add(hit.Normal)
			n += 1
		}
	}

	if n == 0 {
		return math3d.UpVector3
	}

	return sum.Unit()
}

// heading returns the forward of the platform, flattened onto the ground.
func (w *Walker) heading(pose math3d.Pose) math3d.Vector3 {
	fwd := pose.Forward().ProjectOnPlane(w.normal).Unit()
	if fwd.Magnitude() < 0.001 {
		fwd = pose.Right().ProjectOnPlane(w.normal).Unit()
	}

	return fwd
}

// level returns the rotation which keeps the current heading, but stands the
// platform up on the ground.
func (w *Walker) level(pose math3d.Pose) math3d.Quaternion {
	return math3d.LookRotation(w.heading(pose), w.normal)
}

// steer turns the platform around the ground normal. The turn rate is smoothed,
// so the platform takes a moment to start and stop turning.
func (w *Walker) steer(dt, turn float64, pose math3d.Pose) math3d.Quaternion {
	in := turn*w.Config.RotationSensitivity + turn*0.5
	w.yaw = utils.SmoothDamp(w.yaw, in*w.Config.TurnSpeed, &w.yawVel, w.Config.RotationSmoothTime, dt)

	fwd := math3d.AngleAxis(w.yaw*dt, w.normal).Rotate(w.heading(pose))
	return math3d.LookRotation(fwd, w.normal)
}

// drive pushes the platform forwards. Reversing isn't supported; the throttle
// is clamped to [0, 1], and the autopilot holds it wide open.
func (w *Walker) drive(dt float64, d mech.Drive, pose math3d.Pose) {
	v := utils.Clamp01(d.Throttle)
	if d.Autopilot {
		v = 1
	}

	fwd := pose.Forward()

	if w.grounded {
		want := fwd.MultiplyByScalar(w.Config.MoveSpeed * v)
		want.Y = w.velocity.Y
		w.velocity = w.velocity.Lerp(want, dt*acceleration)
		return
	}

	push := fwd.MultiplyByScalar(w.Config.MoveSpeed * v * airControl * dt)
	w.velocity.X += push.X
	w.velocity.Z += push.Z
}

// coast slows the platform down when nobody's driving.
func (w *Walker) coast(dt float64) {
	drag := w.Config.AirDrag
	if w.grounded {
		drag = w.Config.GroundDrag
	}

	f := math.Max(0, 1-drag*dt)
	w.velocity.X *= f
	w.velocity.Z *= f
}

// fall applies gravity while airborne. On the ground, the platform is held at
// the ride height above whatever is directly below it.
func (w *Walker) fall(dt float64, pose *math3d.Pose) {
	if !w.grounded {
		w.velocity.Y -= w.Config.Gravity * dt
		return
	}

	w.velocity.Y = 0

	// Cast from a little above, in case the platform has sunk into a slope.
	origin := pose.Position.Add(math3d.UpVector3.MultiplyByScalar(w.Config.RideHeight))
	hit, ok := w.Ground.CastDown(origin, 2*w.Config.RideHeight+w.Config.GroundCheckDistance, w.Config.GroundMask)
	if !ok {
		return
	}

	pose.Position.Y = utils.Lerp(pose.Position.Y, hit.Point.Y+w.Config.RideHeight, dt*acceleration)
}
