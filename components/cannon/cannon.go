package cannon

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/controller"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/utils"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "cannon",
})

const (

	// The most the turret can turn in a single tick, in degrees. Stops a long
	// frame from spinning it wildly.
	maxYawStep   = 20
	maxPitchStep = 50

	// Elevation limits, in degrees above the horizon.
	upLimit   = 45
	downLimit = -10

	// Projectiles check for ground this far above themselves, so that they
	// notice when they've passed through it.
	probe = 1.0
)

type Config struct {

	// Where the turret is mounted, relative to the platform.
	Mount math3d.Pose `yaml:"mount"`

	// Offset of the muzzle from the turret pivot.
	Muzzle math3d.Vector3 `yaml:"muzzle"`

	MuzzleSpeed float64       `yaml:"muzzleSpeed"`
	Cooldown    time.Duration `yaml:"cooldown"`
	Lifetime    float64       `yaml:"lifetime"`
	Gravity     float64       `yaml:"gravity"`
	Damage      float64       `yaml:"damage"`
	Mask        ground.Mask   `yaml:"mask"`
}

func DefaultConfig() Config {
	return Config{
		Mount:       math3d.MakePose(math3d.Vector3{Y: 1}),
		Muzzle:      math3d.Vector3{Z: 2},
		MuzzleSpeed: 14,
		Cooldown:    time.Second,
		Lifetime:    5,
		Gravity:     9.81,
		Damage:      25,
		Mask:        ground.Everything,
	}
}

type Projectile struct {
	ID       uuid.UUID
	Position math3d.Vector3
	Velocity math3d.Vector3
	Age      float64
}

// Impact is a projectile which hit the ground.
type Impact struct {
	Projectile Projectile
	Hit        ground.Hit
	Damage     float64
}

// Cannon is a turret on top of the mech. It turns and elevates according to
// the aim input, or tracks Target if that's set and nobody is aiming.
type Cannon struct {
	Config Config
	Ground ground.Caster

	// Turret angles, in degrees. Yaw is relative to the platform.
	Yaw   float64
	Pitch float64

	// World point to track. May be nil.
	Target *math3d.Vector3

	Projectiles []*Projectile

	// Called (from Tick) for each projectile which hits something.
	OnImpact func(Impact)

	trigger  controller.Latch
	lastFire time.Time
	lastTick time.Time
}

func New(cfg Config, g ground.Caster) *Cannon {
	return &Cannon{
		Config: cfg,
		Ground: g,
	}
}

func (c *Cannon) Boot() error {
	if c.Config.MuzzleSpeed <= 0 {
		return fmt.Errorf("muzzleSpeed must be positive, got %0.2f", c.Config.MuzzleSpeed)
	}

	if c.Ground == nil {
		return fmt.Errorf("cannon needs a ground caster")
	}

	return nil
}

func (c *Cannon) Tick(now time.Time, state *mech.State) error {
	var dt float64
	if !c.lastTick.IsZero() {
		dt = now.Sub(c.lastTick).Seconds()
	}
	c.lastTick = now

	c.aim(dt, state)

	if c.trigger.Run(state.Drive.Fire) && c.Ready(now) {
		c.Fire(now, state.Pose)
	}

	c.fly(dt)
	return nil
}

// Ready returns true if the cooldown since the last shot has passed.
func (c *Cannon) Ready(now time.Time) bool {
	return c.lastFire.IsZero() || now.Sub(c.lastFire) > c.Config.Cooldown
}

func (c *Cannon) aim(dt float64, state *mech.State) {
	var dy, dp float64

	if !state.Drive.Aim.Zero() || c.Target == nil {
		dy = state.Drive.Aim.X * dt
		dp = state.Drive.Aim.Y * dt
	} else {

		// Transform the target into the turret space, such that the pivot is at
		// [0, 0, 0], then into the angles which would point at it.
		mount := state.Pose.Add(c.Config.Mount)
		v := mount.InverseTransformPoint(*c.Target)
		flat := math.Hypot(v.X, v.Z)

		dy = utils.Deg(math.Atan2(v.X, v.Z)) - c.Yaw
		dp = utils.Deg(math.Atan2(v.Y, flat)) - c.Pitch

		// Take the short way around.
		dy = math.Remainder(dy, 360)
	}

	dy = utils.Clamp(dy, -maxYawStep, maxYawStep)
	dp = utils.Clamp(dp, -maxPitchStep, maxPitchStep)

	c.Yaw = math.Remainder(c.Yaw+dy, 360)
	c.Pitch = utils.Clamp(c.Pitch+dp, downLimit, upLimit)
}

// Muzzle returns the world pose of the end of the barrel.
func (c *Cannon) Muzzle(platform math3d.Pose) math3d.Pose {
	turret := platform.Add(c.Config.Mount).Add(math3d.Pose{
		Rotation: math3d.Euler(-c.Pitch, c.Yaw, 0),
	})

	return turret.Add(math3d.MakePose(c.Config.Muzzle))
}

// Fire launches a projectile from the muzzle, regardless of the cooldown.
func (c *Cannon) Fire(now time.Time, platform math3d.Pose) *Projectile {
	m := c.Muzzle(platform)
	p := &Projectile{
		ID:       uuid.New(),
		Position: m.Position,
		Velocity: m.Forward().MultiplyByScalar(c.Config.MuzzleSpeed),
	}

	c.Projectiles = append(c.Projectiles, p)
	c.lastFire = now

	log.WithField("projectile", p.ID).Debugf("fired from %v", p.Position)
	return p
}

// fly moves every projectile, and drops those which have hit the ground or
// expired.
func (c *Cannon) fly(dt float64) {
	live := c.Projectiles[:0]

	for _, p := range c.Projectiles {
		p.Velocity.Y -= c.Config.Gravity * dt
		p.Position = p.Position.Add(p.Velocity.MultiplyByScalar(dt))
		p.Age += dt

		origin := p.Position.Add(math3d.UpVector3.MultiplyByScalar(probe))
		if hit, ok := c.Ground.CastDown(origin, probe, c.Config.Mask); ok {
			log.WithField("projectile", p.ID).Debugf("hit ground at %v", hit.Point)
			if c.OnImpact != nil {
				c.OnImpact(Impact{Projectile: *p, Hit: hit, Damage: c.Config.Damage})
			}
			continue
		}

		if p.Age >= c.Config.Lifetime {
			continue
		}

		live = append(live, p)
	}

	// Don't hold on to the dropped ones.
	for i := len(live); i < len(c.Projectiles); i++ {
		c.Projectiles[i] = nil
	}

	c.Projectiles = live
}
