// Package sim assembles a complete mech, from a config and a design, into
// something which can be ticked. Both commands build their mech this way.
package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/builder"
	"github.com/adammck/mech/components/cannon"
	"github.com/adammck/mech/components/controller"
	"github.com/adammck/mech/components/health"
	"github.com/adammck/mech/components/legs"
	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/components/walker"
	"github.com/adammck/mech/config"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/replica"
	"github.com/adammck/mech/rig"
	"github.com/adammck/mech/server"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "sim",
})

type Sim struct {
	Config config.Config
	Design *builder.Design
	World  *ground.World
	Mech   *mech.Mech

	Rig        *rig.Rig
	Controller *controller.Controller
	Walker     *walker.Walker
	Legs       *legs.Legs
	Cannon     *cannon.Cannon // nil if the design has no weapon
	Health     *health.Health
	Publisher  *replica.Publisher

	// Every mech which this process knows about, including its own.
	Registry *replica.Registry

	// Local rotation of the body visual, tilted by the legs.
	Body math3d.Quaternion
}

// New validates the design, and builds a mech from it, standing on the terrain
// at the configured spawn point. The mech is driven by src. Call Boot before
// ticking.
func New(cfg config.Config, d *builder.Design, src controller.Source) (*Sim, error) {
	if err := d.Validate(builder.DefaultMaxWeightPerLeg); err != nil {
		return nil, fmt.Errorf("invalid design %q: %w", d.Name, err)
	}

	w, err := cfg.Terrain.Build()
	if err != nil {
		return nil, err
	}

	stats := d.Stats()
	s := &Sim{
		Config:   cfg,
		Design:   d,
		World:    w,
		Mech:     mech.New(math3d.MakePose(cfg.Spawn)),
		Registry: replica.NewRegistry(),
		Body:     math3d.IdentityQuaternion,
	}

	b := cfg.Body
	s.Rig = rig.Quadruped(b.Width, b.Length, cfg.Legs.BodyHeight, b.Thigh, b.Shin)

	// A design with fewer than four legs leaves the back corners unbound.
	for i := stats.Legs; i < gait.NumCorners; i++ {
		s.Rig.Chains[i] = nil
	}

	s.Rig.Place(s.Mech.State.Pose)
	bindings := s.Rig.Legs()

	var feet []legs.Bone
	for _, leg := range bindings {
		if leg != nil {
			feet = append(feet, leg.Foot)
		}
	}

	s.Controller = controller.New(src)
	s.Walker = walker.New(cfg.Walker, w, feet...)
	s.Legs = legs.New(cfg.Legs, w, bindings, &s.Body)
	s.Health = health.New(stats.Health, true)

	s.Mech.Add(s.Controller)
	s.Mech.Add(s.Walker)
	s.Mech.Add(s.Legs)
	s.Mech.Add(s.Rig)

	if d.Count(builder.Weapon) > 0 {
		s.Cannon = cannon.New(cfg.Cannon, w)
		s.Cannon.OnImpact = s.impact
		s.Mech.Add(s.Cannon)
	}

	s.Mech.Add(s.Health)

	s.Publisher = replica.NewPublisher(s.Mech, cfg.HTTP.Publish, s.Registry.Apply)
	s.Publisher.Legs = s.Legs
	s.Publisher.Health = s.Health
	s.Publisher.Cannon = s.Cannon
	s.Mech.Add(s.Publisher)

	log.WithFields(logrus.Fields{
		"mech":    s.Mech.ID,
		"design":  d.Name,
		"modules": stats.Modules,
		"legs":    stats.Legs,
		"health":  stats.Health,
	}).Info("assembled mech")

	return s, nil
}

func (s *Sim) Boot() error {
	return s.Mech.Boot()
}

// Tick advances the mech to now.
func (s *Sim) Tick(now time.Time) error {
	return s.Mech.Tick(now)
}

// Shutdown returns true once some component has asked to stop.
func (s *Sim) Shutdown() bool {
	return s.Mech.State.Shutdown
}

// Damage applies damage to the mech, if it's the one simulated here. It can be
// passed to the server.
func (s *Sim) Damage(id uuid.UUID, amount float64) error {
	if id != s.Mech.ID {
		return server.ErrUnknownMech
	}

	s.Health.TakeDamage(amount)
	return nil
}

func (s *Sim) impact(i cannon.Impact) {
	log.WithFields(logrus.Fields{
		"at":     i.Hit.Point,
		"damage": i.Damage,
	}).Info("impact")
}

// Status returns some fields worth logging every so often.
func (s *Sim) Status() logrus.Fields {
	st := s.Mech.State
	f := logrus.Fields{
		"pos":      st.Pose.Position,
		"speed":    st.Velocity.Magnitude(),
		"grounded": st.Grounded,
		"phase":    s.Legs.Gait.Phase(),
		"health":   s.Health.Current(),
	}

	if st.Drive.Autopilot {
		f["autopilot"] = true
	}

	return f
}

// LoadDesign loads the named design from the store. If name is empty, the
// starter design is used, and saved to the store so it can be edited later.
func LoadDesign(store *builder.Store, c *builder.Catalog, name string) (*builder.Design, error) {
	if name != "" {
		return store.Load(name)
	}

	d, err := builder.Starter(c)
	if err != nil {
		return nil, err
	}

	if err := store.Save(d); err != nil {
		log.Warnf("couldn't save starter design: %v", err)
	}

	return d, nil
}
