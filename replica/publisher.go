package replica

import (
	"time"

	"github.com/adammck/mech"
	"github.com/adammck/mech/components/cannon"
	"github.com/adammck/mech/components/health"
	"github.com/adammck/mech/components/legs"
)

// Publisher runs on the owner of a mech. Every so often it captures a snapshot,
// and hands the encoded form to Send. Any of the component pointers may be
// nil, in which case that part of the snapshot is left empty.
type Publisher struct {
	Mech   *mech.Mech
	Legs   *legs.Legs
	Health *health.Health
	Cannon *cannon.Cannon

	// Minimum time between snapshots. Zero means every tick.
	Every time.Duration

	Send func([]byte) error

	version  uint64
	lastSent time.Time
}

func NewPublisher(m *mech.Mech, every time.Duration, send func([]byte) error) *Publisher {
	return &Publisher{
		Mech:  m,
		Every: every,
		Send:  send,
	}
}

func (p *Publisher) Boot() error {
	return nil
}

func (p *Publisher) Tick(now time.Time, state *mech.State) error {
	if p.Send == nil {
		return nil
	}

	if !p.lastSent.IsZero() && now.Sub(p.lastSent) < p.Every {
		return nil
	}

	s := p.Capture(now, state)
	data, err := Encode(&s)
	if err != nil {
		return err
	}

	p.lastSent = now
	return p.Send(data)
}

// Version returns the version of the last snapshot captured.
func (p *Publisher) Version() uint64 {
	return p.version
}

// Capture returns the current state of the mech, with the next version.
func (p *Publisher) Capture(now time.Time, state *mech.State) Snapshot {
	p.version += 1

	s := Snapshot{
		MechID:   p.Mech.ID,
		Version:  p.version,
		Time:     now.UnixNano(),
		Pose:     state.Pose,
		Velocity: state.Velocity,
		Grounded: state.Grounded,
	}

	if p.Legs != nil {
		s.Gait = p.Legs.Gait.Mode()
		s.Phase = p.Legs.Gait.Phase().String()

		for i, leg := range p.Legs.Legs {
			if leg == nil || leg.Target == nil {
				continue
			}

			s.Feet[i] = Foot{
				Target:   *leg.Target,
				Stepping: leg.Stepping(),
				Progress: leg.Progress,
			}
		}
	}

	if p.Health != nil {
		s.Health = p.Health.Current()
		s.MaxHealth = p.Health.Max
	}

	if p.Cannon != nil {
		s.Turret = Turret{
			Yaw:         p.Cannon.Yaw,
			Pitch:       p.Cannon.Pitch,
			Projectiles: len(p.Cannon.Projectiles),
		}
	}

	return s
}
