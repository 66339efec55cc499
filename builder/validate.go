package builder

import (
	"errors"
	"fmt"
)

// Default weight which each leg can carry.
const DefaultMaxWeightPerLeg = 50.0

var (
	ErrNoModules    = errors.New("mech has no modules")
	ErrNoCockpit    = errors.New("mech requires a cockpit")
	ErrNoLocomotion = errors.New("mech requires locomotion")
	ErrUnderpowered = errors.New("insufficient power generation")
	ErrOverweight   = errors.New("mech is too heavy for its legs")
)

// Stats are the totals over every module in a design.
type Stats struct {
	Modules         int
	Legs            int
	Health          float64
	Weight          float64
	PowerUsage      float64
	PowerGeneration float64
}

func (d *Design) Stats() Stats {
	s := Stats{}
	for _, m := range d.modules {
		s.Modules += 1
		s.Health += m.Data.Health
		s.Weight += m.Data.Weight
		s.PowerUsage += m.Data.PowerUsage
		s.PowerGeneration += m.Data.PowerGeneration

		if m.Data.Category == Locomotion {
			s.Legs += 1
		}
	}

	return s
}

// Validate returns an error if the design couldn't be deployed. The checks are
// done in order, and only the first failure is returned.
func (d *Design) Validate(maxWeightPerLeg float64) error {
	if d.Len() == 0 {
		return ErrNoModules
	}

	if d.Count(Cockpit) == 0 {
		return ErrNoCockpit
	}

	if d.Count(Locomotion) == 0 {
		return ErrNoLocomotion
	}

	s := d.Stats()

	if s.PowerUsage > s.PowerGeneration {
		return fmt.Errorf("%w: using %.0f, generating %.0f", ErrUnderpowered, s.PowerUsage, s.PowerGeneration)
	}

	max := float64(s.Legs) * maxWeightPerLeg
	if s.Weight > max {
		return fmt.Errorf("%w: %.0f > %.0f", ErrOverweight, s.Weight, max)
	}

	return nil
}
