package gait

// Scheduler alternates between the two pairs of a gait. It doesn't know when a
// step is needed; the caller decides that, and calls Advance when the pair
// returned by Next starts stepping.
type Scheduler struct {
	mode  Mode
	phase Phase

	// The number of pairs which have been started. Only used for logging and
	// tests.
	activations int
}

func NewScheduler(m Mode) *Scheduler {
	if !m.Valid() {
		m = Diagonal
	}

	return &Scheduler{
		mode:  m,
		phase: PhaseA,
	}
}

func (s *Scheduler) Mode() Mode {
	return s.mode
}

func (s *Scheduler) Phase() Phase {
	return s.phase
}

func (s *Scheduler) Activations() int {
	return s.activations
}

// Next returns the pair which should be considered for the next step.
func (s *Scheduler) Next() Pair {
	return PairFor(s.mode, s.phase)
}

// Advance records that the pair returned by Next has started stepping, and
// flips to the other phase. It returns the pair which was started.
func (s *Scheduler) Advance() Pair {
	p := s.Next()
	s.phase = s.phase.next()
	s.activations += 1
	return p
}
