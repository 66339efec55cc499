package gait

import (
	"fmt"
)

// Corner identifies one of the four legs.
type Corner int

const (
	FrontLeft Corner = iota
	FrontRight
	BackLeft
	BackRight

	NumCorners = 4
)

var cornerNames = [NumCorners]string{"FL", "FR", "BL", "BR"}

func (c Corner) String() string {
	if c < 0 || c >= NumCorners {
		return fmt.Sprintf("Corner(%d)", int(c))
	}

	return cornerNames[c]
}

// Front returns true for the two front legs.
func (c Corner) Front() bool {
	return c == FrontLeft || c == FrontRight
}

// Side returns -1 for the left legs and +1 for the right legs.
func (c Corner) Side() float64 {
	if c == FrontLeft || c == BackLeft {
		return -1
	}

	return 1
}

// Mode is the pattern in which legs are paired up.
type Mode string

const (

	// Trot: opposite corners move together.
	Diagonal Mode = "diagonal"

	// Pace: both front legs move together, then both back legs.
	Lateral Mode = "lateral"
)

func (m Mode) Valid() bool {
	return m == Diagonal || m == Lateral
}

// Phase is which of the two pairs is up next.
type Phase int

const (
	PhaseA Phase = iota
	PhaseB
)

func (p Phase) String() string {
	if p == PhaseA {
		return "A"
	}

	return "B"
}

func (p Phase) next() Phase {
	if p == PhaseA {
		return PhaseB
	}

	return PhaseA
}

// Pair is two legs which step at the same time.
type Pair [2]Corner

func (p Pair) String() string {
	return fmt.Sprintf("%s+%s", p[0], p[1])
}

// Contains returns true if the given leg is one of the pair.
func (p Pair) Contains(c Corner) bool {
	return p[0] == c || p[1] == c
}

// PairFor returns the legs which step in the given phase.
func PairFor(m Mode, p Phase) Pair {
	if m == Lateral {
		if p == PhaseA {
			return Pair{FrontLeft, FrontRight}
		}
		return Pair{BackLeft, BackRight}
	}

	if p == PhaseA {
		return Pair{FrontLeft, BackRight}
	}
	return Pair{FrontRight, BackLeft}
}
