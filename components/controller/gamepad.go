package controller

import (
	"io"

	"github.com/adammck/sixaxis"
)

const (

	// Full deflection of a stick, and full pressure of a trigger.
	stickMax   = 127.0
	triggerMax = 255.0

	// How far R2 must be squeezed to fire.
	fireThreshold = 0.25
)

// Gamepad is a source which reads a PS3 (sixaxis) controller. Pushing the left
// stick forward drives and sideways swings the turret. The right stick turns,
// and the dpad elevates the turret. R2 fires, square toggles the autopilot,
// and start quits.
type Gamepad struct {
	sa *sixaxis.SA
}

// NewGamepad returns a gamepad reading events from r, which is usually the
// controller's device under /dev/input. Call Run to start reading.
func NewGamepad(r io.Reader) *Gamepad {
	return &Gamepad{
		sa: sixaxis.New(r),
	}
}

// Run reads events until the reader is closed. It blocks, so should be run in
// its own goroutine.
func (g *Gamepad) Run() {
	g.sa.Run()
}

func (g *Gamepad) Read() (Input, error) {
	return readSixaxis(g.sa), nil
}

func readSixaxis(sa *sixaxis.SA) Input {
	in := Input{
		Throttle:  float64(-sa.LeftStick.Y) / stickMax,
		Turn:      float64(sa.RightStick.X) / stickMax,
		AimYaw:    float64(sa.LeftStick.X) / stickMax,
		AimPitch:  button(sa.Up > 0) - button(sa.Down > 0),
		Fire:      float64(sa.R2)/triggerMax > fireThreshold,
		Autopilot: sa.Square > 0,
		Quit:      sa.Start,
	}

	in.Driven = in.Throttle != 0 || in.Turn != 0
	return in
}

func button(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
