package controller

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/utils"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "controller",
})

const (

	// The maximum speed to aim the cannon (i.e. when the aim axis is fully
	// pressed) in degrees per second.
	aimSpeed = 60.0
)

// Input is the raw state of whatever the pilot is holding. Axes are in the
// range [-1, 1].
type Input struct {
	Driven bool

	Throttle float64
	Turn     float64

	AimYaw   float64
	AimPitch float64
	Fire     bool

	// Buttons. Autopilot is a toggle; holding it down doesn't do anything
	// after the first tick.
	Autopilot bool
	Quit      bool
}

// Source is something which can be polled for input, like a keyboard or a
// gamepad or a script.
type Source interface {
	Read() (Input, error)
}

type Controller struct {
	src       Source
	autopilot Latch
}

func New(src Source) *Controller {
	return &Controller{
		src: src,
	}
}

func (c *Controller) Boot() error {
	if c.src == nil {
		return fmt.Errorf("controller has no input source")
	}

	return nil
}

// Tick copies the input into the drive state of the mech.
func (c *Controller) Tick(now time.Time, state *mech.State) error {
	in, err := c.src.Read()
	if err != nil {
		return fmt.Errorf("error while reading input: %w", err)
	}

	d := &state.Drive
	d.Driven = in.Driven
	d.Throttle = utils.Clamp(in.Throttle, -1, 1)
	d.Turn = utils.Clamp(in.Turn, -1, 1)
	d.Fire = in.Fire

	d.Aim = math3d.Vector3{
		X: utils.Clamp(in.AimYaw, -1, 1) * aimSpeed,
		Y: utils.Clamp(in.AimPitch, -1, 1) * aimSpeed,
	}

	if c.autopilot.Run(in.Autopilot) {
		d.Autopilot = !d.Autopilot
		log.Infof("autopilot: %v", d.Autopilot)
	}

	// At any time, pressing quit shuts down the mech.
	if in.Quit && !state.Shutdown {
		log.Info("pressed quit, shutting down")
		state.Shutdown = true
	}

	return nil
}

// Hold is a source which always returns the same input.
type Hold Input

func (h Hold) Read() (Input, error) {
	return Input(h), nil
}
