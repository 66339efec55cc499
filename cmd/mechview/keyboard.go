package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/adammck/mech/components/controller"
)

// keyboard is an input source which reads the keys held down right now.
type keyboard struct{}

func axis(neg, pos ebiten.Key) float64 {
	v := 0.0
	if ebiten.IsKeyPressed(neg) {
		v -= 1
	}
	if ebiten.IsKeyPressed(pos) {
		v += 1
	}

	return v
}

func (keyboard) Read() (controller.Input, error) {
	in := controller.Input{
		Throttle:  axis(ebiten.KeyS, ebiten.KeyW),
		Turn:      axis(ebiten.KeyA, ebiten.KeyD),
		AimYaw:    axis(ebiten.KeyArrowLeft, ebiten.KeyArrowRight),
		AimPitch:  axis(ebiten.KeyArrowDown, ebiten.KeyArrowUp),
		Fire:      ebiten.IsKeyPressed(ebiten.KeySpace),
		Autopilot: ebiten.IsKeyPressed(ebiten.KeyL),
		Quit:      ebiten.IsKeyPressed(ebiten.KeyEscape),
	}

	in.Driven = in.Throttle != 0 || in.Turn != 0
	return in, nil
}
