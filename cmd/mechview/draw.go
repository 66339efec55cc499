package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

const (
	screenWidth  = 960
	screenHeight = 720

	// Pixels per world unit.
	scale = 48.0
)

var (
	backgroundColor = color.RGBA{20, 20, 30, 255}
	gridColor       = color.RGBA{40, 44, 60, 255}
	bodyColor       = color.RGBA{200, 200, 200, 255}
	boneColor       = color.RGBA{120, 120, 140, 255}
	hintColor       = color.RGBA{255, 0, 255, 255}
	rangeColor      = color.RGBA{80, 80, 80, 255}
	shotColor       = color.RGBA{255, 255, 255, 255}

	footColors = [gait.NumCorners]color.Color{
		gait.FrontLeft:  color.RGBA{255, 0, 0, 255},
		gait.FrontRight: color.RGBA{0, 0, 255, 255},
		gait.BackLeft:   color.RGBA{0, 255, 0, 255},
		gait.BackRight:  color.RGBA{255, 255, 0, 255},
	}
)

// project maps a world position onto the screen, looking straight down with
// the camera centered on the mech. World Z is up the screen.
func (v *viewer) project(p math3d.Vector3) (float32, float32) {
	c := v.sim.Mech.State.Pose.Position
	x := screenWidth/2 + (p.X-c.X)*scale
	y := screenHeight/2 - (p.Z-c.Z)*scale
	return float32(x), float32(y)
}

func (v *viewer) line(screen *ebiten.Image, a, b math3d.Vector3, w float32, clr color.Color) {
	x0, y0 := v.project(a)
	x1, y1 := v.project(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, w, clr, true)
}

func (v *viewer) drawGrid(screen *ebiten.Image) {
	c := v.sim.Mech.State.Pose.Position
	w := screenWidth / scale / 2
	h := screenHeight / scale / 2

	for x := math.Floor(c.X - w); x <= c.X+w; x++ {
		v.line(screen, math3d.Vector3{X: x, Z: c.Z - h}, math3d.Vector3{X: x, Z: c.Z + h}, 1, gridColor)
	}

	for z := math.Floor(c.Z - h); z <= c.Z+h; z++ {
		v.line(screen, math3d.Vector3{X: c.X - w, Z: z}, math3d.Vector3{X: c.X + w, Z: z}, 1, gridColor)
	}
}

func (v *viewer) drawBody(screen *ebiten.Image) {
	pose := v.sim.Mech.State.Pose

	var hips []math3d.Vector3
	for _, i := range []gait.Corner{gait.FrontLeft, gait.FrontRight, gait.BackRight, gait.BackLeft} {
		if c := v.sim.Rig.Chains[i]; c != nil {
			hips = append(hips, pose.TransformPoint(c.Hip))
		}
	}

	for i := range hips {
		v.line(screen, hips[i], hips[(i+1)%len(hips)], 2, bodyColor)
	}

	// Heading.
	v.line(screen, pose.Position, pose.Position.Add(pose.Forward().MultiplyByScalar(1.5)), 3, bodyColor)
}

func (v *viewer) drawLegs(screen *ebiten.Image) {
	pose := v.sim.Mech.State.Pose
	l := v.sim.Legs

	for i, leg := range l.Legs {
		if leg == nil || leg.Target == nil {
			continue
		}

		clr := footColors[i]

		// How far the foot can stray from its rest position before stepping.
		rx, ry := v.project(pose.TransformPoint(leg.RestOffset))
		vector.StrokeCircle(screen, rx, ry, float32(l.Config.StepDistance*scale), 1, rangeColor, true)

		if c := v.sim.Rig.Chains[i]; c != nil {
			hip := pose.TransformPoint(c.Hip)
			knee := c.Knee().Pose().Position
			v.line(screen, hip, knee, 2, boneColor)
			v.line(screen, knee, c.Foot().Pose().Position, 2, boneColor)
		}

		if leg.KneeHint != nil {
			hx, hy := v.project(*leg.KneeHint)
			vector.DrawFilledCircle(screen, hx, hy, 3, hintColor, true)
		}

		// Lifted feet are drawn bigger, as they're closer to the camera.
		r := float32(6)
		if leg.Stepping() {
			r += float32(leg.Target.Position.Y * 6)
		}

		fx, fy := v.project(leg.Target.Position)
		vector.DrawFilledCircle(screen, fx, fy, r, clr, true)
	}
}

func (v *viewer) drawProjectiles(screen *ebiten.Image) {
	if v.sim.Cannon == nil {
		return
	}

	for _, p := range v.sim.Cannon.Projectiles {
		x, y := v.project(p.Position)
		vector.DrawFilledCircle(screen, x, y, 3, shotColor, true)
	}
}

func (v *viewer) drawStatus(screen *ebiten.Image) {
	st := v.sim.Mech.State
	msg := fmt.Sprintf(
		"pos: %.1f, %.1f, %.1f\nspeed: %.2f\ngrounded: %v\nautopilot: %v\nphase: %s\nhealth: %.0f",
		st.Pose.Position.X, st.Pose.Position.Y, st.Pose.Position.Z,
		st.Velocity.Magnitude(), st.Grounded, st.Drive.Autopilot,
		v.sim.Legs.Gait.Phase(), v.sim.Health.Current())

	if c := v.sim.Cannon; c != nil {
		msg += fmt.Sprintf("\nturret: %.0f / %.0f", c.Yaw, c.Pitch)
	}

	msg += "\n\nWASD drive, arrows aim, space fire, L autopilot, esc quit"
	ebitenutil.DebugPrint(screen, msg)
}
