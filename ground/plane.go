package ground

import (
	"github.com/adammck/mech/math3d"
)

// Plane is an infinite flat floor at a fixed height.
type Plane struct {
	Height float64
	Layer  Mask
}

func NewPlane(height float64, layer Mask) *Plane {
	return &Plane{Height: height, Layer: layer}
}

func (p *Plane) CastDown(origin math3d.Vector3, maxDistance float64, mask Mask) (Hit, bool) {
	if p.Layer&mask == 0 {
		return Hit{}, false
	}

	return within(origin, p.Height, math3d.UpVector3, maxDistance)
}

// Bounded limits another caster to a rectangle on the X/Z plane. Casts outside
// of it miss, which is how ledges and holes are modelled.
type Bounded struct {
	Min, Max math3d.Vector3
	Caster
}

func NewBounded(min, max math3d.Vector3, c Caster) *Bounded {
	return &Bounded{Min: min, Max: max, Caster: c}
}

func (b *Bounded) CastDown(origin math3d.Vector3, maxDistance float64, mask Mask) (Hit, bool) {
	if origin.X < b.Min.X || origin.X > b.Max.X || origin.Z < b.Min.Z || origin.Z > b.Max.Z {
		return Hit{}, false
	}

	return b.Caster.CastDown(origin, maxDistance, mask)
}
