package ground

import (
	"github.com/adammck/mech/math3d"
)

// World combines several casters, returning the closest hit among them. The
// mask is passed through, so each caster filters on its own layer.
type World struct {
	Casters []Caster
}

func NewWorld(casters ...Caster) *World {
	return &World{Casters: casters}
}

// Add registers another caster.
func (w *World) Add(c Caster) {
	w.Casters = append(w.Casters, c)
}

func (w *World) CastDown(origin math3d.Vector3, maxDistance float64, mask Mask) (Hit, bool) {
	var best Hit
	found := false

	for _, c := range w.Casters {
		hit, ok := c.CastDown(origin, maxDistance, mask)
		if !ok {
			continue
		}

		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}

	return best, found
}
