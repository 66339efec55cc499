// Package ground answers "what is directly below this point?" for everything
// which needs to put a foot (or a whole mech) on the floor.
package ground

import (
	"math"

	"github.com/adammck/mech/math3d"
)

// Mask selects which layers a cast can hit. Layers are single bits.
type Mask uint32

const (
	LayerDefault Mask = 1 << iota
	LayerTerrain
	LayerStructure
	LayerMech

	Everything Mask = math.MaxUint32
)

// Hit is the closest surface found by a cast.
type Hit struct {
	Point    math3d.Vector3
	Normal   math3d.Vector3
	Distance float64
}

// Caster casts rays straight down.
type Caster interface {

	// CastDown returns the closest surface directly below origin, no further
	// than maxDistance away, on any of the layers in mask. The second value is
	// false if nothing was found.
	CastDown(origin math3d.Vector3, maxDistance float64, mask Mask) (Hit, bool)
}

// within returns a hit at height y below origin, if that is within range.
func within(origin math3d.Vector3, y float64, normal math3d.Vector3, maxDistance float64) (Hit, bool) {
	d := origin.Y - y
	if d < 0 || d > maxDistance {
		return Hit{}, false
	}

	return Hit{
		Point:    math3d.Vector3{X: origin.X, Y: y, Z: origin.Z},
		Normal:   normal,
		Distance: d,
	}, true
}
