package ground

import (
	log "github.com/sirupsen/logrus"

	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

var logger = log.WithFields(log.Fields{
	"pkg": "fake/ground",
})

// Void is a caster with nothing in it. Every cast misses, like walking off the
// edge of the world.
type Void struct {
}

func (v Void) CastDown(origin math3d.Vector3, maxDistance float64, mask ground.Mask) (ground.Hit, bool) {
	logger.Debugf("cast from %v missed (void)", origin)
	return ground.Hit{}, false
}

// Recorder wraps another caster and counts the casts which pass through it.
type Recorder struct {
	ground.Caster
	Casts  int
	Misses int
}

func NewRecorder(c ground.Caster) *Recorder {
	return &Recorder{Caster: c}
}

func (r *Recorder) CastDown(origin math3d.Vector3, maxDistance float64, mask ground.Mask) (ground.Hit, bool) {
	r.Casts += 1
	hit, ok := r.Caster.CastDown(origin, maxDistance, mask)
	if !ok {
		r.Misses += 1
	}

	return hit, ok
}
