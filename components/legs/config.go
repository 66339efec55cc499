package legs

import (
	"fmt"

	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/ground"
	"github.com/adammck/mech/math3d"
)

const (

	// Platform speed (units per second) at or below which the mech is considered
	// to be standing still. Feet are planted rather than stepped.
	idleSpeed = 0.1

	// How far ahead (in the direction of travel) of its rest position each foot
	// lands, to anticipate the platform continuing to move.
	anticipation = 0.3

	// Height above the ground at which feet land, and at which they're held
	// when planted.
	landingClearance = 0.15
	plantClearance   = 0.1

	// Rate at which planted feet blend towards the ground.
	plantBlend = 5.0

	// Ground casts start this far above the point being tested, so feet which
	// have sunk slightly still find the surface.
	castLift = 2.0

	// Offset of the knee hints from the knee, forwards (or backwards, for the
	// back legs) and outwards.
	kneeForward = 0.5
	kneeSide    = 0.3
)

// Config is the authoring-time tuning of the legs. It isn't changed at runtime.
type Config struct {
	StepHeight          float64        `yaml:"stepHeight"`
	StepDistance        float64        `yaml:"stepDistance"`
	StepSpeed           float64        `yaml:"stepSpeed"`
	BodyHeight          float64        `yaml:"bodyHeight"`
	GroundCheckDistance float64        `yaml:"groundCheckDistance"`
	GroundMask          ground.Mask    `yaml:"groundMask"`
	Gait                gait.Mode      `yaml:"gait"`
	TiltAmount          float64        `yaml:"tiltAmount"`
	TiltSpeed           float64        `yaml:"tiltSpeed"`
	RotationSpeed       float64        `yaml:"rotationSpeed"`
	FootPositionOffset  math3d.Vector3 `yaml:"footPositionOffset"`
	FootRotationOffset  math3d.Vector3 `yaml:"footRotationOffset"`

	// Orient landing feet to the ground normal rather than to the platform.
	AlignToGround bool `yaml:"alignToGround"`
}

func DefaultConfig() Config {
	return Config{
		StepHeight:          0.5,
		StepDistance:        1.5,
		StepSpeed:           8,
		BodyHeight:          2,
		GroundCheckDistance: 3,
		GroundMask:          ground.Everything,
		Gait:                gait.Diagonal,
		TiltAmount:          0.1,
		TiltSpeed:           5,
		RotationSpeed:       10,
		FootRotationOffset:  math3d.Vector3{X: 180},
	}
}

// Validate returns an error if the config would make the legs misbehave, e.g.
// steps which never finish.
func (c Config) Validate() error {
	if c.StepSpeed <= 0 {
		return fmt.Errorf("stepSpeed must be positive, got %0.2f", c.StepSpeed)
	}

	if c.StepDistance <= 0 {
		return fmt.Errorf("stepDistance must be positive, got %0.2f", c.StepDistance)
	}

	if c.StepHeight < 0 {
		return fmt.Errorf("stepHeight must not be negative, got %0.2f", c.StepHeight)
	}

	if c.GroundCheckDistance <= 0 {
		return fmt.Errorf("groundCheckDistance must be positive, got %0.2f", c.GroundCheckDistance)
	}

	if !c.Gait.Valid() {
		return fmt.Errorf("unknown gait: %q", c.Gait)
	}

	return nil
}
