package rig

import (
	"math"

	"github.com/adammck/mech/math3d"
	"github.com/adammck/mech/utils"
)

// How much shorter than fully extended (or fully folded) a chain is allowed to
// reach. Stops the knee from snapping straight.
const reachMargin = 0.001

// Chain is a two-bone leg: hip to knee (the thigh), and knee to foot (the
// shin). The hip is fixed to the platform; the knee and foot are posed by Solve.
type Chain struct {
	Name string

	// Position of the hip in the platform space.
	Hip math3d.Vector3

	// Where the foot should rest in the platform space, before anything has
	// moved it.
	Rest math3d.Vector3

	Thigh float64
	Shin  float64

	// The goal of the foot, and the pole which the knee bends towards. Neither
	// is owned by the chain; whoever drives the leg writes them.
	Target *math3d.Pose
	Hint   *math3d.Vector3

	hip  math3d.Vector3
	knee math3d.Pose
	foot math3d.Pose

	// True if the target was out of reach at the last solve.
	Stretched bool
}

func NewChain(name string, hip, rest math3d.Vector3, thigh, shin float64) *Chain {
	return &Chain{
		Name:   name,
		Hip:    hip,
		Rest:   rest,
		Thigh:  thigh,
		Shin:   shin,
		Target: &math3d.Pose{Rotation: math3d.IdentityQuaternion},
		Hint:   &math3d.Vector3{},
	}
}

// Solve poses the knee and foot so that the foot is as close as possible to
// the target, given the pose of the platform.
//
// The hip (h), target (t) and the lengths of the two bones make a triangle:
//
//	     (k)
//	     / \
//	thigh   shin
//	   /     \
//	 (h)-- d --(t)
//
// The angle at the hip comes from the law of cosines, and the knee is put on
// the side of the (h,t) line nearest to the hint.
func (c *Chain) Solve(platform math3d.Pose) {
	c.hip = platform.TransformPoint(c.Hip)
	goal := c.Target.Position

	toGoal := goal.Subtract(c.hip)
	dir := toGoal.Unit()
	if dir.Zero() {
		dir = platform.Up().MultiplyByScalar(-1)
	}

	// Clamp the distance to what the chain can actually reach.
	min := math.Abs(c.Thigh-c.Shin) + reachMargin
	max := c.Thigh + c.Shin - reachMargin
	d := toGoal.Magnitude()
	c.Stretched = d > max
	d = utils.Clamp(d, min, max)

	// The bend plane contains dir and the hint.
	pole := c.Hint.Subtract(c.hip).ProjectOnPlane(dir).Unit()
	if pole.Zero() {
		pole = platform.Forward().ProjectOnPlane(dir).Unit()
	}

	a := utils.Rad(sss(c.Shin, c.Thigh, d))
	kneePos := c.hip.
		Add(dir.MultiplyByScalar(math.Cos(a) * c.Thigh)).
		Add(pole.MultiplyByScalar(math.Sin(a) * c.Thigh))

	footPos := c.hip.Add(dir.MultiplyByScalar(d))

	c.knee = math3d.Pose{
		Position: kneePos,
		Rotation: math3d.LookRotation(footPos.Subtract(kneePos), pole),
	}

	c.foot = math3d.Pose{
		Position: footPos,
		Rotation: c.Target.Rotation,
	}
}

// Knee returns the knee bone.
func (c *Chain) Knee() Bone {
	return Bone{&c.knee}
}

// Foot returns the foot bone.
func (c *Chain) Foot() Bone {
	return Bone{&c.foot}
}

// Bone is a read-only view of one of the joints of a chain.
type Bone struct {
	p *math3d.Pose
}

func (b Bone) Pose() math3d.Pose {
	return *b.p
}

// sss returns the angle α, given the length of sides a, b, and c.
// See: http://en.wikipedia.org/wiki/Solution_of_triangles
func sss(a float64, b float64, c float64) float64 {
	cos := ((b * b) + (c * c) - (a * a)) / (2 * b * c)
	return utils.Deg(math.Acos(utils.Clamp(cos, -1, 1)))
}
