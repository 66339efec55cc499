package math3d

import (
	"fmt"
)

// Pose is a position and orientation in some parent space (usually the world).
type Pose struct {
	Position Vector3    `yaml:"position" json:"position" msgpack:"position"`
	Rotation Quaternion `yaml:"rotation" json:"rotation" msgpack:"rotation"`
}

// MakePose returns a pose at v with no rotation.
func MakePose(v Vector3) Pose {
	return Pose{Position: v, Rotation: IdentityQuaternion}
}

func (p Pose) String() string {
	ea := p.Rotation.EulerAngles()
	return fmt.Sprintf("Pose{x=%+07.2f y=%+07.2f z=%+07.2f, p=%+07.2f y=%+07.2f r=%+07.2f}", p.Position.X, p.Position.Y, p.Position.Z, ea.X, ea.Y, ea.Z)
}

// TransformPoint transforms a point in this pose's local space into the parent
// space.
func (p Pose) TransformPoint(v Vector3) Vector3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

// InverseTransformPoint transforms a point in the parent space into this pose's
// local space.
func (p Pose) InverseTransformPoint(v Vector3) Vector3 {
	return p.Rotation.Inverse().Rotate(v.Subtract(p.Position))
}

// TransformDirection rotates (but doesn't translate) a local direction into the
// parent space.
func (p Pose) TransformDirection(v Vector3) Vector3 {
	return p.Rotation.Rotate(v)
}

func (p Pose) InverseTransformDirection(v Vector3) Vector3 {
	return p.Rotation.Inverse().Rotate(v)
}

func (p Pose) Forward() Vector3 {
	return p.Rotation.Rotate(ForwardVector3)
}

func (p Pose) Right() Vector3 {
	return p.Rotation.Rotate(RightVector3)
}

func (p Pose) Up() Vector3 {
	return p.Rotation.Rotate(UpVector3)
}

// Add returns the pose pp (which is relative to p) in p's parent space.
func (p Pose) Add(pp Pose) Pose {
	return Pose{
		Position: p.TransformPoint(pp.Position),
		Rotation: p.Rotation.Mul(pp.Rotation),
	}
}
