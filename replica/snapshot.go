// Package replica copies the state of a mech from the process which owns it to
// anyone watching. The owner publishes versioned snapshots; replicas apply
// them in order, and ignore anything older than what they already have.
package replica

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adammck/mech/components/legs/gait"
	"github.com/adammck/mech/math3d"
)

// ErrStale is returned when applying a snapshot which is no newer than the
// current one. It's harmless; the snapshot was just delivered late or twice.
var ErrStale = errors.New("stale snapshot")

type Foot struct {
	Target   math3d.Pose `msgpack:"target" json:"target"`
	Stepping bool        `msgpack:"stepping" json:"stepping"`
	Progress float64     `msgpack:"progress" json:"progress"`
}

type Turret struct {
	Yaw         float64 `msgpack:"yaw" json:"yaw"`
	Pitch       float64 `msgpack:"pitch" json:"pitch"`
	Projectiles int     `msgpack:"projectiles" json:"projectiles"`
}

// Snapshot is everything needed to draw a mech.
type Snapshot struct {
	MechID  uuid.UUID `msgpack:"id" json:"id"`
	Version uint64    `msgpack:"v" json:"version"`

	// Unix time (nanoseconds) at which the snapshot was captured.
	Time int64 `msgpack:"t" json:"time"`

	Pose     math3d.Pose    `msgpack:"pose" json:"pose"`
	Velocity math3d.Vector3 `msgpack:"vel" json:"velocity"`
	Grounded bool           `msgpack:"grounded" json:"grounded"`

	// Indexed by gait.Corner.
	Feet  [gait.NumCorners]Foot `msgpack:"feet" json:"feet"`
	Gait  gait.Mode             `msgpack:"gait" json:"gait"`
	Phase string                `msgpack:"phase" json:"phase"`

	Health    float64 `msgpack:"hp" json:"health"`
	MaxHealth float64 `msgpack:"maxhp" json:"maxHealth"`
	Turret    Turret  `msgpack:"turret" json:"turret"`
}

func Encode(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return data, nil
}

func Decode(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if s.MechID == uuid.Nil {
		return nil, fmt.Errorf("snapshot has no mech id")
	}

	return s, nil
}
