package replica

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "replica",
})

// Replica is the latest known state of a single remote mech.
type Replica struct {
	mu   sync.RWMutex
	snap *Snapshot
	raw  []byte
}

// Apply decodes a snapshot and makes it current, unless it's no newer than
// the current one. Applying the same snapshot twice is harmless.
func (r *Replica) Apply(data []byte) error {
	s, err := Decode(data)
	if err != nil {
		return err
	}

	return r.apply(s, data)
}

func (r *Replica) apply(s *Snapshot, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snap != nil {
		if s.MechID != r.snap.MechID {
			return fmt.Errorf("snapshot is for mech %s, not %s", s.MechID, r.snap.MechID)
		}

		if s.Version <= r.snap.Version {
			return fmt.Errorf("%w: version %d <= %d", ErrStale, s.Version, r.snap.Version)
		}
	}

	r.snap = s
	r.raw = bytes.Clone(data)
	return nil
}

// Snapshot returns a copy of the current snapshot, or false if nothing has been
// applied yet.
func (r *Replica) Snapshot() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snap == nil {
		return Snapshot{}, false
	}

	return *r.snap, true
}

// Raw returns the encoded form of the current snapshot.
func (r *Replica) Raw() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.raw
}

// Registry holds a replica of every mech it has heard of. It's safe to use
// from many goroutines; usually one applying snapshots, and many reading.
type Registry struct {
	mu    sync.RWMutex
	mechs map[uuid.UUID]*Replica
}

func NewRegistry() *Registry {
	return &Registry{
		mechs: map[uuid.UUID]*Replica{},
	}
}

// Apply routes a snapshot to the replica of the mech it's for, creating that
// replica if this is the first snapshot seen.
func (reg *Registry) Apply(data []byte) error {
	s, err := Decode(data)
	if err != nil {
		return err
	}

	reg.mu.Lock()
	r, ok := reg.mechs[s.MechID]
	if !ok {
		r = &Replica{}
		reg.mechs[s.MechID] = r
		log.WithField("mech", s.MechID).Info("new mech")
	}
	reg.mu.Unlock()

	return r.apply(s, data)
}

func (reg *Registry) Get(id uuid.UUID) (*Replica, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.mechs[id]
	return r, ok
}

// Remove forgets a mech, e.g. when it's destroyed.
func (reg *Registry) Remove(id uuid.UUID) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.mechs, id)
}

// Snapshots returns the current snapshot of every mech, sorted by ID.
func (reg *Registry) Snapshots() []Snapshot {
	reg.mu.RLock()
	rr := make([]*Replica, 0, len(reg.mechs))
	for _, r := range reg.mechs {
		rr = append(rr, r)
	}
	reg.mu.RUnlock()

	out := make([]Snapshot, 0, len(rr))
	for _, r := range rr {
		if s, ok := r.Snapshot(); ok {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MechID.String() < out[j].MechID.String()
	})

	return out
}
