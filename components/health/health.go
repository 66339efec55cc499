package health

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "health",
})

// Health tracks the damage taken by a mech. Only the owner of a mech applies
// damage; everyone else just mirrors the value it publishes. Damage may be
// reported from any goroutine, but is applied on the next tick.
type Health struct {
	Max   float64
	Owner bool

	mu        sync.Mutex
	current   float64
	pending   float64
	destroyed bool
}

func New(max float64, owner bool) *Health {
	return &Health{
		Max:     max,
		Owner:   owner,
		current: max,
	}
}

func (h *Health) Boot() error {
	if h.Max <= 0 {
		return fmt.Errorf("max health must be positive, got %0.2f", h.Max)
	}

	return nil
}

// TakeDamage queues some damage. It's ignored unless this is the owner.
func (h *Health) TakeDamage(amount float64) {
	if !h.Owner {
		log.Debugf("ignoring %0.2f damage to mech which we don't own", amount)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending += amount
}

// Sync overwrites the current health with a value published by the owner.
func (h *Health) Sync(current float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = current
}

func (h *Health) Current() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Fraction returns the remaining health as a fraction of the maximum, for
// drawing bars.
func (h *Health) Fraction() float64 {
	return h.Current() / h.Max
}

func (h *Health) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// Tick applies the pending damage. When health runs out, the mech is shut down.
func (h *Health) Tick(now time.Time, state *mech.State) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending != 0 {
		h.current -= h.pending
		h.pending = 0
		log.Infof("health: %.0f", h.current)
	}

	if h.Owner && h.current <= 0 && !h.destroyed {
		h.destroyed = true
		state.Shutdown = true
		log.Info("mech destroyed!")
	}

	return nil
}
