// Package trigger gates noisy per-frame detections into rate-limited
// hardware fires. The scheduler only makes decisions; driving the pin
// for the pulse duration is the caller's job, which keeps the detection
// cadence independent of pulse width.
package trigger

import (
	"errors"
	"time"

	"github.com/McGr/squirrel/internal/detect"
)

// DefaultCooldown is the minimum time between accepted fires for the
// same class when no cooldown is configured.
const DefaultCooldown = 2 * time.Second

// ErrUnknownClass is returned when a class was not registered at
// scheduler construction.
var ErrUnknownClass = errors.New("class not registered with scheduler")

// Decision is the outcome of a TryFire call.
type Decision int

const (
	// Suppressed means the class is still inside its cooldown window.
	// Nothing was mutated.
	Suppressed Decision = iota

	// Fired means the cooldown has elapsed (or the class never fired)
	// and the caller should actuate now.
	Fired
)

// String returns a short name for the decision.
func (d Decision) String() string {
	if d == Fired {
		return "fired"
	}
	return "suppressed"
}

// state tracks one class's debounce bookkeeping. A zero lastFired means
// the class has never fired.
type state struct {
	lastFired time.Time
}

// Scheduler is the per-class cooldown state machine. It never reads the
// clock: every decision is a pure function of its stored state and the
// caller-supplied now, which must be non-decreasing across calls.
//
// The scheduler is not safe for concurrent use; the detection loop is
// its single owner.
type Scheduler struct {
	cooldown time.Duration
	pulse    time.Duration
	states   map[detect.Class]*state
}

// NewScheduler creates a scheduler for the given classes. A zero
// cooldown is honored literally: every qualifying call fires. Only a
// negative cooldown falls back to DefaultCooldown. States for every
// class are created up front and live for the scheduler's lifetime.
func NewScheduler(classes []detect.Class, cooldown, pulse time.Duration) *Scheduler {
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}

	states := make(map[detect.Class]*state, len(classes))
	for _, c := range classes {
		states[c] = &state{}
	}

	return &Scheduler{
		cooldown: cooldown,
		pulse:    pulse,
		states:   states,
	}
}

// TryFire decides whether class may fire at time now.
//
// Fires when the class has never fired or now-lastFired >= cooldown,
// recording lastFired = now. A suppressed call mutates nothing, so
// repeated suppressions never push the window out. Classes are fully
// independent: one class's cooldown never blocks another's.
//
// A class that qualifies again while its previous pulse is still
// conceptually high fires anyway once the cooldown has elapsed; no
// extra pulse-to-pulse gap is enforced.
func (s *Scheduler) TryFire(class detect.Class, now time.Time) (Decision, error) {
	st, ok := s.states[class]
	if !ok {
		return Suppressed, ErrUnknownClass
	}

	if !st.lastFired.IsZero() && now.Sub(st.lastFired) < s.cooldown {
		return Suppressed, nil
	}

	st.lastFired = now
	return Fired, nil
}

// Active reports whether an actuation pulse for class is conceptually
// in progress at time now.
func (s *Scheduler) Active(class detect.Class, now time.Time) bool {
	st, ok := s.states[class]
	if !ok || st.lastFired.IsZero() {
		return false
	}
	return now.Sub(st.lastFired) < s.pulse
}

// LastFired returns when the class last fired. ok is false when the
// class has never fired or is unknown.
func (s *Scheduler) LastFired(class detect.Class) (time.Time, bool) {
	st, exists := s.states[class]
	if !exists || st.lastFired.IsZero() {
		return time.Time{}, false
	}
	return st.lastFired, true
}

// Cooldown returns the configured cooldown.
func (s *Scheduler) Cooldown() time.Duration {
	return s.cooldown
}

// Pulse returns the configured pulse duration.
func (s *Scheduler) Pulse() time.Duration {
	return s.pulse
}
