package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/McGr/squirrel/internal/detect"
)

// SingleClass drives every detection class through one shared output
// line. It adapts a Pin backend to the MultiClass contract for rigs
// with a single deterrent device, where any animal triggers the same
// sprinkler.
type SingleClass struct {
	backend Pin
	pin     int

	mu       sync.Mutex
	setupped bool

	// pulseMu serializes pulses so overlapping fires from different
	// classes never interleave edges on the shared pin.
	pulseMu sync.Mutex
}

// NewSingleClass creates an actuator that pulses pin on the given
// backend for every class.
func NewSingleClass(backend Pin, pin int) *SingleClass {
	return &SingleClass{backend: backend, pin: pin}
}

// SetupClasses configures the shared pin as an output line. The
// class-to-pin bindings are ignored; every class maps to the one pin.
func (g *SingleClass) SetupClasses(pins map[detect.Class]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.backend.Setup(g.pin); err != nil {
		return err
	}
	g.setupped = true

	return nil
}

// TriggerClass holds the shared pin high for the duration, then low.
// A duration <= 0 uses DefaultPulse.
func (g *SingleClass) TriggerClass(class detect.Class, duration time.Duration) error {
	g.mu.Lock()
	setupped := g.setupped
	g.mu.Unlock()

	if !setupped {
		return fmt.Errorf("%s: %w", class, ErrClassNotConfigured)
	}

	if duration <= 0 {
		duration = DefaultPulse
	}

	g.pulseMu.Lock()
	defer g.pulseMu.Unlock()

	if err := g.backend.Output(g.pin, true); err != nil {
		return err
	}
	time.Sleep(duration)
	return g.backend.Output(g.pin, false)
}

// Cleanup releases the backend, driving the pin low.
func (g *SingleClass) Cleanup() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.setupped = false
	return g.backend.Cleanup()
}
