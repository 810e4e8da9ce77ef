// Package gpio abstracts the hardware output lines that deterrent
// devices hang off of, with a Raspberry Pi backend and an in-memory
// mock for development and tests.
package gpio

import (
	"errors"
	"time"

	"github.com/McGr/squirrel/internal/detect"
)

// DefaultPulse is how long a triggered pin is held high when no pulse
// duration is configured.
const DefaultPulse = 500 * time.Millisecond

// ErrGPIOUnavailable is returned when the GPIO hardware cannot be
// opened on this machine. Callers fall back to the mock backend.
var ErrGPIOUnavailable = errors.New("gpio hardware unavailable")

// ErrPinNotSetup is returned when writing to a pin that Setup was never
// called for. Pins must be configured explicitly; there is no lazy
// setup on first write.
var ErrPinNotSetup = errors.New("pin not set up")

// ErrClassNotConfigured is returned when triggering a class that
// SetupClasses did not bind to a pin.
var ErrClassNotConfigured = errors.New("class has no configured pin")

// Pin is the single-line output interface.
type Pin interface {
	// Setup configures a pin as an output line.
	Setup(pin int) error

	// Output drives a configured pin high or low.
	Output(pin int, high bool) error

	// Cleanup releases the given pins, or all pins when none are given.
	Cleanup(pins ...int) error
}

// MultiClass drives one output line per detection class.
type MultiClass interface {
	// SetupClasses binds classes to pins. Must be called once before
	// any TriggerClass call.
	SetupClasses(pins map[detect.Class]int) error

	// TriggerClass pulses the class's pin high for the duration, then
	// low. A zero duration uses DefaultPulse.
	TriggerClass(class detect.Class, duration time.Duration) error

	// Cleanup drives all pins low and releases them.
	Cleanup() error
}
