package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/McGr/squirrel/internal/detect"
)

// MockGPIO is an in-memory single-pin backend for machines without GPIO
// hardware. Tests can read pin states and observe transitions through
// callbacks.
type MockGPIO struct {
	mu        sync.Mutex
	pins      map[int]bool
	callbacks map[int][]func(pin int, high bool)
}

// NewMockGPIO creates a mock single-pin backend.
func NewMockGPIO() *MockGPIO {
	return &MockGPIO{
		pins:      make(map[int]bool),
		callbacks: make(map[int][]func(pin int, high bool)),
	}
}

// Setup registers a pin, initially low.
func (g *MockGPIO) Setup(pin int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pins[pin]; !ok {
		g.pins[pin] = false
	}
	return nil
}

// Output sets a registered pin's level, firing callbacks on change.
func (g *MockGPIO) Output(pin int, high bool) error {
	g.mu.Lock()

	old, ok := g.pins[pin]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("pin %d: %w", pin, ErrPinNotSetup)
	}

	g.pins[pin] = high
	var cbs []func(int, bool)
	if old != high {
		cbs = append(cbs, g.callbacks[pin]...)
	}
	g.mu.Unlock()

	for _, cb := range cbs {
		cb(pin, high)
	}
	return nil
}

// Cleanup removes the given pins, or everything when none are given.
func (g *MockGPIO) Cleanup(pins ...int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(pins) == 0 {
		g.pins = make(map[int]bool)
		g.callbacks = make(map[int][]func(pin int, high bool))
		return nil
	}

	for _, pin := range pins {
		delete(g.pins, pin)
		delete(g.callbacks, pin)
	}
	return nil
}

// PinState returns the current level of a pin (for testing).
func (g *MockGPIO) PinState(pin int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pins[pin]
}

// OnChange registers a callback invoked when the pin's level changes
// (for testing).
func (g *MockGPIO) OnChange(pin int, cb func(pin int, high bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callbacks[pin] = append(g.callbacks[pin], cb)
}

// MockMultiClass is an in-memory multi-class backend. Pulse edges are
// observable through callbacks and a per-class pulse counter.
type MockMultiClass struct {
	mu        sync.Mutex
	classPins map[detect.Class]int
	pinStates map[int]bool
	pulses    map[detect.Class]int
	callbacks map[detect.Class][]func(class detect.Class, pin int, high bool)
	setupped  bool
}

// NewMockMultiClass creates a mock multi-class backend.
func NewMockMultiClass() *MockMultiClass {
	return &MockMultiClass{
		classPins: make(map[detect.Class]int),
		pinStates: make(map[int]bool),
		pulses:    make(map[detect.Class]int),
		callbacks: make(map[detect.Class][]func(detect.Class, int, bool)),
	}
}

// SetupClasses binds classes to pins and initializes them low.
func (g *MockMultiClass) SetupClasses(pins map[detect.Class]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for class, pin := range pins {
		g.classPins[class] = pin
		if _, ok := g.pinStates[pin]; !ok {
			g.pinStates[pin] = false
		}
	}
	g.setupped = true

	return nil
}

// TriggerClass pulses the class's pin: high, hold for the duration, low.
// A negative duration skips the hold entirely, which lets tests record
// pulses without sleeping.
func (g *MockMultiClass) TriggerClass(class detect.Class, duration time.Duration) error {
	g.mu.Lock()
	if !g.setupped {
		g.mu.Unlock()
		return fmt.Errorf("%s: %w", class, ErrClassNotConfigured)
	}
	pin, ok := g.classPins[class]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%s: %w", class, ErrClassNotConfigured)
	}

	g.pinStates[pin] = true
	g.pulses[class]++
	cbs := append([]func(detect.Class, int, bool){}, g.callbacks[class]...)
	g.mu.Unlock()

	for _, cb := range cbs {
		cb(class, pin, true)
	}

	if duration == 0 {
		duration = DefaultPulse
	}
	if duration > 0 {
		time.Sleep(duration)
	}

	g.mu.Lock()
	g.pinStates[pin] = false
	g.mu.Unlock()

	for _, cb := range cbs {
		cb(class, pin, false)
	}

	return nil
}

// Cleanup clears all bindings and pin state.
func (g *MockMultiClass) Cleanup() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.classPins = make(map[detect.Class]int)
	g.pinStates = make(map[int]bool)
	g.pulses = make(map[detect.Class]int)
	g.callbacks = make(map[detect.Class][]func(detect.Class, int, bool))
	g.setupped = false

	return nil
}

// ClassState returns the current level of a class's pin (for testing).
func (g *MockMultiClass) ClassState(class detect.Class) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	pin, ok := g.classPins[class]
	if !ok {
		return false
	}
	return g.pinStates[pin]
}

// Pulses returns how many times the class has been triggered.
func (g *MockMultiClass) Pulses(class detect.Class) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pulses[class]
}

// OnTrigger registers a callback for the class's pulse edges (for
// testing).
func (g *MockMultiClass) OnTrigger(class detect.Class, cb func(class detect.Class, pin int, high bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callbacks[class] = append(g.callbacks[class], cb)
}
