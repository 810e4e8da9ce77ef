package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/McGr/squirrel/internal/detect"
)

// PiGPIO drives Raspberry Pi output pins through /dev/gpiomem.
type PiGPIO struct {
	mu   sync.Mutex
	pins map[int]rpio.Pin
}

// NewPiGPIO opens the GPIO memory range. Returns ErrGPIOUnavailable
// when the hardware cannot be opened (e.g. not running on a Pi).
func NewPiGPIO() (*PiGPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPIOUnavailable, err)
	}
	return &PiGPIO{pins: make(map[int]rpio.Pin)}, nil
}

// Setup configures a pin as an output line, initially low.
func (g *PiGPIO) Setup(pin int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pins[pin]; ok {
		return nil
	}

	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	g.pins[pin] = p

	return nil
}

// Output drives a configured pin high or low.
func (g *PiGPIO) Output(pin int, high bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.pins[pin]
	if !ok {
		return fmt.Errorf("pin %d: %w", pin, ErrPinNotSetup)
	}

	if high {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

// Cleanup drives the given pins low and releases them. With no
// arguments it releases every pin and closes the GPIO range.
func (g *PiGPIO) Cleanup(pins ...int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(pins) == 0 {
		for _, p := range g.pins {
			p.Low()
		}
		g.pins = make(map[int]rpio.Pin)
		return rpio.Close()
	}

	for _, pin := range pins {
		if p, ok := g.pins[pin]; ok {
			p.Low()
			delete(g.pins, pin)
		}
	}
	return nil
}

// PiMultiClass drives one Raspberry Pi pin per detection class.
type PiMultiClass struct {
	mu       sync.Mutex
	pins     map[detect.Class]rpio.Pin
	pinMu    map[detect.Class]*sync.Mutex
	setupped bool
}

// NewPiMultiClass opens the GPIO memory range. Returns
// ErrGPIOUnavailable when the hardware cannot be opened.
func NewPiMultiClass() (*PiMultiClass, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPIOUnavailable, err)
	}
	return &PiMultiClass{
		pins:  make(map[detect.Class]rpio.Pin),
		pinMu: make(map[detect.Class]*sync.Mutex),
	}, nil
}

// SetupClasses binds each class to its pin and drives them low.
func (g *PiMultiClass) SetupClasses(pins map[detect.Class]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for class, pin := range pins {
		p := rpio.Pin(pin)
		p.Output()
		p.Low()
		g.pins[class] = p
		g.pinMu[class] = &sync.Mutex{}
	}
	g.setupped = true

	return nil
}

// TriggerClass holds the class's pin high for the duration, then low.
// Pulses for the same class are serialized so they never overlap, even
// when the caller runs them on separate goroutines.
func (g *PiMultiClass) TriggerClass(class detect.Class, duration time.Duration) error {
	g.mu.Lock()
	if !g.setupped {
		g.mu.Unlock()
		return fmt.Errorf("%s: %w", class, ErrClassNotConfigured)
	}
	p, ok := g.pins[class]
	pm := g.pinMu[class]
	g.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", class, ErrClassNotConfigured)
	}

	if duration <= 0 {
		duration = DefaultPulse
	}

	pm.Lock()
	defer pm.Unlock()

	p.High()
	time.Sleep(duration)
	p.Low()

	return nil
}

// Cleanup drives all pins low, releases them, and closes the GPIO
// range.
func (g *PiMultiClass) Cleanup() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range g.pins {
		p.Low()
	}
	g.pins = make(map[detect.Class]rpio.Pin)
	g.pinMu = make(map[detect.Class]*sync.Mutex)
	g.setupped = false

	return rpio.Close()
}
