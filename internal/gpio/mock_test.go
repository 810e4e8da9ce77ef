package gpio

import (
	"errors"
	"testing"

	"github.com/McGr/squirrel/internal/detect"
)

func TestMockGPIO_SetupAndOutput(t *testing.T) {
	g := NewMockGPIO()

	if err := g.Setup(18); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if g.PinState(18) {
		t.Error("pin should start low")
	}

	if err := g.Output(18, true); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if !g.PinState(18) {
		t.Error("pin should be high after Output(true)")
	}

	if err := g.Output(18, false); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if g.PinState(18) {
		t.Error("pin should be low after Output(false)")
	}
}

func TestMockGPIO_OutputWithoutSetup(t *testing.T) {
	g := NewMockGPIO()

	err := g.Output(18, true)
	if !errors.Is(err, ErrPinNotSetup) {
		t.Errorf("Output without Setup error = %v, want ErrPinNotSetup", err)
	}
}

func TestMockGPIO_Callbacks(t *testing.T) {
	g := NewMockGPIO()
	if err := g.Setup(18); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	var transitions []bool
	g.OnChange(18, func(pin int, high bool) {
		transitions = append(transitions, high)
	})

	g.Output(18, true)
	g.Output(18, true) // no change, no callback
	g.Output(18, false)

	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("transitions = %v, want [true false]", transitions)
	}
}

func TestMockGPIO_Cleanup(t *testing.T) {
	g := NewMockGPIO()
	g.Setup(18)
	g.Setup(19)

	if err := g.Cleanup(18); err != nil {
		t.Fatalf("Cleanup(18) error = %v", err)
	}
	if err := g.Output(18, true); !errors.Is(err, ErrPinNotSetup) {
		t.Error("cleaned-up pin should require setup again")
	}
	if err := g.Output(19, true); err != nil {
		t.Errorf("untouched pin should still work, got %v", err)
	}

	if err := g.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if err := g.Output(19, true); !errors.Is(err, ErrPinNotSetup) {
		t.Error("full cleanup should release every pin")
	}
}

func TestMockMultiClass_TriggerWithoutSetup(t *testing.T) {
	g := NewMockMultiClass()

	err := g.TriggerClass(detect.ClassSquirrel, -1)
	if !errors.Is(err, ErrClassNotConfigured) {
		t.Errorf("TriggerClass before SetupClasses error = %v, want ErrClassNotConfigured", err)
	}
}

func TestMockMultiClass_TriggerUnboundClass(t *testing.T) {
	g := NewMockMultiClass()
	if err := g.SetupClasses(map[detect.Class]int{detect.ClassSquirrel: 18}); err != nil {
		t.Fatalf("SetupClasses() error = %v", err)
	}

	err := g.TriggerClass(detect.ClassRaccoon, -1)
	if !errors.Is(err, ErrClassNotConfigured) {
		t.Errorf("TriggerClass(unbound) error = %v, want ErrClassNotConfigured", err)
	}
}

func TestMockMultiClass_PulseEdges(t *testing.T) {
	g := NewMockMultiClass()
	pins := map[detect.Class]int{
		detect.ClassSquirrel: 18,
		detect.ClassSkunk:    19,
	}
	if err := g.SetupClasses(pins); err != nil {
		t.Fatalf("SetupClasses() error = %v", err)
	}

	type edge struct {
		pin  int
		high bool
	}
	var edges []edge
	g.OnTrigger(detect.ClassSquirrel, func(class detect.Class, pin int, high bool) {
		edges = append(edges, edge{pin: pin, high: high})
	})

	// Negative duration skips the hold so the test doesn't sleep.
	if err := g.TriggerClass(detect.ClassSquirrel, -1); err != nil {
		t.Fatalf("TriggerClass() error = %v", err)
	}

	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2 (high then low)", len(edges))
	}
	if edges[0].pin != 18 || !edges[0].high {
		t.Errorf("first edge = %+v, want pin 18 high", edges[0])
	}
	if edges[1].pin != 18 || edges[1].high {
		t.Errorf("second edge = %+v, want pin 18 low", edges[1])
	}

	if g.ClassState(detect.ClassSquirrel) {
		t.Error("pin should be low after the pulse completes")
	}
	if g.Pulses(detect.ClassSquirrel) != 1 {
		t.Errorf("Pulses(squirrel) = %d, want 1", g.Pulses(detect.ClassSquirrel))
	}
	if g.Pulses(detect.ClassSkunk) != 0 {
		t.Errorf("Pulses(skunk) = %d, want 0", g.Pulses(detect.ClassSkunk))
	}
}

func TestMockMultiClass_Cleanup(t *testing.T) {
	g := NewMockMultiClass()
	g.SetupClasses(map[detect.Class]int{detect.ClassSquirrel: 18})

	if err := g.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if err := g.TriggerClass(detect.ClassSquirrel, -1); !errors.Is(err, ErrClassNotConfigured) {
		t.Error("triggering after cleanup should require setup again")
	}
}
