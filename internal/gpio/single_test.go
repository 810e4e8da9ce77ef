package gpio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/McGr/squirrel/internal/detect"
)

func TestSingleClass_TriggerBeforeSetup(t *testing.T) {
	g := NewSingleClass(NewMockGPIO(), 18)

	err := g.TriggerClass(detect.ClassSquirrel, time.Millisecond)
	if !errors.Is(err, ErrClassNotConfigured) {
		t.Errorf("TriggerClass() before setup error = %v, want ErrClassNotConfigured", err)
	}
}

func TestSingleClass_AllClassesShareOnePin(t *testing.T) {
	backend := NewMockGPIO()
	g := NewSingleClass(backend, 18)

	var mu sync.Mutex
	var edges []bool
	backend.OnChange(18, func(pin int, high bool) {
		mu.Lock()
		edges = append(edges, high)
		mu.Unlock()
	})

	// Bindings name other pins; the adapter ignores them.
	if err := g.SetupClasses(map[detect.Class]int{
		detect.ClassSquirrel: 23,
		detect.ClassRaccoon:  24,
	}); err != nil {
		t.Fatalf("SetupClasses() error = %v", err)
	}

	for _, class := range detect.Classes() {
		if err := g.TriggerClass(class, time.Millisecond); err != nil {
			t.Fatalf("TriggerClass(%s) error = %v", class, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []bool{true, false, true, false, true, false}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Fatalf("edges = %v, want %v", edges, want)
		}
	}
	if backend.PinState(18) {
		t.Error("pin left high after pulses")
	}
}

func TestSingleClass_CleanupReleasesPin(t *testing.T) {
	backend := NewMockGPIO()
	g := NewSingleClass(backend, 18)

	if err := g.SetupClasses(map[detect.Class]int{detect.ClassSquirrel: 18}); err != nil {
		t.Fatalf("SetupClasses() error = %v", err)
	}
	if err := g.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	err := g.TriggerClass(detect.ClassSquirrel, time.Millisecond)
	if !errors.Is(err, ErrClassNotConfigured) {
		t.Errorf("TriggerClass() after cleanup error = %v, want ErrClassNotConfigured", err)
	}

	// The backend pin was released too.
	if err := backend.Output(18, true); !errors.Is(err, ErrPinNotSetup) {
		t.Errorf("backend Output() after cleanup error = %v, want ErrPinNotSetup", err)
	}
}
