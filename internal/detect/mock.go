package detect

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu         sync.Mutex
	detections []Detection
	queue      [][]Detection
	err        error
	calls      int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetections sets the detections returned by every Detect call.
func (m *MockDetector) SetDetections(detections []Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections = detections
	m.queue = nil
}

// QueueDetections sets per-call results: the first Detect call returns
// the first slice, and so on. After the queue drains, Detect returns
// empty results.
func (m *MockDetector) QueueDetections(results ...[]Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = results
	m.detections = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detections or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if m.queue != nil {
		if len(m.queue) == 0 {
			return nil, nil
		}
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.detections, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// CenteredSquirrel returns a preset detection whose box center equals
// the center of a frameW x frameH frame.
func CenteredSquirrel(frameW, frameH int, confidence float64) Detection {
	return Detection{
		Class:      ClassSquirrel,
		Box:        Box{X: frameW/2 - 50, Y: frameH/2 - 50, W: 100, H: 100},
		Confidence: confidence,
	}
}

// CornerRaccoon returns a preset detection tucked into the top-left
// corner, well outside any reasonable center region.
func CornerRaccoon(confidence float64) Detection {
	return Detection{
		Class:      ClassRaccoon,
		Box:        Box{X: 0, Y: 0, W: 40, H: 40},
		Confidence: confidence,
	}
}
