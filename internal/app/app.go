// Package app wires the frame source, detector, center gate, trigger
// scheduler, and actuator into the detection loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/McGr/squirrel/internal/capture"
	"github.com/McGr/squirrel/internal/detect"
	"github.com/McGr/squirrel/internal/gpio"
	"github.com/McGr/squirrel/internal/trigger"
)

// Loop timing constants.
const (
	// DefaultTickInterval targets roughly 30 frames per second.
	DefaultTickInterval = 33 * time.Millisecond

	// DefaultReadBackoff is the pause after a failed frame read before
	// the next tick.
	DefaultReadBackoff = 100 * time.Millisecond
)

// ErrCameraNotOpened is returned when the frame source started but
// reports itself closed. This is fatal; the loop never retries opens.
var ErrCameraNotOpened = errors.New("camera started but is not opened")

// Config holds the detection loop's collaborators and tuning.
type Config struct {
	Camera   capture.Camera
	Detector detect.Detector
	Actuator gpio.MultiClass

	// Confidence is the minimum detection confidence to consider.
	Confidence float64

	// Center is the center-region fraction for the gate.
	Center float64

	// Cooldown is the per-class minimum time between fires. Zero
	// disables debouncing; every qualifying detection fires.
	Cooldown time.Duration

	// Pulse is how long the actuator holds a pin high per fire.
	Pulse time.Duration

	TickInterval time.Duration
	ReadBackoff  time.Duration

	// MotionThreshold > 0 enables the motion pre-filter: still frames
	// skip detector inference.
	MotionThreshold float64

	// Debug shows the overlay window.
	Debug bool

	// Clock supplies the current time; nil means time.Now. Tests
	// inject a fake to drive cooldown behavior deterministically.
	Clock func() time.Time
}

// App owns the loop's collaborators for its lifetime and runs the
// per-tick pipeline: read, detect, gate, schedule, actuate.
type App struct {
	cfg       Config
	gate      detect.CenterGate
	scheduler *trigger.Scheduler
	motion    *capture.MotionDetector
	now       func() time.Time

	pulses sync.WaitGroup
}

// New creates an App. Camera, Detector, and Actuator are required.
func New(cfg Config) (*App, error) {
	if cfg.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if cfg.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if cfg.Actuator == nil {
		return nil, errors.New("app: actuator is required")
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.ReadBackoff <= 0 {
		cfg.ReadBackoff = DefaultReadBackoff
	}

	a := &App{
		cfg:       cfg,
		gate:      detect.CenterGate{Threshold: cfg.Center},
		scheduler: trigger.NewScheduler(detect.Classes(), cfg.Cooldown, cfg.Pulse),
		now:       cfg.Clock,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if cfg.MotionThreshold > 0 {
		a.motion = capture.NewMotionDetector(cfg.MotionThreshold)
	}

	return a, nil
}

// Scheduler returns the trigger scheduler (for inspection in tests).
func (a *App) Scheduler() *trigger.Scheduler {
	return a.scheduler
}

// Run starts the camera and processes frames until ctx is canceled.
// A camera that fails to open is a fatal error; per-frame read failures
// are logged and retried after a short backoff. All resources are
// released before Run returns, on every exit path.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.Camera.Start(); err != nil {
		return fmt.Errorf("start camera: %w", err)
	}
	defer a.cleanup()

	if !a.cfg.Camera.IsOpened() {
		return ErrCameraNotOpened
	}

	var ov *overlay
	if a.cfg.Debug {
		ov = newOverlay()
		defer ov.close()
	}

	log.Printf("Monitoring for wildlife (cooldown %s, pulse %s)", a.scheduler.Cooldown(), a.scheduler.Pulse())

	ticker := time.NewTicker(a.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, stopping detection loop")
			return nil
		case <-ticker.C:
			a.tick(ov)
		}
	}
}

// tick processes one frame: read, detect, gate, schedule, actuate.
func (a *App) tick(ov *overlay) {
	frame, err := a.cfg.Camera.Read()
	if err != nil {
		log.Printf("Failed to read frame: %v", err)
		time.Sleep(a.cfg.ReadBackoff)
		return
	}
	defer frame.Close()

	// Frame geometry is read fresh every tick; the source may change
	// resolution between frames.
	frameW := frame.Cols()
	frameH := frame.Rows()

	if a.motion != nil {
		if moved, _ := a.motion.Detect(frame); !moved {
			if ov != nil {
				ov.render(frame, a.gate, frameW, frameH, nil)
			}
			return
		}
	}

	detections, err := a.cfg.Detector.Detect(frame)
	if err != nil {
		log.Printf("Detection failed: %v", err)
		return
	}

	best, found := detect.Best(detections, a.cfg.Confidence)
	if !found {
		if ov != nil {
			ov.render(frame, a.gate, frameW, frameH, nil)
		}
		return
	}

	if ov != nil {
		ov.render(frame, a.gate, frameW, frameH, &best)
	}

	// Off-center sightings are discarded without logging; only a
	// confident, centered detection is newsworthy.
	if !a.gate.Contains(frameW, frameH, best.Box) {
		return
	}

	decision, err := a.scheduler.TryFire(best.Class, a.now())
	if err != nil {
		log.Printf("Trigger decision failed: %v", err)
		return
	}
	if decision != trigger.Fired {
		return
	}

	log.Printf("%s detected in center! Confidence: %.2f, BBox: %+v", best.Class, best.Confidence, best.Box)

	// The pulse hold runs off the loop goroutine so frame cadence is
	// independent of pulse width.
	class := best.Class
	a.pulses.Add(1)
	go func() {
		defer a.pulses.Done()
		if err := a.cfg.Actuator.TriggerClass(class, a.cfg.Pulse); err != nil {
			log.Printf("Trigger %s failed: %v", class, err)
		}
	}()
}

// cleanup releases every collaborator, waiting for in-flight pulses so
// pins are never left high.
func (a *App) cleanup() {
	log.Println("Cleaning up...")

	a.pulses.Wait()

	if err := a.cfg.Camera.Stop(); err != nil {
		log.Printf("Error stopping camera: %v", err)
	}
	if err := a.cfg.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if err := a.cfg.Actuator.Cleanup(); err != nil {
		log.Printf("Error cleaning up GPIO: %v", err)
	}
}
