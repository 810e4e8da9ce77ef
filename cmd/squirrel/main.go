package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/McGr/squirrel/internal/app"
	"github.com/McGr/squirrel/internal/capture"
	"github.com/McGr/squirrel/internal/config"
	"github.com/McGr/squirrel/internal/detect"
	"github.com/McGr/squirrel/internal/gpio"
	"github.com/McGr/squirrel/internal/platform"
	"github.com/McGr/squirrel/internal/store"
)

func main() {
	fmt.Println("Squirrel - Wildlife Deterrent")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.DBPath != "" {
		st, err := store.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open profile store: %v", err)
		}
		defer st.Close()

		if cfg.Profile != "" {
			profile, err := st.Profiles().GetByName(cfg.Profile)
			if err != nil {
				log.Fatalf("Failed to load profile %q: %v", cfg.Profile, err)
			}
			cfg.ApplyProfile(profile)
			log.Printf("Loaded profile %q", cfg.Profile)

			if err := st.Settings().Set("last_profile", cfg.Profile); err != nil {
				log.Printf("Failed to record last profile: %v", err)
			}
		}
	}

	camera := newCamera(cfg)
	detector := newDetector(cfg)

	actuator := newActuator(cfg)
	if err := actuator.SetupClasses(cfg.ClassPins()); err != nil {
		log.Fatalf("Failed to set up GPIO: %v", err)
	}

	a, err := app.New(app.Config{
		Camera:          camera,
		Detector:        detector,
		Actuator:        actuator,
		Confidence:      cfg.Confidence,
		Center:          cfg.Center,
		Cooldown:        cfg.Cooldown,
		Pulse:           cfg.Pulse,
		MotionThreshold: cfg.MotionThreshold,
		Debug:           cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Class pins: %v", cfg.ClassPins())

	if err := a.Run(ctx); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}

// newCamera selects a frame source: a video file when given, otherwise
// the camera device.
func newCamera(cfg *config.Config) capture.Camera {
	if cfg.VideoPath != "" {
		log.Printf("Using video file: %s", cfg.VideoPath)
		return capture.NewVideoCamera(cfg.VideoPath)
	}
	return capture.NewDeviceCamera(cfg.CameraIndex, cfg.CameraWidth, cfg.CameraHeight)
}

// newDetector builds the detector. An explicit model path that fails to
// load is fatal; without one, a missing inference service falls back to
// the color heuristic.
func newDetector(cfg *config.Config) detect.Detector {
	if cfg.Heuristic {
		log.Println("Using color-heuristic detector")
		return detect.NewColorDetector()
	}

	yolo, err := detect.NewYOLODetector(detect.YOLOConfig{
		ModelPath:     cfg.ModelPath,
		Device:        cfg.Device,
		MinConfidence: cfg.Confidence,
	})
	if err != nil {
		if cfg.ModelPath != "" {
			log.Fatalf("Failed to load model: %v", err)
		}
		log.Printf("ML detector not available (%v), using color heuristic", err)
		return detect.NewColorDetector()
	}

	log.Println("Using ML detector")
	return yolo
}

// newActuator prefers real GPIO on a Raspberry Pi and falls back to the
// mock backend everywhere else. With --pin set, every class drives that
// one shared pin.
func newActuator(cfg *config.Config) gpio.MultiClass {
	if cfg.Pin >= 0 {
		log.Printf("Single-pin mode: all classes pulse GPIO %d", cfg.Pin)
		return gpio.NewSingleClass(newPinBackend(), cfg.Pin)
	}

	if platform.IsRaspberryPi() {
		actuator, err := gpio.NewPiMultiClass()
		if err == nil {
			return actuator
		}
		log.Printf("Raspberry Pi GPIO not available (%v), using mock GPIO", err)
	} else {
		log.Println("Not running on Raspberry Pi, using mock GPIO")
	}
	return gpio.NewMockMultiClass()
}

// newPinBackend selects the single-line backend for single-pin mode.
func newPinBackend() gpio.Pin {
	if platform.IsRaspberryPi() {
		backend, err := gpio.NewPiGPIO()
		if err == nil {
			return backend
		}
		log.Printf("Raspberry Pi GPIO not available (%v), using mock GPIO", err)
	} else {
		log.Println("Not running on Raspberry Pi, using mock GPIO")
	}
	return gpio.NewMockGPIO()
}
