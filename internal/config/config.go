// Package config assembles run configuration from an optional .env
// file, environment variables, and command-line flags, in increasing
// order of precedence. A stored profile can supply defaults for any
// value the flags did not set explicitly.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/McGr/squirrel/internal/detect"
	"github.com/McGr/squirrel/internal/store"
)

// Default trigger timing and thresholds.
const (
	DefaultConfidence = 0.25
	DefaultCenter     = 0.3
	DefaultCooldown   = 2 * time.Second
	DefaultPulse      = 500 * time.Millisecond
)

// Config holds the full run configuration.
type Config struct {
	CameraIndex  int
	VideoPath    string
	CameraWidth  int
	CameraHeight int

	ModelPath string
	Device    string
	Heuristic bool

	// Pin >= 0 selects single-pin mode: every class pulses this one
	// pin and the per-class bindings are ignored. Negative disables.
	Pin int

	SquirrelPin int
	SkunkPin    int
	RaccoonPin  int

	Confidence float64
	Center     float64
	Cooldown   time.Duration
	Pulse      time.Duration

	// MotionThreshold enables the motion pre-filter when > 0: frames
	// with fewer changed pixels than this percentage skip inference.
	MotionThreshold float64

	Debug   bool
	DBPath  string
	Profile string

	set map[string]bool
}

// Load builds a Config from .env (if present), environment variables,
// and the given command-line arguments (excluding the program name).
func Load(args []string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("squirrel", flag.ContinueOnError)

	fs.IntVar(&cfg.CameraIndex, "camera", envInt("SQUIRREL_CAMERA", 0), "camera device index")
	fs.StringVar(&cfg.VideoPath, "video", envString("SQUIRREL_VIDEO", ""), "video file to use instead of a camera")
	fs.IntVar(&cfg.CameraWidth, "width", envInt("SQUIRREL_WIDTH", 1920), "requested frame width")
	fs.IntVar(&cfg.CameraHeight, "height", envInt("SQUIRREL_HEIGHT", 1080), "requested frame height")

	fs.StringVar(&cfg.ModelPath, "model", envString("SQUIRREL_MODEL", ""), "path to trained model weights")
	fs.StringVar(&cfg.Device, "device", envString("SQUIRREL_DEVICE", "cpu"), "inference device (cpu, cuda, 0, ...)")
	fs.BoolVar(&cfg.Heuristic, "heuristic", envBool("SQUIRREL_HEURISTIC", false), "force the color-heuristic detector")

	fs.IntVar(&cfg.Pin, "pin", envInt("SQUIRREL_PIN", -1), "single shared GPIO pin for all classes (negative uses per-class pins)")
	fs.IntVar(&cfg.SquirrelPin, "squirrel-pin", envInt("SQUIRREL_PIN_SQUIRREL", 18), "GPIO pin for squirrel detection")
	fs.IntVar(&cfg.SkunkPin, "skunk-pin", envInt("SQUIRREL_PIN_SKUNK", 19), "GPIO pin for skunk detection")
	fs.IntVar(&cfg.RaccoonPin, "raccoon-pin", envInt("SQUIRREL_PIN_RACCOON", 20), "GPIO pin for raccoon detection")

	fs.Float64Var(&cfg.Confidence, "confidence", envFloat("SQUIRREL_CONFIDENCE", DefaultConfidence), "minimum detection confidence (0-1)")
	fs.Float64Var(&cfg.Center, "center", envFloat("SQUIRREL_CENTER", DefaultCenter), "center region fraction (0-1]")
	fs.DurationVar(&cfg.Cooldown, "cooldown", envDuration("SQUIRREL_COOLDOWN", DefaultCooldown), "minimum time between fires per class")
	fs.DurationVar(&cfg.Pulse, "pulse", envDuration("SQUIRREL_PULSE", DefaultPulse), "GPIO pulse duration")

	fs.Float64Var(&cfg.MotionThreshold, "motion", envFloat("SQUIRREL_MOTION", 0), "motion pre-filter threshold in percent changed pixels (0 disables)")

	fs.BoolVar(&cfg.Debug, "debug", envBool("SQUIRREL_DEBUG", false), "show the debug overlay window")
	fs.StringVar(&cfg.DBPath, "db", envString("SQUIRREL_DB", ""), "profile database path (empty disables the store)")
	fs.StringVar(&cfg.Profile, "profile", envString("SQUIRREL_PROFILE", ""), "stored profile to load defaults from")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence threshold %g out of range [0,1]", c.Confidence)
	}
	if c.Center <= 0 || c.Center > 1 {
		return fmt.Errorf("center threshold %g out of range (0,1]", c.Center)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown %s must not be negative", c.Cooldown)
	}
	if c.Pulse < 0 {
		return fmt.Errorf("pulse %s must not be negative", c.Pulse)
	}
	for _, pin := range []int{c.SquirrelPin, c.SkunkPin, c.RaccoonPin} {
		if pin < 0 {
			return fmt.Errorf("GPIO pin %d must not be negative", pin)
		}
	}
	return nil
}

// ClassPins returns the class-to-pin mapping. The mapping is fixed for
// the lifetime of a run.
func (c *Config) ClassPins() map[detect.Class]int {
	return map[detect.Class]int{
		detect.ClassSquirrel: c.SquirrelPin,
		detect.ClassSkunk:    c.SkunkPin,
		detect.ClassRaccoon:  c.RaccoonPin,
	}
}

// ApplyProfile copies profile values into fields whose flags were not
// set explicitly, so the command line always wins over the store.
func (c *Config) ApplyProfile(p *store.Profile) {
	if !c.set["confidence"] {
		c.Confidence = p.ConfidenceThreshold
	}
	if !c.set["center"] {
		c.Center = p.CenterThreshold
	}
	if !c.set["cooldown"] && p.Cooldown > 0 {
		c.Cooldown = p.Cooldown
	}
	if !c.set["pulse"] && p.Pulse > 0 {
		c.Pulse = p.Pulse
	}
	if pin, ok := p.Bindings[detect.ClassSquirrel]; ok && !c.set["squirrel-pin"] {
		c.SquirrelPin = pin
	}
	if pin, ok := p.Bindings[detect.ClassSkunk]; ok && !c.set["skunk-pin"] {
		c.SkunkPin = pin
	}
	if pin, ok := p.Bindings[detect.ClassRaccoon]; ok && !c.set["raccoon-pin"] {
		c.RaccoonPin = pin
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
