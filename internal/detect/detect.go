// Package detect provides wildlife detection over camera frames.
package detect

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Class identifies a detectable animal class.
type Class int

// Known detection classes.
const (
	ClassSquirrel Class = iota
	ClassSkunk
	ClassRaccoon
)

var classNames = map[Class]string{
	ClassSquirrel: "squirrel",
	ClassSkunk:    "skunk",
	ClassRaccoon:  "raccoon",
}

// String returns the lowercase class name.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass converts a class name to its Class value.
func ParseClass(name string) (Class, error) {
	for c, n := range classNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", name)
}

// Classes returns all known classes in declaration order.
func Classes() []Class {
	return []Class{ClassSquirrel, ClassSkunk, ClassRaccoon}
}

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X int
	Y int
	W int
	H int
}

// Center returns the box center using floor division, matching the
// pixel-grid arithmetic used by the rest of the pipeline.
func (b Box) Center() (int, int) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Detection is one candidate sighting in a frame. Detections are
// produced fresh each frame and never retained across frames.
type Detection struct {
	Class      Class
	Box        Box
	Confidence float64
}

// Detector analyzes frames for wildlife.
type Detector interface {
	// Detect returns zero or more detections for the frame.
	// An empty slice means nothing was found; it is not an error.
	Detect(frame *gocv.Mat) ([]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Best selects the highest-confidence detection at or above the
// threshold. Ties keep the first-seen detection, so the result is
// deterministic for a fixed detector output order.
func Best(detections []Detection, minConfidence float64) (Detection, bool) {
	var best Detection
	found := false

	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		if !found || d.Confidence > best.Confidence {
			best = d
			found = true
		}
	}

	return best, found
}
