package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/McGr/squirrel/internal/detect"
)

// BlankFrame creates a uniform dark-green frame, roughly a lawn with
// nothing on it.
func BlankFrame(width, height int) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(40, 90, 40, 0),
		height, width, gocv.MatTypeCV8UC3,
	)
	return &mat
}

// BrownBlobFrame creates a frame with a squirrel-colored rectangle at
// the given box, enough for the color heuristic to pick up.
func BrownBlobFrame(width, height int, box detect.Box) *gocv.Mat {
	mat := BlankFrame(width, height)
	// Reddish-brown in BGR.
	brown := color.RGBA{R: 150, G: 75, B: 30, A: 0}
	gocv.Rectangle(mat, image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H), brown, -1)
	return mat
}

// FrameSequence builds n clones of the given frame for mock camera
// playback. The caller owns all returned Mats.
func FrameSequence(frame *gocv.Mat, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		clone := frame.Clone()
		frames = append(frames, &clone)
	}
	return frames
}

// CloseFrames closes every Mat in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
