package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// VideoCamera plays back a video file as a frame source.
// Playback loops back to the first frame at end of file, which makes a
// short clip usable for long development runs.
type VideoCamera struct {
	path    string
	capture *gocv.VideoCapture
	width   int
	height  int
	mu      sync.Mutex
	running bool
}

// NewVideoCamera creates a frame source backed by the video file at path.
func NewVideoCamera(path string) *VideoCamera {
	return &VideoCamera{path: path}
}

// Start opens the video file. Fails if the file cannot be opened.
func (c *VideoCamera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(c.path)
	if err != nil {
		return fmt.Errorf("open video file %s: %w", c.path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open video file %s: not a readable video", c.path)
	}

	c.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(capture.Get(gocv.VideoCaptureFrameHeight))
	c.capture = capture
	c.running = true

	return nil
}

// Stop releases the video capture.
func (c *VideoCamera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// Read reads the next frame, rewinding to the start at end of file.
func (c *VideoCamera) Read() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		// Loop the video
		c.capture.Set(gocv.VideoCapturePosFrames, 0)
		if ok := c.capture.Read(&mat); !ok || mat.Empty() {
			mat.Close()
			return nil, ErrNoFrame
		}
	}

	return &mat, nil
}

// IsOpened returns true if the video capture is open.
func (c *VideoCamera) IsOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running && c.capture != nil && c.capture.IsOpened()
}

// Width returns the frame width in pixels.
func (c *VideoCamera) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Height returns the frame height in pixels.
func (c *VideoCamera) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}
