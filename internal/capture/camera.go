// Package capture provides camera frame sources using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// ErrCameraNotOpen is returned when reading from a camera that has not
// been started.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrNoFrame is returned when the source produced no frame this read.
// It is a transient condition, not a fatal one.
var ErrNoFrame = errors.New("no frame available")

// Camera defines the interface for frame source implementations.
// Start and Stop are no-ops when the camera is already in that state.
type Camera interface {
	Start() error
	Stop() error

	// Read returns the next frame. The caller is responsible for closing
	// the returned Mat. Returns ErrNoFrame when no frame is available.
	Read() (*gocv.Mat, error)

	IsOpened() bool
	Width() int
	Height() int
}

// DeviceCamera captures frames from a camera device using GoCV.
type DeviceCamera struct {
	deviceID int
	width    int
	height   int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewDeviceCamera creates a camera for the given device index.
// Width and height values <= 0 fall back to the defaults.
func NewDeviceCamera(deviceID, width, height int) *DeviceCamera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &DeviceCamera{
		deviceID: deviceID,
		width:    width,
		height:   height,
	}
}

// Start opens the device and applies the requested resolution.
func (c *DeviceCamera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))

	// The device may not honor the requested size; read it back.
	if w := int(capture.Get(gocv.VideoCaptureFrameWidth)); w > 0 {
		c.width = w
	}
	if h := int(capture.Get(gocv.VideoCaptureFrameHeight)); h > 0 {
		c.height = h
	}

	c.capture = capture
	c.running = true

	return nil
}

// Stop closes the device and releases resources.
func (c *DeviceCamera) Stop() error {
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

// Read reads a single frame from the device.
func (c *DeviceCamera) Read() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrNoFrame
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrNoFrame
	}

	return &mat, nil
}

// IsOpened returns true if the camera is currently open.
func (c *DeviceCamera) IsOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running && c.capture != nil && c.capture.IsOpened()
}

// Width returns the frame width in pixels.
func (c *DeviceCamera) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Height returns the frame height in pixels.
func (c *DeviceCamera) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}
