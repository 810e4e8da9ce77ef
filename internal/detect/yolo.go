package detect

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// yoloIdleTimeout shuts the inference process down after a period with
// no frames, freeing the model's memory between sightings.
const yoloIdleTimeout = 30 * time.Second

// YOLOConfig holds configuration for the ML detector.
type YOLOConfig struct {
	// ModelPath is the path to the trained model weights. Empty means
	// the service's default weights.
	ModelPath string

	// Device selects the inference device ("cpu", "cuda", "0", ...).
	Device string

	// MinConfidence is the confidence threshold passed to inference.
	MinConfidence float64
}

// YOLODetector runs multi-class inference in a Python YOLO service
// subprocess. Frames go out as length-prefixed JPEG on stdin; one JSON
// line of detections comes back per frame. The process starts lazily on
// the first Detect call and is restarted if it goes idle.
type YOLODetector struct {
	config  YOLOConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
	idle    *time.Timer

	// idleGen invalidates idle timer callbacks that fired before a
	// reset or shutdown but ran after.
	idleGen uint64
}

// NewYOLODetector creates an ML detector. It fails when the inference
// service script cannot be located or the model file does not exist;
// both are construction-time errors, not per-frame ones.
func NewYOLODetector(config YOLOConfig) (*YOLODetector, error) {
	if findYOLOScript() == "" {
		return nil, fmt.Errorf("yolo_service.py not found")
	}
	if config.ModelPath != "" {
		if _, err := os.Stat(config.ModelPath); err != nil {
			return nil, fmt.Errorf("model %s: %w", config.ModelPath, err)
		}
	}
	if config.Device == "" {
		config.Device = "cpu"
	}

	return &YOLODetector{config: config}, nil
}

// Detect analyzes a frame and returns the detections the model found.
func (d *YOLODetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Detections []jsonDetection `json:"detections"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := make([]Detection, 0, len(response.Detections))
	for _, jd := range response.Detections {
		class, err := ParseClass(jd.Class)
		if err != nil {
			// Model classes outside our set are ignored, not failed.
			continue
		}
		result = append(result, Detection{
			Class:      class,
			Box:        Box{X: jd.X, Y: jd.Y, W: jd.W, H: jd.H},
			Confidence: jd.Confidence,
		})
	}

	d.resetIdleTimer()

	return result, nil
}

// Close shuts down the inference process.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *YOLODetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findYOLOScript()
	if scriptPath == "" {
		return fmt.Errorf("yolo_service.py not found")
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{
		scriptPath,
		"--device", d.config.Device,
		"--confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
	}
	if d.config.ModelPath != "" {
		args = append(args, "--model", d.config.ModelPath)
	}

	d.cmd = exec.Command(pythonPath, args...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start yolo service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func (d *YOLODetector) shutdown() error {
	if !d.started {
		return nil
	}

	d.idleGen++
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	var err error
	if d.cmd != nil {
		err = d.cmd.Wait()
	}
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *YOLODetector) resetIdleTimer() {
	if d.idle != nil {
		d.idle.Stop()
	}
	d.idleGen++
	gen := d.idleGen
	d.idle = time.AfterFunc(yoloIdleTimeout, func() {
		d.idleExpired(gen)
	})
}

// idleExpired shuts the service down when the timer generation is still
// current. A timer that fired just before a reset or shutdown, but ran
// after, sees a newer generation and does nothing; without the check it
// would tear down a service that was just used and force a model reload
// on the next frame.
func (d *YOLODetector) idleExpired(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.idleGen {
		return
	}
	d.shutdown()
}

func findYOLOScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/yolo_service.py",
		"../scripts/yolo_service.py",
		filepath.Join(execDir, "scripts/yolo_service.py"),
		filepath.Join(os.Getenv("HOME"), ".squirrel/scripts/yolo_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment
// near the binary or under ~/.squirrel.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".squirrel/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonDetection is the wire format from the Python service.
type jsonDetection struct {
	Class      string  `json:"class"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	W          int     `json:"w"`
	H          int     `json:"h"`
	Confidence float64 `json:"confidence"`
}
