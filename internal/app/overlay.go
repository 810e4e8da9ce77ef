package app

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/McGr/squirrel/internal/detect"
)

// overlay renders the debug window: center region, best bounding box,
// and a status line.
type overlay struct {
	window *gocv.Window
}

func newOverlay() *overlay {
	return &overlay{window: gocv.NewWindow("Wildlife Detector")}
}

func (o *overlay) close() {
	if o.window != nil {
		o.window.Close()
		o.window = nil
	}
}

// classColor maps classes to BGR draw colors.
func classColor(class detect.Class) color.RGBA {
	switch class {
	case detect.ClassSquirrel:
		return color.RGBA{R: 255, G: 255, B: 0, A: 0} // yellow
	case detect.ClassSkunk:
		return color.RGBA{R: 255, G: 255, B: 255, A: 0} // white
	case detect.ClassRaccoon:
		return color.RGBA{R: 128, G: 128, B: 128, A: 0} // gray
	default:
		return color.RGBA{G: 255, A: 0} // green
	}
}

// render draws the overlay onto the frame and shows it. best may be nil
// when nothing qualified this tick.
func (o *overlay) render(frame *gocv.Mat, gate detect.CenterGate, frameW, frameH int, best *detect.Detection) {
	green := color.RGBA{G: 255, A: 0}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 0}

	startX, startY, endX, endY := gate.Region(frameW, frameH)
	gocv.Rectangle(frame, image.Rect(startX, startY, endX, endY), green, 2)

	status := "Monitoring..."
	statusColor := white

	if best != nil {
		c := classColor(best.Class)
		box := best.Box
		gocv.Rectangle(frame, image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H), c, 2)
		gocv.PutText(frame,
			fmt.Sprintf("%s: %.2f", best.Class, best.Confidence),
			image.Pt(box.X, box.Y-10),
			gocv.FontHersheySimplex, 0.7, c, 2)

		status = fmt.Sprintf("%s DETECTED", best.Class)
		statusColor = green
	}

	gocv.PutText(frame, status, image.Pt(10, 30), gocv.FontHersheySimplex, 1, statusColor, 2)

	o.window.IMShow(*frame)
	o.window.WaitKey(1)
}
