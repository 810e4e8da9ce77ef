package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Color heuristic tuning. Squirrels read as brown/reddish-brown in HSV.
const (
	// Contour area bounds as fractions of the frame area.
	minAreaRatio = 0.01
	maxAreaRatio = 0.5

	// Plausible squirrel aspect ratios (width/height).
	minAspect = 0.5
	maxAspect = 2.5
)

// ColorDetector finds squirrels with an HSV color mask and contour
// analysis. It is the model-free fallback: single class, no artifacts
// to load, deterministic.
type ColorDetector struct {
	kernel gocv.Mat
}

// NewColorDetector creates a color-heuristic squirrel detector.
func NewColorDetector() *ColorDetector {
	return &ColorDetector{
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(5, 5)),
	}
}

// Detect returns at most one squirrel detection for the frame.
//
// Pipeline: HSV convert, mask brown/reddish hue bands, close+open to
// denoise, take the largest external contour, filter by area and aspect
// ratio, score by area with a boost for squirrel-like proportions.
func (d *ColorDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	// Two hue bands cover brown through reddish-brown.
	mask1 := gocv.NewMat()
	defer mask1.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(10, 50, 50, 0),
		gocv.NewScalar(20, 255, 255, 0),
		&mask1)

	mask2 := gocv.NewMat()
	defer mask2.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(0, 50, 50, 0),
		gocv.NewScalar(10, 255, 255, 0),
		&mask2)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.BitwiseOr(mask1, mask2, &mask)

	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, d.kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, d.kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil, nil
	}

	// Largest contour is the candidate.
	largestIdx := 0
	largestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largestArea = area
			largestIdx = i
		}
	}

	frameArea := float64(frame.Rows() * frame.Cols())
	if largestArea < frameArea*minAreaRatio || largestArea > frameArea*maxAreaRatio {
		return nil, nil
	}

	rect := gocv.BoundingRect(contours.At(largestIdx))
	box := Box{X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy()}

	aspect := 0.0
	if box.H > 0 {
		aspect = float64(box.W) / float64(box.H)
	}
	if aspect < minAspect || aspect > maxAspect {
		return nil, nil
	}

	confidence := largestArea / frameArea * 10
	if confidence > 1.0 {
		confidence = 1.0
	}
	// Squirrel-like proportions score higher.
	if aspect >= 0.8 && aspect <= 1.5 {
		confidence *= 1.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return []Detection{{
		Class:      ClassSquirrel,
		Box:        box,
		Confidence: confidence,
	}}, nil
}

// Close releases the morphology kernel.
func (d *ColorDetector) Close() error {
	return d.kernel.Close()
}
