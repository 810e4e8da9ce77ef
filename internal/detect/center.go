package detect

// CenterGate decides whether a detection is aimed at the camera rather
// than merely visible to it. The gate is a rectangle-containment test
// against a centered region sized as a fraction of the frame.
type CenterGate struct {
	// Threshold is the fraction (0,1] of frame width and height that
	// forms the center region.
	Threshold float64
}

// Region returns the center region bounds for a frame as
// (startX, startY, endX, endY). Bounds are integer-truncated, so the
// region may be off-center by at most one pixel; this matches the
// pixel-grid arithmetic used everywhere else and must not be "fixed".
func (g CenterGate) Region(frameW, frameH int) (int, int, int, int) {
	regionW := int(float64(frameW) * g.Threshold)
	regionH := int(float64(frameH) * g.Threshold)

	startX := frameW/2 - regionW/2
	endX := frameW/2 + regionW/2
	startY := frameH/2 - regionH/2
	endY := frameH/2 + regionH/2

	return startX, startY, endX, endY
}

// Contains reports whether the box center falls inside the center
// region. Both axes are closed intervals and tested independently.
func (g CenterGate) Contains(frameW, frameH int, box Box) bool {
	cx, cy := box.Center()
	startX, startY, endX, endY := g.Region(frameW, frameH)

	inX := startX <= cx && cx <= endX
	inY := startY <= cy && cy <= endY

	return inX && inY
}

// ContainsDetection is the fail-closed form: a nil detection is never
// centered.
func (g CenterGate) ContainsDetection(frameW, frameH int, d *Detection) bool {
	if d == nil {
		return false
	}
	return g.Contains(frameW, frameH, d.Box)
}
