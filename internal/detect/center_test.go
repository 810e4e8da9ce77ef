package detect

import "testing"

func TestCenterGate_Contains(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		frameW    int
		frameH    int
		box       Box
		want      bool
	}{
		{
			// bbox center (320,240) equals the frame center
			name:      "exactly centered box",
			threshold: 0.5,
			frameW:    640,
			frameH:    480,
			box:       Box{X: 270, Y: 190, W: 100, H: 100},
			want:      true,
		},
		{
			// center (35,35) is far outside x in [224,416], y in [168,312]
			name:      "corner box outside region",
			threshold: 0.3,
			frameW:    640,
			frameH:    480,
			box:       Box{X: 10, Y: 10, W: 50, H: 50},
			want:      false,
		},
		{
			name:      "in x but not in y",
			threshold: 0.3,
			frameW:    640,
			frameH:    480,
			box:       Box{X: 310, Y: 10, W: 20, H: 20},
			want:      false,
		},
		{
			name:      "in y but not in x",
			threshold: 0.3,
			frameW:    640,
			frameH:    480,
			box:       Box{X: 10, Y: 230, W: 20, H: 20},
			want:      false,
		},
		{
			name:      "full-frame region accepts everything visible",
			threshold: 1.0,
			frameW:    640,
			frameH:    480,
			box:       Box{X: 0, Y: 0, W: 10, H: 10},
			want:      true,
		},
		{
			name:      "fully outside region",
			threshold: 0.2,
			frameW:    1920,
			frameH:    1080,
			box:       Box{X: 1800, Y: 1000, W: 50, H: 50},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := CenterGate{Threshold: tt.threshold}
			if got := gate.Contains(tt.frameW, tt.frameH, tt.box); got != tt.want {
				t.Errorf("Contains(%dx%d, %+v) = %v, want %v", tt.frameW, tt.frameH, tt.box, got, tt.want)
			}
		})
	}
}

func TestCenterGate_Region(t *testing.T) {
	gate := CenterGate{Threshold: 0.3}

	startX, startY, endX, endY := gate.Region(640, 480)

	// 640*0.3 = 192, so x spans 320-96 .. 320+96
	if startX != 224 || endX != 416 {
		t.Errorf("x bounds = [%d, %d], want [224, 416]", startX, endX)
	}
	// 480*0.3 = 144, so y spans 240-72 .. 240+72
	if startY != 168 || endY != 312 {
		t.Errorf("y bounds = [%d, %d], want [168, 312]", startY, endY)
	}
}

func TestCenterGate_RegionTruncation(t *testing.T) {
	// Odd region sizes truncate; bounds may be asymmetric by one pixel
	// and must stay that way for bit-compatible behavior.
	gate := CenterGate{Threshold: 0.5}

	startX, _, endX, _ := gate.Region(101, 101)

	// 101*0.5 = 50.5 -> 50; 50/2 = 25; center 50 -> [25, 75]
	if startX != 25 || endX != 75 {
		t.Errorf("x bounds = [%d, %d], want [25, 75]", startX, endX)
	}
}

func TestCenterGate_ClosedIntervals(t *testing.T) {
	gate := CenterGate{Threshold: 0.3}

	// Region x in [224, 416]. A box whose center lands exactly on each
	// edge is inside; one pixel past is outside.
	edges := []struct {
		name string
		box  Box
		want bool
	}{
		{"center on left edge", Box{X: 214, Y: 230, W: 20, H: 20}, true},   // center x = 224
		{"center on right edge", Box{X: 406, Y: 230, W: 20, H: 20}, true},  // center x = 416
		{"one past left edge", Box{X: 213, Y: 230, W: 20, H: 20}, false},   // center x = 223
		{"one past right edge", Box{X: 407, Y: 230, W: 20, H: 20}, false},  // center x = 417
		{"center on top edge", Box{X: 310, Y: 158, W: 20, H: 20}, true},    // center y = 168
		{"center on bottom edge", Box{X: 310, Y: 302, W: 20, H: 20}, true}, // center y = 312
	}

	for _, tt := range edges {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Contains(640, 480, tt.box); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

func TestCenterGate_ContainsDetection_NilFailsClosed(t *testing.T) {
	gate := CenterGate{Threshold: 0.5}

	if gate.ContainsDetection(640, 480, nil) {
		t.Error("nil detection should never be centered")
	}

	d := &Detection{Class: ClassSquirrel, Box: Box{X: 270, Y: 190, W: 100, H: 100}}
	if !gate.ContainsDetection(640, 480, d) {
		t.Error("centered detection should pass the gate")
	}
}
