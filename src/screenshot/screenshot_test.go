package screenshot

import (
	"testing"

	"xrandream/src/geometry"
)

func TestCaptureRegionRejectsEmpty(t *testing.T) {
	if _, err := CaptureRegion(geometry.Rect{X: 10, Y: 10}); err == nil {
		t.Error("Expected error for empty region")
	}
	if _, err := CaptureRegion(geometry.Rect{Width: -1, Height: 100}); err == nil {
		t.Error("Expected error for negative width")
	}
}
