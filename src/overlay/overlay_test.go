package overlay

import (
	"testing"

	"xrandream/src/geometry"
)

func TestStripsCoverBorder(t *testing.T) {
	r := geometry.Rect{X: 100, Y: 50, Width: 400, Height: 300}
	s := strips(r)

	top, bottom, left, right := s[0], s[1], s[2], s[3]
	if top != (geometry.Rect{X: 100, Y: 50, Width: 400, Height: borderWidth}) {
		t.Errorf("top strip: %v", top)
	}
	if bottom.Y+bottom.Height != r.Y+r.Height {
		t.Errorf("bottom strip should end at region bottom, got %v", bottom)
	}
	if left.X != r.X || right.X+right.Width != r.X+r.Width {
		t.Errorf("side strips misplaced: left=%v right=%v", left, right)
	}
	if left.Height != r.Height-2*borderWidth {
		t.Errorf("side strips should not overlap top/bottom, got height %d", left.Height)
	}
}

func TestStripsDegenerateRegion(t *testing.T) {
	for _, s := range strips(geometry.Rect{X: 10, Y: 10}) {
		if s.Width <= 0 || s.Height <= 0 {
			t.Errorf("strip must never be zero-sized: %v", s)
		}
	}
}

func TestDisabledFactory(t *testing.T) {
	o, err := Disabled(geometry.Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Disabled factory: %v", err)
	}
	if err := o.Move(geometry.Rect{Width: 20, Height: 20}); err != nil {
		t.Errorf("noop Move: %v", err)
	}
	o.Destroy()
}
