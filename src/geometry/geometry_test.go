package geometry

import "testing"

func TestGridHalves(t *testing.T) {
	screen := Rect{Width: 1920, Height: 1080}
	grid := Grid(screen, 2)
	if len(grid) != 1 || len(grid[0]) != 2 {
		t.Fatalf("Expected 1x2 grid, got %dx%d", len(grid), len(grid[0]))
	}
	want := []Rect{
		{X: 0, Y: 0, Width: 960, Height: 1080},
		{X: 960, Y: 0, Width: 960, Height: 1080},
	}
	for i, w := range want {
		if grid[0][i] != w {
			t.Errorf("half %d: expected %v, got %v", i, w, grid[0][i])
		}
	}
}

func TestGridSixths(t *testing.T) {
	screen := Rect{Width: 1920, Height: 1080}
	grid := Grid(screen, 6)
	if len(grid) != 2 || len(grid[1]) != 3 {
		t.Fatalf("Expected 2x3 grid, got %d rows", len(grid))
	}
	if got := grid[1][2]; got != (Rect{X: 1280, Y: 540, Width: 640, Height: 540}) {
		t.Errorf("bottom right sixth: got %v", got)
	}
}

func TestGridOddWidthClampsLastColumn(t *testing.T) {
	screen := Rect{Width: 1366, Height: 768}
	grid := Grid(screen, 3)
	// ceil(1366/3) = 456, so the last cell would end at 1368 without clamping.
	last := grid[0][2]
	if last.X+last.Width != 1366 {
		t.Errorf("Expected last third to end at 1366, got %d", last.X+last.Width)
	}
	if last.Width != 454 {
		t.Errorf("Expected clamped width 454, got %d", last.Width)
	}
}

func TestGridOffsetScreen(t *testing.T) {
	screen := Rect{X: 100, Y: 50, Width: 800, Height: 600}
	grid := Grid(screen, 4)
	if got := grid[1][1]; got != (Rect{X: 500, Y: 350, Width: 400, Height: 300}) {
		t.Errorf("bottom right quarter on offset screen: got %v", got)
	}
}

func TestPresetRegion(t *testing.T) {
	screen := Rect{Width: 1920, Height: 1080}
	tests := []struct {
		name string
		want Rect
	}{
		{PresetFullScreen, screen},
		{PresetLeftHalf, Rect{X: 0, Y: 0, Width: 960, Height: 1080}},
		{PresetCenterThird, Rect{X: 640, Y: 0, Width: 640, Height: 1080}},
		{PresetBottomLeftQuarter, Rect{X: 0, Y: 540, Width: 960, Height: 540}},
		{PresetTopRightSixth, Rect{X: 1280, Y: 0, Width: 640, Height: 540}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PresetRegion(tt.name, screen)
			if !ok {
				t.Fatalf("PresetRegion(%q) not ok", tt.name)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPresetRegionUnknown(t *testing.T) {
	if _, ok := PresetRegion("diagonal_half", Rect{Width: 100, Height: 100}); ok {
		t.Error("Expected not ok for unknown preset")
	}
	if _, ok := PresetRegion(AreaSelectRegion, Rect{Width: 100, Height: 100}); ok {
		t.Error("select_region has no fixed geometry")
	}
}

func TestIsArea(t *testing.T) {
	if !IsArea(AreaSelectRegion) {
		t.Error("select_region should be an area")
	}
	if !IsArea(PresetBottomCenterSixth) {
		t.Error("bottom_center_sixth should be an area")
	}
	if IsArea("PYR-left_half") {
		t.Error("prefixed name is not an area")
	}
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Point{X: 300, Y: 400}, Point{X: 100, Y: 150})
	if r != (Rect{X: 100, Y: 150, Width: 200, Height: 250}) {
		t.Errorf("Expected normalized rect, got %v", r)
	}
}

func TestValidate(t *testing.T) {
	screen := Rect{Width: 1920, Height: 1080}
	if err := Validate(Rect{X: 10, Y: 10, Width: 100, Height: 100}, screen); err != nil {
		t.Errorf("Expected valid region, got %v", err)
	}
	if err := Validate(Rect{X: 10, Y: 10}, screen); err == nil {
		t.Error("Expected error for empty region")
	}
	if err := Validate(Rect{X: 1900, Y: 0, Width: 100, Height: 100}, screen); err == nil {
		t.Error("Expected error for region past the right edge")
	}
	if err := Validate(Rect{X: -5, Y: 0, Width: 100, Height: 100}, screen); err == nil {
		t.Error("Expected error for negative origin")
	}
}
