package geometry

// Preset names an area of the screen that can be shared as a virtual
// monitor. AreaSelectRegion is the pseudo-area backed by an interactive
// selection instead of a fixed division.
const (
	AreaSelectRegion = "select_region"

	PresetFullScreen = "full_screen"

	PresetLeftHalf  = "left_half"
	PresetRightHalf = "right_half"

	PresetLeftThird   = "left_third"
	PresetCenterThird = "center_third"
	PresetRightThird  = "right_third"

	PresetTopLeftQuarter     = "top_left_quarter"
	PresetTopRightQuarter    = "top_right_quarter"
	PresetBottomLeftQuarter  = "bottom_left_quarter"
	PresetBottomRightQuarter = "bottom_right_quarter"

	PresetTopLeftSixth      = "top_left_sixth"
	PresetTopCenterSixth    = "top_center_sixth"
	PresetTopRightSixth     = "top_right_sixth"
	PresetBottomLeftSixth   = "bottom_left_sixth"
	PresetBottomCenterSixth = "bottom_center_sixth"
	PresetBottomRightSixth  = "bottom_right_sixth"
)

// presetCell maps a preset to its grid division and cell position.
type presetCell struct {
	parts int
	row   int
	col   int
}

var presetCells = map[string]presetCell{
	PresetLeftHalf:  {parts: 2, row: 0, col: 0},
	PresetRightHalf: {parts: 2, row: 0, col: 1},

	PresetLeftThird:   {parts: 3, row: 0, col: 0},
	PresetCenterThird: {parts: 3, row: 0, col: 1},
	PresetRightThird:  {parts: 3, row: 0, col: 2},

	PresetTopLeftQuarter:     {parts: 4, row: 0, col: 0},
	PresetTopRightQuarter:    {parts: 4, row: 0, col: 1},
	PresetBottomLeftQuarter:  {parts: 4, row: 1, col: 0},
	PresetBottomRightQuarter: {parts: 4, row: 1, col: 1},

	PresetTopLeftSixth:      {parts: 6, row: 0, col: 0},
	PresetTopCenterSixth:    {parts: 6, row: 0, col: 1},
	PresetTopRightSixth:     {parts: 6, row: 0, col: 2},
	PresetBottomLeftSixth:   {parts: 6, row: 1, col: 0},
	PresetBottomCenterSixth: {parts: 6, row: 1, col: 1},
	PresetBottomRightSixth:  {parts: 6, row: 1, col: 2},
}

// presetOrder is the display order used by the tray menu, the control
// window and status listings. It follows the original button layout.
var presetOrder = []string{
	PresetFullScreen,
	PresetLeftHalf,
	PresetRightHalf,
	PresetLeftThird,
	PresetCenterThird,
	PresetRightThird,
	PresetTopLeftQuarter,
	PresetTopRightQuarter,
	PresetBottomLeftQuarter,
	PresetBottomRightQuarter,
	PresetTopLeftSixth,
	PresetTopCenterSixth,
	PresetTopRightSixth,
	PresetBottomLeftSixth,
	PresetBottomCenterSixth,
	PresetBottomRightSixth,
}

// Presets returns all fixed preset names in display order.
func Presets() []string {
	out := make([]string, len(presetOrder))
	copy(out, presetOrder)
	return out
}

// IsPreset reports whether name is a fixed preset.
func IsPreset(name string) bool {
	if name == PresetFullScreen {
		return true
	}
	_, ok := presetCells[name]
	return ok
}

// IsArea reports whether name is any shareable area, including the
// interactive select_region pseudo-area.
func IsArea(name string) bool {
	return name == AreaSelectRegion || IsPreset(name)
}

// PresetRegion resolves a preset name to its rectangle on the given
// screen. ok is false for unknown names and for select_region, which has
// no fixed geometry.
func PresetRegion(name string, screen Rect) (Rect, bool) {
	if name == PresetFullScreen {
		return screen, true
	}
	cell, ok := presetCells[name]
	if !ok {
		return Rect{}, false
	}
	return Grid(screen, cell.parts)[cell.row][cell.col], true
}
