package geometry

import "fmt"

// Rect is a screen rectangle in pixels, origin at the top-left of the
// primary display.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

type Point struct {
	X int
	Y int
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether r lies fully inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.Width <= outer.X+outer.Width &&
		r.Y+r.Height <= outer.Y+outer.Height
}

// Clamp trims r so it fits inside outer. An empty result means there was
// no overlap.
func (r Rect) Clamp(outer Rect) Rect {
	if r.X < outer.X {
		r.Width -= outer.X - r.X
		r.X = outer.X
	}
	if r.Y < outer.Y {
		r.Height -= outer.Y - r.Y
		r.Y = outer.Y
	}
	if r.X+r.Width > outer.X+outer.Width {
		r.Width = outer.X + outer.Width - r.X
	}
	if r.Y+r.Height > outer.Y+outer.Height {
		r.Height = outer.Y + outer.Height - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// RectFromPoints builds a normalized rectangle from two corners, in any
// drag direction.
func RectFromPoints(a, b Point) Rect {
	x1, x2 := a.X, b.X
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, y2 := a.Y, b.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Validate checks that a region is usable as a virtual monitor: non-empty
// and fully inside the screen.
func Validate(r, screen Rect) error {
	if r.Empty() {
		return fmt.Errorf("region %s is empty", r)
	}
	if !r.Within(screen) {
		return fmt.Errorf("region %s exceeds screen bounds %s", r, screen)
	}
	return nil
}

// Grid divides the screen into parts cells. Divisions with more than three
// parts are laid out on two rows; the returned slice is indexed [row][col].
// Cell sizes round up so the grid covers the whole screen, and each cell is
// clamped to the screen so the right/bottom edges never spill past it.
func Grid(screen Rect, parts int) [][]Rect {
	rows := 1
	if parts > 3 {
		rows = 2
	}
	cols := parts / rows

	cellW := ceilDiv(screen.Width*rows, parts)
	cellH := ceilDiv(screen.Height, rows)

	grid := make([][]Rect, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]Rect, cols)
		for c := 0; c < cols; c++ {
			cell := Rect{
				X:      screen.X + cellW*c,
				Y:      screen.Y + cellH*r,
				Width:  cellW,
				Height: cellH,
			}
			grid[r][c] = cell.Clamp(screen)
		}
	}
	return grid
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
