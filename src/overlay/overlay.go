package overlay

import "xrandream/src/geometry"

// Outline is a visible border around an actively shared region. One
// outline exists per enabled area and is destroyed when the area is
// disabled.
type Outline interface {
	// Move reshapes the outline to a new region.
	Move(r geometry.Rect) error
	// Destroy removes the outline from the screen.
	Destroy()
}

// Factory creates outlines. The manager takes a Factory so headless runs
// and tests can skip drawing entirely.
type Factory func(r geometry.Rect) (Outline, error)

// Disabled is a Factory that draws nothing.
func Disabled(r geometry.Rect) (Outline, error) { return noopOutline{}, nil }

type noopOutline struct{}

func (noopOutline) Move(geometry.Rect) error { return nil }
func (noopOutline) Destroy()                 {}
