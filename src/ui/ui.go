package ui

// Optional control window. The tray is the primary surface; this window
// mirrors it with a checkbox per preset for desktops without a usable
// tray. All widget updates go through fyne.Do since manager events
// arrive from the event-loop goroutine.

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"xrandream/src/geometry"
)

// Callbacks connect window interactions to the event loop, mirroring the
// tray callbacks.
type Callbacks struct {
	OnToggle       func(area string)
	OnSelectRegion func()
	OnClear        func()
	OnQuit         func()
}

type Window struct {
	app    fyne.App
	win    fyne.Window
	checks map[string]*widget.Check

	// syncing suppresses check callbacks while state is being mirrored
	// from the manager. Only touched on the fyne goroutine.
	syncing bool
}

func New(cb Callbacks) *Window {
	a := app.New()
	w := &Window{
		app:    a,
		win:    a.NewWindow("XranDream"),
		checks: make(map[string]*widget.Check),
	}

	var rows []fyne.CanvasObject
	for _, area := range geometry.Presets() {
		area := area
		check := widget.NewCheck(areaLabel(area), func(bool) {
			if w.syncing {
				return
			}
			if cb.OnToggle != nil {
				cb.OnToggle(area)
			}
		})
		w.checks[area] = check
		rows = append(rows, check)
	}

	selectBtn := widget.NewButton("Select region...", func() {
		if cb.OnSelectRegion != nil {
			cb.OnSelectRegion()
		}
	})
	clearBtn := widget.NewButton("Clear all", func() {
		if cb.OnClear != nil {
			cb.OnClear()
		}
	})

	content := container.NewVBox(
		widget.NewLabel("Shared areas"),
		container.NewGridWithColumns(2, rows...),
		container.NewGridWithColumns(2, selectBtn, clearBtn),
	)
	w.win.SetContent(content)
	w.win.SetCloseIntercept(func() {
		if cb.OnQuit != nil {
			cb.OnQuit()
		}
		w.app.Quit()
	})
	return w
}

// ShowAndRun displays the window and runs the fyne main loop. Blocks
// until quit; must run on the main goroutine.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

// Quit stops the fyne main loop.
func (w *Window) Quit() {
	fyne.Do(func() {
		w.app.Quit()
	})
}

// SetChecked mirrors manager state into a checkbox without re-triggering
// the toggle callback. Safe to call from any goroutine.
func (w *Window) SetChecked(area string, on bool) {
	check, ok := w.checks[area]
	if !ok {
		// select_region has no checkbox
		return
	}
	fyne.Do(func() {
		w.syncing = true
		check.SetChecked(on)
		w.syncing = false
	})
}

// areaLabel renders "bottom_left_sixth" as "Bottom left sixth".
func areaLabel(area string) string {
	if area == "" {
		return area
	}
	label := make([]byte, len(area))
	copy(label, area)
	for i := range label {
		if label[i] == '_' {
			label[i] = ' '
		}
	}
	if label[0] >= 'a' && label[0] <= 'z' {
		label[0] -= 'a' - 'A'
	}
	return string(label)
}
