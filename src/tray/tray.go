package tray

import (
	"log"
	"strings"
	"sync"

	"github.com/getlantern/systray"

	"xrandream/src/geometry"
	"xrandream/src/popup"
)

// Callbacks connect menu clicks to the event loop. All callbacks run on
// tray goroutines and must only post messages, never mutate state.
type Callbacks struct {
	OnToggle       func(area string)
	OnSelectRegion func()
	OnClear        func()
	OnQuit         func()
}

var (
	mu         sync.Mutex
	ready      bool
	tooltip    = "XranDream"
	aboutExtra string
	areaItems  map[string]*systray.MenuItem
)

// Run starts the systray and blocks until Quit. Must be called from the
// main goroutine on platforms that require it.
func Run(cb Callbacks) {
	systray.Run(func() { onReady(cb) }, onExit)
}

// Quit stops the systray loop.
func Quit() {
	systray.Quit()
}

func onReady(cb Callbacks) {
	systray.SetIcon(getIcon())
	systray.SetTitle("XranDream")

	mu.Lock()
	systray.SetTooltip(tooltip)
	areaItems = make(map[string]*systray.MenuItem)
	mu.Unlock()

	for _, area := range geometry.Presets() {
		item := systray.AddMenuItemCheckbox(areaLabel(area), "Share this part of the screen", false)
		mu.Lock()
		areaItems[area] = item
		mu.Unlock()
		go func(area string, item *systray.MenuItem) {
			for range item.ClickedCh {
				if cb.OnToggle != nil {
					cb.OnToggle(area)
				}
			}
		}(area, item)
	}

	systray.AddSeparator()
	mSelect := systray.AddMenuItem("Select region...", "Share a dragged rectangle")
	mClear := systray.AddMenuItem("Clear all", "Remove all virtual monitors")
	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About XranDream")
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	mu.Lock()
	ready = true
	mu.Unlock()

	go func() {
		for {
			select {
			case <-mSelect.ClickedCh:
				if cb.OnSelectRegion != nil {
					cb.OnSelectRegion()
				}
			case <-mClear.ClickedCh:
				if cb.OnClear != nil {
					cb.OnClear()
				}
			case <-mAbout.ClickedCh:
				showAbout()
			case <-mQuit.ClickedCh:
				if cb.OnQuit != nil {
					cb.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	mu.Lock()
	ready = false
	mu.Unlock()
	log.Printf("tray: exited")
}

// UpdateTooltip changes the tray tooltip, e.g. to show busy state.
func UpdateTooltip(tt string) {
	mu.Lock()
	tooltip = tt
	ok := ready
	mu.Unlock()
	if ok {
		systray.SetTooltip(tt)
	}
}

// SetAboutExtra appends a line to the About text, e.g. the resident port.
func SetAboutExtra(extra string) {
	mu.Lock()
	aboutExtra = extra
	mu.Unlock()
}

// SetChecked syncs an area checkmark with manager state. Safe to call
// from any goroutine; unknown areas (select_region has no menu item) are
// ignored.
func SetChecked(area string, on bool) {
	mu.Lock()
	item, ok := areaItems[area]
	mu.Unlock()
	if !ok {
		return
	}
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func showAbout() {
	mu.Lock()
	extra := aboutExtra
	mu.Unlock()
	body := "Virtual monitors for sharing parts of the screen."
	if extra != "" {
		body += "\n" + extra
	}
	popup.Info("XranDream", body)
}

// areaLabel renders "bottom_left_sixth" as "Bottom left sixth".
func areaLabel(area string) string {
	label := strings.ReplaceAll(area, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
