package vdisplay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"xrandream/src/geometry"
	"xrandream/src/overlay"
	"xrandream/src/xrandr"
)

var (
	ErrAlreadyEnabled = errors.New("area already enabled")
	ErrNotEnabled     = errors.New("area not enabled")
	ErrUnknownArea    = errors.New("unknown area")
)

// Status is one enabled area and its current region.
type Status struct {
	Area   string
	Region geometry.Rect
}

// Listener observes state changes, e.g. to sync tray checkmarks or the
// control window. Called with the manager lock released.
type Listener func(area string, enabled bool, region geometry.Rect)

// Manager owns the set of virtual monitors this process manages. Monitor
// names are always prefix+area so foreign monitors are never touched and
// our own can be re-adopted after a restart.
type Manager struct {
	xr       xrandr.Client
	prefix   string
	outlines overlay.Factory

	mu       sync.Mutex
	screen   geometry.Rect
	active   map[string]geometry.Rect
	drawn    map[string]overlay.Outline
	listener Listener
}

func New(xr xrandr.Client, prefix string, screen geometry.Rect, outlines overlay.Factory) *Manager {
	if outlines == nil {
		outlines = overlay.Disabled
	}
	return &Manager{
		xr:       xr,
		prefix:   prefix,
		outlines: outlines,
		screen:   screen,
		active:   make(map[string]geometry.Rect),
		drawn:    make(map[string]overlay.Outline),
	}
}

// SetListener registers the state-change observer. Pass nil to remove.
func (m *Manager) SetListener(l Listener) {
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()
}

func (m *Manager) Screen() geometry.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// MonitorName returns the xrandr monitor name for an area.
func (m *Manager) MonitorName(area string) string {
	return m.prefix + area
}

// Enable creates the virtual monitor for a fixed preset.
func (m *Manager) Enable(ctx context.Context, area string) (geometry.Rect, error) {
	if !geometry.IsPreset(area) {
		return geometry.Rect{}, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	region, _ := geometry.PresetRegion(area, m.Screen())
	return region, m.enable(ctx, area, region)
}

// EnableRegion creates the virtual monitor for an interactively selected
// region.
func (m *Manager) EnableRegion(ctx context.Context, region geometry.Rect) error {
	region = region.Clamp(m.Screen())
	if err := geometry.Validate(region, m.Screen()); err != nil {
		return err
	}
	return m.enable(ctx, geometry.AreaSelectRegion, region)
}

func (m *Manager) enable(ctx context.Context, area string, region geometry.Rect) error {
	m.mu.Lock()
	if _, on := m.active[area]; on {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyEnabled, area)
	}
	m.mu.Unlock()

	if err := m.xr.SetMonitor(ctx, m.MonitorName(area), region); err != nil {
		return fmt.Errorf("enable %s: %w", area, err)
	}

	m.mu.Lock()
	m.active[area] = region
	m.drawOutlineLocked(area, region)
	l := m.listener
	m.mu.Unlock()

	log.Printf("vdisplay: enabled %s at %s", area, region)
	if l != nil {
		l(area, true, region)
	}
	return nil
}

// Disable removes the virtual monitor for an area. A failing --delmonitor
// (monitor already gone) is tolerated: local state is cleared either way.
func (m *Manager) Disable(ctx context.Context, area string) error {
	if !geometry.IsArea(area) {
		return fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}

	m.mu.Lock()
	_, on := m.active[area]
	m.mu.Unlock()
	if !on {
		return fmt.Errorf("%w: %s", ErrNotEnabled, area)
	}

	if err := m.xr.DelMonitor(ctx, m.MonitorName(area)); err != nil {
		log.Printf("vdisplay: delmonitor %s failed (continuing): %v", area, err)
	}

	m.mu.Lock()
	delete(m.active, area)
	m.destroyOutlineLocked(area)
	l := m.listener
	m.mu.Unlock()

	log.Printf("vdisplay: disabled %s", area)
	if l != nil {
		l(area, false, geometry.Rect{})
	}
	return nil
}

// Toggle flips a preset area and reports the resulting state.
// select_region cannot be toggled on here since it has no fixed geometry;
// callers run the interactive flow and use EnableRegion instead.
func (m *Manager) Toggle(ctx context.Context, area string) (bool, geometry.Rect, error) {
	if m.Active(area) {
		return false, geometry.Rect{}, m.Disable(ctx, area)
	}
	if area == geometry.AreaSelectRegion {
		return false, geometry.Rect{}, fmt.Errorf("select_region requires interactive selection")
	}
	region, err := m.Enable(ctx, area)
	return err == nil, region, err
}

// Active reports whether an area is currently enabled.
func (m *Manager) Active(area string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, on := m.active[area]
	return on
}

// Snapshot lists enabled areas in display order.
func (m *Manager) Snapshot() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Status
	for _, area := range geometry.Presets() {
		if r, on := m.active[area]; on {
			out = append(out, Status{Area: area, Region: r})
		}
	}
	if r, on := m.active[geometry.AreaSelectRegion]; on {
		out = append(out, Status{Area: geometry.AreaSelectRegion, Region: r})
	}
	return out
}

// Adopt re-attaches to virtual monitors left behind by a previous run:
// any monitor named prefix+knownArea becomes active with an outline.
// Returns the number of adopted areas.
func (m *Manager) Adopt(ctx context.Context) (int, error) {
	monitors, err := m.xr.ListMonitors(ctx)
	if err != nil {
		return 0, fmt.Errorf("adopt: %w", err)
	}

	adopted := 0
	for _, mon := range monitors {
		if !strings.HasPrefix(mon.Name, m.prefix) {
			continue
		}
		area := strings.TrimPrefix(mon.Name, m.prefix)
		if !geometry.IsArea(area) {
			log.Printf("vdisplay: ignoring foreign-looking monitor %s", mon.Name)
			continue
		}

		m.mu.Lock()
		if _, on := m.active[area]; on {
			m.mu.Unlock()
			continue
		}
		m.active[area] = mon.Geometry
		m.drawOutlineLocked(area, mon.Geometry)
		l := m.listener
		m.mu.Unlock()

		adopted++
		log.Printf("vdisplay: adopted %s at %s", area, mon.Geometry)
		if l != nil {
			l(area, true, mon.Geometry)
		}
	}
	return adopted, nil
}

// Clear disables every active area. Returns the number removed and the
// first error encountered.
func (m *Manager) Clear(ctx context.Context) (int, error) {
	var firstErr error
	removed := 0
	for _, st := range m.Snapshot() {
		if err := m.Disable(ctx, st.Area); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

// Reapply recomputes regions for the new screen bounds and recreates the
// virtual monitors, keeping shared areas proportional after a resolution
// change. The interactive region is clamped; it is disabled if nothing of
// it remains on screen.
func (m *Manager) Reapply(ctx context.Context, screen geometry.Rect) error {
	m.mu.Lock()
	m.screen = screen
	areas := make(map[string]geometry.Rect, len(m.active))
	for a, r := range m.active {
		areas[a] = r
	}
	m.mu.Unlock()

	var firstErr error
	for area, old := range areas {
		region := old
		if area == geometry.AreaSelectRegion {
			region = old.Clamp(screen)
		} else if r, ok := geometry.PresetRegion(area, screen); ok {
			region = r
		}

		if err := m.Disable(ctx, area); err != nil {
			log.Printf("vdisplay: reapply disable %s: %v", area, err)
		}
		if region.Empty() {
			log.Printf("vdisplay: %s no longer fits the screen, leaving disabled", area)
			continue
		}

		var err error
		if area == geometry.AreaSelectRegion {
			err = m.EnableRegion(ctx, region)
		} else {
			_, err = m.Enable(ctx, area)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) drawOutlineLocked(area string, region geometry.Rect) {
	o, err := m.outlines(region)
	if err != nil {
		log.Printf("vdisplay: outline for %s unavailable: %v", area, err)
		return
	}
	m.drawn[area] = o
}

func (m *Manager) destroyOutlineLocked(area string) {
	if o, ok := m.drawn[area]; ok {
		o.Destroy()
		delete(m.drawn, area)
	}
}
