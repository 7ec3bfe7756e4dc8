package xrandr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"xrandream/src/geometry"
)

// Monitor is one entry from `xrandr --listmonitors`. Name has the active
// (+) and primary (*) markers stripped; Output is the backing output, or
// "none" for virtual monitors.
type Monitor struct {
	Index    int
	Name     string
	Primary  bool
	Geometry geometry.Rect
	Output   string
}

// Client is the xrandr invocation surface used by the manager. Runner is
// the real implementation; tests substitute fakes.
type Client interface {
	ListMonitors(ctx context.Context) ([]Monitor, error)
	SetMonitor(ctx context.Context, name string, r geometry.Rect) error
	DelMonitor(ctx context.Context, name string) error
}

// SetMonitorArgs builds the argument list for creating a virtual monitor:
// --setmonitor NAME W/1xH/1+X+Y none. The /1 physical dimensions are
// placeholders, matching what screen-sharing consumers expect.
func SetMonitorArgs(name string, r geometry.Rect) []string {
	return []string{
		"--setmonitor",
		name,
		fmt.Sprintf("%d/1x%d/1+%d+%d", r.Width, r.Height, r.X, r.Y),
		"none",
	}
}

// DelMonitorArgs builds the argument list for removing a virtual monitor.
func DelMonitorArgs(name string) []string {
	return []string{"--delmonitor", name}
}

// monitorLine matches one entry of `xrandr --listmonitors` output, e.g.
//
//	 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1
//	 1: XRD-left_half 960/1x1080/1+0+0  none
var monitorLine = regexp.MustCompile(`^\s*(\d+):\s+(\S+)\s+(\d+)/\d+x(\d+)/\d+\+(\d+)\+(\d+)\s*(\S*)\s*$`)

// ParseListMonitors parses `xrandr --listmonitors` output. Lines that do
// not look like monitor entries (the "Monitors: N" header) are skipped.
func ParseListMonitors(out string) ([]Monitor, error) {
	var monitors []Monitor
	for _, line := range strings.Split(out, "\n") {
		m := monitorLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("bad monitor index in %q: %w", line, err)
		}
		w, _ := strconv.Atoi(m[3])
		h, _ := strconv.Atoi(m[4])
		x, _ := strconv.Atoi(m[5])
		y, _ := strconv.Atoi(m[6])

		raw := m[2]
		monitors = append(monitors, Monitor{
			Index:    idx,
			Name:     strings.TrimLeft(raw, "+*"),
			Primary:  strings.Contains(raw, "*"),
			Geometry: geometry.Rect{X: x, Y: y, Width: w, Height: h},
			Output:   m[7],
		})
	}
	return monitors, nil
}
