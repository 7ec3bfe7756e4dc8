package xrandr

import (
	"bytes"
	"strings"
	"testing"

	"xrandream/src/geometry"
)

func TestSetMonitorArgs(t *testing.T) {
	args := SetMonitorArgs("XRD-left_half", geometry.Rect{X: 0, Y: 0, Width: 960, Height: 1080})
	want := []string{"--setmonitor", "XRD-left_half", "960/1x1080/1+0+0", "none"}
	if len(args) != len(want) {
		t.Fatalf("Expected %d args, got %d", len(want), len(args))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg[%d]: expected %q, got %q", i, want[i], args[i])
		}
	}
}

func TestSetMonitorArgsOffsets(t *testing.T) {
	args := SetMonitorArgs("XRD-select_region", geometry.Rect{X: 120, Y: 45, Width: 800, Height: 600})
	if args[2] != "800/1x600/1+120+45" {
		t.Errorf("Expected geometry 800/1x600/1+120+45, got %q", args[2])
	}
}

func TestDelMonitorArgs(t *testing.T) {
	args := DelMonitorArgs("XRD-full_screen")
	if len(args) != 2 || args[0] != "--delmonitor" || args[1] != "XRD-full_screen" {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestParseListMonitors(t *testing.T) {
	out := "Monitors: 3\n" +
		" 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1\n" +
		" 1: XRD-left_half 960/1x1080/1+0+0  none\n" +
		" 2: XRD-top_right_quarter 960/1x540/1+960+0  none\n"

	monitors, err := ParseListMonitors(out)
	if err != nil {
		t.Fatalf("ParseListMonitors: %v", err)
	}
	if len(monitors) != 3 {
		t.Fatalf("Expected 3 monitors, got %d", len(monitors))
	}

	physical := monitors[0]
	if physical.Name != "eDP-1" {
		t.Errorf("Expected markers stripped, got %q", physical.Name)
	}
	if !physical.Primary {
		t.Error("Expected eDP-1 to be primary")
	}
	if physical.Geometry != (geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}) {
		t.Errorf("Unexpected geometry: %v", physical.Geometry)
	}

	virt := monitors[2]
	if virt.Index != 2 || virt.Name != "XRD-top_right_quarter" || virt.Output != "none" {
		t.Errorf("Unexpected virtual monitor: %+v", virt)
	}
	if virt.Geometry != (geometry.Rect{X: 960, Y: 0, Width: 960, Height: 540}) {
		t.Errorf("Unexpected virtual geometry: %v", virt.Geometry)
	}
}

func TestParseListMonitorsEmpty(t *testing.T) {
	monitors, err := ParseListMonitors("Monitors: 0\n")
	if err != nil {
		t.Fatalf("ParseListMonitors: %v", err)
	}
	if len(monitors) != 0 {
		t.Errorf("Expected no monitors, got %d", len(monitors))
	}
}

func TestParseListMonitorsIgnoresGarbage(t *testing.T) {
	out := "Monitors: 1\nnot a monitor line\n 0: +HDMI-1 2560/597x1440/336+0+0  HDMI-1\n"
	monitors, err := ParseListMonitors(out)
	if err != nil {
		t.Fatalf("ParseListMonitors: %v", err)
	}
	if len(monitors) != 1 || monitors[0].Name != "HDMI-1" {
		t.Errorf("Unexpected monitors: %+v", monitors)
	}
	if monitors[0].Primary {
		t.Error("HDMI-1 marked + but not *, should not be primary")
	}
}

func TestLimitedWriterCapsOutput(t *testing.T) {
	var buf bytes.Buffer
	w := &limitedWriter{buf: &buf, limit: 10}

	n, err := w.Write([]byte(strings.Repeat("a", 8)))
	if err != nil || n != 8 {
		t.Fatalf("first write: n=%d err=%v", n, err)
	}
	n, err = w.Write([]byte(strings.Repeat("b", 8)))
	if err != nil || n != 8 {
		t.Fatalf("second write: n=%d err=%v", n, err)
	}
	if buf.Len() != 10 {
		t.Errorf("Expected 10 bytes retained, got %d", buf.Len())
	}
}
