package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONITOR_PREFIX", "")
	t.Setenv("HOTKEY", "")
	t.Setenv("APPLY_DEADLINE_SEC", "")
	t.Setenv("OUTLINES", "")
	t.Setenv("ENABLE_FILE_LOGGING", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MonitorPrefix != "XRD-" {
		t.Errorf("unexpected prefix %q", cfg.MonitorPrefix)
	}
	if cfg.Hotkey != "Ctrl+Alt+S" {
		t.Errorf("unexpected hotkey %q", cfg.Hotkey)
	}
	if cfg.ApplyDeadlineSec != 10 {
		t.Errorf("unexpected deadline %d", cfg.ApplyDeadlineSec)
	}
	if !cfg.Outlines {
		t.Error("outlines should default on")
	}
	if cfg.EnableFileLogging {
		t.Error("file logging should default off")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MONITOR_PREFIX", "VIRT-")
	t.Setenv("HOTKEY", "Super+Shift+R")
	t.Setenv("APPLY_DEADLINE_SEC", "30")
	t.Setenv("OUTLINES", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MonitorPrefix != "VIRT-" {
		t.Errorf("unexpected prefix %q", cfg.MonitorPrefix)
	}
	if cfg.Hotkey != "Super+Shift+R" {
		t.Errorf("unexpected hotkey %q", cfg.Hotkey)
	}
	if cfg.ApplyDeadlineSec != 30 {
		t.Errorf("unexpected deadline %d", cfg.ApplyDeadlineSec)
	}
	if cfg.Outlines {
		t.Error("outlines should be off")
	}
}

func TestLoadOptionOverridesBeatEnv(t *testing.T) {
	t.Setenv("MONITOR_PREFIX", "VIRT-")
	t.Setenv("HOTKEY", "Super+Shift+R")

	cfg, err := LoadWithOptions(LoadOptions{
		MonitorPrefixOverride: "SHARE-",
		HotkeyOverride:        "Ctrl+F9",
	})
	if err != nil {
		t.Fatalf("LoadWithOptions: %v", err)
	}
	if cfg.MonitorPrefix != "SHARE-" {
		t.Errorf("unexpected prefix %q", cfg.MonitorPrefix)
	}
	if cfg.Hotkey != "Ctrl+F9" {
		t.Errorf("unexpected hotkey %q", cfg.Hotkey)
	}
}

func TestLoadBadDeadlineIgnored(t *testing.T) {
	t.Setenv("APPLY_DEADLINE_SEC", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ApplyDeadlineSec != 10 {
		t.Errorf("bad value should fall back to default, got %d", cfg.ApplyDeadlineSec)
	}
}
