package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvFileVar = "XRANDREAM_ENV"

	defaultPrefix   = "XRD-"
	defaultHotkey   = "Ctrl+Alt+S"
	defaultDeadline = 10
)

// LoadOptions carries command-line overrides that beat the environment.
type LoadOptions struct {
	MonitorPrefixOverride string
	HotkeyOverride        string
}

type Config struct {
	// MonitorPrefix marks the virtual monitors this program owns.
	MonitorPrefix string
	// XrandrPath overrides the xrandr binary location ("" means $PATH).
	XrandrPath string
	Hotkey     string
	// EnableFileLogging writes the debug log next to the working directory.
	EnableFileLogging bool
	// ApplyDeadlineSec bounds each xrandr mutation batch.
	ApplyDeadlineSec int
	// Outlines draws red border outlines around shared areas.
	Outlines bool
	// ShowWindow opens the control window at startup instead of tray-only.
	ShowWindow bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use XRANDREAM_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	deadline := defaultDeadline
	if v := os.Getenv("APPLY_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			deadline = n
		}
	}

	prefix := getEnvWithDefault("MONITOR_PREFIX", defaultPrefix)
	if override := strings.TrimSpace(opts.MonitorPrefixOverride); override != "" {
		prefix = override
	}
	hotkey := getEnvWithDefault("HOTKEY", defaultHotkey)
	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		hotkey = override
	}

	cfg := &Config{
		MonitorPrefix:     prefix,
		XrandrPath:        os.Getenv("XRANDR_PATH"),
		Hotkey:            hotkey,
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		ApplyDeadlineSec:  deadline,
		Outlines:          strings.ToLower(getEnvWithDefault("OUTLINES", "true")) != "false",
		ShowWindow:        strings.ToLower(os.Getenv("SHOW_WINDOW")) == "true",
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
