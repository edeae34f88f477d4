package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/window"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerAddr = "127.0.0.1:7733"
	DefaultLogLevel   = "info"
)

// RetryConfig tunes the confirmation loop that follows every window
// mutation.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
}

// MinimizeConfig selects how windows are iconified.
type MinimizeConfig struct {
	// Strategy is one of: auto, hint, keystroke.
	Strategy string `yaml:"strategy"`
	// Keystroke is the desktop's minimize shortcut, used by the keystroke
	// strategy.
	Keystroke string `yaml:"keystroke"`
}

// ActivateConfig selects how windows are brought to the foreground.
type ActivateConfig struct {
	// Strategy is one of: auto, active-window, above.
	Strategy string `yaml:"strategy"`
}

type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `yaml:"level"`
}

type ServerConfig struct {
	// Addr is the listen address of `winctl serve`.
	Addr string `yaml:"addr"`
}

// Config represents the effective winctl configuration.
type Config struct {
	// Display overrides $DISPLAY when set.
	Display    string         `yaml:"display,omitempty"`
	XAuthority string         `yaml:"xauthority,omitempty"`
	Retry      RetryConfig    `yaml:"retry"`
	Minimize   MinimizeConfig `yaml:"minimize"`
	Activate   ActivateConfig `yaml:"activate"`
	Logging    LoggingConfig  `yaml:"logging"`
	Server     ServerConfig   `yaml:"server"`
	// Bindings maps key chords ("super+Up") to actions run on the focused
	// window by `winctl bind`.
	Bindings map[string]string `yaml:"bindings,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Retry: RetryConfig{
			MaxAttempts: window.DefaultMaxAttempts,
			BaseDelayMS: int(window.DefaultBaseDelay / time.Millisecond),
		},
		Minimize: MinimizeConfig{
			Strategy:  string(desktop.MinimizeAuto),
			Keystroke: desktop.DefaultMinimizeKeys,
		},
		Activate: ActivateConfig{
			Strategy: string(desktop.ActivateAuto),
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Server:  ServerConfig{Addr: DefaultServerAddr},
	}
}

// RetryPolicy converts the retry section for window.NewSession.
func (c *Config) RetryPolicy() window.RetryPolicy {
	return window.RetryPolicy{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   time.Duration(c.Retry.BaseDelayMS) * time.Millisecond,
	}
}

// MinimizeStrategy returns the configured strategy; invalid values fall
// back to auto. Validate reports them.
func (c *Config) MinimizeStrategy() desktop.MinimizeStrategy {
	s, err := desktop.ParseMinimize(c.Minimize.Strategy)
	if err != nil {
		return desktop.MinimizeAuto
	}
	return s
}

// ActivateStrategy returns the configured activation strategy.
func (c *Config) ActivateStrategy() desktop.ActivateStrategy {
	s, err := desktop.ParseActivate(c.Activate.Strategy)
	if err != nil {
		return desktop.ActivateAuto
	}
	return s
}

// SessionOptions builds window.Options from the config. Keys and Logger are
// left for the caller.
func (c *Config) SessionOptions() window.Options {
	return window.Options{
		Policy:       c.RetryPolicy(),
		Minimize:     c.MinimizeStrategy(),
		Activate:     c.ActivateStrategy(),
		MinimizeKeys: c.Minimize.Keystroke,
	}
}

// SlogLevel maps logging.level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLogLevel(c.Logging.Level)
	return level
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
