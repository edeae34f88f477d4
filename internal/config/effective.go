package config

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/input"
	"github.com/1broseidon/winctl/internal/window"
)

// ValidationError reports one invalid setting, keyed by its YAML path.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays raw onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	raw.apply(cfg)
	return cfg
}

// Validate checks every setting and returns all problems joined together,
// each a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path string, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Err: fmt.Errorf(format, args...)})
	}

	if c.Retry.MaxAttempts < 1 {
		fail("retry.max_attempts", "max_attempts must be >= 1")
	}
	if c.Retry.BaseDelayMS < 1 {
		fail("retry.base_delay_ms", "base_delay_ms must be >= 1")
	}
	if _, err := desktop.ParseMinimize(c.Minimize.Strategy); err != nil {
		fail("minimize.strategy", "%v", err)
	}
	if _, err := input.ParseCombo(c.Minimize.Keystroke); err != nil {
		fail("minimize.keystroke", "%v", err)
	}
	if _, err := desktop.ParseActivate(c.Activate.Strategy); err != nil {
		fail("activate.strategy", "%v", err)
	}
	if _, ok := parseLogLevel(c.Logging.Level); !ok {
		fail("logging.level", "level must be one of: debug, info, warn, error")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		fail("server.addr", "addr is required")
	} else if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		fail("server.addr", "invalid listen address: %v", err)
	}

	for _, keys := range sortedKeys(c.Bindings) {
		path := "bindings." + keys
		if _, err := input.ParseCombo(keys); err != nil {
			fail(path, "%v", err)
		}
		if _, err := window.ParseAction(c.Bindings[keys]); err != nil {
			fail(path, "%v", err)
		}
	}

	return errors.Join(errs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationErrors flattens the result of Validate.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if verr, ok := err.(*ValidationError); ok {
			out = append(out, verr)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
		}
	}
	walk(err)
	return out
}
