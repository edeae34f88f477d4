package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a YAML path and where it came
// from.
//
// Supported paths:
//
//	display
//	xauthority
//	retry.max_attempts
//	retry.base_delay_ms
//	minimize.strategy
//	minimize.keystroke
//	activate.strategy
//	logging.level
//	server.addr
//	bindings
//	bindings.<chord>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch strings.TrimSpace(path) {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "retry":
		return cfg.Retry, nil
	case "retry.max_attempts":
		return cfg.Retry.MaxAttempts, nil
	case "retry.base_delay_ms":
		return cfg.Retry.BaseDelayMS, nil
	case "minimize":
		return cfg.Minimize, nil
	case "minimize.strategy":
		return cfg.Minimize.Strategy, nil
	case "minimize.keystroke":
		return cfg.Minimize.Keystroke, nil
	case "activate":
		return cfg.Activate, nil
	case "activate.strategy":
		return cfg.Activate.Strategy, nil
	case "logging":
		return cfg.Logging, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "server":
		return cfg.Server, nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "bindings":
		return cfg.Bindings, nil
	}
	if chord, ok := strings.CutPrefix(strings.TrimSpace(path), "bindings."); ok {
		if action, ok := cfg.Bindings[chord]; ok {
			return action, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

// FormatSource renders src for humans, e.g. "config.yaml:3:5".
func FormatSource(src Source) string {
	if src.Kind == SourceFile && src.File != "" {
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	}
	return "default"
}
