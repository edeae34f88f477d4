package config

// Raw* mirror the YAML file. Pointer fields distinguish "unset" from a zero
// value so defaults survive a partial file.

type RawRetryConfig struct {
	MaxAttempts *int `yaml:"max_attempts"`
	BaseDelayMS *int `yaml:"base_delay_ms"`
}

type RawMinimizeConfig struct {
	Strategy  *string `yaml:"strategy"`
	Keystroke *string `yaml:"keystroke"`
}

type RawActivateConfig struct {
	Strategy *string `yaml:"strategy"`
}

type RawLoggingConfig struct {
	Level *string `yaml:"level"`
}

type RawServerConfig struct {
	Addr *string `yaml:"addr"`
}

type RawConfig struct {
	Display    *string            `yaml:"display"`
	XAuthority *string            `yaml:"xauthority"`
	Retry      *RawRetryConfig    `yaml:"retry"`
	Minimize   *RawMinimizeConfig `yaml:"minimize"`
	Activate   *RawActivateConfig `yaml:"activate"`
	Logging    *RawLoggingConfig  `yaml:"logging"`
	Server     *RawServerConfig   `yaml:"server"`
	Bindings   map[string]string  `yaml:"bindings"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// apply overlays every field set in raw onto cfg.
func (raw RawConfig) apply(cfg *Config) {
	setString(&cfg.Display, raw.Display)
	setString(&cfg.XAuthority, raw.XAuthority)
	if r := raw.Retry; r != nil {
		setInt(&cfg.Retry.MaxAttempts, r.MaxAttempts)
		setInt(&cfg.Retry.BaseDelayMS, r.BaseDelayMS)
	}
	if m := raw.Minimize; m != nil {
		setString(&cfg.Minimize.Strategy, m.Strategy)
		setString(&cfg.Minimize.Keystroke, m.Keystroke)
	}
	if a := raw.Activate; a != nil {
		setString(&cfg.Activate.Strategy, a.Strategy)
	}
	if l := raw.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
	}
	if s := raw.Server; s != nil {
		setString(&cfg.Server.Addr, s.Addr)
	}
	if raw.Bindings != nil {
		cfg.Bindings = raw.Bindings
	}
}
