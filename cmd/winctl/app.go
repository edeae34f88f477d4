package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/input"
	"github.com/1broseidon/winctl/internal/window"
	"github.com/1broseidon/winctl/internal/x11"
)

// app is everything a command needs once connected to the X server.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	conn    *x11.Connection
	session *window.Session
	wmName  string
}

func loadConfig(path string) (*config.LoadResult, string, error) {
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}

func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openApp loads config, connects to the display and checks for an EWMH
// window manager.
func openApp(g *globalFlags) (*app, error) {
	res, path, err := loadConfig(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config
	logger := newLogger(cfg, g.verbose)

	env, err := x11.ResolveDisplayEnv(x11.DisplayEnv{Display: cfg.Display, XAuthority: cfg.XAuthority})
	if err != nil {
		return nil, err
	}
	if err := env.Apply(); err != nil {
		return nil, fmt.Errorf("failed to export display environment: %w", err)
	}
	logger.Debug("display resolved", "display", env.Display, "xauthority", env.XAuthority)

	conn, err := x11.NewConnection()
	if err != nil {
		return nil, err
	}
	wmName, err := conn.CheckWM()
	if err != nil {
		conn.Close()
		return nil, err
	}

	opts := cfg.SessionOptions()
	opts.Logger = logger
	// Servers may switch to the keystroke strategy on reload, so XTEST is
	// set up whenever it is available.
	typist, err := input.NewTypist(conn.XUtil)
	switch {
	case err == nil:
		opts.Keys = typist
	case desktop.ResolveMinimize(opts.Minimize, desktop.Detect()) == desktop.MinimizeKeystroke:
		logger.Warn("keystroke minimize unavailable", "error", err)
	default:
		logger.Debug("key synthesis unavailable", "error", err)
	}

	logger.Debug("connected", "wm", wmName, "config", path)
	return &app{
		cfg:     cfg,
		cfgPath: path,
		logger:  logger,
		conn:    conn,
		session: window.NewSession(conn, opts),
		wmName:  wmName,
	}, nil
}

func (a *app) Close() {
	a.conn.Close()
}

// withApp opens the app, runs fn and maps any error to an exit code.
func withApp(g *globalFlags, fn func(a *app) int) int {
	a, err := openApp(g)
	if err != nil {
		return exitCodeFor(err)
	}
	defer a.Close()
	return fn(a)
}
