// Package service serializes access to a window.Session for the
// long-running front ends (MCP and HTTP), which may receive requests
// concurrently while the session and its X connection are not safe for
// concurrent use.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/window"
)

// ErrNoActiveWindow is returned by DoActive when nothing has focus.
var ErrNoActiveWindow = errors.New("no active window")

// Service wraps a session with a mutex. Every exported method holds the
// lock for its whole duration, including confirmation sleeps.
type Service struct {
	mu      sync.Mutex
	session *window.Session
	logger  *slog.Logger
}

// MutationResult reports a state change and the window as it was read
// afterwards.
type MutationResult struct {
	Confirmed bool            `json:"confirmed"`
	Window    window.Snapshot `json:"window"`
}

// New wraps session.
func New(session *window.Session, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{session: session, logger: logger}
}

// Reconfigure applies a reloaded config to the session.
func (s *Service) Reconfigure(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts := cfg.SessionOptions()
	s.session.Configure(opts.Policy, opts.Minimize, opts.Activate, opts.MinimizeKeys)
	s.logger.Info("session reconfigured",
		"max_attempts", s.session.Policy().MaxAttempts,
		"base_delay", s.session.Policy().BaseDelay,
		"minimize", s.session.MinimizeStrategy(),
		"activate", s.session.ActivateStrategy())
}

// List returns a snapshot of every managed window.
func (s *Service) List() ([]window.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	windows, err := s.session.AllWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	return window.Snapshots(windows)
}

// Active returns the focused window, or nil when nothing is focused.
func (s *Service) Active() (*window.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.session.ActiveWindow()
	if err != nil || w == nil {
		return nil, err
	}
	snap, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// At returns the windows containing (x, y).
func (s *Service) At(x, y int) ([]window.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	windows, err := s.session.WindowsAt(x, y)
	if err != nil {
		return nil, err
	}
	return window.Snapshots(windows)
}

// Find returns the windows titled exactly title.
func (s *Service) Find(title string) ([]window.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	windows, err := s.session.WindowsWithTitle(title)
	if err != nil {
		return nil, err
	}
	return window.Snapshots(windows)
}

// Info reads one window.
func (s *Service) Info(id window.ID) (window.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Window(id).Snapshot()
}

// Move moves id to (x, y), or by (x, y) when relative is set.
func (s *Service) Move(id window.ID, x, y int, relative, wait bool) (MutationResult, error) {
	return s.mutate(id, func(w *window.Window) (bool, error) {
		if relative {
			return w.Move(x, y, wait)
		}
		return w.MoveTo(x, y, wait)
	})
}

// Resize resizes id to width x height, or grows it by that much when
// relative is set.
func (s *Service) Resize(id window.ID, width, height int, relative, wait bool) (MutationResult, error) {
	return s.mutate(id, func(w *window.Window) (bool, error) {
		if relative {
			return w.Resize(width, height, wait)
		}
		return w.ResizeTo(width, height, wait)
	})
}

// Do runs a named state change on id.
func (s *Service) Do(id window.ID, action window.Action, wait bool) (MutationResult, error) {
	return s.mutate(id, func(w *window.Window) (bool, error) {
		return w.Do(action, wait)
	})
}

// DoActive runs a named state change on the focused window.
func (s *Service) DoActive(action window.Action, wait bool) (MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.session.ActiveWindow()
	if err != nil {
		return MutationResult{}, err
	}
	if w == nil {
		return MutationResult{}, ErrNoActiveWindow
	}
	return s.run(w, func(w *window.Window) (bool, error) {
		return w.Do(action, wait)
	})
}

// Close asks the window manager to close id.
func (s *Service) Close(id window.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.session.Window(id)
	// Fail with a lookup error for unknown ids instead of sending a
	// message nobody will answer.
	if _, err := w.Title(); err != nil {
		return err
	}
	return w.Close()
}

// Cursor returns the pointer position.
func (s *Service) Cursor() (window.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.CursorPosition()
}

// Screen returns the desktop size.
func (s *Service) Screen() (window.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ScreenResolution()
}

func (s *Service) mutate(id window.ID, op func(w *window.Window) (bool, error)) (MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(s.session.Window(id), op)
}

// run applies op to w and snapshots the result. The caller holds s.mu.
func (s *Service) run(w *window.Window, op func(w *window.Window) (bool, error)) (MutationResult, error) {
	confirmed, err := op(w)
	if err != nil {
		return MutationResult{}, err
	}
	snap, err := w.Snapshot()
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Confirmed: confirmed, Window: snap}, nil
}
