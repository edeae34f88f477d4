// Package window implements window queries and state changes on top of an
// EWMH window manager.
//
// Window managers apply requests asynchronously, so every mutating
// operation reports whether the new state was observed rather than whether
// the request was sent. Pass wait=true to poll for the change with the
// session's RetryPolicy.
package window

import (
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/winctl/internal/desktop"
)

// Options configures a Session.
type Options struct {
	Policy       RetryPolicy
	Minimize     desktop.MinimizeStrategy
	Activate     desktop.ActivateStrategy
	MinimizeKeys string
	// Keys is required by the keystroke minimize strategy.
	Keys   KeySender
	Logger *slog.Logger
	// Sleep defaults to time.Sleep.
	Sleep Sleeper
}

// Session owns the Protocol used by every Window it hands out. It is not
// safe for concurrent use.
type Session struct {
	proto        Protocol
	keys         KeySender
	policy       RetryPolicy
	minimize     desktop.MinimizeStrategy
	activate     desktop.ActivateStrategy
	minimizeKeys string
	logger       *slog.Logger
	sleep        Sleeper
}

// NewSession creates a session over proto. Auto strategies are resolved
// against the current process environment.
func NewSession(proto Protocol, opts Options) *Session {
	s := &Session{
		proto:  proto,
		keys:   opts.Keys,
		logger: opts.Logger,
		sleep:  opts.Sleep,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}
	s.Configure(opts.Policy, opts.Minimize, opts.Activate, opts.MinimizeKeys)
	return s
}

// Configure replaces the retry policy and strategies.
func (s *Session) Configure(policy RetryPolicy, minimize desktop.MinimizeStrategy, activate desktop.ActivateStrategy, minimizeKeys string) {
	env := desktop.Detect()
	s.policy = policy.normalized()
	s.minimize = desktop.ResolveMinimize(minimize, env)
	s.activate = desktop.ResolveActivate(activate, env)
	s.minimizeKeys = minimizeKeys
	if s.minimizeKeys == "" {
		s.minimizeKeys = desktop.DefaultMinimizeKeys
	}
}

// Policy returns the active retry policy.
func (s *Session) Policy() RetryPolicy { return s.policy }

// MinimizeStrategy returns the resolved minimize strategy.
func (s *Session) MinimizeStrategy() desktop.MinimizeStrategy { return s.minimize }

// ActivateStrategy returns the resolved activation strategy.
func (s *Session) ActivateStrategy() desktop.ActivateStrategy { return s.activate }

// MinimizeKeys returns the shortcut sent by the keystroke minimize strategy.
func (s *Session) MinimizeKeys() string { return s.minimizeKeys }

// Window wraps id. The window is not checked for existence.
func (s *Session) Window(id ID) *Window {
	return &Window{id: id, session: s}
}

// AllWindows returns one Window per entry in the window manager's client
// list, in client-list order.
func (s *Session) AllWindows() ([]*Window, error) {
	ids, err := s.proto.ClientList()
	if err != nil {
		return nil, err
	}
	windows := make([]*Window, 0, len(ids))
	for _, id := range ids {
		windows = append(windows, s.Window(id))
	}
	return windows, nil
}

// AllTitles returns the title of every managed window. Windows whose title
// cannot be read contribute an empty string.
func (s *Session) AllTitles() ([]string, error) {
	windows, err := s.AllWindows()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(windows))
	for _, w := range windows {
		title, _ := w.Title()
		titles = append(titles, title)
	}
	return titles, nil
}

// WindowsWithTitle returns the windows whose title equals title exactly.
func (s *Session) WindowsWithTitle(title string) ([]*Window, error) {
	windows, err := s.AllWindows()
	if err != nil {
		return nil, err
	}
	var matches []*Window
	for _, w := range windows {
		if t, err := w.Title(); err == nil && t == title {
			matches = append(matches, w)
		}
	}
	return matches, nil
}

// WindowsAt returns the windows whose rectangle contains (x, y). Windows
// destroyed during the scan are skipped.
func (s *Session) WindowsAt(x, y int) ([]*Window, error) {
	windows, err := s.AllWindows()
	if err != nil {
		return nil, err
	}
	var matches []*Window
	for _, w := range windows {
		r, err := w.Rect()
		if err != nil {
			if errors.Is(err, ErrWindowLookup) {
				continue
			}
			return nil, err
		}
		if r.Contains(x, y) {
			matches = append(matches, w)
		}
	}
	return matches, nil
}

// ActiveWindow returns the focused window, or nil when there is none.
func (s *Session) ActiveWindow() (*Window, error) {
	id, err := s.proto.ActiveWindow()
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return s.Window(id), nil
}

// ActiveWindowTitle returns the focused window's title, or "" when no
// window is focused.
func (s *Session) ActiveWindowTitle() (string, error) {
	w, err := s.ActiveWindow()
	if err != nil || w == nil {
		return "", err
	}
	return w.Title()
}

// CursorPosition returns the pointer position on the root window.
func (s *Session) CursorPosition() (Point, error) {
	return s.proto.Pointer()
}

// ScreenResolution returns the _NET_DESKTOP_GEOMETRY size.
func (s *Session) ScreenResolution() (Size, error) {
	return s.proto.DesktopGeometry()
}

func (s *Session) apply(w *Window, op string, wait bool, mutate func() error, check func() bool) (bool, error) {
	c, err := ApplyAndConfirm(mutate, check, wait, s.policy, s.sleep)
	if err != nil {
		s.logger.Debug("window mutation failed", "window_id", w.id, "op", op, "error", err)
		return false, err
	}
	s.logger.Debug("window mutation",
		"window_id", w.id,
		"op", op,
		"wait", wait,
		"confirmed", c.Confirmed,
		"sleeps", c.Sleeps)
	return c.Confirmed, nil
}
