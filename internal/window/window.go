package window

import (
	"fmt"

	"github.com/1broseidon/winctl/internal/desktop"
)

// Window is a handle to a managed top-level window. It stores nothing but
// the id; every query goes to the window manager.
type Window struct {
	id      ID
	session *Session
}

// ID returns the X window id.
func (w *Window) ID() ID { return w.id }

func (w *Window) String() string {
	return fmt.Sprintf("Window(id=%s)", w.id)
}

// Equal reports whether both handles refer to the same window.
func (w *Window) Equal(other *Window) bool {
	return w != nil && other != nil && w.id == other.id
}

func (w *Window) proto() Protocol { return w.session.proto }

// Title returns _NET_WM_NAME.
func (w *Window) Title() (string, error) {
	name, err := w.proto().Name(w.id)
	if err != nil {
		return "", lookupErr(w.id, "get name", err)
	}
	return name, nil
}

// States returns the decoded _NET_WM_STATE.
func (w *Window) States() (StateFlags, error) {
	states, err := w.proto().WmState(w.id)
	if err != nil {
		return StateFlags{}, lookupErr(w.id, "get wm state", err)
	}
	return ParseStates(states), nil
}

// IsMinimized reports whether _NET_WM_STATE_HIDDEN is set.
func (w *Window) IsMinimized() (bool, error) {
	states, err := w.proto().WmState(w.id)
	if err != nil {
		return false, lookupErr(w.id, "get wm state", err)
	}
	return hasState(states, StateHidden), nil
}

// IsMaximized reports whether both maximized bits are set.
func (w *Window) IsMaximized() (bool, error) {
	states, err := w.proto().WmState(w.id)
	if err != nil {
		return false, lookupErr(w.id, "get wm state", err)
	}
	return hasState(states, StateMaximizedVert) && hasState(states, StateMaximizedHorz), nil
}

// IsActive reports whether this is the _NET_ACTIVE_WINDOW.
func (w *Window) IsActive() (bool, error) {
	active, err := w.proto().ActiveWindow()
	if err != nil {
		return false, err
	}
	return active == w.id, nil
}

// Visible reports whether the window is viewable.
func (w *Window) Visible() (bool, error) {
	state, err := w.proto().MapState(w.id)
	if err != nil {
		return false, lookupErr(w.id, "get attributes", err)
	}
	return state == MapStateViewable, nil
}

// IsMapped reports whether the window is mapped, even if an ancestor is not.
func (w *Window) IsMapped() (bool, error) {
	state, err := w.proto().MapState(w.id)
	if err != nil {
		return false, lookupErr(w.id, "get attributes", err)
	}
	return state != MapStateUnmapped, nil
}

// holds adapts a query for use as a confirmation predicate; read errors
// count as "not yet".
func holds(q func() (bool, error)) func() bool {
	return func() bool {
		ok, err := q()
		return err == nil && ok
	}
}

func not(q func() (bool, error)) func() bool {
	return func() bool {
		ok, err := q()
		return err == nil && !ok
	}
}

// Minimize iconifies the window.
func (w *Window) Minimize(wait bool) (bool, error) {
	minimized, err := w.IsMinimized()
	if err != nil {
		return false, err
	}
	if minimized {
		return w.session.apply(w, "minimize", wait, nil, holds(w.IsMinimized))
	}
	if w.session.minimize == desktop.MinimizeKeystroke {
		return w.minimizeByKeystroke(wait)
	}
	return w.session.apply(w, "minimize", wait, func() error {
		return w.minimizeByHint(wait)
	}, holds(w.IsMinimized))
}

// minimizeByHint flips WM_HINTS initial_state to iconic and remaps the
// window, which managers such as Cinnamon and LXDE treat as a request to
// iconify. The previous hint is put back afterwards.
func (w *Window) minimizeByHint(wait bool) error {
	p := w.proto()
	prev, err := p.InitialState(w.id)
	if err != nil {
		return lookupErr(w.id, "get wm hints", err)
	}
	if err := p.SetInitialState(w.id, HintStateIconic); err != nil {
		return fmt.Errorf("failed to set iconic hint: %w", err)
	}
	if _, err := w.Hide(wait); err != nil {
		return err
	}
	if _, err := w.Show(wait); err != nil {
		return err
	}
	if err := p.SetInitialState(w.id, prev); err != nil {
		return fmt.Errorf("failed to restore initial state hint: %w", err)
	}
	return nil
}

// minimizeByKeystroke is the GNOME workaround: the shell ignores the
// iconic hint, so focus the window and press its minimize shortcut. The
// shortcut acts on whatever has focus, so it is only sent once the window
// is observed active.
func (w *Window) minimizeByKeystroke(wait bool) (bool, error) {
	if w.session.keys == nil {
		return false, &UnsupportedError{Op: "minimize", Reason: "keystroke strategy needs key synthesis"}
	}
	focused, err := w.Activate(true)
	if err != nil {
		return false, err
	}
	if !focused {
		w.session.logger.Debug("minimize skipped, window did not take focus", "window_id", w.id)
		return false, nil
	}
	return w.session.apply(w, "minimize", wait, func() error {
		if err := w.session.keys.SendCombo(w.session.minimizeKeys); err != nil {
			return fmt.Errorf("failed to send %q: %w", w.session.minimizeKeys, err)
		}
		return nil
	}, holds(w.IsMinimized))
}

// Maximize sets both maximized state bits.
func (w *Window) Maximize(wait bool) (bool, error) {
	return w.session.apply(w, "maximize", wait, func() error {
		maximized, err := w.IsMaximized()
		if err != nil {
			return err
		}
		if maximized {
			return nil
		}
		return w.requestState(StateSet, StateMaximizedVert, StateMaximizedHorz)
	}, holds(w.IsMaximized))
}

// Restore activates the window, which un-iconifies it on the desktops we
// know of, then clears the maximized bits.
func (w *Window) Restore(wait bool) (bool, error) {
	return w.session.apply(w, "restore", wait, func() error {
		if _, err := w.Activate(wait); err != nil {
			return err
		}
		maximized, err := w.IsMaximized()
		if err != nil {
			return err
		}
		if !maximized {
			return nil
		}
		return w.requestState(StateUnset, StateMaximizedVert, StateMaximizedHorz)
	}, func() bool {
		return not(w.IsMaximized)() && not(w.IsMinimized)()
	})
}

// Hide unmaps the window and its subwindows.
func (w *Window) Hide(wait bool) (bool, error) {
	return w.session.apply(w, "hide", wait, func() error {
		p := w.proto()
		if err := p.UnmapSubwindows(w.id); err != nil {
			return lookupErr(w.id, "unmap subwindows", err)
		}
		if err := p.Sync(); err != nil {
			return err
		}
		if err := p.Unmap(w.id); err != nil {
			return lookupErr(w.id, "unmap", err)
		}
		return p.Sync()
	}, not(w.IsMapped))
}

// Show maps the window and its subwindows.
func (w *Window) Show(wait bool) (bool, error) {
	return w.session.apply(w, "show", wait, func() error {
		p := w.proto()
		if err := p.Map(w.id); err != nil {
			return lookupErr(w.id, "map", err)
		}
		if err := p.Sync(); err != nil {
			return err
		}
		if err := p.MapSubwindows(w.id); err != nil {
			return lookupErr(w.id, "map subwindows", err)
		}
		return p.Sync()
	}, holds(w.IsMapped))
}

// Activate makes the window the focused foreground window.
func (w *Window) Activate(wait bool) (bool, error) {
	return w.session.apply(w, "activate", wait, func() error {
		p := w.proto()
		var err error
		switch w.session.activate {
		case desktop.ActivateAbove:
			err = p.RequestWmState(w.id, StateSet, StateAbove, StateNone)
		default:
			err = p.RequestActivate(w.id)
		}
		if err != nil {
			return fmt.Errorf("failed to activate window %s: %w", w.id, err)
		}
		return p.Sync()
	}, holds(w.IsActive))
}

// MoveTo moves the window's top-left corner to (x, y). Negative targets are
// ignored because the protocol rejects them; the result is then false.
func (w *Window) MoveTo(x, y int, wait bool) (bool, error) {
	if x < 0 || y < 0 {
		wait = false
	}
	return w.session.apply(w, "move", wait, func() error {
		if x < 0 || y < 0 {
			return nil
		}
		r, err := w.Rect()
		if err != nil {
			return err
		}
		return w.requestMoveResize(x, y, r.Width(), r.Height())
	}, func() bool {
		r, err := w.Rect()
		return err == nil && r.Left == x && r.Top == y
	})
}

// Move moves the window by (dx, dy).
func (w *Window) Move(dx, dy int, wait bool) (bool, error) {
	r, err := w.Rect()
	if err != nil {
		return false, err
	}
	return w.MoveTo(r.Left+dx, r.Top+dy, wait)
}

// ResizeTo resizes the window while keeping its top-left corner. Like
// MoveTo, targets the protocol cannot express (an empty or negative size,
// or a window whose corner is off screen) send nothing.
func (w *Window) ResizeTo(width, height int, wait bool) (bool, error) {
	r, err := w.Rect()
	if err != nil {
		return false, err
	}
	skip := width <= 0 || height <= 0 || r.Left < 0 || r.Top < 0
	if skip {
		wait = false
	}
	return w.session.apply(w, "resize", wait, func() error {
		if skip {
			return nil
		}
		return w.requestMoveResize(r.Left, r.Top, width, height)
	}, func() bool {
		r, err := w.Rect()
		return err == nil && r.Width() == width && r.Height() == height
	})
}

// Resize grows the window by (dw, dh).
func (w *Window) Resize(dw, dh int, wait bool) (bool, error) {
	r, err := w.Rect()
	if err != nil {
		return false, err
	}
	return w.ResizeTo(r.Width()+dw, r.Height()+dh, wait)
}

// MoveResizeTo sends a single move+resize request without confirmation.
// Negative positions and non-positive sizes are ignored.
func (w *Window) MoveResizeTo(x, y, width, height int) error {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	return w.requestMoveResize(x, y, width, height)
}

// Close asks the window manager to close the window. The application may
// refuse, e.g. by showing an "unsaved changes" dialog.
func (w *Window) Close() error {
	p := w.proto()
	if err := p.RequestClose(w.id); err != nil {
		return fmt.Errorf("failed to close window %s: %w", w.id, err)
	}
	w.session.logger.Debug("window close requested", "window_id", w.id)
	return p.Sync()
}

func (w *Window) requestState(action StateAction, first, second State) error {
	p := w.proto()
	if err := p.RequestWmState(w.id, action, first, second); err != nil {
		return fmt.Errorf("failed to change state of window %s: %w", w.id, err)
	}
	return p.Sync()
}

func (w *Window) requestMoveResize(x, y, width, height int) error {
	p := w.proto()
	if err := p.RequestMoveResize(w.id, x, y, width, height); err != nil {
		return fmt.Errorf("failed to move/resize window %s: %w", w.id, err)
	}
	return p.Sync()
}
