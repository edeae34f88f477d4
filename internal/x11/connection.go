package x11

import (
	"fmt"

	"github.com/1broseidon/winctl/internal/window"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Connection manages the X11 connection and core X resources. It
// implements window.Protocol and does no locking of its own.
type Connection struct {
	XUtil *xgbutil.XUtil
	root  xproto.Window
}

var _ window.Protocol = (*Connection)(nil)

// NewConnection connects to the X server named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	// Keycode lookups for synthesized input need the keyboard mapping.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		root:  xu.RootWin(),
	}, nil
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Root returns the root window of the default screen.
func (c *Connection) Root() window.ID {
	return window.ID(c.root)
}

// Sync waits for a round trip so every request sent so far has been
// processed by the server.
func (c *Connection) Sync() error {
	if _, err := xproto.GetInputFocus(c.XUtil.Conn()).Reply(); err != nil {
		return fmt.Errorf("failed to sync with X server: %w", err)
	}
	return nil
}

// CheckWM verifies that an EWMH window manager is running and returns its
// name. It follows the _NET_SUPPORTING_WM_CHECK protocol: the root points
// to a child window that must point to itself.
func (c *Connection) CheckWM() (string, error) {
	child, err := ewmh.SupportingWmCheckGet(c.XUtil, c.root)
	if err != nil {
		return "", &window.UnsupportedError{Op: "window management", Reason: "no EWMH window manager detected"}
	}
	self, err := ewmh.SupportingWmCheckGet(c.XUtil, child)
	if err != nil || self != child {
		return "", &window.UnsupportedError{Op: "window management", Reason: "stale _NET_SUPPORTING_WM_CHECK window"}
	}
	name, err := ewmh.WmNameGet(c.XUtil, child)
	if err != nil {
		return "", nil
	}
	return name, nil
}
