package x11

import (
	"fmt"

	"github.com/1broseidon/winctl/internal/window"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// sourcePager marks requests as coming from a pager or other direct user
// action, which window managers apply without focus-stealing checks.
const sourcePager = 2

// _NET_MOVERESIZE_WINDOW flags: x, y, width and height present (bits 8-11),
// source indication in bits 12-15, gravity 0 (use the window's own).
const moveResizeFlags = 0xF<<8 | sourcePager<<12

// ClientList returns the _NET_CLIENT_LIST windows.
func (c *Connection) ClientList() ([]window.ID, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	ids := make([]window.ID, 0, len(clients))
	for _, win := range clients {
		ids = append(ids, window.ID(win))
	}
	return ids, nil
}

// ActiveWindow returns _NET_ACTIVE_WINDOW; 0 means no window has focus.
func (c *Connection) ActiveWindow() (window.ID, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	return window.ID(win), nil
}

// DesktopGeometry returns _NET_DESKTOP_GEOMETRY, falling back to the root
// window size for window managers that do not publish it.
func (c *Connection) DesktopGeometry() (window.Size, error) {
	if geom, err := ewmh.DesktopGeometryGet(c.XUtil); err == nil {
		return window.Size{Width: geom.Width, Height: geom.Height}, nil
	}
	root, err := c.Geometry(window.ID(c.root))
	if err != nil {
		return window.Size{}, fmt.Errorf("failed to get desktop geometry: %w", err)
	}
	return window.Size{Width: root.Width, Height: root.Height}, nil
}

// CurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// RequestActivate asks the window manager to focus and raise id.
func (c *Connection) RequestActivate(id window.ID) error {
	return c.sendRootMessage(id, "_NET_ACTIVE_WINDOW", sourcePager, 0, 0)
}

// RequestWmState asks the window manager to change up to two state bits.
func (c *Connection) RequestWmState(id window.ID, action window.StateAction, first, second window.State) error {
	a1, err := c.stateAtom(first)
	if err != nil {
		return err
	}
	a2, err := c.stateAtom(second)
	if err != nil {
		return err
	}
	return c.sendRootMessage(id, "_NET_WM_STATE", uint32(action), uint32(a1), uint32(a2), sourcePager)
}

// RequestMoveResize asks the window manager to place id at (x, y) with the
// given size. The protocol encodes coordinates as CARDINALs and X rejects
// empty windows, so callers must not pass negative positions or
// non-positive sizes.
func (c *Connection) RequestMoveResize(id window.ID, x, y, width, height int) error {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return fmt.Errorf("invalid geometry %dx%d+%d+%d", width, height, x, y)
	}
	return c.sendRootMessage(id, "_NET_MOVERESIZE_WINDOW",
		moveResizeFlags, uint32(x), uint32(y), uint32(width), uint32(height))
}

// RequestClose sends _NET_CLOSE_WINDOW, letting the window manager run the
// WM_DELETE_WINDOW handshake with the client.
func (c *Connection) RequestClose(id window.ID) error {
	return c.sendRootMessage(id, "_NET_CLOSE_WINDOW", 0, sourcePager)
}

func (c *Connection) stateAtom(s window.State) (xproto.Atom, error) {
	if s == window.StateNone {
		return 0, nil
	}
	atom, err := xprop.Atm(c.XUtil, string(s))
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", s, err)
	}
	return atom, nil
}

// sendRootMessage sends a format-32 client message about id to the root
// window, the way EWMH requests are delivered. We build the event by hand
// because the xgbutil ewmh request helpers panic on some argument types in
// this library version.
func (c *Connection) sendRootMessage(id window.ID, atomName string, data ...uint32) error {
	atom, err := xprop.Atm(c.XUtil, atomName)
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(id),
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
