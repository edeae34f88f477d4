package x11

import (
	"fmt"
	"strings"

	"github.com/1broseidon/winctl/internal/window"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Geometry returns the window's position relative to its parent and size.
func (c *Connection) Geometry(id window.ID) (window.Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return window.Geometry{}, err
	}
	return window.Geometry{
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// Parent returns the immediate parent of id in the window tree.
func (c *Connection) Parent(id window.ID) (window.ID, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), xproto.Window(id)).Reply()
	if err != nil {
		return 0, err
	}
	return window.ID(tree.Parent), nil
}

// MapState returns the map_state window attribute.
func (c *Connection) MapState(id window.ID) (window.MapState, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), xproto.Window(id)).Reply()
	if err != nil {
		return window.MapStateUnmapped, err
	}
	switch attrs.MapState {
	case xproto.MapStateViewable:
		return window.MapStateViewable, nil
	case xproto.MapStateUnviewable:
		return window.MapStateUnviewable, nil
	default:
		return window.MapStateUnmapped, nil
	}
}

func (c *Connection) Map(id window.ID) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

func (c *Connection) MapSubwindows(id window.ID) error {
	return xproto.MapSubwindowsChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

func (c *Connection) Unmap(id window.ID) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

func (c *Connection) UnmapSubwindows(id window.ID) error {
	return xproto.UnmapSubwindowsChecked(c.XUtil.Conn(), xproto.Window(id)).Check()
}

// Pointer returns the pointer position relative to the root window.
func (c *Connection) Pointer() (window.Point, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.root).Reply()
	if err != nil {
		return window.Point{}, fmt.Errorf("failed to query pointer: %w", err)
	}
	return window.Point{X: int(pointer.RootX), Y: int(pointer.RootY)}, nil
}

// property fetches one property with a single GetProperty request. A
// missing property is a reply with format 0, not an error; a destroyed
// window fails with BadWindow.
func (c *Connection) property(id window.ID, name string) (*xproto.GetPropertyReply, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return nil, err
	}
	return xproto.GetProperty(c.XUtil.Conn(), false, xproto.Window(id), atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
}

// Name returns _NET_WM_NAME. A window without the property has an empty
// name.
func (c *Connection) Name(id window.ID) (string, error) {
	reply, err := c.property(id, "_NET_WM_NAME")
	if err != nil {
		return "", err
	}
	if reply.Format == 0 {
		return "", nil
	}
	title, err := xprop.PropValStr(reply, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode _NET_WM_NAME: %w", err)
	}
	return strings.TrimSpace(title), nil
}

// WmState returns the _NET_WM_STATE atoms set on id. A window without the
// property has no states.
func (c *Connection) WmState(id window.ID) ([]window.State, error) {
	reply, err := c.property(id, "_NET_WM_STATE")
	if err != nil {
		return nil, err
	}
	if reply.Format == 0 {
		return nil, nil
	}
	names, err := xprop.PropValAtoms(c.XUtil, reply, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode _NET_WM_STATE: %w", err)
	}
	states := make([]window.State, 0, len(names))
	for _, name := range names {
		states = append(states, window.State(name))
	}
	return states, nil
}

// InitialState returns the WM_HINTS initial_state, defaulting to normal when
// the window sets no hints.
func (c *Connection) InitialState(id window.ID) (window.HintState, error) {
	reply, err := c.property(id, "WM_HINTS")
	if err != nil {
		return window.HintStateNormal, err
	}
	if reply.Format == 0 {
		return window.HintStateNormal, nil
	}
	nums, err := xprop.PropValNums(reply, nil)
	if err != nil {
		return window.HintStateNormal, fmt.Errorf("failed to decode WM_HINTS: %w", err)
	}
	return initialStateFromHints(nums), nil
}

// initialStateFromHints reads initial_state from raw WM_HINTS words: flags
// first, then input, then initial_state.
func initialStateFromHints(nums []uint) window.HintState {
	if len(nums) < 3 || nums[0]&icccm.HintState == 0 {
		return window.HintStateNormal
	}
	return window.HintState(nums[2])
}

// SetInitialState rewrites WM_HINTS with a new initial_state, keeping the
// other hint fields.
func (c *Connection) SetInitialState(id window.ID, state window.HintState) error {
	win := xproto.Window(id)
	hints, err := icccm.WmHintsGet(c.XUtil, win)
	if err != nil {
		hints = &icccm.Hints{}
	}
	hints.Flags |= icccm.HintState
	hints.InitialState = uint(state)
	return icccm.WmHintsSet(c.XUtil, win, hints)
}
