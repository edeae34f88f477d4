package x11

import (
	"fmt"

	"github.com/1broseidon/winctl/internal/window"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Bounds window.Rect `json:"bounds"`
}

// Monitors returns the active CRTCs reported by XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, &window.UnsupportedError{Op: "monitor listing", Reason: fmt.Sprintf("RandR unavailable: %v", err)}
	}

	resources, err := randr.GetScreenResources(conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs have no size or no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		x, y := int(info.X), int(info.Y)
		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: window.Rect{
				Left:   x,
				Top:    y,
				Right:  x + int(info.Width),
				Bottom: y + int(info.Height),
			},
		})
	}
	return monitors, nil
}

// WorkArea returns the _NET_WORKAREA rectangle of the current desktop: the
// screen minus panels and docks.
func (c *Connection) WorkArea() (window.Rect, error) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return window.Rect{}, fmt.Errorf("failed to get work area: %w", err)
	}
	if len(areas) == 0 {
		return window.Rect{}, fmt.Errorf("window manager published an empty _NET_WORKAREA")
	}

	idx := 0
	if desktop, err := c.CurrentDesktop(); err == nil && desktop >= 0 && desktop < len(areas) {
		idx = desktop
	}
	a := areas[idx]
	x, y := int(a.X), int(a.Y)
	return window.Rect{
		Left:   x,
		Top:    y,
		Right:  x + int(a.Width),
		Bottom: y + int(a.Height),
	}, nil
}
