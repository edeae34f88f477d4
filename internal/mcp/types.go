package mcp

import "github.com/1broseidon/winctl/internal/window"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Title string `json:"title,omitempty" jsonschema:"Only return windows whose title equals this exactly"`
}

// WindowInfo is a window snapshot as reported to MCP clients. The id is a
// hex string so it round-trips into the window_id inputs.
type WindowInfo struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Rect      window.Rect       `json:"rect"`
	Active    bool              `json:"active"`
	Visible   bool              `json:"visible"`
	Minimized bool              `json:"minimized"`
	Maximized bool              `json:"maximized"`
	States    window.StateFlags `json:"states"`
}

func toWindowInfo(s window.Snapshot) WindowInfo {
	return WindowInfo{
		ID:        s.ID.String(),
		Title:     s.Title,
		Rect:      s.Rect,
		Active:    s.Active,
		Visible:   s.Visible,
		Minimized: s.Minimized,
		Maximized: s.Maximized,
		States:    s.States,
	}
}

func toWindowInfos(snaps []window.Snapshot) []WindowInfo {
	out := make([]WindowInfo, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toWindowInfo(s))
	}
	return out
}

// WindowsOutput is returned by every tool that yields a list of windows.
type WindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// ActiveWindowInput is the input for the active_window tool.
type ActiveWindowInput struct{}

// ActiveWindowOutput is the output for the active_window tool.
type ActiveWindowOutput struct {
	Window *WindowInfo `json:"window,omitempty"`
}

// WindowsAtInput is the input for the windows_at tool.
type WindowsAtInput struct {
	X int `json:"x" jsonschema:"required,Screen x coordinate"`
	Y int `json:"y" jsonschema:"required,Screen y coordinate"`
}

// FindWindowsInput is the input for the find_windows tool.
type FindWindowsInput struct {
	Title string `json:"title" jsonschema:"required,Exact window title"`
}

// WindowInfoInput is the input for the window_info tool.
type WindowInfoInput struct {
	WindowID string `json:"window_id" jsonschema:"required,X window id, hex (0x01c0000a) or decimal"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,X window id, hex (0x01c0000a) or decimal"`
	X        int    `json:"x" jsonschema:"required,Target left edge (or horizontal offset when relative)"`
	Y        int    `json:"y" jsonschema:"required,Target top edge (or vertical offset when relative)"`
	Relative bool   `json:"relative,omitempty" jsonschema:"Treat x and y as offsets from the current position"`
	Wait     *bool  `json:"wait,omitempty" jsonschema:"Poll until the window manager applies the change (default: true)"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,X window id, hex (0x01c0000a) or decimal"`
	Width    int    `json:"width" jsonschema:"required,Target width in pixels (or delta when relative)"`
	Height   int    `json:"height" jsonschema:"required,Target height in pixels (or delta when relative)"`
	Relative bool   `json:"relative,omitempty" jsonschema:"Treat width and height as deltas from the current size"`
	Wait     *bool  `json:"wait,omitempty" jsonschema:"Poll until the window manager applies the change (default: true)"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	WindowID string `json:"window_id" jsonschema:"required,X window id, hex (0x01c0000a) or decimal"`
	Action   string `json:"action" jsonschema:"required,One of: minimize, maximize, restore, activate, hide, show"`
	Wait     *bool  `json:"wait,omitempty" jsonschema:"Poll until the window manager applies the change (default: true)"`
}

// MutationOutput is the output of tools that change a window.
type MutationOutput struct {
	// Confirmed is false when the window manager had not applied the change
	// by the end of the retry budget. That is not an error.
	Confirmed bool       `json:"confirmed"`
	Window    WindowInfo `json:"window"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,X window id, hex (0x01c0000a) or decimal"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Requested bool `json:"requested"`
}

// CursorPositionInput is the input for the cursor_position tool.
type CursorPositionInput struct{}

// ScreenResolutionInput is the input for the screen_resolution tool.
type ScreenResolutionInput struct{}
