package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
	"github.com/1broseidon/winctl/internal/window/windowtest"
)

func newTestServer(t *testing.T) (*Server, *windowtest.Fake) {
	t.Helper()
	fake := windowtest.New()
	fake.Add(0x10, "Terminal", window.Geometry{X: 0, Y: 0, Width: 800, Height: 600})
	fake.Add(0x11, "Editor", window.Geometry{X: 900, Y: 0, Width: 800, Height: 600})
	session := window.NewSession(fake, window.Options{
		Minimize: desktop.MinimizeHint,
		Activate: desktop.ActivateActiveWindow,
		Sleep:    func(time.Duration) {},
	})
	return NewServer(service.New(session, nil), nil), fake
}

func boolPtr(v bool) *bool { return &v }

func TestWaitOrDefault(t *testing.T) {
	cases := []struct {
		in   *bool
		want bool
	}{
		{nil, true},
		{boolPtr(true), true},
		{boolPtr(false), false},
	}
	for _, tc := range cases {
		if got := waitOrDefault(tc.in); got != tc.want {
			t.Errorf("waitOrDefault(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHandleListWindows(t *testing.T) {
	s, fake := newTestServer(t)
	fake.SetActive(0x11)
	ctx := context.Background()

	_, out, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(out.Windows))
	}
	if out.Windows[0].ID != "0x00000010" || out.Windows[1].Title != "Editor" || !out.Windows[1].Active {
		t.Fatalf("windows = %+v", out.Windows)
	}

	_, out, err = s.handleListWindows(ctx, nil, ListWindowsInput{Title: "nope"})
	if err != nil {
		t.Fatalf("list_windows with title: %v", err)
	}
	if out.Windows == nil || len(out.Windows) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", out.Windows)
	}
}

func TestHandleActiveWindow(t *testing.T) {
	s, fake := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleActiveWindow(ctx, nil, ActiveWindowInput{})
	if err != nil || out.Window != nil {
		t.Fatalf("active_window with none focused = %+v, %v", out, err)
	}

	fake.SetActive(0x10)
	_, out, err = s.handleActiveWindow(ctx, nil, ActiveWindowInput{})
	if err != nil {
		t.Fatalf("active_window: %v", err)
	}
	if out.Window == nil || out.Window.Title != "Terminal" {
		t.Fatalf("active window = %+v", out.Window)
	}
}

func TestHandleWindowInfoRejectsBadID(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.handleWindowInfo(context.Background(), nil, WindowInfoInput{WindowID: "zzz"})
	if err == nil || !strings.HasPrefix(err.Error(), "window_info:") {
		t.Fatalf("expected window_info parse error, got %v", err)
	}
}

func TestHandleWindowInfoUnknownWindow(t *testing.T) {
	s, _ := newTestServer(t)
	_, _, err := s.handleWindowInfo(context.Background(), nil, WindowInfoInput{WindowID: "0x99"})
	if !errors.Is(err, window.ErrWindowLookup) {
		t.Fatalf("expected ErrWindowLookup, got %v", err)
	}
}

func TestHandleMoveWindowWaitsByDefault(t *testing.T) {
	s, fake := newTestServer(t)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{WindowID: "0x10", X: 40, Y: 30})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if !out.Confirmed {
		t.Fatalf("expected confirmed move")
	}
	if out.Window.Rect.Left != 40 || out.Window.Rect.Top != 30 {
		t.Fatalf("rect = %+v", out.Window.Rect)
	}
	w, _ := fake.Get(0x10)
	if w.Geometry.X != 40 || w.Geometry.Y != 30 {
		t.Fatalf("fake geometry = %+v", w.Geometry)
	}
}

func TestHandleMoveWindowNegativeIsIgnored(t *testing.T) {
	s, fake := newTestServer(t)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{WindowID: "0x10", X: -5, Y: 0})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if out.Confirmed {
		t.Fatalf("negative move must not report confirmed")
	}
	if len(fake.Requests()) != 0 {
		t.Fatalf("negative move sent requests: %v", fake.Requests())
	}
}

func TestHandleResizeWindowValidation(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: "0x10", Width: 0, Height: 100})
	if err == nil {
		t.Fatalf("expected error for zero width")
	}

	_, out, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: "0x10", Width: -100, Height: 0, Relative: true, Wait: boolPtr(true)})
	if err != nil {
		t.Fatalf("relative resize: %v", err)
	}
	if !out.Confirmed || out.Window.Rect.Width() != 700 || out.Window.Rect.Height() != 600 {
		t.Fatalf("relative resize = %+v", out)
	}

	_, out, err = s.handleResizeWindow(ctx, nil, ResizeWindowInput{WindowID: "0x10", Width: -1000, Height: -1000, Relative: true})
	if err != nil {
		t.Fatalf("relative resize past zero should be ignored, got %v", err)
	}
	if out.Confirmed || out.Window.Rect.Width() != 700 {
		t.Fatalf("resize past zero = %+v", out)
	}
}

func TestHandleSetWindowState(t *testing.T) {
	s, fake := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleSetWindowState(ctx, nil, SetWindowStateInput{WindowID: "0x10", Action: "explode"}); err == nil {
		t.Fatalf("expected unknown action error")
	}

	_, out, err := s.handleSetWindowState(ctx, nil, SetWindowStateInput{WindowID: "0x10", Action: "maximize"})
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if !out.Confirmed || !out.Window.Maximized {
		t.Fatalf("maximize = %+v", out)
	}

	_, out, err = s.handleSetWindowState(ctx, nil, SetWindowStateInput{WindowID: "0x10", Action: "minimize"})
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if !out.Confirmed || !out.Window.Minimized {
		t.Fatalf("minimize = %+v", out)
	}
	if w, _ := fake.Get(0x10); w.Hint != window.HintStateNormal {
		t.Fatalf("hint = %v, want the normal hint put back", w.Hint)
	}
}

func TestHandleCloseWindow(t *testing.T) {
	s, fake := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleCloseWindow(ctx, nil, CloseWindowInput{WindowID: "0x99"}); !errors.Is(err, window.ErrWindowLookup) {
		t.Fatalf("expected ErrWindowLookup, got %v", err)
	}

	res, out, err := s.handleCloseWindow(ctx, nil, CloseWindowInput{WindowID: "0x10"})
	if err != nil {
		t.Fatalf("close_window: %v", err)
	}
	if !out.Requested || res == nil || len(res.Content) != 1 {
		t.Fatalf("close_window result = %+v, %+v", res, out)
	}
	reqs := fake.Requests()
	if len(reqs) != 1 || reqs[0] != "close 0x00000010" {
		t.Fatalf("requests = %v", reqs)
	}
}

func TestHandleCursorAndScreen(t *testing.T) {
	s, fake := newTestServer(t)
	fake.SetPointer(window.Point{X: 12, Y: 34})
	ctx := context.Background()

	_, p, err := s.handleCursorPosition(ctx, nil, CursorPositionInput{})
	if err != nil || p != (window.Point{X: 12, Y: 34}) {
		t.Fatalf("cursor_position = %+v, %v", p, err)
	}
	_, size, err := s.handleScreenResolution(ctx, nil, ScreenResolutionInput{})
	if err != nil || size != (window.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("screen_resolution = %+v, %v", size, err)
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	s, fake := newTestServer(t)
	fake.SetActive(0x10)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := s.Connect(ctx, serverTransport)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"list_windows", "active_window", "windows_at", "find_windows", "window_info",
		"move_window", "resize_window", "set_window_state", "close_window",
		"cursor_position", "screen_resolution",
	} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "move_window",
		Arguments: map[string]any{"window_id": "0x10", "x": 15, "y": 25},
	})
	if err != nil {
		t.Fatalf("call move_window: %v", err)
	}
	if res.IsError {
		t.Fatalf("move_window returned a tool error: %+v", res.Content)
	}
	if w, _ := fake.Get(0x10); w.Geometry.X != 15 || w.Geometry.Y != 25 {
		t.Fatalf("fake geometry = %+v", w.Geometry)
	}

	res, err = cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "window_info",
		Arguments: map[string]any{"window_id": "0x99"},
	})
	if err != nil {
		t.Fatalf("call window_info: %v", err)
	}
	if !res.IsError {
		t.Fatalf("window_info on unknown id should be a tool error")
	}
}
