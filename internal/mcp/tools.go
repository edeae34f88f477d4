package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
)

func waitOrDefault(wait *bool) bool {
	if wait == nil {
		return true
	}
	return *wait
}

func parseWindowID(tool string, raw string) (window.ID, error) {
	id, err := window.ParseID(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tool, err)
	}
	return id, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	var (
		snaps []window.Snapshot
		err   error
	)
	if args.Title != "" {
		snaps, err = s.svc.Find(args.Title)
	} else {
		snaps, err = s.svc.List()
	}
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	s.logger.Debug("tool call", "tool", "list_windows", "count", len(snaps))
	return nil, WindowsOutput{Windows: toWindowInfos(snaps)}, nil
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, ActiveWindowOutput, error) {
	snap, err := s.svc.Active()
	if err != nil || snap == nil {
		return nil, ActiveWindowOutput{}, err
	}
	info := toWindowInfo(*snap)
	return nil, ActiveWindowOutput{Window: &info}, nil
}

func (s *Server) handleWindowsAt(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowsAtInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	snaps, err := s.svc.At(args.X, args.Y)
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	return nil, WindowsOutput{Windows: toWindowInfos(snaps)}, nil
}

func (s *Server) handleFindWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args FindWindowsInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	if args.Title == "" {
		return nil, WindowsOutput{}, fmt.Errorf("find_windows: title is required")
	}
	snaps, err := s.svc.Find(args.Title)
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	return nil, WindowsOutput{Windows: toWindowInfos(snaps)}, nil
}

func (s *Server) handleWindowInfo(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInfoInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	id, err := parseWindowID("window_info", args.WindowID)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	snap, err := s.svc.Info(id)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	return nil, toWindowInfo(snap), nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MutationOutput, error) {
	id, err := parseWindowID("move_window", args.WindowID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	res, err := s.svc.Move(id, args.X, args.Y, args.Relative, waitOrDefault(args.Wait))
	return s.mutationResult("move_window", id, res, err)
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, MutationOutput, error) {
	id, err := parseWindowID("resize_window", args.WindowID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	if !args.Relative && (args.Width <= 0 || args.Height <= 0) {
		return nil, MutationOutput{}, fmt.Errorf("resize_window: width and height must be > 0")
	}
	res, err := s.svc.Resize(id, args.Width, args.Height, args.Relative, waitOrDefault(args.Wait))
	return s.mutationResult("resize_window", id, res, err)
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, MutationOutput, error) {
	id, err := parseWindowID("set_window_state", args.WindowID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	action, err := window.ParseAction(args.Action)
	if err != nil {
		return nil, MutationOutput{}, fmt.Errorf("set_window_state: %w", err)
	}
	res, err := s.svc.Do(id, action, waitOrDefault(args.Wait))
	return s.mutationResult("set_window_state", id, res, err)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	id, err := parseWindowID("close_window", args.WindowID)
	if err != nil {
		return nil, CloseWindowOutput{}, err
	}
	if err := s.svc.Close(id); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	s.logger.Info("close requested", "tool", "close_window", "window_id", id)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Close requested for window %s", id)},
		},
	}, CloseWindowOutput{Requested: true}, nil
}

func (s *Server) handleCursorPosition(_ context.Context, _ *mcpsdk.CallToolRequest, _ CursorPositionInput) (*mcpsdk.CallToolResult, window.Point, error) {
	p, err := s.svc.Cursor()
	if err != nil {
		return nil, window.Point{}, err
	}
	return nil, p, nil
}

func (s *Server) handleScreenResolution(_ context.Context, _ *mcpsdk.CallToolRequest, _ ScreenResolutionInput) (*mcpsdk.CallToolResult, window.Size, error) {
	size, err := s.svc.Screen()
	if err != nil {
		return nil, window.Size{}, err
	}
	return nil, size, nil
}

func (s *Server) mutationResult(tool string, id window.ID, res service.MutationResult, err error) (*mcpsdk.CallToolResult, MutationOutput, error) {
	if err != nil {
		s.logger.Debug("tool call failed", "tool", tool, "window_id", id, "error", err)
		return nil, MutationOutput{}, err
	}
	s.logger.Info("window changed", "tool", tool, "window_id", id, "confirmed", res.Confirmed)
	return nil, MutationOutput{Confirmed: res.Confirmed, Window: toWindowInfo(res.Window)}, nil
}
