package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winctl/internal/service"
)

const (
	ServerName    = "winctl"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window operations as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	svc       *service.Service
	logger    *slog.Logger
}

// NewServer creates a server over svc. svc serializes every call, so tools
// may be invoked concurrently.
func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		svc:    svc,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session over t. Used with in-memory transports.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window managed by the window manager, in client-list order, with title, absolute rectangle and state. Optionally filter by exact title.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "active_window",
		Description: "Return the focused window, or nothing when no window has focus.",
	}, s.handleActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_at",
		Description: "List the windows whose rectangle contains the given screen point.",
	}, s.handleWindowsAt)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_windows",
		Description: "Find windows by exact title.",
	}, s.handleFindWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_info",
		Description: "Read one window's title, absolute rectangle and state flags.",
	}, s.handleWindowInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window so its top-left corner is at (x, y), or by (x, y) when relative is true. Negative targets are ignored and report confirmed=false. Window managers apply moves asynchronously; confirmed tells whether the new position was observed.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window keeping its top-left corner, or grow it by (width, height) when relative is true. confirmed tells whether the new size was observed.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Minimize, maximize, restore, activate, hide or show a window. confirmed tells whether the window manager applied the change within the retry budget.",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask the window manager to close a window. The application may refuse or prompt the user.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cursor_position",
		Description: "Return the mouse pointer position in screen coordinates.",
	}, s.handleCursorPosition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "screen_resolution",
		Description: "Return the desktop size in pixels.",
	}, s.handleScreenResolution)
}
