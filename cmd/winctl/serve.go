package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/winctl/internal/api"
	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/mcp"
	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/watch"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winctl mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winctl mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return exitUsage
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return exitUsage
	}
}

func runMCPServe(args []string) int {
	fs, g := newFlagSet("mcp serve", "mcp serve",
		"Start the MCP server on stdio. Designed to be invoked by MCP clients.\n\nExample:\n  claude mcp add winctl -- winctl mcp serve")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	a, err := openApp(g)
	if err != nil {
		log.Fatalf("Failed to start MCP server: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.New(a.session, a.logger)
	go watchConfig(ctx, a, svc)

	a.logger.Info("mcp server starting", "wm", a.wmName)
	if err := mcp.NewServer(svc, a.logger).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return exitOK
}

func runServe(args []string) int {
	fs, g := newFlagSet("serve", "serve [--addr HOST:PORT]", "Serve the HTTP API with a websocket event feed on /events.")
	addr := fs.String("addr", "", "Listen address (default: server.addr from config)")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	a, err := openApp(g)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer a.Close()

	listen := *addr
	if listen == "" {
		listen = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.New(a.session, a.logger)
	go watchConfig(ctx, a, svc)

	srv := api.NewServer(svc, listen, a.logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
	}
	return exitOK
}

// watchConfig reloads the config file on change and pushes the retry and
// strategy settings into svc. Invalid files are logged and ignored.
func watchConfig(ctx context.Context, a *app, svc *service.Service) {
	w, err := watch.New(a.cfgPath)
	if err != nil {
		a.logger.Warn("config reload disabled", "path", a.cfgPath, "error", err)
		return
	}
	go w.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case werr := <-w.Errors:
			if werr.Fatal {
				a.logger.Error("config watcher stopped", "error", werr.Err)
				return
			}
			a.logger.Warn("config watcher", "error", werr.Err)
		case path := <-w.Updates:
			res, err := config.LoadFromPath(path)
			if err != nil {
				a.logger.Warn("config reload failed", "path", path, "error", err)
				continue
			}
			svc.Reconfigure(res.Config)
			a.logger.Info("config reloaded", "path", path)
		}
	}
}
