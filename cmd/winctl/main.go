package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/winctl/internal/window"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitUnconfirmed = 3
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(exitOK)
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "list":
		os.Exit(runList(args))
	case "titles":
		os.Exit(runTitles(args))
	case "active":
		os.Exit(runActive(args))
	case "at":
		os.Exit(runAt(args))
	case "find":
		os.Exit(runFind(args))
	case "info":
		os.Exit(runInfo(args))
	case "cursor":
		os.Exit(runCursor(args))
	case "resolution":
		os.Exit(runResolution(args))
	case "monitors":
		os.Exit(runMonitors(args))
	case "move":
		os.Exit(runMove(args))
	case "resize":
		os.Exit(runResize(args))
	case "minimize", "maximize", "restore", "activate", "hide", "show":
		os.Exit(runAction(window.Action(cmd), args))
	case "close":
		os.Exit(runClose(args))
	case "watch":
		os.Exit(runWatch(args))
	case "bind":
		os.Exit(runBind(args))
	case "config":
		os.Exit(runConfig(args))
	case "mcp":
		os.Exit(runMCP(args))
	case "serve":
		os.Exit(runServe(args))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		os.Exit(exitUsage)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winctl <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                List managed windows")
	fmt.Fprintln(w, "  titles              List window titles")
	fmt.Fprintln(w, "  active              Show the focused window")
	fmt.Fprintln(w, "  at X Y              List windows containing a point")
	fmt.Fprintln(w, "  find TITLE          List windows with an exact title")
	fmt.Fprintln(w, "  info ID             Show one window")
	fmt.Fprintln(w, "  cursor              Print the pointer position")
	fmt.Fprintln(w, "  resolution          Print the desktop size")
	fmt.Fprintln(w, "  monitors            List RandR monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  move ID X Y         Move a window (--rel for an offset)")
	fmt.Fprintln(w, "  resize ID W H       Resize a window (--rel for a delta)")
	fmt.Fprintln(w, "  minimize ID         Minimize a window")
	fmt.Fprintln(w, "  maximize ID         Maximize a window")
	fmt.Fprintln(w, "  restore ID          Restore a window")
	fmt.Fprintln(w, "  activate ID         Focus a window")
	fmt.Fprintln(w, "  hide ID             Unmap a window")
	fmt.Fprintln(w, "  show ID             Map a window")
	fmt.Fprintln(w, "  close ID            Ask a window to close")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  watch               Follow window changes live")
	fmt.Fprintln(w, "  bind                Run actions from configured hotkeys")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  serve               Start the HTTP API")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Window ids are hex (0x01c0000a) or decimal.")
	fmt.Fprintln(w, "Mutating commands exit 3 when the window manager did not apply the change in time.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winctl <command> --help' for command-specific options.")
}

// globalFlags are accepted by every command that talks to the X server.
type globalFlags struct {
	configPath string
	verbose    bool
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "Config file path (default: ~/.config/winctl/config.yaml)")
	fs.BoolVar(&g.verbose, "verbose", false, "Log at debug level")
}

// newFlagSet builds a flag set whose Usage prints usage and summary.
func newFlagSet(name, usage, summary string) (*flag.FlagSet, *globalFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	g := &globalFlags{}
	g.register(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: winctl %s\n", usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs, g
}

// parseArgs parses args and checks the positional count. ok is false when
// the caller should return code.
func parseArgs(fs *flag.FlagSet, args []string, nargs int) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	if fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "%s takes %d argument(s), got %d\n\n", fs.Name(), nargs, fs.NArg())
		fs.Usage()
		return exitUsage, false
	}
	return exitOK, true
}

// exitCodeFor reports err on stderr and maps it to an exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err)
	return exitError
}

func confirmedExit(confirmed bool) int {
	if confirmed {
		return exitOK
	}
	return exitUnconfirmed
}
