package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/winctl/internal/window"
)

// mutation runs op on id and reports confirmation through the exit code.
func mutation(a *app, id window.ID, quiet bool, op func(w *window.Window) (bool, error)) int {
	w := a.session.Window(id)
	confirmed, err := op(w)
	if err != nil {
		return exitCodeFor(err)
	}
	if !confirmed && !quiet {
		fmt.Fprintf(os.Stderr, "%s: change not observed within %s\n", id, a.session.Policy().MaxWait())
	}
	return confirmedExit(confirmed)
}

func parseIntArgs(raw ...string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		out = append(out, v)
	}
	return out, nil
}

func runMove(args []string) int {
	fs, g := newFlagSet("move", "move [--rel] [--wait=false] ID X Y",
		"Move a window's top-left corner to (X, Y), or by (X, Y) with --rel.\nNegative targets are ignored and exit 3.")
	rel := fs.Bool("rel", false, "Treat X and Y as an offset")
	wait := fs.Bool("wait", true, "Poll until the window manager applies the move")
	quiet := fs.Bool("quiet", false, "Do not report unconfirmed changes on stderr")
	if code, ok := parseArgs(fs, args, 3); !ok {
		return code
	}
	id, err := window.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	xy, err := parseIntArgs(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		return mutation(a, id, *quiet, func(w *window.Window) (bool, error) {
			if *rel {
				return w.Move(xy[0], xy[1], *wait)
			}
			return w.MoveTo(xy[0], xy[1], *wait)
		})
	})
}

func runResize(args []string) int {
	fs, g := newFlagSet("resize", "resize [--rel] [--wait=false] ID WIDTH HEIGHT",
		"Resize a window keeping its top-left corner, or grow it by WIDTH x HEIGHT with --rel.")
	rel := fs.Bool("rel", false, "Treat WIDTH and HEIGHT as deltas")
	wait := fs.Bool("wait", true, "Poll until the window manager applies the resize")
	quiet := fs.Bool("quiet", false, "Do not report unconfirmed changes on stderr")
	if code, ok := parseArgs(fs, args, 3); !ok {
		return code
	}
	id, err := window.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	wh, err := parseIntArgs(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if !*rel && (wh[0] <= 0 || wh[1] <= 0) {
		fmt.Fprintln(os.Stderr, "WIDTH and HEIGHT must be > 0")
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		return mutation(a, id, *quiet, func(w *window.Window) (bool, error) {
			if *rel {
				return w.Resize(wh[0], wh[1], *wait)
			}
			return w.ResizeTo(wh[0], wh[1], *wait)
		})
	})
}

func runAction(action window.Action, args []string) int {
	name := string(action)
	fs, g := newFlagSet(name, name+" [--wait=false] ID", actionSummary(action))
	wait := fs.Bool("wait", true, "Poll until the window manager applies the change")
	quiet := fs.Bool("quiet", false, "Do not report unconfirmed changes on stderr")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	id, err := window.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		return mutation(a, id, *quiet, func(w *window.Window) (bool, error) {
			return w.Do(action, *wait)
		})
	})
}

func actionSummary(action window.Action) string {
	switch action {
	case window.ActionMinimize:
		return "Minimize a window. The method depends on the desktop; see minimize.strategy."
	case window.ActionMaximize:
		return "Maximize a window vertically and horizontally."
	case window.ActionRestore:
		return "Activate a window and clear its maximized state."
	case window.ActionActivate:
		return "Focus a window and raise it."
	case window.ActionHide:
		return "Unmap a window so it is not drawn."
	case window.ActionShow:
		return "Map a previously hidden window."
	}
	return ""
}

func runClose(args []string) int {
	fs, g := newFlagSet("close", "close ID", "Ask the window manager to close a window. The application may refuse.")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	id, err := window.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		w := a.session.Window(id)
		if _, err := w.Title(); err != nil {
			return exitCodeFor(err)
		}
		return exitCodeFor(w.Close())
	})
}
