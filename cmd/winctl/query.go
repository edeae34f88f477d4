package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/winctl/internal/window"
)

func printSnapshots(windows []*window.Window, asJSON bool) int {
	snaps, err := window.Snapshots(windows)
	if err != nil {
		return exitCodeFor(err)
	}
	if asJSON {
		return exitCodeFor(writeJSON(os.Stdout, snaps))
	}
	return exitCodeFor(writeTable(os.Stdout, snaps, 0))
}

func runList(args []string) int {
	fs, g := newFlagSet("list", "list [--json]", "List managed windows in client-list order.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		windows, err := a.session.AllWindows()
		if err != nil {
			return exitCodeFor(err)
		}
		return printSnapshots(windows, *asJSON)
	})
}

func runTitles(args []string) int {
	fs, g := newFlagSet("titles", "titles", "Print one window title per line. Windows that vanish mid-read print an empty line.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		titles, err := a.session.AllTitles()
		if err != nil {
			return exitCodeFor(err)
		}
		for _, t := range titles {
			fmt.Println(t)
		}
		return exitOK
	})
}

func runActive(args []string) int {
	fs, g := newFlagSet("active", "active [--json]", "Show the focused window. Exits 1 when nothing is focused.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		w, err := a.session.ActiveWindow()
		if err != nil {
			return exitCodeFor(err)
		}
		if w == nil {
			fmt.Fprintln(os.Stderr, "no active window")
			return exitError
		}
		snap, err := w.Snapshot()
		if err != nil {
			return exitCodeFor(err)
		}
		if *asJSON {
			return exitCodeFor(writeJSON(os.Stdout, snap))
		}
		writeSnapshot(os.Stdout, snap)
		return exitOK
	})
}

func runAt(args []string) int {
	fs, g := newFlagSet("at", "at [--json] X Y", "List windows whose rectangle contains (X, Y).")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 2); !ok {
		return code
	}
	x, errX := strconv.Atoi(fs.Arg(0))
	y, errY := strconv.Atoi(fs.Arg(1))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "X and Y must be integers")
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		windows, err := a.session.WindowsAt(x, y)
		if err != nil {
			return exitCodeFor(err)
		}
		return printSnapshots(windows, *asJSON)
	})
}

func runFind(args []string) int {
	fs, g := newFlagSet("find", "find [--json] TITLE", "List windows whose title is exactly TITLE.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		windows, err := a.session.WindowsWithTitle(fs.Arg(0))
		if err != nil {
			return exitCodeFor(err)
		}
		return printSnapshots(windows, *asJSON)
	})
}

func runInfo(args []string) int {
	fs, g := newFlagSet("info", "info [--json] ID", "Show one window's title, geometry and state.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	id, err := window.ParseID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return withApp(g, func(a *app) int {
		snap, err := a.session.Window(id).Snapshot()
		if err != nil {
			return exitCodeFor(err)
		}
		if *asJSON {
			return exitCodeFor(writeJSON(os.Stdout, snap))
		}
		writeSnapshot(os.Stdout, snap)
		return exitOK
	})
}

func runCursor(args []string) int {
	fs, g := newFlagSet("cursor", "cursor", "Print the pointer position as X Y.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		p, err := a.session.CursorPosition()
		if err != nil {
			return exitCodeFor(err)
		}
		fmt.Printf("%d %d\n", p.X, p.Y)
		return exitOK
	})
}

func runResolution(args []string) int {
	fs, g := newFlagSet("resolution", "resolution", "Print the desktop size as WIDTHxHEIGHT.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		size, err := a.session.ScreenResolution()
		if err != nil {
			return exitCodeFor(err)
		}
		fmt.Printf("%dx%d\n", size.Width, size.Height)
		return exitOK
	})
}

func runMonitors(args []string) int {
	fs, g := newFlagSet("monitors", "monitors [--json]", "List active RandR outputs and the EWMH work area.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	return withApp(g, func(a *app) int {
		monitors, err := a.conn.Monitors()
		if err != nil {
			return exitCodeFor(err)
		}
		if *asJSON {
			return exitCodeFor(writeJSON(os.Stdout, monitors))
		}
		for _, m := range monitors {
			fmt.Printf("%d  %-10s %s\n", m.ID, m.Name, geometryString(m.Bounds))
		}
		if area, err := a.conn.WorkArea(); err == nil {
			fmt.Printf("workarea: %s\n", geometryString(area))
		}
		return exitOK
	})
}
