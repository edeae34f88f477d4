package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/winctl/internal/window"
)

func runWatch(args []string) int {
	fs, g := newFlagSet("watch", "watch [--interval 500ms]",
		"Follow the window list. On a terminal the table is redrawn in place;\notherwise one line is printed per change.")
	interval := fs.Duration("interval", 500*time.Millisecond, "Poll interval")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	if *interval <= 0 {
		fmt.Fprintln(os.Stderr, "--interval must be > 0")
		return exitUsage
	}

	return withApp(g, func(a *app) int {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fd := int(os.Stdout.Fd())
		var render func([]window.Snapshot) error
		if term.IsTerminal(fd) {
			render = func(snaps []window.Snapshot) error {
				return redraw(os.Stdout, fd, snaps)
			}
			defer fmt.Print("\x1b[?25h")
			fmt.Print("\x1b[?25l")
		} else {
			var prev []window.Snapshot
			render = func(snaps []window.Snapshot) error {
				writeChanges(os.Stdout, time.Now(), prev, snaps)
				prev = snaps
				return nil
			}
		}

		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		var last []window.Snapshot
		first := true
		for {
			windows, err := a.session.AllWindows()
			if err != nil {
				return exitCodeFor(err)
			}
			snaps, err := window.Snapshots(windows)
			if err != nil {
				return exitCodeFor(err)
			}
			if first || !slices.EqualFunc(snaps, last, snapshotEqual) {
				if err := render(snaps); err != nil {
					return exitCodeFor(err)
				}
				last = snaps
				first = false
			}
			select {
			case <-ctx.Done():
				return exitOK
			case <-ticker.C:
			}
		}
	})
}

func snapshotEqual(a, b window.Snapshot) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Rect == b.Rect &&
		a.Active == b.Active && a.Visible == b.Visible &&
		a.Minimized == b.Minimized && a.Maximized == b.Maximized
}

func redraw(w io.Writer, fd int, snaps []window.Snapshot) error {
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}
	// ID, geometry and state columns take roughly 50 cells.
	titleWidth := width - 50
	if titleWidth < 10 {
		titleWidth = 10
	}
	fmt.Fprint(w, "\x1b[H\x1b[2J")
	fmt.Fprintf(w, "%s  %d windows\n\n", time.Now().Format("15:04:05"), len(snaps))
	return writeTable(w, snaps, titleWidth)
}

// writeChanges prints what differs between two reads of the window list.
func writeChanges(w io.Writer, now time.Time, prev, cur []window.Snapshot) {
	ts := now.Format(time.RFC3339)
	old := make(map[window.ID]window.Snapshot, len(prev))
	for _, s := range prev {
		old[s.ID] = s
	}
	seen := make(map[window.ID]bool, len(cur))
	for _, s := range cur {
		seen[s.ID] = true
		p, ok := old[s.ID]
		switch {
		case !ok:
			fmt.Fprintf(w, "%s added   %s %s %q\n", ts, s.ID, geometryString(s.Rect), s.Title)
		case !snapshotEqual(p, s):
			fmt.Fprintf(w, "%s changed %s %s\n", ts, s.ID, describeChange(p, s))
		}
	}
	for _, s := range prev {
		if !seen[s.ID] {
			fmt.Fprintf(w, "%s removed %s %q\n", ts, s.ID, s.Title)
		}
	}
}

func describeChange(p, s window.Snapshot) string {
	var parts []string
	if p.Title != s.Title {
		parts = append(parts, fmt.Sprintf("title=%q", s.Title))
	}
	if p.Rect != s.Rect {
		parts = append(parts, "geometry="+geometryString(s.Rect))
	}
	if p.Active != s.Active || p.Visible != s.Visible || p.Minimized != s.Minimized || p.Maximized != s.Maximized {
		parts = append(parts, "state="+flagString(s))
	}
	return strings.Join(parts, " ")
}
