package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/1broseidon/winctl/internal/window"
)

var (
	activeColor    = color.New(color.FgGreen, color.Bold)
	minimizedColor = color.New(color.Faint)
	hiddenColor    = color.New(color.FgYellow)
	headerColor    = color.New(color.Bold)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// flagString is the short state column, e.g. "active,max".
func flagString(s window.Snapshot) string {
	var flags []string
	if s.Active {
		flags = append(flags, "active")
	}
	if s.Minimized {
		flags = append(flags, "min")
	}
	if s.Maximized {
		flags = append(flags, "max")
	}
	if !s.Visible {
		flags = append(flags, "unmapped")
	}
	if s.States.Fullscreen {
		flags = append(flags, "full")
	}
	if s.States.Above {
		flags = append(flags, "above")
	}
	if s.States.Sticky {
		flags = append(flags, "sticky")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func geometryString(r window.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width(), r.Height(), r.Left, r.Top)
}

func colorFor(s window.Snapshot) *color.Color {
	switch {
	case s.Active:
		return activeColor
	case s.Minimized:
		return minimizedColor
	case !s.Visible:
		return hiddenColor
	}
	return nil
}

// truncate shortens s to max runes, marking the cut. max <= 0 disables it.
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// writeTable prints one line per window. Colors are applied per line after
// tabwriter alignment so escape codes do not skew the columns.
func writeTable(w io.Writer, snaps []window.Snapshot, titleWidth int) error {
	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGEOMETRY\tSTATE\tTITLE")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, geometryString(s.Rect), flagString(s), truncate(oneLine(s.Title), titleWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		var c *color.Color
		if i == 0 {
			c = headerColor
		} else {
			c = colorFor(snaps[i-1])
		}
		if c != nil {
			line = c.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshot(w io.Writer, s window.Snapshot) {
	fmt.Fprintf(w, "id:        %s\n", s.ID)
	fmt.Fprintf(w, "title:     %s\n", s.Title)
	fmt.Fprintf(w, "geometry:  %s\n", geometryString(s.Rect))
	fmt.Fprintf(w, "active:    %v\n", s.Active)
	fmt.Fprintf(w, "visible:   %v\n", s.Visible)
	fmt.Fprintf(w, "minimized: %v\n", s.Minimized)
	fmt.Fprintf(w, "maximized: %v\n", s.Maximized)
	fmt.Fprintf(w, "state:     %s\n", flagString(s))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
