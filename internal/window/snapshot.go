package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MarshalText renders the id in hex, the form xprop and wmctrl print.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID accepts "0x1c0000a" or a decimal id.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return ID(v), nil
}

// Snapshot is a point-in-time read of a window. It is stale as soon as it
// is returned.
type Snapshot struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Rect      Rect       `json:"rect"`
	Active    bool       `json:"active"`
	Visible   bool       `json:"visible"`
	Minimized bool       `json:"minimized"`
	Maximized bool       `json:"maximized"`
	States    StateFlags `json:"states"`
}

// Snapshot reads the window's title, geometry and state.
func (w *Window) Snapshot() (Snapshot, error) {
	title, err := w.Title()
	if err != nil {
		return Snapshot{}, err
	}
	rect, err := w.Rect()
	if err != nil {
		return Snapshot{}, err
	}
	states, err := w.States()
	if err != nil {
		return Snapshot{}, err
	}
	visible, err := w.Visible()
	if err != nil {
		return Snapshot{}, err
	}
	active, err := w.IsActive()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        w.id,
		Title:     title,
		Rect:      rect,
		Active:    active,
		Visible:   visible,
		Minimized: states.Hidden,
		Maximized: states.Maximized(),
		States:    states,
	}, nil
}

// Snapshots reads every window, dropping those destroyed mid-read.
func Snapshots(windows []*Window) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(windows))
	for _, w := range windows {
		snap, err := w.Snapshot()
		if err != nil {
			if errors.Is(err, ErrWindowLookup) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
