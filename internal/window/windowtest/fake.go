// Package windowtest provides an in-memory window.Protocol for tests of
// window.Session and the packages built on top of it.
package windowtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/winctl/internal/window"
)

// Root is the root window id of every Fake.
const Root window.ID = 1

// ErrBadWindow is the cause of every request on an unknown window.
var ErrBadWindow = errors.New("BadWindow")

// Window is one fake window. Its geometry is relative to Parent.
type Window struct {
	Title    string
	Parent   window.ID
	Geometry window.Geometry
	States   []window.State
	Mapped   bool
	Hint     window.HintState

	saved *window.Geometry
}

type pendingChange struct {
	after int
	apply func()
}

// Fake is a window manager. With the default lag of zero every request is
// applied immediately; SetLag defers requests by a number of state reads
// to model a manager that processes client messages asynchronously.
// Fake is safe for concurrent use so tests can inspect it while a server
// runs.
type Fake struct {
	mu       sync.Mutex
	windows  map[window.ID]*Window
	clients  []window.ID
	active   window.ID
	pointer  window.Point
	desktop  window.Size
	requests []string
	syncs    int

	lag     int
	pending []pendingChange
	// ignoreIconic makes remapping an iconic window a plain map, like
	// GNOME Shell.
	ignoreIconic bool
}

// New returns an empty 1920x1080 desktop.
func New() *Fake {
	return &Fake{
		windows: map[window.ID]*Window{},
		desktop: window.Size{Width: 1920, Height: 1080},
	}
}

// Add maps a new managed window directly under the root.
func (f *Fake) Add(id window.ID, title string, geom window.Geometry) {
	f.AddUnder(id, Root, title, geom)
}

// AddUnder maps a new managed window under parent, as a reparenting window
// manager nests clients inside frames.
func (f *Fake) AddUnder(id, parent window.ID, title string, geom window.Geometry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[id] = &Window{Title: title, Parent: parent, Geometry: geom, Mapped: true, Hint: window.HintStateNormal}
	f.clients = append(f.clients, id)
}

// AddFrame creates an unmanaged window under parent. It is not part of the
// client list.
func (f *Fake) AddFrame(id, parent window.ID, geom window.Geometry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows[id] = &Window{Parent: parent, Geometry: geom, Mapped: true, Hint: window.HintStateNormal}
}

// Remove destroys id but leaves it in the client list, like a window that
// disappears between two reads.
func (f *Fake) Remove(id window.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.windows, id)
}

// SetActive changes _NET_ACTIVE_WINDOW.
func (f *Fake) SetActive(id window.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = id
}

// SetPointer moves the cursor.
func (f *Fake) SetPointer(p window.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointer = p
}

// SetStates replaces the _NET_WM_STATE of id.
func (f *Fake) SetStates(id window.ID, states ...window.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[id]; ok {
		w.States = append([]window.State(nil), states...)
	}
}

// SetLag defers requests sent from now on until n further state reads
// have happened.
func (f *Fake) SetLag(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lag = n
}

// IgnoreIconicHint makes the manager disregard WM_HINTS initial_state when
// a window is remapped.
func (f *Fake) IgnoreIconicHint(ignore bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ignoreIconic = ignore
}

// Requests returns the window-manager requests received so far.
func (f *Fake) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Syncs returns how many round-trip barriers were requested.
func (f *Fake) Syncs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncs
}

// Get returns a copy of id's state.
func (f *Fake) Get(id window.ID) (Window, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

func (f *Fake) lookup(id window.ID) (*Window, error) {
	w, ok := f.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadWindow, id)
	}
	return w, nil
}

func (f *Fake) record(format string, args ...any) {
	f.requests = append(f.requests, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (f *Fake) later(apply func()) {
	if f.lag <= 0 {
		apply()
		return
	}
	f.pending = append(f.pending, pendingChange{after: f.lag, apply: apply})
}

// tick runs on every state read.
func (f *Fake) tick() {
	var rest []pendingChange
	for _, p := range f.pending {
		if p.after <= 0 {
			p.apply()
			continue
		}
		p.after--
		rest = append(rest, p)
	}
	f.pending = rest
}

// absolute returns the root offset of id's origin.
func (f *Fake) absolute(id window.ID) (int, int) {
	x, y := 0, 0
	for depth := 0; id != Root && depth < window.MaxAncestorDepth; depth++ {
		w, ok := f.windows[id]
		if !ok {
			break
		}
		x += w.Geometry.X
		y += w.Geometry.Y
		id = w.Parent
	}
	return x, y
}

func (f *Fake) Root() window.ID { return Root }

func (f *Fake) Geometry(id window.ID) (window.Geometry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick()
	if id == Root {
		return window.Geometry{Width: f.desktop.Width, Height: f.desktop.Height}, nil
	}
	w, err := f.lookup(id)
	if err != nil {
		return window.Geometry{}, err
	}
	return w.Geometry, nil
}

func (f *Fake) Parent(id window.ID) (window.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == Root {
		return 0, nil
	}
	w, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	return w.Parent, nil
}

func (f *Fake) MapState(id window.ID) (window.MapState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick()
	w, err := f.lookup(id)
	if err != nil {
		return window.MapStateUnmapped, err
	}
	if w.Mapped {
		return window.MapStateViewable, nil
	}
	return window.MapStateUnmapped, nil
}

func (f *Fake) Map(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.record("map %s", id)
	f.later(func() {
		if !w.Mapped && w.Hint == window.HintStateIconic && !f.ignoreIconic {
			w.States = appendState(w.States, window.StateHidden)
			return
		}
		w.Mapped = true
	})
	return nil
}

func (f *Fake) Unmap(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.record("unmap %s", id)
	f.later(func() { w.Mapped = false })
	return nil
}

func (f *Fake) MapSubwindows(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup(id); err != nil {
		return err
	}
	f.record("map-subwindows %s", id)
	return nil
}

func (f *Fake) UnmapSubwindows(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup(id); err != nil {
		return err
	}
	f.record("unmap-subwindows %s", id)
	return nil
}

func (f *Fake) Pointer() (window.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pointer, nil
}

func (f *Fake) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	return nil
}

func (f *Fake) ClientList() ([]window.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]window.ID(nil), f.clients...), nil
}

func (f *Fake) ActiveWindow() (window.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick()
	return f.active, nil
}

func (f *Fake) DesktopGeometry() (window.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desktop, nil
}

func (f *Fake) Name(id window.ID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (f *Fake) WmState(id window.ID) ([]window.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick()
	w, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]window.State(nil), w.States...), nil
}

func (f *Fake) InitialState(id window.ID) (window.HintState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	return w.Hint, nil
}

func (f *Fake) SetInitialState(id window.ID, state window.HintState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.record("hint %s %d", id, state)
	w.Hint = state
	return nil
}

func (f *Fake) RequestActivate(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.record("activate %s", id)
	f.later(func() {
		f.active = id
		w.Mapped = true
		w.States = removeState(w.States, window.StateHidden)
	})
	return nil
}

func (f *Fake) RequestWmState(id window.ID, action window.StateAction, first, second window.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.record("state %s %d %s %s", id, action, first, second)
	f.later(func() {
		for _, s := range []window.State{first, second} {
			if s == window.StateNone {
				continue
			}
			if action == window.StateSet || (action == window.StateToggle && !hasState(w.States, s)) {
				w.States = appendState(w.States, s)
			} else {
				w.States = removeState(w.States, s)
			}
		}
		switch {
		case first == window.StateMaximizedVert && action == window.StateSet && w.saved == nil:
			saved := w.Geometry
			w.saved = &saved
			px, py := f.absolute(w.Parent)
			w.Geometry = window.Geometry{X: -px, Y: -py, Width: f.desktop.Width, Height: f.desktop.Height}
		case first == window.StateMaximizedVert && action == window.StateUnset && w.saved != nil:
			w.Geometry = *w.saved
			w.saved = nil
		case first == window.StateAbove && action == window.StateSet:
			f.active = id
		}
	})
	return nil
}

// RequestMoveResize takes absolute coordinates and, like the X server,
// rejects negative positions and empty sizes.
func (f *Fake) RequestMoveResize(id window.ID, x, y, width, height int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup(id)
	if err != nil {
		return err
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return fmt.Errorf("invalid geometry %dx%d+%d+%d", width, height, x, y)
	}
	f.record("moveresize %s %d %d %d %d", id, x, y, width, height)
	f.later(func() {
		px, py := f.absolute(w.Parent)
		w.Geometry = window.Geometry{X: x - px, Y: y - py, Width: width, Height: height}
	})
	return nil
}

func (f *Fake) RequestClose(id window.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup(id); err != nil {
		return err
	}
	f.record("close %s", id)
	return nil
}

func hasState(states []window.State, s window.State) bool {
	for _, existing := range states {
		if existing == s {
			return true
		}
	}
	return false
}

func appendState(states []window.State, s window.State) []window.State {
	if hasState(states, s) {
		return states
	}
	return append(states, s)
}

func removeState(states []window.State, s window.State) []window.State {
	out := states[:0]
	for _, existing := range states {
		if existing != s {
			out = append(out, existing)
		}
	}
	return out
}

var _ window.Protocol = (*Fake)(nil)
