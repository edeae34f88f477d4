// Package hotkeys grabs global key chords and runs window actions on the
// focused window when they are pressed.
package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/winctl/internal/input"
	"github.com/1broseidon/winctl/internal/window"
)

// Runner performs action on the focused window.
type Runner func(action window.Action) error

// Binding ties a key chord to an action.
type Binding struct {
	Keys   string
	Action window.Action
}

// Handler manages global keyboard shortcuts. Callbacks run on the xevent
// loop goroutine.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	run    Runner
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler on xu. keybind.Initialize must have been
// called on xu.
func NewHandler(xu *xgbutil.XUtil, run Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{
		xu:     xu,
		root:   xu.RootWin(),
		run:    run,
		logger: logger,
	}
}

// ParseBindings converts the config's chord -> action map, sorted by
// chord so grabs happen in a stable order.
func ParseBindings(raw map[string]string) ([]Binding, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Binding, 0, len(raw))
	for _, k := range keys {
		action, err := window.ParseAction(raw[k])
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", k, err)
		}
		out = append(out, Binding{Keys: k, Action: action})
	}
	return out, nil
}

// Bind grabs every binding. It stops at the first chord that cannot be
// grabbed, typically because another client already owns it.
func (h *Handler) Bind(bindings []Binding) error {
	for _, b := range bindings {
		seq, err := KeySequence(b.Keys)
		if err != nil {
			return err
		}
		action := b.Action
		keys := b.Keys
		if err := h.RegisterFunc(seq, func() {
			h.logger.Debug("hotkey pressed", "keys", keys, "action", action)
			if err := h.run(action); err != nil {
				h.logger.Warn("hotkey action failed", "keys", keys, "action", action, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to grab %q: %w", keys, err)
		}
		h.logger.Info("hotkey bound", "keys", keys, "action", action)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback. keySequence is in
// xgbutil form, e.g. "Mod4-Up".
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Run processes X events until ctx is done or the connection closes. The
// event loop only notices Quit on its next event, so Run returns without
// waiting for it.
func (h *Handler) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		xevent.Main(h.xu)
	}()
	select {
	case <-ctx.Done():
		xevent.Quit(h.xu)
	case <-done:
	}
}

var modifierNames = map[string]string{
	"Super_L":   "mod4",
	"Super_R":   "mod4",
	"Control_L": "control",
	"Control_R": "control",
	"Alt_L":     "mod1",
	"Alt_R":     "mod1",
	"Shift_L":   "shift",
	"Shift_R":   "shift",
}

// KeySequence converts a "super+Up" chord into xgbutil's "mod4-Up". Every
// key but the last must be a modifier.
func KeySequence(chord string) (string, error) {
	combo, err := input.ParseCombo(chord)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(combo))
	for i, key := range combo {
		if i == len(combo)-1 {
			if _, isMod := modifierNames[key]; isMod {
				return "", fmt.Errorf("key combination %q ends with a modifier", chord)
			}
			parts = append(parts, key)
			continue
		}
		mod, ok := modifierNames[key]
		if !ok {
			return "", fmt.Errorf("key combination %q: %q is not a modifier", chord, key)
		}
		parts = append(parts, mod)
	}
	return strings.Join(parts, "-"), nil
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
