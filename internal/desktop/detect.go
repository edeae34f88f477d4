// Package desktop identifies the running desktop environment and picks the
// window-manager workarounds that apply to it.
package desktop

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// MinimizeStrategy selects how a window is iconified.
type MinimizeStrategy string

const (
	MinimizeAuto MinimizeStrategy = "auto"
	// MinimizeHint sets the ICCCM iconic hint and remaps the window.
	MinimizeHint MinimizeStrategy = "hint"
	// MinimizeKeystroke activates the window and sends the desktop's
	// minimize shortcut.
	MinimizeKeystroke MinimizeStrategy = "keystroke"
)

// ActivateStrategy selects how a window is brought to the foreground.
type ActivateStrategy string

const (
	ActivateAuto ActivateStrategy = "auto"
	// ActivateActiveWindow sends a _NET_ACTIVE_WINDOW request.
	ActivateActiveWindow ActivateStrategy = "active-window"
	// ActivateAbove sets _NET_WM_STATE_ABOVE instead.
	ActivateAbove ActivateStrategy = "above"
)

// DefaultMinimizeKeys is the shortcut sent by MinimizeKeystroke.
const DefaultMinimizeKeys = "super+h"

// Environment is what we know about the session winctl runs in.
type Environment struct {
	// Desktop is XDG_CURRENT_DESKTOP, e.g. "ubuntu:GNOME" or "X-Cinnamon".
	Desktop string
	// Arch is runtime.GOARCH.
	Arch string
}

// Detect reads the environment of the current process.
func Detect() Environment {
	return Environment{
		Desktop: os.Getenv("XDG_CURRENT_DESKTOP"),
		Arch:    runtime.GOARCH,
	}
}

// GNOME ignores the iconic hint, so minimizing there goes through its
// keyboard shortcut. This is a workaround for one desktop family, not a
// general mechanism.
var minimizeByDesktop = []struct {
	match    string
	strategy MinimizeStrategy
}{
	{match: "GNOME", strategy: MinimizeKeystroke},
}

// Window managers on 32-bit ARM boards (Raspbian/LXDE) do not honour
// _NET_ACTIVE_WINDOW from clients.
var activateByArch = map[string]ActivateStrategy{
	"arm": ActivateAbove,
}

// Minimize returns the strategy for this environment.
func (e Environment) Minimize() MinimizeStrategy {
	for _, entry := range minimizeByDesktop {
		if strings.Contains(e.Desktop, entry.match) {
			return entry.strategy
		}
	}
	return MinimizeHint
}

// Activate returns the activation strategy for this environment.
func (e Environment) Activate() ActivateStrategy {
	if s, ok := activateByArch[e.Arch]; ok {
		return s
	}
	return ActivateActiveWindow
}

// ResolveMinimize returns configured unless it is auto (or empty), in which
// case the environment decides.
func ResolveMinimize(configured MinimizeStrategy, env Environment) MinimizeStrategy {
	if configured == "" || configured == MinimizeAuto {
		return env.Minimize()
	}
	return configured
}

// ResolveActivate is ResolveMinimize for activation.
func ResolveActivate(configured ActivateStrategy, env Environment) ActivateStrategy {
	if configured == "" || configured == ActivateAuto {
		return env.Activate()
	}
	return configured
}

// ParseMinimize validates a minimize strategy name.
func ParseMinimize(s string) (MinimizeStrategy, error) {
	switch MinimizeStrategy(s) {
	case "", MinimizeAuto:
		return MinimizeAuto, nil
	case MinimizeHint, MinimizeKeystroke:
		return MinimizeStrategy(s), nil
	}
	return "", fmt.Errorf("unknown minimize strategy %q (want auto, hint or keystroke)", s)
}

// ParseActivate validates an activation strategy name.
func ParseActivate(s string) (ActivateStrategy, error) {
	switch ActivateStrategy(s) {
	case "", ActivateAuto:
		return ActivateAuto, nil
	case ActivateActiveWindow, ActivateAbove:
		return ActivateStrategy(s), nil
	}
	return "", fmt.Errorf("unknown activate strategy %q (want auto, active-window or above)", s)
}
