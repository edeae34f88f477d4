// Package input synthesizes key presses through the XTEST extension. It
// exists for the one desktop that only minimizes windows from its keyboard
// shortcut; it is not a general input automation layer.
package input

import (
	"fmt"
	"strings"
)

// Combo is a key chord as X keysym names, in press order.
type Combo []string

var keysymAliases = map[string]string{
	"super":     "Super_L",
	"win":       "Super_L",
	"winleft":   "Super_L",
	"mod4":      "Super_L",
	"winright":  "Super_R",
	"ctrl":      "Control_L",
	"control":   "Control_L",
	"alt":       "Alt_L",
	"mod1":      "Alt_L",
	"shift":     "Shift_L",
	"enter":     "Return",
	"esc":       "Escape",
	"tab":       "Tab",
	"space":     "space",
	"backspace": "BackSpace",
}

// ParseCombo parses "super+h" style chords. Modifier aliases are mapped to
// keysym names; single letters are lower-cased; anything else is taken as a
// keysym name verbatim (e.g. "F4").
func ParseCombo(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty key combination")
	}
	parts := strings.Split(s, "+")
	combo := make(Combo, 0, len(parts))
	for _, part := range parts {
		key := strings.TrimSpace(part)
		if key == "" {
			return nil, fmt.Errorf("key combination %q has an empty key", s)
		}
		if sym, ok := keysymAliases[strings.ToLower(key)]; ok {
			key = sym
		} else if len(key) == 1 {
			key = strings.ToLower(key)
		}
		combo = append(combo, key)
	}
	return combo, nil
}

func (c Combo) String() string {
	return strings.Join(c, "+")
}
