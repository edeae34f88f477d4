package window

import "fmt"

// Action names a parameterless state change.
type Action string

const (
	ActionMinimize Action = "minimize"
	ActionMaximize Action = "maximize"
	ActionRestore  Action = "restore"
	ActionActivate Action = "activate"
	ActionHide     Action = "hide"
	ActionShow     Action = "show"
)

// Actions lists every Action in display order.
var Actions = []Action{ActionMinimize, ActionMaximize, ActionRestore, ActionActivate, ActionHide, ActionShow}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q (want minimize, maximize, restore, activate, hide or show)", s)
}

// Do runs the named state change.
func (w *Window) Do(action Action, wait bool) (bool, error) {
	switch action {
	case ActionMinimize:
		return w.Minimize(wait)
	case ActionMaximize:
		return w.Maximize(wait)
	case ActionRestore:
		return w.Restore(wait)
	case ActionActivate:
		return w.Activate(wait)
	case ActionHide:
		return w.Hide(wait)
	case ActionShow:
		return w.Show(wait)
	}
	return false, fmt.Errorf("unknown action %q", action)
}
