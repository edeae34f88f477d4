package input

import (
	"fmt"

	"github.com/1broseidon/winctl/internal/window"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Typist presses key combinations on the X server.
type Typist struct {
	lookup func(keysym string) []xproto.Keycode
	emit   func(eventType byte, code xproto.Keycode) error
	sync   func() error
}

var _ window.KeySender = (*Typist)(nil)

// NewTypist enables XTEST on xu's connection. keybind.Initialize must have
// been called on xu.
func NewTypist(xu *xgbutil.XUtil) (*Typist, error) {
	conn := xu.Conn()
	if err := xtest.Init(conn); err != nil {
		return nil, &window.UnsupportedError{Op: "key synthesis", Reason: fmt.Sprintf("XTEST unavailable: %v", err)}
	}
	root := xu.RootWin()
	return &Typist{
		lookup: func(keysym string) []xproto.Keycode {
			return keybind.StrToKeycodes(xu, keysym)
		},
		emit: func(eventType byte, code xproto.Keycode) error {
			return xtest.FakeInputChecked(conn, eventType, byte(code), 0, root, 0, 0, 0).Check()
		},
		sync: func() error {
			_, err := xproto.GetInputFocus(conn).Reply()
			return err
		},
	}, nil
}

// SendCombo presses every key of combo in order, then releases them in
// reverse order.
func (t *Typist) SendCombo(s string) error {
	combo, err := ParseCombo(s)
	if err != nil {
		return err
	}

	codes := make([]xproto.Keycode, 0, len(combo))
	for _, sym := range combo {
		kcs := t.lookup(sym)
		if len(kcs) == 0 {
			return fmt.Errorf("no keycode for keysym %q", sym)
		}
		codes = append(codes, kcs[0])
	}

	pressed := 0
	var pressErr error
	for _, code := range codes {
		if pressErr = t.emit(xproto.KeyPress, code); pressErr != nil {
			break
		}
		pressed++
	}
	// Release whatever went down, even after a failed press, so no modifier
	// stays latched.
	for i := pressed - 1; i >= 0; i-- {
		if err := t.emit(xproto.KeyRelease, codes[i]); err != nil && pressErr == nil {
			pressErr = err
		}
	}
	if pressErr != nil {
		return fmt.Errorf("failed to send %s: %w", combo, pressErr)
	}
	return t.sync()
}
