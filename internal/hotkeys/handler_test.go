package hotkeys

import (
	"testing"

	"github.com/1broseidon/winctl/internal/window"
)

func TestKeySequence(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "super+Up", want: "mod4-Up"},
		{in: "ctrl+alt+m", want: "control-mod1-m"},
		{in: "shift+super+F4", want: "shift-mod4-F4"},
		{in: "F12", want: "F12"},
		{in: "h+j", wantErr: true},
		{in: "ctrl+shift", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := KeySequence(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("KeySequence(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("KeySequence(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestParseBindings(t *testing.T) {
	got, err := ParseBindings(map[string]string{
		"super+Up":   "maximize",
		"super+Down": "minimize",
	})
	if err != nil {
		t.Fatalf("ParseBindings: %v", err)
	}
	want := []Binding{
		{Keys: "super+Down", Action: window.ActionMinimize},
		{Keys: "super+Up", Action: window.ActionMaximize},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("binding %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := ParseBindings(map[string]string{"super+x": "explode"}); err == nil {
		t.Fatalf("expected unknown action error")
	}
}
