package windowtest

import (
	"testing"

	"github.com/1broseidon/winctl/internal/window"
)

func TestFakeRejectsGeometryTheServerRejects(t *testing.T) {
	f := New()
	f.Add(10, "w", window.Geometry{Width: 300, Height: 200})

	tests := []struct {
		name                string
		x, y, width, height int
	}{
		{"negative x", -1, 0, 10, 10},
		{"negative y", 0, -1, 10, 10},
		{"zero width", 0, 0, 0, 10},
		{"negative height", 0, 0, 10, -5},
	}
	for _, tt := range tests {
		if err := f.RequestMoveResize(10, tt.x, tt.y, tt.width, tt.height); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
	if reqs := f.Requests(); len(reqs) != 0 {
		t.Fatalf("rejected requests were recorded: %v", reqs)
	}
}

func TestFakeLagDefersRequests(t *testing.T) {
	f := New()
	f.Add(10, "w", window.Geometry{Width: 300, Height: 200})
	f.SetLag(2)

	if err := f.RequestActivate(10); err != nil {
		t.Fatalf("RequestActivate: %v", err)
	}
	var seen []window.ID
	for i := 0; i < 4; i++ {
		id, _ := f.ActiveWindow()
		seen = append(seen, id)
	}
	want := []window.ID{0, 0, 10, 10}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("active window per read = %v, want %v", seen, want)
		}
	}
}

func TestFakeMoveIsRelativeToFrame(t *testing.T) {
	f := New()
	f.AddFrame(20, Root, window.Geometry{X: 10, Y: 20, Width: 500, Height: 500})
	f.AddUnder(21, 20, "w", window.Geometry{X: 1, Y: 1, Width: 100, Height: 100})

	if err := f.RequestMoveResize(21, 110, 220, 50, 60); err != nil {
		t.Fatalf("RequestMoveResize: %v", err)
	}
	got, _ := f.Get(21)
	if want := (window.Geometry{X: 100, Y: 200, Width: 50, Height: 60}); got.Geometry != want {
		t.Fatalf("geometry = %+v, want %+v", got.Geometry, want)
	}
}
