package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/window"
	"github.com/1broseidon/winctl/internal/window/windowtest"
)

func newTestService(t *testing.T) (*Service, *windowtest.Fake) {
	t.Helper()
	fake := windowtest.New()
	fake.Add(10, "Terminal", window.Geometry{X: 0, Y: 0, Width: 800, Height: 600})
	fake.Add(11, "Editor", window.Geometry{X: 900, Y: 0, Width: 800, Height: 600})
	session := window.NewSession(fake, window.Options{
		Minimize: desktop.MinimizeHint,
		Activate: desktop.ActivateActiveWindow,
		Sleep:    func(time.Duration) {},
	})
	return New(session, nil), fake
}

func TestServiceList(t *testing.T) {
	svc, fake := newTestService(t)
	fake.SetActive(11)

	snaps, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d windows, want 2", len(snaps))
	}
	if snaps[1].Title != "Editor" || !snaps[1].Active || snaps[1].Rect.Left != 900 {
		t.Fatalf("snapshot = %+v", snaps[1])
	}
}

func TestServiceActive(t *testing.T) {
	svc, fake := newTestService(t)
	snap, err := svc.Active()
	if err != nil || snap != nil {
		t.Fatalf("Active with none focused = %v, %v", snap, err)
	}
	fake.SetActive(10)
	snap, err = svc.Active()
	if err != nil || snap == nil || snap.ID != 10 {
		t.Fatalf("Active = %v, %v", snap, err)
	}
}

func TestServiceMoveAndResize(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Move(10, 100, 50, false, true)
	if err != nil || !res.Confirmed {
		t.Fatalf("Move = %+v, %v", res, err)
	}
	if res.Window.Rect.Left != 100 || res.Window.Rect.Top != 50 {
		t.Fatalf("rect after move = %+v", res.Window.Rect)
	}

	res, err = svc.Resize(10, 20, 10, true, true)
	if err != nil || !res.Confirmed {
		t.Fatalf("Resize = %+v, %v", res, err)
	}
	if res.Window.Rect.Width() != 820 || res.Window.Rect.Height() != 610 {
		t.Fatalf("rect after resize = %+v", res.Window.Rect)
	}

	res, err = svc.Move(10, -1, 0, false, true)
	if err != nil || res.Confirmed {
		t.Fatalf("negative Move = %+v, %v; want unconfirmed", res, err)
	}
}

func TestServiceDo(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Do(11, window.ActionMaximize, true)
	if err != nil || !res.Confirmed || !res.Window.Maximized {
		t.Fatalf("maximize = %+v, %v", res, err)
	}
	res, err = svc.Do(11, window.ActionMinimize, true)
	if err != nil || !res.Confirmed || !res.Window.Minimized {
		t.Fatalf("minimize = %+v, %v", res, err)
	}
	res, err = svc.Do(11, window.ActionRestore, true)
	if err != nil || !res.Confirmed || res.Window.Maximized || res.Window.Minimized {
		t.Fatalf("restore = %+v, %v", res, err)
	}
}

func TestServiceUnknownWindow(t *testing.T) {
	svc, fake := newTestService(t)
	if _, err := svc.Info(99); !errors.Is(err, window.ErrWindowLookup) {
		t.Fatalf("Info err = %v", err)
	}
	if err := svc.Close(99); !errors.Is(err, window.ErrWindowLookup) {
		t.Fatalf("Close err = %v", err)
	}
	if len(fake.Requests()) != 0 {
		t.Fatalf("requests = %v", fake.Requests())
	}
}

func TestServiceReconfigure(t *testing.T) {
	svc, _ := newTestService(t)
	cfg := config.DefaultConfig()
	cfg.Retry.MaxAttempts = 2
	cfg.Activate.Strategy = string(desktop.ActivateAbove)
	svc.Reconfigure(cfg)

	if got := svc.session.Policy().MaxAttempts; got != 2 {
		t.Fatalf("MaxAttempts = %d", got)
	}
	if got := svc.session.ActivateStrategy(); got != desktop.ActivateAbove {
		t.Fatalf("activate strategy = %q", got)
	}
}

func TestServiceConcurrentCalls(t *testing.T) {
	svc, _ := newTestService(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Move(10, i*10, i*10, false, true); err != nil {
				t.Errorf("Move: %v", err)
			}
			if _, err := svc.List(); err != nil {
				t.Errorf("List: %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestServiceDoActive(t *testing.T) {
	svc, fake := newTestService(t)
	if _, err := svc.DoActive(window.ActionMaximize, true); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("DoActive with no focus err = %v", err)
	}

	fake.SetActive(10)
	res, err := svc.DoActive(window.ActionMaximize, true)
	if err != nil || !res.Confirmed || res.Window.ID != 10 || !res.Window.Maximized {
		t.Fatalf("DoActive = %+v, %v", res, err)
	}
}
