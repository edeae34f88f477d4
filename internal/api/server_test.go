package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/1broseidon/winctl/internal/desktop"
	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
	"github.com/1broseidon/winctl/internal/window/windowtest"
)

func newTestServer(t *testing.T) (*Server, *windowtest.Fake) {
	t.Helper()
	fake := windowtest.New()
	fake.Add(0x10, "Terminal", window.Geometry{X: 0, Y: 0, Width: 800, Height: 600})
	fake.Add(0x11, "Editor", window.Geometry{X: 900, Y: 0, Width: 800, Height: 600})
	session := window.NewSession(fake, window.Options{
		Minimize: desktop.MinimizeHint,
		Activate: desktop.ActivateActiveWindow,
		Sleep:    func(time.Duration) {},
	})
	s := NewServer(service.New(session, nil), "127.0.0.1:0", nil)
	s.pollInterval = 5 * time.Millisecond
	return s, fake
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestListWindows(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/windows/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := decode[itemsBody](t, rec)
	if len(body.Items) != 2 || body.Items[0].ID != 0x10 || body.Items[1].Title != "Editor" {
		t.Fatalf("items = %+v", body.Items)
	}
	if !strings.Contains(rec.Body.String(), `"id":"0x00000010"`) {
		t.Fatalf("ids should be hex strings: %s", rec.Body)
	}

	rec = do(t, s.Handler(), "GET", "/windows/?title=nope", "")
	if got := strings.TrimSpace(rec.Body.String()); got != `{"items":[]}` {
		t.Fatalf("filtered body = %s", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/screen", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("missing generated %s", RequestIDHeader)
	}

	r := httptest.NewRequest("GET", "/screen", nil)
	r.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, r)
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("%s = %q, want echoed abc", RequestIDHeader, got)
	}
}

func TestWindowInfoStatuses(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []struct {
		path string
		want int
	}{
		{"/windows/0x10", http.StatusOK},
		{"/windows/16", http.StatusOK},
		{"/windows/0x99", http.StatusNotFound},
		{"/windows/bogus", http.StatusNotFound},
		{"/nothing/here", http.StatusNotFound},
	}
	for _, tc := range cases {
		if rec := do(t, s.Handler(), "GET", tc.path, ""); rec.Code != tc.want {
			t.Errorf("GET %s = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}

func TestUnparseableIDHasErrorBody(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []struct {
		method, path string
	}{
		{"GET", "/windows/bogus"},
		{"DELETE", "/windows/bogus"},
		{"POST", "/windows/bogus/move"},
		{"POST", "/windows/bogus/resize"},
		{"POST", "/windows/bogus/minimize"},
	}
	for _, tc := range cases {
		rec := do(t, s.Handler(), tc.method, tc.path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, rec.Code)
			continue
		}
		if body := decode[errorBody](t, rec); body.Error == "" {
			t.Errorf("%s %s: empty error body", tc.method, tc.path)
		}
	}
}

func TestRelativeResizePastZeroIsIgnored(t *testing.T) {
	s, fake := newTestServer(t)
	rec := do(t, s.Handler(), "POST", "/windows/0x10/resize", `{"width": -1000, "height": -1000, "relative": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	res := decode[service.MutationResult](t, rec)
	if res.Confirmed || res.Window.Rect.Width() != 800 || res.Window.Rect.Height() != 600 {
		t.Fatalf("result = %+v", res)
	}
	if reqs := fake.Requests(); len(reqs) != 0 {
		t.Fatalf("requests = %v, want none", reqs)
	}
}

func TestActiveWindow(t *testing.T) {
	s, fake := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/windows/active", "")
	if got := strings.TrimSpace(rec.Body.String()); got != `{"item":null}` {
		t.Fatalf("no focus body = %s", got)
	}
	fake.SetActive(0x11)
	body := decode[itemBody](t, do(t, s.Handler(), "GET", "/windows/active", ""))
	if body.Item == nil || body.Item.ID != 0x11 {
		t.Fatalf("active = %+v", body.Item)
	}
}

func TestWindowsAt(t *testing.T) {
	s, _ := newTestServer(t)
	body := decode[itemsBody](t, do(t, s.Handler(), "GET", "/windows/at?x=950&y=10", ""))
	if len(body.Items) != 1 || body.Items[0].ID != 0x11 {
		t.Fatalf("items = %+v", body.Items)
	}
	if rec := do(t, s.Handler(), "GET", "/windows/at?x=a", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad coordinates status = %d", rec.Code)
	}
}

func TestMoveAndResize(t *testing.T) {
	s, fake := newTestServer(t)

	rec := do(t, s.Handler(), "POST", "/windows/0x10/move", `{"x": 100, "y": 50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d, body %s", rec.Code, rec.Body)
	}
	res := decode[service.MutationResult](t, rec)
	if !res.Confirmed || res.Window.Rect.Left != 100 || res.Window.Rect.Top != 50 {
		t.Fatalf("move result = %+v", res)
	}

	rec = do(t, s.Handler(), "POST", "/windows/0x10/resize", `{"width": 10, "height": 20, "relative": true}`)
	res = decode[service.MutationResult](t, rec)
	if !res.Confirmed || res.Window.Rect.Width() != 810 || res.Window.Rect.Height() != 620 {
		t.Fatalf("resize result = %+v", res)
	}
	if w, _ := fake.Get(0x10); w.Geometry != (window.Geometry{X: 100, Y: 50, Width: 810, Height: 620}) {
		t.Fatalf("fake geometry = %+v", w.Geometry)
	}

	cases := []struct {
		path, body string
	}{
		{"/windows/0x10/move", `{"x": "left"}`},
		{"/windows/0x10/move", `{"z": 1}`},
		{"/windows/0x10/resize", `{"width": 0, "height": 10}`},
	}
	for _, tc := range cases {
		if rec := do(t, s.Handler(), "POST", tc.path, tc.body); rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("POST %s %s = %d, want 422", tc.path, tc.body, rec.Code)
		}
	}
}

func TestMoveNegativeIsNotConfirmed(t *testing.T) {
	s, fake := newTestServer(t)
	res := decode[service.MutationResult](t, do(t, s.Handler(), "POST", "/windows/0x10/move", `{"x": -1, "y": 5}`))
	if res.Confirmed {
		t.Fatalf("negative move confirmed")
	}
	if len(fake.Requests()) != 0 {
		t.Fatalf("requests = %v", fake.Requests())
	}
}

func TestActions(t *testing.T) {
	s, fake := newTestServer(t)

	res := decode[service.MutationResult](t, do(t, s.Handler(), "POST", "/windows/0x10/maximize", ""))
	if !res.Confirmed || !res.Window.Maximized {
		t.Fatalf("maximize = %+v", res)
	}
	res = decode[service.MutationResult](t, do(t, s.Handler(), "POST", "/windows/0x10/restore", `{"wait": true}`))
	if !res.Confirmed || res.Window.Maximized || res.Window.Rect.Width() != 800 {
		t.Fatalf("restore = %+v", res)
	}
	res = decode[service.MutationResult](t, do(t, s.Handler(), "POST", "/windows/0x11/activate", `{"wait": false}`))
	if !res.Confirmed || !res.Window.Active {
		t.Fatalf("activate = %+v", res)
	}
	if rec := do(t, s.Handler(), "POST", "/windows/0x10/explode", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown action status = %d", rec.Code)
	}

	reqs := fake.Requests()
	if len(reqs) == 0 || reqs[len(reqs)-1] != "activate 0x00000011" {
		t.Fatalf("requests = %v", reqs)
	}
}

func TestCloseWindow(t *testing.T) {
	s, fake := newTestServer(t)
	if rec := do(t, s.Handler(), "DELETE", "/windows/0x10", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("close status = %d", rec.Code)
	}
	if rec := do(t, s.Handler(), "DELETE", "/windows/0x99", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("close unknown status = %d", rec.Code)
	}
	if reqs := fake.Requests(); len(reqs) != 1 || reqs[0] != "close 0x00000010" {
		t.Fatalf("requests = %v", reqs)
	}
}

func TestCursorAndScreen(t *testing.T) {
	s, fake := newTestServer(t)
	fake.SetPointer(window.Point{X: 3, Y: 4})
	if p := decode[window.Point](t, do(t, s.Handler(), "GET", "/cursor", "")); p != (window.Point{X: 3, Y: 4}) {
		t.Fatalf("cursor = %+v", p)
	}
	if size := decode[window.Size](t, do(t, s.Handler(), "GET", "/screen", "")); size != (window.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("screen = %+v", size)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&window.LookupError{ID: 1, Op: "get geometry"}, http.StatusNotFound},
		{&window.UnsupportedError{Op: "minimize", Reason: "x"}, http.StatusNotImplemented},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestEventsStream(t *testing.T) {
	s, fake := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/events", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	read := func() Event {
		t.Helper()
		var ev Event
		if err := wsjson.Read(ctx, c, &ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		return ev
	}

	ev := read()
	if ev.Type != EventWindows || len(ev.Windows) != 2 || ev.Windows[0] != 0x10 {
		t.Fatalf("first event = %+v", ev)
	}
	ev = read()
	if ev.Type != EventActive || ev.Window != nil {
		t.Fatalf("second event = %+v", ev)
	}

	fake.SetActive(0x11)
	ev = read()
	if ev.Type != EventActive || ev.Window == nil || ev.Window.ID != 0x11 {
		t.Fatalf("focus event = %+v", ev)
	}

	fake.Add(0x12, "Browser", window.Geometry{Width: 100, Height: 100})
	ev = read()
	if ev.Type != EventWindows || len(ev.Windows) != 3 {
		t.Fatalf("windows event = %+v", ev)
	}
}
