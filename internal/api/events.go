package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/1broseidon/winctl/internal/window"
)

// Event types sent on /events.
const (
	EventWindows = "windows"
	EventActive  = "active"
)

// Event is one message on the /events websocket. Windows is set for
// EventWindows, Window for EventActive (nil when focus left every
// managed window).
type Event struct {
	Type    string           `json:"type"`
	Time    time.Time        `json:"time"`
	Windows []window.ID      `json:"windows,omitempty"`
	Window  *window.Snapshot `json:"window,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.logger.Info("events connect", "remote", r.RemoteAddr, "request_id", requestIDFrom(r))
	defer s.logger.Info("events disconnect", "remote", r.RemoteAddr)
	defer c.Close(websocket.StatusInternalError, "")

	// Clients only listen; a read failure means they went away.
	ctx := c.CloseRead(r.Context())
	if err := s.streamEvents(ctx, c); err != nil && ctx.Err() == nil {
		s.logger.Warn("events stream failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

// streamEvents polls the window list and writes an event whenever the set
// of managed windows or the focused window changes. The current state is
// sent first.
func (s *Server) streamEvents(ctx context.Context, c *websocket.Conn) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var (
		lastIDs    []window.ID
		lastActive window.ID
		first      = true
	)
	for {
		snaps, err := s.svc.List()
		if err != nil {
			return err
		}
		ids := make([]window.ID, 0, len(snaps))
		var active *window.Snapshot
		for i := range snaps {
			ids = append(ids, snaps[i].ID)
			if snaps[i].Active {
				active = &snaps[i]
			}
		}
		now := time.Now()
		if first || !slices.Equal(ids, lastIDs) {
			if err := wsjson.Write(ctx, c, Event{Type: EventWindows, Time: now, Windows: ids}); err != nil {
				return err
			}
			lastIDs = ids
		}
		var activeID window.ID
		if active != nil {
			activeID = active.ID
		}
		if first || activeID != lastActive {
			if err := wsjson.Write(ctx, c, Event{Type: EventActive, Time: now, Window: active}); err != nil {
				return err
			}
			lastActive = activeID
		}
		first = false

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
