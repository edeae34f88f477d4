package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
)

type itemsBody struct {
	Items []window.Snapshot `json:"items"`
}

type itemBody struct {
	Item *window.Snapshot `json:"item"`
}

// MoveRequest is the body of POST /windows/{id}/move.
type MoveRequest struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	Relative bool  `json:"relative,omitempty"`
	Wait     *bool `json:"wait,omitempty"`
}

// ResizeRequest is the body of POST /windows/{id}/resize.
type ResizeRequest struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	Relative bool  `json:"relative,omitempty"`
	Wait     *bool `json:"wait,omitempty"`
}

// ActionRequest is the optional body of POST /windows/{id}/{action}.
type ActionRequest struct {
	Wait *bool `json:"wait,omitempty"`
}

func waitOrDefault(wait *bool) bool {
	return wait == nil || *wait
}

// windowID parses the {id} route variable. An unparseable id names no
// window, so it is answered with 404 and an error body.
func (s *Server) windowID(w http.ResponseWriter, r *http.Request) (window.ID, bool) {
	id, err := window.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.errorResponse(w, r, http.StatusNotFound, err)
		return 0, false
	}
	return id, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		snaps []window.Snapshot
		err   error
	)
	if title := r.URL.Query().Get("title"); title != "" {
		snaps, err = s.svc.Find(title)
	} else {
		snaps, err = s.svc.List()
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, itemsBody{Items: nonNil(snaps)})
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Active()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, itemBody{Item: snap})
}

func (s *Server) handleAt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		s.errorResponse(w, r, http.StatusUnprocessableEntity, fmt.Errorf("x and y query parameters must be integers"))
		return
	}
	snaps, err := s.svc.At(x, y)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, itemsBody{Items: nonNil(snaps)})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.windowID(w, r)
	if !ok {
		return
	}
	snap, err := s.svc.Info(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, itemBody{Item: &snap})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := s.windowID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Close(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("close requested", "window_id", id, "request_id", requestIDFrom(r))
	s.jsonResponse(w, r, http.StatusAccepted, nil)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.windowID(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	res, err := s.svc.Move(id, req.X, req.Y, req.Relative, waitOrDefault(req.Wait))
	s.mutationResponse(w, r, "move", id, res, err)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	id, ok := s.windowID(w, r)
	if !ok {
		return
	}
	var req ResizeRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	if !req.Relative && (req.Width <= 0 || req.Height <= 0) {
		s.errorResponse(w, r, http.StatusUnprocessableEntity, fmt.Errorf("width and height must be > 0"))
		return
	}
	res, err := s.svc.Resize(id, req.Width, req.Height, req.Relative, waitOrDefault(req.Wait))
	s.mutationResponse(w, r, "resize", id, res, err)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.windowID(w, r)
	if !ok {
		return
	}
	action, err := window.ParseAction(mux.Vars(r)["action"])
	if err != nil {
		s.errorResponse(w, r, http.StatusNotFound, err)
		return
	}
	var req ActionRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	res, err := s.svc.Do(id, action, waitOrDefault(req.Wait))
	s.mutationResponse(w, r, string(action), id, res, err)
}

func (s *Server) mutationResponse(w http.ResponseWriter, r *http.Request, op string, id window.ID, res service.MutationResult, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("window changed", "op", op, "window_id", id, "confirmed", res.Confirmed, "request_id", requestIDFrom(r))
	s.jsonResponse(w, r, http.StatusOK, res)
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Cursor()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, p)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	size, err := s.svc.Screen()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, size)
}

func nonNil(snaps []window.Snapshot) []window.Snapshot {
	if snaps == nil {
		return []window.Snapshot{}
	}
	return snaps
}
