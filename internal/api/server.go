// Package api serves window operations over HTTP, with a websocket feed
// of focus and client-list changes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/1broseidon/winctl/internal/service"
	"github.com/1broseidon/winctl/internal/window"
)

// DefaultPollInterval is how often /events re-reads the window list.
const DefaultPollInterval = 250 * time.Millisecond

// Server is the HTTP front end over a service.Service.
type Server struct {
	server       *http.Server
	svc          *service.Service
	logger       *slog.Logger
	pollInterval time.Duration
}

// NewServer builds a server listening on addr. It does not start
// listening until Serve or ListenAndServe is called.
func NewServer(svc *service.Service, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		svc:          svc,
		logger:       logger,
		pollInterval: DefaultPollInterval,
	}
	// No read/write timeouts: mutations may wait out the whole retry
	// budget and /events connections are long-lived.
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.server.Addr }

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. A clean Shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("listening", "addr", "http://"+ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(requestID)

	router.HandleFunc("/windows/", s.handleList).Methods("GET")
	router.HandleFunc("/windows/active", s.handleActive).Methods("GET")
	router.HandleFunc("/windows/at", s.handleAt).Methods("GET")
	router.HandleFunc("/windows/{id}", s.handleInfo).Methods("GET")
	router.HandleFunc("/windows/{id}", s.handleClose).Methods("DELETE")
	router.HandleFunc("/windows/{id}/move", s.handleMove).Methods("POST")
	router.HandleFunc("/windows/{id}/resize", s.handleResize).Methods("POST")
	router.HandleFunc("/windows/{id}/{action:[a-z]+}", s.handleAction).Methods("POST")
	router.HandleFunc("/cursor", s.handleCursor).Methods("GET")
	router.HandleFunc("/screen", s.handleScreen).Methods("GET")
	router.HandleFunc("/events", s.handleEvents).Methods("GET")

	router.PathPrefix("/").Handler(http.NotFoundHandler())
	return router
}

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDHeader carries the per-request id, echoed from the client or
// generated.
const RequestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.logger.Debug("request", "status", status, "method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to write response", "path", r.URL.Path, "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.jsonResponse(w, r, status, errorBody{Error: err.Error()})
}

// statusFor maps session errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, window.ErrWindowLookup):
		return http.StatusNotFound
	case errors.Is(err, window.ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", requestIDFrom(r), "error", err)
	}
	s.errorResponse(w, r, status, err)
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
