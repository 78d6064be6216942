// Package web serves the mind map: scene and statistics as JSON, interaction
// sessions that return draw commands, SVG/PNG exports and SSE updates.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ritzau/mindmap/pkg/interact"
	"github.com/ritzau/mindmap/pkg/logging"
	"github.com/ritzau/mindmap/pkg/pubsub"
	"github.com/ritzau/mindmap/pkg/render"
	"github.com/ritzau/mindmap/pkg/scene"
	"github.com/ritzau/mindmap/pkg/stats"
)

//go:embed static/*
var staticFiles embed.FS

var log = logging.New("web")

// ErrUnknownSession is returned for session ids the server does not know
var ErrUnknownSession = errors.New("unknown session")

// ErrNoScene is returned while no dataset has been loaded
var ErrNoScene = errors.New("dataset not loaded")

// DefaultSessionTTL is how long a session may go unused before it is dropped
const DefaultSessionTTL = 30 * time.Minute

// SessionRequest creates an interaction session
type SessionRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SessionResponse describes a new session and its first frame
type SessionResponse struct {
	ID       string           `json:"id"`
	State    interact.State   `json:"state"`
	Commands []render.Command `json:"commands"`
}

// EventResponse is the outcome of one interaction event
type EventResponse struct {
	interact.Result
	Commands []render.Command `json:"commands,omitempty"` // Only when Redraw is set
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	publisher *pubsub.SSEPublisher

	// SessionTTL bounds idle sessions; tabs that die never send DELETE
	SessionTTL time.Duration

	mu       sync.RWMutex
	scene    *scene.Scene
	sessions map[string]*session
}

type session struct {
	ctrl     *interact.Controller
	lastSeen atomic.Int64 // Unix nanoseconds
}

func newSession(ctrl *interact.Controller) *session {
	sess := &session{ctrl: ctrl}
	sess.touch()
	return sess
}

func (s *session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// NewServer creates a server without a scene. Scene-dependent endpoints
// answer 503 until SetScene is called.
func NewServer() *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// Late subscribers only need the current state
	ssePublisher.ConfigureTopic(pubsub.TopicDatasetStatus, pubsub.TopicConfig{BufferSize: 10})
	ssePublisher.ConfigureTopic(pubsub.TopicScene, pubsub.TopicConfig{BufferSize: 5})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
		sessions:  make(map[string]*session),

		SessionTTL: DefaultSessionTTL,
	}
	s.setupRoutes()
	return s
}

// Publisher returns the publisher feeding the SSE endpoints
func (s *Server) Publisher() pubsub.Publisher {
	return s.publisher
}

// SetScene swaps in a new scene and re-binds every open session to it
func (s *Server) SetScene(sc *scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scene = sc
	for _, sess := range s.sessions {
		sess.ctrl.Rebind(sc)
	}
	log.Debug("scene updated", "sessions", len(s.sessions))
}

func (s *Server) currentScene() (*scene.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scene == nil {
		return nil, ErrNoScene
	}
	return s.scene, nil
}

func (s *Server) session(id string) (*interact.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	sess.touch()
	return sess.ctrl, nil
}

// sweepSessions drops sessions not used since cutoff and returns how many
func (s *Server) sweepSessions(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff.UnixNano() {
			delete(s.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		log.Info("expired idle sessions", "dropped", dropped, "open", len(s.sessions))
	}
	return dropped
}

func (s *Server) expireSessions(ctx context.Context) {
	if s.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.SessionTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweepSessions(now.Add(-s.SessionTTL))
		}
	}
}

// Handler returns the router wrapped in request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/{topic:dataset_status|scene}", s.handleSubscribe).Methods("GET")

	// API routes - more specific routes must come first
	s.router.HandleFunc("/api/scene", s.handleScene).Methods("GET")
	s.router.HandleFunc("/api/stats", s.handleStats).Methods("GET")
	s.router.HandleFunc("/api/contributors", s.handleContributors).Methods("GET")
	s.router.HandleFunc("/api/contributors/{name}", s.handleContributor).Methods("GET")

	s.router.HandleFunc("/api/sessions", s.handleCreateSession).Methods("POST")
	s.router.HandleFunc("/api/sessions/{id}/events", s.handleSessionEvent).Methods("POST")
	s.router.HandleFunc("/api/sessions/{id}/render.svg", s.handleRenderSVG).Methods("GET")
	s.router.HandleFunc("/api/sessions/{id}/render.png", s.handleRenderPNG).Methods("GET")
	s.router.HandleFunc("/api/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("failed to open embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	// Initial comment establishes the connection in Safari
	fmt.Fprintf(w, ": connected\n\n")
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			log.DebugContext(r.Context(), "SSE client gone", "topic", topic, "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.currentScene()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, sc.View())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	key, err := stats.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sc, err := s.currentScene()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	summary := stats.Summarize(sc.Dataset, sc.Aggregate)
	summary.Words = summary.Words.Sorted(key)
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleContributors(w http.ResponseWriter, r *http.Request) {
	sc, err := s.currentScene()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	names := sc.Dataset.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, r, http.StatusOK, names)
}

func (s *Server) handleContributor(w http.ResponseWriter, r *http.Request) {
	sc, err := s.currentScene()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	individual, err := stats.ForContributor(sc.Dataset, mux.Vars(r)["name"])
	if errors.Is(err, stats.ErrUnknownContributor) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, individual)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid session request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.scene == nil {
		s.mu.Unlock()
		http.Error(w, ErrNoScene.Error(), http.StatusServiceUnavailable)
		return
	}
	id := uuid.NewString()
	ctrl := interact.NewController(s.scene, req.Width, req.Height)
	s.sessions[id] = newSession(ctrl)
	open := len(s.sessions)
	s.mu.Unlock()

	log.InfoContext(r.Context(), "session created", "session", id, "width", req.Width, "height", req.Height, "open", open)
	writeJSON(w, r, http.StatusCreated, SessionResponse{
		ID:       id,
		State:    ctrl.State(),
		Commands: ctrl.Frame(),
	})
}

func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.session(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var ev interact.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, fmt.Sprintf("invalid event: %v", err), http.StatusBadRequest)
		return
	}
	if err := validateEvent(ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, cmds := ctrl.Handle(ev)
	writeJSON(w, r, http.StatusOK, EventResponse{Result: res, Commands: cmds})
}

func validateEvent(ev interact.Event) error {
	switch ev.Type {
	case interact.EventPointerDown, interact.EventPointerUp, interact.EventPointerLeave,
		interact.EventPointerMove, interact.EventWheel, interact.EventSelect, interact.EventHighlight:
		return nil
	case interact.EventResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return errors.New("resize needs a positive width and height")
		}
		return nil
	}
	return fmt.Errorf("unknown event type %q", ev.Type)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.renderSession(w, r, "image/svg+xml", render.WriteSVG)
}

func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	s.renderSession(w, r, "image/png", render.WritePNG)
}

type sink func(w io.Writer, cmds []render.Command, width, height int) error

func (s *Server) renderSession(w http.ResponseWriter, r *http.Request, contentType string, write sink) {
	ctrl, err := s.session(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	st := ctrl.State()
	var buf bytes.Buffer
	if err := write(&buf, ctrl.Frame(), int(st.Width), int(st.Height)); err != nil {
		log.ErrorContext(r.Context(), "render failed", "error", err)
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, fmt.Sprintf("%v: %s", ErrUnknownSession, id), http.StatusNotFound)
		return
	}
	log.DebugContext(r.Context(), "session closed", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.DebugContext(r.Context(), "failed to write response", "error", err)
	}
}

// Start serves on port until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.expireSessions(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Closing the publisher ends open SSE streams so Shutdown can finish
		_ = s.publisher.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown incomplete", "error", err)
		}
	}()

	log.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}
