package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/surveyor"
	"github.com/aretw0/surveyor/pkg/control"
	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource is anything that can report a surveyor snapshot from another goroutine.
type StatusSource interface {
	Snapshot() surveyor.Snapshot
}

// Server exposes a running surveyor over HTTP.
type Server struct {
	Status   StatusSource
	Flags    *control.Flags
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// FlagsView is the JSON form of the control flags.
type FlagsView struct {
	Stop       bool `json:"stop"`
	SingleStep bool `json:"single_step"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status   string            `json:"status"`
	Snapshot surveyor.Snapshot `json:"snapshot"`
	Flags    FlagsView         `json:"flags"`
}

// NewServer creates a server. gatherer may be nil to disable /metrics.
func NewServer(status StatusSource, flags *control.Flags, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Status:   status,
		Flags:    flags,
		Streams:  NewStreamManager(logger),
		Gatherer: gatherer,
		Logger:   logger,
	}
}

// Handler returns the router for s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/status", s.GetStatus)
	r.Get("/events", s.SubscribeEvents)
	r.Route("/control", func(r chi.Router) {
		r.Post("/{action}", s.Control)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

// Hooks returns lifecycle hooks that broadcast every completed step to /events subscribers.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			data, err := json.Marshal(e)
			if err != nil {
				s.Logger.Error("failed to encode step event", "error", err)
				return
			}
			s.Streams.Broadcast(string(data))
		},
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "surveyor",
		"version": strings.TrimSpace(surveyor.Version),
	})
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Status.Snapshot()
	s.writeJSON(w, StatusResponse{
		Status:   snap.String(),
		Snapshot: snap,
		Flags:    s.flagsView(),
	})
}

// Control handles POST /control/{action}.
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	switch action {
	case "stop":
		s.Flags.RequestStop()
	case "resume":
		s.Flags.ClearStop()
	case "pause":
		s.Flags.EnableSingleStep()
	case "unpause":
		s.Flags.DisableSingleStep()
	case "step":
		s.Flags.Advance()
	default:
		http.Error(w, fmt.Sprintf("unknown control action %q", action), http.StatusNotFound)
		s.Logger.Warn("Control: unknown action", "action", action)
		return
	}
	s.Logger.Info("control flag changed", "action", action)
	s.writeJSON(w, s.flagsView())
}

// SubscribeEvents handles GET /events as a server-sent event stream of step events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: step\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) flagsView() FlagsView {
	return FlagsView{Stop: s.Flags.StopRequested(), SingleStep: s.Flags.PauseRequested()}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// StreamManager fans step events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client.
			sm.logger.Warn("SSE: client buffer full, dropping message")
		}
	}
}
