// Package api implements the local HTTP + WebSocket bridge for medrag.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/medrag/internal/chat"
)

const shutdownTimeout = 5 * time.Second

// Server is the medrag bridge server.
type Server struct {
	addr    string
	backend chat.Backend
	logger  *slog.Logger
	router  chi.Router
	server  *http.Server

	// sessions counts open WebSocket connections; Shutdown does not see
	// hijacked connections.
	sessions sync.WaitGroup
}

// New creates a bridge server. Every WebSocket connection gets its own
// transcript controller talking to backend.
func New(addr string, backend chat.Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:    addr,
		backend: backend,
		logger:  logger,
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/ws", s.handleWebSocket)
	})
	return r
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Open
// WebSocket sessions are closed and waited for before Run returns.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	s.server.BaseContext = func(net.Listener) context.Context { return gctx }

	g.Go(func() error {
		s.logger.Info("bridge listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("bridge shutting down")
		err := s.server.Shutdown(shutdownCtx)
		s.sessions.Wait()
		return err
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
