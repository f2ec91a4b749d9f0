// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/ratingscope/internal/domain/types"
	"github.com/okian/ratingscope/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Lookup returns the profile for id, with debug data when debug is true.
	Lookup(ctx context.Context, id string, debug bool) (types.LookupResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	playerHandler *PlayerHandler
	warmHandler   *WarmHandler
	logger        logger.Logger
}

// ServerOption configures optional routes.
type ServerOption func(*Server)

// WithWarmer enables POST /warm backed by w.
func WithWarmer(w Warmer) ServerOption {
	return func(s *Server) {
		if w == nil {
			return
		}
		s.warmHandler = NewWarmHandler(w)
		if q, ok := w.(queueLen); ok {
			s.statsHandler.queue = q
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger, opts ...ServerOption) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		playerHandler: NewPlayerHandler(deps, log),
		logger:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players/", s.wrap(s.playerHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/opponent", s.wrap(s.playerHandler.HandlePostOpponent, "opponent"))
	if s.warmHandler != nil {
		mux.HandleFunc("/warm", s.wrap(s.warmHandler.HandleWarm, "warm"))
	}
	mux.HandleFunc("/", s.wrap(handleNotFound, "root"))
}

func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint), s.logger)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
