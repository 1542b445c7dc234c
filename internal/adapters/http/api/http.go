// Package api serves the tracker's read-only JSON surface plus a refresh trigger.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/onbase/internal/adapters/repository"
	"github.com/okian/onbase/internal/adapters/statsapi"
	service "github.com/okian/onbase/internal/app"
	"github.com/okian/onbase/internal/domain/outcome"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the tracker implementation.
type Dependencies interface {
	// Refresh runs one tracker cycle.
	Refresh(ctx context.Context) (service.Result, error)

	// Last returns the most recent completed cycle.
	Last() (service.Result, bool)
}

// Server wires HTTP routes for the tracker API.
type Server struct {
	healthHandler      *HealthHandler
	streakHandler      *StreakHandler
	leaderboardHandler *LeaderboardHandler
	gamesHandler       *GamesHandler
	refreshHandler     *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		streakHandler:      NewStreakHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		gamesHandler:       NewGamesHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/streak", MetricsMiddleware(s.streakHandler.HandleGetStreak, "streak"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleGetGames, "games"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// lastResult writes 503 and reports false until the first refresh completes.
func lastResult(w http.ResponseWriter, deps Dependencies) (service.Result, bool) {
	res, ok := deps.Last()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
	}
	return res, ok
}

// classify maps a refresh failure onto a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, outcome.ErrMalformedRecord):
		return http.StatusBadGateway, "malformed_record"
	case errors.Is(err, statsapi.ErrUpstream), errors.Is(err, statsapi.ErrDecode):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, repository.ErrWriteFailed):
		return http.StatusInternalServerError, "persist_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
