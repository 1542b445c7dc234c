package api

import (
	"net/http"
	"time"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/streak"
)

type streakResponse struct {
	RunID       string             `json:"run_id"`
	RefreshedAt time.Time          `json:"refreshed_at"`
	Player      model.Player       `json:"player"`
	Record      model.StreakRecord `json:"record"`
	Change      streak.Change      `json:"change"`
	CurrentRank int                `json:"current_rank,omitempty"`
}

// StreakHandler serves the current streak record.
type StreakHandler struct {
	deps Dependencies
}

// NewStreakHandler creates a new streak handler.
func NewStreakHandler(deps Dependencies) *StreakHandler {
	return &StreakHandler{deps: deps}
}

// HandleGetStreak handles GET /streak requests.
func (h *StreakHandler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res, ok := lastResult(w, h.deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{
		RunID:       res.RunID,
		RefreshedAt: res.RefreshedAt,
		Player:      res.Player,
		Record:      res.Record,
		Change:      res.Change,
		CurrentRank: res.CurrentRank,
	})
}

// GamesHandler serves the game outcomes of the streak window.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleGetGames handles GET /games requests.
func (h *GamesHandler) HandleGetGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res, ok := lastResult(w, h.deps)
	if !ok {
		return
	}
	games := res.Games
	if games == nil {
		games = []model.GameOutcome{}
	}
	writeJSON(w, http.StatusOK, games)
}
