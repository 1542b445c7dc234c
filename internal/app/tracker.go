// Package service runs the tracker cycle: fetch games, advance the streak
// record, persist it, and rank it against the historical leaderboard.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/onbase/internal/adapters/repository"
	"github.com/okian/onbase/internal/adapters/statsapi"
	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/outcome"
	"github.com/okian/onbase/internal/domain/ranking"
	"github.com/okian/onbase/internal/domain/streak"
	"github.com/okian/onbase/pkg/logger"
	"github.com/okian/onbase/pkg/metrics"
)

// RecordSource supplies completed game records, most recent first.
type RecordSource interface {
	Records(ctx context.Context) ([]model.GameRecord, []statsapi.Warning, error)
}

// Result is everything one refresh produced for display.
type Result struct {
	RunID       string                   `json:"run_id"`
	RefreshedAt time.Time                `json:"refreshed_at"`
	Player      model.Player             `json:"player"`
	Seasons     []int                    `json:"seasons"`
	Record      model.StreakRecord       `json:"record"`
	Change      streak.Change            `json:"change"`
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	Games       []model.GameOutcome      `json:"games"`
	CurrentRank int                      `json:"current_rank,omitempty"`
	Warnings    []statsapi.Warning       `json:"warnings"`
}

// Tracker owns one player's streak record. Refresh calls are serialized so
// the load, transition and save sequence never interleaves within a process.
type Tracker struct {
	mu sync.Mutex

	feed      RecordSource
	store     repository.Store
	player    model.Player
	reference []model.LeaderboardEntry
	seasons   []int

	streakOpts streak.Options
	now        func() time.Time
	logger     logger.Logger

	lastMu  sync.RWMutex
	last    Result
	hasLast bool
}

// New constructs a Tracker. The reference set defaults to empty and the
// streak policy to ending on a computed streak of zero.
func New(feed RecordSource, store repository.Store, player model.Player, opts ...Option) *Tracker {
	t := &Tracker{
		feed:       feed,
		store:      store,
		player:     player,
		streakOpts: streak.Options{EndOnZero: true},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logger.Get()
	}
	return t
}

// Refresh runs one full cycle. When persisting fails the returned Result is
// still complete and the error wraps repository.ErrWriteFailed.
func (t *Tracker) Refresh(ctx context.Context) (res Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.now()
	runID := uuid.NewString()
	log := t.logger.With(logger.String("run_id", runID))
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			log.Error(ctx, "refresh failed", logger.Error(err))
		}
		metrics.RecordRefresh(status, time.Since(start).Seconds())
	}()

	records, warnings, err := t.feed.Records(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch game records: %w", err)
	}

	outcomes, err := outcome.Derive(records)
	if err != nil {
		return Result{}, fmt.Errorf("derive outcomes: %w", err)
	}
	log.Debug(ctx, "derived outcomes", logger.Int("games", len(outcomes)))

	stored, err := repository.LoadOrDefault(ctx, t.store, log)
	if err != nil {
		return Result{}, fmt.Errorf("load streak record: %w", err)
	}

	record, change := streak.Transition(stored, outcomes, t.streakOpts)
	metrics.RecordTransition(string(change))

	var persistErr error
	if change != streak.ChangeNone {
		log.Info(ctx, "streak changed",
			logger.String("change", string(change)),
			logger.Int("from", stored.Streak),
			logger.Int("to", record.Streak),
		)
		if err := t.store.Save(ctx, record); err != nil {
			persistErr = fmt.Errorf("persist streak record: %w", err)
		}
	}

	now := t.now()
	board := ranking.Rank(t.reference, record, t.player, now)

	if persistErr == nil {
		if ranked, ok := ranking.AssignFinalRank(record, board, t.player.Name); ok {
			log.Info(ctx, "final rank assigned", logger.Int("rank", *ranked.FinalRank))
			if err := t.store.Save(ctx, ranked); err != nil {
				persistErr = fmt.Errorf("persist final rank: %w", err)
			}
			record = ranked
		}
	}

	rank, _ := ranking.RankOf(board, t.player.Name)
	metrics.UpdateStreak(record.Streak, record.Active())
	metrics.UpdateLeaderboardRank(rank)

	res = Result{
		RunID:       runID,
		RefreshedAt: now,
		Player:      t.player,
		Seasons:     append([]int(nil), t.seasons...),
		Record:      record,
		Change:      change,
		Leaderboard: board,
		Games:       windowGames(record),
		CurrentRank: rank,
		Warnings:    warnings,
	}
	if res.Warnings == nil {
		res.Warnings = []statsapi.Warning{}
	}
	t.lastMu.Lock()
	t.last, t.hasLast = res, true
	t.lastMu.Unlock()

	log.Info(ctx, "refresh complete",
		logger.String("status", string(record.Status)),
		logger.Int("streak", record.Streak),
		logger.Int("rank", rank),
		logger.Int("warnings", len(warnings)),
	)
	return res, persistErr
}

// Last returns the most recent Result, if any refresh has completed.
func (t *Tracker) Last() (Result, bool) {
	t.lastMu.RLock()
	defer t.lastMu.RUnlock()
	return t.last, t.hasLast
}

// windowGames is the record's own snapshot: the games of the active run as
// last extended, or the frozen games of an ended one.
func windowGames(record model.StreakRecord) []model.GameOutcome {
	return append([]model.GameOutcome{}, record.Games...)
}
