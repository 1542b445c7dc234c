package service

import (
	"time"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/streak"
	"github.com/okian/onbase/pkg/logger"
)

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithLogger sets a custom logger for the tracker.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock replaces time.Now, used for seasons labels and timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithStreakOptions sets the state-machine policy.
func WithStreakOptions(o streak.Options) Option {
	return func(t *Tracker) {
		t.streakOpts = o
	}
}

// WithReference sets the historical leaderboard rows.
func WithReference(entries []model.LeaderboardEntry) Option {
	return func(t *Tracker) {
		t.reference = append([]model.LeaderboardEntry(nil), entries...)
	}
}

// WithSeasons records which seasons the feed covers, for display.
func WithSeasons(seasons []int) Option {
	return func(t *Tracker) {
		t.seasons = append([]int(nil), seasons...)
	}
}
