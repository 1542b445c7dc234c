package statsapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/pkg/logger"
	"github.com/okian/onbase/pkg/metrics"
)

// Warning kinds reported by Feed.Records.
const (
	WarnNoData           = "no_data"
	WarnInProgress       = "in_progress"
	WarnFinalCheckFailed = "final_check_failed"
)

// Warning is a non-fatal problem met while gathering records.
type Warning struct {
	Kind    string `json:"kind"`
	Season  int    `json:"season,omitempty"`
	GamePK  int    `json:"game_pk,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

// Source is the subset of the stats API a Feed needs.
type Source interface {
	GameLogs(ctx context.Context, playerID, season int) ([]model.GameRecord, error)
	IsGameFinal(ctx context.Context, gamePK int) (bool, error)
}

// Feed supplies completed game records for one player across seasons.
type Feed struct {
	src      Source
	playerID int
	seasons  []int
	log      logger.Logger
}

// NewFeed returns a feed over src.
func NewFeed(src Source, playerID int, seasons []int, log logger.Logger) *Feed {
	return &Feed{src: src, playerID: playerID, seasons: slices.Clone(seasons), log: log}
}

// Records fetches every configured season and returns the games most recent
// first. If the most recent game is not final, or its status cannot be
// checked, it is left out and reported as a warning. Seasons without data
// are warnings too. Any other upstream failure is returned.
func (f *Feed) Records(ctx context.Context) ([]model.GameRecord, []Warning, error) {
	var (
		records  []model.GameRecord
		warnings []Warning
	)
	for _, season := range f.seasons {
		logs, err := f.src.GameLogs(ctx, f.playerID, season)
		if errors.Is(err, ErrNoData) {
			w := Warning{
				Kind:    WarnNoData,
				Season:  season,
				Message: fmt.Sprintf("No game log data available yet for the %d season.", season),
			}
			warnings = append(warnings, f.warn(ctx, w))
			continue
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("fetch %d game log: %w", season, err)
		}
		records = append(records, logs...)
	}

	// Upstream logs run oldest first. Reversing before the stable sort keeps
	// same-day games most recent first.
	slices.Reverse(records)
	slices.SortStableFunc(records, func(a, b model.GameRecord) int {
		return strings.Compare(datePart(b.Date), datePart(a.Date))
	})

	if len(records) == 0 {
		return records, warnings, nil
	}

	latest := records[0]
	final, err := f.src.IsGameFinal(ctx, latest.GamePK)
	switch {
	case err != nil:
		warnings = append(warnings, f.warn(ctx, Warning{
			Kind:    WarnFinalCheckFailed,
			GamePK:  latest.GamePK,
			Date:    latest.Date,
			Message: fmt.Sprintf("Could not check game status for gamePk %d: %v", latest.GamePK, err),
		}))
		records = records[1:]
	case !final:
		warnings = append(warnings, f.warn(ctx, Warning{
			Kind:    WarnInProgress,
			GamePK:  latest.GamePK,
			Date:    latest.Date,
			Message: fmt.Sprintf("Game on %s (gamePk %d) is still in progress and was excluded.", datePart(latest.Date), latest.GamePK),
		}))
		records = records[1:]
	}
	return records, warnings, nil
}

func (f *Feed) warn(ctx context.Context, w Warning) Warning {
	metrics.RecordUpstreamWarning(w.Kind)
	f.log.Warn(ctx, w.Message,
		logger.String("kind", w.Kind),
		logger.Int("season", w.Season),
		logger.Int("game_pk", w.GamePK),
	)
	return w
}

func datePart(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(model.DateLayout) {
		return s[:len(model.DateLayout)]
	}
	return s
}
