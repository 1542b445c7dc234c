// Package ranking merges the tracked streak into the historical leaderboard.
package ranking

import (
	"fmt"
	"slices"
	"time"

	"github.com/okian/onbase/internal/domain/model"
)

// Rank returns the leaderboard with the tracked player's row rebuilt from
// record. Any prior row for the player is dropped, rows with no streak are
// filtered out, and the rest are ordered by streak length, longest first.
// Ties keep their reference order. Rank is the 1-based position.
func Rank(reference []model.LeaderboardEntry, record model.StreakRecord, player model.Player, now time.Time) []model.LeaderboardEntry {
	merged := make([]model.LeaderboardEntry, 0, len(reference)+1)
	for _, e := range reference {
		if e.Name == player.Name {
			continue
		}
		merged = append(merged, e)
	}
	merged = append(merged, Entry(record, player, now))

	out := merged[:0]
	for _, e := range merged {
		if e.Streak > 0 {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b model.LeaderboardEntry) int {
		return b.Streak - a.Streak
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Entry synthesizes the tracked player's leaderboard row.
func Entry(record model.StreakRecord, player model.Player, now time.Time) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		Name:    player.Name,
		Team:    player.Team,
		Streak:  record.Streak,
		Seasons: SeasonsLabel(record, now),
	}
}

// SeasonsLabel is "{startYear}–{currentYear}" for an active streak and
// "{startDate} to {endDate}" for an ended one.
func SeasonsLabel(record model.StreakRecord, now time.Time) string {
	if record.Active() {
		start := now.Year()
		if record.StartDate != nil {
			start = record.StartDate.Year()
		}
		return fmt.Sprintf("%d–%d", start, now.Year())
	}
	return fmt.Sprintf("%s to %s", dateOrUnknown(record.StartDate), dateOrUnknown(record.EndDate))
}

func dateOrUnknown(d *model.Date) string {
	if d == nil {
		return "?"
	}
	return d.String()
}

// RankOf returns the rank of the named player, if present.
func RankOf(entries []model.LeaderboardEntry, name string) (int, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Rank, true
		}
	}
	return 0, false
}

// AssignFinalRank records the player's rank on an ended streak that has not
// been ranked yet. It reports whether the record changed; a record that
// already carries a final rank is returned untouched.
func AssignFinalRank(record model.StreakRecord, entries []model.LeaderboardEntry, name string) (model.StreakRecord, bool) {
	if record.Active() || record.FinalRank != nil {
		return record, false
	}
	rank, ok := RankOf(entries, name)
	if !ok {
		return record, false
	}
	next := record.Clone()
	next.FinalRank = &rank
	return next, true
}
