// Package streak computes on-base run lengths and advances the persisted
// streak record through its active/ended lifecycle.
package streak

import (
	"github.com/okian/onbase/internal/domain/model"
)

// Change names the transition Transition applied.
type Change string

// Transition outcomes.
const (
	ChangeNone     Change = "none"
	ChangeExtended Change = "extended"
	ChangeEnded    Change = "ended"
)

// Options tunes the state machine.
type Options struct {
	// EndOnZero lets a computed streak of 0 end an active streak. Without it
	// an active streak broken by its most recent game stays active until a
	// later game reaches base.
	EndOnZero bool
}

// Calculate returns the number of leading games, most recent first, in
// which the player reached base. It stops at the first game without.
func Calculate(outcomes []model.GameOutcome) int {
	n := 0
	for _, g := range outcomes {
		if !g.ReachedBase {
			break
		}
		n++
	}
	return n
}

// Transition compares stored against the streak computed from outcomes
// (most recent first) and returns the next record. At most one transition
// fires, checked in order: end, extend, none. stored is never modified.
func Transition(stored model.StreakRecord, outcomes []model.GameOutcome, opts Options) (model.StreakRecord, Change) {
	current := Calculate(outcomes)

	if shouldEnd(stored, current, len(outcomes), opts) {
		next := stored.Clone()
		next.Status = model.StatusEnded
		next.EndDate = model.DatePtr(outcomes[0].Date)
		next.Games = snapshot(outcomes, stored.Streak)
		return next, ChangeEnded
	}

	if current > stored.Streak {
		return model.StreakRecord{
			Status:    model.StatusActive,
			Streak:    current,
			StartDate: model.DatePtr(outcomes[current-1].Date),
			Games:     snapshot(outcomes, current),
		}, ChangeExtended
	}

	return stored, ChangeNone
}

func shouldEnd(stored model.StreakRecord, current, available int, opts Options) bool {
	if !stored.Active() || current >= stored.Streak || available == 0 {
		return false
	}
	return current != 0 || opts.EndOnZero
}

// snapshot copies the n most recent outcomes, or all of them if fewer exist.
func snapshot(outcomes []model.GameOutcome, n int) []model.GameOutcome {
	n = min(n, len(outcomes))
	return append([]model.GameOutcome{}, outcomes[:n]...)
}
