// Package outcome turns raw feed rows into date-ordered game outcomes.
package outcome

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/onbase/internal/domain/model"
)

var errMissing = errors.New("missing value")

// Derive validates raw records, computes ReachedBase for each, and returns
// them most recent first. Games on the same date keep their input order.
// All inputs are assumed to be completed games.
func Derive(records []model.GameRecord) ([]model.GameOutcome, error) {
	out := make([]model.GameOutcome, 0, len(records))
	for i, r := range records {
		g, err := derive(r)
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Index = i
			}
			return nil, err
		}
		out = append(out, g)
	}

	slices.SortStableFunc(out, func(a, b model.GameOutcome) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out, nil
}

func derive(r model.GameRecord) (model.GameOutcome, error) {
	fail := func(field string, err error) (model.GameOutcome, error) {
		return model.GameOutcome{}, &RecordError{GamePK: r.GamePK, Field: field, Err: err}
	}

	if r.GamePK <= 0 {
		return fail("gamePk", errMissing)
	}
	if strings.TrimSpace(r.Date) == "" {
		return fail("date", errMissing)
	}
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return fail("date", err)
	}
	if strings.TrimSpace(r.Opponent) == "" {
		return fail("opponent", errMissing)
	}

	season, err := count(r.Season)
	if err != nil {
		return fail("season", err)
	}
	hits, err := count(r.Hits)
	if err != nil {
		return fail("hits", err)
	}
	walks, err := count(r.Walks)
	if err != nil {
		return fail("walks", err)
	}
	hbp, err := count(r.HitByPitch)
	if err != nil {
		return fail("hitByPitch", err)
	}
	pa, err := count(r.PlateAppearances)
	if err != nil {
		return fail("plateAppearances", err)
	}

	return model.GameOutcome{
		GamePK:           r.GamePK,
		Date:             date,
		Season:           season,
		Opponent:         r.Opponent,
		Hits:             hits,
		Walks:            walks,
		HitByPitch:       hbp,
		PlateAppearances: pa,
		ReachedBase:      model.ReachedBase(hits, walks, hbp),
	}, nil
}

// count parses a non-negative integer stat.
func count(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMissing
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value: %d", n)
	}
	return n, nil
}
