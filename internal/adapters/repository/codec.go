package repository

import (
	"encoding/json"
	"fmt"

	"github.com/okian/onbase/internal/domain/model"
)

func encode(record model.StreakRecord) ([]byte, error) {
	if record.Games == nil {
		record.Games = []model.GameOutcome{}
	}
	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrWriteFailed, err)
	}
	return b, nil
}

// decode parses a stored document. Anything that does not describe a valid
// record is reported as ErrCorrupt.
func decode(b []byte) (model.StreakRecord, error) {
	var rec model.StreakRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.StreakRecord{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	switch {
	case rec.Status != model.StatusActive && rec.Status != model.StatusEnded:
		return model.StreakRecord{}, fmt.Errorf("%w: unknown status %q", ErrCorrupt, rec.Status)
	case rec.Streak < 0:
		return model.StreakRecord{}, fmt.Errorf("%w: negative streak %d", ErrCorrupt, rec.Streak)
	case rec.Active() && (rec.EndDate != nil || rec.FinalRank != nil):
		return model.StreakRecord{}, fmt.Errorf("%w: active record carries an end date or final rank", ErrCorrupt)
	}
	if rec.Games == nil {
		rec.Games = []model.GameOutcome{}
	}
	return rec, nil
}
