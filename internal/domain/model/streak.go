package model

// Status is the lifecycle state of a tracked streak.
type Status string

// Streak states.
const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// StreakRecord is the persisted state of the tracked player's streak.
//
// While Status is active, EndDate and FinalRank are nil. Once ended, EndDate
// and Games are frozen and FinalRank is written at most once.
type StreakRecord struct {
	Status    Status        `json:"status"`
	Streak    int           `json:"streak"`
	StartDate *Date         `json:"start_date"`
	EndDate   *Date         `json:"end_date"`
	Games     []GameOutcome `json:"games"`
	FinalRank *int          `json:"final_rank"`
}

// DefaultRecord is the state used when nothing has been persisted yet.
func DefaultRecord() StreakRecord {
	return StreakRecord{
		Status: StatusActive,
		Games:  []GameOutcome{},
	}
}

// Active reports whether the streak is still running.
func (r StreakRecord) Active() bool {
	return r.Status == StatusActive
}

// Clone returns a deep copy so callers can treat records as values.
func (r StreakRecord) Clone() StreakRecord {
	out := r
	if r.StartDate != nil {
		out.StartDate = DatePtr(*r.StartDate)
	}
	if r.EndDate != nil {
		out.EndDate = DatePtr(*r.EndDate)
	}
	if r.FinalRank != nil {
		rank := *r.FinalRank
		out.FinalRank = &rank
	}
	out.Games = append([]GameOutcome{}, r.Games...)
	return out
}
