package model

// GameRecord is one raw per-game row as supplied by the stats feed. Numeric
// stats stay as strings here; the outcome deriver validates them.
type GameRecord struct {
	GamePK           int
	Date             string
	Season           string
	Opponent         string
	Hits             string
	Walks            string
	HitByPitch       string
	PlateAppearances string
}

// GameOutcome is a completed game reduced to what the streak needs.
type GameOutcome struct {
	GamePK           int    `json:"game_pk,omitempty"`
	Date             Date   `json:"date"`
	Season           int    `json:"season"`
	Opponent         string `json:"opponent"`
	Hits             int    `json:"hits"`
	Walks            int    `json:"walks"`
	HitByPitch       int    `json:"hbp"`
	PlateAppearances int    `json:"pa"`
	ReachedBase      bool   `json:"reached_base"`
}

// ReachedBase reports whether a batter with these counts reached base safely.
func ReachedBase(hits, walks, hitByPitch int) bool {
	return hits+walks+hitByPitch > 0
}
