package model

// LeaderboardEntry is one row of the all-time on-base streak table.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Team    string `json:"team"`
	Streak  int    `json:"streak"`
	Seasons string `json:"seasons"`
}

// Player identifies the tracked player on the leaderboard.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}
