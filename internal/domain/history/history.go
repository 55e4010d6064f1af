package history

import "time"

// Snapshot is one archived standings capture kept by the backend.
type Snapshot struct {
	LeagueID int64
	Gameweek int
	TakenAt  time.Time
	Label    string
}

// Tenure summarizes how long a manager has played, derived from the
// entry's past-season list.
type Tenure struct {
	EntryID          int
	SeasonsPlayed    int
	FirstSeason      string
	PlayingSinceYear int // 0 when no season parsed
	Seasons          []string
}
