package fixture

import "time"

// Stat identifiers carried on finished and in-play fixtures.
const StatBonus = "bonus"

// StatValue is one element/value pair inside a fixture stat block.
type StatValue struct {
	Element int `json:"element"`
	Value   int `json:"value"`
}

// Stat groups a fixture statistic into home and away contributions.
type Stat struct {
	Identifier string      `json:"identifier"`
	Home       []StatValue `json:"h"`
	Away       []StatValue `json:"a"`
}

type Fixture struct {
	ID                  int
	Event               int // 0 when the fixture is unscheduled
	KickoffAt           *time.Time
	Started             bool
	Finished            bool
	FinishedProvisional bool
	HomeTeamID          int
	AwayTeamID          int
	HomeScore           *int
	AwayScore           *int
	HomeDifficulty      int
	AwayDifficulty      int
	Stats               []Stat
}

// Live reports whether the fixture has kicked off but is not yet settled.
func (f Fixture) Live() bool {
	return f.Started && !f.Finished && !f.FinishedProvisional
}

// StageRank orders fixtures for display: upcoming first, then live, then
// finished.
func (f Fixture) StageRank() int {
	switch {
	case f.Finished || f.FinishedProvisional:
		return 2
	case f.Started:
		return 1
	default:
		return 0
	}
}
