package squad

import "github.com/lobsterleague/fpl-companion/internal/domain/catalog"

// Pick is one squad slot after normalization and enrichment.
type Pick struct {
	ElementID     int
	Name          string
	Position      catalog.Position
	TeamID        int
	TeamLabel     string
	Points        *int // nil until a points source resolves
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
}

// EffectivePoints applies the captaincy multiplier to the raw live score.
func EffectivePoints(raw, multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return raw * multiplier
}

// Meta identifies the entry a squad belongs to.
type Meta struct {
	EntryID     int
	TeamName    string
	ManagerName string
	Gameweek    int
}

type Squad struct {
	Meta  Meta
	Picks []Pick
}

// TotalPoints sums effective points across picks that resolved a score.
func (s Squad) TotalPoints() int {
	total := 0
	for _, p := range s.Picks {
		if p.Points != nil {
			total += *p.Points
		}
	}
	return total
}
