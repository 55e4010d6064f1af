package fixture

import (
	"sort"
	"time"
)

// SortForDisplay orders fixtures in place by stage (upcoming, live,
// finished) and by kickoff time inside each stage. A missing kickoff sorts
// as the zero time, so undated fixtures lead their stage. The sort is
// stable, so equal fixtures keep their upstream order.
func SortForDisplay(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		si, sj := fixtures[i].StageRank(), fixtures[j].StageRank()
		if si != sj {
			return si < sj
		}
		return kickoffOrZero(fixtures[i]).Before(kickoffOrZero(fixtures[j]))
	})
}

func kickoffOrZero(f Fixture) time.Time {
	if f.KickoffAt == nil {
		return time.Time{}
	}
	return *f.KickoffAt
}
