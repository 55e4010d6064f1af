package squad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePoints(t *testing.T) {
	assert.Equal(t, 8, EffectivePoints(4, 2))
	assert.Equal(t, 4, EffectivePoints(4, 1))
	// Multipliers below one are treated as a plain single score.
	assert.Equal(t, 4, EffectivePoints(4, 0))
	assert.Equal(t, 4, EffectivePoints(4, -1))
	assert.Equal(t, 12, EffectivePoints(4, 3))
}

func TestTotalPointsSkipsUnscoredPicks(t *testing.T) {
	eight, five := 8, 5
	s := Squad{
		Picks: []Pick{
			{ElementID: 7, Points: &eight},
			{ElementID: 9},
			{ElementID: 11, Points: &five},
		},
	}
	assert.Equal(t, 13, s.TotalPoints())
}

func TestTotalPointsEmptySquad(t *testing.T) {
	assert.Zero(t, Squad{}.TotalPoints())
}
