package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEvenDistribution(t *testing.T) {
	// one session per day: variance 0, full bonus
	c := course("A", 3,
		block(t, Monday, 8, 10), block(t, Tuesday, 8, 10), block(t, Wednesday, 8, 10),
		block(t, Thursday, 8, 10), block(t, Friday, 8, 10), block(t, Saturday, 8, 10))

	assert.InDelta(t, 0, SessionVariance([]Course{c}), 1e-9)
	assert.InDelta(t, 10, DistributionBonus([]Course{c}), 1e-9)
	assert.Equal(t, 3*10+20+100, Score([]Course{c}))
}

func TestScoreEmptySelection(t *testing.T) {
	assert.InDelta(t, 0, SessionVariance(nil), 1e-9)
	assert.Equal(t, 100, Score(nil))
}

func TestScorePenalisesConflictsAndClampsAtZero(t *testing.T) {
	heavy := Course{ID: "A", Credits: 0, Blocks: []TimeBlock{block(t, Monday, 8, 10), block(t, Monday, 10, 12)}}
	other := Course{ID: "B", Credits: 0, Blocks: []TimeBlock{block(t, Monday, 9, 11)}}
	// two conflicts, no credits, no mandatory courses: must clamp
	assert.Len(t, DetectConflicts([]Course{heavy, other}), 2)
	assert.Equal(t, 0, Score([]Course{heavy, other}))
}

func TestScoreUnevenDistribution(t *testing.T) {
	c := Course{ID: "A", Credits: 4, Blocks: []TimeBlock{
		block(t, Monday, 7, 8), block(t, Monday, 8, 9), block(t, Monday, 9, 10),
		block(t, Monday, 10, 11), block(t, Monday, 11, 12), block(t, Monday, 12, 13),
	}}
	// counts [6,0,0,0,0,0], mean 1, variance (25+5)/6 = 5
	assert.InDelta(t, 5, SessionVariance([]Course{c}), 1e-9)
	assert.InDelta(t, 5, DistributionBonus([]Course{c}), 1e-9)
	assert.Equal(t, 40+50, Score([]Course{c}))
}

func TestScoreMonotonicInCredits(t *testing.T) {
	blocks := []TimeBlock{block(t, Monday, 8, 10), block(t, Thursday, 8, 10)}
	low := Course{ID: "A", Credits: 2, Blocks: blocks}
	high := Course{ID: "A", Credits: 5, Blocks: blocks}
	assert.Greater(t, Score([]Course{high}), Score([]Course{low}))
}

func TestScoreMonotonicInConflicts(t *testing.T) {
	base := course("A", 4, block(t, Monday, 8, 10))
	clear := course("B", 4, block(t, Monday, 10, 12))
	clash := course("B", 4, block(t, Monday, 9, 11))
	assert.Greater(t, Score([]Course{base, clear}), Score([]Course{base, clash}))
}

func TestEvaluate(t *testing.T) {
	a := course("A", 4, block(t, Monday, 8, 10))
	b := course("B", 3, block(t, Monday, 9, 12))

	combo := Evaluate([]Course{a, b})
	assert.Equal(t, 7, combo.TotalCredits)
	assert.Equal(t, 5, combo.TotalWeeklyHours)
	require.Len(t, combo.Conflicts, 1)
	assert.Equal(t, Score([]Course{a, b}), combo.Score)
}

func TestRankIsStable(t *testing.T) {
	combos := []Combination{
		{Score: 10, TotalCredits: 1},
		{Score: 30, TotalCredits: 2},
		{Score: 10, TotalCredits: 3},
		{Score: 30, TotalCredits: 4},
	}
	Rank(combos)
	credits := make([]int, len(combos))
	for i, c := range combos {
		credits[i] = c.TotalCredits
	}
	assert.Equal(t, []int{2, 4, 1, 3}, credits)
}
