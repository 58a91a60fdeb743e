package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func block(t *testing.T, day Day, start, end int) TimeBlock {
	t.Helper()
	b, err := NewTimeBlock(day, start, end)
	if err != nil {
		t.Fatalf("build block: %v", err)
	}
	return b
}

func TestOverlapsIsSymmetric(t *testing.T) {
	blocks := []TimeBlock{
		block(t, Monday, 8, 10),
		block(t, Monday, 9, 11),
		block(t, Monday, 10, 12),
		block(t, Tuesday, 8, 10),
		block(t, Monday, 7, 13),
		block(t, Monday, 8, 10),
		{Day: Monday, StartHour: 9, EndHour: 9},
	}
	for _, a := range blocks {
		for _, b := range blocks {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "%v vs %v", a, b)
			_, okAB := OverlapWindow(a, b)
			assert.Equal(t, Overlaps(a, b), okAB)
		}
	}
}

func TestOverlapWindow(t *testing.T) {
	window, ok := OverlapWindow(block(t, Monday, 8, 10), block(t, Monday, 9, 11))
	assert.True(t, ok)
	assert.Equal(t, Window{StartHour: 9, EndHour: 10}, window)

	window, ok = OverlapWindow(block(t, Friday, 8, 12), block(t, Friday, 8, 12))
	assert.True(t, ok)
	assert.Equal(t, Window{StartHour: 8, EndHour: 12}, window)

	window, ok = OverlapWindow(block(t, Friday, 7, 13), block(t, Friday, 9, 10))
	assert.True(t, ok)
	assert.Equal(t, Window{StartHour: 9, EndHour: 10}, window)
}

func TestOverlapBoundaries(t *testing.T) {
	assert.False(t, Overlaps(block(t, Monday, 8, 10), block(t, Monday, 10, 12)), "back-to-back blocks")
	assert.False(t, Overlaps(block(t, Monday, 8, 10), block(t, Tuesday, 8, 10)), "different days")

	zero := TimeBlock{Day: Monday, StartHour: 9, EndHour: 9}
	assert.False(t, Overlaps(zero, block(t, Monday, 8, 10)), "zero duration never overlaps")
	_, ok := OverlapWindow(zero, zero)
	assert.False(t, ok)
}
