package planner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseIDs(courses []Course) []string {
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

func TestGenerateMutuallyConflictingCourses(t *testing.T) {
	c1 := course("C1", 4, block(t, Monday, 8, 10))
	c2 := course("C2", 4, block(t, Monday, 9, 11))
	c3 := course("C3", 4, block(t, Monday, 8, 11))

	combos := Generate([]Course{c1, c2, c3}, GeneratorOptions{MaxCombinations: 100, MaxCoursesPerCombination: 8})
	require.Len(t, combos, 4)

	sizes := map[int]int{}
	seen := map[string]bool{}
	for _, combo := range combos {
		assert.LessOrEqual(t, len(combo.Courses), 1)
		assert.Empty(t, combo.Conflicts)
		sizes[len(combo.Courses)]++
		seen[fmt.Sprint(courseIDs(combo.Courses))] = true
	}
	assert.Equal(t, 1, sizes[0])
	assert.Equal(t, 3, sizes[1])
	assert.True(t, seen["[C1]"])
	assert.True(t, seen["[C2]"])
	assert.True(t, seen["[C3]"])
}

func TestGenerateProducesConflictFreeCombinations(t *testing.T) {
	pool := []Course{
		course("A", 4, block(t, Monday, 8, 10), block(t, Wednesday, 8, 10)),
		course("B", 3, block(t, Monday, 9, 11)),
		course("C", 3, block(t, Tuesday, 8, 10)),
		course("D", 2, block(t, Tuesday, 9, 10), block(t, Thursday, 14, 16)),
		course("E", 5, block(t, Friday, 10, 13)),
		course("F", 2),
	}

	combos := Generate(pool, GeneratorOptions{})
	require.NotEmpty(t, combos)
	for _, combo := range combos {
		assert.Empty(t, DetectConflicts(combo.Courses), courseIDs(combo.Courses))
		assert.Equal(t, TotalCredits(combo.Courses), combo.TotalCredits)
		assert.Equal(t, TotalWeeklyHours(combo.Courses), combo.TotalWeeklyHours)
		assert.Equal(t, Score(combo.Courses), combo.Score)
	}
	for i := 1; i < len(combos); i++ {
		assert.GreaterOrEqual(t, combos[i-1].Score, combos[i].Score)
	}
}

func TestGenerateRespectsLimits(t *testing.T) {
	pool := make([]Course, 0, 12)
	for i := 0; i < 12; i++ {
		day := Days()[i%6]
		start := 7 + (i/6)*3
		pool = append(pool, course(fmt.Sprintf("K%02d", i), 3, block(t, day, start, start+2)))
	}

	combos := Generate(pool, GeneratorOptions{MaxCombinations: 25, MaxCoursesPerCombination: 3})
	assert.Len(t, combos, 25)
	for _, combo := range combos {
		assert.LessOrEqual(t, len(combo.Courses), 3)
	}

	defaults := Generate(pool, GeneratorOptions{MaxCombinations: -1, MaxCoursesPerCombination: 0})
	assert.Len(t, defaults, DefaultMaxCombinations)
	for _, combo := range defaults {
		assert.LessOrEqual(t, len(combo.Courses), DefaultMaxCoursesPerCombination)
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	combos := Generate(nil, GeneratorOptions{})
	require.Len(t, combos, 1)
	assert.Empty(t, combos[0].Courses)
	assert.Equal(t, 0, combos[0].TotalCredits)
}

func TestGenerateIsDeterministic(t *testing.T) {
	pool := []Course{
		course("A", 4, block(t, Monday, 8, 10)),
		course("B", 4, block(t, Monday, 9, 11)),
		course("C", 2, block(t, Tuesday, 8, 10)),
		course("D", 2, block(t, Saturday, 8, 10)),
	}
	assert.Equal(t, Generate(pool, GeneratorOptions{}), Generate(pool, GeneratorOptions{}))
}

func TestGenerateConcurrentCallsAreIndependent(t *testing.T) {
	pool := []Course{
		course("A", 4, block(t, Monday, 8, 10)),
		course("B", 4, block(t, Monday, 9, 11)),
		course("C", 2, block(t, Tuesday, 8, 10)),
	}
	want := Generate(pool, GeneratorOptions{MaxCombinations: 3})

	var wg sync.WaitGroup
	results := make([][]Combination, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Generate(pool, GeneratorOptions{MaxCombinations: 3})
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestGenerateDoesNotMutateCandidates(t *testing.T) {
	pool := []Course{
		course("LOW", 1, block(t, Monday, 8, 10)),
		course("HIGH", 6, block(t, Tuesday, 8, 10)),
	}
	Generate(pool, GeneratorOptions{})
	assert.Equal(t, []string{"LOW", "HIGH"}, courseIDs(pool))
}

func TestPriority(t *testing.T) {
	mandatory := course("M", 4, block(t, Monday, 8, 10), block(t, Tuesday, 8, 10))
	// 50 + 30 + 20 + (20 - 4), clamped
	assert.Equal(t, 100, Priority(mandatory))

	elective := Course{ID: "E", Credits: 2, Blocks: []TimeBlock{block(t, Monday, 8, 10)}}
	assert.Equal(t, 50+10+18, Priority(elective))

	noBlocks := Course{ID: "N", Credits: 1}
	assert.Equal(t, 55, Priority(noBlocks))

	crowded := Course{ID: "X", Credits: 0, Blocks: make([]TimeBlock, 15)}
	assert.Equal(t, 50, Priority(crowded))
}
