package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(id string, credits int, blocks ...TimeBlock) Course {
	return Course{ID: id, Code: id, Name: "Course " + id, Credits: credits, Category: CategoryMandatory, Mandatory: true, Blocks: blocks}
}

func TestDetectConflictsPartialOverlap(t *testing.T) {
	a := course("A", 4, block(t, Monday, 8, 10))
	b := course("B", 3, block(t, Monday, 9, 11))

	conflicts := DetectConflicts([]Course{a, b})
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictRecord{
		CourseIDA: "A", CourseIDB: "B",
		CourseCodeA: "A", CourseCodeB: "B",
		Day:              Monday,
		OverlapStartHour: 9,
		OverlapEndHour:   10,
		BlockIndexA:      0,
		BlockIndexB:      0,
	}, conflicts[0])
}

func TestDetectConflictsBackToBack(t *testing.T) {
	a := course("A", 4, block(t, Monday, 8, 10))
	b := course("B", 3, block(t, Monday, 10, 12))

	conflicts := DetectConflicts([]Course{a, b})
	assert.NotNil(t, conflicts)
	assert.Empty(t, conflicts)
}

func TestDetectConflictsMultiBlockCourse(t *testing.T) {
	a := course("A", 4, block(t, Monday, 8, 10), block(t, Tuesday, 14, 16))
	b := course("B", 3, block(t, Tuesday, 15, 17))

	conflicts := DetectConflicts([]Course{a, b})
	require.Len(t, conflicts, 1)
	assert.Equal(t, Tuesday, conflicts[0].Day)
	assert.Equal(t, 15, conflicts[0].OverlapStartHour)
	assert.Equal(t, 16, conflicts[0].OverlapEndHour)
	assert.Equal(t, 1, conflicts[0].BlockIndexA)
	assert.Equal(t, 0, conflicts[0].BlockIndexB)
}

func TestDetectConflictsOrderingAndDeterminism(t *testing.T) {
	a := course("A", 2, block(t, Monday, 8, 10), block(t, Wednesday, 8, 10))
	b := course("B", 2, block(t, Wednesday, 9, 11), block(t, Monday, 9, 10))
	c := course("C", 2, block(t, Monday, 9, 12))
	input := []Course{a, b, c}

	first := DetectConflicts(input)
	second := DetectConflicts(input)
	assert.Equal(t, first, second)

	require.Len(t, first, 4)
	// (A,B) block pairs first, then (A,C), then (B,C)
	assert.Equal(t, [2]string{"A", "B"}, [2]string{first[0].CourseIDA, first[0].CourseIDB})
	assert.Equal(t, Monday, first[0].Day)
	assert.Equal(t, Wednesday, first[1].Day)
	assert.Equal(t, [2]string{"A", "C"}, [2]string{first[2].CourseIDA, first[2].CourseIDB})
	assert.Equal(t, [2]string{"B", "C"}, [2]string{first[3].CourseIDA, first[3].CourseIDB})
}

func TestDetectConflictsNeverReportsSameCourse(t *testing.T) {
	a := course("A", 4, block(t, Monday, 8, 10), block(t, Monday, 9, 11))
	assert.Empty(t, DetectConflicts([]Course{a}))

	duplicate := course("A", 4, block(t, Monday, 8, 10))
	assert.Empty(t, DetectConflicts([]Course{a, duplicate}))
	assert.False(t, CoursesConflict(a, duplicate))
}

func TestDetectConflictsIsSymmetricAcrossInputOrder(t *testing.T) {
	a := course("A", 4, block(t, Friday, 8, 12))
	b := course("B", 3, block(t, Friday, 10, 11), block(t, Friday, 11, 13))

	forward := DetectConflicts([]Course{a, b})
	backward := DetectConflicts([]Course{b, a})
	require.Len(t, forward, len(backward))
	for i := range forward {
		assert.Equal(t, forward[i].Day, backward[i].Day)
		assert.Equal(t, forward[i].OverlapStartHour, backward[i].OverlapStartHour)
		assert.Equal(t, forward[i].OverlapEndHour, backward[i].OverlapEndHour)
	}
}

func TestCoursesWithoutBlocksNeverConflict(t *testing.T) {
	empty := course("E", 3)
	busy := course("B", 3, block(t, Monday, 7, 22))
	assert.False(t, CoursesConflict(empty, busy))
	assert.Empty(t, DetectConflicts([]Course{empty, busy}))
	assert.True(t, CoursesConflict(busy, course("C", 1, block(t, Monday, 21, 22))))
}
