package planner

// ConflictRecord is one overlapping block pair between two different courses.
type ConflictRecord struct {
	CourseIDA        string `json:"courseIdA"`
	CourseIDB        string `json:"courseIdB"`
	CourseCodeA      string `json:"courseCodeA"`
	CourseCodeB      string `json:"courseCodeB"`
	Day              Day    `json:"day"`
	OverlapStartHour int    `json:"overlapStartHour"`
	OverlapEndHour   int    `json:"overlapEndHour"`
	BlockIndexA      int    `json:"blockIndexA"`
	BlockIndexB      int    `json:"blockIndexB"`
}

// DetectConflicts lists every overlap between blocks of different courses.
// Records follow course-pair order by input index, then block-pair order.
func DetectConflicts(courses []Course) []ConflictRecord {
	conflicts := make([]ConflictRecord, 0)
	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			conflicts = appendPairConflicts(conflicts, courses[i], courses[j])
		}
	}
	return conflicts
}

func appendPairConflicts(dst []ConflictRecord, a, b Course) []ConflictRecord {
	if a.ID == b.ID {
		return dst
	}
	for ai, blockA := range a.Blocks {
		for bi, blockB := range b.Blocks {
			window, ok := OverlapWindow(blockA, blockB)
			if !ok {
				continue
			}
			dst = append(dst, ConflictRecord{
				CourseIDA:        a.ID,
				CourseIDB:        b.ID,
				CourseCodeA:      a.Code,
				CourseCodeB:      b.Code,
				Day:              blockA.Day,
				OverlapStartHour: window.StartHour,
				OverlapEndHour:   window.EndHour,
				BlockIndexA:      ai,
				BlockIndexB:      bi,
			})
		}
	}
	return dst
}

// CoursesConflict reports whether any block of a overlaps any block of b.
func CoursesConflict(a, b Course) bool {
	if a.ID == b.ID {
		return false
	}
	for _, blockA := range a.Blocks {
		for _, blockB := range b.Blocks {
			if Overlaps(blockA, blockB) {
				return true
			}
		}
	}
	return false
}
