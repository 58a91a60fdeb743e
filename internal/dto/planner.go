package dto

import "github.com/noah-isme/horario-planner/internal/planner"

// CourseInput is an inline course supplied by the client instead of a catalog ID.
type CourseInput struct {
	ID       string                 `json:"id" validate:"required,max=64"`
	Code     string                 `json:"code" validate:"max=32"`
	Name     string                 `json:"name" validate:"max=255"`
	Credits  int                    `json:"credits" validate:"min=0,max=30"`
	Type     string                 `json:"type" validate:"max=64"`
	Category string                 `json:"category" validate:"omitempty,oneof=MANDATORY ELECTIVE UNKNOWN mandatory elective unknown"`
	Blocks   []planner.RawTimeBlock `json:"blocks" validate:"max=40"`
}

// Selection names the courses an operation works on, by catalog ID or inline.
type Selection struct {
	CourseIDs []string      `json:"courseIds" validate:"omitempty,max=60,dive,required,uuid"`
	Courses   []CourseInput `json:"courses" validate:"omitempty,max=60,dive"`
}

// Empty reports whether no course was named.
func (s Selection) Empty() bool {
	return len(s.CourseIDs) == 0 && len(s.Courses) == 0
}

// ConflictCheckRequest asks for the conflict report of a selection.
type ConflictCheckRequest struct {
	Selection
}

// ConflictReportResponse lists every overlapping block pair.
type ConflictReportResponse struct {
	HasConflicts bool                     `json:"hasConflicts"`
	Count        int                      `json:"count"`
	Conflicts    []planner.ConflictRecord `json:"conflicts"`
}

// ScoreRequest scores an arbitrary selection.
type ScoreRequest struct {
	Selection
}

// ScoreResponse reports the score and the totals it was derived from.
type ScoreResponse struct {
	Score             int                      `json:"score"`
	TotalCredits      int                      `json:"totalCredits"`
	TotalWeeklyHours  int                      `json:"totalWeeklyHours"`
	MandatoryCourses  int                      `json:"mandatoryCourses"`
	DistributionBonus float64                  `json:"distributionBonus"`
	Conflicts         []planner.ConflictRecord `json:"conflicts"`
}

// CombinationRequest asks the generator for conflict-free subsets of the candidates.
type CombinationRequest struct {
	Selection
	MaxCombinations          int `json:"maxCombinations" validate:"min=0"`
	MaxCoursesPerCombination int `json:"maxCoursesPerCombination" validate:"min=0,max=20"`
	Preview                  int `json:"preview" validate:"min=0,max=10"`
}

// CombinationResponse returns ranked combinations and optional timetable previews of the best ones.
type CombinationResponse struct {
	Count        int                   `json:"count"`
	Limit        int                   `json:"limit"`
	Combinations []planner.Combination `json:"combinations"`
	Previews     []planner.Timetable   `json:"previews,omitempty"`
}

// TimetableRequest lays a selection out on the weekly grid.
type TimetableRequest struct {
	Selection
	FromHour int `json:"fromHour" validate:"min=0,max=23"`
	ToHour   int `json:"toHour" validate:"min=0,max=24"`
}

// TimetableResponse carries the grid and the conflicts visible on it.
type TimetableResponse struct {
	Timetable planner.Timetable        `json:"timetable"`
	Conflicts []planner.ConflictRecord `json:"conflicts"`
}

// ExportRequest renders a selection's timetable as a document.
type ExportRequest struct {
	Selection
	Title string `json:"title" validate:"max=120"`
}

// ExportFile is a rendered document.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
