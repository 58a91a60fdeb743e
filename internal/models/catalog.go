package models

import "time"

// Faculty groups schools.
type Faculty struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// School is a professional school offering courses.
type School struct {
	ID        string    `db:"id" json:"id"`
	FacultyID string    `db:"faculty_id" json:"faculty_id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Course is a catalog course row.
type Course struct {
	ID          string    `db:"id" json:"id"`
	SchoolID    string    `db:"school_id" json:"school_id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Credits     int       `db:"credits" json:"credits"`
	TypeLabel   string    `db:"type_label" json:"type_label"`
	Category    string    `db:"category" json:"category"`
	Semester    string    `db:"semester" json:"semester"`
	Instructors string    `db:"instructors" json:"instructors"`
	Rooms       string    `db:"rooms" json:"rooms"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TimeBlockRow is a stored weekly block. Day uses 1 (Monday) to 6 (Saturday).
type TimeBlockRow struct {
	ID          string `db:"id" json:"id"`
	CourseID    string `db:"course_id" json:"course_id"`
	Position    int    `db:"position" json:"position"`
	Day         int    `db:"day" json:"day"`
	StartHour   int    `db:"start_hour" json:"start_hour"`
	EndHour     int    `db:"end_hour" json:"end_hour"`
	Room        string `db:"room" json:"room"`
	Instructor  string `db:"instructor" json:"instructor"`
	Group       string `db:"group_label" json:"group"`
	SessionType string `db:"session_type" json:"session_type"`
}

// CourseWithBlocks bundles a course and its ordered blocks.
type CourseWithBlocks struct {
	Course
	Blocks []TimeBlockRow `json:"blocks"`
}

// DayBlock is a block joined with its course for per-day listings.
type DayBlock struct {
	TimeBlockRow
	CourseCode string `db:"course_code" json:"course_code"`
	CourseName string `db:"course_name" json:"course_name"`
}

// CourseFilter captures listing criteria for courses.
type CourseFilter struct {
	SchoolID string
	Search   string
	Category string
	Page     int
	PageSize int
}

// CatalogStats summarises catalog coverage.
type CatalogStats struct {
	Faculties                int            `json:"faculties"`
	Schools                  int            `json:"schools"`
	Courses                  int            `json:"courses"`
	TimeBlocks               int            `json:"time_blocks"`
	CoursesWithBlocks        int            `json:"courses_with_blocks"`
	CoursesWithInstructor    int            `json:"courses_with_instructor"`
	CoursesWithBlocksPct     float64        `json:"courses_with_blocks_pct"`
	CoursesWithInstructorPct float64        `json:"courses_with_instructor_pct"`
	BlocksByDay              map[string]int `json:"blocks_by_day"`
}

// InitialData is the bundle the front-end loads on start.
type InitialData struct {
	Faculties []Faculty `json:"faculties"`
	Schools   []School  `json:"schools"`
	Courses   []Course  `json:"courses"`
}
