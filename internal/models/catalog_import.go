package models

import "time"

// ImportStatus tracks a catalog import run.
type ImportStatus string

const (
	ImportQueued    ImportStatus = "QUEUED"
	ImportRunning   ImportStatus = "RUNNING"
	ImportSucceeded ImportStatus = "SUCCEEDED"
	ImportFailed    ImportStatus = "FAILED"
)

// CatalogImport is a persisted import run.
type CatalogImport struct {
	ID            string       `db:"id" json:"id"`
	Status        ImportStatus `db:"status" json:"status"`
	Semester      string       `db:"semester" json:"semester"`
	Files         int          `db:"files" json:"files"`
	Faculties     int          `db:"faculties" json:"faculties"`
	Schools       int          `db:"schools" json:"schools"`
	Courses       int          `db:"courses" json:"courses"`
	Blocks        int          `db:"blocks" json:"blocks"`
	SkippedBlocks int          `db:"skipped_blocks" json:"skipped_blocks"`
	ErrorMessage  *string      `db:"error_message" json:"error_message,omitempty"`
	RequestedBy   string       `db:"requested_by" json:"requested_by"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	FinishedAt    *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}

// CatalogSnapshot is the consolidated catalog written by an import in one transaction.
type CatalogSnapshot struct {
	Faculties []Faculty
	Schools   []School
	Courses   []CourseWithBlocks
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Files         int `json:"files"`
	Faculties     int `json:"faculties"`
	Schools       int `json:"schools"`
	Courses       int `json:"courses"`
	Blocks        int `json:"blocks"`
	SkippedBlocks int `json:"skipped_blocks"`
}
