package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-planner/internal/models"
)

const importColumns = "id, status, semester, files, faculties, schools, courses, blocks, skipped_blocks, error_message, requested_by, created_at, finished_at"

// CatalogImportRepository writes imported catalogs and tracks import runs.
type CatalogImportRepository struct {
	db *sqlx.DB
}

// NewCatalogImportRepository constructs a CatalogImportRepository.
func NewCatalogImportRepository(db *sqlx.DB) *CatalogImportRepository {
	return &CatalogImportRepository{db: db}
}

// ReplaceCatalog swaps the whole catalog for the snapshot in one transaction.
func (r *CatalogImportRepository) ReplaceCatalog(ctx context.Context, snapshot models.CatalogSnapshot) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// schools, courses and blocks cascade
	if _, err = tx.ExecContext(ctx, `DELETE FROM faculties`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	const facultyQuery = `INSERT INTO faculties (id, code, name, created_at) VALUES (:id, :code, :name, :created_at)`
	for i := range snapshot.Faculties {
		if _, err = tx.NamedExecContext(ctx, facultyQuery, snapshot.Faculties[i]); err != nil {
			return fmt.Errorf("insert faculty %s: %w", snapshot.Faculties[i].Code, err)
		}
	}

	const schoolQuery = `INSERT INTO schools (id, faculty_id, code, name, created_at) VALUES (:id, :faculty_id, :code, :name, :created_at)`
	for i := range snapshot.Schools {
		if _, err = tx.NamedExecContext(ctx, schoolQuery, snapshot.Schools[i]); err != nil {
			return fmt.Errorf("insert school %s: %w", snapshot.Schools[i].Code, err)
		}
	}

	const courseQuery = `INSERT INTO courses (id, school_id, code, name, credits, type_label, category, semester, instructors, rooms, created_at)
VALUES (:id, :school_id, :code, :name, :credits, :type_label, :category, :semester, :instructors, :rooms, :created_at)`
	const blockQuery = `INSERT INTO time_blocks (id, course_id, position, day, start_hour, end_hour, room, instructor, group_label, session_type)
VALUES (:id, :course_id, :position, :day, :start_hour, :end_hour, :room, :instructor, :group_label, :session_type)`
	for i := range snapshot.Courses {
		course := snapshot.Courses[i]
		if _, err = tx.NamedExecContext(ctx, courseQuery, course.Course); err != nil {
			return fmt.Errorf("insert course %s: %w", course.Code, err)
		}
		for j := range course.Blocks {
			if _, err = tx.NamedExecContext(ctx, blockQuery, course.Blocks[j]); err != nil {
				return fmt.Errorf("insert block %d of %s: %w", course.Blocks[j].Position, course.Code, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

// CreateRun records a queued import.
func (r *CatalogImportRepository) CreateRun(ctx context.Context, run *models.CatalogImport) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO catalog_imports (id, status, semester, requested_by, created_at) VALUES (:id, :status, :semester, :requested_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create import run: %w", err)
	}
	return nil
}

// MarkRunning flags a run as started.
func (r *CatalogImportRepository) MarkRunning(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE catalog_imports SET status = $1 WHERE id = $2`, models.ImportRunning, id); err != nil {
		return fmt.Errorf("mark import running: %w", err)
	}
	return nil
}

// Finish stores the final status, counters and error of a run.
func (r *CatalogImportRepository) Finish(ctx context.Context, id string, status models.ImportStatus, summary models.ImportSummary, errMsg *string) error {
	const query = `UPDATE catalog_imports
SET status = $1, files = $2, faculties = $3, schools = $4, courses = $5, blocks = $6, skipped_blocks = $7, error_message = $8, finished_at = $9
WHERE id = $10`
	_, err := r.db.ExecContext(ctx, query,
		status, summary.Files, summary.Faculties, summary.Schools, summary.Courses, summary.Blocks, summary.SkippedBlocks,
		errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish import run: %w", err)
	}
	return nil
}

// FindRun fetches an import run by ID.
func (r *CatalogImportRepository) FindRun(ctx context.Context, id string) (*models.CatalogImport, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_imports WHERE id = $1", importColumns)
	var run models.CatalogImport
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// HasActiveRun reports whether a run is queued or running.
func (r *CatalogImportRepository) HasActiveRun(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM catalog_imports WHERE status IN ($1, $2)`, models.ImportQueued, models.ImportRunning); err != nil {
		return false, fmt.Errorf("check active imports: %w", err)
	}
	return count > 0, nil
}

// FailActiveRuns marks every QUEUED or RUNNING run as FAILED with reason.
func (r *CatalogImportRepository) FailActiveRuns(ctx context.Context, reason string) (int64, error) {
	const query = `UPDATE catalog_imports SET status = $1, error_message = $2, finished_at = $3 WHERE status IN ($4, $5)`
	res, err := r.db.ExecContext(ctx, query, models.ImportFailed, reason, time.Now().UTC(), models.ImportQueued, models.ImportRunning)
	if err != nil {
		return 0, fmt.Errorf("fail active imports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fail active imports: %w", err)
	}
	return n, nil
}
