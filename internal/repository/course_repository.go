package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/horario-planner/internal/models"
)

const courseColumns = "id, school_id, code, name, credits, type_label, category, semester, instructors, rooms, created_at"

// CourseRepository reads catalog courses and their blocks.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching filters along with total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		conditions = append(conditions, fmt.Sprintf("school_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, strings.ToUpper(filter.Category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(code) LIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY code ASC LIMIT %d OFFSET %d", courseColumns, base, size, offset)
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// ListAll returns every course ordered by code.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY code ASC", courseColumns)
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list all courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs returns the courses with the given IDs. Missing IDs are silently absent.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(ids))
	if len(ids) == 0 {
		return courses, nil
	}
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = ANY($1)", courseColumns)
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return courses, nil
}

// BlocksForCourses returns blocks grouped by course ID, each group ordered by position.
func (r *CourseRepository) BlocksForCourses(ctx context.Context, courseIDs []string) (map[string][]models.TimeBlockRow, error) {
	grouped := make(map[string][]models.TimeBlockRow, len(courseIDs))
	if len(courseIDs) == 0 {
		return grouped, nil
	}
	const query = `SELECT id, course_id, position, day, start_hour, end_hour, room, instructor, group_label, session_type
FROM time_blocks WHERE course_id = ANY($1) ORDER BY course_id, position`
	var rows []models.TimeBlockRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	for _, row := range rows {
		grouped[row.CourseID] = append(grouped[row.CourseID], row)
	}
	return grouped, nil
}

// BlocksByDay lists every block on a day with its course, ordered by start hour.
func (r *CourseRepository) BlocksByDay(ctx context.Context, day int) ([]models.DayBlock, error) {
	const query = `SELECT tb.id, tb.course_id, tb.position, tb.day, tb.start_hour, tb.end_hour, tb.room, tb.instructor, tb.group_label, tb.session_type,
	c.code AS course_code, c.name AS course_name
FROM time_blocks tb
JOIN courses c ON c.id = tb.course_id
WHERE tb.day = $1
ORDER BY tb.start_hour ASC, c.code ASC`
	blocks := make([]models.DayBlock, 0)
	if err := r.db.SelectContext(ctx, &blocks, query, day); err != nil {
		return nil, fmt.Errorf("list blocks by day: %w", err)
	}
	return blocks, nil
}

// Stats computes catalog coverage counts.
func (r *CourseRepository) Stats(ctx context.Context) (*models.CatalogStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM faculties) AS faculties,
	(SELECT COUNT(*) FROM schools) AS schools,
	(SELECT COUNT(*) FROM courses) AS courses,
	(SELECT COUNT(*) FROM time_blocks) AS time_blocks,
	(SELECT COUNT(DISTINCT course_id) FROM time_blocks) AS courses_with_blocks,
	(SELECT COUNT(DISTINCT course_id) FROM time_blocks WHERE instructor <> '') AS courses_with_instructor`
	var row struct {
		Faculties             int `db:"faculties"`
		Schools               int `db:"schools"`
		Courses               int `db:"courses"`
		TimeBlocks            int `db:"time_blocks"`
		CoursesWithBlocks     int `db:"courses_with_blocks"`
		CoursesWithInstructor int `db:"courses_with_instructor"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}

	var perDay []struct {
		Day   int `db:"day"`
		Total int `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &perDay, `SELECT day, COUNT(*) AS total FROM time_blocks GROUP BY day ORDER BY day`); err != nil {
		return nil, fmt.Errorf("catalog stats by day: %w", err)
	}

	stats := &models.CatalogStats{
		Faculties:             row.Faculties,
		Schools:               row.Schools,
		Courses:               row.Courses,
		TimeBlocks:            row.TimeBlocks,
		CoursesWithBlocks:     row.CoursesWithBlocks,
		CoursesWithInstructor: row.CoursesWithInstructor,
		BlocksByDay:           make(map[string]int, len(perDay)),
	}
	for _, d := range perDay {
		stats.BlocksByDay[fmt.Sprint(d.Day)] = d.Total
	}
	return stats, nil
}
