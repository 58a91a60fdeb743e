package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horario-planner/internal/models"
)

// FacultyRepository reads faculties and their schools.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns every faculty ordered by name.
func (r *FacultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT id, code, name, created_at FROM faculties ORDER BY name ASC`
	faculties := make([]models.Faculty, 0)
	if err := r.db.SelectContext(ctx, &faculties, query); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return faculties, nil
}

// FindByID fetches a faculty by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	const query = `SELECT id, code, name, created_at FROM faculties WHERE id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ListSchools returns schools, optionally restricted to one faculty.
func (r *FacultyRepository) ListSchools(ctx context.Context, facultyID string) ([]models.School, error) {
	query := `SELECT id, faculty_id, code, name, created_at FROM schools`
	var args []interface{}
	if facultyID != "" {
		query += ` WHERE faculty_id = $1`
		args = append(args, facultyID)
	}
	query += ` ORDER BY name ASC`

	schools := make([]models.School, 0)
	if err := r.db.SelectContext(ctx, &schools, query, args...); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// FindSchool fetches a school by ID.
func (r *FacultyRepository) FindSchool(ctx context.Context, id string) (*models.School, error) {
	const query = `SELECT id, faculty_id, code, name, created_at FROM schools WHERE id = $1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}
