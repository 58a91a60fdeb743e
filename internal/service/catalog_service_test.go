package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-planner/internal/models"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

type facultyRepoStub struct {
	faculties []models.Faculty
	schools   []models.School
	listCalls int
	listErr   error
}

func (s *facultyRepoStub) List(ctx context.Context) ([]models.Faculty, error) {
	s.listCalls++
	return s.faculties, s.listErr
}

func (s *facultyRepoStub) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	for i := range s.faculties {
		if s.faculties[i].ID == id {
			return &s.faculties[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *facultyRepoStub) ListSchools(ctx context.Context, facultyID string) ([]models.School, error) {
	var out []models.School
	for _, school := range s.schools {
		if facultyID == "" || school.FacultyID == facultyID {
			out = append(out, school)
		}
	}
	return out, nil
}

func (s *facultyRepoStub) FindSchool(ctx context.Context, id string) (*models.School, error) {
	for i := range s.schools {
		if s.schools[i].ID == id {
			return &s.schools[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type courseRepoStub struct {
	courses    []models.Course
	blocks     map[string][]models.TimeBlockRow
	dayBlocks  []models.DayBlock
	stats      *models.CatalogStats
	lastFilter models.CourseFilter
	lastDay    int
	listErr    error
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	s.lastFilter = filter
	return s.courses, len(s.courses), s.listErr
}

func (s *courseRepoStub) ListAll(ctx context.Context) ([]models.Course, error) {
	return s.courses, s.listErr
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return &s.courses[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Course
	// database order differs from request order on purpose
	for i := len(s.courses) - 1; i >= 0; i-- {
		if want[s.courses[i].ID] {
			out = append(out, s.courses[i])
		}
	}
	return out, nil
}

func (s *courseRepoStub) BlocksForCourses(ctx context.Context, courseIDs []string) (map[string][]models.TimeBlockRow, error) {
	out := map[string][]models.TimeBlockRow{}
	for _, id := range courseIDs {
		if rows, ok := s.blocks[id]; ok {
			out[id] = rows
		}
	}
	return out, nil
}

func (s *courseRepoStub) BlocksByDay(ctx context.Context, day int) ([]models.DayBlock, error) {
	s.lastDay = day
	return s.dayBlocks, nil
}

func (s *courseRepoStub) Stats(ctx context.Context) (*models.CatalogStats, error) {
	return s.stats, nil
}

func catalogFixture() (*facultyRepoStub, *courseRepoStub) {
	faculties := &facultyRepoStub{
		faculties: []models.Faculty{{ID: "f1", Code: "FIIS", Name: "Ingeniería Industrial y de Sistemas"}},
		schools: []models.School{
			{ID: "s1", FacultyID: "f1", Code: "EP_SISTEMAS", Name: "Ingeniería de Sistemas"},
			{ID: "s2", FacultyID: "f2", Code: "EP_CIVIL", Name: "Ingeniería Civil"},
		},
	}
	courses := &courseRepoStub{
		courses: []models.Course{
			{ID: "c1", SchoolID: "s1", Code: "BMA01", Name: "Cálculo", Credits: 5, TypeLabel: "OB", Category: "MANDATORY"},
			{ID: "c2", SchoolID: "s1", Code: "ELE01", Name: "Taller electivo de arte", Credits: 2, TypeLabel: "", Category: "UNKNOWN"},
			{ID: "c3", SchoolID: "s1", Code: "SIS01", Name: "Programación", Credits: 4, TypeLabel: "", Category: "UNKNOWN"},
		},
		blocks: map[string][]models.TimeBlockRow{
			"c1": {
				{CourseID: "c1", Position: 0, Day: 1, StartHour: 8, EndHour: 10, SessionType: "LECTURE"},
				{CourseID: "c1", Position: 1, Day: 3, StartHour: 8, EndHour: 10, SessionType: "PRACTICE"},
			},
			"c2": {{CourseID: "c2", Position: 0, Day: 1, StartHour: 9, EndHour: 11}},
		},
	}
	return faculties, courses
}

func TestCatalogServiceListSchools(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.Classifier{}, nil)

	schools, hit, err := svc.ListSchools(context.Background(), "f1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, schools, 1)
	assert.Equal(t, "EP_SISTEMAS", schools[0].Code)

	_, _, err = svc.ListSchools(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, _, err = svc.ListSchools(context.Background(), " ")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCatalogServiceListFacultiesUsesCache(t *testing.T) {
	faculties, courses := catalogFixture()
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewCatalogService(faculties, courses, cache, planner.DefaultClassifier(), nil)

	_, hit, err := svc.ListFaculties(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)

	result, hit, err := svc.ListFaculties(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "FIIS", result[0].Code)
	assert.Equal(t, 1, faculties.listCalls)

	require.NoError(t, svc.InvalidateCache(context.Background()))
	_, hit, err = svc.ListFaculties(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, faculties.listCalls)
}

func TestCatalogServiceListCourses(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	items, pagination, err := svc.ListCourses(context.Background(), models.CourseFilter{SchoolID: "s1", Category: "elective", PageSize: 1000})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 3}, pagination)
	assert.Equal(t, "ELECTIVE", courses.lastFilter.Category)

	_, _, err = svc.ListCourses(context.Background(), models.CourseFilter{Category: "sometimes"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.ListCourses(context.Background(), models.CourseFilter{SchoolID: "nope"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCatalogServiceGetCourse(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	course, err := svc.GetCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "BMA01", course.Code)
	assert.Len(t, course.Blocks, 2)

	course, err = svc.GetCourse(context.Background(), "c3")
	require.NoError(t, err)
	assert.NotNil(t, course.Blocks)
	assert.Empty(t, course.Blocks)

	_, err = svc.GetCourse(context.Background(), "zzz")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCatalogServiceBlocksByDay(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	_, err := svc.BlocksByDay(context.Background(), "miércoles")
	require.NoError(t, err)
	assert.Equal(t, 3, courses.lastDay)

	_, err = svc.BlocksByDay(context.Background(), "domingo")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCatalogServiceStats(t *testing.T) {
	faculties, courses := catalogFixture()
	courses.stats = &models.CatalogStats{
		Courses:               3,
		CoursesWithBlocks:     2,
		CoursesWithInstructor: 1,
		BlocksByDay:           map[string]int{"1": 2, "3": 1, "9": 4},
	}
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 66.7, stats.CoursesWithBlocksPct)
	assert.Equal(t, 33.3, stats.CoursesWithInstructorPct)
	assert.Equal(t, map[string]int{
		"MONDAY": 2, "TUESDAY": 0, "WEDNESDAY": 1, "THURSDAY": 0, "FRIDAY": 0, "SATURDAY": 0,
	}, stats.BlocksByDay)
}

func TestCatalogServiceInitialData(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	data, err := svc.InitialData(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Faculties, 1)
	assert.Len(t, data.Schools, 2)
	assert.Len(t, data.Courses, 3)

	courses.listErr = errors.New("boom")
	_, err = svc.InitialData(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCatalogServiceLoadPlannerCourses(t *testing.T) {
	faculties, courses := catalogFixture()
	svc := NewCatalogService(faculties, courses, nil, planner.Classifier{UnknownAs: planner.CategoryElective}, nil)

	loaded, err := svc.LoadPlannerCourses(context.Background(), []string{"c2", "c1", "c3"})
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, []string{"c2", "c1", "c3"}, []string{loaded[0].ID, loaded[1].ID, loaded[2].ID})

	assert.Equal(t, planner.CategoryElective, loaded[0].Category)
	assert.False(t, loaded[0].Mandatory)
	assert.Equal(t, planner.CategoryMandatory, loaded[1].Category)
	assert.True(t, loaded[1].Mandatory)
	assert.Equal(t, planner.CategoryUnknown, loaded[2].Category)
	assert.False(t, loaded[2].Mandatory, "unknown resolves through UnknownAs")

	require.Len(t, loaded[1].Blocks, 2)
	assert.Equal(t, planner.Wednesday, loaded[1].Blocks[1].Day)
	assert.Equal(t, planner.SessionPractice, loaded[1].Blocks[1].SessionType)
	assert.Empty(t, loaded[2].Blocks)

	_, err = svc.LoadPlannerCourses(context.Background(), []string{"c1", "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "ghost")
}

func TestCatalogServiceLoadPlannerCoursesRejectsCorruptBlocks(t *testing.T) {
	faculties, courses := catalogFixture()
	courses.blocks["c3"] = []models.TimeBlockRow{{CourseID: "c3", Day: 2, StartHour: 12, EndHour: 10}}
	svc := NewCatalogService(faculties, courses, nil, planner.DefaultClassifier(), nil)

	_, err := svc.LoadPlannerCourses(context.Background(), []string{"c3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "SIS01")
}
