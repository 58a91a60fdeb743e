package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/horario-planner/internal/models"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

const catalogCachePrefix = "catalog:"

type facultyReader interface {
	List(ctx context.Context) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ListSchools(ctx context.Context, facultyID string) ([]models.School, error)
	FindSchool(ctx context.Context, id string) (*models.School, error)
}

type courseReader interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
	BlocksForCourses(ctx context.Context, courseIDs []string) (map[string][]models.TimeBlockRow, error)
	BlocksByDay(ctx context.Context, day int) ([]models.DayBlock, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
}

// CatalogService serves read-only catalog queries and loads planner courses.
type CatalogService struct {
	faculties  facultyReader
	courses    courseReader
	cache      *CacheService
	classifier planner.Classifier
	logger     *zap.Logger
}

// NewCatalogService constructs a CatalogService. A nil cache disables caching.
func NewCatalogService(faculties facultyReader, courses courseReader, cache *CacheService, classifier planner.Classifier, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier.UnknownAs == "" {
		classifier = planner.DefaultClassifier()
	}
	return &CatalogService{faculties: faculties, courses: courses, cache: cache, classifier: classifier, logger: logger}
}

// ListFaculties returns every faculty.
func (s *CatalogService) ListFaculties(ctx context.Context) ([]models.Faculty, bool, error) {
	faculties, hit, err := Remember(ctx, s.cache, catalogCachePrefix+"faculties", s.faculties.List)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculties")
	}
	return faculties, hit, nil
}

// ListSchools returns the schools of a faculty.
func (s *CatalogService) ListSchools(ctx context.Context, facultyID string) ([]models.School, bool, error) {
	if strings.TrimSpace(facultyID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "faculty id is required")
	}
	if _, err := s.faculties.FindByID(ctx, facultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	schools, hit, err := Remember(ctx, s.cache, catalogCachePrefix+"schools:"+facultyID, func(ctx context.Context) ([]models.School, error) {
		return s.faculties.ListSchools(ctx, facultyID)
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, hit, nil
}

// ListCourses returns a page of courses.
func (s *CatalogService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	if filter.Category != "" {
		category, err := planner.ParseCategory(filter.Category)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category")
		}
		filter.Category = string(category)
	}
	if filter.SchoolID != "" {
		if _, err := s.faculties.FindSchool(ctx, filter.SchoolID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
		}
	}

	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// GetCourse returns a course with its blocks.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.CourseWithBlocks, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	blocks, err := s.courses.BlocksForCourses(ctx, []string{course.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course blocks")
	}
	result := &models.CourseWithBlocks{Course: *course, Blocks: blocks[course.ID]}
	if result.Blocks == nil {
		result.Blocks = []models.TimeBlockRow{}
	}
	return result, nil
}

// BlocksByDay lists the blocks taught on a day. The day accepts any spelling NormalizeDay does.
func (s *CatalogService) BlocksByDay(ctx context.Context, rawDay string) ([]models.DayBlock, error) {
	day, err := planner.NormalizeDay(rawDay)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unrecognized day %q", rawDay))
	}
	blocks, err := s.courses.BlocksByDay(ctx, int(day))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	return blocks, nil
}

// Stats returns catalog coverage with per-day block counts keyed by day name.
func (s *CatalogService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	stats, _, err := Remember(ctx, s.cache, catalogCachePrefix+"stats", func(ctx context.Context) (*models.CatalogStats, error) {
		raw, err := s.courses.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return decorateStats(raw), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute catalog stats")
	}
	return stats, nil
}

func decorateStats(raw *models.CatalogStats) *models.CatalogStats {
	stats := *raw
	if stats.Courses > 0 {
		stats.CoursesWithBlocksPct = percent(stats.CoursesWithBlocks, stats.Courses)
		stats.CoursesWithInstructorPct = percent(stats.CoursesWithInstructor, stats.Courses)
	}
	byName := make(map[string]int, len(planner.Days()))
	for _, day := range planner.Days() {
		byName[day.String()] = 0
	}
	for key, count := range raw.BlocksByDay {
		n, err := strconv.Atoi(key)
		if err != nil || !planner.Day(n).Valid() {
			continue
		}
		byName[planner.Day(n).String()] = count
	}
	stats.BlocksByDay = byName
	return &stats
}

func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// InitialData loads faculties, schools and courses in parallel.
func (s *CatalogService) InitialData(ctx context.Context) (*models.InitialData, error) {
	var data models.InitialData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		faculties, _, err := s.ListFaculties(gctx)
		data.Faculties = faculties
		return err
	})
	g.Go(func() error {
		schools, err := s.faculties.ListSchools(gctx, "")
		data.Schools = schools
		return err
	})
	g.Go(func() error {
		courses, err := s.courses.ListAll(gctx)
		data.Courses = courses
		return err
	})
	if err := g.Wait(); err != nil {
		if appErr := (*appErrors.Error)(nil); errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load initial data")
	}
	return &data, nil
}

// LoadPlannerCourses turns catalog rows into planner courses, in the order of ids.
// Stored categories win over the classifier; blocks that no longer validate are rejected.
func (s *CatalogService) LoadPlannerCourses(ctx context.Context, ids []string) ([]planner.Course, error) {
	if len(ids) == 0 {
		return []planner.Course{}, nil
	}
	rows, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	byID := make(map[string]models.Course, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "courses not found: "+strings.Join(missing, ", "))
	}

	blocks, err := s.courses.BlocksForCourses(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course blocks")
	}

	courses := make([]planner.Course, 0, len(ids))
	for _, id := range ids {
		course, err := s.toPlannerCourse(byID[id], blocks[id])
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *CatalogService) toPlannerCourse(row models.Course, rows []models.TimeBlockRow) (planner.Course, error) {
	blocks := make([]planner.TimeBlock, 0, len(rows))
	for _, r := range rows {
		block, err := planner.NewTimeBlock(planner.Day(r.Day), r.StartHour, r.EndHour,
			planner.WithRoom(r.Room),
			planner.WithInstructor(r.Instructor),
			planner.WithGroup(r.Group),
			planner.WithSessionType(planner.NormalizeSessionType(r.SessionType)),
		)
		if err != nil {
			return planner.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("course %s block %d is invalid", row.Code, r.Position))
		}
		blocks = append(blocks, block)
	}

	category, err := planner.ParseCategory(row.Category)
	if err != nil || category == planner.CategoryUnknown {
		category = s.classifier.Classify(row.TypeLabel, row.Name)
	}
	return planner.Course{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Credits:   max(row.Credits, 0),
		TypeLabel: row.TypeLabel,
		Category:  category,
		Mandatory: s.classifier.IsMandatory(category),
		Blocks:    blocks,
	}, nil
}

// InvalidateCache drops every cached catalog read.
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, catalogCachePrefix+"*"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate catalog cache")
	}
	s.logger.Info("catalog cache invalidated")
	return nil
}
