package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/dto"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

type plannerCourseLoader interface {
	LoadPlannerCourses(ctx context.Context, ids []string) ([]planner.Course, error)
}

type plannerMetrics interface {
	ObserveSearch(combinations int, duration time.Duration)
	AddConflicts(n int)
}

// PlannerConfig bounds planner requests.
type PlannerConfig struct {
	DefaultMaxCombinations int
	DefaultMaxCourses      int
	MaxCombinationsLimit   int
	TimetableStartHour     int
	TimetableEndHour       int
	Classifier             planner.Classifier
}

// PlannerService resolves course selections and runs the conflict, scoring and
// combination operations on them.
type PlannerService struct {
	loader    plannerCourseLoader
	metrics   plannerMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       PlannerConfig
}

// NewPlannerService constructs a PlannerService with sane defaults.
func NewPlannerService(loader plannerCourseLoader, metrics plannerMetrics, validate *validator.Validate, logger *zap.Logger, cfg PlannerConfig) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxCombinations <= 0 {
		cfg.DefaultMaxCombinations = planner.DefaultMaxCombinations
	}
	if cfg.DefaultMaxCourses <= 0 {
		cfg.DefaultMaxCourses = planner.DefaultMaxCoursesPerCombination
	}
	if cfg.MaxCombinationsLimit <= 0 {
		cfg.MaxCombinationsLimit = 500
	}
	if cfg.DefaultMaxCombinations > cfg.MaxCombinationsLimit {
		cfg.DefaultMaxCombinations = cfg.MaxCombinationsLimit
	}
	if cfg.TimetableStartHour <= 0 {
		cfg.TimetableStartHour = planner.DefaultTimetableStart
	}
	if cfg.TimetableEndHour <= cfg.TimetableStartHour {
		cfg.TimetableEndHour = planner.DefaultTimetableEnd
	}
	if cfg.Classifier.UnknownAs == "" {
		cfg.Classifier = planner.DefaultClassifier()
	}
	return &PlannerService{loader: loader, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// CheckConflicts reports every overlapping block pair in the selection.
func (s *PlannerService) CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictReportResponse, error) {
	courses, err := s.Resolve(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	conflicts := planner.DetectConflicts(courses)
	if s.metrics != nil {
		s.metrics.AddConflicts(len(conflicts))
	}
	return &dto.ConflictReportResponse{
		HasConflicts: len(conflicts) > 0,
		Count:        len(conflicts),
		Conflicts:    nonNilConflicts(conflicts),
	}, nil
}

// Score rates the selection as a single combination.
func (s *PlannerService) Score(ctx context.Context, req dto.ScoreRequest) (*dto.ScoreResponse, error) {
	courses, err := s.Resolve(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	combo := planner.Evaluate(courses)
	mandatory := 0
	for _, c := range courses {
		if c.IsMandatory() {
			mandatory++
		}
	}
	return &dto.ScoreResponse{
		Score:             combo.Score,
		TotalCredits:      combo.TotalCredits,
		TotalWeeklyHours:  combo.TotalWeeklyHours,
		MandatoryCourses:  mandatory,
		DistributionBonus: planner.DistributionBonus(courses),
		Conflicts:         nonNilConflicts(combo.Conflicts),
	}, nil
}

// GenerateCombinations searches conflict-free subsets of the selection.
func (s *PlannerService) GenerateCombinations(ctx context.Context, req dto.CombinationRequest) (*dto.CombinationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid combination request")
	}
	courses, err := s.Resolve(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	limit := req.MaxCombinations
	if limit <= 0 {
		limit = s.cfg.DefaultMaxCombinations
	}
	limit = min(limit, s.cfg.MaxCombinationsLimit)
	size := req.MaxCoursesPerCombination
	if size <= 0 {
		size = s.cfg.DefaultMaxCourses
	}

	start := time.Now()
	combos := planner.Generate(courses, planner.GeneratorOptions{MaxCombinations: limit, MaxCoursesPerCombination: size})
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveSearch(len(combos), elapsed)
	}
	s.logger.Debug("combinations generated",
		zap.Int("candidates", len(courses)),
		zap.Int("combinations", len(combos)),
		zap.Int("limit", limit),
		zap.Duration("elapsed", elapsed),
	)

	resp := &dto.CombinationResponse{Count: len(combos), Limit: limit, Combinations: combos}
	for i := 0; i < req.Preview && i < len(combos); i++ {
		resp.Previews = append(resp.Previews, planner.BuildTimetable(combos[i].Courses, s.cfg.TimetableStartHour, s.cfg.TimetableEndHour))
	}
	return resp, nil
}

// Timetable lays the selection out on the weekly grid.
func (s *PlannerService) Timetable(ctx context.Context, req dto.TimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable request")
	}
	courses, err := s.Resolve(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	from, to := s.hours(req.FromHour, req.ToHour)
	return &dto.TimetableResponse{
		Timetable: planner.BuildTimetable(courses, from, to),
		Conflicts: nonNilConflicts(planner.DetectConflicts(courses)),
	}, nil
}

func (s *PlannerService) hours(from, to int) (int, int) {
	if from <= 0 {
		from = s.cfg.TimetableStartHour
	}
	if to <= 0 {
		to = s.cfg.TimetableEndHour
	}
	if to <= from {
		return s.cfg.TimetableStartHour, s.cfg.TimetableEndHour
	}
	return from, to
}

// Resolve turns a selection into planner courses: catalog IDs first, in request order,
// then inline courses.
func (s *PlannerService) Resolve(ctx context.Context, sel dto.Selection) ([]planner.Course, error) {
	if err := s.validator.Struct(sel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course selection")
	}
	if sel.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one course is required")
	}

	seen := make(map[string]struct{}, len(sel.CourseIDs)+len(sel.Courses))
	for _, id := range sel.CourseIDs {
		if _, dup := seen[id]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s selected more than once", id))
		}
		seen[id] = struct{}{}
	}
	for _, in := range sel.Courses {
		if _, dup := seen[in.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s selected more than once", in.ID))
		}
		seen[in.ID] = struct{}{}
	}

	courses := make([]planner.Course, 0, len(seen))
	if len(sel.CourseIDs) > 0 {
		if s.loader == nil {
			return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "catalog is not available")
		}
		loaded, err := s.loader.LoadPlannerCourses(ctx, sel.CourseIDs)
		if err != nil {
			return nil, err
		}
		courses = append(courses, loaded...)
	}
	for _, in := range sel.Courses {
		course, err := s.buildInline(in)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *PlannerService) buildInline(in dto.CourseInput) (planner.Course, error) {
	for i, raw := range in.Blocks {
		if _, err := raw.Normalize(); err != nil {
			return planner.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("course %s block %d: %s", in.ID, i, blockErrorReason(err)))
		}
	}
	course, err := planner.BuildCourse(in.ID, in.Code, in.Name, in.Credits, in.Type, in.Blocks, s.cfg.Classifier)
	if err != nil {
		return planner.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("course %s is invalid", in.ID))
	}
	if strings.TrimSpace(in.Category) != "" {
		category, err := planner.ParseCategory(in.Category)
		if err != nil {
			return planner.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("course %s has an invalid category", in.ID))
		}
		if category != planner.CategoryUnknown {
			course.Category = category
			course.Mandatory = s.cfg.Classifier.IsMandatory(category)
		}
	}
	return course, nil
}

func blockErrorReason(err error) string {
	switch {
	case errors.Is(err, planner.ErrUnrecognizedDay):
		return "unrecognized day"
	case errors.Is(err, planner.ErrInvalidRange):
		return "start must be before end"
	case errors.Is(err, planner.ErrInvalidHour):
		return "invalid hour"
	}
	return err.Error()
}

func nonNilConflicts(records []planner.ConflictRecord) []planner.ConflictRecord {
	if records == nil {
		return []planner.ConflictRecord{}
	}
	return records
}
