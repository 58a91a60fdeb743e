package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/dto"
	"github.com/noah-isme/horario-planner/internal/models"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/jobs"
)

const (
	importQueueName      = "catalog-import"
	sourceExt            = ".json"
	defaultFacultyCode   = "GENERAL"
	schoolCodeFallbackPx = "EP_"
	interruptedReason    = "import interrupted by shutdown"
)

type catalogImportStore interface {
	ReplaceCatalog(ctx context.Context, snapshot models.CatalogSnapshot) error
	CreateRun(ctx context.Context, run *models.CatalogImport) error
	MarkRunning(ctx context.Context, id string) error
	Finish(ctx context.Context, id string, status models.ImportStatus, summary models.ImportSummary, errMsg *string) error
	FindRun(ctx context.Context, id string) (*models.CatalogImport, error)
	HasActiveRun(ctx context.Context) (bool, error)
	FailActiveRuns(ctx context.Context, reason string) (int64, error)
}

type sourceStore interface {
	List(ext string) ([]string, error)
	ReadFile(filename string) ([]byte, error)
	SaveStream(filename string, r io.Reader) (string, error)
}

type catalogCacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type importMetrics interface {
	RecordImport(status models.ImportStatus)
}

// ImportPayload is the job payload of an asynchronous import.
type ImportPayload struct {
	RunID    string
	Semester string
	Files    []string
}

// ImportConfig configures the import worker.
type ImportConfig struct {
	Semester   string
	Workers    int
	Retries    int
	RetryDelay time.Duration
	Classifier planner.Classifier
}

// SourceFile is one scraper file to consolidate.
type SourceFile struct {
	Name string
	Data []byte
}

// ImportService consolidates scraper output into the catalog.
type ImportService struct {
	store   sourceStore
	repo    catalogImportStore
	cache   catalogCacheInvalidator
	metrics importMetrics
	logger  *zap.Logger
	cfg     ImportConfig
	queue   *jobs.Queue[ImportPayload]
	newID   func() string
	now     func() time.Time
}

// NewImportService constructs an ImportService. Call Start before Enqueue.
func NewImportService(store sourceStore, repo catalogImportStore, cache catalogCacheInvalidator, metrics importMetrics, logger *zap.Logger, cfg ImportConfig) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Classifier.UnknownAs == "" {
		cfg.Classifier = planner.DefaultClassifier()
	}
	svc := &ImportService{
		store:   store,
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	svc.queue = jobs.NewQueue[ImportPayload](importQueueName, svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: 4,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	svc.queue.OnFailure(svc.fail)
	return svc
}

// Start fails runs left QUEUED or RUNNING by a previous process, then launches the import workers.
func (s *ImportService) Start(ctx context.Context) {
	if n, err := s.repo.FailActiveRuns(ctx, interruptedReason); err != nil {
		s.logger.Error("failed to close interrupted imports", zap.Error(err))
	} else if n > 0 {
		s.logger.Warn("closed interrupted imports", zap.Int64("runs", n))
	}
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *ImportService) Stop() {
	s.queue.Stop()
}

// SaveSource stores an uploaded scraper file.
func (s *ImportService) SaveSource(filename string, r io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), sourceExt) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a JSON file", filepath.Base(filename)))
	}
	name, err := s.store.SaveStream(filename, r)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store source file")
	}
	return name, nil
}

// Enqueue records a run and schedules it. Without files every stored JSON file is imported.
func (s *ImportService) Enqueue(ctx context.Context, req dto.ImportRequest, requestedBy string, files []string) (*dto.ImportAccepted, error) {
	active, err := s.repo.HasActiveRun(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check import state")
	}
	if active {
		return nil, appErrors.ErrImportBusy
	}
	if len(files) == 0 {
		if files, err = s.store.List(sourceExt); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source files")
		}
	}
	if len(files) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no source files to import")
	}

	semester := strings.TrimSpace(req.Semester)
	if semester == "" {
		semester = s.cfg.Semester
	}
	run := &models.CatalogImport{
		ID:          s.newID(),
		Status:      models.ImportQueued,
		Semester:    semester,
		RequestedBy: requestedBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record import")
	}

	job := jobs.Job[ImportPayload]{ID: run.ID, Payload: ImportPayload{RunID: run.ID, Semester: semester, Files: files}}
	if err := s.queue.Enqueue(job); err != nil {
		msg := err.Error()
		if ferr := s.repo.Finish(ctx, run.ID, models.ImportFailed, models.ImportSummary{}, &msg); ferr != nil {
			s.logger.Error("failed to record import failure", zap.String("import_id", run.ID), zap.Error(ferr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrServiceDisabled.Code, appErrors.ErrServiceDisabled.Status, "import queue unavailable")
	}
	s.logger.Info("catalog import queued", zap.String("import_id", run.ID), zap.Int("files", len(files)), zap.String("requested_by", requestedBy))
	return &dto.ImportAccepted{ImportID: run.ID, Status: string(run.Status), Files: files}, nil
}

// ImportNow runs an import synchronously with the same run tracking as queued imports.
func (s *ImportService) ImportNow(ctx context.Context, req dto.ImportRequest, requestedBy string) (*models.CatalogImport, error) {
	active, err := s.repo.HasActiveRun(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check import state")
	}
	if active {
		return nil, appErrors.ErrImportBusy
	}
	files, err := s.store.List(sourceExt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source files")
	}
	if len(files) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no source files to import")
	}
	semester := firstNonEmpty(req.Semester, s.cfg.Semester)
	run := &models.CatalogImport{
		ID:          s.newID(),
		Status:      models.ImportRunning,
		Semester:    semester,
		RequestedBy: requestedBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record import")
	}

	summary, runErr := s.Run(ctx, files, semester)
	status := models.ImportSucceeded
	var errMsg *string
	if runErr != nil {
		status = models.ImportFailed
		msg := runErr.Error()
		errMsg = &msg
		summary = &models.ImportSummary{}
	}
	if err := s.repo.Finish(ctx, run.ID, status, *summary, errMsg); err != nil {
		s.logger.Error("failed to record import result", zap.String("import_id", run.ID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordImport(status)
	}
	if runErr != nil {
		return nil, appErrors.Wrap(runErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "catalog import failed")
	}

	run.Status = status
	run.Files = summary.Files
	run.Faculties = summary.Faculties
	run.Schools = summary.Schools
	run.Courses = summary.Courses
	run.Blocks = summary.Blocks
	run.SkippedBlocks = summary.SkippedBlocks
	return run, nil
}

// Status returns an import run.
func (s *ImportService) Status(ctx context.Context, id string) (*models.CatalogImport, error) {
	run, err := s.repo.FindRun(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "import not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load import")
	}
	return run, nil
}

func (s *ImportService) handle(ctx context.Context, job jobs.Job[ImportPayload]) error {
	p := job.Payload
	if err := s.repo.MarkRunning(ctx, p.RunID); err != nil {
		return err
	}
	summary, err := s.Run(ctx, p.Files, p.Semester)
	if err != nil {
		return err
	}
	if err := s.repo.Finish(ctx, p.RunID, models.ImportSucceeded, *summary, nil); err != nil {
		s.logger.Error("failed to record import result", zap.String("import_id", p.RunID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordImport(models.ImportSucceeded)
	}
	return nil
}

func (s *ImportService) fail(job jobs.Job[ImportPayload], err error) {
	msg := err.Error()
	if errors.Is(err, jobs.ErrStopped) {
		msg = interruptedReason
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ferr := s.repo.Finish(ctx, job.Payload.RunID, models.ImportFailed, models.ImportSummary{}, &msg); ferr != nil {
		s.logger.Error("failed to record import failure", zap.String("import_id", job.Payload.RunID), zap.Error(ferr))
	}
	if s.metrics != nil {
		s.metrics.RecordImport(models.ImportFailed)
	}
}

// Run imports the named stored files synchronously and replaces the catalog.
func (s *ImportService) Run(ctx context.Context, files []string, semester string) (*models.ImportSummary, error) {
	sources := make([]SourceFile, 0, len(files))
	for _, name := range files {
		data, err := s.store.ReadFile(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, SourceFile{Name: name, Data: data})
	}
	if semester == "" {
		semester = s.cfg.Semester
	}

	snapshot, summary := s.Consolidate(sources, semester)
	if len(snapshot.Courses) == 0 {
		return nil, fmt.Errorf("no courses found in %d files", len(files))
	}
	if err := s.repo.ReplaceCatalog(ctx, snapshot); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateCache(ctx); err != nil {
			s.logger.Warn("catalog cache not invalidated after import", zap.Error(err))
		}
	}
	s.logger.Info("catalog imported",
		zap.Int("files", summary.Files),
		zap.Int("faculties", summary.Faculties),
		zap.Int("schools", summary.Schools),
		zap.Int("courses", summary.Courses),
		zap.Int("blocks", summary.Blocks),
		zap.Int("skipped_blocks", summary.SkippedBlocks),
	)
	return &summary, nil
}

// Consolidate merges scraper files into a catalog snapshot. Unreadable files and
// malformed sessions are skipped with a warning; courses are deduplicated by school and code.
func (s *ImportService) Consolidate(sources []SourceFile, semester string) (models.CatalogSnapshot, models.ImportSummary) {
	var (
		snapshot  models.CatalogSnapshot
		summary   models.ImportSummary
		faculties = map[string]string{}
		schools   = map[string]string{}
		courses   = map[string]struct{}{}
		now       = s.now().UTC()
	)

	for _, src := range sources {
		var file dto.ScrapedSchedule
		if err := json.Unmarshal(src.Data, &file); err != nil {
			s.logger.Warn("skip unreadable source file", zap.String("file", src.Name), zap.Error(err))
			continue
		}
		summary.Files++

		facultyCode := normalizeCode(file.General.FacultyCode, file.General.Faculty, "")
		if facultyCode == "" {
			facultyCode = defaultFacultyCode
		}
		facultyID, ok := faculties[facultyCode]
		if !ok {
			facultyID = s.newID()
			faculties[facultyCode] = facultyID
			snapshot.Faculties = append(snapshot.Faculties, models.Faculty{
				ID:        facultyID,
				Code:      facultyCode,
				Name:      firstNonEmpty(file.General.Faculty, facultyCode),
				CreatedAt: now,
			})
		}

		schoolName := firstNonEmpty(file.General.School, file.General.Career, file.General.Name)
		schoolCode := normalizeCode(file.General.SchoolCode, schoolName, schoolCodeFallbackPx)
		if schoolCode == "" {
			s.logger.Warn("skip source file without school", zap.String("file", src.Name))
			continue
		}
		schoolKey := facultyID + "|" + schoolCode
		schoolID, ok := schools[schoolKey]
		if !ok {
			schoolID = s.newID()
			schools[schoolKey] = schoolID
			snapshot.Schools = append(snapshot.Schools, models.School{
				ID:        schoolID,
				FacultyID: facultyID,
				Code:      schoolCode,
				Name:      firstNonEmpty(schoolName, schoolCode),
				CreatedAt: now,
			})
		}

		courseSemester := firstNonEmpty(file.General.Semester, semester)
		for _, sc := range file.Courses {
			code := strings.ToUpper(strings.TrimSpace(sc.Code))
			if code == "" {
				s.logger.Warn("skip course without code", zap.String("file", src.Name), zap.String("name", sc.Name))
				continue
			}
			courseKey := schoolID + "|" + code
			if _, dup := courses[courseKey]; dup {
				s.logger.Debug("skip duplicate course", zap.String("file", src.Name), zap.String("code", code))
				continue
			}
			courses[courseKey] = struct{}{}

			course := s.buildCourse(src.Name, schoolID, code, courseSemester, sc, now, &summary)
			snapshot.Courses = append(snapshot.Courses, course)
			summary.Blocks += len(course.Blocks)
		}
	}

	summary.Faculties = len(snapshot.Faculties)
	summary.Schools = len(snapshot.Schools)
	summary.Courses = len(snapshot.Courses)
	return snapshot, summary
}

func (s *ImportService) buildCourse(file, schoolID, code, semester string, sc dto.ScrapedCourse, now time.Time, summary *models.ImportSummary) models.CourseWithBlocks {
	name := strings.TrimSpace(sc.Name)
	courseID := s.newID()
	out := models.CourseWithBlocks{
		Course: models.Course{
			ID:          courseID,
			SchoolID:    schoolID,
			Code:        code,
			Name:        name,
			Credits:     max(int(sc.Credits), 0),
			TypeLabel:   strings.TrimSpace(sc.Type),
			Category:    string(s.cfg.Classifier.Classify(sc.Type, name)),
			Semester:    semester,
			Instructors: joinDistinct(sc.Instructors),
			Rooms:       joinDistinct(sc.Rooms),
			CreatedAt:   now,
		},
		Blocks: make([]models.TimeBlockRow, 0, len(sc.Sessions)),
	}

	for i, session := range sc.Sessions {
		raw := planner.RawTimeBlock{
			Day:        session.Day,
			Start:      session.Start,
			End:        session.End,
			Range:      session.Range,
			Room:       session.Room,
			Instructor: session.Instructor,
			Group:      session.Group,
			Type:       session.Type,
		}
		block, err := raw.Normalize()
		if err != nil {
			summary.SkippedBlocks++
			s.logger.Warn("skip malformed session",
				zap.String("file", file),
				zap.String("course", code),
				zap.Int("session", i),
				zap.Error(err),
			)
			continue
		}
		out.Blocks = append(out.Blocks, models.TimeBlockRow{
			ID:          s.newID(),
			CourseID:    courseID,
			Position:    len(out.Blocks),
			Day:         int(block.Day),
			StartHour:   block.StartHour,
			EndHour:     block.EndHour,
			Room:        block.Room,
			Instructor:  block.Instructor,
			Group:       block.Group,
			SessionType: string(block.SessionType),
		})
	}
	return out
}

// normalizeCode upper-cases an explicit code or derives one from name via slug.
func normalizeCode(code, name, prefix string) string {
	if c := strings.ToUpper(strings.TrimSpace(code)); c != "" {
		return c
	}
	s := slug.Make(name)
	if s == "" {
		return ""
	}
	return prefix + strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func joinDistinct(values []string) string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return strings.Join(out, ", ")
}
