package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/noah-isme/horario-planner/internal/dto"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/export"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

const hourHeader = "Hora"

var dayLabels = map[string]string{
	planner.Monday.String():    "Lunes",
	planner.Tuesday.String():   "Martes",
	planner.Wednesday.String(): "Miércoles",
	planner.Thursday.String():  "Jueves",
	planner.Friday.String():    "Viernes",
	planner.Saturday.String():  "Sábado",
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type selectionResolver interface {
	Resolve(ctx context.Context, sel dto.Selection) ([]planner.Course, error)
}

// ExportService renders the timetable of a selection as a document.
type ExportService struct {
	resolver     selectionResolver
	csv          csvRenderer
	pdf          documentRenderer
	xlsx         documentRenderer
	defaultTitle string
	fromHour     int
	toHour       int
	logger       *zap.Logger
	now          func() time.Time
}

// ExportConfig configures document defaults.
type ExportConfig struct {
	Title    string
	FromHour int
	ToHour   int
}

// NewExportService wires the renderers, falling back to the bundled exporters.
func NewExportService(resolver selectionResolver, csv csvRenderer, pdf, xlsx documentRenderer, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Horario"
	}
	if cfg.FromHour <= 0 {
		cfg.FromHour = planner.DefaultTimetableStart
	}
	if cfg.ToHour <= cfg.FromHour {
		cfg.ToHour = planner.DefaultTimetableEnd
	}
	return &ExportService{
		resolver:     resolver,
		csv:          csv,
		pdf:          pdf,
		xlsx:         xlsx,
		defaultTitle: cfg.Title,
		fromHour:     cfg.FromHour,
		toHour:       cfg.ToHour,
		logger:       logger,
		now:          time.Now,
	}
}

// Export renders the selection in the requested format.
func (s *ExportService) Export(ctx context.Context, format string, req dto.ExportRequest) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF && format != FormatXLSX {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	courses, err := s.resolver.Resolve(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = s.defaultTitle
	}
	dataset := TimetableDataset(planner.BuildTimetable(courses, s.fromHour, s.toHour))

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	case FormatXLSX:
		payload, err = s.xlsx.Render(dataset, title)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s-%s.%s", slug.Make(title), s.now().UTC().Format("20060102-150405"), format)
	s.logger.Info("timetable exported", zap.String("format", format), zap.Int("courses", len(courses)), zap.Int("bytes", len(payload)))
	return &dto.ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

// TimetableDataset flattens a timetable into an hour column plus one column per day.
func TimetableDataset(table planner.Timetable) export.Dataset {
	headers := make([]string, 0, len(table.Days)+1)
	headers = append(headers, hourHeader)
	for _, day := range table.Days {
		headers = append(headers, dayLabel(day))
	}
	rows := make([]map[string]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		row := map[string]string{hourHeader: r.Label}
		for _, day := range table.Days {
			row[dayLabel(day)] = r.Cells[day]
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func dayLabel(day string) string {
	if label, ok := dayLabels[day]; ok {
		return label
	}
	return day
}
