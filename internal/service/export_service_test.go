package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-planner/internal/dto"
	"github.com/noah-isme/horario-planner/internal/planner"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

func newExportServiceForTest(t *testing.T) *ExportService {
	t.Helper()
	resolver := newPlannerServiceForTest(nil, nil)
	svc := NewExportService(resolver, nil, nil, nil, ExportConfig{Title: "Horario 2025-I", FromHour: 8, ToHour: 11}, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }
	return svc
}

func exportSelection() dto.Selection {
	return dto.Selection{Courses: []dto.CourseInput{
		{ID: "A", Code: "BMA01", Blocks: []planner.RawTimeBlock{{Day: "LU", Start: 8, End: 10, Type: "T"}}},
		{ID: "B", Code: "FIS01", Blocks: []planner.RawTimeBlock{{Day: "MI", Range: "[09-10]"}}},
	}}
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest(t)

	file, err := svc.Export(context.Background(), "CSV", dto.ExportRequest{Selection: exportSelection()})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "horario-2025-i-20250310-093000.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Hora,Lunes,Martes,Miércoles,Jueves,Viernes,Sábado", lines[0])
	assert.Equal(t, "08:00-09:00,BMA01 (LECTURE),,,,,", lines[1])
	assert.Equal(t, "09:00-10:00,BMA01 (LECTURE),,FIS01,,,", lines[2])
	assert.Equal(t, "10:00-11:00,,,,,,", lines[3])
}

func TestExportServiceDocuments(t *testing.T) {
	svc := newExportServiceForTest(t)

	pdf, err := svc.Export(context.Background(), "pdf", dto.ExportRequest{Selection: exportSelection(), Title: "Mi horario"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Payload, []byte("%PDF")))
	assert.True(t, strings.HasPrefix(pdf.Filename, "mi-horario-"))

	xlsx, err := svc.Export(context.Background(), "xlsx", dto.ExportRequest{Selection: exportSelection()})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(xlsx.Filename, ".xlsx"))
	assert.True(t, bytes.HasPrefix(xlsx.Payload, []byte("PK")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(t)
	_, err := svc.Export(context.Background(), "docx", dto.ExportRequest{Selection: exportSelection()})
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFormat))

	_, err = svc.Export(context.Background(), "csv", dto.ExportRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTimetableDatasetUsesSpanishHeaders(t *testing.T) {
	table := planner.Timetable{
		Days: []string{"MONDAY", "SATURDAY"},
		Rows: []planner.TimetableRow{{Hour: 7, Label: "07:00-08:00", Cells: map[string]string{"SATURDAY": "X"}}},
	}
	ds := TimetableDataset(table)
	assert.Equal(t, []string{"Hora", "Lunes", "Sábado"}, ds.Headers)
	assert.Equal(t, "X", ds.Rows[0]["Sábado"])
	assert.Equal(t, "", ds.Rows[0]["Lunes"])
}
