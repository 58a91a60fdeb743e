package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Hora", "MONDAY", "TUESDAY"},
		Rows: []map[string]string{
			{"Hora": "08:00-09:00", "MONDAY": "IS101 (LECTURE)"},
			{"Hora": "09:00-10:00", "MONDAY": "IS101 (LECTURE) / MA201", "TUESDAY": "Ética"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Hora,MONDAY,TUESDAY\n08:00-09:00,IS101 (LECTURE),\n09:00-10:00,IS101 (LECTURE) / MA201,Ética\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Horario 2025-I")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter("").Render(sampleDataset(), "Horario")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	title, err := f.GetCellValue(defaultSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Horario", title)
	header, _ := f.GetCellValue(defaultSheet, "B2")
	assert.Equal(t, "MONDAY", header)
	cell, _ := f.GetCellValue(defaultSheet, "B4")
	assert.Equal(t, "IS101 (LECTURE) / MA201", cell)
}
