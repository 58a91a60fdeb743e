package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Horario"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct {
	sheet string
}

// NewXLSXExporter builds an XLSX exporter writing to the named sheet.
func NewXLSXExporter(sheet string) *XLSXExporter {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &XLSXExporter{sheet: sheet}
}

// Render writes an optional title row, a styled header row and the dataset body.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	idx, err := f.NewSheet(e.sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if e.sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}

	row := 1
	if title != "" {
		lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
		if err := f.SetCellValue(e.sheet, "A1", title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		_ = f.MergeCell(e.sheet, "A1", lastCol+"1")
		_ = f.SetCellStyle(e.sheet, "A1", "A1", headerStyle)
		row = 2
	}

	for i, header := range data.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 22.0
		if i == 0 {
			width = 14
		}
		_ = f.SetColWidth(e.sheet, col, col, width)
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(e.sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		_ = f.SetCellStyle(e.sheet, cell, cell, headerStyle)
	}

	for _, record := range data.Rows {
		row++
		for i, header := range data.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(e.sheet, cell, record[header]); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
			_ = f.SetCellStyle(e.sheet, cell, cell, cellStyle)
		}
	}

	buf := &bytes.Buffer{}
	if _, err := f.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
