package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads the first sheet of an xlsx workbook into a grid.
// Row 0 of the grid is the sheet's first row; no header row is assumed.
func LoadWorkbook(data []byte) (*models.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	return ExtractCells(f, sheets[0])
}

// ExtractCells reads every row of sheetName as typed cells.
func ExtractCells(f *excelize.File, sheetName string) (*models.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	wr := &workbookReader{
		f:          f,
		sheet:      sheetName,
		dateStyles: make(map[int]dateKind),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wr.date1904 = *props.Date1904
	}

	result := make([]models.Row, len(rows))
	for rowIdx, row := range rows {
		cells := make(models.Row, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				cells[colIdx] = models.TextCell(raw)
				continue
			}
			cells[colIdx] = wr.cell(axis, raw)
		}
		result[rowIdx] = cells
	}

	return models.NewGrid(result), nil
}

type workbookReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]dateKind
}

// cell types a raw cell value using the cell's stored type and style.
func (wr *workbookReader) cell(axis, raw string) models.Cell {
	typ, err := wr.f.GetCellType(wr.sheet, axis)
	if err != nil {
		return models.TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return models.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return models.DateCell(t)
		}
		return models.TextCell(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return wr.numeric(axis, raw)
	default:
		return models.TextCell(raw)
	}
}

// numeric parses a number cell, turning date-formatted serials into dates.
func (wr *workbookReader) numeric(axis, raw string) models.Cell {
	v, ok := parseNumber(raw)
	if !ok {
		return models.TextCell(raw)
	}

	return numberCell(v, wr.styleKind(axis), wr.date1904)
}

func (wr *workbookReader) styleKind(axis string) dateKind {
	idx, err := wr.f.GetCellStyle(wr.sheet, axis)
	if err != nil {
		return notDate
	}
	if kind, ok := wr.dateStyles[idx]; ok {
		return kind
	}

	kind := notDate
	if style, err := wr.f.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			kind = classifyFormatCode(*style.CustomNumFmt)
		} else {
			kind = classifyBuiltInFormat(style.NumFmt)
		}
	}
	wr.dateStyles[idx] = kind
	return kind
}

// parseNumber parses a raw numeric cell value.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseISODate parses the ISO 8601 text stored in t="d" cells.
func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
