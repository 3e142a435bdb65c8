// Package parser turns spreadsheet files into normalized grids, table
// blocks and records.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
)

// Format is the on-disk layout of an input file.
type Format string

const (
	// FormatCSV is comma-separated text.
	FormatCSV Format = "csv"
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatXLS is a legacy BIFF8 workbook.
	FormatXLS Format = "xls"
)

// DetectFormat picks the loader for filename by its extension.
// Anything that is neither .csv nor .xls is read as an xlsx workbook.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".xls":
		return FormatXLS
	default:
		return FormatXLSX
	}
}

// LoadGrid reads data as the given format into a rectangular grid.
func LoadGrid(data []byte, format Format) (*models.Grid, error) {
	switch format {
	case FormatCSV:
		return LoadCSV(data)
	case FormatXLS:
		return LoadXLS(data)
	default:
		return LoadWorkbook(data)
	}
}
