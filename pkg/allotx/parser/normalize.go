package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the display form of date cells (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// FormatCell reduces a cell to its display string.
// Empty cells and the text values "nan" and "none" (any case, surrounding
// whitespace ignored) become "". FormatCell is idempotent on its output.
func FormatCell(c models.Cell) string {
	switch c.Kind {
	case models.CellEmpty:
		return ""
	case models.CellDate:
		return c.Date.Format(DateLayout)
	case models.CellNumber:
		if math.IsNaN(c.Number) {
			return ""
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case models.CellBool:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return formatText(c.Text)
	}
}

func formatText(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if isNullText(s) {
		return ""
	}
	return s
}

func isNullText(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "none":
		return true
	}
	return false
}

// NormalizeGrid formats every cell of g.
func NormalizeGrid(g *models.Grid) [][]string {
	out := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		values := make([]string, len(row))
		for j, cell := range row {
			values[j] = FormatCell(cell)
		}
		out[i] = values
	}
	return out
}
