package parser

import (
	"strings"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
)

// HeaderScope selects which rows may contribute header entries.
type HeaderScope string

const (
	// HeaderScopeOutside collects two-cell rows that lie outside every table block.
	HeaderScopeOutside HeaderScope = "outside"
	// HeaderScopeAll collects two-cell rows anywhere in the grid, including
	// rows that also become table records.
	HeaderScopeAll HeaderScope = "all"
)

// ParseHeaderScope maps a flag or config value to a HeaderScope.
func ParseHeaderScope(s string) (HeaderScope, bool) {
	switch HeaderScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", HeaderScopeOutside:
		return HeaderScopeOutside, true
	case HeaderScopeAll:
		return HeaderScopeAll, true
	}
	return "", false
}

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	// NameMarker must occur in some lowercased cell of a table-header row.
	NameMarker string
	// NumberMarker must occur in some lowercased cell of a table-header row.
	NumberMarker string
	// MinNonemptyCells is the least number of filled cells in a table-header row.
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		NameMarker:       "name",
		NumberMarker:     "no",
		MinNonemptyCells: 3,
	}
}

// Block is a half-open row range [Start, End) of one table.
type Block struct {
	Start int
	End   int
}

// Segmentation is the outcome of classifying every grid row.
type Segmentation struct {
	// Header holds key/value entries from header rows.
	Header *models.Fields
	// Blocks lists table blocks in row order.
	Blocks []Block
}

// Segment classifies the rows of a normalized grid in a single forward pass.
// Under HeaderScopeOutside only rows above the first table header yield
// header entries.
func Segment(rows [][]string, params TableDetectionParams, scope HeaderScope) Segmentation {
	var starts []int
	header := models.NewFields()
	for i, row := range rows {
		if IsTableHeader(row, params) {
			starts = append(starts, i)
		}
		if scope != HeaderScopeAll && len(starts) > 0 {
			continue
		}
		if key, value, ok := HeaderEntry(row); ok {
			header.Set(key, value)
		}
	}

	return Segmentation{Header: header, Blocks: Blocks(starts, len(rows))}
}

// HeaderEntry reports whether row holds exactly two non-empty cells and
// returns them as a key/value pair.
func HeaderEntry(row []string) (key, value string, ok bool) {
	filled := nonEmpty(row)
	if len(filled) != 2 {
		return "", "", false
	}
	return filled[0], filled[1], true
}

// IsTableHeader reports whether row looks like the field-name row of a table.
// Markers match as substrings, so "Note" satisfies "no" and "Surname"
// satisfies "name".
func IsTableHeader(row []string, params TableDetectionParams) bool {
	hasName, hasNumber, filled := false, false, 0
	for _, cell := range row {
		if cell == "" {
			continue
		}
		filled++
		lower := strings.ToLower(cell)
		if strings.Contains(lower, params.NameMarker) {
			hasName = true
		}
		if strings.Contains(lower, params.NumberMarker) {
			hasNumber = true
		}
	}
	return hasName && hasNumber && filled >= params.MinNonemptyCells
}

// Blocks turns table start indices into row ranges. Each block ends where
// the next one starts; the last block ends at total.
func Blocks(starts []int, total int) []Block {
	blocks := make([]Block, 0, len(starts))
	for i, start := range starts {
		end := total
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks = append(blocks, Block{Start: start, End: end})
	}
	return blocks
}

func nonEmpty(row []string) []string {
	var filled []string
	for _, cell := range row {
		if cell != "" {
			filled = append(filled, cell)
		}
	}
	return filled
}
