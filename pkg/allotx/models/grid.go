package models

// Row is an ordered sequence of cells.
type Row []Cell

// Grid is the rectangular cell matrix loaded from one file.
type Grid struct {
	// Rows holds every row in source order. All rows have Width cells.
	Rows []Row
	// Width is the column count shared by every row.
	Width int
}

// NewGrid builds a rectangular grid, padding short rows with empty cells.
func NewGrid(rows []Row) *Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([]Row, len(rows))
	for i, row := range rows {
		if len(row) == width {
			padded[i] = row
			continue
		}
		full := make(Row, width)
		copy(full, row)
		padded[i] = full
	}

	return &Grid{Rows: padded, Width: width}
}

// Len returns the number of rows.
func (g *Grid) Len() int {
	return len(g.Rows)
}
