// Package models defines data structures for allotment extraction.
package models

import "time"

// CellKind identifies which value a Cell carries.
type CellKind int

const (
	// CellEmpty is an absent cell.
	CellEmpty CellKind = iota
	// CellText is a text cell.
	CellText
	// CellNumber is a numeric cell.
	CellNumber
	// CellDate is a date or timestamp cell.
	CellDate
	// CellBool is a boolean cell.
	CellBool
)

// Cell is a single grid value as read from the source file.
type Cell struct {
	// Kind selects which of the value fields is meaningful.
	Kind CellKind
	// Text is the raw text for CellText.
	Text string
	// Number is the value for CellNumber.
	Number float64
	// Date is the value for CellDate.
	Date time.Time
	// Bool is the value for CellBool.
	Bool bool
}

// EmptyCell returns an empty cell.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// DateCell returns a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}
