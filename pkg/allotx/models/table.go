package models

// Table is one detected table block with its records.
type Table struct {
	// StartRow is the 0-based grid index of the block's field-name row.
	StartRow int `json:"Table Start Row" yaml:"Table Start Row"`
	// Records holds one entry per non-empty data row, in source order.
	Records []*Fields `json:"Records" yaml:"Records"`
}
