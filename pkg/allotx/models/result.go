package models

import "fmt"

// Result is the document produced by one extraction call.
// A failed extraction carries only Message.
type Result struct {
	// Header holds key/value metadata found outside table blocks; nil on failure.
	Header *Fields
	// Tables holds non-empty table blocks in source order.
	Tables []Table
	// Message summarizes the outcome.
	Message string
}

// resultDoc fixes the wire keys of Result.
type resultDoc struct {
	Header  *Fields  `json:"Header Information,omitempty" yaml:"Header Information,omitempty"`
	Tables  *[]Table `json:"Allottee Tables,omitempty" yaml:"Allottee Tables,omitempty"`
	Message string   `json:"message" yaml:"message"`
}

// NewResult builds a successful result.
func NewResult(header *Fields, tables []Table) *Result {
	if header == nil {
		header = NewFields()
	}
	if tables == nil {
		tables = []Table{}
	}
	return &Result{
		Header:  header,
		Tables:  tables,
		Message: fmt.Sprintf("Extracted %d table(s) from the file.", len(tables)),
	}
}

// NewFailure builds a failure result from err.
func NewFailure(err error) *Result {
	return &Result{Message: fmt.Sprintf("Error extracting data: %v", err)}
}

// Failed reports whether the result describes a failed extraction.
func (r *Result) Failed() bool {
	return r.Header == nil
}

func (r *Result) doc() resultDoc {
	doc := resultDoc{Message: r.Message}
	if !r.Failed() {
		tables := r.Tables
		if tables == nil {
			tables = []Table{}
		}
		doc.Header = r.Header
		doc.Tables = &tables
	}
	return doc
}

// MarshalJSON encodes the result with its fixed document keys.
func (r *Result) MarshalJSON() ([]byte, error) {
	return marshalJSON(r.doc())
}

// MarshalYAML encodes the result with its fixed document keys.
func (r *Result) MarshalYAML() (interface{}, error) {
	return r.doc(), nil
}
