package allotx

import (
	"errors"
	"fmt"

	"github.com/ukaji3/allotx-go/pkg/allotx/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrFileTooLarge indicates the input exceeds Options.MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// ErrBinaryInput indicates a .csv file holding binary data.
var ErrBinaryInput = parser.ErrBinaryInput

// ErrNoSheets indicates a workbook without any worksheet.
var ErrNoSheets = parser.ErrNoSheets

// LoadError represents a failure to read or parse an input file.
type LoadError struct {
	Filename string
	Format   parser.Format
	Err      error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Filename, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(filename string, format parser.Format, err error) *LoadError {
	return &LoadError{
		Filename: filename,
		Format:   format,
		Err:      err,
	}
}
