package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadCSV parses comma-separated text into a grid.
// Rows may have different lengths; lines that fail to parse are skipped.
func LoadCSV(data []byte) (*models.Grid, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	var rows []models.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// skip malformed line
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row := make(models.Row, len(record))
		for i, value := range record {
			if value != "" {
				row[i] = models.TextCell(value)
			}
		}
		rows = append(rows, row)
	}

	return models.NewGrid(rows), nil
}

// decodeText converts raw bytes to UTF-8. A BOM selects UTF-8 or UTF-16;
// without one, invalid UTF-8 is read as Windows-1252.
func decodeText(data []byte) ([]byte, error) {
	text, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	if bytes.IndexByte(text, 0) >= 0 {
		return nil, ErrBinaryInput
	}

	if !utf8.Valid(text) {
		text, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), text)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
	}

	return text, nil
}
