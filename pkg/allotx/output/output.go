// Package output serializes extraction results.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"gopkg.in/yaml.v3"
)

// DownloadFilename is the suggested name for a downloaded result document.
const DownloadFilename = "extracted_allotments.json"

// Format is a serialization format.
type Format string

const (
	// FormatJSON writes JSON.
	FormatJSON Format = "json"
	// FormatYAML writes YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (must be json or yaml)", s)
	}
}

// ToJSON serializes a result to JSON. Pretty output uses a 2-space indent.
func ToJSON(result *models.Result, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ToYAML serializes a result to YAML.
func ToYAML(result *models.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes a result to w in the given format, followed by a newline.
func Write(w io.Writer, format Format, result *models.Result, pretty bool) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = ToJSON(result, pretty)
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = ToYAML(result)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("serialize result: %w", err)
	}

	_, err = w.Write(data)
	return err
}
