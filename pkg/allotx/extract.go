package allotx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"github.com/ukaji3/allotx-go/pkg/allotx/parser"
)

// Extract reads one spreadsheet and returns its extraction result.
// It never fails: load and parse errors are reported in the result message.
func Extract(r io.Reader, filename string, opts Options) *models.Result {
	result, err := extract(r, filename, opts)
	if err != nil {
		return models.NewFailure(err)
	}
	return result
}

// ExtractFile opens path and extracts it.
func ExtractFile(path string, opts Options) *models.Result {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewFailure(fmt.Errorf("%w: %s", ErrFileNotFound, path))
		}
		return models.NewFailure(NewLoadError(filepath.Base(path), "", err))
	}
	defer f.Close()

	return Extract(f, filepath.Base(path), opts)
}

func extract(r io.Reader, filename string, opts Options) (result *models.Result, err error) {
	format := parser.DetectFormat(filename)

	// third-party decoders may panic on corrupt input
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = NewLoadError(filename, format, fmt.Errorf("panic while parsing: %v", p))
		}
	}()

	data, err := readAll(r, opts.MaxFileSize)
	if err != nil {
		return nil, NewLoadError(filename, format, err)
	}

	grid, err := parser.LoadGrid(data, format)
	if err != nil {
		return nil, NewLoadError(filename, format, err)
	}

	rows := parser.NormalizeGrid(grid)
	seg := parser.Segment(rows, opts.TableParams(), opts.HeaderScope)
	tables := parser.BuildTables(rows, seg.Blocks)

	return models.NewResult(seg.Header, tables), nil
}

// readAll reads r fully, failing once more than limit bytes arrive.
func readAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return buf.Bytes(), nil
}
