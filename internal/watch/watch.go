// Package watch converts spreadsheets dropped into a directory into JSON
// result documents.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/ukaji3/allotx-go/pkg/allotx"
	"github.com/ukaji3/allotx-go/pkg/allotx/output"
)

// Config holds watcher configuration.
type Config struct {
	// Dir is the directory to watch.
	Dir string
	// OutDir receives <base>.json files (default: Dir)
	OutDir string
	// Options configures every extraction
	Options allotx.Options
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// Watcher extracts supported files as they appear in a directory.
type Watcher struct {
	dir    string
	outDir string
	opts   allotx.Options
	logger *slog.Logger
}

// New creates a Watcher. Dir must be an existing directory.
func New(cfg Config) (*Watcher, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir: %s is not a directory", cfg.Dir)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.Dir
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Watcher{
		dir:    cfg.Dir,
		outDir: cfg.OutDir,
		opts:   cfg.Options,
		logger: cfg.Logger,
	}, nil
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching directory", "dir", w.dir, "out_dir", w.outDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !Supported(event.Name) {
				continue
			}
			w.logger.Debug("file event", "file", event.Name, "op", event.Op.String())
			if _, err := w.Process(event.Name); err != nil {
				w.logger.Error("failed to write result", "file", event.Name, "error", err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Process extracts path and writes its result document. It returns the
// path of the written document.
func (w *Watcher) Process(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %s", ErrNotSupported, path)
	}

	result := allotx.ExtractFile(path, w.opts)
	if result.Failed() {
		w.logger.Warn("extraction failed", "file", path, "message", result.Message)
	} else {
		w.logger.Info("extraction complete", "file", path, "tables", len(result.Tables))
	}

	data, err := output.ToJSON(result, true)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(w.outDir, OutputName(path))
	if err := os.WriteFile(dest, append(data, '\n'), 0644); err != nil {
		return "", err
	}
	return dest, nil
}

// ProcessExisting extracts every supported file already in the directory.
func (w *Watcher) ProcessExisting() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		if _, err := w.Process(filepath.Join(w.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Supported reports whether path names a spreadsheet the watcher handles.
// Editor lock files (~$book.xlsx) and hidden files are skipped.
func Supported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}

// OutputName returns the result document name for an input path.
func OutputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// ErrNotSupported indicates a file the watcher does not extract.
var ErrNotSupported = errors.New("unsupported file type")
