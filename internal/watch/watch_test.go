package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/allotx-go/pkg/allotx"
)

const sampleCSV = "Project,Riverside Phase 2\nS.No,Name,Plot No\n1,Arjun Rao,P-101\n"

func newTestWatcher(t *testing.T, dir, outDir string) *Watcher {
	t.Helper()
	w, err := New(Config{
		Dir:     dir,
		OutDir:  outDir,
		Options: allotx.DefaultOptions(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return w
}

func readMessage(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Message
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"book.xlsx", true},
		{"/data/BOOK.XLSX", true},
		{"legacy.xls", true},
		{"list.csv", true},
		{"~$book.xlsx", false},
		{".hidden.csv", false},
		{"book.json", false},
		{"notes", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.expected {
			t.Errorf("Supported(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "book.json", OutputName("/in/book.xlsx"))
	assert.Equal(t, "list.v2.json", OutputName("list.v2.csv"))
}

func TestNew(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := New(Config{Dir: filepath.Join(t.TempDir(), "missing")})
		assert.Error(t, err)
	})

	t.Run("file instead of dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))
		_, err := New(Config{Dir: path})
		assert.Error(t, err)
	})

	t.Run("creates out dir", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "nested", "out")
		newTestWatcher(t, t.TempDir(), outDir)
		assert.DirExists(t, outDir)
	})
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	w := newTestWatcher(t, dir, outDir)

	input := filepath.Join(dir, "allotments.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0644))

	dest, err := w.Process(input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "allotments.json"), dest)
	assert.Equal(t, "Extracted 1 table(s) from the file.", readMessage(t, dest))

	_, err = w.Process(filepath.Join(dir, "notes.txt"))
	assert.True(t, errors.Is(err, ErrNotSupported))
}

func TestProcessFailureStillWritten(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir, "")

	input := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("not a workbook"), 0644))

	dest, err := w.Process(input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "broken.json"), dest)
	assert.Contains(t, readMessage(t, dest), "Error extracting data:")
}

func TestProcessExisting(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv", "readme.txt", "~$c.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sampleCSV), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	w := newTestWatcher(t, dir, outDir)
	require.NoError(t, w.ProcessExisting())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	w := newTestWatcher(t, dir, outDir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	dest := filepath.Join(outDir, "late.json")
	input := filepath.Join(dir, "late.csv")

	// the watch may not be registered yet, so keep touching the file
	require.Eventually(t, func() bool {
		if err := os.WriteFile(input, []byte(sampleCSV), 0644); err != nil {
			return false
		}
		data, err := os.ReadFile(dest)
		return err == nil && json.Valid(data)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
