package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Project,Riverside Phase 2\nS.No,Name,Plot No\n1,Arjun Rao,P-101\n2,,P-102\n"

// run executes the root command in an empty working directory.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "allotx dev\n", stdout)
}

func TestExtractStdout(t *testing.T) {
	input := writeInput(t, t.TempDir(), "allotments.csv", sampleCSV)

	stdout, _, err := run(t, "extract", "--pretty=false", input)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Header Information":{"Project":"Riverside Phase 2"},"Allottee Tables":[{"Table Start Row":1,"Records":[{"S.No":"1","Name":"Arjun Rao","Plot No":"P-101"},{"S.No":"2","Plot No":"P-102"}]}],"message":"Extracted 1 table(s) from the file."}`+"\n",
		stdout)
}

func TestExtractOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "allotments.csv", sampleCSV)
	dest := filepath.Join(dir, "out.yaml")

	_, _, err := run(t, "extract", "--format", "yaml", "-o", dest, input)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Project: Riverside Phase 2")
	assert.Contains(t, string(data), "message: Extracted 1 table(s) from the file.")
}

func TestExtractOutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	a := writeInput(t, dir, "a.csv", sampleCSV)
	b := writeInput(t, dir, "b.csv", "S.No,Name,Plot No\n1,Meera,P-7\n")

	_, _, err := run(t, "extract", "--out-dir", outDir, "-j", "2", a, b)
	require.NoError(t, err)

	for _, name := range []string{"a.json", "b.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.True(t, json.Valid(data), name)
	}
}

func TestExtractFailureExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "broken.xlsx", "not a workbook")

	stdout, stderr, err := run(t, "extract", input)
	require.Error(t, err)
	assert.Equal(t, "1 of 1 file(s) failed", err.Error())
	assert.True(t, strings.Contains(stdout, `"message": "Error extracting data:`), stdout)
	assert.NotContains(t, stdout, "Header Information")
	assert.Contains(t, stderr, "extraction failed")
}

func TestExtractArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.csv", sampleCSV)
	b := writeInput(t, dir, "b.csv", sampleCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", []string{"extract"}, "requires at least 1 arg"},
		{"several inputs without out-dir", []string{"extract", a, b}, "--out-dir"},
		{"output and out-dir", []string{"extract", "-o", "x.json", "--out-dir", dir, a}, "mutually exclusive"},
		{"bad format", []string{"extract", "--format", "xml", a}, "xml"},
		{"bad header scope", []string{"extract", "--header-scope", "inside", a}, "header scope"},
		{"bad log level", []string{"--log-level", "loud", "extract", a}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
