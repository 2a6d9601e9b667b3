package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeBook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scores.xlsx")
	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]any{"Meta", "x"})
	f.SetSheetRow("Sheet1", "A3", &[]any{"Name", "Score"})
	f.SetSheetRow("Sheet1", "A4", &[]any{"A", 10})
	f.SetSheetRow("Sheet1", "A5", &[]any{"B", 20})
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	book := writeBook(t, dir)
	cacheDir := filepath.Join(dir, "cache")
	metricsFile := filepath.Join(dir, "metrics.prom")

	args := []string{"extract", book, "--env-file", "", "--cache-dir", cacheDir,
		"--skip-rows", "0,1", "--header-row", "2", "--records", "--metrics-file", metricsFile}
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Name":"A","Score":"10"},{"Name":"B","Score":"20"}]`, out)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	again, err := run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "jsontable_cache_hits_total 1")

	out, err = run(t, "cache", "clear", book, "--env-file", "", "--cache-dir", cacheDir)
	require.NoError(t, err)
	assert.Equal(t, "removed 1 cache entries\n", out)
}

func TestExtractCommandErrors(t *testing.T) {
	dir := t.TempDir()
	book := writeBook(t, dir)

	_, err := run(t, "extract", book, "--env-file", "", "--no-cache", "--range", "C3:A1")
	assert.ErrorContains(t, err, "inverted_range")

	_, err = run(t, "extract", filepath.Join(dir, "absent.xlsx"), "--env-file", "", "--no-cache")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeBook(t, dir)
	manifestPath := filepath.Join(dir, "tables.hcl")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
table "scores" {
  path       = "scores.xlsx"
  skip_rows  = "0,1"
  header_row = 2
}
`), 0o644))

	outDir := filepath.Join(dir, "out")
	_, err := run(t, "batch", manifestPath, "--env-file", "", "--no-cache", "--out-dir", outDir)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outDir, "scores.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"headers":["Name","Score"]`)
}
