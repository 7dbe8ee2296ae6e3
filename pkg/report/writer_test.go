package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsmoke/pkg/runner"
)

func sampleResults() []*runner.SuiteResult {
	return []*runner.SuiteResult{{
		RunID:       "run-1",
		SuiteID:     "sigte-backend",
		SuiteTitle:  "SIG-TE Backend Structure",
		StartTime:   time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 8, 27, 10, 0, 1, 0, time.UTC),
		Duration:    1.0,
		TestsRun:    10,
		TestsPassed: 9,
		Threshold:   1.0,
		Met:         false,
		Results: []*runner.TestResult{
			{Name: "Code.gs Structure", Status: runner.StatusPassed},
			{Name: "Theme System", Status: runner.StatusFailed, Detail: "missing: toggleTheme"},
		},
	}}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, Write(path, "/srv/sigte", sampleResults()))

	doc, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/sigte", doc.Root)
	require.Len(t, doc.Suites, 1)
	assert.Equal(t, "sigte-backend", doc.Suites[0].SuiteID)
	assert.Equal(t, 9, doc.Suites[0].TestsPassed)
	require.Len(t, doc.Suites[0].Results, 2)
	assert.Equal(t, "missing: toggleTheme", doc.Suites[0].Results[1].Detail)
	assert.False(t, doc.GeneratedAt.IsZero())
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "report.json")

	require.NoError(t, Write(path, ".", sampleResults()))
	assert.FileExists(t, path)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	require.NoError(t, Write(path, ".", sampleResults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestWriteEndsWithNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Write(path, ".", sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report")
}

func TestReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse report")
}
