// Package report writes machine-readable run artifacts. Reports are JSON
// documents containing one or more suite results; writes are atomic and
// guarded by a file lock so concurrent runs pointed at the same output path
// never interleave or leave partial files behind.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"sigsmoke/pkg/runner"
)

// Document is the top-level JSON structure of a report file.
type Document struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Root        string                `json:"root"`
	Suites      []*runner.SuiteResult `json:"suites"`
}

// Write serializes the suite results and writes them to path. The write is
// atomic (temp file + rename) and holds a sibling .lock file for its
// duration.
func Write(path string, root string, results []*runner.SuiteResult) error {
	doc := Document{
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Suites:      results,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	// The lock file lives next to the report, so the directory must exist
	// before the lock can be created.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, data)
}

// Read loads a previously written report document.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report '%s': %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse report '%s': %w", path, err)
	}
	return &doc, nil
}

// atomicWrite writes data to path via a temp file in the same directory and
// a rename, so readers never observe a partial report. The caller has already
// created the directory.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Rename is atomic within the same filesystem
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
