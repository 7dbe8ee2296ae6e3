// Package source provides access to the application source tree under test.
// A Tree resolves suite source declarations to file contents, caching full
// reads for the lifetime of a run and concatenating grouped sources the way
// the integration checks expect. A missing file is reported as an ordinary
// error so the check layer can record it as a failure instead of aborting.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sigsmoke/pkg/suite"
)

// Tree reads files relative to the root of the checked application.
type Tree struct {
	mu    sync.RWMutex
	root  string
	cache map[string]string
}

// NewTree creates a Tree rooted at the given directory.
func NewTree(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root '%s': %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root '%s' is not a directory", root)
	}

	return &Tree{
		root:  abs,
		cache: make(map[string]string),
	}, nil
}

// Root returns the absolute root directory of the tree.
func (t *Tree) Root() string {
	return t.root
}

// resolve joins a relative path against the root, rejecting paths that would
// escape it.
func (t *Tree) resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty source path")
	}

	full := filepath.Join(t.root, filepath.FromSlash(rel))
	if full != t.root && !strings.HasPrefix(full, t.root+string(filepath.Separator)) {
		return "", fmt.Errorf("source path '%s' escapes the tree root", rel)
	}
	return full, nil
}

// Read returns the full text of the file at the given root-relative path.
// Results are cached, so repeated checks against the same file read it once.
func (t *Tree) Read(rel string) (string, error) {
	t.mu.RLock()
	if content, ok := t.cache[rel]; ok {
		t.mu.RUnlock()
		return content, nil
	}
	t.mu.RUnlock()

	full, err := t.resolve(rel)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file '%s' not found", rel)
		}
		return "", fmt.Errorf("failed to read '%s': %w", rel, err)
	}

	content := string(data)
	t.mu.Lock()
	t.cache[rel] = content
	t.mu.Unlock()

	return content, nil
}

// Exists reports whether the file at the given root-relative path exists.
func (t *Tree) Exists(rel string) bool {
	full, err := t.resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// Size returns the size in bytes of the file at the given root-relative path.
func (t *Tree) Size(rel string) (int64, error) {
	full, err := t.resolve(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("file '%s' not found", rel)
		}
		return 0, fmt.Errorf("failed to stat '%s': %w", rel, err)
	}
	return info.Size(), nil
}

// Resolve returns the text a check should run against for the given source
// declaration. Single-path sources read one file; grouped sources return the
// newline-joined concatenation of their members. When the source is marked
// optional, missing members are skipped; a non-optional missing member is an
// error.
func (t *Tree) Resolve(src *suite.Source) (string, error) {
	if src == nil {
		return "", fmt.Errorf("nil source declaration")
	}

	if src.Path != "" {
		return t.Read(src.Path)
	}

	var b strings.Builder
	found := 0
	for _, p := range src.Paths {
		content, err := t.Read(p)
		if err != nil {
			if src.Optional {
				continue
			}
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
		found++
	}

	if found == 0 {
		return "", fmt.Errorf("source '%s': none of its %d files were found", src.ID, len(src.Paths))
	}

	return b.String(), nil
}
