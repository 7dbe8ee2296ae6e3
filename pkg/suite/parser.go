// Package suite defines the Go data structures that represent the v1.0 suite
// definition format. This file specifically handles loading suite definitions
// from YAML files, parsing them into the defined Go structs, and performing
// basic validation.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const ExpectedSchemaVersion = "1.0"

// LoadSuiteFromFile reads a suite definition from a given YAML file path,
// unmarshals it into the Suite struct, and validates the schema version.
// It handles both direct Suite objects and SuiteWrapper objects (with
// top-level 'suite:' key).
func LoadSuiteFromFile(filePath string) (*Suite, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file '%s': %w", filePath, err)
	}

	// Try parsing as a wrapper first (has 'suite:' top-level key)
	var wrapper SuiteWrapper
	err = yaml.Unmarshal(data, &wrapper)

	// If successful and has content, use the wrapped Suite
	if err == nil && wrapper.Suite.Metadata.ID != "" {
		if wrapper.Suite.Metadata.SchemaVersion != ExpectedSchemaVersion {
			return nil, fmt.Errorf("invalid schema version in '%s': expected '%s', got '%s'",
				filePath, ExpectedSchemaVersion, wrapper.Suite.Metadata.SchemaVersion)
		}
		if err := ValidateSuite(&wrapper.Suite); err != nil {
			return nil, fmt.Errorf("validation failed for '%s': %w", filePath, err)
		}
		return &wrapper.Suite, nil
	}

	// Otherwise try direct parse (no 'suite:' wrapper)
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, enhanceYamlError(filePath, err)
	}

	if s.Metadata.SchemaVersion != ExpectedSchemaVersion {
		return nil, fmt.Errorf("invalid schema version in '%s': expected '%s', got '%s'",
			filePath, ExpectedSchemaVersion, s.Metadata.SchemaVersion)
	}

	if err := ValidateSuite(&s); err != nil {
		return nil, fmt.Errorf("validation failed for '%s': %w", filePath, err)
	}

	return &s, nil
}

// LoadSuiteDir loads every *.yaml / *.yml suite definition directly under
// dir, sorted by file name so run order is stable across invocations.
func LoadSuiteDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite directory '%s': %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no suite definitions found in '%s'", dir)
	}

	suites := make([]*Suite, 0, len(paths))
	for _, p := range paths {
		s, err := LoadSuiteFromFile(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// enhanceYamlError returns a more descriptive error for YAML parse failures,
// keeping the file name and any line information yaml.v3 provides.
func enhanceYamlError(filePath string, originalErr error) error {
	fileName := filepath.Base(filePath)
	if strings.Contains(originalErr.Error(), "line ") {
		return fmt.Errorf("YAML parsing error in '%s': %w", fileName, originalErr)
	}
	return fmt.Errorf("failed to unmarshal YAML from '%s': %w", fileName, originalErr)
}

// ValidateSuite performs structural validation of a Suite against the schema
// rules: required metadata, well-formed sources, and tests whose checks
// reference declared sources.
func ValidateSuite(s *Suite) error {
	if s == nil {
		return fmt.Errorf("nil Suite cannot be validated")
	}

	if s.Metadata.ID == "" {
		return fmt.Errorf("suite metadata.id is required")
	}
	if s.Metadata.Title == "" {
		return fmt.Errorf("suite metadata.title is required")
	}
	if s.Metadata.SchemaVersion == "" {
		return fmt.Errorf("suite metadata.schema_version is required")
	}

	// 0 is the unset sentinel resolved by Threshold()
	if s.PassThreshold < 0 || s.PassThreshold > 1 {
		return fmt.Errorf("suite pass_threshold must be within (0, 1] or omitted, got %v", s.PassThreshold)
	}

	if len(s.Sources) == 0 {
		return fmt.Errorf("suite sources must contain at least one source")
	}

	seen := make(map[string]bool, len(s.Sources))
	for i, src := range s.Sources {
		if src.ID == "" {
			return fmt.Errorf("sources[%d].id is required", i)
		}
		if seen[src.ID] {
			return fmt.Errorf("sources[%d].id '%s' is declared more than once", i, src.ID)
		}
		seen[src.ID] = true

		if src.Path == "" && len(src.Paths) == 0 {
			return fmt.Errorf("sources[%d] ('%s') must set either path or paths", i, src.ID)
		}
		if src.Path != "" && len(src.Paths) > 0 {
			return fmt.Errorf("sources[%d] ('%s') must not set both path and paths", i, src.ID)
		}
	}

	if len(s.Tests) == 0 {
		return fmt.Errorf("suite tests must contain at least one test")
	}

	for i, test := range s.Tests {
		if test.Name == "" {
			return fmt.Errorf("tests[%d].name is required", i)
		}
		if len(test.Checks) == 0 {
			return fmt.Errorf("tests[%d] ('%s') must contain at least one check", i, test.Name)
		}

		for j, check := range test.Checks {
			if check.Type == "" {
				return fmt.Errorf("tests[%d].checks[%d].type is required", i, j)
			}
			if check.Source == "" {
				return fmt.Errorf("tests[%d].checks[%d].source is required", i, j)
			}
			if !seen[check.Source] {
				return fmt.Errorf("tests[%d].checks[%d] references undeclared source '%s'", i, j, check.Source)
			}

			// Per-type field validation
			switch check.Type {
			case "contains":
				if len(check.All) == 0 && len(check.Any) == 0 {
					return fmt.Errorf("tests[%d].checks[%d] (contains) requires at least one of all, any", i, j)
				}
				if check.AllowMissing < 0 {
					return fmt.Errorf("tests[%d].checks[%d].allow_missing must not be negative", i, j)
				}
			case "not_contains":
				if len(check.All) == 0 {
					return fmt.Errorf("tests[%d].checks[%d] (not_contains) requires all", i, j)
				}
			case "regex":
				if check.Regex == "" {
					return fmt.Errorf("tests[%d].checks[%d] (regex) requires regex", i, j)
				}
			case "json_keys":
				if len(check.Keys) == 0 && check.ArrayContains == nil {
					return fmt.Errorf("tests[%d].checks[%d] (json_keys) requires keys or array_contains", i, j)
				}
				if check.ArrayContains != nil && check.ArrayContains.Key == "" {
					return fmt.Errorf("tests[%d].checks[%d].array_contains.key is required", i, j)
				}
			case "css_selector":
				if check.Selector == "" {
					return fmt.Errorf("tests[%d].checks[%d] (css_selector) requires selector", i, j)
				}
			case "xpath":
				if check.XPath == "" {
					return fmt.Errorf("tests[%d].checks[%d] (xpath) requires xpath", i, j)
				}
			}
		}
	}

	return nil
}

// SaveSuiteToFile serializes a Suite struct to YAML and saves it to a file.
func SaveSuiteToFile(s *Suite, filePath string, asWrapper bool) error {
	var data []byte
	var err error

	if asWrapper {
		wrapper := SuiteWrapper{Suite: *s}
		data, err = yaml.Marshal(wrapper)
	} else {
		data, err = yaml.Marshal(s)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal suite to YAML: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file '%s': %w", filePath, err)
	}

	return nil
}
