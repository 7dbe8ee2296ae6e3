// Package suite defines the Go data structures representing the v1.0 suite
// definition format. These structs map directly to the YAML structure used by
// the shipped suite files (backend, frontend, integration), enabling parsing,
// validation, and manipulation of suite definitions.
// Key components include Metadata, Sources (single files and concatenated
// groups), Tests, Checks, and the overall Suite structure.
package suite

// SuiteWrapper represents the top-level root containing a Suite definition.
// This is necessary since suite files typically have a top-level 'suite:' key.
type SuiteWrapper struct {
	Suite Suite `yaml:"suite" json:"suite"`
}

// Suite represents the top-level suite object. PassThreshold is the fraction
// of tests that must pass, within (0, 1]; zero is the unset sentinel and
// means DefaultPassThreshold, whether the key is omitted or written as 0.
type Suite struct {
	Metadata      Metadata `yaml:"metadata" json:"metadata"`
	PassThreshold float64  `yaml:"pass_threshold,omitempty" json:"pass_threshold,omitempty"`
	Sources       []Source `yaml:"sources" json:"sources"`
	Tests         []Test   `yaml:"tests" json:"tests"`
}

// Metadata contains descriptive information about the suite.
type Metadata struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	SchemaVersion string   `yaml:"schema_version" json:"schema_version"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags          []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Source declares a file (or concatenated group of files) of the application
// tree that checks can reference by id. Exactly one of Path or Paths is set.
// When Optional is true, missing members of a group are skipped instead of
// failing the read.
type Source struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Path        string   `yaml:"path,omitempty" json:"path,omitempty"`
	Paths       []string `yaml:"paths,omitempty" json:"paths,omitempty"`
	Optional    bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Test is a named group of checks. A test passes iff every one of its checks
// passes.
type Test struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Checks      []Check `yaml:"checks" json:"checks"`
}

// Check describes a single assertion against a declared source. The Type
// field selects the registered handler; the remaining fields are interpreted
// per type (see pkg/checks).
type Check struct {
	Type        string `yaml:"type" json:"type"`
	Source      string `yaml:"source" json:"source"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// contains / not_contains
	All          []string `yaml:"all,omitempty" json:"all,omitempty"`
	Any          []string `yaml:"any,omitempty" json:"any,omitempty"`
	AllowMissing int      `yaml:"allow_missing,omitempty" json:"allow_missing,omitempty"`

	// regex
	Regex string `yaml:"regex,omitempty" json:"regex,omitempty"`

	// file_exists
	MinSize int64 `yaml:"min_size,omitempty" json:"min_size,omitempty"`

	// json_keys
	Keys          []string       `yaml:"keys,omitempty" json:"keys,omitempty"`
	ArrayContains *ArrayContains `yaml:"array_contains,omitempty" json:"array_contains,omitempty"`

	// css_selector
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	MinCount int    `yaml:"min_count,omitempty" json:"min_count,omitempty"`

	// xpath
	XPath string `yaml:"xpath,omitempty" json:"xpath,omitempty"`
}

// ArrayContains asserts that a JSON array at Key contains every member of
// Values. Used for the OAuth scope checks against appsscript.json.
type ArrayContains struct {
	Key    string   `yaml:"key" json:"key"`
	Values []string `yaml:"values" json:"values"`
}

// DefaultPassThreshold is applied when a suite omits pass_threshold.
const DefaultPassThreshold = 1.0

// Threshold returns the effective pass threshold for the suite, substituting
// DefaultPassThreshold for the zero sentinel.
func (s *Suite) Threshold() float64 {
	if s.PassThreshold == 0 {
		return DefaultPassThreshold
	}
	return s.PassThreshold
}

// FindSource returns the source declaration with the given id, or nil.
func (s *Suite) FindSource(id string) *Source {
	for i := range s.Sources {
		if s.Sources[i].ID == id {
			return &s.Sources[i]
		}
	}
	return nil
}
