// Package runner orchestrates the execution of a parsed suite definition.
// This file contains the main Run function which walks the suite's tests in
// sequence, calling the registered check handlers for each check, capturing
// failures and panics uniformly, and tallying the pass count against the
// suite's pass threshold.
package runner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sigsmoke/pkg/checks"
	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// Status values recorded for each test.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// SuiteResult represents the outcome of running a complete suite.
type SuiteResult struct {
	RunID       string        `json:"run_id"`
	SuiteID     string        `json:"suite_id"`
	SuiteTitle  string        `json:"suite_title"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    float64       `json:"duration_seconds"`
	TestsRun    int           `json:"tests_run"`
	TestsPassed int           `json:"tests_passed"`
	Threshold   float64       `json:"pass_threshold"`
	Met         bool          `json:"threshold_met"`
	Results     []*TestResult `json:"results"`
}

// TestResult represents the outcome of a single named test.
type TestResult struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Duration float64        `json:"duration_seconds"`
	Checks   []*CheckResult `json:"checks"`
}

// CheckResult represents the outcome of an individual check within a test.
type CheckResult struct {
	Type     string  `json:"type"`
	Source   string  `json:"source"`
	Passed   bool    `json:"passed"`
	Detail   string  `json:"detail,omitempty"`
	Duration float64 `json:"duration_seconds"`
}

// Options provides configuration for a suite run.
type Options struct {
	// Registry supplies the check handlers; nil uses checks.DefaultRegistry.
	Registry *checks.CheckRegistry
}

// PassRatio returns the fraction of tests that passed.
func (r *SuiteResult) PassRatio() float64 {
	if r.TestsRun == 0 {
		return 0
	}
	return float64(r.TestsPassed) / float64(r.TestsRun)
}

// FailedTests returns the results of tests that did not pass.
func (r *SuiteResult) FailedTests() []*TestResult {
	var failed []*TestResult
	for _, t := range r.Results {
		if t.Status != StatusPassed {
			failed = append(failed, t)
		}
	}
	return failed
}

// Run executes every test of the suite in order against the given tree.
// Execution is strictly sequential; a failing or erroring check marks its
// test failed and the run moves on to the next test. Nothing is fatal and
// nothing is retried, so running twice over an unchanged tree yields
// identical results.
func Run(s *suite.Suite, tree *source.Tree, opts *Options) *SuiteResult {
	registry := checks.DefaultRegistry
	if opts != nil && opts.Registry != nil {
		registry = opts.Registry
	}

	result := &SuiteResult{
		RunID:      uuid.NewString(),
		SuiteID:    s.Metadata.ID,
		SuiteTitle: s.Metadata.Title,
		StartTime:  time.Now(),
		Threshold:  s.Threshold(),
		Results:    make([]*TestResult, 0, len(s.Tests)),
	}

	slog.Info("Starting suite run",
		"suite", s.Metadata.ID,
		"run_id", result.RunID,
		"tests", len(s.Tests),
		"root", tree.Root())

	for i := range s.Tests {
		testResult := runTest(registry, tree, s, &s.Tests[i])
		result.Results = append(result.Results, testResult)
		result.TestsRun++
		if testResult.Status == StatusPassed {
			result.TestsPassed++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime).Seconds()
	result.Met = result.PassRatio() >= result.Threshold

	slog.Info("Suite run finished",
		"suite", s.Metadata.ID,
		"run_id", result.RunID,
		"passed", result.TestsPassed,
		"run", result.TestsRun,
		"threshold_met", result.Met,
		"duration", result.Duration)

	return result
}

// runTest executes all checks of a single test. The test passes iff every
// check returned true.
func runTest(registry *checks.CheckRegistry, tree *source.Tree, s *suite.Suite, test *suite.Test) *TestResult {
	start := time.Now()
	result := &TestResult{
		Name:   test.Name,
		Status: StatusPassed,
		Checks: make([]*CheckResult, 0, len(test.Checks)),
	}

	slog.Debug("Running test", "test", test.Name, "checks", len(test.Checks))

	for i := range test.Checks {
		checkResult := runCheck(registry, tree, s, &test.Checks[i])
		result.Checks = append(result.Checks, checkResult)

		if !checkResult.Passed && result.Status == StatusPassed {
			result.Status = StatusFailed
			result.Detail = checkResult.Detail
		}
	}

	result.Duration = time.Since(start).Seconds()

	slog.Debug("Test completed",
		"test", test.Name,
		"status", result.Status,
		"duration", result.Duration)

	return result
}

// runCheck executes one check, converting any handler error or panic into a
// recorded failure with a non-empty detail.
func runCheck(registry *checks.CheckRegistry, tree *source.Tree, s *suite.Suite, check *suite.Check) (result *CheckResult) {
	start := time.Now()
	result = &CheckResult{
		Type:   check.Type,
		Source: check.Source,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Detail = fmt.Sprintf("check panicked: %v", r)
			slog.Error("Check panicked", "type", check.Type, "source", check.Source, "panic", r)
		}
		result.Duration = time.Since(start).Seconds()
	}()

	passed, err := registry.Execute(tree, s, check)
	result.Passed = passed

	if err != nil {
		result.Passed = false
		result.Detail = err.Error()
		if result.Detail == "" {
			result.Detail = "check failed"
		}
	} else if !passed {
		result.Detail = "check returned false"
	}

	return result
}
