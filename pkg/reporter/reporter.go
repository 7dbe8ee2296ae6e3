// Package reporter provides functions for formatting and outputting suite
// run results to the console.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"sigsmoke/pkg/runner"
)

// Options controls report rendering.
type Options struct {
	// NoColor forces plain output even on a terminal.
	NoColor bool
	// Verbose includes per-check lines for passing tests as well.
	Verbose bool
}

// AutoColor disables colored output when w is not a terminal.
func AutoColor(w io.Writer, opts *Options) {
	if opts != nil && opts.NoColor {
		color.NoColor = true
		return
	}
	if f, ok := w.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			color.NoColor = true
		}
	}
}

// PrintResult formats and prints a suite result to the provided writer.
func PrintResult(result *runner.SuiteResult, w io.Writer, opts *Options) {
	if result == nil {
		fmt.Fprintln(w, "No result available.")
		return
	}
	if opts == nil {
		opts = &Options{}
	}

	// Create colored output helpers
	success := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()
	highlight := color.New(color.FgCyan).SprintFunc()
	warning := color.New(color.FgYellow).SprintFunc()

	// Print header
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(w, "Suite: %s (%s)\n", result.SuiteTitle, result.SuiteID)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", 70))

	// Per-test lines
	for _, test := range result.Results {
		status := success("✓ PASSED")
		if test.Status != runner.StatusPassed {
			status = failure("✗ FAILED")
		}

		name := test.Name
		if runes := []rune(name); len(runes) > 48 {
			name = string(runes[:45]) + "..."
		}
		fmt.Fprintf(w, "%s  %s\n", status, highlight(name))

		for _, check := range test.Checks {
			if check.Passed && !opts.Verbose {
				continue
			}
			mark := success("✓")
			if !check.Passed {
				mark = failure("✗")
			}
			fmt.Fprintf(w, "    %s %s (%s)\n", mark, check.Type, check.Source)
			if !check.Passed && check.Detail != "" {
				fmt.Fprintf(w, "      %s\n", failure(check.Detail))
			}
		}
	}

	// Summary block
	failed := result.TestsRun - result.TestsPassed
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(w, "Tests Run:    %d\n", result.TestsRun)
	fmt.Fprintf(w, "Tests Passed: %d\n", result.TestsPassed)
	fmt.Fprintf(w, "Tests Failed: %d\n", failed)
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", result.PassRatio()*100)
	fmt.Fprintf(w, "Duration:     %s\n", time.Duration(result.Duration*float64(time.Second)).Round(time.Millisecond))

	// Verdict against the suite threshold
	switch {
	case result.TestsPassed == result.TestsRun:
		fmt.Fprintf(w, "\n%s\n", success("ALL TESTS PASSED."))
	case result.Met:
		fmt.Fprintf(w, "\n%s\n", warning(fmt.Sprintf(
			"PASSED WITH ISSUES: %.1f%% meets the %.0f%% threshold; %d test(s) need attention.",
			result.PassRatio()*100, result.Threshold*100, failed)))
	default:
		fmt.Fprintf(w, "\n%s\n", failure(fmt.Sprintf(
			"%d test(s) failed (%.1f%% < %.0f%% threshold).",
			failed, result.PassRatio()*100, result.Threshold*100)))
	}

	// List failed tests with their first recorded detail
	failedTests := result.FailedTests()
	if len(failedTests) > 0 {
		fmt.Fprintf(w, "\n%s\n", failure("FAILED TESTS:"))
		for _, test := range failedTests {
			detail := test.Detail
			if detail == "" {
				detail = "no detail recorded"
			}
			fmt.Fprintf(w, "  - %s: %s\n", test.Name, detail)
		}
	}

	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 70))
}

// PlannedTest is a display-only view of a test used by PrintSuitePlan.
type PlannedTest struct {
	Name   string
	Checks []string
}

// PrintSuitePlan lists a suite's tests and checks without executing them.
func PrintSuitePlan(w io.Writer, suiteID, suiteTitle string, tests []PlannedTest) {
	highlight := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(w, "Suite: %s (%s)\n", suiteTitle, suiteID)
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 70))

	for i, test := range tests {
		fmt.Fprintf(w, "%2d. %s\n", i+1, highlight(test.Name))
		for _, check := range test.Checks {
			fmt.Fprintf(w, "      - %s\n", check)
		}
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 70))
}
