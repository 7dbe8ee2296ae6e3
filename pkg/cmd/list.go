// Package cmd wires the sigsmoke CLI commands together. This file implements
// the list command, which shows what a suite would check without touching
// the application tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sigsmoke/pkg/reporter"
	"sigsmoke/pkg/suite"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <suite-file>",
		Short: "List the tests and checks a suite defines",
		Args:  cobra.ExactArgs(1),
		RunE:  listCommand,
	}
	return cmd
}

func listCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	reporter.AutoColor(os.Stdout, &reporter.Options{NoColor: cfg.NoColor})

	s, err := suite.LoadSuiteFromFile(args[0])
	if err != nil {
		return err
	}

	planned := make([]reporter.PlannedTest, 0, len(s.Tests))
	for _, test := range s.Tests {
		pt := reporter.PlannedTest{Name: test.Name}
		for _, check := range test.Checks {
			pt.Checks = append(pt.Checks, describeCheck(&check))
		}
		planned = append(planned, pt)
	}

	reporter.PrintSuitePlan(os.Stdout, s.Metadata.ID, s.Metadata.Title, planned)
	return nil
}

// describeCheck renders a one-line human summary of a check definition.
func describeCheck(check *suite.Check) string {
	switch check.Type {
	case "contains":
		n := len(check.All) + len(check.Any)
		return fmt.Sprintf("contains %d literal(s) in %s", n, check.Source)
	case "not_contains":
		return fmt.Sprintf("absence of %d literal(s) in %s", len(check.All), check.Source)
	case "regex":
		return fmt.Sprintf("regex %q in %s", check.Regex, check.Source)
	case "file_exists":
		if check.MinSize > 0 {
			return fmt.Sprintf("%s exists with at least %d bytes", check.Source, check.MinSize)
		}
		return fmt.Sprintf("%s exists", check.Source)
	case "json_keys":
		return fmt.Sprintf("JSON keys [%s] in %s", strings.Join(check.Keys, ", "), check.Source)
	case "css_selector":
		return fmt.Sprintf("selector %q in %s", check.Selector, check.Source)
	case "xpath":
		return fmt.Sprintf("xpath %q in %s", check.XPath, check.Source)
	default:
		return fmt.Sprintf("%s in %s", check.Type, check.Source)
	}
}
