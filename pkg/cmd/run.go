// Package cmd wires the sigsmoke CLI commands together. This file implements
// the run command, which executes one or more suites against the application
// tree, prints the console report, optionally writes a JSON artifact and a
// history record, and sets the process exit code from the suite thresholds.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sigsmoke/pkg/history"
	"sigsmoke/pkg/report"
	"sigsmoke/pkg/reporter"
	"sigsmoke/pkg/runner"
	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [suite-file...]",
		Short: "Run smoke-test suites against the application tree",
		Long: `Run one or more suite definitions against the application source tree.

Each suite executes its tests strictly in order; a failing check marks its
test failed and the run continues. The command exits 0 only when every
executed suite reaches its pass threshold (1.0 unless the suite declares a
lenient value, as the integration suite does with 0.8).

Examples:
  sigsmoke run suites/backend.yaml
  sigsmoke run suites/backend.yaml suites/frontend.yaml --root /app
  sigsmoke run --all --dir suites --output report.json
  sigsmoke run --all --record`,
		RunE: runCommand,
	}

	cmd.Flags().Bool("all", false, "Run every suite found in the suite directory")
	cmd.Flags().String("dir", "", "Suite directory used with --all (default from config)")
	cmd.Flags().String("root", "", "Application source tree root (default from config)")
	cmd.Flags().String("output", "", "Write results as JSON to this path")
	cmd.Flags().Bool("record", false, "Record run outcomes in the history database")
	cmd.Flags().Bool("verbose", false, "Show per-check lines for passing tests too")

	return cmd
}

// runCommand implements the run command logic.
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("either provide suite files or use --all")
	}
	if all && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with explicit suite files")
	}

	// Resolve the suites to execute
	var suites []*suite.Suite
	if all {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.SuiteDir
		}
		suites, err = suite.LoadSuiteDir(dir)
		if err != nil {
			return err
		}
	} else {
		for _, path := range args {
			s, err := suite.LoadSuiteFromFile(path)
			if err != nil {
				return err
			}
			suites = append(suites, s)
		}
	}

	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root = cfg.Root
	}
	tree, err := source.NewTree(root)
	if err != nil {
		return err
	}

	repOpts := &reporter.Options{NoColor: cfg.NoColor}
	repOpts.Verbose, _ = cmd.Flags().GetBool("verbose")
	reporter.AutoColor(os.Stdout, repOpts)

	record, _ := cmd.Flags().GetBool("record")
	record = record || cfg.Record

	var store *history.Store
	if record {
		store, err = history.NewStore(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
	}

	// Execute suites sequentially
	var results []*runner.SuiteResult
	missed := 0
	for _, s := range suites {
		result := runner.Run(s, tree, nil)
		results = append(results, result)
		reporter.PrintResult(result, os.Stdout, repOpts)

		if !result.Met {
			missed++
		}

		if store != nil {
			if err := store.Record(result); err != nil {
				// Recording is best-effort; a broken history database must not
				// change the run verdict.
				slog.Warn("Failed to record run", "suite", result.SuiteID, "error", err)
			}
		}
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := report.Write(output, tree.Root(), results); err != nil {
			return err
		}
		slog.Info("Report written", "path", output)
	}

	if missed > 0 {
		return fmt.Errorf("%d suite(s) below pass threshold", missed)
	}
	return nil
}
