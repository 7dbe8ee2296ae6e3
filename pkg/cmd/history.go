// Package cmd wires the sigsmoke CLI commands together. This file implements
// the history command, which lists recorded suite runs from the SQLite
// history database.
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sigsmoke/pkg/history"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recorded suite runs",
		RunE:  historyCommand,
	}

	cmd.Flags().String("suite", "", "Only show runs of this suite id")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")

	return cmd
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	suiteID, _ := cmd.Flags().GetString("suite")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.Recent(suiteID, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSUITE\tPASSED\tRATE\tTHRESHOLD\tMET")
	for _, r := range runs {
		met := "no"
		if r.ThresholdMet {
			met = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%.1f%%\t%.0f%%\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.SuiteID,
			r.TestsPassed, r.TestsRun,
			r.PassRatio*100,
			r.Threshold*100,
			met)
	}
	return w.Flush()
}
