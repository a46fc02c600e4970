package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/config"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past transform and drift runs",
	Long: `Runs lists the migration history recorded in the local run journal,
newest first.

Examples:
  ctrlmig runs
  ctrlmig runs --limit 5 --json`,
	RunE: runRuns,
}

var (
	runsLimit int
	runsJSON  bool
)

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Output runs as JSON")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	j, err := openJournal(cmd, cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.List(runsLimit)
	if err != nil {
		return err
	}

	if runsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil
	}

	for _, r := range runs {
		switch r.Kind {
		case "transform":
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %-6s %s -> %s  %d warning(s)  %s\n",
				r.StartedAt, r.Kind, r.Status, r.ExportDir, r.OutputDir, r.WarningCount, r.Rev)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %-6s %d mismatch(es)\n",
				r.StartedAt, r.Kind, r.Status, r.MismatchCount)
		}
	}
	return nil
}
