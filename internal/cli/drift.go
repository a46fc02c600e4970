package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/config"
	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/drift"
	"github.com/mfields/ctrlmig/internal/export"
	"github.com/mfields/ctrlmig/internal/journal"
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare exported object counts against live target counts",
	Long: `Drift validates a migration after import: it compares the per-type
counts recorded at export time against the counts observed on the live
target. Only types present in the expected snapshot are checked, so types
excluded from migration are not validated.

The expected snapshot comes from the export directory or a saved snapshot
file; the actual snapshot is a JSON file produced by querying the target.

Exit codes:
  0 - Counts match
  1 - One or more mismatches (all are listed)
  2 - Invalid input

Examples:
  ctrlmig drift --export-dir ./_export --actual live_counts.json
  ctrlmig drift --expected expected.json --actual live_counts.json --json`,
	RunE: runDrift,
}

var (
	driftExportDir string
	driftExpected  string
	driftActual    string
	driftJSON      bool
	driftNoJournal bool
)

func init() {
	rootCmd.AddCommand(driftCmd)

	driftCmd.Flags().StringVar(&driftExportDir, "export-dir", "", "Compute expected counts from this export directory")
	driftCmd.Flags().StringVar(&driftExpected, "expected", "", "Read expected counts from a snapshot file instead")
	driftCmd.Flags().StringVar(&driftActual, "actual", "", "Snapshot file with live target counts (required)")
	driftCmd.Flags().BoolVar(&driftJSON, "json", false, "Output mismatches as JSON")
	driftCmd.Flags().BoolVar(&driftNoJournal, "no-journal", false, "Skip recording the run in the journal")
	driftCmd.MarkFlagRequired("actual")
}

func runDrift(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	expected, err := loadExpectedCounts(cfg)
	if err != nil {
		return err
	}

	actualData, err := os.ReadFile(driftActual)
	if err != nil {
		return fmt.Errorf("failed to read actual counts: %w", err)
	}
	actual, err := drift.ParseSnapshot(actualData)
	if err != nil {
		return err
	}

	mismatches := drift.Compare(expected, actual)

	if !driftNoJournal {
		recordDriftRun(cmd, cfg, expected, len(mismatches))
	}

	if driftJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if mismatches == nil {
			mismatches = []drift.Mismatch{}
		}
		if err := encoder.Encode(mismatches); err != nil {
			return err
		}
		if len(mismatches) > 0 {
			return &drift.MismatchError{Mismatches: mismatches}
		}
		return nil
	}

	if len(mismatches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "OK: live counts match the export")
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Drift detected in %d object type(s):\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", m)
	}
	return &drift.MismatchError{Mismatches: mismatches}
}

func loadExpectedCounts(cfg *config.Config) (domain.CountSnapshot, error) {
	if driftExpected != "" {
		data, err := os.ReadFile(driftExpected)
		if err != nil {
			return nil, fmt.Errorf("failed to read expected counts: %w", err)
		}
		return drift.ParseSnapshot(data)
	}

	exportDir := cfg.ExportDir
	if driftExportDir != "" {
		exportDir = driftExportDir
	}

	inputs, err := readExportDir(exportDir, domain.AllTypes())
	if err != nil {
		return nil, err
	}

	var (
		records  []domain.ObjectRecord
		included []domain.ObjectType
	)
	for _, t := range domain.AllTypes() {
		data, ok := inputs[t]
		if !ok {
			continue
		}
		recs, err := export.ParseDocument(t, data)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
		included = append(included, t)
	}
	return drift.Counts(records, included), nil
}

func recordDriftRun(cmd *cobra.Command, cfg *config.Config, expected domain.CountSnapshot, mismatches int) {
	j, err := openJournal(cmd, cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not open run journal: %v\n", err)
		return
	}
	defer j.Close()

	status := "ok"
	if mismatches > 0 {
		status = "failed"
	}
	_, err = j.Record(journal.Run{
		Kind:          "drift",
		MismatchCount: mismatches,
		Status:        status,
	}, expected)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not record run: %v\n", err)
	}
}
