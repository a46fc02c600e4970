package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/config"
	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/drift"
	"github.com/mfields/ctrlmig/internal/export"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the per-type count snapshot of an export directory",
	Long: `Counts parses the export documents and prints the per-type object
counts as JSON, keyed by plural type name. Save the output and compare it
against live target counts with 'ctrlmig drift' after import.

Examples:
  ctrlmig counts --export-dir ./_export > expected.json`,
	RunE: runCounts,
}

var countsExportDir string

func init() {
	rootCmd.AddCommand(countsCmd)

	countsCmd.Flags().StringVar(&countsExportDir, "export-dir", "", "Directory containing per-type export JSON (default from config)")
}

func runCounts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	exportDir := cfg.ExportDir
	if countsExportDir != "" {
		exportDir = countsExportDir
	}

	inputs, err := readExportDir(exportDir, domain.AllTypes())
	if err != nil {
		return err
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
			return err
		}
		records = append(records, recs...)
		included = append(included, t)
	}

	data, err := drift.EncodeSnapshot(drift.Counts(records, included))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
