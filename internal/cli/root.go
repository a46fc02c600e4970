package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/drift"
)

var rootCmd = &cobra.Command{
	Use:   "ctrlmig",
	Short: "Migrate controller configuration between platform versions",
	Long: `ctrlmig converts a source controller's object export (per-type JSON
documents) into the desired-state YAML documents applied against the target
platform, with identifiers rewritten to names and secrets excluded. It also
validates post-import object counts against the export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an Execute error to the process exit status: 0 on success,
// 1 for drift mismatches and strict-mode warning escalation, 2 for fatal
// transform or usage errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var strictErr *domain.StrictModeError
	var mismatchErr *drift.MismatchError
	if errors.As(err, &strictErr) || errors.As(err, &mismatchErr) {
		return 1
	}
	return 2
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to run journal database (overrides CTRLMIG_DB_PATH)")
}
