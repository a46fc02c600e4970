package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/cac"
	"github.com/mfields/ctrlmig/internal/domain"
)

var diffCmd = &cobra.Command{
	Use:   "diff <dir-a> <dir-b>",
	Short: "Diff two generated desired-state document sets",
	Long: `Diff compares the per-type documents in two output directories and
prints a unified diff of every file that differs. Because output is
canonical, two transforms of the same export diff clean.

Exit codes:
  0 - Document sets are identical
  2 - Differences found or a directory is unreadable

Examples:
  ctrlmig diff ./_cac ./_cac_rerun`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	dirA, dirB := args[0], args[1]

	differing := 0
	for _, t := range domain.AllTypes() {
		name := cac.Filename(t)
		pathA := filepath.Join(dirA, name)
		pathB := filepath.Join(dirB, name)

		dataA, errA := os.ReadFile(pathA)
		dataB, errB := os.ReadFile(pathB)

		if os.IsNotExist(errA) && os.IsNotExist(errB) {
			continue
		}
		if errA != nil && !os.IsNotExist(errA) {
			return fmt.Errorf("failed to read %s: %w", pathA, errA)
		}
		if errB != nil && !os.IsNotExist(errB) {
			return fmt.Errorf("failed to read %s: %w", pathB, errB)
		}

		// A document present on only one side is a difference: an absent
		// document and a present-but-empty one mean different things to
		// the apply side.
		if os.IsNotExist(errA) || os.IsNotExist(errB) {
			differing++
			present := dirA
			if os.IsNotExist(errA) {
				present = dirB
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Only in %s: %s\n", present, name)
			continue
		}

		if string(dataA) == string(dataB) {
			continue
		}
		differing++

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(dataA)),
			B:        difflib.SplitLines(string(dataB)),
			FromFile: pathA,
			ToFile:   pathB,
			Context:  3,
		}
		if diffText, err := difflib.GetUnifiedDiffString(diff); err == nil {
			fmt.Fprint(cmd.OutOrStdout(), diffText)
		}
	}

	if differing > 0 {
		return fmt.Errorf("%d document(s) differ", differing)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Document sets are identical")
	return nil
}
