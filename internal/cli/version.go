package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the tool version, overridable at build time with
// -ldflags "-X github.com/mfields/ctrlmig/internal/cli.Version=...".
var Version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ctrlmig version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "ctrlmig %s\n", Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
