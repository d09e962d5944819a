// Package cli implements the sheetline command-line interface for offline
// transforms over local delimited files.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetline",
		Short:         "Delimited-file transformation toolkit",
		Long:          "Decode, filter, and cross-tabulate delimited files without a server.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newFilterCmd())
	rootCmd.AddCommand(newCrosstabCmd())
	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}
