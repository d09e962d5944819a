package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "decode <input>",
		Short: "Decode a delimited file and print its shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, delim, err := loadDataset(args[0], delimiter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delimiter: %q\ncolumns:   %s\nrows:      %d\n",
				delim, strings.Join(ds.Columns, ", "), len(ds.Rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (default: sniff from input)")
	return cmd
}
