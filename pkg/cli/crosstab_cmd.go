package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetline/internal/crosstab"
	"sheetline/internal/tabular"
)

func newCrosstabCmd() *cobra.Command {
	var (
		delimiter string
		rowCol    string
		colCol    string
	)

	cmd := &cobra.Command{
		Use:   "crosstab <input>",
		Short: "Cross-tabulate two columns of a delimited file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(args[0], delimiter)
			if err != nil {
				return err
			}

			res, err := crosstab.Build(ds, rowCol, colCol)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tabular.Encode(crosstab.Encode(res), tabular.DefaultDelimiter))
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (default: sniff from input)")
	cmd.Flags().StringVar(&rowCol, "rows", "", "Column whose values label the rows")
	cmd.Flags().StringVar(&colCol, "cols", "", "Column whose values label the columns")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")
	return cmd
}
