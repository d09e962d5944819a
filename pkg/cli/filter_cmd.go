package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetline/internal/domain"
	"sheetline/internal/filter"
)

func newFilterCmd() *cobra.Command {
	var (
		delimiter string
		clauses   []string
	)

	cmd := &cobra.Command{
		Use:   "filter <input> <output>",
		Short: "Filter rows of a delimited file",
		Long: `Filter keeps the rows of <input> that match every --where clause and
writes them to <output>. A clause is COLUMN OP VALUE, for example:

  sheetline filter --where 'age>30' --where 'state IN (CA,NY)' in.csv out.csv

Rows whose cells cannot be evaluated against a clause are dropped and
counted as soft errors.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseWhereClauses(clauses)
			if err != nil {
				return err
			}

			ds, delim, err := loadDataset(args[0], delimiter)
			if err != nil {
				return err
			}

			kept, diags := filter.Apply(ds.Rows, set)
			out := &domain.Dataset{Columns: ds.Columns, Rows: kept}
			if err := writeDataset(args[1], out, delim); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows retained (%d soft errors)\n",
				len(kept), len(ds.Rows), len(diags))
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (default: sniff from input)")
	cmd.Flags().StringArrayVarP(&clauses, "where", "w", nil, "Filter clause COLUMN OP VALUE (repeatable)")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}
