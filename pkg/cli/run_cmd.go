package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sheetline/internal/crosstab"
	"sheetline/internal/domain"
	"sheetline/internal/filter"
	"sheetline/internal/tabular"
)

// jobSpec is the YAML shape accepted by `sheetline run`.
type jobSpec struct {
	Input     string            `yaml:"input"`
	Delimiter string            `yaml:"delimiter"`
	Filters   map[string]string `yaml:"filters"`
	Crosstab  *struct {
		Rows string `yaml:"rows"`
		Cols string `yaml:"cols"`
	} `yaml:"crosstab"`
	Output string `yaml:"output"`
}

func (j *jobSpec) validate() error {
	if j.Input == "" {
		return fmt.Errorf("job: input is required")
	}
	if j.Output == "" {
		return fmt.Errorf("job: output is required")
	}
	if j.Crosstab != nil && (j.Crosstab.Rows == "" || j.Crosstab.Cols == "") {
		return fmt.Errorf("job: crosstab needs both rows and cols")
	}
	return nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Run a declarative transform job",
		Long: `Run reads a YAML job file, applies its filters to the input, optionally
cross-tabulates the result, and writes the output file:

  input: people.csv
  filters:
    age: ">30"
    state: IN (CA, NY)
  crosstab:
    rows: state
    cols: plan
  output: report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0]) //nolint:gosec // path is caller-controlled
			if err != nil {
				return err
			}
			var job jobSpec
			if err := yaml.Unmarshal(raw, &job); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if err := job.validate(); err != nil {
				return err
			}

			set, err := filter.ParseSet(job.Filters)
			if err != nil {
				return err
			}

			ds, delim, err := loadDataset(job.Input, job.Delimiter)
			if err != nil {
				return err
			}

			kept, diags := filter.Apply(ds.Rows, set)
			out := &domain.Dataset{Columns: ds.Columns, Rows: kept}

			if job.Crosstab != nil {
				res, err := crosstab.Build(out, job.Crosstab.Rows, job.Crosstab.Cols)
				if err != nil {
					return err
				}
				out = crosstab.Encode(res)
				delim = tabular.DefaultDelimiter
			}

			if err := writeDataset(job.Output, out, delim); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d rows retained (%d soft errors) -> %s\n",
				job.Input, len(kept), len(ds.Rows), len(diags), job.Output)
			return nil
		},
	}
	return cmd
}
