// Package quote provides the "bidkit quote" command.
package quote

import (
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/generate"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand returns the quote command.
func NewCommand() *cobra.Command {
	var (
		outPath   string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "quote [project.docx]",
		Short: "Generate the quotation workbook",
		Long: `Writes the cross-sheet quotation workbook: supplier master, goods
selector, fee inputs, internal itemized quote, tax rebate, technical
service, training, total summary and bid-opening sheets. Every amount is
a formula, so editing a unit price in the workbook updates all totals.

Example:
  bidkit quote
  bidkit quote project.docx -o 报价.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := pipeline.Invocation{
				Command: "quote",
				Steps:   []pipeline.Step{pipeline.StepQuotation},
				History: !noHistory,
			}
			if outPath != "" {
				inv.Paths = map[pipeline.Step]string{pipeline.StepQuotation: outPath}
			}
			return generate.Run(cmd, args, inv)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output .xlsx path (default <output.dir>/<prefix>-<project>.xlsx)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history log")

	return cmd
}
