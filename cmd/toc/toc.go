// Package toc provides the "bidkit toc" command.
package toc

import (
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/generate"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand returns the toc command.
func NewCommand() *cobra.Command {
	var (
		outPath   string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "toc [project.docx]",
		Short: "Generate the table of contents workbook",
		Long: `Writes the table of contents workbook with the 总 sheet (all sections
of the bid, one line per goods item) and the 资格后审 sheet.

Example:
  bidkit toc
  bidkit toc project.docx -o 目录.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := pipeline.Invocation{
				Command: "toc",
				Steps:   []pipeline.Step{pipeline.StepContent},
				History: !noHistory,
			}
			if outPath != "" {
				inv.Paths = map[pipeline.Step]string{pipeline.StepContent: outPath}
			}
			return generate.Run(cmd, args, inv)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output .xlsx path")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history log")

	return cmd
}
