// Package cover provides the "bidkit cover" command.
package cover

import (
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/generate"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand returns the cover command.
func NewCommand() *cobra.Command {
	var (
		outPath   string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "cover [project.docx]",
		Short: "Generate the cover pages",
		Long: `Writes a .docx with the cover of every copy and volume followed by the
divider pages of the four parts of the business and technical volume.

Example:
  bidkit cover
  bidkit cover project.docx -o 封面.docx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := pipeline.Invocation{
				Command: "cover",
				Steps:   []pipeline.Step{pipeline.StepCover},
				History: !noHistory,
			}
			if outPath != "" {
				inv.Paths = map[pipeline.Step]string{pipeline.StepCover: outPath}
			}
			return generate.Run(cmd, args, inv)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output .docx path")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history log")

	return cmd
}
