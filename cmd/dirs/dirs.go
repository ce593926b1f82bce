// Package dirs provides the "bidkit dirs" command.
package dirs

import (
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/generate"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand returns the dirs command.
func NewCommand() *cobra.Command {
	var (
		root      string
		dryRun    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "dirs [project.docx]",
		Short: "Create the bid folder tree",
		Long: `Creates 投标文件-<project> with the blank copy and the two duplicate
copies, the volume folders, the numbered technical folders and one
folder per goods item. Existing folders are kept.

Example:
  bidkit dirs
  bidkit dirs project.docx --root ~/bids --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate.Run(cmd, args, pipeline.Invocation{
				Command: "dirs",
				Steps:   []pipeline.Step{pipeline.StepFolders},
				OutDir:  root,
				DryRun:  dryRun,
				History: !noHistory,
			})
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Folder to create the tree in (default output.dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the folders without creating them")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history log")

	return cmd
}
