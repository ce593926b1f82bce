// Package generate provides the "bidkit generate" command and the
// shared runner behind the single-artifact commands.
package generate

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/internal/directory"
	"github.com/klytics/bidkit/internal/output"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand returns the generate command.
func NewCommand() *cobra.Command {
	var (
		outDir    string
		only      []string
		dryRun    bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "generate [project.docx]",
		Short: "Generate the whole bid package",
		Long: `Creates the folder tree, the table of contents, the quotation workbook
and the cover pages for one project.

Without an argument the first file in the current folder matching
source.pattern (default ^project.*\.docx$) is used.

Example:
  bidkit generate
  bidkit generate project-吉布提.docx -o ./out
  bidkit generate project.yaml --only quotation,cover`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := pipeline.ParseSteps(only)
			if err != nil {
				return err
			}
			return Run(cmd, args, pipeline.Invocation{
				Command: "generate",
				Steps:   steps,
				OutDir:  outDir,
				DryRun:  dryRun,
				History: !noHistory,
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output folder (default output.dir)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only these steps: folders, content, quotation, cover")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history log")

	return cmd
}

// Run executes an invocation for a command, taking the source from args
// and the --json and --verbose flags from cmd, and prints the report.
func Run(cmd *cobra.Command, args []string, inv pipeline.Invocation) error {
	if len(args) > 0 {
		inv.Source = args[0]
	}
	inv.Verbose, _ = cmd.Flags().GetBool("verbose")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.Execute(ctx, inv)
	if err != nil {
		return err
	}

	jsonFlag, _ := cmd.Flags().GetBool("json")
	if jsonFlag {
		return output.PrintJSON(inv.Command, report)
	}
	PrintReport(report)
	return nil
}

// PrintReport prints one line per step.
func PrintReport(r *pipeline.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Printf("%s %s (%s), %d item(s)\n", bold("Project:"), r.Project, r.Code, r.Items)
	mark := green("✓")
	if r.DryRun {
		mark = dim("·")
	}
	for _, s := range r.Steps {
		fmt.Printf("  %s %-9s %s %s\n", mark, s.Step, s.Path, dim("("+s.Detail+")"))
		if r.DryRun && s.Step == pipeline.StepFolders {
			for _, f := range s.Folders {
				if f.Status == directory.StatusPlanned {
					fmt.Printf("      %s\n", dim(f.Path))
				}
			}
		}
	}
	fmt.Println(dim(fmt.Sprintf("  run %s", r.RunID)))
}
