// Package watch provides the "bidkit watch" command, which regenerates
// the bid package whenever a project file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/generate"
	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/output"
	"github.com/klytics/bidkit/internal/pipeline"
	w "github.com/klytics/bidkit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		pattern   string
		recursive bool
		debounce  int
		outDir    string
		only      []string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "watch [directory...]",
		Short: "Regenerate the bid package when a project file changes",
		Long: `Watches directories for project files matching source.pattern and runs
generate for each file after it has been saved. Runs never overlap.

Example:
  bidkit watch
  bidkit watch ./bids -r --only quotation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := pipeline.ParseSteps(only)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			if pattern == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				pattern = cfg.Source.Pattern
			}

			watcher, err := w.New(w.Config{
				Directories: args,
				Pattern:     pattern,
				Recursive:   recursive,
				Debounce:    debounce,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			jsonOut, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			watcher.Handler = func(path string) error {
				report, err := pipeline.Execute(ctx, pipeline.Invocation{
					Command: "watch",
					Source:  path,
					Steps:   steps,
					OutDir:  outDir,
					Verbose: verbose,
					History: !noHistory,
				})
				if err != nil {
					if jsonOut {
						output.PrintJSONError("watch", err, output.ExitUserError)
					} else {
						color.New(color.FgRed).Fprintf(os.Stderr, "%s: %s\n", path, err)
					}
					return err
				}
				if jsonOut {
					return output.PrintJSON("watch", report)
				}
				generate.PrintReport(report)
				return nil
			}

			if !jsonOut {
				fmt.Printf("Watching %d directory(ies) for %s\n", len(args), pattern)
				fmt.Println("Press Ctrl+C to stop")
			}
			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "File name pattern (default source.pattern)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Wait this many milliseconds after the last write")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output folder (default output.dir)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only these steps: folders, content, quotation, cover")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record runs in the history log")

	return cmd
}
