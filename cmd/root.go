// Package cmd contains all CLI commands for the bidkit binary.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/cmd/completion"
	cmdconfig "github.com/klytics/bidkit/cmd/config"
	"github.com/klytics/bidkit/cmd/cover"
	"github.com/klytics/bidkit/cmd/dirs"
	"github.com/klytics/bidkit/cmd/generate"
	cmdhistory "github.com/klytics/bidkit/cmd/history"
	"github.com/klytics/bidkit/cmd/inspect"
	"github.com/klytics/bidkit/cmd/org"
	cmdproject "github.com/klytics/bidkit/cmd/project"
	"github.com/klytics/bidkit/cmd/quote"
	"github.com/klytics/bidkit/cmd/toc"
	"github.com/klytics/bidkit/cmd/version"
	cmdwatch "github.com/klytics/bidkit/cmd/watch"
	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/output"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/quotation"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	configFile string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bidkit",
		Short: "Generate bid document packages from a project file",
		Long: `bidkit turns one project document into a complete bid package:

  the quotation workbook with linked price, tax and service sheets,
  the table of contents workbook, the cover pages and the folder tree.

The project document is a .docx with the project info table and the
goods table; YAML and TOML project files are accepted too.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
			if jsonOutput {
				os.Setenv("BIDKIT_JSON", "true")
			}
			if configFile != "" {
				config.UseFile(configFile)
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.bidkit/config.yaml)")

	// Register subcommands
	rootCmd.AddCommand(generate.NewCommand())
	rootCmd.AddCommand(quote.NewCommand())
	rootCmd.AddCommand(toc.NewCommand())
	rootCmd.AddCommand(cover.NewCommand())
	rootCmd.AddCommand(dirs.NewCommand())
	rootCmd.AddCommand(cmdproject.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdhistory.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(org.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	code := ExitCode(err)
	if jsonOutput {
		name := rootCmd.Name()
		if cmd != nil {
			name = cmd.CommandPath()
		}
		output.PrintJSONError(name, err, code)
	} else {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		printHints(err)
	}
	os.Exit(code)
}

// ExitCode maps an error to the process exit code: problems with the
// input are user errors, everything else is a system error.
func ExitCode(err error) int {
	var (
		malformed   *project.MalformedInputError
		consistency *quotation.ConsistencyError
	)
	switch {
	case err == nil:
		return output.ExitOK
	case errors.As(err, &consistency), errors.Is(err, quotation.ErrFilesystem):
		return output.ExitSystemError
	case errors.As(err, &malformed), errors.Is(err, project.ErrNoSource), errors.Is(err, os.ErrNotExist):
		return output.ExitUserError
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return output.ExitSystemError
	}
	return output.ExitUserError
}

func printHints(err error) {
	var malformed *project.MalformedInputError
	if errors.As(err, &malformed) {
		fmt.Fprintln(os.Stderr, "Fix the project file and run the command again; 'bidkit project show' checks it without writing anything.")
	}
	if errors.Is(err, project.ErrNoSource) {
		fmt.Fprintln(os.Stderr, "Create one with 'bidkit project init' or set source.pattern with 'bidkit config set'.")
	}
}
