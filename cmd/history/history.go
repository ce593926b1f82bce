// Package history provides the "bidkit history" commands for viewing past runs.
package history

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	historypkg "github.com/klytics/bidkit/internal/history"
	"github.com/klytics/bidkit/internal/output"
	"github.com/klytics/bidkit/internal/pipeline"
)

// NewCommand creates the "history" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage the run history",
		Long:  "Every generate run is recorded with its project, artifacts and outcome. List, inspect or clear those records.",
	}

	// bare "bidkit history" lists, with the same flags as "history list"
	list := newListCmd()
	cmd.Flags().AddFlagSet(list.Flags())
	cmd.Args = cobra.NoArgs
	cmd.RunE = list.RunE

	cmd.AddCommand(list)
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newPathCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var (
		limit   int
		project string
		since   string
		failed  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pipeline.HistoryPath()
			entries, err := historypkg.ReadEntries(path)
			if err != nil {
				return err
			}

			f := historypkg.Filter{Project: project, Failed: failed, Limit: limit}
			if since != "" {
				t, err := time.ParseInLocation("2006-01-02", since, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --since date: %w (use YYYY-MM-DD)", err)
				}
				f.Since = t
			}
			filtered := historypkg.FilterEntries(entries, f)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if filtered == nil {
					filtered = []historypkg.Entry{}
				}
				return output.PrintJSON("history list", filtered)
			}

			if len(filtered) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			fmt.Printf("History: %d run(s)\n", len(filtered))
			fmt.Printf("File: %s\n\n", path)

			writeTable(os.Stdout, filtered)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Show the last N runs (0 for all)")
	cmd.Flags().StringVar(&project, "project", "", "Only runs whose project name or code contains this text")
	cmd.Flags().StringVar(&since, "since", "", "Only runs since date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only failed runs")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by ID or ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := historypkg.ReadEntries(pipeline.HistoryPath())
			if err != nil {
				return err
			}
			e, err := historypkg.Find(entries, args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history show", e)
			}

			label := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s %s\n", label("ID:      "), e.ID)
			fmt.Printf("%s %s\n", label("Time:    "), e.Timestamp.Local().Format(time.RFC3339))
			fmt.Printf("%s %s\n", label("Machine: "), e.Machine)
			fmt.Printf("%s %s\n", label("Command: "), e.Command)
			if e.Source != "" {
				fmt.Printf("%s %s\n", label("Source:  "), e.Source)
			}
			if e.Project != "" {
				fmt.Printf("%s %s (%s), %d item(s)\n", label("Project: "), e.Project, e.Code, e.Items)
			}
			fmt.Printf("%s %s\n", label("Duration:"), Duration(e.DurationMs))
			if !e.OK() {
				color.New(color.FgRed).Printf("%s %s\n", label("Error:   "), e.Error)
			}
			for _, a := range e.Artifacts {
				fmt.Printf("  %-9s %s\n", a.Kind, a.Path)
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pipeline.HistoryPath()
			if err := historypkg.Clear(path); err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history clear", map[string]string{"cleared": path})
			}
			fmt.Printf("History cleared: %s\n", path)
			return nil
		},
	}
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the history file path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pipeline.HistoryPath()
			size := historypkg.LogSize(path)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history path", map[string]any{"path": path, "size": size})
			}
			fmt.Printf("Path: %s\n", path)
			fmt.Printf("Size: %d bytes\n", size)
			return nil
		},
	}
}

// writeTable prints entries as a borderless table. Column widths
// account for CJK project codes.
func writeTable(out io.Writer, entries []historypkg.Entry) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Timestamp", "Command", "Project", "Items", "Duration", "Result"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	red := color.New(color.FgRed).SprintFunc()
	for _, e := range entries {
		result := "ok"
		if !e.OK() {
			result = red("failed")
		}
		name := e.Code
		if name == "" {
			name = "-"
		}
		table.Append([]string{
			shortID(e.ID),
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Command,
			name,
			fmt.Sprint(e.Items),
			Duration(e.DurationMs),
			result,
		})
	}
	table.Render()
}

// Duration formats milliseconds as "850ms" or "1.2s".
func Duration(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
