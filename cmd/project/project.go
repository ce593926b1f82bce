// Package project provides the "bidkit project" commands for reading,
// converting and creating project files.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/output"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/prompt"
)

// NewCommand returns the project command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show, convert and create project files",
		Long: `A project file holds the bid facts: name, code, date, destination,
transport, service flags and the goods list. It is a .docx with two
tables, or the same fields as YAML or TOML.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

// source resolves the project file from args or the configured pattern.
func source(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return project.Discover(".", cfg.Source.Pattern)
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project.docx]",
		Short: "Validate a project file and print its contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := source(args)
			if err != nil {
				return err
			}
			p, err := project.Load(path)
			if err != nil {
				return err
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("project show", project.ToRecord(p))
			}
			printProject(p)
			return nil
		},
	}
}

func printProject(p *project.Project) {
	header := color.New(color.Bold, color.FgCyan)
	label := color.New(color.FgHiBlack).SprintFunc()
	yes := color.New(color.FgGreen).Sprint("yes")
	no := color.New(color.FgHiBlack).Sprint("no")
	flag := func(b bool) string {
		if b {
			return yes
		}
		return no
	}

	header.Printf("%s\n", p.Name)
	fmt.Printf("  %s %s\n", label("Code:       "), p.Code)
	fmt.Printf("  %s %s\n", label("Date:       "), p.DateText())
	fmt.Printf("  %s %s %s\n", label("Delivery:   "), p.Transport, p.Destination)
	fmt.Printf("  %s %s\n", label("Time:       "), p.TransportTime)
	fmt.Printf("  %s %s\n", label("Total value:"), p.TotalValue.StringFixed(2))
	if p.Source != "" {
		fmt.Printf("  %s %s\n", label("Source:     "), p.Source)
	}
	fmt.Println()

	fmt.Printf("  %s %s\n", label("Lowest price:     "), flag(p.LowPrice))
	fmt.Printf("  %s %s\n", label("Secondary list:   "), flag(p.SecondaryList))
	tech := flag(p.TechService)
	if p.TechService {
		tech += fmt.Sprintf(" (%d people, %d days)", p.TechPeople, p.TechDays)
	}
	fmt.Printf("  %s %s\n", label("Technical service:"), tech)
	fmt.Printf("  %s %s\n", label("After-sales:      "), flag(p.AfterSales))
	training := flag(p.Training)
	if p.Training {
		training += fmt.Sprintf(" (%d people, %d days)", p.TrainingPeople, p.TrainingDays)
	}
	fmt.Printf("  %s %s\n", label("Training:         "), training)
	fmt.Println()

	header.Printf("Goods (%d)\n", p.ItemCount())
	for _, c := range p.Items() {
		name := strings.ReplaceAll(c.Name, "\n", " ")
		fmt.Printf("  %3s  %-24s %6d %-4s %s\n", c.Serial, name, c.Quantity, c.Unit, label(c.HSCode))
	}
	if len(p.Inspection) > 0 {
		fmt.Printf("  %s %v\n", label("Legal inspection:"), p.Inspection)
	}
	if len(p.MainItems) > 0 {
		fmt.Printf("  %s %v\n", label("Main goods:      "), p.MainItems)
	}
}

func newExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export [project.docx]",
		Short: "Convert a project file to YAML, TOML or .docx",
		Long: `Writes the project in another format, chosen by the extension of -o.
A YAML or TOML copy is easier to edit and review than the Word table.

Example:
  bidkit project export project.docx -o project.yaml
  bidkit project export project.yaml -o project-new.docx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := source(args)
			if err != nil {
				return err
			}
			p, err := project.Load(path)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
			}
			if filepath.Clean(outPath) == filepath.Clean(path) {
				return fmt.Errorf("export would overwrite %s; pass another path with -o", path)
			}
			if err := project.Export(p, outPath); err != nil {
				return err
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("project export", map[string]string{"source": path, "path": outPath})
			}
			fmt.Printf("Exported %s to %s\n", path, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (.yaml, .yml, .toml or .docx)")
	return cmd
}

func newInitCommand() *cobra.Command {
	var (
		outPath string
		from    string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project file interactively",
		Long: `Asks for every project field and the goods list, validates the answers
and writes a project file. With --from the answers default to the
values of an existing project file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(outPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", outPath)
			}

			var base *project.Record
			if from != "" {
				p, err := project.Load(from)
				if err != nil {
					return err
				}
				base = project.ToRecord(p)
			}

			asker, err := prompt.New(filepath.Join(config.Dir(), "prompt_history"))
			if err != nil {
				return fmt.Errorf("could not open the terminal: %w", err)
			}
			defer asker.Close()

			rec, err := prompt.ProjectRecord(asker, base)
			if errors.Is(err, prompt.ErrAborted) {
				fmt.Println("Aborted, nothing written.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := project.ExportRecord(rec, outPath); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("Wrote %s\n", outPath)
			fmt.Printf("Next: bidkit generate %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "project.yaml", "Project file to write (.yaml, .toml or .docx)")
	cmd.Flags().StringVar(&from, "from", "", "Existing project file to take defaults from")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
