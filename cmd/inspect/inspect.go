// Package inspect provides the "bidkit inspect" command for looking
// inside generated workbooks.
package inspect

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/output"
)

// NewCommand returns the inspect command.
func NewCommand() *cobra.Command {
	var (
		sheetName string
		csvOutput bool
		formulas  bool
		check     bool
		noPager   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <workbook.xlsx>",
		Short: "Show the sheets, values and formulas of a workbook",
		Long: `Reads an .xlsx file and prints its sheets. With --formulas the formula
of every cell is listed; with --check every cross-sheet reference is
verified to point at a sheet that exists.

Example:
  bidkit inspect 投标报价表-吉布提.xlsx
  bidkit inspect 投标报价表-吉布提.xlsx --sheet 1.投标报价总表 --formulas
  bidkit inspect 投标报价表-吉布提.xlsx --check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			filePath := args[0]
			if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
				return fmt.Errorf("expected an .xlsx file, got %q — use 'bidkit inspect <file.xlsx>'", filePath)
			}
			wb, err := xlsx.ReadFile(filePath)
			if err != nil {
				return err
			}

			if check {
				problems := Check(wb)
				if jsonFlag {
					return output.PrintJSON("inspect", map[string]any{"path": filePath, "problems": problems})
				}
				if len(problems) == 0 {
					color.New(color.FgGreen).Printf("All cross-sheet references in %s resolve\n", filePath)
					return nil
				}
				for _, p := range problems {
					color.New(color.FgRed).Printf("  %s\n", p)
				}
				return fmt.Errorf("%d broken reference(s)", len(problems))
			}

			// Filter to specific sheet if requested
			if sheetName != "" {
				sheet, err := wb.GetSheet(sheetName)
				if err != nil {
					return err
				}
				wb = &xlsx.Workbook{Sheets: []*xlsx.Sheet{sheet}, FullCalcOnLoad: wb.FullCalcOnLoad}
			}

			if jsonFlag {
				return output.PrintJSON("inspect", wb)
			}

			var b strings.Builder
			switch {
			case csvOutput:
				for _, sheet := range wb.Sheets {
					if len(wb.Sheets) > 1 {
						fmt.Fprintf(os.Stderr, "--- %s ---\n", sheet.Name)
					}
					b.WriteString(sheet.ToCSV())
				}
			case formulas:
				writeFormulas(&b, wb)
			default:
				writePretty(&b, wb)
			}

			text := b.String()
			if !noPager && output.ShouldPage(text, output.TermHeight()) {
				return output.Page(text)
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Show only the named sheet")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output values as CSV")
	cmd.Flags().BoolVar(&formulas, "formulas", false, "List the formula of every cell")
	cmd.Flags().BoolVar(&check, "check", false, "Verify that every cross-sheet reference resolves")
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Never pipe output through $PAGER")

	return cmd
}

// Check returns one message per formula that names a sheet missing from wb.
func Check(wb *xlsx.Workbook) []string {
	names := make(map[string]bool, len(wb.Sheets))
	for _, s := range wb.Sheets {
		names[s.Name] = true
	}

	var problems []string
	for _, s := range wb.Sheets {
		for _, ref := range sortedRefs(s.Formulas) {
			for _, target := range formula.SheetsInText(s.Formulas[ref]) {
				if !names[target] {
					problems = append(problems, fmt.Sprintf("%s!%s references missing sheet %q", s.Name, ref, target))
				}
			}
		}
	}
	return problems
}

// sortedRefs orders cell references by row, then column.
func sortedRefs(cells map[string]string) []string {
	refs := make([]string, 0, len(cells))
	for ref := range cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		ci, ri, _ := excelize.CellNameToCoordinates(refs[i])
		cj, rj, _ := excelize.CellNameToCoordinates(refs[j])
		if ri != rj {
			return ri < rj
		}
		return ci < cj
	})
	return refs
}

func writeFormulas(b *strings.Builder, wb *xlsx.Workbook) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)
	for _, sheet := range wb.Sheets {
		b.WriteString(header.Sprintf("Sheet: %s\n", sheet.Name))
		refs := sortedRefs(sheet.Formulas)
		if len(refs) == 0 {
			b.WriteString(dim.Sprint("  (no formulas)\n\n"))
			continue
		}
		for _, ref := range refs {
			fmt.Fprintf(b, "  %-6s =%s\n", ref, sheet.Formulas[ref])
		}
		b.WriteString(dim.Sprintf("  (%d formulas)\n\n", len(refs)))
	}
}

func writePretty(b *strings.Builder, wb *xlsx.Workbook) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, sheet := range wb.Sheets {
		b.WriteString(header.Sprintf("Sheet: %s\n", sheet.Name))

		if len(sheet.Rows) == 0 {
			b.WriteString(dim.Sprint("  (empty)\n\n"))
			continue
		}

		// Calculate column widths
		colWidths := make([]int, 0)
		for _, row := range sheet.Rows {
			for j, cell := range row {
				for len(colWidths) <= j {
					colWidths = append(colWidths, 0)
				}
				colWidths[j] = max(colWidths[j], cellWidth.StringWidth(firstLine(cell)))
			}
		}
		for i := range colWidths {
			colWidths[i] = min(max(colWidths[i], 3), 40)
		}

		for i, row := range sheet.Rows {
			b.WriteString("  ")
			for j := range colWidths {
				if j > 0 {
					b.WriteString("| ")
				}
				cell := ""
				if j < len(row) {
					cell = firstLine(row[j])
				}
				cell = cellWidth.Truncate(cell, colWidths[j], "~")
				b.WriteString(cell + strings.Repeat(" ", colWidths[j]-cellWidth.StringWidth(cell)+1))
			}
			b.WriteByte('\n')
			if i == 0 && len(sheet.Rows) > 1 {
				b.WriteString(dim.Sprint("  " + strings.Repeat("-", sum(colWidths)+3*len(colWidths)) + "\n"))
			}
		}
		b.WriteString(dim.Sprintf("  (%d rows, %d formulas, %d merges)\n\n", sheet.RowCount(), len(sheet.Formulas), len(sheet.Merges)))
	}
}

// cellWidth measures terminal columns per grapheme cluster. Ambiguous-width
// runes count as one column whatever the locale says.
var cellWidth = &runewidth.Condition{StrictEmojiNeutral: true}

func firstLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if found && rest != "" {
		return line + "…"
	}
	return line
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
