package xlsx

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/bidkit/internal/output"
)

// WriteFile saves the workbook to path. The file is written to a
// temporary name in the same directory first and renamed on success.
func WriteFile(wb *Workbook, path string) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := output.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

// Write encodes the workbook as .xlsx to w.
func Write(wb *Workbook, w io.Writer) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func build(wb *Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	styles := &styleCache{f: f, ids: make(map[Style]int)}

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		if err := writeSheet(f, styles, sheetName, sheet); err != nil {
			f.Close()
			return nil, err
		}
	}

	if wb.FullCalcOnLoad {
		fullCalc := true
		if err := f.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not set calculation properties: %w", err)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, styles *styleCache, name string, sheet *Sheet) error {
	cols := make([]string, 0, len(sheet.ColWidths))
	for col := range sheet.ColWidths {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		if err := f.SetColWidth(name, col, col, sheet.ColWidths[col]); err != nil {
			return fmt.Errorf("could not set width of %s!%s: %w", name, col, err)
		}
	}

	rows := make([]int, 0, len(sheet.RowHeights))
	for row := range sheet.RowHeights {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		if err := f.SetRowHeight(name, row, sheet.RowHeights[row]); err != nil {
			return fmt.Errorf("could not set height of %s row %d: %w", name, row, err)
		}
	}

	maxCol, maxRow := 0, 0
	for _, c := range sheet.cells {
		col, row, err := excelize.CellNameToCoordinates(c.Ref)
		if err != nil {
			return fmt.Errorf("invalid cell %s on sheet %q: %w", c.Ref, name, err)
		}
		maxCol, maxRow = max(maxCol, col), max(maxRow, row)

		switch {
		case c.Formula != "":
			if err := f.SetCellFormula(name, c.Ref, c.Formula); err != nil {
				return fmt.Errorf("could not set formula %s!%s: %w", name, c.Ref, err)
			}
		case c.Value != nil:
			if err := f.SetCellValue(name, c.Ref, c.Value); err != nil {
				return fmt.Errorf("could not set cell %s!%s: %w", name, c.Ref, err)
			}
		}

		if c.Style.IsZero() {
			continue
		}
		id, err := styles.id(c.Style)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, c.Ref, c.Ref, id); err != nil {
			return fmt.Errorf("could not style %s!%s: %w", name, c.Ref, err)
		}
	}

	for _, m := range sheet.Merges {
		from, to, ok := strings.Cut(m, ":")
		if !ok {
			return fmt.Errorf("invalid merge range %q on sheet %q", m, name)
		}
		if err := f.MergeCell(name, from, to); err != nil {
			return fmt.Errorf("could not merge %s!%s: %w", name, m, err)
		}
	}

	if maxRow > 0 {
		end, err := excelize.CoordinatesToCellName(maxCol, maxRow)
		if err != nil {
			return fmt.Errorf("invalid sheet dimension: %w", err)
		}
		if err := f.SetSheetDimension(name, "A1:"+end); err != nil {
			return fmt.Errorf("could not set dimension of %q: %w", name, err)
		}
	}

	if sheet.Page != nil {
		if err := writePage(f, name, sheet.Page); err != nil {
			return err
		}
	}
	return nil
}

func writePage(f *excelize.File, name string, page *PageSetup) error {
	layout := &excelize.PageLayoutOptions{}
	if page.PaperSize != 0 {
		size := page.PaperSize
		layout.Size = &size
	}
	if page.Orientation != "" {
		orientation := page.Orientation
		layout.Orientation = &orientation
	}
	if err := f.SetPageLayout(name, layout); err != nil {
		return fmt.Errorf("could not set page layout of %q: %w", name, err)
	}

	m := page.Margins
	if err := f.SetPageMargins(name, &excelize.PageLayoutMarginsOptions{
		Left:   &m.Left,
		Right:  &m.Right,
		Top:    &m.Top,
		Bottom: &m.Bottom,
		Header: &m.Header,
		Footer: &m.Footer,
	}); err != nil {
		return fmt.Errorf("could not set page margins of %q: %w", name, err)
	}

	if page.PrintArea == "" {
		return nil
	}
	refersTo, err := absoluteArea(name, page.PrintArea)
	if err != nil {
		return err
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: refersTo,
		Scope:    name,
	}); err != nil {
		return fmt.Errorf("could not set print area of %q: %w", name, err)
	}
	return nil
}

// absoluteArea turns ("总", "A1:C40") into "'总'!$A$1:$C$40".
func absoluteArea(sheet, area string) (string, error) {
	from, to, ok := strings.Cut(area, ":")
	if !ok {
		return "", fmt.Errorf("invalid print area %q on sheet %q", area, sheet)
	}
	parts := make([]string, 0, 2)
	for _, ref := range []string{from, to} {
		col, row, err := excelize.SplitCellName(ref)
		if err != nil {
			return "", fmt.Errorf("invalid print area %q on sheet %q: %w", area, sheet, err)
		}
		parts = append(parts, fmt.Sprintf("$%s$%d", col, row))
	}
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	return quoted + "!" + strings.Join(parts, ":"), nil
}

type styleCache struct {
	f   *excelize.File
	ids map[Style]int
}

func (c *styleCache) id(st Style) (int, error) {
	if id, ok := c.ids[st]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(toExcelize(st))
	if err != nil {
		return 0, fmt.Errorf("could not create style: %w", err)
	}
	c.ids[st] = id
	return id, nil
}

func toExcelize(st Style) *excelize.Style {
	out := &excelize.Style{}
	if st.Font != "" || st.Size != 0 || st.Bold {
		out.Font = &excelize.Font{Family: st.Font, Size: st.Size, Bold: st.Bold}
	}
	if st.Horizontal != "" || st.Vertical != "" || st.Wrap || st.Indent != 0 {
		out.Alignment = &excelize.Alignment{
			Horizontal: st.Horizontal,
			Vertical:   st.Vertical,
			WrapText:   st.Wrap,
			Indent:     st.Indent,
		}
	}
	if st.Border {
		out.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}
	if st.Fill != "" {
		out.Fill = excelize.Fill{Type: "pattern", Color: []string{st.Fill}, Pattern: 1}
	}
	if st.NumFormat != "" {
		format := st.NumFormat
		out.CustomNumFmt = &format
	}
	return out
}
