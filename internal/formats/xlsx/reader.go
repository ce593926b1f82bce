// Package xlsx models workbooks with styled, formula-bearing cells and
// reads and writes them as .xlsx files through excelize.
package xlsx

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFile reads an .xlsx file and returns its values, formulas and merges.
func ReadFile(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct: %w", path, os.ErrNotExist)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// ReadBytes reads an .xlsx file from a byte slice.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}
	if props, err := f.GetCalcProps(); err == nil && props.FullCalcOnLoad != nil {
		wb.FullCalcOnLoad = *props.FullCalcOnLoad
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		formulas, err := readFormulas(f, name, rows)
		if err != nil {
			return nil, err
		}
		sheet := &Sheet{
			Name:     name,
			Rows:     rows,
			Formulas: formulas,
		}
		merges, err := f.GetMergeCells(name)
		if err != nil {
			return nil, fmt.Errorf("could not read merged cells of %q: %w", name, err)
		}
		for _, m := range merges {
			sheet.Merges = append(sheet.Merges, m.GetStartAxis()+":"+m.GetEndAxis())
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// readFormulas scans the used range of a sheet. Formula cells carry no
// cached value in freshly generated files, so GetRows alone can miss
// trailing formula columns; the recorded dimension covers them.
func readFormulas(f *excelize.File, sheet string, rows [][]string) (map[string]string, error) {
	maxRow := len(rows)
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		_, end, found := strings.Cut(dim, ":")
		if !found {
			end = dim
		}
		if col, row, err := excelize.CellNameToCoordinates(end); err == nil {
			maxCol = max(maxCol, col)
			maxRow = max(maxRow, row)
		}
	}

	formulas := make(map[string]string)
	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			ref, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}
			text, err := f.GetCellFormula(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("could not read formula %s!%s: %w", sheet, ref, err)
			}
			if text != "" {
				formulas[ref] = strings.TrimPrefix(text, "=")
			}
		}
	}
	if len(formulas) == 0 {
		return nil, nil
	}
	return formulas, nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, wb.SheetNames())
}

// Value returns the read value at a cell reference such as "C4".
func (s *Sheet) Value(ref string) string {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil || row > len(s.Rows) || col > len(s.Rows[row-1]) {
		return ""
	}
	return s.Rows[row-1][col-1]
}

// ToCSV converts a sheet's data to CSV format.
func (s *Sheet) ToCSV() string {
	var b strings.Builder
	for _, row := range s.Rows {
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			if strings.ContainsAny(cell, ",\"\n\r") {
				b.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`)
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RowCount returns the number of rows holding at least one value.
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, cell := range row {
			if cell != "" {
				count++
				break
			}
		}
	}
	return count
}
