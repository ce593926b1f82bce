package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// Style describes how a cell is presented. Styles are plain values:
// two cells with equal Style share one style record in the file.
type Style struct {
	Font       string  `json:"font,omitempty"`
	Size       float64 `json:"size,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Horizontal string  `json:"horizontal,omitempty"`
	Vertical   string  `json:"vertical,omitempty"`
	Wrap       bool    `json:"wrap,omitempty"`
	Indent     int     `json:"indent,omitempty"`
	Border     bool    `json:"border,omitempty"` // thin black border on all sides
	Fill       string  `json:"fill,omitempty"`   // solid fill colour, hex RGB
	NumFormat  string  `json:"num_format,omitempty"`
}

// IsZero reports whether st carries no formatting at all.
func (st Style) IsZero() bool {
	return st == Style{}
}

// WithFill returns st with a solid fill colour.
func (st Style) WithFill(color string) Style {
	st.Fill = color
	return st
}

// WithAlign returns st with a different horizontal alignment.
func (st Style) WithAlign(horizontal string) Style {
	st.Horizontal = horizontal
	return st
}

// WithNumFormat returns st with a custom number format.
func (st Style) WithNumFormat(format string) Style {
	st.NumFormat = format
	return st
}

// Cell is a single written cell: either a literal value or a formula.
type Cell struct {
	Ref     string `json:"ref"`
	Value   any    `json:"value,omitempty"`
	Formula string `json:"formula,omitempty"` // without leading "="
	Style   Style  `json:"style"`
}

// Margins are page margins in inches.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Header float64 `json:"header"`
	Footer float64 `json:"footer"`
}

// PageSetup controls printing of a sheet.
type PageSetup struct {
	Orientation string  `json:"orientation"`
	PaperSize   int     `json:"paper_size"` // excelize paper code, 9 = A4
	Margins     Margins `json:"margins"`
	PrintArea   string  `json:"print_area,omitempty"` // e.g. A1:C40
}

// PaperA4 is the paper size code for A4.
const PaperA4 = 9

// Sheet represents a single worksheet.
//
// Rows and Formulas are filled when a workbook is read. Cells written
// through Set, SetFormula and SetStyle are what WriteFile emits.
type Sheet struct {
	Name       string             `json:"name"`
	Rows       [][]string         `json:"rows,omitempty"`
	Formulas   map[string]string  `json:"formulas,omitempty"`
	Merges     []string           `json:"merges,omitempty"`
	ColWidths  map[string]float64 `json:"col_widths,omitempty"`
	RowHeights map[int]float64    `json:"row_heights,omitempty"`
	Page       *PageSetup         `json:"page,omitempty"`

	cells []Cell
	index map[string]int
}

// Workbook represents an Excel file with all its sheets.
type Workbook struct {
	Sheets         []*Sheet `json:"sheets"`
	FullCalcOnLoad bool     `json:"full_calc_on_load,omitempty"`
}

// NewSheet returns an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{Name: name}
}

// CellRef joins a column name and a row number, e.g. ("B", 4) -> "B4".
func CellRef(col string, row int) string {
	return col + strconv.Itoa(row)
}

func (s *Sheet) cell(ref string) *Cell {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[ref]; ok {
		return &s.cells[i]
	}
	s.index[ref] = len(s.cells)
	s.cells = append(s.cells, Cell{Ref: ref})
	return &s.cells[len(s.cells)-1]
}

// Set stores a literal value, replacing any formula in the cell.
func (s *Sheet) Set(ref string, v any) {
	c := s.cell(ref)
	c.Value = v
	c.Formula = ""
}

// SetFormula stores formula text (without "="), replacing any literal.
func (s *Sheet) SetFormula(ref, text string) {
	c := s.cell(ref)
	c.Formula = strings.TrimPrefix(text, "=")
	c.Value = nil
}

// SetStyle styles a cell, creating it empty if needed.
func (s *Sheet) SetStyle(ref string, st Style) {
	s.cell(ref).Style = st
}

// Cell returns the written cell at ref.
func (s *Sheet) Cell(ref string) (Cell, bool) {
	i, ok := s.index[ref]
	if !ok {
		return Cell{}, false
	}
	return s.cells[i], true
}

// Cells returns the written cells in the order they were first touched.
func (s *Sheet) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Merge records a merged range such as A1:N1.
func (s *Sheet) Merge(from, to string) {
	s.Merges = append(s.Merges, from+":"+to)
}

// SetColWidth sets the width of a column.
func (s *Sheet) SetColWidth(col string, width float64) {
	if s.ColWidths == nil {
		s.ColWidths = make(map[string]float64)
	}
	s.ColWidths[col] = width
}

// SetRowHeight sets the height of a row.
func (s *Sheet) SetRowHeight(row int, height float64) {
	if s.RowHeights == nil {
		s.RowHeights = make(map[int]float64)
	}
	s.RowHeights[row] = height
}

// Text returns the literal at ref formatted as text, or "" when the
// cell is empty or holds a formula.
func (s *Sheet) Text(ref string) string {
	c, ok := s.Cell(ref)
	if !ok || c.Value == nil {
		return ""
	}
	return fmt.Sprint(c.Value)
}

// SheetNames lists the sheet names in order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}
