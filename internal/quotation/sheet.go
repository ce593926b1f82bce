package quotation

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
)

const unitText = "报价单位：人民币元（保留小数点后两位）"

var (
	titleStyle  = xlsx.Style{Font: "宋体", Size: 16, Bold: true, Horizontal: "center", Vertical: "center", Wrap: true}
	headerStyle = xlsx.Style{Font: "宋体", Size: 12, Bold: true, Horizontal: "center", Vertical: "center", Wrap: true, Border: true, Fill: "808080"}
	cellStyle   = xlsx.Style{Font: "宋体", Size: 11, Horizontal: "center", Vertical: "center", Wrap: true, Border: true}
	boldCell    = xlsx.Style{Font: "宋体", Size: 12, Bold: true, Horizontal: "center", Vertical: "center", Wrap: true, Border: true}
	leftCell    = cellStyle.WithAlign("left")
	inputCell   = cellStyle.WithFill("FFFF00")
	noteStyle   = xlsx.Style{Font: "宋体", Size: 11, Horizontal: "left", Vertical: "center", Wrap: true}
	dateStyle   = xlsx.Style{Font: "宋体", Size: 11}.WithNumFormat(`yyyy"年"m"月"d"日"`)
	plainStyle  = xlsx.Style{Font: "宋体", Size: 11}
)

// placed is a formula together with the cell it was written to.
type placed struct {
	Ref  string
	Expr formula.Expr
}

// sheet wraps an xlsx.Sheet with the helpers the builders share and
// remembers every formula for the consistency check.
type sheet struct {
	*xlsx.Sheet
	formulas []placed
}

func newSheet(name string) *sheet {
	return &sheet{Sheet: xlsx.NewSheet(name)}
}

// col is the column name of the 1-based column number n.
func col(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func colNumber(name string) int {
	n, _ := excelize.ColumnNameToNumber(name)
	return n
}

func (s *sheet) value(c string, row int, v any, st xlsx.Style) {
	ref := xlsx.CellRef(c, row)
	s.Set(ref, v)
	s.SetStyle(ref, st)
}

func (s *sheet) formula(c string, row int, e formula.Expr, st xlsx.Style) {
	ref := xlsx.CellRef(c, row)
	s.SetFormula(ref, formula.Render(e))
	s.SetStyle(ref, st)
	s.formulas = append(s.formulas, placed{Ref: ref, Expr: e})
}

// styleRow styles columns from..to of row, creating empty cells.
func (s *sheet) styleRow(row int, from, to string, st xlsx.Style) {
	for n := colNumber(from); n <= colNumber(to); n++ {
		s.SetStyle(xlsx.CellRef(col(n), row), st)
	}
}

func (s *sheet) widths(cols []string, widths []float64) {
	for i, c := range cols {
		s.SetColWidth(c, widths[i])
	}
}

func (s *sheet) headers(row int, names []string) {
	for i, name := range names {
		s.value(col(i+1), row, name, headerStyle)
	}
}

// title writes a merged, centred title across A..last of row 1.
func (s *sheet) title(text, last string) {
	s.value("A", 1, text, titleStyle)
	s.Merge("A1", xlsx.CellRef(last, 1))
}

func (s *sheet) unitLine(row int, last string) {
	s.value("A", row, unitText, noteStyle)
	s.Merge(xlsx.CellRef("A", row), xlsx.CellRef(last, row))
}

// ref is a same-sheet cell reference.
func ref(c string, row int) formula.Ref {
	return formula.Cell(c, row)
}

// sumColumn sums column c over the goods rows, or is 0 when there are none.
func sumColumn(c string, l Layout) formula.Expr {
	if l.Empty() {
		return formula.Number(0)
	}
	return formula.Sum(formula.Span(ref(c, l.Start), ref(c, l.End)))
}

// rebate is ROUND(C/(1+R/100)*R/100,2) for the price in column price
// and the rate in column rate.
func rebate(price, rate string, row int) formula.Expr {
	r := ref(rate, row)
	net := formula.Div(ref(price, row), formula.Group{X: formula.Add(formula.Number(1), formula.Div(r, formula.Number(100)))})
	return formula.Round(formula.Div(formula.Mul(net, r), formula.Number(100)), 2)
}
