package quotation

import (
	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

var innerHeaders = []string{
	"物资", "品名", "商品购买单价", "数量", "商品购买总价", "国内运杂费", "包装费",
	"保管费", "物资检验费", "运输保险费", "国外运费", "实施服务费", "税金", "合计",
}

// Apportioned cost columns and the column of the summary row holding
// the amount each one shares out.
var apportioned = []string{"I", "J", "K", "L", "M"}

// buildInner lays out the internal itemized quote. Each goods line
// looks its price and quantity up through the selector sheet, and the
// shared costs on the summary row are split across lines by their share
// of the goods subtotal.
func buildInner(p *project.Project) (*sheet, InnerFacts, error) {
	facts, err := innerLayout(p.ItemCount())
	if err != nil {
		return nil, InnerFacts{}, err
	}
	items, total, summary := facts.Items, facts.Total, facts.Summary

	s := newSheet(SheetInner)
	s.widths(
		[]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N"},
		[]float64{12, 30, 14, 10, 14, 12, 10, 10, 12, 12, 12, 12, 12, 14},
	)
	s.title("二.物资对内分项报价表", "N")
	s.SetRowHeight(1, 30)
	s.unitLine(2, "N")
	s.headers(innerHeaderRows, innerHeaders)

	if !items.Empty() {
		s.value("A", items.Start, "供货清单（一）", cellStyle)
		if items.Count() > 1 {
			s.Merge(xlsx.CellRef("A", items.Start), xlsx.CellRef("A", items.End))
		}
		for row := items.Start + 1; row <= items.End; row++ {
			s.SetStyle(xlsx.CellRef("A", row), cellStyle)
		}
	}

	for i := 1; i <= items.Count(); i++ {
		row := items.Row(i)
		pick := func(c string) formula.Ref { return formula.Cell(c, i).On(SheetSelector) }
		lookup := func(c string) formula.Expr {
			return formula.Index(formula.Column(c).On(SheetSuppliers), pick("C"))
		}

		s.formula("B", row, formula.Concat(pick("A"), formula.Text("."), pick("B")), cellStyle)
		s.formula("C", row, lookup("J"), cellStyle)
		s.formula("D", row, lookup("D"), cellStyle)
		s.formula("E", row, formula.Mul(ref("C", row), ref("D", row)), cellStyle)
		for _, c := range []string{"F", "G", "H"} {
			s.value(c, row, 0, inputCell)
		}
		for _, c := range apportioned {
			share := formula.Div(ref("E", row), ref("E", total).FixRow())
			s.formula(c, row, formula.Round(formula.Mul(share, ref(c, summary).FixRow()), 2), cellStyle)
		}
		s.formula("N", row, formula.Sum(formula.Span(ref("E", row), ref("M", row))), cellStyle)
	}

	s.value("A", total, "合计", boldCell)
	s.SetStyle(xlsx.CellRef("B", total), boldCell)
	s.Merge(xlsx.CellRef("A", total), xlsx.CellRef("B", total))
	s.styleRow(total, "C", "N", cellStyle)
	for n := colNumber("E"); n <= colNumber("N"); n++ {
		c := col(n)
		s.formula(c, total, sumColumn(c, items), cellStyle)
	}

	s.styleRow(summary, "H", "N", cellStyle)
	s.value("H", summary, "分摊基数", cellStyle)
	s.formula("I", summary, fee(feeInspection), cellStyle)
	s.formula("J", summary, fee(feeInsurance), cellStyle)
	s.formula("K", summary, fee(feeFreight), cellStyle)
	s.formula("L", summary, formula.Cell("H", serviceTotalRow).On(SheetTech), cellStyle)
	subtotal := formula.Sum(formula.Span(ref("E", total), ref("L", total)))
	s.formula("M", summary, formula.Round(formula.Mul(formula.Group{X: subtotal}, fee(feeTaxRate)), 2), cellStyle)
	s.formula("N", summary, formula.Sum(formula.Span(ref("E", total), ref("M", total))), cellStyle)

	return s, facts, nil
}
