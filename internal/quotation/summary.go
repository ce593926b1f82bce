package quotation

import (
	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

// Rows of the total summary sheet.
const (
	summaryFirstRow = 4
	summaryRebate   = 8
	summaryTotal    = 9
)

// buildSummary totals the goods, services and security costs and
// deducts the tax rebate.
func buildSummary(p *project.Project, inner InnerFacts, tax TaxFacts) *sheet {
	s := newSheet(SheetSummary)
	s.widths([]string{"A", "B", "C", "D"}, []float64{8, 40, 20, 24})
	s.title("一.投标报价总表", "D")
	s.unitLine(2, "D")
	s.headers(3, []string{"序号", "费用项目", "合计金额", "备注"})

	lines := []struct {
		no, item string
		amount   formula.Expr
		note     string
	}{
		{"一", "全部物资价格", formula.Cell("N", inner.Total).On(SheetInner), p.Transport + p.Destination + "价"},
		{"二", "技术服务费", formula.Cell("H", serviceTotalRow).On(SheetTech), ""},
		{"三", "来华培训和接待费", formula.Cell("G", serviceTotalRow).On(SheetTraining), ""},
		{"四", "其他费用-安防费用", fee(feeSecurity), ""},
		{"五", "增值税和消费税退抵税额", formula.Cell("H", tax.Total).On(SheetTax), ""},
	}
	for i, l := range lines {
		row := summaryFirstRow + i
		s.value("A", row, l.no, cellStyle)
		s.value("B", row, l.item, leftCell)
		s.formula("C", row, l.amount, cellStyle)
		s.value("D", row, l.note, cellStyle)
	}

	s.value("B", summaryTotal, "共计", boldCell)
	total := formula.Sub(
		formula.Sum(formula.Span(ref("C", summaryFirstRow), ref("C", summaryRebate-1))),
		ref("C", summaryRebate),
	)
	s.formula("C", summaryTotal, total, boldCell)

	stamp(s, 13, p)
	return s
}

// buildOpening is the bid-opening sheet: bidder, price and delivery time.
func buildOpening(p *project.Project, opts Options) *sheet {
	s := newSheet(SheetOpening)
	s.widths([]string{"A", "B", "C", "D"}, []float64{20, 24, 48, 24})
	s.title("三.开标一览表", "D")
	s.value("A", 2, "招标编号：", plainStyle)
	s.value("B", 2, p.Code, plainStyle)
	s.value("C", 2, "项目名称："+p.Name, plainStyle)
	s.headers(3, []string{"投标人名称", "投标报价", "启运或运抵时间", "备注"})

	s.styleRow(4, "A", "D", cellStyle)
	s.value("A", 4, opts.Bidder, leftCell)
	s.formula("B", 4, formula.Cell("C", summaryTotal).On(SheetSummary), cellStyle)
	s.value("C", 4, p.TransportTime, leftCell)

	stamp(s, 8, p)
	return s
}

// stamp writes the seal and date lines starting at row.
func stamp(s *sheet, row int, p *project.Project) {
	s.value("C", row, "投标人盖章：", plainStyle)
	s.value("C", row+1, "日期：", plainStyle)
	s.Set(xlsx.CellRef("D", row+1), p.Date)
	s.SetStyle(xlsx.CellRef("D", row+1), dateStyle)
}
