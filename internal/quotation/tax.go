package quotation

import (
	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

var taxHeaders = []string{
	"序号", "品名", "购买价款", "退抵增值税率(%)", "退抵增值税额",
	"退抵消费税率(%)", "退抵消费税额", "退抵税总额",
}

// buildTax computes the VAT and consumption-tax rebate of every goods
// line and of the transport, insurance and inspection costs, which are
// taken from the total row of the internal quote.
func buildTax(p *project.Project, opts Options, inner InnerFacts) (*sheet, TaxFacts, error) {
	facts, err := taxLayout(p.ItemCount())
	if err != nil {
		return nil, TaxFacts{}, err
	}
	if facts.Items.Count() != inner.Items.Count() {
		return nil, TaxFacts{}, NewConsistencyError(SheetTax,
			"%d goods rows but the internal quote has %d", facts.Items.Count(), inner.Items.Count())
	}
	items := facts.Items

	s := newSheet(SheetTax)
	s.widths(
		[]string{"A", "B", "C", "D", "E", "F", "G", "H"},
		[]float64{8, 26, 20, 16, 16, 16, 16, 18},
	)
	s.title("三.增值税和消费税退抵税额表", "H")
	s.unitLine(2, "H")
	s.headers(taxHeaderRows, taxHeaders)

	rebates := func(row int, vat, consumption float64) {
		s.value("D", row, vat, inputCell)
		s.formula("E", row, rebate("C", "D", row), cellStyle)
		s.value("F", row, consumption, inputCell)
		s.formula("G", row, rebate("C", "F", row), cellStyle)
		s.formula("H", row, formula.Add(ref("E", row), ref("G", row)), cellStyle)
	}

	for i := 1; i <= items.Count(); i++ {
		row := items.Row(i)
		s.formula("A", row, formula.Cell("A", i).On(SheetSelector), cellStyle)
		s.formula("B", row, formula.Cell("B", i).On(SheetSelector), cellStyle)
		s.formula("C", row, formula.Cell("E", inner.Items.Row(i)).On(SheetInner), cellStyle)
		rebates(row, opts.VATRate, opts.ConsumptionRate)
	}

	costs := []struct {
		row   int
		label string
		col   string // column of the internal quote total row
	}{
		{facts.Transport, "运输", "K"},
		{facts.Insurance, "保险", "J"},
		{facts.Inspection, "第三方检验", "I"},
	}
	for _, c := range costs {
		s.styleRow(c.row, "A", "H", cellStyle)
		s.value("B", c.row, c.label, cellStyle)
		s.formula("C", c.row, formula.Cell(c.col, inner.Total).On(SheetInner), cellStyle)
		rebates(c.row, 0, 0)
	}

	s.value("A", facts.Total, "共计", boldCell)
	s.SetStyle(xlsx.CellRef("B", facts.Total), boldCell)
	s.Merge(xlsx.CellRef("A", facts.Total), xlsx.CellRef("B", facts.Total))
	s.styleRow(facts.Total, "C", "H", cellStyle)
	for _, c := range []string{"C", "E", "G", "H"} {
		s.formula(c, facts.Total, formula.Sum(formula.Span(ref(c, items.Start), ref(c, facts.Inspection))), cellStyle)
	}

	return s, facts, nil
}
