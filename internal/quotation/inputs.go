package quotation

import (
	"strings"

	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

var supplierHeaders = []string{
	"序号", "品名", "HS编码", "数量", "单位", "规格", "检验标准", "品牌", "型号",
	"单价", "总价", "生产厂商", "供货商", "偏离情况", "强制性认证取证情况",
	"生产供货地", "交货期", "质量体系", "有效期", "环境体系", "有效期",
	"职业健康", "有效期", "节能", "有效期", "环境标志", "有效期", "备注", "",
	"排名", "性价比", "得分", "性能", "质量保证", "三体系", "售后",
}

var supplierWidths = []float64{
	7.6, 13.1, 12.2, 10.6, 9.8, 42, 12.2, 10, 14.1, 13.1, 16.2, 8.2, 7.7,
	9.6, 12.8, 12.1, 8.1, 11.2, 10, 13, 13, 13, 13, 13, 13, 13, 13, 6, 13,
	15.3, 13, 15.6, 14.2, 13.6, 16.7, 13.5,
}

// specRowHeight grows with the number of lines in the specification,
// within 24..120 points.
func specRowHeight(spec string) float64 {
	h := float64(strings.Count(spec, "\n")+1) * 16
	return min(120, max(24, h))
}

// buildSuppliers lists every goods line with blank supplier columns to
// be filled in by hand. Row 1 is the header; goods start on row 2.
func buildSuppliers(p *project.Project) *sheet {
	s := newSheet(SheetSuppliers)
	for i, w := range supplierWidths {
		s.SetColWidth(col(i+1), w)
	}
	s.headers(1, supplierHeaders)
	last := col(len(supplierHeaders))

	for i, item := range p.Items() {
		row := i + 2
		s.styleRow(row, "A", last, cellStyle)
		s.value("A", row, item.Serial, cellStyle)
		s.value("B", row, item.Name, cellStyle)
		s.value("C", row, item.HSCode, cellStyle)
		s.value("D", row, item.Quantity, cellStyle)
		s.value("E", row, item.Unit, cellStyle)
		s.value("F", row, item.Spec, leftCell)
		s.value("G", row, item.Standard, cellStyle)
		s.value("J", row, 0, inputCell)
		s.formula("K", row, formula.Mul(ref("D", row), ref("J", row)), cellStyle)
		s.value("N", row, "无", cellStyle)
		s.value("O", row, "无", cellStyle)
		s.value("P", row, p.Destination, cellStyle)
		s.value("Q", row, p.TransportTime, cellStyle)
		s.value("AD", row, 1, cellStyle)
		s.SetRowHeight(row, specRowHeight(item.Spec))
	}
	return s
}

// buildSelector maps each goods line to its row in the supplier master.
// Line i sits on row i; column C holds the master row (i+1).
func buildSelector(p *project.Project) *sheet {
	s := newSheet(SheetSelector)
	s.widths([]string{"A", "B", "C"}, []float64{8, 28, 10})
	for i, item := range p.Items() {
		row := i + 1
		s.value("A", row, item.Serial, cellStyle)
		s.value("B", row, item.Name, cellStyle)
		s.value("C", row, row+1, inputCell)
	}
	return s
}

// Rows of the fee input sheet.
const (
	feeInspection  = 2
	feeInsurance   = 3
	feeFreight     = 4
	feeSecurity    = 5
	feeTaxRate     = 6
	feeTotalValue  = 7
	feeMonths      = 8
	feeAnnualRate  = 9
	feeFundingCost = 10
)

func buildFees(p *project.Project, opts Options) *sheet {
	s := newSheet(SheetFees)
	s.widths([]string{"A", "B"}, []float64{24, 18})
	s.headers(1, []string{"项目", "金额"})

	total := p.TotalValue.InexactFloat64()
	rows := []struct {
		row   int
		label string
		value any
	}{
		{feeInspection, "物资检验费", 0},
		{feeInsurance, "运输保险费", 0},
		{feeFreight, "国外运费", 0},
		{feeSecurity, "安防费", 0},
		{feeTaxRate, "税金费率", opts.TaxRate},
		{feeTotalValue, "对外金额", total},
		{feeMonths, "资金占用时间(月)", 0},
		{feeAnnualRate, "年化利率", 0},
	}
	for _, r := range rows {
		s.value("A", r.row, r.label, cellStyle)
		s.value("B", r.row, r.value, inputCell)
	}

	s.value("A", feeFundingCost, "资金占用费", cellStyle)
	cost := formula.Round(formula.Mul(
		formula.Div(formula.Mul(ref("B", feeTotalValue), ref("B", feeMonths)), formula.Number(12)),
		ref("B", feeAnnualRate),
	), 2)
	s.formula("B", feeFundingCost, cost, cellStyle)
	return s
}

// fee references a value on the fee input sheet.
func fee(row int) formula.Ref {
	return formula.Cell("B", row).On(SheetFees)
}
