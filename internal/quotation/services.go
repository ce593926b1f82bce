package quotation

import (
	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

var techItems = []string{
	"护照和签证手续费",
	"防疫免疫费",
	"技术服务人员保险费",
	"国内交通费",
	"国际交通费",
	"住宿费",
	"伙食费",
	"津贴补贴",
	"当地雇工费",
	"当地设备工具材料购置或租用费",
	"其它确需发生的费用",
}

// Rows of the technical-service sheet whose cost scales with days.
func perDay(row int) bool {
	return row >= 8 && row <= 10
}

// times is the multiplier of a service line: the day count, or 1 when
// the day column holds "-".
func times(row int) formula.Expr {
	return formula.If(formula.Eq(ref("F", row), formula.Text("-")), formula.Number(1), ref("F", row))
}

// buildTech lays out the eleven technical-service cost lines. Headcount
// and days stay 0 unless the project includes technical service.
func buildTech(p *project.Project) *sheet {
	s := newSheet(SheetTech)
	s.widths(
		[]string{"A", "B", "C", "D", "E", "F", "G", "H"},
		[]float64{6, 22, 12, 12, 8, 10, 14, 14},
	)
	s.title("四.技术服务费报价表", "H")
	s.headers(2, []string{"序号", "费用名称", "美元单价", "人民币单价", "人数", "天/次数", "美元合计", "人民币合计"})

	people, days := 0, 0
	if p.TechService {
		people, days = p.TechPeople, p.TechDays
	}

	for i, name := range techItems {
		row := serviceFirstRow + i
		s.styleRow(row, "A", "H", cellStyle)
		s.value("A", row, i+1, cellStyle)
		s.value("B", row, name, leftCell)
		s.value("D", row, 0, inputCell)
		s.value("E", row, people, cellStyle)
		if perDay(row) {
			s.value("F", row, days, cellStyle)
		} else {
			s.value("F", row, "-", cellStyle)
		}
		s.formula("G", row, formula.Mul(ref("C", row), ref("E", row), times(row)), cellStyle)
		s.formula("H", row, formula.Mul(ref("D", row), ref("E", row), times(row)), cellStyle)
	}

	s.styleRow(serviceTotalRow, "A", "F", boldCell)
	s.value("A", serviceTotalRow, "共计：", boldCell)
	s.Merge(xlsx.CellRef("A", serviceTotalRow), xlsx.CellRef("F", serviceTotalRow))
	for _, c := range []string{"G", "H"} {
		s.formula(c, serviceTotalRow, formula.Sum(formula.Span(ref(c, serviceFirstRow), ref(c, serviceLastRow))), cellStyle)
	}
	return s
}

// trainingLine is one cost line of the training sheet. A nil price
// marks the management fee, computed from the lines above it.
type trainingLine struct {
	code, name, standard string
	price                *int
	people               int
	days                 any // int, or "-" for per-person costs
}

const managementFeeRate = 0.06

func price(n int) *int { return &n }

func trainingLines(p *project.Project) []trainingLine {
	num, days := 0, 0
	if p.Training {
		num, days = p.TrainingPeople, p.TrainingDays
	}
	once, staff, staffDays := 0, 0, 0
	if num > 0 {
		once, staff, staffDays = 1, 2, days
	}
	return []trainingLine{
		{"一", "培训费", "360元/人*天", price(360), num, days},
		{"二-1", "日常伙食费", "190元/人*天", price(190), num, days},
		{"二-2", "住宿费", "350元/人*天", price(350), num, max(days-1, 0)},
		{"二-3", "宴请费", "200元/人*次", price(200), num, once},
		{"二-4", "零用费", "150元/人*天", price(150), num, days},
		{"二-5", "小礼品费", "200元/人", price(200), num, once},
		{"二-6", "人身意外伤害保险", "150元/人", price(150), num, "-"},
		{"三", "国际旅费", "5000元/人", price(5000), num, "-"},
		{"四-1", "承办管理费", "6%", nil, 0, nil},
		{"四-2", "管理人员伙食费", "190元/人*天", price(190), staff, staffDays},
		{"四-3", "管理人员住宿费", "350元/人*天", price(350), staff, staffDays},
	}
}

// buildTraining lays out the in-country training costs. All headcounts
// and days are 0 unless the project includes training.
func buildTraining(p *project.Project) *sheet {
	s := newSheet(SheetTraining)
	s.widths(
		[]string{"A", "B", "C", "D", "E", "F", "G"},
		[]float64{6, 20, 12, 14, 8, 10, 16},
	)
	s.title("五.来华培训费报价表", "G")
	s.headers(2, []string{"序号", "费用名称", "标准", "费用计算方式", "人数", "天(次)数", "人民币(元)"})

	for i, line := range trainingLines(p) {
		row := serviceFirstRow + i
		s.styleRow(row, "A", "G", cellStyle)
		s.value("A", row, line.code, cellStyle)
		s.value("B", row, line.name, leftCell)
		s.value("C", row, line.standard, cellStyle)
		if line.price == nil {
			// the management fee covers the eight lines before it
			base := formula.Sum(formula.Span(ref("G", serviceFirstRow), ref("G", row-1)))
			s.formula("G", row, formula.Round(formula.Mul(formula.Group{X: base}, formula.Number(managementFeeRate)), 2), cellStyle)
			continue
		}
		s.value("D", row, *line.price, cellStyle)
		s.value("E", row, line.people, cellStyle)
		s.value("F", row, line.days, cellStyle)
		if line.days == "-" {
			s.formula("G", row, formula.Mul(ref("D", row), ref("E", row)), cellStyle)
		} else {
			s.formula("G", row, formula.Mul(ref("D", row), ref("E", row), ref("F", row)), cellStyle)
		}
	}

	s.styleRow(serviceTotalRow, "A", "G", boldCell)
	s.value("A", serviceTotalRow, "五", boldCell)
	s.value("B", serviceTotalRow, "合计", boldCell)
	s.formula("G", serviceTotalRow, formula.Sum(formula.Span(ref("G", serviceFirstRow), ref("G", serviceLastRow))), cellStyle)
	return s
}
