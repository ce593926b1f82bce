// Package content builds the table-of-contents workbook that is printed
// in front of the bid documents.
package content

import (
	"fmt"

	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/project"
)

// Sheet names.
const (
	SheetContents = "总"
	SheetReview   = "资格后审"
)

// DefaultPrefix starts the default workbook file name.
const DefaultPrefix = "content"

// Kind is how a contents row is presented.
type Kind int

const (
	KindSection Kind = iota // part heading, merged across A:B
	KindEntry               // numbered entry
	KindSub                 // goods line under 物资选型文件
	KindPlain               // unnumbered or bracket-numbered entry
)

// Row is one line of the contents sheet.
type Row struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

var numerals = []string{
	"一", "二", "三", "四", "五", "六", "七", "八", "九", "十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
}

// Numeral is the Chinese numeral for n (1-based), or the decimal form
// beyond twenty.
func Numeral(n int) string {
	if n >= 1 && n <= len(numerals) {
		return numerals[n-1]
	}
	return fmt.Sprint(n)
}

func section(text string) Row { return Row{Kind: KindSection, Text: text} }

func entries(texts ...string) []Row {
	rows := make([]Row, len(texts))
	for i, t := range texts {
		rows[i] = Row{Kind: KindEntry, Label: Numeral(i + 1), Text: t}
	}
	return rows
}

// Rows lists the contents of the bid for p, part by part.
func Rows(p *project.Project) []Row {
	var rows []Row

	rows = append(rows, section("投标函部分"))
	rows = append(rows, entries(
		"投标函",
		"授权委托书",
		"开标一览表",
		"采购和实施守法廉洁承诺书",
		"项目经理授权和承诺书",
		"企业内控承诺书",
		"未使用投标咨询/投标代理声明函",
		"发挥党组织、纪检组织作用引领保障做好项目实施工作承诺",
	)...)

	rows = append(rows, section("技术标部分"))
	rows = append(rows, entries("合同条款偏离表", "采购需求偏离表", "物资选型文件")...)
	for _, item := range p.Items() {
		rows = append(rows, Row{Kind: KindSub, Label: fmt.Sprint(item.Key), Text: item.Name})
	}

	tech := []string{
		"质量保证声明",
		"包装方案",
		"运输计划",
		"自检验收方案",
		"第三方检验方案",
		"对外实施工作主体责任落实承诺书",
	}
	if p.TechService {
		tech = append(tech, "技术服务承诺")
	}
	if p.AfterSales {
		tech = append(tech, "售后服务承诺")
	}
	if p.Training {
		tech = append(tech, "来华培训和接待承诺")
	}
	tech = append(tech, "舆情应对方案", "风险防范化解方案", "主要标的三体系一览表")
	for i, text := range tech {
		rows = append(rows, Row{Kind: KindEntry, Label: Numeral(4 + i), Text: text})
	}

	rows = append(rows,
		section("经济标部分"),
		Row{Kind: KindEntry, Label: "一", Text: "投标报价总表"},
		Row{Kind: KindEntry, Label: "二", Text: "物资对内分项报价表"},
		Row{Kind: KindEntry, Label: "三", Text: "增值税和消费税退抵税额表"},
		Row{Kind: KindPlain, Text: "增值税、消费税不退不抵承诺书"},
		Row{Kind: KindEntry, Label: "四", Text: "技术服务费报价表"},
	)

	rows = append(rows,
		section("商务标部分"),
		Row{Kind: KindEntry, Label: "一", Text: "主要标的的同类物资出口业绩一览表"},
		Row{Kind: KindEntry, Label: "二", Text: "物资选用节能环保产品"},
		Row{Kind: KindPlain, Label: "（一）", Text: "物资节能产品一览表"},
		Row{Kind: KindPlain, Label: "（二）", Text: "物资环境标志产品一览表"},
		Row{Kind: KindEntry, Label: "三", Text: "取得质量管理体系认证等声明"},
	)
	return rows
}

var (
	titleStyle   = xlsx.Style{Font: "宋体", Size: 24, Bold: true, Horizontal: "center", Vertical: "center", Wrap: true}
	headerStyle  = xlsx.Style{Font: "仿宋_GB2312", Size: 14, Bold: true, Horizontal: "center", Vertical: "center", Wrap: true, Border: true}
	centerStyle  = xlsx.Style{Font: "仿宋_GB2312", Size: 14, Horizontal: "center", Vertical: "center", Wrap: true, Border: true}
	textStyle    = xlsx.Style{Font: "仿宋_GB2312", Size: 14, Vertical: "center", Wrap: true, Border: true}
	indentStyle  = xlsx.Style{Font: "仿宋_GB2312", Size: 14, Horizontal: "left", Vertical: "center", Wrap: true, Indent: 1, Border: true}
	subLabel     = xlsx.Style{Font: "仿宋_GB2312", Size: 12, Horizontal: "right", Vertical: "center", Wrap: true, Border: true}
	subText      = xlsx.Style{Font: "仿宋_GB2312", Size: 12, Vertical: "center", Wrap: true, Border: true}
	subIndented  = xlsx.Style{Font: "仿宋_GB2312", Size: 12, Horizontal: "left", Vertical: "center", Wrap: true, Indent: 1, Border: true}
	contentsPage = xlsx.Margins{Left: 0.75, Right: 0.75, Top: 1, Bottom: 1, Header: 0.5, Footer: 0.5}
	reviewPage   = xlsx.Margins{Left: 0.75, Right: 0.75, Top: 0.5, Bottom: 0.5, Header: 0.1, Footer: 0.1}
)

func heading(s *xlsx.Sheet, height float64) {
	s.Set("A1", "目  录")
	s.SetStyle("A1", titleStyle)
	s.Merge("A1", "C1")
	s.SetRowHeight(1, height)
	for i, h := range []string{"序号", "内容", "页码"} {
		ref := xlsx.CellRef(string(rune('A'+i)), 2)
		s.Set(ref, h)
		s.SetStyle(ref, headerStyle)
	}
}

func buildContents(p *project.Project) *xlsx.Sheet {
	s := xlsx.NewSheet(SheetContents)
	s.SetColWidth("A", 13.125)
	s.SetColWidth("B", 58.125)
	s.SetColWidth("C", 18.25)
	heading(s, 31.5)
	s.SetRowHeight(2, 18.75)

	row := 3
	for _, r := range Rows(p) {
		a, b, c := xlsx.CellRef("A", row), xlsx.CellRef("B", row), xlsx.CellRef("C", row)
		s.SetRowHeight(row, 18.75)
		switch r.Kind {
		case KindSection:
			s.Set(a, r.Text)
			s.SetStyle(a, headerStyle)
			s.SetStyle(b, headerStyle)
			s.Merge(a, b)
		case KindEntry:
			s.Set(a, r.Label)
			s.SetStyle(a, centerStyle)
			s.Set(b, r.Text)
			s.SetStyle(b, textStyle)
		case KindSub:
			s.Set(a, r.Label)
			s.SetStyle(a, subLabel)
			s.Set(b, r.Text)
			s.SetStyle(b, subText)
			s.SetRowHeight(row, 20.1)
		case KindPlain:
			s.Set(a, r.Label)
			s.SetStyle(a, centerStyle)
			s.Set(b, r.Text)
			if r.Label == "" {
				s.SetStyle(b, subIndented)
			} else {
				s.SetStyle(b, indentStyle)
			}
		}
		s.SetStyle(c, centerStyle)
		row++
	}

	s.Page = &xlsx.PageSetup{
		Orientation: "portrait",
		PaperSize:   xlsx.PaperA4,
		Margins:     contentsPage,
		PrintArea:   fmt.Sprintf("A1:C%d", row-1),
	}
	return s
}

type reviewRow struct {
	no       any
	text     string
	page     int
	fontSize float64
}

var reviewRows = []reviewRow{
	{1, "满足《中华人民共和国政府采购法》第二十二条规定及法律法规的其他规定", 1, 14},
	{nil, "1-1 投标人资格声明书", 1, 12},
	{nil, "1-2 投标人营业执照", 2, 12},
	{2, "具备援外物资项目实施企业资格", 3, 14},
	{3, "投标保证金银行保函", 5, 14},
}

func buildReview() *xlsx.Sheet {
	s := xlsx.NewSheet(SheetReview)
	s.SetColWidth("A", 10)
	s.SetColWidth("B", 60)
	s.SetColWidth("C", 10)
	heading(s, 50.1)
	s.SetRowHeight(2, 45)

	row := 3
	for _, r := range reviewRows {
		a, b, c := xlsx.CellRef("A", row), xlsx.CellRef("B", row), xlsx.CellRef("C", row)
		if r.no != nil {
			s.Set(a, r.no)
		}
		s.SetStyle(a, centerStyle)
		s.Set(b, r.text)
		if r.fontSize == 12 {
			s.SetStyle(b, subIndented)
		} else {
			s.SetStyle(b, textStyle)
		}
		s.Set(c, r.page)
		s.SetStyle(c, centerStyle)
		s.SetRowHeight(row, 45)
		row++
	}

	s.Page = &xlsx.PageSetup{
		Orientation: "portrait",
		PaperSize:   xlsx.PaperA4,
		Margins:     reviewPage,
		PrintArea:   fmt.Sprintf("A1:C%d", row-1),
	}
	return s
}

// Build assembles the contents workbook for p.
func Build(p *project.Project) *xlsx.Workbook {
	return &xlsx.Workbook{Sheets: []*xlsx.Sheet{buildContents(p), buildReview()}}
}

// Generate builds the contents workbook and writes it to path.
func Generate(p *project.Project, path string) error {
	return xlsx.WriteFile(Build(p), path)
}

// FileName is the default workbook name, "<prefix>-<project>.xlsx".
func FileName(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + project.SafeName(name) + ".xlsx"
}
