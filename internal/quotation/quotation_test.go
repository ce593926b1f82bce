package quotation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/project/projecttest"
)

func formulaAt(t *testing.T, wb *xlsx.Workbook, sheet, ref string) string {
	t.Helper()
	s, err := wb.GetSheet(sheet)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.Cell(ref)
	if !ok {
		t.Fatalf("%s!%s was not written", sheet, ref)
	}
	return c.Formula
}

func valueAt(t *testing.T, wb *xlsx.Workbook, sheet, ref string) any {
	t.Helper()
	s, err := wb.GetSheet(sheet)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.Cell(ref)
	if !ok {
		t.Fatalf("%s!%s was not written", sheet, ref)
	}
	return c.Value
}

// calc writes the workbook, opens it with excelize and lets set adjust
// inputs before cells are evaluated.
func calc(t *testing.T, wb *xlsx.Workbook) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := xlsx.Write(wb, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuildSampleProject(t *testing.T) {
	p := projecttest.Project(t)
	wb, facts, err := Build(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{
		SheetSuppliers, SheetSelector, SheetFees, SheetInner, SheetTax,
		SheetTech, SheetTraining, SheetSummary, SheetOpening,
	}
	if got := wb.SheetNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}
	if !wb.FullCalcOnLoad {
		t.Error("FullCalcOnLoad should be set")
	}
	if facts.Inner.Total != 6 {
		t.Errorf("inner total row = %d, want 6", facts.Inner.Total)
	}
	if facts.Inner.Summary != 8 {
		t.Errorf("inner summary row = %d, want 8", facts.Inner.Summary)
	}
	if facts.Tax.Total != 10 {
		t.Errorf("tax total row = %d, want 10", facts.Tax.Total)
	}

	tests := []struct {
		sheet, ref, want string
	}{
		{SheetTech, "G8", `C8*E8*IF(F8="-",1,F8)`},
		{SheetTech, "H8", `D8*E8*IF(F8="-",1,F8)`},
		{SheetTech, "H14", "SUM(H3:H13)"},
		{SheetSuppliers, "K2", "D2*J2"},
		{SheetInner, "B4", `物资选择!A1&"."&物资选择!B1`},
		{SheetInner, "C5", "INDEX(全部厂家备用!J:J,物资选择!C2)"},
		{SheetInner, "D5", "INDEX(全部厂家备用!D:D,物资选择!C2)"},
		{SheetInner, "E4", "C4*D4"},
		{SheetInner, "I4", "ROUND(E4/E$6*I$8,2)"},
		{SheetInner, "N5", "SUM(E5:M5)"},
		{SheetInner, "E6", "SUM(E4:E5)"},
		{SheetInner, "I8", "费用输入!B2"},
		{SheetInner, "L8", "'4.技术服务费报价表'!H14"},
		{SheetInner, "M8", "ROUND((SUM(E6:L6))*费用输入!B6,2)"},
		{SheetInner, "N8", "SUM(E6:M6)"},
		{SheetFees, "B10", "ROUND(B7*B8/12*B9,2)"},
		{SheetTax, "C4", "'2.物资对内分项报价表'!E4"},
		{SheetTax, "E4", "ROUND(C4/(1+D4/100)*D4/100,2)"},
		{SheetTax, "H5", "E5+G5"},
		{SheetTax, "C6", "'2.物资对内分项报价表'!K6"},
		{SheetTax, "C7", "'2.物资对内分项报价表'!J6"},
		{SheetTax, "C8", "'2.物资对内分项报价表'!I6"},
		{SheetTax, "H10", "SUM(H4:H8)"},
		{SheetTraining, "G11", "ROUND((SUM(G3:G10))*0.06,2)"},
		{SheetTraining, "G9", "D9*E9"},
		{SheetTraining, "G14", "SUM(G3:G13)"},
		{SheetSummary, "C4", "'2.物资对内分项报价表'!N6"},
		{SheetSummary, "C8", "'3.各项物资退抵税额表'!H10"},
		{SheetSummary, "C9", "SUM(C4:C7)-C8"},
		{SheetOpening, "B4", "'1.投标报价总表'!C9"},
	}
	for _, tt := range tests {
		if got := formulaAt(t, wb, tt.sheet, tt.ref); got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.ref, got, tt.want)
		}
	}

	if got := valueAt(t, wb, SheetTech, "E8"); got != 2 {
		t.Errorf("tech E8 = %v, want 2", got)
	}
	if got := valueAt(t, wb, SheetTech, "F8"); got != 5 {
		t.Errorf("tech F8 = %v, want 5", got)
	}
	if got := valueAt(t, wb, SheetTech, "F7"); got != "-" {
		t.Errorf("tech F7 = %v, want -", got)
	}
	if got := valueAt(t, wb, SheetSummary, "D4"); got != "CIF吉布提价" {
		t.Errorf("summary note = %v", got)
	}
	if got := valueAt(t, wb, SheetOpening, "A4"); got != "中国海外经济合作有限公司" {
		t.Errorf("bidder = %v", got)
	}
	if got := valueAt(t, wb, SheetSelector, "C2"); got != 3 {
		t.Errorf("selector C2 = %v, want 3", got)
	}
}

func TestTechTotalsEvaluate(t *testing.T) {
	wb := &xlsx.Workbook{Sheets: []*xlsx.Sheet{buildTech(projecttest.Project(t)).Sheet}}
	f := calc(t, wb)

	for _, ref := range []string{"D3", "D8"} {
		if err := f.SetCellValue(SheetTech, ref, 100); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		ref, want string
	}{
		{"H3", "200"},  // per person
		{"H8", "1000"}, // per person and day
	}
	for _, tt := range tests {
		got, err := f.CalcCellValue(SheetTech, tt.ref)
		if err != nil {
			t.Fatalf("CalcCellValue(%s): %v", tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestFeesCarryTotalValue(t *testing.T) {
	p := projecttest.Project(t)
	s := buildFees(p, DefaultOptions())
	if got := valueAt(t, &xlsx.Workbook{Sheets: []*xlsx.Sheet{s.Sheet}}, SheetFees, "B7"); got != 1130000.0 {
		t.Errorf("对外金额 = %v (%T), want 1130000", got, got)
	}

	f := calc(t, &xlsx.Workbook{Sheets: []*xlsx.Sheet{s.Sheet}})
	for ref, v := range map[string]any{"B8": 6, "B9": 0.05} {
		if err := f.SetCellValue(SheetFees, ref, v); err != nil {
			t.Fatal(err)
		}
	}
	got, err := f.CalcCellValue(SheetFees, "B10")
	if err != nil {
		t.Fatalf("CalcCellValue(B10): %v", err)
	}
	if got != "28250" {
		t.Errorf("funding cost = %q, want 28250", got)
	}
}

func TestRebateFormula(t *testing.T) {
	e := rebate("C", "D", 2)
	if got := formula.Render(e); got != "ROUND(C2/(1+D2/100)*D2/100,2)" {
		t.Fatalf("rebate = %q", got)
	}

	s := xlsx.NewSheet("Sheet1")
	s.Set("C2", 1130.00)
	s.Set("D2", 13)
	s.SetFormula("E2", formula.Render(e))
	f := calc(t, &xlsx.Workbook{Sheets: []*xlsx.Sheet{s}})

	got, err := f.CalcCellValue("Sheet1", "E2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "130" {
		t.Errorf("rebate of 1130 at 13%% = %q, want 130", got)
	}
}

func TestLayoutGrowsWithItems(t *testing.T) {
	prevInner, prevTax := 0, 0
	for n := 0; n <= 6; n++ {
		inner, err := innerLayout(n)
		if err != nil {
			t.Fatal(err)
		}
		tax, err := taxLayout(n)
		if err != nil {
			t.Fatal(err)
		}
		if inner.Total != 4+n {
			t.Errorf("n=%d: inner total = %d, want %d", n, inner.Total, 4+n)
		}
		if tax.Total != 4+n+4 {
			t.Errorf("n=%d: tax total = %d, want %d", n, tax.Total, 4+n+4)
		}
		if inner.Total <= prevInner || tax.Total <= prevTax {
			t.Errorf("n=%d: totals did not grow", n)
		}
		prevInner, prevTax = inner.Total, tax.Total
	}
}

func TestNewLayoutRejectsNegative(t *testing.T) {
	var ce *ConsistencyError
	if _, err := NewLayout(-1, 3); !errors.As(err, &ce) {
		t.Errorf("negative count: got %v, want ConsistencyError", err)
	}
	if _, err := NewLayout(2, -1); !errors.As(err, &ce) {
		t.Errorf("negative header rows: got %v, want ConsistencyError", err)
	}
	l, err := NewLayout(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Empty() || l.Count() != 0 || l.Trailing(1) != 4 {
		t.Errorf("empty layout = %+v", l)
	}
}

func TestBuildWithoutItems(t *testing.T) {
	wb, facts, err := Build(projecttest.Empty(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if facts.Inner.Total != 4 || facts.Tax.Total != 8 {
		t.Errorf("facts = %+v", facts)
	}
	if got := formulaAt(t, wb, SheetInner, "E4"); got != "0" {
		t.Errorf("empty goods subtotal = %q, want 0", got)
	}
	if got := formulaAt(t, wb, SheetTax, "C8"); got != "SUM(C4:C6)" {
		t.Errorf("tax grand total = %q", got)
	}

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	res, err := Generate(projecttest.Empty(t), DefaultOptions(), path)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	read, err := xlsx.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(read.Sheets) != 9 || res.Items != 0 {
		t.Errorf("got %d sheets, %d items", len(read.Sheets), res.Items)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	p := projecttest.Project(t, projecttest.WithItems(5))
	first, _, err := Build(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Build(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Sheets {
		a, b := first.Sheets[i], second.Sheets[i]
		if !reflect.DeepEqual(a.Cells(), b.Cells()) {
			t.Errorf("sheet %s differs between builds", a.Name)
		}
		if !reflect.DeepEqual(a.Merges, b.Merges) {
			t.Errorf("sheet %s merges differ between builds", a.Name)
		}
	}
}

func TestTechZeroWithoutService(t *testing.T) {
	p := projecttest.Project(t, func(r *project.Record) {
		r.TechService = "n"
	})
	s := buildTech(p)
	for row := serviceFirstRow; row <= serviceLastRow; row++ {
		if got := s.Text(xlsx.CellRef("E", row)); got != "0" {
			t.Errorf("E%d = %q, want 0", row, got)
		}
		if perDay(row) {
			if got := s.Text(xlsx.CellRef("F", row)); got != "0" {
				t.Errorf("F%d = %q, want 0", row, got)
			}
		}
	}
}

func TestTrainingFollowsFlag(t *testing.T) {
	p := projecttest.Project(t, func(r *project.Record) {
		r.Training = "y"
		r.TrainingPeople = "10"
		r.TrainingDays = "7"
	})
	s := buildTraining(p)
	tests := []struct {
		ref, want string
	}{
		{"E3", "10"},
		{"F3", "7"},
		{"F5", "6"}, // lodging excludes the last day
		{"F6", "1"},
		{"F9", "-"},
		{"E12", "2"},
		{"F12", "7"},
	}
	for _, tt := range tests {
		if got := s.Text(tt.ref); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.ref, got, tt.want)
		}
	}

	off := buildTraining(projecttest.Project(t))
	for _, ref := range []string{"E3", "F3", "F6", "E12"} {
		if got := off.Text(ref); got != "0" {
			t.Errorf("without training %s = %q, want 0", ref, got)
		}
	}
}

func TestCheckMissingSheet(t *testing.T) {
	s := newSheet("A")
	s.formula("A", 1, formula.Cell("B", 1).On("不存在"), cellStyle)

	err := check([]*sheet{s})
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
	if ce.Sheet != "A" || !strings.Contains(ce.Detail, "不存在") {
		t.Errorf("error = %+v", ce)
	}
}

func TestCheckInvalidReference(t *testing.T) {
	s := newSheet("A")
	s.formula("A", 1, formula.Sum(formula.Span(ref("B", 5), ref("B", 2))), cellStyle)
	var ce *ConsistencyError
	if err := check([]*sheet{s}); !errors.As(err, &ce) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestGenerateFilesystemError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "out.xlsx")
	_, err := Generate(projecttest.Project(t), DefaultOptions(), path)
	if !errors.Is(err, ErrFilesystem) {
		t.Errorf("got %v, want ErrFilesystem", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "测试项目", "投标报价表-测试项目.xlsx"},
		{"报价", "a/b:c", "报价-a_b_c.xlsx"},
		{"", "  ", "投标报价表-project.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.prefix, tt.name); got != tt.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}
