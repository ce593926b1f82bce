// Package quotation builds the cross-sheet bid quotation workbook.
//
// Every amount in the workbook is a formula: the sheets reference each
// other so that editing a unit price or a fee on the input sheets
// updates the internal quote, the tax rebate and the bid totals when
// the file is opened.
package quotation

import (
	"fmt"
	"slices"

	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/formula"
	"github.com/klytics/bidkit/internal/project"
)

// Sheet names, in the order they appear in the workbook.
const (
	SheetSuppliers = "全部厂家备用"
	SheetSelector  = "物资选择"
	SheetFees      = "费用输入"
	SheetInner     = "2.物资对内分项报价表"
	SheetTax       = "3.各项物资退抵税额表"
	SheetTech      = "4.技术服务费报价表"
	SheetTraining  = "5.来华培训费报价表"
	SheetSummary   = "1.投标报价总表"
	SheetOpening   = "3.开标一览表"
)

// DefaultPrefix starts the default workbook file name.
const DefaultPrefix = "投标报价表"

// Options are the values the workbook takes from configuration rather
// than from the project.
type Options struct {
	Bidder          string  `json:"bidder"`
	VATRate         float64 `json:"vat_rate"`         // percent
	ConsumptionRate float64 `json:"consumption_rate"` // percent
	TaxRate         float64 `json:"tax_rate"`         // fraction of the subtotal
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Bidder:          "中国海外经济合作有限公司",
		VATRate:         13,
		ConsumptionRate: 0,
		TaxRate:         0.0003,
	}
}

// Facts are the row positions other sheets depend on.
type Facts struct {
	Inner InnerFacts `json:"inner"`
	Tax   TaxFacts   `json:"tax"`
}

// Result describes a written workbook.
type Result struct {
	Path   string   `json:"path"`
	Sheets []string `json:"sheets"`
	Items  int      `json:"items"`
	Facts  Facts    `json:"facts"`
}

// Build assembles the quotation workbook for p. The returned workbook
// has been checked: every formula parses as a valid reference set and
// names only sheets that exist.
func Build(p *project.Project, opts Options) (*xlsx.Workbook, Facts, error) {
	inner, innerFacts, err := buildInner(p)
	if err != nil {
		return nil, Facts{}, err
	}
	tax, taxFacts, err := buildTax(p, opts, innerFacts)
	if err != nil {
		return nil, Facts{}, err
	}

	sheets := []*sheet{
		buildSuppliers(p),
		buildSelector(p),
		buildFees(p, opts),
		inner,
		tax,
		buildTech(p),
		buildTraining(p),
		buildSummary(p, innerFacts, taxFacts),
		buildOpening(p, opts),
	}
	if err := check(sheets); err != nil {
		return nil, Facts{}, err
	}

	wb := &xlsx.Workbook{FullCalcOnLoad: true}
	for _, s := range sheets {
		wb.Sheets = append(wb.Sheets, s.Sheet)
	}
	return wb, Facts{Inner: innerFacts, Tax: taxFacts}, nil
}

// check verifies the formulas of the built sheets.
func check(sheets []*sheet) error {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	for _, s := range sheets {
		for _, f := range s.formulas {
			if err := formula.Validate(f.Expr); err != nil {
				return NewConsistencyError(s.Name, "%s: %v", f.Ref, err)
			}
			for _, target := range formula.Sheets(f.Expr) {
				if !slices.Contains(names, target) {
					return NewConsistencyError(s.Name, "%s references missing sheet %q", f.Ref, target)
				}
			}
		}
	}
	return nil
}

// Generate builds the workbook and writes it to path.
func Generate(p *project.Project, opts Options, path string) (*Result, error) {
	wb, facts, err := Build(p, opts)
	if err != nil {
		return nil, err
	}
	if err := xlsx.WriteFile(wb, path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	return &Result{
		Path:   path,
		Sheets: wb.SheetNames(),
		Items:  p.ItemCount(),
		Facts:  facts,
	}, nil
}

// FileName is the default workbook name, "<prefix>-<project>.xlsx".
func FileName(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + project.SafeName(name) + ".xlsx"
}
