package quotation

// Layout is the row range occupied by the goods lines of a sheet.
// Start is the first goods row; End is the last. With no goods End is
// Start-1 and the range is empty.
type Layout struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewLayout places itemCount goods rows directly below headerRows
// header rows.
func NewLayout(itemCount, headerRows int) (Layout, error) {
	if itemCount < 0 {
		return Layout{}, NewConsistencyError("", "negative goods count %d", itemCount)
	}
	if headerRows < 0 {
		return Layout{}, NewConsistencyError("", "negative header row count %d", headerRows)
	}
	start := headerRows + 1
	return Layout{Start: start, End: start + itemCount - 1}, nil
}

// Count is the number of goods rows.
func (l Layout) Count() int {
	return l.End - l.Start + 1
}

// Empty reports whether there are no goods rows.
func (l Layout) Empty() bool {
	return l.End < l.Start
}

// Row is the sheet row of the i-th goods line, counting from 1.
func (l Layout) Row(i int) int {
	return l.Start + i - 1
}

// Trailing is the k-th row after the last goods row.
func (l Layout) Trailing(k int) int {
	return l.End + k
}

// InnerFacts locates the rows of the internal itemized quote that
// other sheets reference.
type InnerFacts struct {
	Items   Layout `json:"items"`
	Total   int    `json:"total_row"`
	Summary int    `json:"summary_row"` // apportionment bases
}

const innerHeaderRows = 3

func innerLayout(itemCount int) (InnerFacts, error) {
	items, err := NewLayout(itemCount, innerHeaderRows)
	if err != nil {
		return InnerFacts{}, err
	}
	f := InnerFacts{Items: items, Total: items.Trailing(1)}
	f.Summary = f.Total + 2
	return f, nil
}

// TaxFacts locates the rows of the tax rebate sheet.
type TaxFacts struct {
	Items      Layout `json:"items"`
	Transport  int    `json:"transport_row"`
	Insurance  int    `json:"insurance_row"`
	Inspection int    `json:"inspection_row"`
	Total      int    `json:"total_row"`
}

const taxHeaderRows = 3

func taxLayout(itemCount int) (TaxFacts, error) {
	items, err := NewLayout(itemCount, taxHeaderRows)
	if err != nil {
		return TaxFacts{}, err
	}
	return TaxFacts{
		Items:      items,
		Transport:  items.Trailing(1),
		Insurance:  items.Trailing(2),
		Inspection: items.Trailing(3),
		// one blank row separates the grand total from the fee rows
		Total: items.Trailing(5),
	}, nil
}

// Fixed rows of the technical-service and training sheets.
const (
	serviceFirstRow = 3
	serviceLastRow  = 13
	serviceTotalRow = 14
)
