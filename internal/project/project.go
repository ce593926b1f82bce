// Package project holds the facts of one bid project and loads them
// from the project document (.docx) or an equivalent YAML/TOML file.
package project

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how project dates are printed on generated documents.
const DateLayout = "2006年1月2日"

// Commodity is one line of the goods list.
type Commodity struct {
	Key      int    `json:"key"`    // 1-based position in the goods table
	Serial   string `json:"serial"` // index label as written in the source
	Name     string `json:"name"`
	HSCode   string `json:"hs_code"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Spec     string `json:"spec"`
	Standard string `json:"standard"`
}

// Project is a read-only snapshot of the bid facts.
type Project struct {
	Name          string
	Code          string
	Date          time.Time
	Destination   string
	Transport     string
	TransportTime string
	TotalValue    decimal.Decimal

	LowPrice      bool
	SecondaryList bool
	TechService   bool
	AfterSales    bool
	Training      bool

	TechPeople     int
	TechDays       int
	TrainingPeople int
	TrainingDays   int

	Inspection []int // keys of goods under legal inspection
	MainItems  []int // keys of the main goods
	Demands    [][]string

	// Source is the file the project was loaded from, if any.
	Source string

	commodities map[int]Commodity
}

// Items returns the goods in ascending key order.
func (p *Project) Items() []Commodity {
	keys := make([]int, 0, len(p.commodities))
	for k := range p.commodities {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	items := make([]Commodity, len(keys))
	for i, k := range keys {
		items[i] = p.commodities[k]
	}
	return items
}

// Commodity looks up a goods line by key.
func (p *Project) Commodity(key int) (Commodity, bool) {
	c, ok := p.commodities[key]
	return c, ok
}

// ItemCount is the number of goods lines.
func (p *Project) ItemCount() int {
	return len(p.commodities)
}

// WithItems returns a copy of p whose goods list is items, keyed from 1
// in the given order.
func (p *Project) WithItems(items []Commodity) *Project {
	cp := *p
	cp.commodities = make(map[int]Commodity, len(items))
	for i, c := range items {
		c.Key = i + 1
		cp.commodities[c.Key] = c
	}
	cp.Inspection = nil
	cp.MainItems = nil
	return &cp
}

// DateText formats the project date for documents.
func (p *Project) DateText() string {
	return p.Date.Format(DateLayout)
}

// SafeName returns the project name with path-unsafe characters
// replaced, for use in file and directory names.
func (p *Project) SafeName() string {
	return SafeName(p.Name)
}

// SafeName replaces <>:"/\|?* with "_" and trims whitespace.
// An empty result becomes "project".
func SafeName(name string) string {
	safe := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	safe = strings.TrimSpace(safe)
	if safe == "" {
		return "project"
	}
	return safe
}
