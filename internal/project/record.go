package project

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Record is the textual form of a project as it appears in a source
// document or a YAML/TOML project file. FromRecord validates it.
type Record struct {
	Name          string `yaml:"name" toml:"name" json:"name"`
	Code          string `yaml:"code" toml:"code" json:"code"`
	Date          string `yaml:"date" toml:"date" json:"date"`
	Destination   string `yaml:"destination" toml:"destination" json:"destination"`
	Transport     string `yaml:"transport" toml:"transport" json:"transport"`
	TransportTime string `yaml:"transport_time" toml:"transport_time" json:"transport_time"`
	TotalValue    string `yaml:"total_value" toml:"total_value" json:"total_value"`

	LowPrice      string `yaml:"low_price" toml:"low_price" json:"low_price"`
	SecondaryList string `yaml:"secondary_list" toml:"secondary_list" json:"secondary_list"`
	TechService   string `yaml:"tech_service" toml:"tech_service" json:"tech_service"`
	TechPeople    string `yaml:"tech_people,omitempty" toml:"tech_people,omitempty" json:"tech_people,omitempty"`
	TechDays      string `yaml:"tech_days,omitempty" toml:"tech_days,omitempty" json:"tech_days,omitempty"`
	AfterSales    string `yaml:"after_sales" toml:"after_sales" json:"after_sales"`
	Training      string `yaml:"training" toml:"training" json:"training"`

	TrainingPeople string `yaml:"training_people,omitempty" toml:"training_people,omitempty" json:"training_people,omitempty"`
	TrainingDays   string `yaml:"training_days,omitempty" toml:"training_days,omitempty" json:"training_days,omitempty"`
	Inspection     string `yaml:"inspection,omitempty" toml:"inspection,omitempty" json:"inspection,omitempty"`
	MainItems      string `yaml:"main_items,omitempty" toml:"main_items,omitempty" json:"main_items,omitempty"`

	Commodities []CommodityRecord `yaml:"commodities" toml:"commodities" json:"commodities"`
	Demands     [][]string        `yaml:"demands,omitempty" toml:"demands,omitempty" json:"demands,omitempty"`
}

// CommodityRecord is one goods row in textual form.
type CommodityRecord struct {
	Serial   string `yaml:"serial" toml:"serial" json:"serial"`
	Name     string `yaml:"name" toml:"name" json:"name"`
	HSCode   string `yaml:"hs_code" toml:"hs_code" json:"hs_code"`
	Quantity string `yaml:"quantity" toml:"quantity" json:"quantity"`
	Unit     string `yaml:"unit" toml:"unit" json:"unit"`
	Spec     string `yaml:"spec" toml:"spec" json:"spec"`
	Standard string `yaml:"standard" toml:"standard" json:"standard"`
}

func (c CommodityRecord) empty() bool {
	return cleanCell(c.Serial+c.Name+c.HSCode+c.Quantity+c.Unit+c.Spec+c.Standard) == ""
}

// FromRecord validates a record and builds the project. Every problem
// found is reported; the returned error is a *multierror.Error whose
// entries are *MalformedInputError.
func FromRecord(r *Record) (*Project, error) {
	var errs *multierror.Error
	fail := func(field, value string, err error) {
		errs = multierror.Append(errs, NewMalformedInputError(field, value, err))
	}
	required := func(field, value string) string {
		v := cleanCell(value)
		if v == "" {
			fail(field, value, ErrMissing)
		}
		return v
	}
	flag := func(field, value string) bool {
		b, err := parseFlag(value)
		if err != nil {
			fail(field, value, err)
		}
		return b
	}
	count := func(field, value string) int {
		if cleanCell(value) == "" {
			fail(field, value, ErrMissing)
			return 0
		}
		n, err := parseCount(value)
		if err != nil {
			fail(field, value, err)
		}
		return n
	}

	p := &Project{
		Name:          required("name", r.Name),
		Code:          required("code", r.Code),
		Destination:   required("destination", r.Destination),
		Transport:     required("transport", r.Transport),
		TransportTime: required("transport_time", r.TransportTime),
		LowPrice:      flag("low_price", r.LowPrice),
		SecondaryList: flag("secondary_list", r.SecondaryList),
		TechService:   flag("tech_service", r.TechService),
		AfterSales:    flag("after_sales", r.AfterSales),
		Training:      flag("training", r.Training),
		Demands:       r.Demands,
		commodities:   make(map[int]Commodity),
	}

	if v := required("date", r.Date); v != "" {
		d, err := parseDate(v)
		if err != nil {
			fail("date", v, err)
		}
		p.Date = d
	}
	if v := required("total_value", r.TotalValue); v != "" {
		amount, err := parseAmount(v)
		if err != nil {
			fail("total_value", v, err)
		}
		p.TotalValue = amount
	}

	if p.TechService {
		p.TechPeople = count("tech_people", r.TechPeople)
		p.TechDays = count("tech_days", r.TechDays)
	}
	if p.Training {
		p.TrainingPeople = count("training_people", r.TrainingPeople)
		p.TrainingDays = count("training_days", r.TrainingDays)
	}

	// keys stay the source table row so inspection and main_items keep
	// pointing at the rows they were written against
	for i, c := range r.Commodities {
		if c.empty() {
			continue
		}
		key := i + 1
		field := fmt.Sprintf("commodities[%d]", i+1)
		item := Commodity{
			Key:      key,
			Serial:   cleanCell(c.Serial),
			Name:     required(field+".name", c.Name),
			HSCode:   cleanCell(c.HSCode),
			Quantity: count(field+".quantity", c.Quantity),
			Unit:     cleanCell(c.Unit),
			Spec:     cleanCell(c.Spec),
			Standard: cleanCell(c.Standard),
		}
		if item.Serial == "" {
			item.Serial = strconv.Itoa(key)
		}
		p.commodities[key] = item
	}
	if len(p.commodities) == 0 {
		fail("commodities", "", fmt.Errorf("the goods table has no rows: %w", ErrMissing))
	}

	p.Inspection = indices("inspection", r.Inspection, p, fail)
	p.MainItems = indices("main_items", r.MainItems, p, fail)

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

func indices(field, value string, p *Project, fail func(field, value string, err error)) []int {
	keys, err := parseIndices(value)
	if err != nil {
		fail(field, value, err)
		return nil
	}
	for _, k := range keys {
		if _, ok := p.commodities[k]; !ok && len(p.commodities) > 0 {
			fail(field, value, fmt.Errorf("goods number %d does not exist", k))
			return nil
		}
	}
	return keys
}

// ToRecord returns the textual form of p, suitable for export.
func ToRecord(p *Project) *Record {
	r := &Record{
		Name:          p.Name,
		Code:          p.Code,
		Date:          p.Date.Format("2006-01-02"),
		Destination:   p.Destination,
		Transport:     p.Transport,
		TransportTime: p.TransportTime,
		TotalValue:    p.TotalValue.String(),
		LowPrice:      yesNo(p.LowPrice),
		SecondaryList: yesNo(p.SecondaryList),
		TechService:   yesNo(p.TechService),
		AfterSales:    yesNo(p.AfterSales),
		Training:      yesNo(p.Training),
		Inspection:    joinInts(p.Inspection),
		MainItems:     joinInts(p.MainItems),
		Demands:       p.Demands,
	}
	if p.TechService {
		r.TechPeople = strconv.Itoa(p.TechPeople)
		r.TechDays = strconv.Itoa(p.TechDays)
	}
	if p.Training {
		r.TrainingPeople = strconv.Itoa(p.TrainingPeople)
		r.TrainingDays = strconv.Itoa(p.TrainingDays)
	}
	for _, c := range p.Items() {
		// blank rows keep later keys at their table row
		for len(r.Commodities) < c.Key-1 {
			r.Commodities = append(r.Commodities, CommodityRecord{})
		}
		r.Commodities = append(r.Commodities, CommodityRecord{
			Serial:   c.Serial,
			Name:     c.Name,
			HSCode:   c.HSCode,
			Quantity: strconv.Itoa(c.Quantity),
			Unit:     c.Unit,
			Spec:     c.Spec,
			Standard: c.Standard,
		})
	}
	return r
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
