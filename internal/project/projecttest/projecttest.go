// Package projecttest provides sample projects for tests.
package projecttest

import (
	"strconv"
	"testing"

	"github.com/klytics/bidkit/internal/project"
)

// Record returns the textual form of a small project: two goods,
// technical service for 2 people over 5 days, no training.
func Record() *project.Record {
	return &project.Record{
		Name:          "测试项目",
		Code:          "ZB-2024-001",
		Date:          "2024年3月15日",
		Destination:   "吉布提",
		Transport:     "CIF",
		TransportTime: "合同签订后90日内",
		TotalValue:    "1,130,000.00",
		LowPrice:      "n",
		SecondaryList: "n",
		TechService:   "y",
		TechPeople:    "2",
		TechDays:      "5",
		AfterSales:    "y",
		Training:      "n",
		Inspection:    "1",
		MainItems:     "1 2",
		Commodities: []project.CommodityRecord{
			{Serial: "1", Name: "柴油发电机组", HSCode: "8502131000", Quantity: "2台", Unit: "台", Spec: "功率：500kW\n电压：400V", Standard: "GB/T 2820"},
			{Serial: "2", Name: "配电柜", HSCode: "8537101190", Quantity: "4", Unit: "套", Spec: "低压", Standard: "GB 7251"},
		},
	}
}

// Project builds a validated project from Record after applying mutate.
func Project(tb testing.TB, mutate ...func(*project.Record)) *project.Project {
	tb.Helper()
	rec := Record()
	for _, m := range mutate {
		m(rec)
	}
	p, err := project.FromRecord(rec)
	if err != nil {
		tb.Fatalf("sample project is invalid: %v", err)
	}
	return p
}

// Empty returns the sample project with no goods at all, a state the
// loaders reject but the workbook builders must still handle.
func Empty(tb testing.TB) *project.Project {
	tb.Helper()
	return Project(tb).WithItems(nil)
}

// WithItems replaces the goods list with n generated rows.
func WithItems(n int) func(*project.Record) {
	return func(r *project.Record) {
		r.Commodities = nil
		r.Inspection = ""
		r.MainItems = ""
		for i := 1; i <= n; i++ {
			r.Commodities = append(r.Commodities, project.CommodityRecord{
				Name:     "物资" + strconv.Itoa(i),
				Quantity: strconv.Itoa(i),
				Unit:     "台",
			})
		}
	}
}
