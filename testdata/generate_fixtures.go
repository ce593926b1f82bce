//go:build ignore

// This program generates the sample project files used by the
// benchmarks and smoke tests.
package main

import (
	"fmt"
	"os"

	"github.com/klytics/bidkit/internal/project"
)

func main() {
	rec := sample()
	if _, err := project.FromRecord(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Sample project is invalid: %v\n", err)
		os.Exit(1)
	}

	for _, path := range []string{"testdata/project.docx", "testdata/project.yaml", "testdata/project.toml"} {
		if err := project.ExportRecord(rec, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	fmt.Println("Test fixtures generated successfully.")
}

func sample() *project.Record {
	return &project.Record{
		Name:           "吉布提职业教育中心设备采购项目",
		Code:           "0733-2024JBT0001",
		Date:           "2024年6月18日",
		Destination:    "吉布提港",
		Transport:      "CIF",
		TransportTime:  "合同生效后120日内",
		TotalValue:     "3,860,000.00",
		LowPrice:       "n",
		SecondaryList:  "y",
		TechService:    "y",
		TechPeople:     "3",
		TechDays:       "20",
		AfterSales:     "y",
		Training:       "y",
		TrainingPeople: "10",
		TrainingDays:   "15",
		Inspection:     "1 3",
		MainItems:      "1 2",
		Commodities: []project.CommodityRecord{
			{Serial: "1", Name: "数控车床", HSCode: "8458110090", Quantity: "6", Unit: "台", Spec: "最大回转直径：400mm\n主轴转速：50-3000rpm", Standard: "GB/T 25659"},
			{Serial: "2", Name: "立式加工中心", HSCode: "8457101000", Quantity: "2", Unit: "台", Spec: "工作台：800×400mm", Standard: "GB/T 18400"},
			{Serial: "3", Name: "柴油发电机组", HSCode: "8502131000", Quantity: "1", Unit: "台", Spec: "功率：200kW", Standard: "GB/T 2820"},
			{Serial: "4", Name: "焊接实训台", HSCode: "8515390000", Quantity: "12", Unit: "套", Spec: "含逆变焊机与排烟装置", Standard: "GB 15579"},
		},
	}
}
