package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/klytics/bidkit/internal/formats/docx"
	"github.com/klytics/bidkit/internal/output"
)

// DefaultPattern matches the default project document name.
const DefaultPattern = `^project.*\.docx$`

// Positions of the values in column 1 of the project info table.
const (
	rowName = iota
	rowCode
	rowDate
	rowDestination
	rowTransport
	rowTransportTime
	rowTotalValue
	rowLowPrice
	rowSecondaryList
	rowTechService
	rowTechPeople
	rowTechDays
	rowAfterSales
	rowTraining
	rowTrainingPeople
	rowTrainingDays
	rowInspection
	rowMainItems
)

// Load reads a project from a .docx, .yaml/.yml or .toml file.
func Load(path string) (*Project, error) {
	var (
		rec *Record
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		var doc *docx.Document
		doc, err = docx.ParseFile(path)
		if err != nil {
			return nil, err
		}
		rec, err = RecordFromDocument(doc)
	case ".yaml", ".yml":
		rec, err = readRecord(path, yaml.Unmarshal)
	case ".toml":
		rec, err = readRecord(path, toml.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported project file %s (use .docx, .yaml or .toml)", path)
	}
	if err != nil {
		return nil, err
	}

	p, err := FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("invalid project in %s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

func readRecord(path string, unmarshal func([]byte, any) error) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var rec Record
	if err := unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return &rec, nil
}

// RecordFromDocument extracts the project tables of a parsed document:
// table 1 holds the project facts (values in the second column), table
// 2 the goods list below a header row, and the optional table 3 the
// service demands.
func RecordFromDocument(doc *docx.Document) (*Record, error) {
	tables := doc.Tables()
	if len(tables) < 2 {
		return nil, NewMalformedInputError("tables", fmt.Sprint(len(tables)),
			errors.New("the project document needs a project info table and a goods table"))
	}

	info := make([]string, 0, len(tables[0]))
	for _, row := range tables[0] {
		info = append(info, cell(row, 1))
	}
	value := func(i int) string {
		if i < len(info) {
			return info[i]
		}
		return ""
	}

	rec := &Record{
		Name:           value(rowName),
		Code:           value(rowCode),
		Date:           value(rowDate),
		Destination:    value(rowDestination),
		Transport:      value(rowTransport),
		TransportTime:  value(rowTransportTime),
		TotalValue:     value(rowTotalValue),
		LowPrice:       value(rowLowPrice),
		SecondaryList:  value(rowSecondaryList),
		TechService:    value(rowTechService),
		TechPeople:     value(rowTechPeople),
		TechDays:       value(rowTechDays),
		AfterSales:     value(rowAfterSales),
		Training:       value(rowTraining),
		TrainingPeople: value(rowTrainingPeople),
		TrainingDays:   value(rowTrainingDays),
		Inspection:     value(rowInspection),
		MainItems:      value(rowMainItems),
	}

	goods := tables[1]
	for i := 1; i < len(goods); i++ {
		row := goods[i]
		rec.Commodities = append(rec.Commodities, CommodityRecord{
			Serial:   cell(row, 0),
			Name:     cell(row, 1),
			HSCode:   cell(row, 2),
			Quantity: cell(row, 3),
			Unit:     cell(row, 4),
			Spec:     cell(row, 5),
			Standard: cell(row, 6),
		})
	}

	if len(tables) > 2 {
		for _, row := range tables[2] {
			cleaned := make([]string, len(row))
			for j, c := range row {
				cleaned[j] = cleanCell(c)
			}
			rec.Demands = append(rec.Demands, cleaned)
		}
	}
	return rec, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return cleanCell(row[i])
	}
	return ""
}

// Export writes p as a project document (.docx) or a YAML/TOML project
// file, chosen by extension.
func Export(p *Project, path string) error {
	return ExportRecord(ToRecord(p), path)
}

// ExportRecord writes a record without validating it first.
func ExportRecord(rec *Record, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return docx.WriteFile(DocumentFromRecord(rec), path)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rec)
	case ".toml":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		err = enc.Encode(rec)
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported export format %s (use .docx, .yaml or .toml)", path)
	}
	if err != nil {
		return fmt.Errorf("could not encode project: %w", err)
	}
	return output.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Discover returns the first regular file in dir whose name matches
// pattern. Word lock files (~$...) are skipped.
func Discover(dir, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid source pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not list %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if re.MatchString(name) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("%w: nothing matching %s in %s; pass the project file explicitly", ErrNoSource, pattern, dir)
}
