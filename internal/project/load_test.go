package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/bidkit/internal/formats/docx"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/project/projecttest"
)

func TestLoadDocx(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project-测试.docx")
	rec := projecttest.Record()
	rec.Demands = [][]string{{"服务", "要求"}, {"安装", "现场指导"}}
	if err := project.ExportRecord(rec, path); err != nil {
		t.Fatalf("ExportRecord failed: %v", err)
	}

	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "测试项目" {
		t.Errorf("unexpected name %q", p.Name)
	}
	if p.Source != path {
		t.Errorf("expected source %s, got %s", path, p.Source)
	}
	if p.ItemCount() != 2 {
		t.Fatalf("expected 2 goods, got %d", p.ItemCount())
	}
	first, _ := p.Commodity(1)
	if first.Name != "柴油发电机组" || first.HSCode != "8502131000" || first.Serial != "1" {
		t.Errorf("unexpected first goods line %+v", first)
	}
	if first.Spec != "功率：500kW\n电压：400V" {
		t.Errorf("unexpected spec %q", first.Spec)
	}
	if len(p.Demands) != 2 || p.Demands[1][1] != "现场指导" {
		t.Errorf("unexpected demands %v", p.Demands)
	}
}

func TestLoadDocxMissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.docx")
	doc := &docx.Document{Nodes: []docx.Node{{Type: docx.NodeParagraph, Text: "no tables"}}}
	if err := docx.WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}

	_, err := project.Load(path)
	var mie *project.MalformedInputError
	if !errors.As(err, &mie) || mie.Field != "tables" {
		t.Fatalf("expected tables error, got %v", err)
	}
}

func TestExportAndLoadFormats(t *testing.T) {
	p := projecttest.Project(t)
	for _, name := range []string{"project.yaml", "project.yml", "project.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := project.Export(p, path); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			got, err := project.Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.Code != p.Code || !got.Date.Equal(p.Date) || got.TechDays != 5 {
				t.Errorf("round trip changed project: %+v", got)
			}
			if got.ItemCount() != 2 {
				t.Errorf("expected 2 goods, got %d", got.ItemCount())
			}
		})
	}
}

func TestLoadYAMLScalars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	data := `name: 测试项目
code: ZB-1
date: 2024-03-15
destination: 吉布提
transport: CIF
transport_time: 90天
total_value: 1000
tech_service: true
tech_people: 2
tech_days: 5
commodities:
  - name: 水泵
    quantity: 3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !p.TechService || p.TechPeople != 2 {
		t.Errorf("unexpected technical service %v/%d", p.TechService, p.TechPeople)
	}
	item, _ := p.Commodity(1)
	if item.Quantity != 3 || item.Serial != "1" {
		t.Errorf("unexpected goods line %+v", item)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := project.Load("project.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.docx", "~$project-a.docx", "project-b.docx", "project-c.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "project-a.docx.d"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := project.Discover(dir, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if filepath.Base(got) != "project-b.docx" {
		t.Errorf("expected project-b.docx, got %s", got)
	}

	_, err = project.Discover(t.TempDir(), "")
	if !errors.Is(err, project.ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}

	if _, err := project.Discover(dir, "("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
