package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDocumentValidZIP(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			{Type: NodeParagraph, Text: "First paragraph content."},
			{Type: NodePageBreak},
			{Type: NodeParagraph, Text: "Second paragraph content."},
		},
		Metadata: Metadata{Title: "封面"},
	}

	data, err := WriteDocument(doc)
	if err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}

	// Verify it's a valid ZIP
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}

	required := map[string]bool{
		"[Content_Types].xml":          false,
		"_rels/.rels":                  false,
		"word/document.xml":            false,
		"word/_rels/document.xml.rels": false,
		"docProps/core.xml":            false,
	}

	for _, f := range reader.File {
		if _, ok := required[f.Name]; ok {
			required[f.Name] = true
		}
	}

	for name, found := range required {
		if !found {
			t.Errorf("missing required file in .docx: %s", name)
		}
	}
}

func TestWriteDocumentFormatting(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			{
				Type:   NodeParagraph,
				Format: &ParaProps{Align: "right", IndentLeft: 60, LineSpacing: 1.5},
				Runs:   []Run{{Text: "正本", Font: "黑体", Size: 32, Bold: true}},
			},
		},
	}

	data, err := WriteDocument(doc)
	if err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}
	body := documentXML(t, data)

	for _, want := range []string{
		`<w:jc w:val="right"/>`,
		`<w:ind w:left="1200"/>`,
		`<w:spacing w:line="360" w:lineRule="auto"/>`,
		`w:eastAsia="黑体"`,
		`<w:sz w:val="64"/>`,
		`<w:b/>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func TestWriteDocumentWithFormattedRuns(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			{
				Type: NodeParagraph,
				Runs: []Run{
					{Text: "Hello ", Bold: false},
					{Text: "bold", Bold: true},
					{Text: " world", Bold: false},
				},
			},
		},
	}

	data, err := WriteDocument(doc)
	if err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(parsed.Nodes))
	}

	if parsed.Nodes[0].Text != "Hello bold world" {
		t.Errorf("expected 'Hello bold world', got %q", parsed.Nodes[0].Text)
	}
	if !parsed.Nodes[0].Runs[1].Bold {
		t.Error("expected second run to be bold")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	doc := &Document{Nodes: []Node{{Type: NodeParagraph, Text: "x"}}}

	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if got := parsed.Paragraphs(); len(got) != 1 || got[0] != "x" {
		t.Errorf("unexpected paragraphs %v", got)
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	data, err := WriteDocument(&Document{})
	if err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}

	if _, err := Parse(data); err != nil {
		t.Fatalf("empty document does not parse: %v", err)
	}
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(body)
	}
	t.Fatal("word/document.xml not found")
	return ""
}
