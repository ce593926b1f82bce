// Package docx reads the paragraphs and tables of .docx (OOXML) files
// and writes formatted .docx documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// NodeType identifies the kind of content node in a document.
type NodeType int

const (
	// NodeParagraph represents a text paragraph.
	NodeParagraph NodeType = iota
	// NodeTable represents a table with rows and cells.
	NodeTable
	// NodePageBreak represents a paragraph holding only a page break.
	NodePageBreak
)

// Node represents a single structural element in a document.
type Node struct {
	Type     NodeType   `json:"type"`
	Text     string     `json:"text"`
	Style    string     `json:"style,omitempty"`    // OOXML paragraph style name
	Format   *ParaProps `json:"format,omitempty"`   // Paragraph formatting (written documents)
	Children []Node     `json:"children,omitempty"` // For tables: rows containing cells
	Runs     []Run      `json:"runs,omitempty"`     // Individual text runs with formatting
}

// ParaProps holds the paragraph formatting the writer understands.
type ParaProps struct {
	Align       string  `json:"align,omitempty"`        // left, center, right, both
	IndentLeft  float64 `json:"indent_left,omitempty"`  // points
	LineSpacing float64 `json:"line_spacing,omitempty"` // multiple of single spacing
}

// Run represents a contiguous run of text with consistent formatting.
type Run struct {
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Font   string  `json:"font,omitempty"` // applied to latin and east-Asian text
	Size   float64 `json:"size,omitempty"` // points
}

// Metadata holds document-level metadata extracted from core.xml.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// Document is the top-level parsed representation of a .docx file.
type Document struct {
	Nodes    []Node   `json:"nodes"`
	Metadata Metadata `json:"metadata"`
}

// OOXML internal types for unmarshalling

type xmlParagraph struct {
	Properties xmlParagraphProps `xml:"pPr"`
	Runs       []xmlRun          `xml:"r"`
	Hyperlinks []xmlHyperlink    `xml:"hyperlink"`
}

type xmlParagraphProps struct {
	Style xmlStyleVal `xml:"pStyle"`
}

type xmlStyleVal struct {
	Val string `xml:"val,attr"`
}

type xmlRun struct {
	Properties xmlRunProps  `xml:"rPr"`
	Content    []xmlRunItem `xml:",any"`
}

// xmlRunItem is any child of a run (t, br, tab, cr) kept in document order.
type xmlRunItem struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

type xmlRunProps struct {
	Bold   *struct{} `xml:"b"`
	Italic *struct{} `xml:"i"`
}

type xmlHyperlink struct {
	Runs []xmlRun `xml:"r"`
}

type xmlTable struct {
	Rows []xmlTableRow `xml:"tr"`
}

type xmlTableRow struct {
	Cells []xmlTableCell `xml:"tc"`
}

type xmlTableCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

// Core properties XML types
type xmlCoreProperties struct {
	Title       string `xml:"title"`
	Creator     string `xml:"creator"`
	Description string `xml:"description"`
	Created     string `xml:"created"`
	Modified    string `xml:"modified"`
}

// ParseFile reads and parses a .docx file from the given path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct: %w", path, os.ErrNotExist)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading %s — check file permissions or close the file if it is open in Word", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse reads and parses a .docx file from the given byte slice.
func Parse(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid .docx file — the file does not appear to be a valid ZIP archive: %w", err)
	}

	doc := &Document{}

	// Metadata is optional
	_ = parseCoreProperties(reader, doc)

	if err := parseDocumentBody(reader, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func openPart(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, true, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		return data, true, err
	}
	return nil, false, nil
}

func parseCoreProperties(reader *zip.Reader, doc *Document) error {
	data, found, err := openPart(reader, "docProps/core.xml")
	if err != nil || !found {
		return err
	}
	var props xmlCoreProperties
	if err := xml.Unmarshal(data, &props); err != nil {
		return err
	}
	doc.Metadata = Metadata(props)
	return nil
}

func parseDocumentBody(reader *zip.Reader, doc *Document) error {
	data, found, err := openPart(reader, "word/document.xml")
	if !found {
		return fmt.Errorf("invalid .docx file — missing word/document.xml")
	}
	if err != nil {
		return fmt.Errorf("could not read document.xml inside .docx archive: %w", err)
	}
	return parseXMLBody(data, doc)
}

func parseXMLBody(data []byte, doc *Document) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	// Find the body element
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return fmt.Errorf("invalid .docx file — no body element found in document.xml")
		}
		if err != nil {
			return fmt.Errorf("XML parse error in document.xml: %w", err)
		}

		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			break
		}
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "p":
			node, err := decodeParagraph(decoder, se)
			if err != nil {
				return err
			}
			if node != nil {
				doc.Nodes = append(doc.Nodes, *node)
			}
		case "tbl":
			node, err := decodeTable(decoder, se)
			if err != nil {
				return err
			}
			doc.Nodes = append(doc.Nodes, *node)
		default:
			if err := decoder.Skip(); err != nil {
				return err
			}
		}
	}

	return nil
}

func decodeParagraph(decoder *xml.Decoder, start xml.StartElement) (*Node, error) {
	var p xmlParagraph
	if err := decoder.DecodeElement(&p, &start); err != nil {
		return nil, fmt.Errorf("could not parse paragraph: %w", err)
	}

	allRuns := make([]xmlRun, 0, len(p.Runs))
	allRuns = append(allRuns, p.Runs...)
	for _, h := range p.Hyperlinks {
		allRuns = append(allRuns, h.Runs...)
	}

	var text strings.Builder
	runs := make([]Run, 0, len(allRuns))
	pageBreak := false
	for _, r := range allRuns {
		for _, item := range r.Content {
			if item.XMLName.Local == "br" && item.Type == "page" {
				pageBreak = true
			}
		}
		rt := runText(r)
		text.WriteString(rt)
		if rt != "" {
			runs = append(runs, Run{
				Text:   rt,
				Bold:   r.Properties.Bold != nil,
				Italic: r.Properties.Italic != nil,
			})
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		if pageBreak {
			return &Node{Type: NodePageBreak}, nil
		}
		return nil, nil
	}

	return &Node{
		Type:  NodeParagraph,
		Text:  text.String(),
		Style: p.Properties.Style.Val,
		Runs:  runs,
	}, nil
}

func runText(r xmlRun) string {
	var b strings.Builder
	for _, item := range r.Content {
		switch item.XMLName.Local {
		case "t":
			b.WriteString(item.Value)
		case "tab":
			b.WriteString("\t")
		case "cr":
			b.WriteString("\n")
		case "br":
			if item.Type == "" || item.Type == "textWrapping" {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func decodeTable(decoder *xml.Decoder, start xml.StartElement) (*Node, error) {
	var t xmlTable
	if err := decoder.DecodeElement(&t, &start); err != nil {
		return nil, fmt.Errorf("could not parse table: %w", err)
	}

	node := &Node{
		Type:     NodeTable,
		Children: make([]Node, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		rowNode := Node{
			Children: make([]Node, 0, len(row.Cells)),
		}
		for _, cell := range row.Cells {
			var cellTexts []string
			for _, p := range cell.Paragraphs {
				var text strings.Builder
				for _, r := range p.Runs {
					text.WriteString(runText(r))
				}
				for _, h := range p.Hyperlinks {
					for _, r := range h.Runs {
						text.WriteString(runText(r))
					}
				}
				if text.Len() > 0 {
					cellTexts = append(cellTexts, text.String())
				}
			}
			rowNode.Children = append(rowNode.Children, Node{
				Type: NodeParagraph,
				Text: strings.Join(cellTexts, "\n"),
			})
		}
		node.Children = append(node.Children, rowNode)
	}

	return node, nil
}

// Tables returns the text of every top-level table as rows of cells,
// in document order.
func (d *Document) Tables() [][][]string {
	var tables [][][]string
	for _, n := range d.Nodes {
		if n.Type != NodeTable {
			continue
		}
		rows := make([][]string, 0, len(n.Children))
		for _, row := range n.Children {
			cells := make([]string, 0, len(row.Children))
			for _, cell := range row.Children {
				cells = append(cells, cell.Text)
			}
			rows = append(rows, cells)
		}
		tables = append(tables, rows)
	}
	return tables
}

// Paragraphs returns the text of all paragraph nodes outside tables.
func (d *Document) Paragraphs() []string {
	var result []string
	for _, n := range d.Nodes {
		if n.Type == NodeParagraph && n.Text != "" {
			result = append(result, n.Text)
		}
	}
	return result
}

// PageCount returns the number of pages implied by explicit page breaks.
func (d *Document) PageCount() int {
	count := 1
	for _, n := range d.Nodes {
		if n.Type == NodePageBreak {
			count++
		}
	}
	return count
}
