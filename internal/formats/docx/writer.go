package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klytics/bidkit/internal/output"
)

// WriteDocument generates a .docx file from a Document struct, returning the raw bytes.
func WriteDocument(doc *Document) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	withCore := doc.Metadata != (Metadata{})

	if err := writeContentTypes(zw, withCore); err != nil {
		return nil, fmt.Errorf("could not write content types: %w", err)
	}

	if err := writeRels(zw, withCore); err != nil {
		return nil, fmt.Errorf("could not write relationships: %w", err)
	}

	if err := writePart(zw, "word/_rels/document.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`); err != nil {
		return nil, fmt.Errorf("could not write document relationships: %w", err)
	}

	if withCore {
		if err := writeCoreProperties(zw, doc.Metadata); err != nil {
			return nil, fmt.Errorf("could not write document properties: %w", err)
		}
	}

	if err := writeDocumentXML(zw, doc); err != nil {
		return nil, fmt.Errorf("could not write document body: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize .docx archive: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes doc to path atomically.
func WriteFile(doc *Document, path string) error {
	data, err := WriteDocument(doc)
	if err != nil {
		return err
	}
	if err := output.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

func writePart(zw *zip.Writer, name, body string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, xml.Header+body)
	return err
}

func writeContentTypes(zw *zip.Writer, withCore bool) error {
	var b strings.Builder
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
`)
	if withCore {
		b.WriteString(`  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
`)
	}
	b.WriteString(`</Types>`)
	return writePart(zw, "[Content_Types].xml", b.String())
}

func writeRels(zw *zip.Writer, withCore bool) error {
	var b strings.Builder
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
`)
	if withCore {
		b.WriteString(`  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
`)
	}
	b.WriteString(`</Relationships>`)
	return writePart(zw, "_rels/.rels", b.String())
}

func writeCoreProperties(zw *zip.Writer, m Metadata) error {
	var b strings.Builder
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	if m.Title != "" {
		b.WriteString(`<dc:title>` + xmlEscape(m.Title) + `</dc:title>`)
	}
	if m.Creator != "" {
		b.WriteString(`<dc:creator>` + xmlEscape(m.Creator) + `</dc:creator>`)
	}
	if m.Description != "" {
		b.WriteString(`<dc:description>` + xmlEscape(m.Description) + `</dc:description>`)
	}
	b.WriteString(`</cp:coreProperties>`)
	return writePart(zw, "docProps/core.xml", b.String())
}

func writeDocumentXML(zw *zip.Writer, doc *Document) error {
	var b strings.Builder
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:body>`)

	for _, node := range doc.Nodes {
		writeNodeXML(&b, node)
	}

	// A4 portrait
	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="851" w:footer="992" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body>`)
	b.WriteString(`</w:document>`)

	return writePart(zw, "word/document.xml", b.String())
}

func writeNodeXML(b *strings.Builder, n Node) {
	switch n.Type {
	case NodeParagraph:
		b.WriteString(`<w:p>`)
		writeParaProps(b, n)
		writeRunsXML(b, n)
		b.WriteString(`</w:p>`)
	case NodePageBreak:
		b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
	case NodeTable:
		b.WriteString(`<w:tbl>`)
		for _, row := range n.Children {
			b.WriteString(`<w:tr>`)
			for _, cell := range row.Children {
				b.WriteString(`<w:tc><w:p>`)
				writeRunsXML(b, cell)
				b.WriteString(`</w:p></w:tc>`)
			}
			b.WriteString(`</w:tr>`)
		}
		b.WriteString(`</w:tbl>`)
	}
}

func writeParaProps(b *strings.Builder, n Node) {
	if n.Style == "" && n.Format == nil {
		return
	}
	b.WriteString(`<w:pPr>`)
	if n.Style != "" {
		b.WriteString(`<w:pStyle w:val="` + xmlEscape(n.Style) + `"/>`)
	}
	if f := n.Format; f != nil {
		if f.LineSpacing > 0 {
			// 240 twentieths of a point is single spacing
			b.WriteString(`<w:spacing w:line="` + strconv.Itoa(int(f.LineSpacing*240)) + `" w:lineRule="auto"/>`)
		}
		if f.IndentLeft > 0 {
			b.WriteString(`<w:ind w:left="` + strconv.Itoa(int(f.IndentLeft*20)) + `"/>`)
		}
		if f.Align != "" {
			b.WriteString(`<w:jc w:val="` + f.Align + `"/>`)
		}
	}
	b.WriteString(`</w:pPr>`)
}

func writeRunsXML(b *strings.Builder, n Node) {
	if len(n.Runs) == 0 {
		if n.Text == "" {
			return
		}
		writeRunXML(b, Run{Text: n.Text})
		return
	}
	for _, r := range n.Runs {
		writeRunXML(b, r)
	}
}

func writeRunXML(b *strings.Builder, r Run) {
	b.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Font != "" || r.Size > 0 {
		b.WriteString(`<w:rPr>`)
		if r.Font != "" {
			font := xmlEscape(r.Font)
			b.WriteString(`<w:rFonts w:ascii="` + font + `" w:hAnsi="` + font + `" w:eastAsia="` + font + `"/>`)
		}
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			b.WriteString(`<w:i/>`)
		}
		if r.Size > 0 {
			halfPoints := strconv.Itoa(int(r.Size * 2))
			b.WriteString(`<w:sz w:val="` + halfPoints + `"/><w:szCs w:val="` + halfPoints + `"/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	lines := strings.Split(r.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(line))
		b.WriteString(`</w:t>`)
	}
	b.WriteString(`</w:r>`)
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
