// Package cover writes the cover pages of the bid documents as a single
// .docx, one page per bound copy and section.
package cover

import (
	"github.com/klytics/bidkit/internal/formats/docx"
	"github.com/klytics/bidkit/internal/project"
)

// DefaultPrefix starts the default document file name.
const DefaultPrefix = "封面"

// Font is used for every cover line.
const Font = "黑体"

var (
	// Copies are the bound copies that each get their own covers.
	Copies = []string{"正本", "副本一", "副本二"}
	// Volumes of each copy.
	Volumes = []string{"资格证明文件", "商务技术文件"}
	// Parts of the business and technical volume, each with a divider page.
	Parts = []string{"投标函部分", "技术标部分", "经济标部分", "商务标部分"}
)

const detailIndent = 16 // points

func line(text string, size float64, align string, indent float64) docx.Node {
	return docx.Node{
		Type:   docx.NodeParagraph,
		Text:   text,
		Format: &docx.ParaProps{Align: align, IndentLeft: indent, LineSpacing: 1.5},
		Runs:   []docx.Run{{Text: text, Bold: true, Font: Font, Size: size}},
	}
}

func centered(text string, size float64) docx.Node {
	return line(text, size, "center", 0)
}

func blank(n int) []docx.Node {
	nodes := make([]docx.Node, n)
	for i := range nodes {
		nodes[i] = centered("", 11)
	}
	return nodes
}

func pageBreak() docx.Node {
	return docx.Node{Type: docx.NodePageBreak}
}

// Document lays out all cover pages for p. bidder is printed on the
// copy covers after "投标人：".
func Document(p *project.Project, bidder string) *docx.Document {
	doc := &docx.Document{Metadata: docx.Metadata{Title: "封面-" + p.Name, Creator: bidder}}
	add := func(nodes ...docx.Node) { doc.Nodes = append(doc.Nodes, nodes...) }

	for _, copyName := range Copies {
		for _, volume := range Volumes {
			add(line(copyName, 32, "right", 0))
			add(blank(6)...)
			add(centered("投标文件", 48), centered("("+volume+")", 32))
			add(blank(8)...)
			for _, detail := range []string{
				"项目名称：" + p.Name,
				"招标编号：" + p.Code,
				"投标人：" + bidder,
				"开标日期：" + p.DateText(),
			} {
				add(line(detail, 18, "left", detailIndent))
			}
			add(pageBreak())
		}
	}

	for i, part := range Parts {
		add(blank(12)...)
		add(centered("商务技术文件", 48), centered("("+part+")", 32))
		if i < len(Parts)-1 {
			add(pageBreak())
		}
	}
	return doc
}

// Generate writes the cover document for p to path.
func Generate(p *project.Project, bidder, path string) error {
	return docx.WriteFile(Document(p, bidder), path)
}

// FileName is the default document name, "<prefix>-<project>.docx".
func FileName(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + project.SafeName(name) + ".docx"
}
