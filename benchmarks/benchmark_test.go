package benchmarks

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/bidkit/internal/content"
	"github.com/klytics/bidkit/internal/cover"
	"github.com/klytics/bidkit/internal/formats/docx"
	"github.com/klytics/bidkit/internal/formats/xlsx"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/project/projecttest"
	"github.com/klytics/bidkit/internal/quotation"
)

var sampleProject = filepath.Join("..", "testdata", "project.docx")

// --- Project loading ---

func BenchmarkLoadProjectDocx(b *testing.B) {
	if _, err := os.Stat(sampleProject); os.IsNotExist(err) {
		b.Skip("project.docx not found (go run testdata/generate_fixtures.go)")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := project.Load(sampleProject); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseProjectDocument(b *testing.B) {
	data, err := docx.WriteDocument(project.DocumentFromRecord(projecttest.Record()))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc, err := docx.Parse(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := project.RecordFromDocument(doc); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Quotation workbook ---

func BenchmarkQuotationBuild(b *testing.B) {
	p := projecttest.Project(b)
	opts := quotation.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := quotation.Build(p, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuotationBuildLarge(b *testing.B) {
	p := projecttest.Project(b, projecttest.WithItems(200))
	opts := quotation.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := quotation.Build(p, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuotationWrite(b *testing.B) {
	wb, _, err := quotation.Build(projecttest.Project(b), quotation.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := xlsx.Write(wb, io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuotationRead(b *testing.B) {
	wb, _, err := quotation.Build(projecttest.Project(b), quotation.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	var buf bytes.Buffer
	if err := xlsx.Write(wb, &buf); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

// --- TOC and cover ---

func BenchmarkContentBuild(b *testing.B) {
	p := projecttest.Project(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := xlsx.Write(content.Build(p), io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCoverWrite(b *testing.B) {
	p := projecttest.Project(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := docx.WriteDocument(cover.Document(p, "中国机械进出口（集团）有限公司")); err != nil {
			b.Fatal(err)
		}
	}
}
