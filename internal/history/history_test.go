package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	logger := NewLogger(path, true)

	first, err := logger.Log(Entry{
		Command:   "generate",
		Project:   "吉布提物资采购项目",
		Code:      "CCP-2024-001",
		Items:     2,
		Artifacts: []Artifact{{Kind: "quotation", Path: "/out/投标报价表-吉布提物资采购项目.xlsx"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(first.ID) != 36 {
		t.Errorf("expected a UUID run ID, got %q", first.ID)
	}
	if first.Timestamp.IsZero() {
		t.Error("expected the timestamp to be filled in")
	}

	if _, err := logger.Log(Entry{Command: "quote", Error: "source not found"}); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID || entries[0].Code != "CCP-2024-001" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if len(entries[0].Artifacts) != 1 || entries[0].Artifacts[0].Kind != "quotation" {
		t.Errorf("artifacts = %+v", entries[0].Artifacts)
	}
	if entries[1].OK() {
		t.Error("expected the second run to be failed")
	}
}

func TestLogDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	logger := NewLogger(path, false)

	entry, err := logger.Log(Entry{Command: "generate"})
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID == "" {
		t.Error("disabled logger should still assign a run ID")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled logger should not create the log file")
	}
}

func TestLogUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries("/nonexistent/history.log")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if len(entries) != 0 {
		t.Error("expected empty entries for missing file")
	}
}

func TestReadEntriesSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `{"id":"a","command":"generate","timestamp":"2026-01-02T10:00:00Z"}
not json
{"id":"b","command":"toc","timestamp":"2026-01-01T10:00:00Z"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "b" {
		t.Errorf("expected entries sorted oldest first, got %s first", entries[0].ID)
	}
}

func TestFilterEntries(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{ID: "1", Timestamp: now.Add(-3 * time.Hour), Project: "吉布提物资采购项目", Code: "CCP-001"},
		{ID: "2", Timestamp: now.Add(-2 * time.Hour), Project: "埃塞俄比亚项目", Code: "CCP-002", Error: "boom"},
		{ID: "3", Timestamp: now.Add(-1 * time.Hour), Project: "吉布提物资采购项目", Code: "CCP-001"},
		{ID: "4", Timestamp: now, Project: "肯尼亚项目", Code: "KEN-7"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"1", "2", "3", "4"}},
		{"by name", Filter{Project: "吉布提"}, []string{"1", "3"}},
		{"by code", Filter{Project: "KEN"}, []string{"4"}},
		{"failed", Filter{Failed: true}, []string{"2"}},
		{"since", Filter{Since: now.Add(-90 * time.Minute)}, []string{"3", "4"}},
		{"limit keeps latest", Filter{Limit: 2}, []string{"3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEntries(entries, tt.filter)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	entries := []Entry{{ID: "abc-1"}, {ID: "abd-2"}, {ID: "xyz-3"}}

	e, err := Find(entries, "xyz")
	if err != nil || e.ID != "xyz-3" {
		t.Errorf("Find(xyz) = %v, %v", e.ID, err)
	}
	if _, err := Find(entries, "ab"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguous error, got %v", err)
	}
	if _, err := Find(entries, "nope"); err == nil {
		t.Error("expected an error for an unknown ID")
	}
}

func TestLogSize(t *testing.T) {
	if size := LogSize("/nonexistent/history.log"); size != 0 {
		t.Errorf("expected 0 for missing file, got %d", size)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(path, []byte("some data\n"), 0644)

	if err := Clear(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Error("expected empty file after clear")
	}
	if err := Clear(filepath.Join(t.TempDir(), "missing.log")); err != nil {
		t.Errorf("clearing a missing log should succeed, got %v", err)
	}
}
