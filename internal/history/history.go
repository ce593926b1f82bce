// Package history keeps a JSON-lines log of generation runs so a user
// can see when each bid package was produced and from which source.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileName is the log file inside the bidkit config directory.
const FileName = "history.log"

// Artifact is one file or folder produced by a run.
type Artifact struct {
	Kind string `json:"kind"` // quotation, content, cover, folders
	Path string `json:"path"`
}

// Entry is a single run.
type Entry struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Machine    string     `json:"machine"`
	Command    string     `json:"command"`
	Source     string     `json:"source,omitempty"`
	Project    string     `json:"project,omitempty"`
	Code       string     `json:"code,omitempty"`
	Items      int        `json:"items"`
	Artifacts  []Artifact `json:"artifacts,omitempty"`
	DurationMs int64      `json:"duration_ms"`
	Error      string     `json:"error,omitempty"`
}

// OK reports whether the run succeeded.
func (e Entry) OK() bool {
	return e.Error == ""
}

// Logger appends entries to a log file.
type Logger struct {
	FilePath string
	Enabled  bool
}

// NewLogger creates a Logger writing to path.
func NewLogger(path string, enabled bool) *Logger {
	return &Logger{FilePath: path, Enabled: enabled}
}

// NewID returns a fresh run ID.
func NewID() string {
	return uuid.NewString()
}

// Log appends entry, filling in its ID, timestamp and machine when
// missing. Logging is best-effort: a failure is returned but callers
// never fail a run because of it.
func (l *Logger) Log(entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Machine == "" {
		entry.Machine, _ = os.Hostname()
	}
	if !l.Enabled || l.FilePath == "" {
		return entry, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return entry, fmt.Errorf("could not create history directory: %w", err)
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return entry, fmt.Errorf("could not open history log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return entry, err
	}
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return entry, fmt.Errorf("could not write history log: %w", err)
	}
	return entry, nil
}

// ReadEntries reads all entries from the log file, oldest first.
// A missing file yields no entries.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// Filter selects entries.
type Filter struct {
	Since   time.Time
	Project string // substring of the project name or code
	Failed  bool   // only failed runs
	Limit   int    // most recent N, 0 for all
}

// FilterEntries returns entries matching f, keeping their order.
func FilterEntries(entries []Entry, f Filter) []Entry {
	var result []Entry
	for _, e := range entries {
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if f.Project != "" && !strings.Contains(e.Project, f.Project) && !strings.Contains(e.Code, f.Project) {
			continue
		}
		if f.Failed && e.OK() {
			continue
		}
		result = append(result, e)
	}
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[len(result)-f.Limit:]
	}
	return result
}

// Find returns the entry whose ID starts with prefix.
func Find(entries []Entry, prefix string) (Entry, error) {
	var found []Entry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, prefix) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("no run with ID %s", prefix)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("run ID %s is ambiguous (%d matches)", prefix, len(found))
	}
}

// LogSize returns the size of the log in bytes, or 0 if not found.
func LogSize(filePath string) int64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Clear truncates the log file.
func Clear(filePath string) error {
	err := os.Truncate(filePath, 0)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
