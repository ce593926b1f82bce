// Package tests provides smoke tests that validate every bidkit command
// exists, runs, and exits with the documented code.
// These tests run the compiled binary; build it first with
// 'go build -o bin/bidkit .'.
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/project/projecttest"
)

// bidkitBin returns the path to the compiled bidkit binary.
func bidkitBin(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..")
	bin := filepath.Join(root, "bin", "bidkit")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Skipf("bidkit binary not found at %s; build it first", bin)
	}
	return bin
}

// workspace returns a temp dir holding a sample project.yaml, with HOME
// pointing at another temp dir so no user config leaks in.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := project.ExportRecord(projecttest.Record(), filepath.Join(dir, "project.yaml")); err != nil {
		t.Fatal(err)
	}
	return dir
}

// run executes bidkit in dir with args and returns stdout, stderr, and exit code.
func run(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(bidkitBin(t), args...)
	cmd.Dir = dir
	home := t.TempDir()
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"USERPROFILE="+home,
		"BIDKIT_ORG_CONFIG="+filepath.Join(home, "org.yaml"),
		"NO_COLOR=1",
	)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code
}

func TestAllCommandsExist(t *testing.T) {
	commands := []string{
		"generate", "quote", "toc", "cover", "dirs", "project", "inspect",
		"watch", "history", "config", "org", "completion", "version",
	}

	stdout, _, code := run(t, t.TempDir(), "--help")
	if code != 0 {
		t.Fatalf("bidkit --help exited with code %d", code)
	}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("command %q not found in bidkit --help output", cmd)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	stdout, _, code := run(t, t.TempDir(), "version")
	if code != 0 {
		t.Fatal("bidkit version should exit 0")
	}
	if !strings.Contains(stdout, "bidkit") {
		t.Errorf("version output should contain 'bidkit', got: %s", stdout)
	}
}

func TestGenerateWritesPackage(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	_, stderr, code := run(t, dir, "generate", "project.yaml", "-o", out)
	if code != 0 {
		t.Fatalf("bidkit generate exited with code %d: %s", code, stderr)
	}

	for _, pattern := range []string{"投标报价表-*.xlsx", "content-*.xlsx", "封面-*.docx", "投标文件-*"} {
		matches, _ := filepath.Glob(filepath.Join(out, pattern))
		if len(matches) != 1 {
			t.Errorf("expected one %s in %s, found %v", pattern, out, matches)
		}
	}
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	_, _, code := run(t, dir, "generate", "project.yaml", "-o", out, "--dry-run")
	if code != 0 {
		t.Fatalf("bidkit generate --dry-run exited with code %d", code)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", out)
	}
}

func TestQuoteThenInspect(t *testing.T) {
	dir := workspace(t)
	book := filepath.Join(dir, "quote.xlsx")

	if _, stderr, code := run(t, dir, "quote", "project.yaml", "-o", book); code != 0 {
		t.Fatalf("bidkit quote exited with code %d: %s", code, stderr)
	}

	stdout, _, code := run(t, dir, "inspect", book, "--check")
	if code != 0 {
		t.Fatalf("bidkit inspect --check exited with code %d: %s", code, stdout)
	}

	stdout, _, code = run(t, dir, "inspect", book, "--formulas", "--no-pager")
	if code != 0 {
		t.Fatal("bidkit inspect --formulas should exit 0")
	}
	if !strings.Contains(stdout, "SUM(") {
		t.Errorf("formula listing should contain SUM(, got: %s", stdout)
	}
}

func TestProjectShowJSON(t *testing.T) {
	dir := workspace(t)

	stdout, _, code := run(t, dir, "project", "show", "project.yaml", "--json")
	if code != 0 {
		t.Fatalf("bidkit project show --json exited with code %d", code)
	}
	var result struct {
		OK      bool           `json:"ok"`
		Command string         `json:"command"`
		Data    project.Record `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("--json output is not valid JSON: %v\nOutput: %s", err, stdout)
	}
	if !result.OK || result.Data.Code != projecttest.Record().Code {
		t.Errorf("unexpected envelope: %+v", result)
	}
}

func TestMalformedProjectExitsOne(t *testing.T) {
	dir := workspace(t)
	rec := projecttest.Record()
	rec.Date = "soon"
	if err := project.ExportRecord(rec, filepath.Join(dir, "bad.yaml")); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, dir, "generate", "bad.yaml", "-o", filepath.Join(dir, "out"))
	if code != 1 {
		t.Errorf("malformed project should exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "date") {
		t.Errorf("error should name the field, got: %s", stderr)
	}
}

func TestErrorJSONEnvelope(t *testing.T) {
	dir := t.TempDir()

	stdout, _, code := run(t, dir, "generate", "missing.yaml", "--json")
	if code != 1 {
		t.Errorf("missing project should exit 1, got %d", code)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("--json error output is not valid JSON: %v\nOutput: %s", err, stdout)
	}
	if result["ok"] != false {
		t.Errorf("expected ok=false, got %v", result["ok"])
	}
}

func TestConfigShowRuns(t *testing.T) {
	_, _, code := run(t, t.TempDir(), "config", "show")
	if code != 0 {
		t.Errorf("config show should exit 0, got %d", code)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	stdout, _, code := run(t, t.TempDir(), "history", "list")
	if code != 0 {
		t.Fatalf("history list should exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "No runs recorded") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestAllCommandsHaveHelp(t *testing.T) {
	commandPaths := [][]string{
		{"generate"}, {"quote"}, {"toc"}, {"cover"}, {"dirs"},
		{"project", "show"}, {"project", "export"}, {"project", "init"},
		{"inspect"}, {"watch"},
		{"history", "list"}, {"history", "show"}, {"history", "clear"}, {"history", "path"},
		{"config", "init"}, {"config", "show"}, {"config", "validate"}, {"config", "env"},
		{"org", "show"}, {"org", "validate"}, {"org", "init"},
		{"completion"}, {"version"},
	}

	for _, path := range commandPaths {
		args := append(path, "--help")
		t.Run(strings.Join(path, "_"), func(t *testing.T) {
			_, _, code := run(t, t.TempDir(), args...)
			if code != 0 {
				t.Errorf("bidkit %s --help should exit 0", strings.Join(path, " "))
			}
		})
	}
}
