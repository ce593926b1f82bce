package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeOrg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "org.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOrgConfigMissing(t *testing.T) {
	cfg, err := LoadOrgConfigFrom("/nonexistent/org.yaml")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config for missing file")
	}
}

func TestLoadOrgConfigValid(t *testing.T) {
	path := writeOrg(t, `
bidder: "测试公司"
rates:
  vat: 9
locked:
  bidder: true
`)
	cfg, err := LoadOrgConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadOrgConfigFrom failed: %v", err)
	}
	if cfg.Bidder != "测试公司" {
		t.Errorf("Bidder = %q", cfg.Bidder)
	}
	if cfg.Rates.VAT == nil || *cfg.Rates.VAT != 9 {
		t.Errorf("Rates.VAT = %v", cfg.Rates.VAT)
	}
	if cfg.Rates.Tax != nil {
		t.Errorf("Rates.Tax should be unset, got %v", *cfg.Rates.Tax)
	}
	if !cfg.Locked.Bidder {
		t.Error("expected Locked.Bidder = true")
	}
}

func TestLoadOrgConfigInvalid(t *testing.T) {
	path := writeOrg(t, "bidder: [unclosed")
	if _, err := LoadOrgConfigFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestOrgDefaultsAndLocks(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("BIDKIT_ORG_CONFIG", writeOrg(t, `
bidder: "集团公司"
rates:
  vat: 9
  tax: 0.001
locked:
  bidder: true
`))
	writeUserConfig(t, "bidder: 个人设置\nrates:\n  tax: 0.002\n")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bidder != "集团公司" {
		t.Errorf("locked bidder = %q", cfg.Bidder)
	}
	if cfg.Rates.VAT != 9 {
		t.Errorf("org default vat = %g", cfg.Rates.VAT)
	}
	if cfg.Rates.Tax != 0.002 {
		t.Errorf("unlocked tax should come from the user file, got %g", cfg.Rates.Tax)
	}
}

func TestValidateOrgConfig(t *testing.T) {
	neg := -1.0
	cfg := &OrgConfig{}
	cfg.Locked.Bidder = true
	cfg.Rates.Tax = &neg

	issues := ValidateOrgConfig(cfg)
	if len(issues) != 2 {
		t.Errorf("expected 2 issues, got %v", issues)
	}
	if len(ValidateOrgConfig(&OrgConfig{Bidder: "x"})) != 0 {
		t.Error("expected no issues for a plain org config")
	}
}

func TestOrgConfigPath(t *testing.T) {
	t.Setenv("BIDKIT_ORG_CONFIG", "")
	path := OrgConfigPath()
	if runtime.GOOS == "windows" {
		if path == "" {
			t.Error("expected non-empty path on Windows")
		}
	} else if path != "/etc/bidkit/org.yaml" {
		t.Errorf("expected /etc/bidkit/org.yaml, got %q", path)
	}

	t.Setenv("BIDKIT_ORG_CONFIG", "/tmp/org.yaml")
	if got := OrgConfigPath(); got != "/tmp/org.yaml" {
		t.Errorf("override ignored: %q", got)
	}
}

func TestGenerateOrgTemplate(t *testing.T) {
	tmpl := GenerateOrgTemplate("测试公司")
	if !strings.Contains(tmpl, "测试公司") {
		t.Error("template should contain the bidder")
	}
	if !strings.Contains(tmpl, "locked:") {
		t.Error("template should contain the lock section")
	}
}
