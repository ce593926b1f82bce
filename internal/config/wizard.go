package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Wizard runs the interactive setup wizard, writing prompts to out.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader, out io.Writer) error {
	if reader == nil {
		reader = os.Stdin
	}
	scanner := bufio.NewScanner(reader)
	ask := func(prompt, key string) {
		fmt.Fprintf(out, "  %s [%s]: ", prompt, viper.GetString(key))
		if !scanner.Scan() {
			return
		}
		if v := strings.TrimSpace(scanner.Text()); v != "" {
			viper.Set(key, v)
		}
	}

	fmt.Fprintln(out, "bidkit setup")
	fmt.Fprintln(out, strings.Repeat("-", 48))

	fmt.Fprintln(out, "Step 1/3: Bidder")
	ask("Bidder name printed on quotations and covers", "bidder")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Step 2/3: Rates")
	ask("VAT rebate rate (%)", "rates.vat")
	ask("Consumption tax rebate rate (%)", "rates.consumption")
	ask("Tax rate on the quotation subtotal", "rates.tax")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Step 3/3: Output")
	ask("Output folder", "output.dir")
	fmt.Fprintln(out)

	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}
	fmt.Fprintf(out, "Config file: %s\n", ConfigPath())
	fmt.Fprintln(out, "Type 'bidkit config show' to see all settings.")
	return nil
}

// WizardNonInteractive sets up config with defaults only (no user input).
func WizardNonInteractive() error {
	for k, v := range Defaults {
		viper.Set(k, v)
	}
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	if strings.TrimSpace(viper.GetString("bidder")) == "" {
		issues = append(issues, ConfigIssue{
			Key:      "bidder",
			Severity: "error",
			Message:  "bidder is empty; the bid-opening sheet and covers need it",
			Fix:      "bidkit config set bidder <company name>",
		})
	}

	for _, key := range []string{"rates.vat", "rates.consumption", "rates.tax"} {
		raw := viper.GetString(key)
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			issues = append(issues, ConfigIssue{
				Key:      key,
				Severity: "error",
				Message:  fmt.Sprintf("%s is not a number: %q", key, raw),
				Fix:      fmt.Sprintf("bidkit config set %s %v", key, Defaults[key]),
			})
		case v < 0:
			issues = append(issues, ConfigIssue{
				Key:      key,
				Severity: "error",
				Message:  fmt.Sprintf("%s must not be negative, got %g", key, v),
				Fix:      fmt.Sprintf("bidkit config set %s %v", key, Defaults[key]),
			})
		}
	}
	if v := viper.GetFloat64("rates.vat"); v > 100 {
		issues = append(issues, ConfigIssue{
			Key:      "rates.vat",
			Severity: "warning",
			Message:  fmt.Sprintf("rates.vat is a percentage, %g looks too large", v),
		})
	}

	pattern := viper.GetString("source.pattern")
	if _, err := regexp.Compile(pattern); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "source.pattern",
			Severity: "error",
			Message:  fmt.Sprintf("source.pattern is not a valid regular expression: %v", err),
			Fix:      fmt.Sprintf("bidkit config set source.pattern '%s'", Defaults["source.pattern"]),
		})
	}

	if dir := viper.GetString("output.dir"); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			issues = append(issues, ConfigIssue{
				Key:      "output.dir",
				Severity: "warning",
				Message:  fmt.Sprintf("output folder %s does not exist", dir),
				Fix:      "mkdir -p " + dir,
			})
		}
	}

	if len(issues) == 0 {
		issues = append(issues, ConfigIssue{
			Key:      "",
			Severity: "info",
			Message:  "configuration looks good",
		})
	}
	return issues
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)
	for k := range Defaults {
		if v := viper.GetString(k); v != "" {
			env[EnvName(k)] = v
		}
	}
	return env
}

// EnvName is the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	if _, ok := Defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q; run 'bidkit config show' to list keys", key)
	}
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for k, v := range Defaults {
		viper.Set(k, v)
	}
	return nil
}

// SaveConfig writes the current config to ~/.bidkit/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("Bidder\n")
	sb.WriteString(fmt.Sprintf("  bidder:            %s\n", viper.GetString("bidder")))
	sb.WriteString("\n")

	sb.WriteString("Rates\n")
	sb.WriteString(fmt.Sprintf("  vat:               %s%%\n", viper.GetString("rates.vat")))
	sb.WriteString(fmt.Sprintf("  consumption:       %s%%\n", viper.GetString("rates.consumption")))
	sb.WriteString(fmt.Sprintf("  tax:               %s\n", viper.GetString("rates.tax")))
	sb.WriteString("\n")

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  dir:               %s\n", viper.GetString("output.dir")))
	sb.WriteString(fmt.Sprintf("  quotation_prefix:  %s\n", viper.GetString("output.quotation_prefix")))
	sb.WriteString(fmt.Sprintf("  content_prefix:    %s\n", viper.GetString("output.content_prefix")))
	sb.WriteString(fmt.Sprintf("  cover_prefix:      %s\n", viper.GetString("output.cover_prefix")))
	sb.WriteString(fmt.Sprintf("  folder_prefix:     %s\n", viper.GetString("output.folder_prefix")))
	sb.WriteString(fmt.Sprintf("  color:             %t\n", viper.GetBool("output.color")))
	sb.WriteString("\n")

	sb.WriteString("Source\n")
	sb.WriteString(fmt.Sprintf("  pattern:           %s\n", viper.GetString("source.pattern")))

	return sb.String()
}
