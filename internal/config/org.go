package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OrgConfig is the company-wide configuration layer. It provides the
// bidder name and rates for every user on a machine and can lock them.
// Read from /etc/bidkit/org.yaml (macOS/Linux) or
// C:\ProgramData\bidkit\org.yaml (Windows).
type OrgConfig struct {
	Bidder string `yaml:"bidder" json:"bidder"`

	Rates struct {
		VAT         *float64 `yaml:"vat" json:"vat,omitempty"`
		Consumption *float64 `yaml:"consumption" json:"consumption,omitempty"`
		Tax         *float64 `yaml:"tax" json:"tax,omitempty"`
	} `yaml:"rates" json:"rates"`

	Locked struct {
		Bidder bool `yaml:"bidder" json:"bidder"`
		Rates  bool `yaml:"rates" json:"rates"`
	} `yaml:"locked" json:"locked"`
}

// OrgConfigPath returns the platform-specific path for org config.
// BIDKIT_ORG_CONFIG overrides it.
func OrgConfigPath() string {
	if p := os.Getenv("BIDKIT_ORG_CONFIG"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("ProgramData"), "bidkit", "org.yaml")
	}
	return "/etc/bidkit/org.yaml"
}

// LoadOrgConfig reads the org config file. Returns nil (not error) if file does not exist.
func LoadOrgConfig() (*OrgConfig, error) {
	return LoadOrgConfigFrom(OrgConfigPath())
}

// LoadOrgConfigFrom reads the org config from a specific path.
func LoadOrgConfigFrom(path string) (*OrgConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read org config at %s: %w", path, err)
	}

	var cfg OrgConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid org config at %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidateOrgConfig checks that an org config is valid.
func ValidateOrgConfig(cfg *OrgConfig) []string {
	var issues []string
	if cfg.Locked.Bidder && cfg.Bidder == "" {
		issues = append(issues, "locked.bidder is set but bidder is empty")
	}
	for name, v := range map[string]*float64{"vat": cfg.Rates.VAT, "consumption": cfg.Rates.Consumption, "tax": cfg.Rates.Tax} {
		if v != nil && *v < 0 {
			issues = append(issues, fmt.Sprintf("rates.%s must not be negative, got %g", name, *v))
		}
	}
	return issues
}

// apply installs the org values as viper defaults.
func (o *OrgConfig) apply() {
	if o == nil {
		return
	}
	if o.Bidder != "" {
		viper.SetDefault("bidder", o.Bidder)
	}
	if o.Rates.VAT != nil {
		viper.SetDefault("rates.vat", *o.Rates.VAT)
	}
	if o.Rates.Consumption != nil {
		viper.SetDefault("rates.consumption", *o.Rates.Consumption)
	}
	if o.Rates.Tax != nil {
		viper.SetDefault("rates.tax", *o.Rates.Tax)
	}
}

// enforce overwrites locked values in cfg.
func (o *OrgConfig) enforce(cfg *Config) {
	if o == nil {
		return
	}
	if o.Locked.Bidder && o.Bidder != "" {
		cfg.Bidder = o.Bidder
	}
	if o.Locked.Rates {
		if o.Rates.VAT != nil {
			cfg.Rates.VAT = *o.Rates.VAT
		}
		if o.Rates.Consumption != nil {
			cfg.Rates.Consumption = *o.Rates.Consumption
		}
		if o.Rates.Tax != nil {
			cfg.Rates.Tax = *o.Rates.Tax
		}
	}
}

// GenerateOrgTemplate returns a YAML template for org config.
func GenerateOrgTemplate(bidder string) string {
	return fmt.Sprintf(`# bidkit organization configuration
# Deploy to: %s
# Permissions: readable by all users, writable only by root/Administrators

bidder: %q

rates:
  vat: 13
  consumption: 0
  tax: 0.0003

locked:
  bidder: false
  rates: false
`, OrgConfigPath(), bidder)
}
