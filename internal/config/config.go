// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Bidder string `mapstructure:"bidder"`
	Output struct {
		Dir             string `mapstructure:"dir"`
		QuotationPrefix string `mapstructure:"quotation_prefix"`
		ContentPrefix   string `mapstructure:"content_prefix"`
		CoverPrefix     string `mapstructure:"cover_prefix"`
		FolderPrefix    string `mapstructure:"folder_prefix"`
		Color           bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Source struct {
		Pattern string `mapstructure:"pattern"`
	} `mapstructure:"source"`
	Rates struct {
		VAT         float64 `mapstructure:"vat"`
		Consumption float64 `mapstructure:"consumption"`
		Tax         float64 `mapstructure:"tax"`
	} `mapstructure:"rates"`
}

// Defaults are the values used when neither the config file nor the
// environment sets a key.
var Defaults = map[string]any{
	"bidder":                  "中国海外经济合作有限公司",
	"output.dir":              ".",
	"output.quotation_prefix": "投标报价表",
	"output.content_prefix":   "content",
	"output.cover_prefix":     "封面",
	"output.folder_prefix":    "投标文件",
	"output.color":            true,
	"source.pattern":          `^project.*\.docx$`,
	"rates.vat":               13.0,
	"rates.consumption":       0.0,
	"rates.tax":               0.0003,
}

// EnvPrefix is the prefix of environment overrides, e.g. BIDKIT_RATES_VAT.
const EnvPrefix = "BIDKIT"

// Load reads the configuration from ~/.bidkit/config.yaml and environment variables.
// Values from the organization file act as defaults below both.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()
	org, err := LoadOrgConfig()
	if err != nil {
		return nil, err
	}
	org.apply()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	org.enforce(&cfg)
	return &cfg, nil
}

func setDefaults() {
	for k, v := range Defaults {
		viper.SetDefault(k, v)
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bidkit"
	}
	return filepath.Join(home, ".bidkit")
}

// UseFile reads the configuration from path instead of
// ~/.bidkit/config.yaml.
func UseFile(path string) {
	viper.SetConfigFile(path)
}

// Dir returns the directory holding the config file and the run history.
func Dir() string {
	return configDir()
}
