// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/output"
)

// descriptions explain each key in 'bidkit config show --keys'.
var descriptions = map[string]string{
	"bidder":                  "bidder name on the bid-opening sheet and covers",
	"output.dir":              "folder generated files are written to",
	"output.quotation_prefix": "file name prefix of the quotation workbook",
	"output.content_prefix":   "file name prefix of the table of contents",
	"output.cover_prefix":     "file name prefix of the cover document",
	"output.folder_prefix":    "name prefix of the folder tree root",
	"output.color":            "colored terminal output",
	"source.pattern":          "regular expression used to find the project file",
	"rates.vat":               "VAT rate in percent, used for the tax rebate",
	"rates.consumption":       "consumption tax rate in percent, used for the tax rebate",
	"rates.tax":               "tax fee rate on the internal quote subtotal (税金费率)",
}

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bidkit configuration",
		Long: `Interactive setup, view, and modify bidkit settings: the bidder name,
the tax and VAT rates used in the quotation, output file prefixes and the
project file pattern. Every key can be overridden with a BIDKIT_ variable,
e.g. BIDKIT_RATES_VAT=9.`,
	}

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newResetCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newEnvCommand())

	return cmd
}

func keys() []string {
	ks := make([]string, 0, len(config.Defaults))
	for k := range config.Defaults {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, k := range keys() {
		out = append(out, k+"\t"+descriptions[k])
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if _, ok := config.Defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q; run 'bidkit config show --keys' to list keys", key)
	}
	return nil
}

func newInitCommand() *cobra.Command {
	var noInteractive bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactive setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if noInteractive {
				if err := config.WizardNonInteractive(); err != nil {
					return err
				}
				fmt.Printf("Wrote defaults to %s\n", config.ConfigPath())
				return nil
			}
			return config.Wizard(nil, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Skip prompts, use defaults")
	return cmd
}

func newShowCommand() *cobra.Command {
	var listKeys bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			jsonFlag, _ := cmd.Flags().GetBool("json")

			if jsonFlag {
				values := make(map[string]string, len(config.Defaults))
				for _, k := range keys() {
					values[k] = config.Get(k)
				}
				return output.PrintJSON("config show", values)
			}

			if listKeys {
				dim := color.New(color.FgHiBlack).SprintFunc()
				for _, k := range keys() {
					fmt.Printf("  %-24s %s\n", k, dim(descriptions[k]))
					fmt.Printf("  %-24s %s %s\n", "", dim("env"), config.EnvName(k))
				}
				return nil
			}

			fmt.Print(config.ShowConfig())
			return nil
		},
	}
	cmd.Flags().BoolVar(&listKeys, "keys", false, "List every key with its meaning and environment variable")
	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration value",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkKey(args[0]); err != nil {
				return err
			}
			if _, err := config.Load(); err != nil {
				return err
			}
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			if env := config.EnvName(args[0]); os.Getenv(env) != "" {
				color.New(color.FgYellow).Printf("Note: %s is set and overrides this value\n", env)
			}
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a configuration value",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkKey(args[0]); err != nil {
				return err
			}
			if _, err := config.Load(); err != nil {
				return err
			}
			val := config.Get(args[0])

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("config get", map[string]string{"key": args[0], "value": val})
			}
			if val == "" {
				fmt.Printf("%s: (not set)\n", args[0])
			} else {
				fmt.Printf("%s: %s\n", args[0], val)
			}
			return nil
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ResetConfig(); err != nil {
				return err
			}
			fmt.Printf("Configuration reset to defaults (%s removed)\n", config.ConfigPath())
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config, org config and history file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("config path", map[string]string{
					"config": config.ConfigPath(),
					"org":    config.OrgConfigPath(),
					"dir":    config.Dir(),
				})
			}
			fmt.Println(config.ConfigPath())
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			issues := config.Validate()

			var errCount, warnCount int
			for _, issue := range issues {
				switch issue.Severity {
				case "error":
					errCount++
				case "warning":
					warnCount++
				}
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				if err := output.PrintJSON("config validate", issues); err != nil {
					return err
				}
			} else {
				printIssues(issues, errCount, warnCount)
			}
			if errCount > 0 {
				return fmt.Errorf("configuration has %d error(s)", errCount)
			}
			return nil
		},
	}
}

func printIssues(issues []config.ConfigIssue, errCount, warnCount int) {
	if errCount == 0 && warnCount == 0 {
		color.New(color.FgGreen).Println("Configuration is valid")
		return
	}

	fmt.Printf("Config validation: %d errors, %d warnings\n\n", errCount, warnCount)
	for _, issue := range issues {
		switch issue.Severity {
		case "error":
			color.New(color.FgRed).Printf("  %s\n", issue.Message)
		case "warning":
			color.New(color.FgYellow).Printf("  %s\n", issue.Message)
		default:
			color.New(color.FgGreen).Printf("  %s\n", issue.Message)
		}
		if issue.Fix != "" {
			fmt.Printf("   Fix: %s\n", issue.Fix)
		}
	}
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Export configuration as environment variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			env := config.ToEnv()

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				return output.PrintJSON("config env", env)
			}

			names := make([]string, 0, len(env))
			for k := range env {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				fmt.Printf("export %s=%q\n", k, env[k])
			}
			return nil
		},
	}
}
