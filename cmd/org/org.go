// Package org provides the "bidkit org" commands for the company-wide
// configuration layer.
package org

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/output"
)

// NewCommand creates the "org" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage the company-wide configuration",
		Long: `View, validate, and create the org-wide bidkit configuration.
The org config sets the bidder name and rates for every user on the
machine and can lock them so personal settings cannot override them.`,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current org configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrgConfig()
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if cfg == nil {
				if jsonOut {
					return output.PrintJSON("org show", map[string]any{"path": config.OrgConfigPath(), "present": false})
				}
				fmt.Printf("No org config found at %s\n", config.OrgConfigPath())
				fmt.Println("Personal settings apply without restriction.")
				return nil
			}

			if jsonOut {
				return output.PrintJSON("org show", map[string]any{"path": config.OrgConfigPath(), "present": true, "config": cfg})
			}

			locked := func(b bool) string {
				if b {
					return "  [LOCKED]"
				}
				return ""
			}
			fmt.Printf("Config:       %s\n\n", config.OrgConfigPath())
			if cfg.Bidder != "" {
				fmt.Printf("Bidder:       %s%s\n", cfg.Bidder, locked(cfg.Locked.Bidder))
			}
			for _, r := range []struct {
				name string
				v    *float64
			}{{"VAT", cfg.Rates.VAT}, {"Consumption", cfg.Rates.Consumption}, {"Tax", cfg.Rates.Tax}} {
				if r.v != nil {
					fmt.Printf("%-13s %g%s\n", r.name+":", *r.v, locked(cfg.Locked.Rates))
				}
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate an org config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.OrgConfigPath()
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := config.LoadOrgConfigFrom(path)
			if err != nil {
				return err
			}
			if cfg == nil {
				return fmt.Errorf("file not found: %s: %w", path, os.ErrNotExist)
			}

			issues := config.ValidateOrgConfig(cfg)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if issues == nil {
					issues = []string{}
				}
				return output.PrintJSON("org validate", map[string]any{"valid": len(issues) == 0, "issues": issues})
			}

			if len(issues) == 0 {
				fmt.Printf("Valid org config: %s\n", path)
				return nil
			}

			fmt.Printf("Validation failed (%d issues):\n", len(issues))
			for _, issue := range issues {
				fmt.Printf("  - %s\n", issue)
			}
			return fmt.Errorf("%d validation issues found", len(issues))
		},
	}
}

func newInitCmd() *cobra.Command {
	var bidder string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Print an org config template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bidder == "" {
				bidder = config.Get("bidder")
			}
			fmt.Print(config.GenerateOrgTemplate(bidder))
			return nil
		},
	}

	cmd.Flags().StringVar(&bidder, "bidder", "", "Bidder name to put in the template")
	return cmd
}
