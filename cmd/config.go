package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ossvet/ghc/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(NewCmdConfigShow())
	cmd.AddCommand(NewCmdConfigInit())
	return cmd
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n", path)
			fmt.Printf("Company organizations: %v\n", cfg.CompanyOrganizations)
			fmt.Printf("Tracked repos: %d\n", len(cfg.Repos))
			fmt.Printf("Tracked orgs: %d\n", len(cfg.Orgs))
			fmt.Printf("User overrides: %d\n", len(cfg.UserOverrides))
			fmt.Printf("Excluded logins: %d\n", len(cfg.UsersExclude))

			if os.Getenv("GITHUB_TOKEN") != "" {
				fmt.Println("GitHub token: (set via GITHUB_TOKEN env)")
			} else {
				fmt.Println("GitHub token: (not set - set GITHUB_TOKEN env var)")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", config.DefaultPath, "path to configuration file")
	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.MinimalConfig()), 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", config.DefaultPath, "path to configuration file")
	return cmd
}
