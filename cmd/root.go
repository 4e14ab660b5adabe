package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "ghc",
		Short: "GitHub contribution auditor",
		Long: `Audits activity on a set of GitHub repositories to find external
contributors: it collects issues, reviews and commits, resolves each author's
company affiliation and organization membership, and reports who contributed
from outside the configured company.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Audit flags live on the root command so `ghc` and `ghc audit` work
	// identically
	addAuditFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdAudit(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
