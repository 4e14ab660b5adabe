package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ossvet/ghc/config"
	"github.com/ossvet/ghc/internal/audit"
	"github.com/ossvet/ghc/internal/ghclient"
	"github.com/ossvet/ghc/internal/log"
	"github.com/ossvet/ghc/internal/model"
	"github.com/ossvet/ghc/internal/output"
)

// addAuditFlags registers the audit flags on a command.
func addAuditFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "path to configuration file")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "", "contribution window start in RFC3339, e.g. 2021-05-01T00:00:00-00:00")
	cmd.Flags().StringVarP(&opts.Until, "until", "u", "", "contribution window end in RFC3339 (exclusive)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&opts.IncludeMembers, "include-members", false, "keep company members in the report")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "increase verbosity (-v, -vv)")
}

// NewCmdAudit creates the audit command.
func NewCmdAudit(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the contribution audit",
		Long: `Collects issues, reviews and commits from the configured repositories,
groups them by author, and reports external contributors after applying the
configured exclusion rules and date window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts)
		},
	}
	addAuditFlags(cmd, opts)
	return cmd
}

func runAudit(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	// Pick up GITHUB_TOKEN from a local .env if present
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	since, err := parseTimeFlag(opts.Since)
	if err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}
	until, err := parseTimeFlag(opts.Until)
	if err != nil {
		return fmt.Errorf("invalid --until: %w", err)
	}

	token := config.GitHubToken()
	if token == "" {
		return fmt.Errorf("GitHub token not configured. Set the GITHUB_TOKEN environment variable")
	}

	ctx := cmd.Context()
	client, err := ghclient.NewClient(ctx, token)
	if err != nil {
		return err
	}

	report, err := audit.New(client, cfg, since, until).Run(ctx)
	if err != nil {
		return err
	}

	if !opts.IncludeMembers {
		report = externalOnly(report)
	}

	formatter := output.NewFormatter(output.Format(opts.Format))
	return formatter.Format(report, os.Stdout)
}

// parseTimeFlag parses an RFC3339 window bound; an empty flag means the
// bound is open.
func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// externalOnly drops authors whose membership resolved true and rebuilds the
// per-repository view from the remaining contributions.
func externalOnly(report *audit.Report) *audit.Report {
	var outputs []model.Output
	for _, output := range report.Outputs {
		if output.Member {
			continue
		}
		outputs = append(outputs, output)
	}
	return &audit.Report{
		Outputs: outputs,
		PerRepo: model.GroupByRepo(outputs),
	}
}
