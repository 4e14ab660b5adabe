package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ossvet/ghc/config"
	"github.com/ossvet/ghc/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
		RunE:  runRateLimit,
	}
}

func runRateLimit(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	token := config.GitHubToken()
	if token == "" {
		return fmt.Errorf("GitHub token not configured. Set the GITHUB_TOKEN environment variable")
	}

	ctx := cmd.Context()
	client, err := ghclient.NewClient(ctx, token)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(ctx)
	if err != nil {
		return err
	}

	fmt.Println("GitHub API Rate Limits:")
	fmt.Println()

	if core := limits.GetCore(); core != nil {
		resetIn := time.Until(core.Reset.Time).Round(time.Second)
		if resetIn < 0 {
			resetIn = 0
		}
		fmt.Printf("Core API:   %d/%d remaining (resets in %s)\n",
			core.Remaining, core.Limit, resetIn)
	}

	if search := limits.GetSearch(); search != nil {
		resetIn := time.Until(search.Reset.Time).Round(time.Second)
		if resetIn < 0 {
			resetIn = 0
		}
		fmt.Printf("Search API: %d/%d remaining (resets in %s)\n",
			search.Remaining, search.Limit, resetIn)
	}

	return nil
}
