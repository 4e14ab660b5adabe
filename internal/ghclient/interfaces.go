// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/model"
)

// Source defines the raw GitHub API operations the audit pipeline consumes.
// Listing operations drain pagination before returning. The interface exists
// so the collector and enricher can run against a fake in unit tests.
type Source interface {
	// Repository activity
	Issues(ctx context.Context, repo model.Repo) ([]*github.Issue, error)
	PullRequests(ctx context.Context, repo model.Repo) ([]*github.PullRequest, error)
	Reviews(ctx context.Context, repo model.Repo, number int) ([]*github.PullRequestReview, error)
	Commits(ctx context.Context, repo model.Repo, since, until *time.Time) ([]*github.RepositoryCommit, error)
	Commit(ctx context.Context, repo model.Repo, sha string) (*github.RepositoryCommit, error)

	// Author enrichment
	User(ctx context.Context, login string) (*github.User, error)
	OrgMember(ctx context.Context, org, login string) (bool, error)

	// Org expansion
	OrgRepos(ctx context.Context, org string) ([]model.Repo, error)
}

// Ensure Client implements Source.
var _ Source = (*Client)(nil)
