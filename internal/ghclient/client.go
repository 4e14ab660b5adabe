package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/log"
	"github.com/ossvet/ghc/internal/model"
	"golang.org/x/oauth2"
)

const perPage = 100

// rateLimitTransport wraps an http.RoundTripper to handle GitHub rate limits
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Check if we're already rate limited before making the request
	if globalRateLimitState.IsLimited() {
		return nil, ErrRateLimited
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	// Parse and update rate limit state from response headers
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		globalRateLimitState.Update(remaining, limit, resetAt)
	}

	if remaining <= RateLimitLowWatermark && remaining > 0 {
		log.Warn("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	// Handle rate limit responses (403 with rate limit exceeded or 429)
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			globalRateLimitState.SetLimited(true, resetAt)
			_ = resp.Body.Close()
			return nil, ErrRateLimited
		}
	}

	return resp, err
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// Client wraps the GitHub API client. It is stateless per call and safe for
// concurrent use; one Client is constructed per run and shared by every
// component that issues requests.
type Client struct {
	client *gh.Client
}

// NewClient creates a new GitHub client using a personal access token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	// Wrap transport with rate limit handling
	tc.Transport = &rateLimitTransport{
		base: tc.Transport,
	}

	return &Client{client: gh.NewClient(tc)}, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// Issues lists every issue on the repository, newest first. Pull requests
// surfaced by the issues endpoint are filtered out.
func (c *Client) Issues(ctx context.Context, repo model.Repo) ([]*gh.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	issues, err := collectPages(ctx, func(ctx context.Context, page int) ([]*gh.Issue, *gh.Response, error) {
		opts.Page = page
		return c.client.Issues.ListByRepo(ctx, repo.Org, repo.Name, opts)
	})
	if err != nil {
		return nil, err
	}

	filtered := issues[:0]
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		filtered = append(filtered, issue)
	}
	return filtered, nil
}

// PullRequests lists every pull request on the repository, newest first.
func (c *Client) PullRequests(ctx context.Context, repo model.Repo) ([]*gh.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	return collectPages(ctx, func(ctx context.Context, page int) ([]*gh.PullRequest, *gh.Response, error) {
		opts.Page = page
		return c.client.PullRequests.List(ctx, repo.Org, repo.Name, opts)
	})
}

// Reviews lists every review on one pull request.
func (c *Client) Reviews(ctx context.Context, repo model.Repo, number int) ([]*gh.PullRequestReview, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	return collectPages(ctx, func(ctx context.Context, page int) ([]*gh.PullRequestReview, *gh.Response, error) {
		opts.Page = page
		return c.client.PullRequests.ListReviews(ctx, repo.Org, repo.Name, number, opts)
	})
}

// Commits lists commits on the repository's default branch. The window
// bounds are passed through to the API as ISO-8601 query parameters when set.
func (c *Client) Commits(ctx context.Context, repo model.Repo, since, until *time.Time) ([]*gh.RepositoryCommit, error) {
	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	if since != nil {
		opts.Since = *since
	}
	if until != nil {
		opts.Until = *until
	}

	return collectPages(ctx, func(ctx context.Context, page int) ([]*gh.RepositoryCommit, *gh.Response, error) {
		opts.Page = page
		return c.client.Repositories.ListCommits(ctx, repo.Org, repo.Name, opts)
	})
}

// Commit fetches a single commit, used when a list entry arrives without its
// embedded author metadata.
func (c *Client) Commit(ctx context.Context, repo model.Repo, sha string) (*gh.RepositoryCommit, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, repo.Org, repo.Name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s on %s: %w", sha, repo, err)
	}
	return commit, nil
}

// User fetches the full profile for a login. Callers distinguish a deleted
// account with IsNotFound.
func (c *Client) User(ctx context.Context, login string) (*gh.User, error) {
	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// OrgMember reports whether login is a member of org. A 404 from the
// membership endpoint means "not a member", not an error.
func (c *Client) OrgMember(ctx context.Context, org, login string) (bool, error) {
	member, _, err := c.client.Organizations.IsMember(ctx, org, login)
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership in %s: %w", login, org, err)
	}
	return member, nil
}

// OrgRepos lists every repository owned by an organization.
func (c *Client) OrgRepos(ctx context.Context, org string) ([]model.Repo, error) {
	opts := &gh.RepositoryListByOrgOptions{
		Type:        "sources",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	repos, err := collectPages(ctx, func(ctx context.Context, page int) ([]*gh.Repository, *gh.Response, error) {
		opts.Page = page
		return c.client.Repositories.ListByOrg(ctx, org, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}

	out := make([]model.Repo, 0, len(repos))
	for _, repo := range repos {
		out = append(out, model.Repo{Org: org, Name: repo.GetName()})
	}
	return out, nil
}
