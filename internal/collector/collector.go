// Package collector turns raw repository activity into unified contributions.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/ghclient"
	"github.com/ossvet/ghc/internal/log"
	"github.com/ossvet/ghc/internal/model"
	"golang.org/x/sync/errgroup"
)

// Collector fetches issues, reviews and commits for tracked repositories and
// converts them into the unified contribution representation.
type Collector struct {
	src   ghclient.Source
	since *time.Time
	until *time.Time
}

// New creates a Collector. The window bounds are forwarded to the commits
// endpoint; issue and review windowing happens later in the policy filter.
func New(src ghclient.Source, since, until *time.Time) *Collector {
	return &Collector{src: src, since: since, until: until}
}

// Contributions collects all activity on one repository. The three sources
// are fetched concurrently and all must succeed; a repository with issues,
// pull requests or commits unavailable contributes an empty list for that
// source instead of failing.
func (c *Collector) Contributions(ctx context.Context, repo model.Repo) ([]model.Contribution, error) {
	var (
		issues  []model.Contribution
		reviews []model.Contribution
		commits []model.Contribution
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		issues, err = c.issues(gctx, repo)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = c.reviews(gctx, repo)
		return err
	})
	g.Go(func() error {
		var err error
		commits, err = c.commits(gctx, repo)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collecting %s: %w", repo, err)
	}

	all := make([]model.Contribution, 0, len(issues)+len(reviews)+len(commits))
	all = append(all, issues...)
	all = append(all, reviews...)
	all = append(all, commits...)

	log.Info("collected repository activity", "repo", repo.String(),
		"issues", len(issues), "reviews", len(reviews), "commits", len(commits))
	return all, nil
}

func (c *Collector) issues(ctx context.Context, repo model.Repo) ([]model.Contribution, error) {
	issues, err := c.src.Issues(ctx, repo)
	if err != nil {
		if ghclient.IsIssuesDisabled(err) {
			log.Debug("issues disabled, skipping", "repo", repo.String())
			return nil, nil
		}
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	out := make([]model.Contribution, 0, len(issues))
	for _, issue := range issues {
		out = append(out, model.IssueContribution(repo, issue))
	}
	return out, nil
}

// reviews is a two-stage fetch: the pull request list first, then the
// reviews of every pull request, fanned out concurrently. A failure on any
// single pull request aborts the whole reviews fetch for the repository.
func (c *Collector) reviews(ctx context.Context, repo model.Repo) ([]model.Contribution, error) {
	pulls, err := c.src.PullRequests(ctx, repo)
	if err != nil {
		if ghclient.IsPullsDisabled(err) {
			log.Debug("pull requests unavailable, skipping", "repo", repo.String())
			return nil, nil
		}
		return nil, fmt.Errorf("listing pull requests: %w", err)
	}

	perPull := make([][]*github.PullRequestReview, len(pulls))
	g, gctx := errgroup.WithContext(ctx)

	for i, pull := range pulls {
		i, pull := i, pull
		g.Go(func() error {
			reviews, err := c.src.Reviews(gctx, repo, pull.GetNumber())
			if err != nil {
				return fmt.Errorf("listing reviews for #%d: %w", pull.GetNumber(), err)
			}
			perPull[i] = reviews
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Contribution
	for _, reviews := range perPull {
		for _, review := range reviews {
			out = append(out, model.ReviewContribution(repo, review))
		}
	}
	return out, nil
}

func (c *Collector) commits(ctx context.Context, repo model.Repo) ([]model.Contribution, error) {
	commits, err := c.src.Commits(ctx, repo, c.since, c.until)
	if err != nil {
		if ghclient.IsCommitsUnavailable(err) {
			log.Debug("commits unavailable, skipping", "repo", repo.String())
			return nil, nil
		}
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	out := make([]model.Contribution, 0, len(commits))
	for _, commit := range commits {
		// List entries normally embed the commit author date; fall back to a
		// single-commit fetch when a record arrives without it.
		if commit.GetCommit().GetAuthor().GetDate().Time.IsZero() {
			full, err := c.src.Commit(ctx, repo, commit.GetSHA())
			if err != nil {
				return nil, err
			}
			commit = full
		}
		out = append(out, model.CommitContribution(repo, commit))
	}
	return out, nil
}
