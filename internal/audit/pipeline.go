// Package audit wires collection, enrichment and policy filtering into the
// full contribution audit pipeline.
package audit

import (
	"context"
	"time"

	"github.com/ossvet/ghc/config"
	"github.com/ossvet/ghc/internal/collector"
	"github.com/ossvet/ghc/internal/enrich"
	"github.com/ossvet/ghc/internal/ghclient"
	"github.com/ossvet/ghc/internal/log"
	"github.com/ossvet/ghc/internal/model"
	"github.com/ossvet/ghc/internal/policy"
	"golang.org/x/sync/errgroup"
)

// Report is the audit result: one Output per surviving author plus the pure
// per-repository reprojection of the same contributions.
type Report struct {
	Outputs []model.Output
	PerRepo map[model.Repo][]model.Contribution
}

// Pipeline runs the contribution audit over the configured repositories.
type Pipeline struct {
	src   ghclient.Source
	cfg   *config.Config
	since *time.Time
	until *time.Time
}

// New creates a Pipeline. The window bounds may be nil for an open range.
func New(src ghclient.Source, cfg *config.Config, since, until *time.Time) *Pipeline {
	return &Pipeline{src: src, cfg: cfg, since: since, until: until}
}

// Run executes the audit: resolve tracked repositories, collect activity
// concurrently across them, group and enrich authors, then apply policy.
// Any unrecovered failure aborts the run; no partial report is produced.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	tracked, err := p.trackedRepos(ctx)
	if err != nil {
		return nil, err
	}

	filter := &policy.Filter{
		Since:         p.since,
		Until:         p.until,
		ExcludeLogins: p.cfg.UsersExclude,
		Rules:         policy.CompileRules(exclusionsByRepo(tracked)),
	}

	contributions, err := p.collect(ctx, tracked)
	if err != nil {
		return nil, err
	}

	groups := enrich.GroupByAuthor(contributions)
	groups = filter.DropExcludedLogins(groups)

	enricher := enrich.New(p.src, p.cfg.OverrideMap(), p.cfg.CompanyOrganizations)
	enriched, err := enricher.Enrich(ctx, groups)
	if err != nil {
		return nil, err
	}

	outputs := filter.Apply(enriched)
	return &Report{
		Outputs: outputs,
		PerRepo: model.GroupByRepo(outputs),
	}, nil
}

// trackedRepos merges the explicitly configured repositories with the
// expansion of tracked organizations. An explicit repo entry wins over the
// same repository arriving through its organization.
func (p *Pipeline) trackedRepos(ctx context.Context) ([]config.RepoConfig, error) {
	tracked := make([]config.RepoConfig, 0, len(p.cfg.Repos))
	seen := make(map[model.Repo]bool)

	for _, repo := range p.cfg.Repos {
		tracked = append(tracked, repo)
		seen[repo.Repo] = true
	}

	for _, org := range p.cfg.Orgs {
		repos, err := p.src.OrgRepos(ctx, org.Name)
		if err != nil {
			return nil, err
		}
		log.Info("expanded organization", "org", org.Name, "repos", len(repos))
		for _, repo := range repos {
			if seen[repo] {
				continue
			}
			seen[repo] = true
			tracked = append(tracked, config.RepoConfig{
				Repo:             repo,
				CompaniesExclude: org.CompaniesExclude,
			})
		}
	}
	return tracked, nil
}

// collect fans out one collection task per repository and joins fail-fast:
// a failure on any repository aborts the run.
func (p *Pipeline) collect(ctx context.Context, tracked []config.RepoConfig) ([]model.Contribution, error) {
	coll := collector.New(p.src, p.since, p.until)
	log.Progress("Collecting contributions from %d repositories...", len(tracked))

	perRepo := make([][]model.Contribution, len(tracked))
	g, gctx := errgroup.WithContext(ctx)

	for i, repo := range tracked {
		i, repo := i, repo
		g.Go(func() error {
			contributions, err := coll.Contributions(gctx, repo.Repo)
			if err != nil {
				return err
			}
			perRepo[i] = contributions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.ProgressDone()

	var all []model.Contribution
	for _, contributions := range perRepo {
		all = append(all, contributions...)
	}
	return all, nil
}

func exclusionsByRepo(tracked []config.RepoConfig) map[model.Repo][]string {
	byRepo := make(map[model.Repo][]string, len(tracked))
	for _, repo := range tracked {
		if len(repo.CompaniesExclude) > 0 {
			byRepo[repo.Repo] = repo.CompaniesExclude
		}
	}
	return byRepo
}
