// Package enrich groups contributions by author identity and augments each
// author with profile and company-membership data.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/ghclient"
	"github.com/ossvet/ghc/internal/log"
	"github.com/ossvet/ghc/internal/model"
	"golang.org/x/sync/errgroup"
)

// Group is one author's contribution set before enrichment. User is the
// embedded snapshot from the first contribution seen for this author; it is
// display/lookup material only, never the grouping key.
type Group struct {
	Key           model.AuthorKey
	User          *github.User
	Contributions []model.Contribution
}

// Enriched is one author's contribution set after profile and membership
// resolution.
type Enriched struct {
	Author        *model.EnrichedAuthor
	Member        bool
	Contributions []model.Contribution
}

// GroupByAuthor partitions contributions by stable account identity. All
// contributions without a resolvable account share a single group. Group
// order follows first appearance; within a group, arrival order is kept.
func GroupByAuthor(contributions []model.Contribution) []Group {
	index := make(map[model.AuthorKey]int)
	var groups []Group

	for _, contribution := range contributions {
		user := contribution.User()
		key := model.KeyFor(user)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, User: user})
		}
		groups[i].Contributions = append(groups[i].Contributions, contribution)
	}
	return groups
}

// Enricher resolves author profiles and company membership.
type Enricher struct {
	src         ghclient.Source
	overrides   map[string]string // lowercased login -> company
	companyOrgs []string
}

// New creates an Enricher. overrides maps logins to manually assigned
// companies; companyOrgs are the organizations whose members count as
// company-affiliated.
func New(src ghclient.Source, overrides map[string]string, companyOrgs []string) *Enricher {
	lowered := make(map[string]string, len(overrides))
	for login, company := range overrides {
		lowered[strings.ToLower(login)] = company
	}
	return &Enricher{src: src, overrides: lowered, companyOrgs: companyOrgs}
}

// Enrich resolves every group concurrently. A profile fetch that fails with
// the platform's not-found cause degrades to an empty profile; any other
// failure aborts the batch.
func (e *Enricher) Enrich(ctx context.Context, groups []Group) ([]Enriched, error) {
	results := make([]Enriched, len(groups))
	g, gctx := errgroup.WithContext(ctx)

	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			enriched, err := e.enrichGroup(gctx, group)
			if err != nil {
				return err
			}
			results[i] = enriched
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Enricher) enrichGroup(ctx context.Context, group Group) (Enriched, error) {
	// Authorless commits: nothing to resolve.
	if !group.Key.Known {
		return Enriched{Contributions: group.Contributions}, nil
	}

	login := group.User.GetLogin()

	// A configured override skips both the profile fetch and the membership
	// calls. Membership is decided by comparing the override company against
	// the configured company organizations.
	if company, ok := e.overrides[strings.ToLower(login)]; ok {
		log.Debug("using override", "login", login, "company", company)
		return Enriched{
			Author: &model.EnrichedAuthor{
				ID:      group.Key.ID,
				Login:   login,
				Company: company,
			},
			Member:        e.companyMatches(company),
			Contributions: group.Contributions,
		}, nil
	}

	author, err := e.profile(ctx, group)
	if err != nil {
		return Enriched{}, err
	}

	member, err := e.membership(ctx, login)
	if err != nil {
		return Enriched{}, err
	}

	return Enriched{
		Author:        author,
		Member:        member,
		Contributions: group.Contributions,
	}, nil
}

func (e *Enricher) profile(ctx context.Context, group Group) (*model.EnrichedAuthor, error) {
	login := group.User.GetLogin()

	user, err := e.src.User(ctx, login)
	if err != nil {
		if ghclient.IsNotFound(err) {
			// Account deleted since the contribution was recorded. Keep the
			// identity from the snapshot and carry no company or email.
			log.Debug("profile not found, degrading", "login", login)
			return &model.EnrichedAuthor{ID: group.Key.ID, Login: login}, nil
		}
		return nil, fmt.Errorf("fetching profile for %s: %w", login, err)
	}

	return &model.EnrichedAuthor{
		ID:      user.GetID(),
		Login:   user.GetLogin(),
		Company: user.GetCompany(),
		Email:   user.GetEmail(),
	}, nil
}

// membership ORs organization membership across the configured company orgs,
// stopping at the first hit.
func (e *Enricher) membership(ctx context.Context, login string) (bool, error) {
	for _, org := range e.companyOrgs {
		member, err := e.src.OrgMember(ctx, org, login)
		if err != nil {
			return false, err
		}
		if member {
			return true, nil
		}
	}
	return false, nil
}

func (e *Enricher) companyMatches(company string) bool {
	for _, org := range e.companyOrgs {
		if strings.EqualFold(company, org) {
			return true
		}
	}
	return false
}
