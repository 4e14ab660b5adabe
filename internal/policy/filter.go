package policy

import (
	"strings"
	"time"

	"github.com/ossvet/ghc/internal/enrich"
	"github.com/ossvet/ghc/internal/model"
)

// Filter holds the run's read-only policy inputs.
type Filter struct {
	Since         *time.Time
	Until         *time.Time
	ExcludeLogins []string
	Rules         RuleSet
}

// DropExcludedLogins removes whole author groups whose login appears on the
// explicit exclude list. It runs before enrichment so excluded authors never
// cost profile or membership calls.
func (f *Filter) DropExcludedLogins(groups []enrich.Group) []enrich.Group {
	if len(f.ExcludeLogins) == 0 {
		return groups
	}

	kept := groups[:0]
	for _, group := range groups {
		if group.Key.Known && f.loginExcluded(group.User.GetLogin()) {
			continue
		}
		kept = append(kept, group)
	}
	return kept
}

func (f *Filter) loginExcluded(login string) bool {
	for _, excluded := range f.ExcludeLogins {
		if strings.EqualFold(excluded, login) {
			return true
		}
	}
	return false
}

// Apply filters each author's contributions by the date window and the
// per-repository exclusion rules. Groups left with no contributions are
// suppressed entirely.
func (f *Filter) Apply(groups []enrich.Enriched) []model.Output {
	var outputs []model.Output

	for _, group := range groups {
		var kept []model.Contribution
		for _, contribution := range group.Contributions {
			if !f.inWindow(contribution) {
				continue
			}
			if f.Rules.Excludes(contribution.Repo, group.Author) {
				continue
			}
			kept = append(kept, contribution)
		}
		if len(kept) == 0 {
			continue
		}
		outputs = append(outputs, model.Output{
			Author:        group.Author,
			Member:        group.Member,
			Contributions: kept,
		})
	}
	return outputs
}

// inWindow reports whether the contribution falls inside [since, until).
// Contributions without a creation timestamp are always retained. Instants
// are compared directly, which is equivalent to converting the bound into the
// contribution's own offset first.
func (f *Filter) inWindow(contribution model.Contribution) bool {
	created, ok := contribution.CreatedAt()
	if !ok {
		return true
	}
	if f.Since != nil && created.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !created.Before(*f.Until) {
		return false
	}
	return true
}
