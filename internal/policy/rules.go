// Package policy applies the configured exclusion rules and date window to
// grouped contributions.
package policy

import (
	"regexp"

	"github.com/ossvet/ghc/internal/model"
)

// ExcludeRule is one compiled company exclusion: a case-insensitive company
// pattern matched anywhere in the author's company string, and an email
// pattern matching the company token as a domain label (between an "@" or "."
// boundary and a following ".").
type ExcludeRule struct {
	company *regexp.Regexp
	email   *regexp.Regexp
}

// CompileRule builds the exclusion patterns for one configured company name.
func CompileRule(company string) ExcludeRule {
	quoted := regexp.QuoteMeta(company)
	return ExcludeRule{
		company: regexp.MustCompile(`(?i)` + quoted),
		email:   regexp.MustCompile(`@([\w-]+\.)*(?i)` + quoted + `\.`),
	}
}

// Matches reports whether the author's company or email trips this rule.
// A nil author (unknown account) never matches.
func (r ExcludeRule) Matches(author *model.EnrichedAuthor) bool {
	if author == nil {
		return false
	}
	if author.Company != "" && r.company.MatchString(author.Company) {
		return true
	}
	if author.Email != "" && r.email.MatchString(author.Email) {
		return true
	}
	return false
}

// RuleSet holds the compiled exclusion rules per tracked repository. Rules
// are compiled once per run and shared read-only across concurrent filter
// evaluations.
type RuleSet map[model.Repo][]ExcludeRule

// CompileRules compiles per-repository company exclusion lists.
func CompileRules(companiesByRepo map[model.Repo][]string) RuleSet {
	rules := make(RuleSet, len(companiesByRepo))
	for repo, companies := range companiesByRepo {
		compiled := make([]ExcludeRule, 0, len(companies))
		for _, company := range companies {
			compiled = append(compiled, CompileRule(company))
		}
		rules[repo] = compiled
	}
	return rules
}

// Excludes reports whether any of the repository's rules matches the author.
// Contributions on repositories without configured rules are never excluded.
func (rs RuleSet) Excludes(repo model.Repo, author *model.EnrichedAuthor) bool {
	for _, rule := range rs[repo] {
		if rule.Matches(author) {
			return true
		}
	}
	return false
}
