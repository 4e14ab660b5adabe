package output

import (
	"encoding/json"
	"io"

	"github.com/ossvet/ghc/internal/audit"
	"github.com/ossvet/ghc/internal/model"
)

// JSONFormatter renders the report as a JSON document.
type JSONFormatter struct{}

type authorEntry struct {
	Author  *model.EnrichedAuthor `json:"author"`
	Member  bool                  `json:"member"`
	Issues  int                   `json:"issues"`
	Reviews int                   `json:"reviews"`
	Commits int                   `json:"commits"`
	Total   int                   `json:"total"`
}

type repoEntry struct {
	Repo    string `json:"repo"`
	Issues  int    `json:"issues"`
	Reviews int    `json:"reviews"`
	Commits int    `json:"commits"`
	Total   int    `json:"total"`
}

type document struct {
	Authors            []authorEntry `json:"authors"`
	Repos              []repoEntry   `json:"repos"`
	TotalContributions int           `json:"total_contributions"`
}

// Format writes the report as indented JSON.
func (f *JSONFormatter) Format(report *audit.Report, w io.Writer) error {
	doc := document{
		Authors: []authorEntry{},
		Repos:   []repoEntry{},
	}

	for _, output := range sortOutputs(report.Outputs) {
		counts := model.CountsOf(output.Contributions)
		doc.Authors = append(doc.Authors, authorEntry{
			Author:  output.Author,
			Member:  output.Member,
			Issues:  counts.Issues,
			Reviews: counts.Reviews,
			Commits: counts.Commits,
			Total:   counts.Total(),
		})
		doc.TotalContributions += counts.Total()
	}

	for _, row := range sortRepos(report.PerRepo) {
		counts := model.CountsOf(row.contributions)
		doc.Repos = append(doc.Repos, repoEntry{
			Repo:    row.repo.String(),
			Issues:  counts.Issues,
			Reviews: counts.Reviews,
			Commits: counts.Commits,
			Total:   counts.Total(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
