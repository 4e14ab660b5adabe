// Package output renders audit reports for the terminal.
package output

import (
	"io"
	"sort"

	"github.com/ossvet/ghc/internal/audit"
	"github.com/ossvet/ghc/internal/model"
)

// Format identifies an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter renders a report to a writer.
type Formatter interface {
	Format(report *audit.Report, w io.Writer) error
}

// NewFormatter returns the formatter for the given format, defaulting to the
// table formatter.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}

// sortOutputs orders authors by contribution count descending, breaking ties
// by handle so runs are reproducible.
func sortOutputs(outputs []model.Output) []model.Output {
	sorted := make([]model.Output, len(outputs))
	copy(sorted, outputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, nj := len(sorted[i].Contributions), len(sorted[j].Contributions)
		if ni != nj {
			return ni > nj
		}
		return sorted[i].Handle() < sorted[j].Handle()
	})
	return sorted
}

// repoRow pairs a repository with its filtered contributions.
type repoRow struct {
	repo          model.Repo
	contributions []model.Contribution
}

// sortRepos orders repositories by contribution count descending, ties by
// full name.
func sortRepos(perRepo map[model.Repo][]model.Contribution) []repoRow {
	rows := make([]repoRow, 0, len(perRepo))
	for repo, contributions := range perRepo {
		rows = append(rows, repoRow{repo: repo, contributions: contributions})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ni, nj := len(rows[i].contributions), len(rows[j].contributions)
		if ni != nj {
			return ni > nj
		}
		return rows[i].repo.String() < rows[j].repo.String()
	})
	return rows
}
