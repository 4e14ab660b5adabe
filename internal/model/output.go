package model

// Output is the final per-author record: the enriched identity (nil for the
// unknown-author group), whether the author belongs to a configured company
// organization, and the contributions that survived filtering. An Output is
// never emitted with an empty contribution list.
type Output struct {
	Author        *EnrichedAuthor `json:"author"`
	Member        bool            `json:"member"`
	Contributions []Contribution  `json:"-"`
}

// Handle returns the display name for the author column.
func (o Output) Handle() string {
	if o.Author == nil {
		return "None"
	}
	return o.Author.Login
}

// Counts tallies contributions by kind.
type Counts struct {
	Issues  int `json:"issues"`
	Reviews int `json:"reviews"`
	Commits int `json:"commits"`
}

// Total returns the number of contributions across all kinds.
func (c Counts) Total() int {
	return c.Issues + c.Reviews + c.Commits
}

// CountsOf tallies a contribution list by kind.
func CountsOf(contributions []Contribution) Counts {
	var c Counts
	for _, contribution := range contributions {
		switch contribution.Kind() {
		case KindIssue:
			c.Issues++
		case KindReview:
			c.Reviews++
		case KindCommit:
			c.Commits++
		}
	}
	return c
}

// GroupByRepo reprojects already-filtered outputs into a per-repository view.
// No membership or date logic is re-applied here.
func GroupByRepo(outputs []Output) map[Repo][]Contribution {
	perRepo := make(map[Repo][]Contribution)
	for _, output := range outputs {
		for _, contribution := range output.Contributions {
			perRepo[contribution.Repo] = append(perRepo[contribution.Repo], contribution)
		}
	}
	return perRepo
}
