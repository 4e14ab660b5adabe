package cmd

import (
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/audit"
	"github.com/ossvet/ghc/internal/model"
)

func TestParseTimeFlag(t *testing.T) {
	if got, err := parseTimeFlag(""); err != nil || got != nil {
		t.Errorf("expected an empty flag to mean an open bound, got %v, %v", got, err)
	}

	got, err := parseTimeFlag("2021-05-01T00:00:00-00:00")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseTimeFlag("2021-05-01"); err == nil {
		t.Error("expected an error for a date without a time component")
	}
}

func TestExternalOnlyDropsMembers(t *testing.T) {
	widget := model.Repo{Org: "acme", Name: "widget"}
	contribution := model.IssueContribution(widget, &github.Issue{
		CreatedAt: &github.Timestamp{Time: time.Now()},
	})

	report := &audit.Report{
		Outputs: []model.Output{
			{
				Author:        &model.EnrichedAuthor{ID: 1, Login: "insider"},
				Member:        true,
				Contributions: []model.Contribution{contribution},
			},
			{
				Author:        &model.EnrichedAuthor{ID: 2, Login: "outsider"},
				Contributions: []model.Contribution{contribution},
			},
		},
	}
	report.PerRepo = model.GroupByRepo(report.Outputs)

	filtered := externalOnly(report)
	if len(filtered.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(filtered.Outputs))
	}
	if filtered.Outputs[0].Author.Login != "outsider" {
		t.Errorf("wrong survivor: %q", filtered.Outputs[0].Author.Login)
	}
	if got := len(filtered.PerRepo[widget]); got != 1 {
		t.Errorf("expected the per-repository view to be rebuilt, got %d contributions", got)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("version info not applied: %s %s %s", version, commit, date)
	}
	// empty values leave the current fields in place
	SetVersionInfo("", "", "")
	if version != "1.0.0" {
		t.Errorf("empty value overwrote the version: %s", version)
	}
}

func TestAuditFlagsRegistered(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdAudit(opts)

	for _, name := range []string{"config", "since", "until", "format", "include-members", "verbose"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}
