package enrich

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/model"
)

// stubSource implements ghclient.Source; only the enrichment calls matter
// here.
type stubSource struct {
	user      func(string) (*github.User, error)
	orgMember func(string, string) (bool, error)

	userCalls      int
	orgMemberCalls int
}

func (s *stubSource) Issues(context.Context, model.Repo) ([]*github.Issue, error) {
	return nil, nil
}

func (s *stubSource) PullRequests(context.Context, model.Repo) ([]*github.PullRequest, error) {
	return nil, nil
}

func (s *stubSource) Reviews(context.Context, model.Repo, int) ([]*github.PullRequestReview, error) {
	return nil, nil
}

func (s *stubSource) Commits(context.Context, model.Repo, *time.Time, *time.Time) ([]*github.RepositoryCommit, error) {
	return nil, nil
}

func (s *stubSource) Commit(context.Context, model.Repo, string) (*github.RepositoryCommit, error) {
	return nil, errors.New("unexpected Commit call")
}

func (s *stubSource) User(_ context.Context, login string) (*github.User, error) {
	s.userCalls++
	if s.user == nil {
		return nil, errors.New("unexpected User call")
	}
	return s.user(login)
}

func (s *stubSource) OrgMember(_ context.Context, org, login string) (bool, error) {
	s.orgMemberCalls++
	if s.orgMember == nil {
		return false, nil
	}
	return s.orgMember(org, login)
}

func (s *stubSource) OrgRepos(context.Context, string) ([]model.Repo, error) {
	return nil, nil
}

var testRepo = model.Repo{Org: "acme", Name: "widget"}

func user(id int64, login string) *github.User {
	return &github.User{ID: github.Int64(id), Login: github.String(login)}
}

func issueContribution(u *github.User) model.Contribution {
	return model.IssueContribution(testRepo, &github.Issue{
		User:      u,
		CreatedAt: &github.Timestamp{Time: time.Now()},
	})
}

func commitContribution(u *github.User) model.Contribution {
	return model.CommitContribution(testRepo, &github.RepositoryCommit{
		Author: u,
		Commit: &github.Commit{
			Author: &github.CommitAuthor{Date: &github.Timestamp{Time: time.Now()}},
		},
	})
}

func TestGroupByAuthorUsesStableIdentity(t *testing.T) {
	// Two snapshots of the same account differing in transient fields must
	// land in one group.
	first := user(1, "alice")
	second := user(1, "alice")
	second.Name = github.String("Alice After Rename")

	groups := GroupByAuthor([]model.Contribution{
		issueContribution(first),
		issueContribution(second),
		issueContribution(user(2, "bob")),
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Contributions) != 2 {
		t.Errorf("expected alice's group to hold 2 contributions, got %d", len(groups[0].Contributions))
	}
}

func TestGroupByAuthorPoolsUnknownAuthors(t *testing.T) {
	groups := GroupByAuthor([]model.Contribution{
		commitContribution(nil),
		issueContribution(user(1, "alice")),
		commitContribution(nil),
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	var unknown *Group
	for i := range groups {
		if !groups[i].Key.Known {
			unknown = &groups[i]
		}
	}
	if unknown == nil {
		t.Fatal("expected an unknown-author group")
	}
	if len(unknown.Contributions) != 2 {
		t.Errorf("expected 2 authorless contributions in one group, got %d", len(unknown.Contributions))
	}
}

func TestOverrideSkipsAPICalls(t *testing.T) {
	src := &stubSource{}
	enricher := New(src, map[string]string{"Alice": "Acme"}, []string{"acme"})

	groups := GroupByAuthor([]model.Contribution{issueContribution(user(1, "alice"))})
	enriched, err := enricher.Enrich(context.Background(), groups)
	if err != nil {
		t.Fatal(err)
	}

	if src.userCalls != 0 || src.orgMemberCalls != 0 {
		t.Errorf("override must not trigger API calls, got %d user and %d membership calls",
			src.userCalls, src.orgMemberCalls)
	}
	if len(enriched) != 1 {
		t.Fatalf("expected 1 result, got %d", len(enriched))
	}
	if got := enriched[0].Author.Company; got != "Acme" {
		t.Errorf("expected override company Acme, got %q", got)
	}
	// Override company matches a configured org case-insensitively
	if !enriched[0].Member {
		t.Error("expected membership from the override company")
	}
}

func TestOverrideCompanyOutsideOrgsIsNotMember(t *testing.T) {
	src := &stubSource{}
	enricher := New(src, map[string]string{"alice": "SomeWhere Else"}, []string{"acme"})

	groups := GroupByAuthor([]model.Contribution{issueContribution(user(1, "alice"))})
	enriched, err := enricher.Enrich(context.Background(), groups)
	if err != nil {
		t.Fatal(err)
	}
	if enriched[0].Member {
		t.Error("expected no membership for an unrelated override company")
	}
}

func TestProfileNotFoundDegrades(t *testing.T) {
	notFound := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusNotFound},
	}
	src := &stubSource{
		user: func(string) (*github.User, error) { return nil, notFound },
	}
	enricher := New(src, nil, []string{"acme"})

	groups := GroupByAuthor([]model.Contribution{issueContribution(user(9, "ghost"))})
	enriched, err := enricher.Enrich(context.Background(), groups)
	if err != nil {
		t.Fatal(err)
	}

	author := enriched[0].Author
	if author == nil || author.Login != "ghost" {
		t.Fatalf("expected the snapshot identity to survive, got %+v", author)
	}
	if author.Company != "" || author.Email != "" {
		t.Errorf("expected an empty profile, got company=%q email=%q", author.Company, author.Email)
	}
}

func TestProfileFetchFailureAborts(t *testing.T) {
	src := &stubSource{
		user: func(string) (*github.User, error) { return nil, errors.New("boom") },
	}
	enricher := New(src, nil, nil)

	groups := GroupByAuthor([]model.Contribution{issueContribution(user(1, "alice"))})
	if _, err := enricher.Enrich(context.Background(), groups); err == nil {
		t.Fatal("expected the profile failure to abort the batch")
	}
}

func TestMembershipStopsAtFirstHit(t *testing.T) {
	profile := user(1, "alice")
	profile.Company = github.String("Acme Corp")

	src := &stubSource{
		user: func(string) (*github.User, error) { return profile, nil },
		orgMember: func(org, login string) (bool, error) {
			return org == "acme", nil
		},
	}
	enricher := New(src, nil, []string{"acme", "acme-labs"})

	groups := GroupByAuthor([]model.Contribution{issueContribution(user(1, "alice"))})
	enriched, err := enricher.Enrich(context.Background(), groups)
	if err != nil {
		t.Fatal(err)
	}

	if !enriched[0].Member {
		t.Error("expected membership")
	}
	if src.orgMemberCalls != 1 {
		t.Errorf("expected membership evaluation to stop after the first hit, got %d calls", src.orgMemberCalls)
	}
}

func TestUnknownAuthorGroupNeedsNoCalls(t *testing.T) {
	src := &stubSource{}
	enricher := New(src, nil, []string{"acme"})

	groups := GroupByAuthor([]model.Contribution{commitContribution(nil)})
	enriched, err := enricher.Enrich(context.Background(), groups)
	if err != nil {
		t.Fatal(err)
	}

	if enriched[0].Author != nil {
		t.Error("expected a nil author for the unknown group")
	}
	if enriched[0].Member {
		t.Error("unknown authors are never members")
	}
	if src.userCalls != 0 || src.orgMemberCalls != 0 {
		t.Error("unknown authors must not trigger API calls")
	}
}
