package model

import (
	"time"

	"github.com/google/go-github/v57/github"
)

// Kind discriminates the payload carried by a Contribution.
type Kind int

const (
	KindIssue Kind = iota
	KindReview
	KindCommit
)

func (k Kind) String() string {
	switch k {
	case KindIssue:
		return "issue"
	case KindReview:
		return "review"
	case KindCommit:
		return "commit"
	}
	return "unknown"
}

// Contribution is a single unit of recorded activity (issue, review, or
// commit) tied to the repository it happened on. It is created once by the
// collector and immutable afterward.
type Contribution struct {
	Repo Repo

	kind   Kind
	issue  *github.Issue
	review *github.PullRequestReview
	commit *github.RepositoryCommit
}

// IssueContribution wraps an issue record.
func IssueContribution(repo Repo, issue *github.Issue) Contribution {
	return Contribution{Repo: repo, kind: KindIssue, issue: issue}
}

// ReviewContribution wraps a pull request review record.
func ReviewContribution(repo Repo, review *github.PullRequestReview) Contribution {
	return Contribution{Repo: repo, kind: KindReview, review: review}
}

// CommitContribution wraps a commit record from the default branch.
func CommitContribution(repo Repo, commit *github.RepositoryCommit) Contribution {
	return Contribution{Repo: repo, kind: KindCommit, commit: commit}
}

// Kind reports which payload variant this contribution carries.
func (c Contribution) Kind() Kind {
	return c.kind
}

// CreatedAt returns the contribution's creation time. ok is false when the
// record has no timestamp: a review that was started but never submitted, or
// a commit whose metadata is missing the author date. Such contributions are
// never excluded by a date window.
func (c Contribution) CreatedAt() (time.Time, bool) {
	switch c.kind {
	case KindIssue:
		ts := c.issue.GetCreatedAt()
		return ts.Time, !ts.Time.IsZero()
	case KindReview:
		ts := c.review.GetSubmittedAt()
		return ts.Time, !ts.Time.IsZero()
	case KindCommit:
		ts := c.commit.GetCommit().GetAuthor().GetDate()
		return ts.Time, !ts.Time.IsZero()
	}
	return time.Time{}, false
}

// User returns the account behind the contribution. Commits can return nil:
// GitHub reports no linked account for a commit authored under an email that
// no account claims. Issues and reviews always carry a user.
func (c Contribution) User() *github.User {
	switch c.kind {
	case KindIssue:
		return c.issue.GetUser()
	case KindReview:
		return c.review.GetUser()
	case KindCommit:
		return c.commit.GetAuthor()
	}
	return nil
}

// AuthorKey is the stable grouping identity for contributions: the numeric
// account ID, or the zero key for contributions with no resolvable account.
// Embedded user snapshots taken at different fetch times can differ in
// transient fields, so grouping must never key on the snapshot itself.
type AuthorKey struct {
	ID    int64
	Known bool
}

// KeyFor derives the AuthorKey for a user record. A nil user yields the
// shared "unknown author" key.
func KeyFor(u *github.User) AuthorKey {
	if u == nil {
		return AuthorKey{}
	}
	return AuthorKey{ID: u.GetID(), Known: true}
}
