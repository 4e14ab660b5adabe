package ghclient

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
)

// GitHub attaches a documentation URL to API failures. These fragments
// identify the list endpoints whose feature-disabled responses the collector
// downgrades to empty results instead of treating as errors.
const (
	docIssuesList  = "issues/issues#list-repository-issues"
	docPullsList   = "pulls/pulls#list-pull-requests"
	docCommitsList = "commits/commits#list-commits"
)

func asErrorResponse(err error) (*github.ErrorResponse, bool) {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr, true
	}
	return nil, false
}

func statusCode(err error) int {
	if ghErr, ok := asErrorResponse(err); ok {
		return ghErr.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API, e.g. a profile fetch
// for a deleted account.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

func featureDisabled(err error, docFragment string) bool {
	ghErr, ok := asErrorResponse(err)
	if !ok || ghErr.Response.StatusCode != http.StatusGone {
		return false
	}
	return strings.Contains(ghErr.DocumentationURL, docFragment) ||
		strings.Contains(strings.ToLower(ghErr.Message), "disabled")
}

// IsIssuesDisabled reports whether err means the repository has its issue
// tracker turned off.
func IsIssuesDisabled(err error) bool {
	return featureDisabled(err, docIssuesList)
}

// IsPullsDisabled reports whether err means pull requests are unavailable on
// the repository.
func IsPullsDisabled(err error) bool {
	return featureDisabled(err, docPullsList)
}

// IsCommitsUnavailable reports whether err means the commit list cannot be
// served: the feature-disabled marker, or a 409 for an empty repository.
func IsCommitsUnavailable(err error) bool {
	if featureDisabled(err, docCommitsList) {
		return true
	}
	ghErr, ok := asErrorResponse(err)
	if !ok {
		return false
	}
	return ghErr.Response.StatusCode == http.StatusConflict &&
		strings.Contains(strings.ToLower(ghErr.Message), "empty")
}

// retryable reports whether a page fetch failure is worth retrying. Semantic
// failures carry a documented cause and must propagate to the caller
// unchanged; only transport-level failures and server errors are retried.
func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return false
	}
	if ghErr, ok := asErrorResponse(err); ok {
		return ghErr.Response.StatusCode >= http.StatusInternalServerError
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	return true
}
