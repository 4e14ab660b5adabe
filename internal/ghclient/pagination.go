package ghclient

import (
	"context"

	"github.com/google/go-github/v57/github"
	"github.com/ossvet/ghc/internal/log"
)

// pageRetries is the number of additional attempts after a failed page fetch.
const pageRetries = 4

// pageFunc fetches one page of a list resource.
type pageFunc[T any] func(ctx context.Context, page int) ([]T, *github.Response, error)

// collectPages drains a paginated list to completion, concatenating the
// items of every page in page order. A failing page fetch is retried up to
// pageRetries more times; once attempts run out the last error is returned
// as-is. Only transport failures are retried.
func collectPages[T any](ctx context.Context, fetch pageFunc[T]) ([]T, error) {
	var all []T

	page := 1
	for {
		items, resp, err := fetchPage(ctx, fetch, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}

func fetchPage[T any](ctx context.Context, fetch pageFunc[T], page int) ([]T, *github.Response, error) {
	var (
		items []T
		resp  *github.Response
		err   error
	)
	for attempt := 0; ; attempt++ {
		items, resp, err = fetch(ctx, page)
		if err == nil || attempt >= pageRetries || !retryable(err) {
			return items, resp, err
		}
		log.Debug("page fetch failed, retrying", "page", page, "attempt", attempt+1, "error", err)
	}
}
