package pager

import (
	"github.com/altin/gh-browse/internal/api"
	"github.com/altin/gh-browse/internal/model"
)

// Kind selects which resource a list view is paging over.
type Kind int

const (
	Issues Kind = iota
	PullRequests
)

// ForQuery picks the fetching strategy for the current query state: the
// plain listing endpoint when no free text is active, the search
// endpoint otherwise. Issue pages from the listing endpoint are filtered
// of conflated pull requests; search pages need no filter because the
// query already carries type:issue.
func ForQuery(c *api.Client, kind Kind, owner, repo, text string, state model.IssueState, perPage int) Fetcher[model.Issue] {
	if text == "" {
		return listFetcher(c, kind, owner, repo, state, perPage)
	}
	return searchFetcher(c, kind, owner, repo, text, state, perPage)
}

func listFetcher(c *api.Client, kind Kind, owner, repo string, state model.IssueState, perPage int) Fetcher[model.Issue] {
	return FetcherFunc[model.Issue](func(page int) (Page[model.Issue], error) {
		switch kind {
		case PullRequests:
			pulls, err := c.ListPullRequests(owner, repo, state, page, perPage)
			if err != nil {
				return Page[model.Issue]{}, err
			}
			items := make([]model.Issue, len(pulls))
			for i, pr := range pulls {
				items[i] = pr.AsIssue()
			}
			return Page[model.Issue]{Items: items, Fetched: len(pulls)}, nil
		default:
			raw, err := c.ListIssues(owner, repo, state, page, perPage)
			if err != nil {
				return Page[model.Issue]{}, err
			}
			return Page[model.Issue]{Items: model.IssuesOnly(raw), Fetched: len(raw)}, nil
		}
	})
}

func searchFetcher(c *api.Client, kind Kind, owner, repo, text string, state model.IssueState, perPage int) Fetcher[model.Issue] {
	return FetcherFunc[model.Issue](func(page int) (Page[model.Issue], error) {
		var resp *model.IssueSearchResponse
		var err error
		if kind == PullRequests {
			resp, err = c.SearchPullRequests(owner, repo, text, state, page, perPage)
		} else {
			resp, err = c.SearchIssues(owner, repo, text, state, page, perPage)
		}
		if err != nil {
			return Page[model.Issue]{}, err
		}
		return Page[model.Issue]{
			Items:         resp.Items,
			Fetched:       len(resp.Items),
			TotalCount:    resp.TotalCount,
			Authoritative: true,
		}, nil
	})
}
