package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/altin/gh-browse/internal/model"
)

const defaultPerPage = 30

func listQuery(state model.IssueState, page, perPage int) string {
	v := url.Values{}
	if state != "" {
		v.Set("state", string(state))
	}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	} else {
		v.Set("per_page", strconv.Itoa(defaultPerPage))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return v.Encode()
}

// ListIssues returns one page of the issues listing endpoint. The page
// may contain pull requests conflated into the issue stream; callers
// presenting an issue view filter them with model.IssuesOnly.
func (c *Client) ListIssues(owner, repo string, state model.IssueState, page, perPage int) ([]model.Issue, error) {
	var issues []model.Issue
	path := repoPath(owner, repo, "issues") + "?" + listQuery(state, page, perPage)
	if err := c.get(path, &issues, requestOptions{}); err != nil {
		return nil, fmt.Errorf("list issues %s/%s: %w", owner, repo, err)
	}
	return issues, nil
}
