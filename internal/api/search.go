package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/altin/gh-browse/internal/model"
)

// buildIssueQuery composes the structured search-qualifier string:
// "repo:owner/repo type:issue|pr [state:s] [free text]". The "all" state
// is expressed by omitting the qualifier.
func buildIssueQuery(owner, repo, itemType string, state model.IssueState, text string) string {
	parts := []string{
		fmt.Sprintf("repo:%s/%s", owner, repo),
		"type:" + itemType,
	}
	if state != "" && state != model.StateAll {
		parts = append(parts, "state:"+string(state))
	}
	if text = strings.TrimSpace(text); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// searchIssues calls the search endpoint. Search results are never
// cached: they are query-dependent and too volatile to reuse safely.
func (c *Client) searchIssues(query string, page, perPage int) (*model.IssueSearchResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	} else {
		v.Set("per_page", strconv.Itoa(defaultPerPage))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}

	var resp model.IssueSearchResponse
	if err := c.get("/search/issues?"+v.Encode(), &resp, requestOptions{noCache: true}); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return &resp, nil
}

func (c *Client) SearchIssues(owner, repo, text string, state model.IssueState, page, perPage int) (*model.IssueSearchResponse, error) {
	return c.searchIssues(buildIssueQuery(owner, repo, "issue", state, text), page, perPage)
}

func (c *Client) SearchPullRequests(owner, repo, text string, state model.IssueState, page, perPage int) (*model.IssueSearchResponse, error) {
	return c.searchIssues(buildIssueQuery(owner, repo, "pr", state, text), page, perPage)
}

func (c *Client) SearchRepositories(query string, page, perPage int) (*model.RepositorySearchResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	} else {
		v.Set("per_page", strconv.Itoa(defaultPerPage))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}

	var resp model.RepositorySearchResponse
	if err := c.get("/search/repositories?"+v.Encode(), &resp, requestOptions{noCache: true}); err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	return &resp, nil
}
