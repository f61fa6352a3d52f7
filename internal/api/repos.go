package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/altin/gh-browse/internal/model"
)

func repoPath(owner, repo, suffix string) string {
	p := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (c *Client) GetRepository(owner, repo string) (*model.Repository, error) {
	var r model.Repository
	err := c.get(repoPath(owner, repo, ""), &r, requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	return &r, nil
}

func (c *Client) GetLanguages(owner, repo string) (model.Languages, error) {
	langs := model.Languages{}
	err := c.get(repoPath(owner, repo, "languages"), &langs, requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("get languages %s/%s: %w", owner, repo, err)
	}
	return langs, nil
}

func (c *Client) GetContributors(owner, repo string, limit int) ([]model.Contributor, error) {
	if limit <= 0 {
		limit = 10
	}
	v := url.Values{}
	v.Set("per_page", strconv.Itoa(limit))

	var contributors []model.Contributor
	err := c.get(repoPath(owner, repo, "contributors")+"?"+v.Encode(), &contributors, requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("get contributors %s/%s: %w", owner, repo, err)
	}
	return contributors, nil
}
