package api

import (
	"fmt"

	"github.com/altin/gh-browse/internal/model"
)

func (c *Client) ListPullRequests(owner, repo string, state model.IssueState, page, perPage int) ([]model.PullRequest, error) {
	var pulls []model.PullRequest
	path := repoPath(owner, repo, "pulls") + "?" + listQuery(state, page, perPage)
	if err := c.get(path, &pulls, requestOptions{}); err != nil {
		return nil, fmt.Errorf("list pull requests %s/%s: %w", owner, repo, err)
	}
	return pulls, nil
}
