package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/altin/gh-browse/internal/model"
)

// GetReadme fetches the repository readme and decodes its content to
// text. A missing readme is a common, expected state, so a 404 resolves
// to (nil, nil) rather than an error.
func (c *Client) GetReadme(owner, repo string) (*model.ReadmeContent, error) {
	var rd model.Readme
	err := c.get(repoPath(owner, repo, "readme"), &rd, requestOptions{})
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, fmt.Errorf("get readme %s/%s: %w", owner, repo, err)
	}

	content := rd.Content
	if rd.Encoding == "base64" {
		// The contents API wraps base64 at 60 columns.
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode readme %s/%s: %w", owner, repo, err)
		}
		content = string(raw)
	}
	return &model.ReadmeContent{Name: rd.Name, Content: content}, nil
}
