package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/altin/gh-browse/internal/model"
)

// identityTTL is deliberately short: the authenticated identity changes
// whenever the user logs in or out.
const identityTTL = 60 * time.Second

func (c *Client) GetAuthenticatedUser() (*model.User, error) {
	var u model.User
	if err := c.get("/user", &u, requestOptions{ttl: identityTTL}); err != nil {
		return nil, fmt.Errorf("get authenticated user: %w", err)
	}
	return &u, nil
}

func (c *Client) GetUser(username string) (*model.User, error) {
	var u model.User
	err := c.get("/users/"+url.PathEscape(username), &u, requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

// ValidateToken probes /user with the supplied token, bypassing both the
// cache and any stored credential. A nil return means the token was
// accepted; any failure (rejected token, network down) is an error.
func (c *Client) ValidateToken(token string) error {
	var u model.User
	err := c.get("/user", &u, requestOptions{
		noCache: true,
		headers: map[string]string{"Authorization": "Bearer " + token},
	})
	if err != nil {
		return fmt.Errorf("validate token: %w", err)
	}
	return nil
}
