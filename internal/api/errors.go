package api

import "fmt"

// NotFoundError is returned for HTTP 404: the resource is absent or
// private. Operations wrap it with the owner/repo context.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// RateLimitError is returned for HTTP 403, which GitHub uses both for
// exhausted quota and for access denial.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded or access denied: %s", e.Message)
}

// APIError is any other non-2xx response, carrying the server's message
// when the body had one.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
