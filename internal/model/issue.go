package model

import "time"

// IssueState is the state filter accepted by the listing endpoints.
type IssueState string

const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
	StateAll    IssueState = "all"
)

type Issue struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Body      string     `json:"body"`
	User      Actor      `json:"user"`
	Labels    []Label    `json:"labels"`
	Assignees []Actor    `json:"assignees"`
	Milestone *Milestone `json:"milestone"`
	Comments  int        `json:"comments"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`

	// PullRequest is set when the issues listing endpoint returns a pull
	// request conflated into the issue stream.
	PullRequest *PullRequestRef `json:"pull_request"`
}

// PullRequestRef marks an issues-endpoint item as a pull request.
type PullRequestRef struct {
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// IsPullRequest reports whether this item is a pull request masquerading
// as an issue in the listing endpoint's combined stream.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// IssuesOnly filters out pull requests from a combined issues-endpoint page.
func IssuesOnly(items []Issue) []Issue {
	out := make([]Issue, 0, len(items))
	for _, it := range items {
		if !it.IsPullRequest() {
			out = append(out, it)
		}
	}
	return out
}

type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type Milestone struct {
	Number int        `json:"number"`
	Title  string     `json:"title"`
	State  string     `json:"state"`
	DueOn  *time.Time `json:"due_on"`
}

type IssueSearchResponse struct {
	TotalCount        int     `json:"total_count"`
	IncompleteResults bool    `json:"incomplete_results"`
	Items             []Issue `json:"items"`
}
