package model

import "time"

// PullRequest carries the issue fields plus merge and branch metadata.
type PullRequest struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Body      string     `json:"body"`
	User      Actor      `json:"user"`
	Labels    []Label    `json:"labels"`
	Milestone *Milestone `json:"milestone"`
	Draft     bool       `json:"draft"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`
	Head      BranchRef  `json:"head"`
	Base      BranchRef  `json:"base"`
}

type BranchRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// Merged reports whether the pull request has been merged. The list
// endpoint carries merged_at but not the merged boolean.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// AsIssue projects the pull request onto the issue shape shared by the
// list views.
func (p PullRequest) AsIssue() Issue {
	return Issue{
		ID:          p.ID,
		Number:      p.Number,
		Title:       p.Title,
		State:       p.State,
		Body:        p.Body,
		User:        p.User,
		Labels:      p.Labels,
		Milestone:   p.Milestone,
		HTMLURL:     p.HTMLURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		ClosedAt:    p.ClosedAt,
		PullRequest: &PullRequestRef{HTMLURL: p.HTMLURL},
	}
}
