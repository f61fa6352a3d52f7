package ui

import (
	"github.com/altin/gh-browse/internal/model"
	"github.com/altin/gh-browse/internal/pager"
)

// Overview data messages

type RepoLoadedMsg struct {
	Repo *model.Repository
	Err  error
}

type ReadmeLoadedMsg struct {
	Readme *model.ReadmeContent // nil: repository has no readme
	Err    error
}

type LanguagesLoadedMsg struct {
	Languages model.Languages
	Err       error
}

type ContributorsLoadedMsg struct {
	Contributors []model.Contributor
	Err          error
}

// List view messages

// IssuesPageMsg delivers the pager's accumulated state after a load.
// Gen identifies the pager generation the load belonged to; stale
// generations (superseded by a filter or query change) are dropped.
type IssuesPageMsg struct {
	Kind    pager.Kind
	Gen     int
	Items   []model.Issue
	HasMore bool
	Total   int
	Err     error
}

// QueryChangedMsg fires when a debounced free-text query settles or is
// cleared.
type QueryChangedMsg struct {
	Kind  pager.Kind
	Query string
}

// StateChangedMsg fires when the open/closed/all filter cycles.
type StateChangedMsg struct {
	Kind  pager.Kind
	State model.IssueState
}

// NeedMoreMsg asks the app to load the next page for a list view.
type NeedMoreMsg struct {
	Kind pager.Kind
}

type CacheClearedMsg struct {
	Err error
}

type StatusMsg struct {
	Text string
}
