package api

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/altin/gh-browse/internal/model"
)

func TestBuildIssueQuery(t *testing.T) {
	tests := []struct {
		name     string
		itemType string
		state    model.IssueState
		text     string
		want     string
	}{
		{"open issues no text", "issue", model.StateOpen, "", "repo:octocat/hello type:issue state:open"},
		{"all state omits qualifier", "issue", model.StateAll, "", "repo:octocat/hello type:issue"},
		{"pr with text", "pr", model.StateClosed, "flaky test", "repo:octocat/hello type:pr state:closed flaky test"},
		{"text is trimmed", "issue", model.StateOpen, "  panic  ", "repo:octocat/hello type:issue state:open panic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildIssueQuery("octocat", "hello", tt.itemType, tt.state, tt.text)
			if got != tt.want {
				t.Errorf("buildIssueQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchBypassesCache(t *testing.T) {
	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"total_count": 1, "items": [{"number": 5, "title": "bug"}]}`))
	}))

	for i := 0; i < 2; i++ {
		resp, err := c.SearchIssues("o", "r", "bug", model.StateOpen, 1, 30)
		if err != nil {
			t.Fatalf("SearchIssues() error: %v", err)
		}
		if resp.TotalCount != 1 || len(resp.Items) != 1 {
			t.Errorf("SearchIssues() = %+v, want 1 item", resp)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("network calls = %d, want 2 (search must never be served from cache)", got)
	}
}

func TestSearchSendsStructuredQuery(t *testing.T) {
	var gotQ string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"total_count": 0, "items": []}`))
	}))

	if _, err := c.SearchPullRequests("octocat", "hello", "deadlock", model.StateOpen, 2, 50); err != nil {
		t.Fatal(err)
	}
	want := "repo:octocat/hello type:pr state:open deadlock"
	if gotQ != want {
		t.Errorf("q = %q, want %q", gotQ, want)
	}
}

func TestSearchRepositories(t *testing.T) {
	var gotQ, gotPerPage string
	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotQ = r.URL.Query().Get("q")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Write([]byte(`{"total_count": 2, "items": [{"full_name": "octocat/hello"}, {"full_name": "octocat/world"}]}`))
	}))

	resp, err := c.SearchRepositories("tui language:go", 0, 0)
	if err != nil {
		t.Fatalf("SearchRepositories() error: %v", err)
	}
	if gotQ != "tui language:go" {
		t.Errorf("q = %q, want %q", gotQ, "tui language:go")
	}
	if gotPerPage != "30" {
		t.Errorf("per_page = %q, want default %q", gotPerPage, "30")
	}
	if resp.TotalCount != 2 || len(resp.Items) != 2 {
		t.Errorf("SearchRepositories() = %+v, want 2 items", resp)
	}
	if resp.Items[0].FullName != "octocat/hello" {
		t.Errorf("Items[0].FullName = %q, want octocat/hello", resp.Items[0].FullName)
	}

	// Repository search bypasses the cache like every search endpoint.
	if _, err := c.SearchRepositories("tui language:go", 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("network calls = %d, want 2 (search must never be served from cache)", got)
	}
}
