package issuelist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altin/gh-browse/internal/model"
	"github.com/altin/gh-browse/internal/pager"
	"github.com/altin/gh-browse/internal/ui"
)

func loadedModel(t *testing.T, kind pager.Kind, n int) Model {
	t.Helper()
	m := New(kind)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	items := make([]model.Issue, n)
	for i := range items {
		items[i] = model.Issue{
			ID: int64(i + 1), Number: i + 1, Title: "issue", State: "open",
			User: model.Actor{Login: "octocat"}, CreatedAt: time.Now(),
		}
	}
	m, _ = m.Update(ui.IssuesPageMsg{Kind: kind, Items: items, HasMore: true})
	return m
}

func TestPageMsgPopulatesList(t *testing.T) {
	m := loadedModel(t, pager.Issues, 3)
	if len(m.list.Items()) != 3 {
		t.Fatalf("list has %d items, want 3", len(m.list.Items()))
	}
	if m.loading {
		t.Error("loading still true after page message")
	}
	if sel := m.Selected(); sel == nil || sel.Number != 1 {
		t.Errorf("Selected() = %v, want issue #1", sel)
	}
}

func TestPageMsgForOtherKindIsIgnored(t *testing.T) {
	m := loadedModel(t, pager.Issues, 2)
	m, _ = m.Update(ui.IssuesPageMsg{Kind: pager.PullRequests, Items: make([]model.Issue, 9)})
	if len(m.list.Items()) != 2 {
		t.Errorf("list has %d items, want 2 (other kind's message must be ignored)", len(m.list.Items()))
	}
}

func TestStateCycleEmitsStateChanged(t *testing.T) {
	m := loadedModel(t, pager.Issues, 1)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.State() != model.StateClosed {
		t.Fatalf("State() = %v after one cycle, want closed", m.State())
	}
	if cmd == nil {
		t.Fatal("want a command carrying StateChangedMsg")
	}
	msg, ok := cmd().(ui.StateChangedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want StateChangedMsg", cmd())
	}
	if msg.State != model.StateClosed {
		t.Errorf("StateChangedMsg.State = %v, want closed", msg.State)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.State() != model.StateAll {
		t.Errorf("State() = %v after two cycles, want all", m.State())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.State() != model.StateOpen {
		t.Errorf("State() = %v after three cycles, want open", m.State())
	}
}

func TestDownAtBottomRequestsMore(t *testing.T) {
	m := loadedModel(t, pager.Issues, 2)
	m.list.Select(1) // last row

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if cmd == nil {
		t.Fatal("want NeedMoreMsg command at bottom with hasMore")
	}
	if _, ok := cmd().(ui.NeedMoreMsg); !ok {
		t.Fatalf("cmd produced %T, want NeedMoreMsg", cmd())
	}
	if !m.loading {
		t.Error("loading flag not set while page loads")
	}
}

func TestDownWithoutMorePagesDoesNotFetch(t *testing.T) {
	m := loadedModel(t, pager.Issues, 2)
	m, _ = m.Update(ui.IssuesPageMsg{Kind: pager.Issues, Items: m.items, HasMore: false})
	m.list.Select(1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if cmd != nil {
		if _, ok := cmd().(ui.NeedMoreMsg); ok {
			t.Error("NeedMoreMsg emitted although hasMore is false")
		}
	}
}

func TestDebounceOnlyFinalValueFires(t *testing.T) {
	m := loadedModel(t, pager.Issues, 1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.Searching() {
		t.Fatal("search input not focused after /")
	}

	// Three keystrokes in quick succession, each arming a new timer.
	var gens []int
	for _, r := range []rune{'b', 'u', 'g'} {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		gens = append(gens, m.deb.Gen)
	}

	// Timers for superseded generations land and do nothing.
	for _, g := range gens[:len(gens)-1] {
		var cmd tea.Cmd
		m, cmd = m.Update(debounceMsg{Kind: pager.Issues, Gen: g})
		if cmd != nil {
			t.Errorf("superseded debounce generation %d produced a command", g)
		}
	}
	if m.Query() != "" {
		t.Fatalf("query settled early: %q", m.Query())
	}

	// The final generation fires and carries the resting value.
	m, cmd := m.Update(debounceMsg{Kind: pager.Issues, Gen: gens[len(gens)-1]})
	if cmd == nil {
		t.Fatal("final debounce generation produced no command")
	}
	msg, ok := cmd().(ui.QueryChangedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want QueryChangedMsg", cmd())
	}
	if msg.Query != "bug" {
		t.Errorf("QueryChangedMsg.Query = %q, want %q", msg.Query, "bug")
	}
	if m.Query() != "bug" {
		t.Errorf("Query() = %q, want %q", m.Query(), "bug")
	}
}

func TestEscapeClearsActiveQuery(t *testing.T) {
	m := loadedModel(t, pager.Issues, 1)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m, _ = m.Update(debounceMsg{Kind: pager.Issues, Gen: m.deb.Gen})
	if m.Query() != "x" {
		t.Fatalf("Query() = %q, want %q", m.Query(), "x")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.Query() != "" {
		t.Errorf("Query() = %q after escape, want empty", m.Query())
	}
	if cmd == nil {
		t.Fatal("clearing an active query must emit QueryChangedMsg")
	}
	msg, ok := cmd().(ui.QueryChangedMsg)
	if !ok || msg.Query != "" {
		t.Errorf("cmd produced %T %v, want empty QueryChangedMsg", cmd(), msg)
	}
}

func TestErrorAfterLoadKeepsItems(t *testing.T) {
	m := loadedModel(t, pager.Issues, 3)
	m, _ = m.Update(ui.IssuesPageMsg{Kind: pager.Issues, Err: errFake})
	if len(m.list.Items()) != 3 {
		t.Errorf("list has %d items after load-more failure, want the 3 already loaded", len(m.list.Items()))
	}
	if !strings.Contains(m.View(), "Load more failed") {
		t.Error("view does not surface the load-more error")
	}
}

var errFake = fakeErr{}

type fakeErr struct{}

func (fakeErr) Error() string { return "rate limited" }
