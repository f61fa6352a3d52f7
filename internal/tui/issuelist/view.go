// Package issuelist is the incremental list view shared by the Issues
// and Pull Requests tabs. It owns the free-text search input and its
// debounce; fetching is done by the app, which feeds accumulated pages
// back in via ui.IssuesPageMsg.
package issuelist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altin/gh-browse/internal/model"
	"github.com/altin/gh-browse/internal/pager"
	"github.com/altin/gh-browse/internal/ui"
)

// debounceMsg is the settle timer landing; Gen pairs it with the
// keystroke that armed it.
type debounceMsg struct {
	Kind pager.Kind
	Gen  int
}

// --- Item and delegate ---

type issueItem struct {
	issue model.Issue
}

func (i issueItem) FilterValue() string {
	return i.issue.Title + " " + i.issue.User.Login
}

type issueDelegate struct{}

func (d issueDelegate) Height() int                             { return 2 }
func (d issueDelegate) Spacing() int                            { return 0 }
func (d issueDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d issueDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(issueItem)
	if !ok {
		return
	}
	is := it.issue

	icon := ui.StateIcon(is.State, false)
	num := ui.StyleMuted.Render(fmt.Sprintf("#%d", is.Number))
	ago := ui.StyleMuted.Render(formatAge(time.Since(is.CreatedAt)) + " ago")
	author := ui.StyleInfo.Render(is.User.Login)

	var labels string
	if len(is.Labels) > 0 {
		names := make([]string, 0, len(is.Labels))
		for _, l := range is.Labels {
			names = append(names, l.Name)
		}
		labels = "  " + ui.StyleMuted.Render("["+strings.Join(names, ", ")+"]")
	}

	comments := ""
	if is.Comments > 0 {
		comments = ui.StyleMuted.Render(fmt.Sprintf("  %d comments", is.Comments))
	}

	line1 := fmt.Sprintf(" %s %s %s", icon, num, is.Title)
	line2 := fmt.Sprintf("    %s  %s%s%s", author, ago, comments, labels)

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d < 365*24*time.Hour {
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
}

// --- Model ---

type Model struct {
	kind pager.Kind

	list  list.Model
	input textinput.Model
	deb   pager.Debounce

	state     model.IssueState
	query     string // last settled query
	searching bool
	items     []model.Issue
	hasMore   bool
	total     int
	loading   bool
	err       error
	width     int
	height    int
}

func New(kind pager.Kind) Model {
	l := list.New(nil, issueDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// j/k plus pgup/pgdn come from the list's own keymap; load-more is
	// triggered by walking past the last row.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"))
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "search text..."
	input.Prompt = "/ "
	input.CharLimit = 200

	return Model{
		kind:    kind,
		list:    l,
		input:   input,
		state:   model.StateOpen,
		loading: true,
	}
}

func (m Model) Kind() pager.Kind        { return m.kind }
func (m Model) State() model.IssueState { return m.state }
func (m Model) Query() string           { return m.query }
func (m Model) Searching() bool         { return m.searching }

func (m Model) Selected() *model.Issue {
	if item, ok := m.list.SelectedItem().(issueItem); ok {
		return &item.issue
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.IssuesPageMsg:
		if msg.Kind != m.kind {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			// Keep anything already shown; surface the error below it.
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		atTop := len(m.items) == 0
		m.items = msg.Items
		m.hasMore = msg.HasMore
		m.total = msg.Total
		items := make([]list.Item, len(msg.Items))
		for i, is := range msg.Items {
			items[i] = issueItem{issue: is}
		}
		cmd := m.list.SetItems(items)
		if atTop {
			m.list.Select(0)
		}
		return m, cmd

	case debounceMsg:
		if msg.Kind != m.kind || !m.deb.Fires(msg.Gen) {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == m.query {
			return m, nil
		}
		m.query = text
		m.items = nil
		m.loading = true
		kind, query := m.kind, m.query
		return m, func() tea.Msg {
			return ui.QueryChangedMsg{Kind: kind, Query: query}
		}

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearching(msg)
		}
		switch {
		case key.Matches(msg, ui.Keys.Search):
			m.searching = true
			m.input.Focus()
			return m, textinput.Blink

		case key.Matches(msg, ui.Keys.StateCycle):
			m.state = nextState(m.state)
			m.items = nil
			m.loading = true
			kind, state := m.kind, m.state
			return m, func() tea.Msg {
				return ui.StateChangedMsg{Kind: kind, State: state}
			}

		case key.Matches(msg, ui.Keys.Down):
			if m.atBottom() && m.hasMore && !m.loading {
				m.loading = true
				kind := m.kind
				return m, func() tea.Msg { return ui.NeedMoreMsg{Kind: kind} }
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.input.Width = msg.Width - 4
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearching routes keystrokes into the search input, arming the
// debounce on every edit. A superseding keystroke invalidates the
// pending timer; only the input's final resting value fires.
func (m Model) updateSearching(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		if m.query != "" {
			// Clearing the filter switches back to the listing
			// endpoint and restarts pagination.
			m.query = ""
			m.items = nil
			m.loading = true
			kind := m.kind
			return m, func() tea.Msg { return ui.QueryChangedMsg{Kind: kind, Query: ""} }
		}
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	gen := m.deb.Arm()
	kind := m.kind
	tick := tea.Tick(pager.DebounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{Kind: kind, Gen: gen}
	})
	return m, tea.Batch(cmd, tick)
}

func (m Model) atBottom() bool {
	n := len(m.list.Items())
	return n > 0 && m.list.Index() >= n-1
}

func nextState(s model.IssueState) model.IssueState {
	switch s {
	case model.StateOpen:
		return model.StateClosed
	case model.StateClosed:
		return model.StateAll
	default:
		return model.StateOpen
	}
}

func (m Model) View() string {
	var b strings.Builder

	if m.searching || m.query != "" {
		b.WriteString(" " + m.input.View() + "\n")
	} else {
		b.WriteString(" " + ui.StyleMuted.Render(m.statusLine()) + "\n")
	}

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("\n  Loading...")
	case m.err != nil && len(m.items) == 0:
		b.WriteString(fmt.Sprintf("\n  Error: %v", m.err))
	case len(m.items) == 0:
		b.WriteString("\n  Nothing here.")
	default:
		b.WriteString(m.list.View())
		if m.err != nil {
			b.WriteString("\n  " + ui.StyleFailure.Render(fmt.Sprintf("Load more failed: %v", m.err)))
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	noun := "issues"
	if m.kind == pager.PullRequests {
		noun = "pull requests"
	}
	line := fmt.Sprintf("[%s] %d %s", m.state, len(m.items), noun)
	if m.query != "" {
		line += fmt.Sprintf(" matching %q (%d total)", m.query, m.total)
	}
	if m.hasMore {
		line += "  •  j past end for more"
	}
	return line
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{ui.Keys.Search, ui.Keys.StateCycle, ui.Keys.Refresh}
}
