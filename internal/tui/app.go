// Package tui composes the views into the tabbed application and owns
// all data fetching: every network call runs in a tea command and
// reports back as a message. The app also owns one pager per list view;
// a filter or query change builds a fresh pager under a new generation,
// and results from superseded generations are dropped on arrival.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altin/gh-browse/internal/api"
	"github.com/altin/gh-browse/internal/auth"
	"github.com/altin/gh-browse/internal/config"
	"github.com/altin/gh-browse/internal/model"
	"github.com/altin/gh-browse/internal/pager"
	"github.com/altin/gh-browse/internal/store"
	"github.com/altin/gh-browse/internal/tui/issuelist"
	"github.com/altin/gh-browse/internal/tui/overview"
	"github.com/altin/gh-browse/internal/ui"
)

type View int

const (
	ViewOverview View = iota
	ViewIssues
	ViewPulls
)

const listPerPage = 30

// listState is the app-side half of one list view: the active pager and
// the generation that identifies it.
type listState struct {
	pager *pager.Pager[model.Issue]
	gen   int
	state model.IssueState
	query string
}

type App struct {
	cfg     config.Config
	client  *api.Client
	session *auth.Manager
	store   *store.Store

	overviewView overview.Model
	issuesView   issuelist.Model
	pullsView    issuelist.Model

	lists map[pager.Kind]*listState

	currentView View
	width       int
	height      int
	status      string
	showHelp    bool
}

func NewApp(cfg config.Config, client *api.Client, session *auth.Manager, st *store.Store) App {
	lists := map[pager.Kind]*listState{
		pager.Issues:       {state: model.StateOpen},
		pager.PullRequests: {state: model.StateOpen},
	}
	for kind, ls := range lists {
		ls.pager = pager.New(
			pager.ForQuery(client, kind, cfg.Owner, cfg.Repo, "", ls.state, listPerPage),
			listPerPage,
		)
	}
	return App{
		cfg:          cfg,
		client:       client,
		session:      session,
		store:        st,
		overviewView: overview.New(),
		issuesView:   issuelist.New(pager.Issues),
		pullsView:    issuelist.New(pager.PullRequests),
		lists:        lists,
		currentView:  ViewOverview,
		status:       "Loading...",
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchRepo(),
		a.fetchReadme(),
		a.fetchLanguages(),
		a.fetchContributors(),
		a.loadPage(pager.Issues),
		a.loadPage(pager.PullRequests),
	)
}

// --- Data fetching commands ---

func (a App) fetchRepo() tea.Cmd {
	client, owner, repo := a.client, a.cfg.Owner, a.cfg.Repo
	return func() tea.Msg {
		r, err := client.GetRepository(owner, repo)
		return ui.RepoLoadedMsg{Repo: r, Err: err}
	}
}

func (a App) fetchReadme() tea.Cmd {
	client, owner, repo := a.client, a.cfg.Owner, a.cfg.Repo
	return func() tea.Msg {
		rd, err := client.GetReadme(owner, repo)
		return ui.ReadmeLoadedMsg{Readme: rd, Err: err}
	}
}

func (a App) fetchLanguages() tea.Cmd {
	client, owner, repo := a.client, a.cfg.Owner, a.cfg.Repo
	return func() tea.Msg {
		langs, err := client.GetLanguages(owner, repo)
		return ui.LanguagesLoadedMsg{Languages: langs, Err: err}
	}
}

func (a App) fetchContributors() tea.Cmd {
	client, owner, repo := a.client, a.cfg.Owner, a.cfg.Repo
	return func() tea.Msg {
		contributors, err := client.GetContributors(owner, repo, 10)
		return ui.ContributorsLoadedMsg{Contributors: contributors, Err: err}
	}
}

// loadPage fetches the next page for kind's current pager. The pager is
// only ever touched by one in-flight command; Update serializes loads
// through the loading flags in the list views.
func (a App) loadPage(kind pager.Kind) tea.Cmd {
	ls := a.lists[kind]
	p, gen := ls.pager, ls.gen
	return func() tea.Msg {
		err := p.LoadMore()
		return ui.IssuesPageMsg{
			Kind:    kind,
			Gen:     gen,
			Items:   p.Items(),
			HasMore: p.HasMore(),
			Total:   p.Total(),
			Err:     err,
		}
	}
}

// resetList builds a fresh pager for a changed filter or query, bumping
// the generation so late results from the old pager are ignored.
func (a *App) resetList(kind pager.Kind) tea.Cmd {
	ls := a.lists[kind]
	ls.gen++
	ls.pager = pager.New(
		pager.ForQuery(a.client, kind, a.cfg.Owner, a.cfg.Repo, ls.query, ls.state, listPerPage),
		listPerPage,
	)
	return a.loadPage(kind)
}

func (a App) clearCache() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		return ui.CacheClearedMsg{Err: st.ClearCache()}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case ui.RepoLoadedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			a.status = "Ready"
		}
		a.overviewView, _ = a.overviewView.Update(msg)
		return &a, nil

	case ui.ReadmeLoadedMsg, ui.LanguagesLoadedMsg, ui.ContributorsLoadedMsg:
		a.overviewView, _ = a.overviewView.Update(msg)
		return &a, nil

	case ui.IssuesPageMsg:
		if msg.Gen != a.lists[msg.Kind].gen {
			// Stale result from a superseded pager.
			return &a, nil
		}
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error: %v", msg.Err)
		}
		return a.routeToList(msg.Kind, msg)

	case ui.QueryChangedMsg:
		a.lists[msg.Kind].query = msg.Query
		return &a, a.resetList(msg.Kind)

	case ui.StateChangedMsg:
		a.lists[msg.Kind].state = msg.State
		return &a, a.resetList(msg.Kind)

	case ui.NeedMoreMsg:
		return &a, a.loadPage(msg.Kind)

	case ui.CacheClearedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Clear cache: %v", msg.Err)
		} else {
			a.status = "Cache cleared"
		}
		return &a, nil

	case ui.StatusMsg:
		a.status = msg.Text
		return &a, nil

	case tea.KeyMsg:
		if handled, next, cmd := a.handleKey(msg); handled {
			return next, cmd
		}
	}

	// Everything else goes to the active view.
	var cmd tea.Cmd
	switch a.currentView {
	case ViewOverview:
		a.overviewView, cmd = a.overviewView.Update(msg)
	case ViewIssues:
		a.issuesView, cmd = a.issuesView.Update(msg)
	case ViewPulls:
		a.pullsView, cmd = a.pullsView.Update(msg)
	}
	cmds = append(cmds, cmd)
	return &a, tea.Batch(cmds...)
}

// handleKey deals with app-level chrome keys. Keys are never stolen
// while a search input is focused.
func (a App) handleKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if a.searchFocused() {
		return false, &a, nil
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return true, &a, tea.Quit

	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = !a.showHelp
		return true, &a, nil

	case key.Matches(msg, ui.Keys.Tab):
		a.currentView = (a.currentView + 1) % 3
		return true, &a, nil

	case key.Matches(msg, ui.Keys.ShiftTab):
		a.currentView = (a.currentView + 2) % 3
		return true, &a, nil

	case key.Matches(msg, ui.Keys.Refresh):
		switch a.currentView {
		case ViewOverview:
			return true, &a, tea.Batch(a.fetchRepo(), a.fetchReadme(), a.fetchLanguages(), a.fetchContributors())
		case ViewIssues:
			return true, &a, a.resetList(pager.Issues)
		case ViewPulls:
			return true, &a, a.resetList(pager.PullRequests)
		}

	case key.Matches(msg, ui.Keys.ClearCache):
		a.status = "Clearing cache..."
		return true, &a, a.clearCache()

	case msg.String() == "1":
		a.currentView = ViewOverview
		return true, &a, nil
	case msg.String() == "2":
		a.currentView = ViewIssues
		return true, &a, nil
	case msg.String() == "3":
		a.currentView = ViewPulls
		return true, &a, nil
	}
	return false, &a, nil
}

func (a App) searchFocused() bool {
	switch a.currentView {
	case ViewIssues:
		return a.issuesView.Searching()
	case ViewPulls:
		return a.pullsView.Searching()
	}
	return false
}

func (a *App) routeToList(kind pager.Kind, msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if kind == pager.PullRequests {
		a.pullsView, cmd = a.pullsView.Update(msg)
	} else {
		a.issuesView, cmd = a.issuesView.Update(msg)
	}
	return a, cmd
}

func (a *App) propagateSize() {
	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}
	size := tea.WindowSizeMsg{Width: a.width - 4, Height: contentH}
	a.overviewView, _ = a.overviewView.Update(size)
	a.issuesView, _ = a.issuesView.Update(size)
	a.pullsView, _ = a.pullsView.Update(size)
}

// --- View ---

func (a App) View() string {
	rate := a.client.RateLimit()
	header := RenderHeader(a.cfg.RepoNWO(), a.session.IsLoggedIn(), rate.Remaining, rate.Limit, a.width)
	tabs := a.renderTabs()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}
	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)

	var content string
	switch a.currentView {
	case ViewOverview:
		content = style.Render(a.overviewView.View())
	case ViewIssues:
		content = style.Render(a.issuesView.View())
	case ViewPulls:
		content = style.Render(a.pullsView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// Hard clamp: header(1) + tabs(1) + statusbar(1) of chrome.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			content = strings.Join(lines[:maxContentLines], "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	labels := []string{"[1] Overview", "[2] Issues", "[3] Pull Requests"}
	rendered := make([]string, len(labels))
	for i, label := range labels {
		if View(i) == a.currentView {
			rendered[i] = activeTab.Render(label)
		} else {
			rendered[i] = inactiveTab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a App) contextHints() string {
	bindings := []key.Binding{ui.Keys.Tab, ui.Keys.Refresh}
	switch a.currentView {
	case ViewIssues:
		bindings = append(bindings, a.issuesView.ShortHelp()...)
	case ViewPulls:
		bindings = append(bindings, a.pullsView.ShortHelp()...)
	}
	bindings = append(bindings, ui.Keys.Help, ui.Keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (a App) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"tab / S-tab", "cycle tabs"},
		{"1 / 2 / 3", "jump to tab"},
		{"j/k, pgup/pgdn", "move"},
		{"j past end", "load more"},
		{"s", "cycle open/closed/all"},
		{"/", "free-text search (500ms settle)"},
		{"esc", "clear search"},
		{"r", "refresh current tab"},
		{"ctrl+r", "clear response cache"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString("\n  Keys\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", r.key, r.desc))
	}
	return b.String()
}
