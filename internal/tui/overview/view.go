// Package overview renders the repository landing view: metadata,
// language breakdown, top contributors and the README.
package overview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/altin/gh-browse/internal/model"
	"github.com/altin/gh-browse/internal/ui"
)

type Model struct {
	viewport viewport.Model
	ready    bool

	repo         *model.Repository
	languages    model.Languages
	contributors []model.Contributor
	readme       *model.ReadmeContent
	readmeAbsent bool
	err          error

	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RepoLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.repo = msg.Repo
		}
		m.refreshContent()

	case ui.ReadmeLoadedMsg:
		if msg.Err == nil {
			m.readme = msg.Readme
			m.readmeAbsent = msg.Readme == nil
		}
		m.refreshContent()

	case ui.LanguagesLoadedMsg:
		if msg.Err == nil {
			m.languages = msg.Languages
		}
		m.refreshContent()

	case ui.ContributorsLoadedMsg:
		if msg.Err == nil {
			m.contributors = msg.Contributors
		}
		m.refreshContent()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
		}
		m.refreshContent()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refreshContent rebuilds the scrollable body. Called on every data
// arrival and on resize; README markdown is re-rendered to the current
// width.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

func (m Model) renderBody() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if m.repo == nil {
		return "\n  Loading repository..."
	}

	var b strings.Builder
	r := m.repo

	title := lipgloss.NewStyle().Bold(true).Render(r.FullName)
	if r.Private {
		title += ui.StyleWarning.Render("  (private)")
	}
	if r.Archived {
		title += ui.StyleMuted.Render("  (archived)")
	}
	b.WriteString(" " + title + "\n")
	if r.Description != "" {
		b.WriteString(" " + ui.StyleMuted.Render(r.Description) + "\n")
	}

	stats := fmt.Sprintf(" ★ %d   ⑂ %d   issues %d   default %s",
		r.StargazersCount, r.ForksCount, r.OpenIssuesCount, r.DefaultBranch)
	b.WriteString(ui.StyleInfo.Render(stats) + "\n")

	if len(r.Topics) > 0 {
		b.WriteString(" " + ui.StyleMuted.Render(strings.Join(r.Topics, " · ")) + "\n")
	}
	if lang := m.renderLanguages(); lang != "" {
		b.WriteString(" " + lang + "\n")
	}
	if contrib := m.renderContributors(); contrib != "" {
		b.WriteString(" " + contrib + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.readme != nil:
		b.WriteString(m.renderReadme())
	case m.readmeAbsent:
		b.WriteString(ui.StyleMuted.Render("  No README."))
	default:
		b.WriteString(ui.StyleMuted.Render("  Loading README..."))
	}
	return b.String()
}

// renderLanguages shows languages largest-first with byte share.
func (m Model) renderLanguages() string {
	if len(m.languages) == 0 {
		return ""
	}
	type lang struct {
		name  string
		bytes int64
	}
	var total int64
	langs := make([]lang, 0, len(m.languages))
	for name, n := range m.languages {
		langs = append(langs, lang{name, n})
		total += n
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].bytes > langs[j].bytes })
	if len(langs) > 5 {
		langs = langs[:5]
	}

	parts := make([]string, len(langs))
	for i, l := range langs {
		parts[i] = fmt.Sprintf("%s %.0f%%", l.name, float64(l.bytes)/float64(total)*100)
	}
	return ui.StyleMuted.Render(strings.Join(parts, "  "))
}

func (m Model) renderContributors() string {
	if len(m.contributors) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.contributors))
	for _, c := range m.contributors {
		names = append(names, fmt.Sprintf("%s (%d)", c.Login, c.Contributions))
	}
	return ui.StyleMuted.Render("contributors: " + strings.Join(names, ", "))
}

func (m Model) renderReadme() string {
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return m.readme.Content
	}
	out, err := renderer.Render(m.readme.Content)
	if err != nil {
		// Raw markdown beats nothing.
		return m.readme.Content
	}
	return out
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}
	return m.viewport.View()
}
