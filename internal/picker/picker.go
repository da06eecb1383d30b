package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Picker is a small TUI that filters sites as the query is typed.
type Picker struct {
	groups    []model.Group
	results   []search.SearchResult
	input     textinput.Model
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over groups, pre-filled with query.
func New(groups []model.Group, query string) Picker {
	input := textinput.New()
	input.Placeholder = "Search sites..."
	input.Prompt = ""
	input.CharLimit = 100
	input.SetValue(query)
	input.Focus()

	return Picker{
		groups:  groups,
		results: search.FuzzySearchSites(groups, query),
		input:   input,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) > 0 {
				p.selected = true
			} else {
				p.cancelled = true
			}
			return p, tea.Quit

		case tea.KeyDown, tea.KeyCtrlN:
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp, tea.KeyCtrlP:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		}
	}

	// Everything else edits the query
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.results = search.FuzzySearchSites(p.groups, p.input.Value())
		p.cursor = 0
	}
	return p, cmd
}

// Query returns the current filter text.
func (p Picker) Query() string {
	return p.input.Value()
}

// visibleRows is how many results fit on screen, two lines each.
func (p Picker) visibleRows() int {
	rows := (p.height - 5) / 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	// Header
	b.WriteString(headerStyle.Render(fmt.Sprintf("Find (%d results)", len(p.results))))
	b.WriteString("\n")
	b.WriteString("> " + p.input.View())
	b.WriteString("\n\n")

	// Scroll so the cursor stays visible
	start := 0
	if rows := p.visibleRows(); p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end := min(len(p.results), start+p.visibleRows())

	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		name := style.Render(result.Site.Name)
		group := groupStyle.Render("[" + result.GroupName + "]")
		url := urlStyle.Render(result.Site.URL)

		fmt.Fprintf(&b, "%s%s %s\n", cursor, name, group)
		fmt.Fprintf(&b, "   %s\n", url)
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type: filter  ↑/↓: move  Enter: select  Esc: cancel"))

	return b.String()
}

// SelectedSite returns the selected site, or nil if cancelled.
func (p Picker) SelectedSite() *model.Site {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		site := p.results[p.cursor].Site
		return &site
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
