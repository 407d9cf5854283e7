package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Filter   key.Binding
	Quit     key.Binding
}

func defaultBrowserKeyMap() browserKeyMap {
	return browserKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:   key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/enter", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Filter, k.Quit}
}

// browserRow is one visible line of the report tree.
type browserRow struct {
	path  string
	group domain.Group
	depth int
}

// reportBrowser is an interactive tree over an assembled report. Top-level
// groups start collapsed and expand to show their subgroups.
type reportBrowser struct {
	title    string
	resp     *app.ReportResponse
	keys     browserKeyMap
	expanded map[string]bool
	cursor   int
	height   int

	filtering bool
	filter    string
}

func newReportBrowser(title string, resp *app.ReportResponse) *reportBrowser {
	return &reportBrowser{
		title:    title,
		resp:     resp,
		keys:     defaultBrowserKeyMap(),
		expanded: make(map[string]bool),
	}
}

func (m *reportBrowser) Init() tea.Cmd { return nil }

func (m *reportBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *reportBrowser) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Expand):
		if m.cursor < len(rows) && len(rows[m.cursor].group.GroupedData) > 0 {
			m.expanded[rows[m.cursor].path] = true
		}
	case key.Matches(msg, m.keys.Collapse):
		if m.cursor < len(rows) {
			row := rows[m.cursor]
			if m.expanded[row.path] {
				delete(m.expanded, row.path)
			} else if row.depth > 0 {
				m.cursor = m.parentIndex(rows, m.cursor)
				delete(m.expanded, rows[m.cursor].path)
			}
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter = ""
	}
	return m, nil
}

func (m *reportBrowser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
		}
	}
	m.cursor = 0
	return m, nil
}

// rows lists the visible lines: top-level groups matching the filter and
// the children of expanded groups.
func (m *reportBrowser) rows() []browserRow {
	var out []browserRow
	var walk func(groups []domain.Group, parent string, depth int)
	walk = func(groups []domain.Group, parent string, depth int) {
		for _, g := range groups {
			if depth == 0 && m.filter != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(m.filter)) {
				continue
			}
			path := parent + "/" + g.Key
			out = append(out, browserRow{path: path, group: g, depth: depth})
			if m.expanded[path] {
				walk(g.GroupedData, path, depth+1)
			}
		}
	}
	walk(m.resp.GroupedData, "", 0)
	return out
}

func (m *reportBrowser) parentIndex(rows []browserRow, i int) int {
	depth := rows[i].depth
	for j := i - 1; j >= 0; j-- {
		if rows[j].depth < depth {
			return j
		}
	}
	return i
}

func (m *reportBrowser) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(m.title) + "\n")
	b.WriteString(formatter.Dim(formatter.FormatRange(m.resp.Start, m.resp.End)) + "\n\n")

	if m.filtering || m.filter != "" {
		cursor := ""
		if m.filtering {
			cursor = "█"
		}
		b.WriteString(formatter.StyleYellow.Render("/") + " " + m.filter + cursor + "\n\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(formatter.Dim("No groups.") + "\n")
	}
	first, last := m.window(len(rows))
	for i := first; i < last; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.cursor) + "\n")
	}

	b.WriteString("\n" + formatter.Bold("Total") + "  " + formatter.FormatDuration(m.resp.Seconds) + "  " +
		formatter.FormatCost(m.resp.Cost, m.resp.Currency, m.resp.CostVisible) + "\n")
	b.WriteString(m.helpLine())
	return b.String()
}

// window keeps the cursor on screen when the terminal height is known.
func (m *reportBrowser) window(n int) (int, int) {
	visible := m.height - 8
	if m.height == 0 || visible <= 0 || n <= visible {
		return 0, n
	}
	first := max(m.cursor-visible+1, 0)
	return first, min(first+visible, n)
}

func (m *reportBrowser) renderRow(row browserRow, selected bool) string {
	marker := "  "
	name := formatter.StyleFg.Render(row.group.Name)
	if selected {
		marker = formatter.StyleGreen.Render("▸ ")
		name = formatter.StyleBold.Render(row.group.Name)
	}
	fold := "  "
	if len(row.group.GroupedData) > 0 {
		fold = "+ "
		if m.expanded[row.path] {
			fold = "- "
		}
	}
	indent := strings.Repeat("  ", row.depth)
	return fmt.Sprintf("%s%s%s%s  %s  %s  %s",
		marker, indent, formatter.Dim(fold), padRight(name, 28-2*row.depth),
		formatter.FormatDuration(row.group.Seconds),
		formatter.FormatCost(row.group.Cost, m.resp.Currency, m.resp.CostVisible),
		formatter.RenderShare(row.group.Seconds, m.resp.Seconds, 10),
	)
}

func (m *reportBrowser) helpLine() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, kb := range m.keys.ShortHelp() {
		h := kb.Help()
		parts = append(parts, formatter.StyleBlue.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · ")) + "\n"
}

// padRight pads a styled string to a minimum visible width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
