package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/fold/pkg/metrics"
	"github.com/vanderheijden86/fold/pkg/model"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("244"))
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62"))

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("245"))
	currentCardStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("212"))

	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	noteBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !m.ready {
		return "loading..."
	}
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n")
	b.WriteString(m.carousel())
	b.WriteString("\n\n")

	if m.showNote {
		b.WriteString(noteBoxStyle.Render(m.noteView.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.outlineView())
	}

	if m.inputActive {
		b.WriteString("\n")
		b.WriteString(inputBoxStyle.Render(m.input.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// tabBar renders one cell per tab: index, pin marker, zoom title.
func (m Model) tabBar() string {
	cells := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, m.locationTitle(t.zoomID()))
		if t.alwaysOnTop {
			label = "^ " + label
		}
		label = runewidth.Truncate(label, 18, "…")
		if i == m.active {
			cells = append(cells, activeTabStyle.Render(label))
		} else {
			cells = append(cells, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// carousel renders the active tab's history as a strip of cards with the
// cursor highlighted.
func (m Model) carousel() string {
	h := m.tab().History()
	cards := make([]string, 0, h.Len())
	for i, loc := range h.Entries() {
		title := "home"
		if id, ok := loc.NodeID(); ok {
			title = m.locationTitle(id)
		}
		title = runewidth.Truncate(title, 14, "…")
		if i == h.Cursor() {
			cards = append(cards, currentCardStyle.Render(title))
		} else {
			cards = append(cards, cardStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) locationTitle(nodeID string) string {
	if nodeID == "" {
		return "home"
	}
	if n, ok := m.outline.FindNode(nodeID); ok {
		return n.Title
	}
	return nodeID
}

// outlineView renders the active tab's visible rows.
func (m Model) outlineView() string {
	t := m.tab()
	rows := t.rows(m.outline)
	if len(rows) == 0 {
		return dimStyle.Render("  (empty)") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(m.renderRow(row, i == t.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(row model.Row, selected bool, width int) string {
	marker := "  "
	switch {
	case row.HasChildren && row.Collapsed:
		marker = markerStyle.Render("▸ ")
	case row.HasChildren:
		marker = markerStyle.Render("▾ ")
	}

	line := strings.Repeat("  ", row.Depth) + marker + row.Node.Title
	if row.Node.Note != "" {
		line += dimStyle.Render(" ·")
	}
	line = runewidth.Truncate(line, width-4, "…")

	if selected {
		return cursorStyle.Render("> " + line)
	}
	return "  " + line
}

func (m Model) statusLine() string {
	t := m.tab()
	left := fmt.Sprintf("font %.0f", t.fontSize)
	if t.alwaysOnTop {
		left += " · pinned"
	}
	if m.status != "" {
		left += " · " + m.status
	}
	help := "j/k move  enter zoom  h back  ←/→ carousel  z fold  n new  s settings  q quit"
	return statusStyle.Render(left) + "\n" + dimStyle.Render(help)
}
