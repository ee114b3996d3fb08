package outline

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styles groups the lipgloss styles the panel renders with. The ui package
// derives one from its theme; tests can use DefaultStyles.
type Styles struct {
	Active    lipgloss.Style // current reading position, full label
	Ancestor  lipgloss.Style // ancestors of the active entry, full label
	Indicator lipgloss.Style // everything else, collapsed to a mark
	Panel     lipgloss.Style // outer panel frame
}

// DefaultStyles returns plain styles suitable for tests and non-themed use.
func DefaultStyles() Styles {
	return Styles{
		Active:    lipgloss.NewStyle().Bold(true),
		Ancestor:  lipgloss.NewStyle(),
		Indicator: lipgloss.NewStyle().Faint(true),
		Panel:     lipgloss.NewStyle(),
	}
}

// SetSize resizes the panel viewport. Width and height are the inner content
// area available for entry rows.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
	m.scrollToActive()
}

// SetCompact switches between the normal and compact panel variants. Compact
// narrows labels and drops per-level indentation.
func (m *Model) SetCompact(compact bool) {
	if m.compact == compact {
		return
	}
	m.compact = compact
	m.refresh()
}

// Compact reports whether the compact variant is active.
func (m *Model) Compact() bool { return m.compact }

// View renders the panel.
func (m *Model) View() string {
	return m.styles.Panel.Render(m.vp.View())
}

// refresh re-renders all entry rows into the panel viewport. Visual
// contract: an entry shows its full label only while active or while an
// ancestor of the active entry; all others collapse to minimal-width
// indicator marks proportional to nesting depth.
func (m *Model) refresh() {
	if m.width <= 0 {
		m.vp.SetContent("")
		return
	}

	rows := make([]string, len(m.entries))
	for i, e := range m.entries {
		rows[i] = m.renderEntry(e)
	}
	m.vp.SetContent(strings.Join(rows, "\n"))
}

func (m *Model) renderEntry(e *Entry) string {
	indent := ""
	if !m.compact && e.Level > 1 {
		indent = strings.Repeat(" ", e.Level-1)
	}

	switch {
	case e.node.active:
		return m.styles.Active.Render(indent + truncateLabel(e.Label, m.width-len(indent)))
	case e.node.ancestor:
		return m.styles.Ancestor.Render(indent + truncateLabel(e.Label, m.width-len(indent)))
	default:
		return m.styles.Indicator.Render(indent + strings.Repeat("─", markWidth(e.Level)))
	}
}

// markWidth returns the indicator width for a collapsed entry; deeper
// headings get wider marks so nesting stays readable at a glance.
func markWidth(level int) int {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return level + 1
}

// truncateLabel truncates a label to the given visual width, handling wide
// characters.
func truncateLabel(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
