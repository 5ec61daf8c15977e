// pattern: Imperative Shell

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"skillview/internal/catalog"
	"skillview/internal/present"
)

const (
	branchMid  = "├─ "
	branchLast = "└─ "
	ellipsis   = "…"
)

// View renders the TUI.
func (m Model) View() string {
	layout := m.layout()

	title := m.styles.TitleStyle().Render(m.presenter.T(present.KeyTitle))
	header := lipgloss.JoinVertical(lipgloss.Left, title, m.styles.SubtitleStyle().Render(m.root))

	parts := []string{header}
	if m.filterVisible() {
		parts = append(parts, m.filter.View())
	}

	content := m.renderTree(layout)
	if m.detailOpen {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.renderDetailPanel(layout))
	}
	parts = append(parts, content)

	parts = append(parts,
		m.renderStatusBar(layout.StatusBar.Width),
		m.styles.HelpStyle().Render(m.help.View(m.keys)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTree(layout Layout) string {
	body := lipgloss.NewStyle().Height(layout.Tree.Height).MaxHeight(layout.Tree.Height)
	if layout.Tree.Width > 0 {
		body = body.Width(layout.Tree.Width)
	}

	if len(m.rows) == 0 {
		msg := m.presenter.T(present.KeyNoSkills)
		if m.loading {
			msg = m.spinner.View() + " " + m.presenter.T(present.KeyLoading)
		}
		return body.Render(m.styles.InfoStyle().Render(msg))
	}

	end := len(m.rows)
	if layout.Tree.Height > 0 {
		end = min(m.offset+layout.Tree.Height, len(m.rows))
	}
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, layout.Tree.Width))
	}
	return body.Render(strings.Join(lines, "\n"))
}

// renderRow renders one tree line: cursor, branch, expander, icon, name,
// usage count and summary.
func (m Model) renderRow(r row, selected bool, width int) string {
	e := r.entry

	cursor := "  "
	if selected {
		cursor = "> "
	}

	var prefix string
	if r.depth > 0 {
		prefix = "  " + branchMid
		if r.last {
			prefix = "  " + branchLast
		}
	}

	marker := " "
	if e.IsGroup {
		marker = "▸"
		if m.expanded[e.ID] {
			marker = "▾"
		}
	}

	nameStyle := m.styles.InfoStyle()
	if e.IsGroup {
		nameStyle = m.styles.GroupStyle()
	}
	name := m.presenter.Name(e)
	if len(r.matches) > 0 {
		name = lipgloss.StyleRunes(name, r.matches, m.styles.MatchStyle(), nameStyle)
	} else {
		name = nameStyle.Render(name)
	}

	var count string
	if rec := m.stats[e.ID]; rec.Count > 0 {
		count = " " + m.styles.CountStyle().Render("["+m.presenter.T(present.KeyTimes, rec.Count)+"]")
	}

	summary := strings.Join(strings.Fields(m.presenter.Summary(e)), " ")

	line := cursor + prefix + marker + " " + m.presenter.Icon(e) + " " + name + count +
		"  " + m.styles.SummaryStyle().Render(summary)
	if width > 0 {
		line = ansi.Truncate(line, width, ellipsis)
	}
	if selected {
		line = m.styles.SelectedStyle().Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(layout Layout) string {
	if layout.Detail.Width == 0 {
		return ""
	}
	return m.styles.DetailBoxStyle().
		Height(layout.Detail.Height).
		MaxHeight(layout.Detail.Height).
		Render(m.detail.View())
}

// renderDetailContent renders the detail panel body for e.
func (m Model) renderDetailContent(e catalog.Entry, width int) string {
	p := m.presenter
	var sb strings.Builder

	sb.WriteString(m.styles.TitleStyle().Render(p.Icon(e) + " " + p.Name(e)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.SubtitleStyle().Render(e.ID))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.AccentStyle().Render(p.T(present.KeyPath)+": ") + e.Path + "\n")
	if rec := m.stats[e.ID]; rec.Count > 0 {
		sb.WriteString(m.styles.AccentStyle().Render(p.T(present.KeyUsed)+": ") + p.T(present.KeyTimes, rec.Count) + "\n")
		sb.WriteString(m.styles.AccentStyle().Render(p.T(present.KeyLastUsed)+": ") +
			rec.LastUsed.Local().Format("2006-01-02 15:04") + "\n")
	}
	sb.WriteString("\n")

	detail := p.Detail(e)
	if width > 0 {
		detail = ansi.Wrap(detail, width, "")
	}
	sb.WriteString(detail)

	if len(e.Children) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.AccentStyle().Render(p.T(present.KeyChildSkills)))
		for _, c := range e.Children {
			sb.WriteString("\n  " + p.Icon(c) + " " + p.Name(c))
		}
	}

	return sb.String()
}

// renderStatusBar renders the status message, the web URL and the most
// recent warning or error from the log.
func (m Model) renderStatusBar(width int) string {
	var statusIcon string
	messageStyle := m.styles.InfoStyle()

	switch m.statusLevel {
	case StatusLoading:
		statusIcon = m.spinner.View()
	case StatusSuccess:
		statusIcon = m.styles.SuccessStyle().Render("✓")
		messageStyle = m.styles.SuccessStyle()
	case StatusError:
		statusIcon = m.styles.ErrorStyle().Render("✗")
		messageStyle = m.styles.ErrorStyle()
	}

	statusText := messageStyle.Render(m.statusMessage)
	if statusIcon != "" {
		statusText = statusIcon + " " + statusText
	}

	segments := []string{statusText}
	if m.webURL != "" {
		segments = append(segments, m.styles.AccentStyle().Render(m.webURL))
	}
	if m.lastProblem != nil {
		style := m.styles.WarnStyle()
		if m.lastProblem.Level == "ERROR" {
			style = m.styles.ErrorStyle()
		}
		segments = append(segments, style.Render(m.lastProblem.Summary()))
	}

	bar := strings.Join(segments, m.styles.HelpStyle().Render(" · "))
	if width > 0 {
		bar = ansi.Truncate(bar, width, ellipsis)
	}
	return bar
}
