package flashcard

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qbank/internal/ui/components"
	"github.com/abhisek/qbank/internal/ui/layout"
	"github.com/abhisek/qbank/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	headerTitle := m.current.Category
	if m.phase == phaseSummary {
		headerTitle = "Session Summary"
	}
	header := layout.RenderHeader(headerTitle, m.answered, m.correct, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	var content string
	switch {
	case m.confirmQuit:
		content = m.renderQuitConfirm()
	case m.phase == phaseSummary:
		content = m.renderSummary()
	default:
		content = m.renderQuestion()
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) renderQuestion() string {
	var b strings.Builder

	progress := components.NewProgressBar(
		fmt.Sprintf("  Question %d/%d", m.answered+1, m.total),
		float64(m.answered)/float64(m.total),
		false,
		m.width-4,
	)
	b.WriteString(progress.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", m.width-4)))
	b.WriteString("\n\n")

	b.WriteString(theme.Prompt.Width(m.width - 8).Render("  " + m.current.Prompt))
	b.WriteString("\n\n")

	for _, snip := range m.current.Snippets {
		b.WriteString(theme.Code.Width(m.width - 8).Render(snip.Code))
		b.WriteString("\n\n")
	}

	if m.phase == phaseRevealed {
		b.WriteString(theme.Category.Render("  Answer"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(m.width - 8).Render("  " + m.current.Answer))
		b.WriteString("\n")
		if m.current.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(theme.Category.Render("  Explanation"))
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(m.width - 8).Render("  " + m.current.Explanation))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Did you get it right?"))
	} else {
		b.WriteString(theme.Hint.Render("  Press Enter to reveal the answer"))
	}

	return b.String()
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(m.width).Render("Session complete"))
	b.WriteString("\n\n")

	score := fmt.Sprintf("%d / %d correct", m.report.Correct, m.report.Total)
	b.WriteString(lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Foreground(theme.Text).Render(score))
	b.WriteString("\n\n")

	cats := make([]string, 0, len(m.report.ByCategory))
	for cat := range m.report.ByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		cs := m.report.ByCategory[cat]
		pct := 0.0
		if cs.Total > 0 {
			pct = float64(cs.Correct) / float64(cs.Total)
		}
		bar := components.NewProgressBar("  "+cat, pct, true, m.width-8)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderQuitConfirm() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render("\n\nEnd this session early?\n\nAnswered so far will be recorded.")
}
