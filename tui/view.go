package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo-remote/model"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	fs := m.ctrl.Filter()
	summary := fmt.Sprintf("filter: %s • theme: %s", strings.ToLower(string(fs.Selected)), m.theme.Theme())
	if fs.SearchText != "" {
		summary += fmt.Sprintf(" • search: %q", fs.SearchText)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		m.styles.title.Render("todo"),
		m.styles.muted.Render("  "+summary),
	)

	viewW := m.viewportWidth()
	const paneGap = 1
	outerPaneW := viewW
	innerPaneW := outerPaneW - 2
	if innerPaneW < 20 {
		innerPaneW = outerPaneW
	}

	panelH := m.height - 6
	if panelH < 8 {
		panelH = 8
	}
	innerPaneH := panelH - 2

	leftW, rightW := m.paneWidths(innerPaneW, paneGap)
	split := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderFilterPanel(leftW, innerPaneH),
		m.styles.divider.Render("│"),
		m.renderTasksPanel(rightW, innerPaneH),
	)

	frameColor := m.styles.frameIdle
	if m.mode == modeNormal {
		frameColor = m.styles.frame
	}
	panes := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Width(outerPaneW - 2).
		Height(panelH).
		Render(split)

	switch {
	case m.showHelp:
		panes = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderHelpOverlay(clamp(viewW-8, 40, 80)))
	case m.mode == modeModal:
		panes = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderModal(clamp(viewW-8, 30, 70)))
	}

	statusText := m.status
	if m.busy > 0 {
		statusText = m.spinner.View() + " " + statusText
	}
	statusStyle := m.styles.status
	if m.statusErr {
		statusStyle = m.styles.statusErr
	}
	total, filtered := m.ctrl.Counts()
	rightHint := fmt.Sprintf("%d/%d tasks • ? keys", filtered, total)
	footer := m.renderFooter(statusText, statusStyle, rightHint)

	parts := []string{header, panes, footer}
	if prompt := m.promptLine(); prompt != "" {
		parts = append(parts, m.styles.prompt.Width(viewW).Render(prompt))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) promptLine() string {
	switch m.mode {
	case modeSearch:
		return m.search.View() + "  (enter keeps, esc clears)"
	case modeConfirmDelete:
		return fmt.Sprintf("Delete %q? [y/N]", m.confirmText)
	}
	return ""
}

func (m *Model) renderFilterPanel(width, height int) string {
	lines := []string{m.panelTitle("Filter", m.filter.IsOpen())}
	for i, f := range m.filter.Options() {
		marker := "  "
		if f == m.filter.Selected() {
			marker = "● "
		}
		line := marker + string(f)
		switch {
		case m.filter.IsOpen() && i == m.filterCursor:
			line = m.styles.selected.Render("▸ " + string(f))
		case f == m.filter.Selected():
			line = m.styles.text.Render(line)
		default:
			line = m.styles.muted.Render(line)
		}
		lines = append(lines, line)
	}
	if !m.filter.IsOpen() {
		lines = append(lines, "", m.styles.hint.Render("f to change"))
	}

	total, filtered := m.ctrl.Counts()
	lines = append(lines, "", m.styles.muted.Render(fmt.Sprintf("%d of %d shown", filtered, total)))

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTasksPanel(width, height int) string {
	lines := []string{m.panelTitle("Tasks", m.mode == modeNormal && !m.filter.IsOpen())}
	sections := m.ctrl.Sections()

	if !sections.HasAnyTask() {
		total, _ := m.ctrl.Counts()
		msg := "No tasks yet. Press 'a' to add one."
		if total > 0 {
			msg = "No task matches the current filter or search."
		}
		lines = append(lines, m.styles.muted.Render(msg))
		return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
	}

	row := 0
	textW := width - 6
	renderSection := func(title string, tasks []model.Task) {
		lines = append(lines, m.styles.section.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
		for _, t := range tasks {
			lines = append(lines, m.renderTaskLine(t, row == m.cursor, textW))
			row++
		}
	}
	if sections.HasIncomplete() {
		renderSection("Open", sections.Incomplete)
	}
	if sections.HasCompleted() {
		if sections.HasIncomplete() {
			lines = append(lines, "")
		}
		renderSection("Completed", sections.Completed)
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTaskLine(t model.Task, selected bool, textW int) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	check := "[ ] "
	if t.Completed {
		check = "[x] "
	}
	text := truncateRunes(t.Text, textW)

	style := m.styles.text
	if t.Completed {
		style = m.styles.done
	}
	if selected {
		style = m.styles.selected
	}
	return style.Render(cursor + check + text)
}

func (m *Model) renderModal(width int) string {
	title := "New task"
	if s := m.ctrl.Session(); s.Mode == model.ModeEdit {
		title = "Edit task"
	}
	m.input.Width = width - 8
	rows := []string{
		m.styles.title.Render(title),
		"",
		m.input.View(),
		"",
		m.styles.hint.Render("enter save • esc cancel"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.frame).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(rows, "\n"))
}

func (m *Model) renderHelpOverlay(width int) string {
	rows := []string{m.styles.title.Render("Keys"), ""}
	for _, group := range m.keys.helpRows() {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		rows = append(rows, m.styles.text.Render("  "+strings.Join(parts, " • ")))
	}
	rows = append(rows, "", m.styles.hint.Render("? or esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.frameIdle).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(rows, "\n"))
}

func (m *Model) panelTitle(title string, active bool) string {
	if !active {
		return m.styles.title.Render(title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		m.styles.selected.Render(title), " ", m.styles.marker.Render("*"))
}
