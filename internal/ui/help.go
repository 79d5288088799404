package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Keyboard Shortcuts")
	body := m.help.View(m.keys)
	hint := styles.MutedText.Render("press ? or esc to close")

	modal := styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
