package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/logtail"
)

const (
	debugLogLines    = 15
	debugSampleItems = 3
)

type debugLogMsg struct {
	lines []string
}

// loadDebugLogCmd reads the most recent sheet write lines from the log file.
func loadDebugLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return debugLogMsg{}
		}
		lines, err := logtail.ReadFunc(path, debugLogLines, func(line string) bool {
			return logtail.HasAttr(line, "action")
		})
		if err != nil {
			return debugLogMsg{lines: []string{"log unavailable: " + err.Error()}}
		}
		return debugLogMsg{lines: lines}
	}
}

func (m Model) renderDebug() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Diagnostics")
	hint := styles.MutedText.Render("j/k scroll · D or esc to close")
	box := styles.Panel.Width(max(20, m.width-4)).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", m.debugViewport.View(), "", hint),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderDebugContent describes configuration, connectivity and loaded data.
func (m Model) renderDebugContent() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(styles.Label.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	section := func(name string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Render(name))
		b.WriteString("\n")
	}
	yesNo := func(v bool) string {
		if v {
			return styles.SuccessText.Render("yes")
		}
		return styles.DangerText.Render("no")
	}

	section("Configuration")
	row("Sheets configured", yesNo(snap.Configured))
	if m.config != nil {
		sc := m.config.Sheets
		row("Sheet ID", mask(sc.SheetID))
		row("API key", mask(sc.APIKey))
		row("Write endpoint", yesNo(sc.WritesConfigured()))
		row("API base", sc.APIBase)
		row("Ranges", sc.EquipmentRange+", "+sc.CheckoutsRange)
		row("Poll interval", m.config.PollInterval.String())
		row("Log file", m.config.LogFile)
	}

	section("Status")
	row("Online", yesNo(snap.Online))
	row("Phase", snap.Phase.String())
	row("Pending writes", fmt.Sprintf("%d", snap.PendingWrites))
	row("Failed loads", fmt.Sprintf("%d", snap.ConsecutiveFailures))
	if !snap.LastUpdated.IsZero() {
		row("Last updated", snap.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	if snap.Error != "" {
		row("Error", styles.DangerText.Render(snap.Error))
	}
	if snap.Notice != "" {
		row("Notice", styles.WarningText.Render(snap.Notice))
	}

	section("Data")
	active := inventory.ActiveCheckouts(snap.Checkouts)
	row("Equipment", fmt.Sprintf("%d items, %d available", len(snap.Equipment), len(inventory.AvailableEquipment(snap.Equipment))))
	row("Checkouts", fmt.Sprintf("%d records, %d outstanding", len(snap.Checkouts), len(active)))
	for i, item := range snap.Equipment {
		if i == debugSampleItems {
			break
		}
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  #%d %s (%s) %s available=%t",
			item.ID, item.Name, item.SerialNumber, item.Category, item.Available)))
		b.WriteString("\n")
	}
	for i, rec := range snap.Checkouts {
		if i == debugSampleItems {
			break
		}
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  #%d %s -> %s due %s returned=%t",
			rec.ID, rec.EquipmentName, rec.StudentName, rec.ReturnDate, rec.Returned)))
		b.WriteString("\n")
	}

	section("Recent sheet writes")
	if len(m.debugLog) == 0 {
		b.WriteString(styles.MutedText.Render("none logged"))
		b.WriteString("\n")
	}
	for _, line := range m.debugLog {
		b.WriteString(m.styleLogLine(styles, line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) styleLogLine(styles Styles, line string) string {
	switch logtail.Level(line) {
	case "ERROR":
		return styles.DangerText.Render(line)
	case "WARN":
		return styles.WarningText.Render(line)
	case "DEBUG":
		return styles.MutedText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}
