package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/state"
)

const appTitle = "CDEx Equipment"

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render(appTitle)}

	if snap.Online {
		parts = append(parts, styles.SuccessText.Render("● Online"))
	} else {
		parts = append(parts, styles.DangerText.Render("● Offline"))
	}
	if snap.Configured {
		parts = append(parts, styles.InfoText.Render("Sheets: Connected"))
	} else {
		parts = append(parts, styles.WarningText.Render("Local Only"))
	}

	switch snap.Phase {
	case state.PhaseLoading:
		parts = append(parts, styles.InfoText.Render("Loading..."))
	case state.PhaseErrored:
		parts = append(parts, styles.DangerText.Render("Error"))
	}
	if m.refreshing {
		parts = append(parts, styles.InfoText.Render("Refreshing..."))
	}
	if snap.PendingWrites > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("Syncing %d", snap.PendingWrites)))
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render("Updated "+humanizeAgo(time.Since(snap.LastUpdated))))
	}

	sep := styles.MutedText.Render("  │  ")
	line := strings.Join(parts, sep)
	return styles.Header.Width(max(m.width, 1)).Render(line)
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.tab {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabIdle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderMessage shows the latest action result, else the load error or the
// fallback notice.
func (m Model) renderMessage() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	switch {
	case m.message.text != "":
		switch m.message.kind {
		case messageSuccess:
			return styles.SuccessText.Render(m.message.text)
		case messageError:
			return styles.DangerText.Render(m.message.text)
		default:
			return styles.InfoText.Render(m.message.text)
		}
	case snap.Error != "":
		return styles.DangerText.Render(snap.Error)
	case snap.Notice != "":
		text := snap.Notice
		if snap.IsDegraded() {
			text += fmt.Sprintf(" (%d loads without live data)", snap.ConsecutiveFailures)
		}
		return styles.WarningText.Render(text)
	}
	return " "
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var hints []string
	switch {
	case m.form.editing:
		hints = []string{"tab next field", "ctrl+s submit", "esc done"}
	case m.checkin.searching:
		hints = []string{"type to filter", "enter/esc done"}
	default:
		hints = []string{"1-3 tabs", "r refresh", "D diagnostics", "T theme", "? help", "q quit"}
		switch m.tab {
		case TabCheckout:
			hints = append([]string{"i fill form"}, hints...)
		case TabCheckin:
			hints = append([]string{"/ search", "enter check in"}, hints...)
		case TabInventory:
			hints = append([]string{"a toggle availability"}, hints...)
		}
	}
	return styles.Footer.Width(max(m.width, 1)).Render(strings.Join(hints, " · "))
}

func humanizeAgo(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
