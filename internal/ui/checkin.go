package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

type checkinState struct {
	search    textinput.Model
	searching bool
	cursor    int
}

func newCheckinState() checkinState {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "student, equipment or serial"
	ti.CharLimit = 80
	ti.Width = 40
	return checkinState{search: ti}
}

// checkinRows lists outstanding checkouts filtered by the current query.
func (m Model) checkinRows() []inventory.CheckoutRecord {
	active := inventory.ActiveCheckouts(m.snapshot.Checkouts)
	return inventory.SearchCheckouts(active, m.checkin.search.Value())
}

func (m Model) handleCheckinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.checkinRows()
	switch {
	case key.Matches(msg, m.keys.Search):
		m.checkin.searching = true
		return m, m.checkin.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.checkin.search.Value() != "" {
			m.checkin.search.SetValue("")
			m.checkin.cursor = 0
		}
	case key.Matches(msg, m.keys.Up):
		m.checkin.cursor = clamp(m.checkin.cursor-1, len(rows))
	case key.Matches(msg, m.keys.Down):
		m.checkin.cursor = clamp(m.checkin.cursor+1, len(rows))
	case key.Matches(msg, m.keys.Top):
		m.checkin.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.checkin.cursor = clamp(len(rows)-1, len(rows))
	case key.Matches(msg, m.keys.Confirm):
		if m.checkin.cursor < 0 || m.checkin.cursor >= len(rows) || m.coord == nil {
			return m, nil
		}
		rec := rows[m.checkin.cursor]
		if !m.coord.MarkAsReturned(rec.ID) {
			m.message = message{text: fmt.Sprintf("Checkout #%d is no longer on file", rec.ID), kind: messageError}
			return m, nil
		}
		m.message = message{
			text: fmt.Sprintf("Checked in %s (%s) from %s", rec.EquipmentName, rec.SerialNumber, rec.StudentName),
			kind: messageSuccess,
		}
		m.refreshSnapshot()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape, m.keys.Confirm) {
		m.checkin.search.Blur()
		m.checkin.searching = false
		return m, nil
	}
	var cmd tea.Cmd
	m.checkin.search, cmd = m.checkin.search.Update(msg)
	m.checkin.cursor = 0
	return m, cmd
}

func (m Model) renderCheckin(height int) string {
	styles := m.theme.Styles()
	rows := m.checkinRows()
	active := len(inventory.ActiveCheckouts(m.snapshot.Checkouts))

	var b strings.Builder
	if m.checkin.searching || m.checkin.search.Value() != "" {
		b.WriteString(m.checkin.search.View())
	} else {
		b.WriteString(styles.MutedText.Render("press / to search"))
	}
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d of %d outstanding", len(rows), active)))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		if active == 0 {
			b.WriteString(styles.MutedText.Render("Nothing is checked out."))
		} else {
			b.WriteString(styles.MutedText.Render("No checkouts match the search."))
		}
		return b.String()
	}

	header := fmt.Sprintf("%-5s %-22s %-26s %-10s %-10s %-10s", "ID", "Student", "Equipment", "Serial", "Out", "Due")
	b.WriteString(styles.AccentText.Render(header))
	b.WriteString("\n")

	today := time.Now().Format(inventory.DateLayout)
	start, end := visibleRange(m.checkin.cursor, len(rows), max(1, height-4))
	for i := start; i < end; i++ {
		rec := rows[i]
		line := fmt.Sprintf("%-5d %-22s %-26s %-10s %-10s %-10s",
			rec.ID,
			truncate(rec.StudentName, 22),
			truncate(rec.EquipmentName, 26),
			truncate(rec.SerialNumber, 10),
			rec.CheckoutDate,
			rec.ReturnDate,
		)
		switch {
		case i == m.checkin.cursor:
			line = styles.Selected.Render(line)
		case isOverdue(rec, today):
			line = styles.DangerText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// isOverdue compares ISO dates lexically.
func isOverdue(rec inventory.CheckoutRecord, today string) bool {
	return !rec.Returned && rec.ReturnDate != "" && rec.ReturnDate < today
}
