package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

// inventoryItems flattens the category groups into cursor order.
func (m Model) inventoryItems() []inventory.EquipmentItem {
	var items []inventory.EquipmentItem
	for _, g := range inventory.GroupByCategory(m.snapshot.Equipment) {
		items = append(items, g.Items...)
	}
	return items
}

func (m Model) handleInventoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.inventoryItems()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.inventoryCursor = clamp(m.inventoryCursor-1, len(items))
	case key.Matches(msg, m.keys.Down):
		m.inventoryCursor = clamp(m.inventoryCursor+1, len(items))
	case key.Matches(msg, m.keys.Top):
		m.inventoryCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.inventoryCursor = clamp(len(items)-1, len(items))
	case key.Matches(msg, m.keys.Toggle):
		if m.inventoryCursor < 0 || m.inventoryCursor >= len(items) || m.coord == nil {
			return m, nil
		}
		item := items[m.inventoryCursor]
		if err := m.coord.SetEquipmentAvailability(item.ID, !item.Available); err != nil {
			text := fmt.Sprintf("Equipment #%d is no longer on file", item.ID)
			if errors.Is(err, inventory.ErrEquipmentCheckedOut) {
				text = fmt.Sprintf("%s (%s) is still checked out; check it in first", item.Name, item.SerialNumber)
			}
			m.message = message{text: text, kind: messageError}
			return m, nil
		}
		state := "available"
		if item.Available {
			state = "checked out"
		}
		m.message = message{text: fmt.Sprintf("Marked %s (%s) %s", item.Name, item.SerialNumber, state), kind: messageInfo}
		m.refreshSnapshot()
	}
	return m, nil
}

func (m Model) renderInventory(height int) string {
	styles := m.theme.Styles()
	groups := inventory.GroupByCategory(m.snapshot.Equipment)
	if len(groups) == 0 {
		return styles.MutedText.Render("No equipment loaded.")
	}

	var lines []string
	idx := 0
	cursorLine := 0
	for _, g := range groups {
		avail := len(inventory.AvailableEquipment(g.Items))
		heading := fmt.Sprintf("%s  %d/%d available", g.Category, avail, len(g.Items))
		lines = append(lines, styles.AccentText.Bold(true).Render(heading))
		for _, item := range g.Items {
			row := fmt.Sprintf("  %-4d %-30s %-10s ", item.ID, truncate(item.Name, 30), truncate(item.SerialNumber, 10))
			if idx == m.inventoryCursor {
				cursorLine = len(lines)
				row = styles.Selected.Render(row) + styles.Availability(item.Available)
			} else {
				row = styles.Text.Render(row) + styles.Availability(item.Available)
			}
			lines = append(lines, row)
			idx++
		}
	}

	start, end := visibleRange(cursorLine, len(lines), height)
	return strings.Join(lines[start:end], "\n")
}
