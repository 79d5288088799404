package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

type formField int

const (
	fieldStudentName formField = iota
	fieldStudentID
	fieldEmail
	fieldMajor
	fieldSponsor
	fieldEquipment
	fieldComments
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Student name",
	"Student ID",
	"Email",
	"Major",
	"Faculty sponsor",
	"Equipment",
	"Comments",
}

var fieldPlaceholders = [fieldCount]string{
	"Jordan Smith",
	"123456789",
	"j.smith@tcu.edu",
	"Digital Culture and Data Analytics",
	"Dr. Lee",
	"",
	"optional",
}

type checkoutForm struct {
	inputs      [fieldCount]textinput.Model
	focus       formField
	editing     bool
	equipCursor int
}

func newCheckoutForm() checkoutForm {
	var f checkoutForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 120
		ti.Width = 40
		f.inputs[i] = ti
	}
	return f
}

// focusField moves input focus. The equipment field is a picker and has no
// text input behind it.
func (f *checkoutForm) focusField(field formField) tea.Cmd {
	if field < 0 {
		field = 0
	}
	if field >= fieldCount {
		field = fieldCount - 1
	}
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	if field == fieldEquipment {
		return nil
	}
	return f.inputs[field].Focus()
}

func (f *checkoutForm) stopEditing() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.editing = false
}

func (f *checkoutForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.stopEditing()
	f.focus = fieldStudentName
	f.equipCursor = 0
}

func (f checkoutForm) value(field formField) string {
	return f.inputs[field].Value()
}

func (m Model) equipmentChoices() []inventory.EquipmentItem {
	return inventory.AvailableEquipment(m.snapshot.Equipment)
}

func (m Model) selectedEquipment() (inventory.EquipmentItem, bool) {
	choices := m.equipmentChoices()
	if m.form.equipCursor < 0 || m.form.equipCursor >= len(choices) {
		return inventory.EquipmentItem{}, false
	}
	return choices[m.form.equipCursor], true
}

func (m Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		m.form.editing = true
		return m, m.form.focusField(m.form.focus)
	case key.Matches(msg, m.keys.Submit):
		return m.submitCheckout()
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.form.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitCheckout()
	case key.Matches(msg, m.keys.Confirm):
		if m.form.focus == fieldCount-1 {
			return m.submitCheckout()
		}
		return m, m.form.focusField(m.form.focus + 1)
	}

	if m.form.focus == fieldEquipment {
		switch {
		case msg.String() == "tab":
			return m, m.form.focusField(m.form.focus + 1)
		case msg.String() == "shift+tab":
			return m, m.form.focusField(m.form.focus - 1)
		case key.Matches(msg, m.keys.Up):
			m.form.equipCursor = clamp(m.form.equipCursor-1, len(m.equipmentChoices()))
		case key.Matches(msg, m.keys.Down):
			m.form.equipCursor = clamp(m.form.equipCursor+1, len(m.equipmentChoices()))
		case key.Matches(msg, m.keys.Top):
			m.form.equipCursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.form.equipCursor = clamp(len(m.equipmentChoices())-1, len(m.equipmentChoices()))
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.focusField(m.form.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.focusField(m.form.focus - 1)
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) submitCheckout() (tea.Model, tea.Cmd) {
	if m.coord == nil {
		return m, nil
	}
	form := inventory.CheckoutForm{
		StudentName:    m.form.value(fieldStudentName),
		StudentID:      m.form.value(fieldStudentID),
		StudentEmail:   m.form.value(fieldEmail),
		StudentMajor:   m.form.value(fieldMajor),
		FacultySponsor: m.form.value(fieldSponsor),
		Comments:       m.form.value(fieldComments),
	}
	if item, ok := m.selectedEquipment(); ok {
		form.EquipmentID = item.ID
	}

	rec, err := m.coord.Checkout(form)
	if err != nil {
		m.message = message{text: checkoutErrorText(err), kind: messageError}
		return m, nil
	}

	m.message = message{
		text: fmt.Sprintf("Checked out %s (%s) to %s, due %s",
			rec.EquipmentName, rec.SerialNumber, rec.StudentName, rec.ReturnDate),
		kind: messageSuccess,
	}
	m.form.reset()
	m.refreshSnapshot()
	return m, nil
}

func checkoutErrorText(err error) string {
	var verr *inventory.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Cannot check out: " + strings.Join(verr.Problems, "; ")
	case errors.Is(err, inventory.ErrEquipmentUnavailable):
		return "That item was just checked out. Pick another."
	case errors.Is(err, inventory.ErrUnknownEquipment):
		return "Select a piece of equipment first."
	default:
		return "Cannot check out: " + err.Error()
	}
}

func (m Model) renderCheckout(height int) string {
	styles := m.theme.Styles()

	formWidth := 64
	if m.width > 0 && m.width < 100 {
		formWidth = max(30, m.width-4)
	}

	var lines []string
	for f := formField(0); f < fieldCount; f++ {
		label := styles.Label.Render(fieldLabels[f])
		if m.form.editing && m.form.focus == f {
			label = styles.AccentText.Width(18).Render("> " + fieldLabels[f])
		}
		if f == fieldEquipment {
			lines = append(lines, label+m.renderEquipmentValue(styles))
			if m.form.editing && m.form.focus == fieldEquipment {
				lines = append(lines, m.renderEquipmentPicker(styles, max(3, height-len(fieldLabels)-6))...)
			}
			continue
		}
		lines = append(lines, label+m.renderInputValue(styles, f))
	}
	lines = append(lines, "")
	if m.form.editing {
		lines = append(lines, styles.MutedText.Render("tab/shift+tab move between fields, ctrl+s submits, esc stops editing"))
	} else {
		lines = append(lines, styles.MutedText.Render("press i to fill in the form, ctrl+s to submit"))
	}
	loanNote := fmt.Sprintf("Loans run %d days from today.", inventory.LoanDays)
	lines = append(lines, styles.MutedText.Render(loanNote))

	formPanel := styles.Panel.Width(formWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.AccentText.Bold(true).Render("New Checkout"),
			"",
			strings.Join(lines, "\n"),
		),
	)

	summary := m.renderAvailabilitySummary(styles)
	if m.width > 0 && m.width < formWidth+lipgloss.Width(summary)+2 {
		return lipgloss.JoinVertical(lipgloss.Left, formPanel, summary)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, formPanel, " ", summary)
}

func (m Model) renderInputValue(styles Styles, f formField) string {
	if m.form.editing && m.form.focus == f {
		return m.form.inputs[f].View()
	}
	if v := m.form.value(f); v != "" {
		return styles.Text.Render(v)
	}
	return styles.MutedText.Render(fieldPlaceholders[f])
}

func (m Model) renderEquipmentValue(styles Styles) string {
	item, ok := m.selectedEquipment()
	if !ok {
		return styles.WarningText.Render("no equipment available")
	}
	return styles.Text.Render(fmt.Sprintf("%s (%s)", item.Name, item.SerialNumber)) +
		styles.MutedText.Render("  "+item.Category)
}

func (m Model) renderEquipmentPicker(styles Styles, height int) []string {
	choices := m.equipmentChoices()
	if len(choices) == 0 {
		return nil
	}
	start, end := visibleRange(m.form.equipCursor, len(choices), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := choices[i]
		row := fmt.Sprintf("  %-28s %-10s %s", truncate(item.Name, 28), item.SerialNumber, item.Category)
		if i == m.form.equipCursor {
			row = styles.Selected.Render(row)
		} else {
			row = styles.Text.Render(row)
		}
		lines = append(lines, row)
	}
	return lines
}

func (m Model) renderAvailabilitySummary(styles Styles) string {
	counts := inventory.CategorySummary(m.snapshot.Equipment)
	lines := []string{styles.AccentText.Bold(true).Render("Availability"), ""}
	if len(counts) == 0 {
		lines = append(lines, styles.MutedText.Render("no equipment loaded"))
	}
	for _, c := range counts {
		ratio := fmt.Sprintf("%d/%d", c.Available, c.Total)
		style := styles.SuccessText
		if c.Available == 0 {
			style = styles.DangerText
		}
		lines = append(lines, fmt.Sprintf("%-18s %s", truncate(c.Category, 18), style.Render(ratio)))
	}
	return styles.Panel.Render(strings.Join(lines, "\n"))
}
