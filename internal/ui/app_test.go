package ui

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/connectivity"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/prefs"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/state"
)

// memStore is an unconfigured store that serves fixed tables.
type memStore struct {
	equipment []inventory.EquipmentItem
	checkouts []inventory.CheckoutRecord
}

func (s *memStore) FetchEquipment(context.Context) []inventory.EquipmentItem {
	return inventory.CloneEquipment(s.equipment)
}

func (s *memStore) FetchCheckouts(context.Context) []inventory.CheckoutRecord {
	return inventory.CloneCheckouts(s.checkouts)
}

func (s *memStore) AddCheckout(context.Context, inventory.CheckoutRecord) bool { return true }
func (s *memStore) MarkAsReturned(context.Context, int) bool                  { return true }
func (s *memStore) UpdateEquipment(context.Context, int, bool) bool           { return true }
func (s *memStore) IsConfigured() bool                                        { return false }

func newTestModel(t *testing.T) (Model, *state.Coordinator) {
	t.Helper()
	store := &memStore{
		equipment: []inventory.EquipmentItem{
			{ID: 1, Name: "Canon EOS R6", Category: inventory.CategoryDSLR, SerialNumber: "CAM001", Available: true},
			{ID: 2, Name: "Rode VideoMic", Category: inventory.CategoryMicrophone, SerialNumber: "AUD001", Available: false},
			{ID: 3, Name: "DJI Ronin", Category: inventory.CategoryVideoPro, SerialNumber: "STB001", Available: true},
		},
		checkouts: []inventory.CheckoutRecord{
			{ID: 1, StudentName: "Avery Chen", StudentID: "1001", StudentEmail: "a.chen@tcu.edu",
				CheckoutDate: "2024-06-20", ReturnDate: "2024-06-27", EquipmentID: 2,
				EquipmentName: "Rode VideoMic", SerialNumber: "AUD001"},
		},
	}
	now := time.Date(2024, 6, 28, 9, 0, 0, 0, time.UTC)
	coord := state.New(store, connectivity.NewStatic(true), state.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return now },
	})
	t.Cleanup(coord.Close)
	if err := coord.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	m := New(Options{
		Context:     context.Background(),
		Coordinator: coord,
		PrefsPath:   filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, coord
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, runes(s))
}

func TestCheckoutFormSubmits(t *testing.T) {
	m, coord := newTestModel(t)

	m = update(t, m, runes("i"))
	if !m.form.editing || m.form.focus != fieldStudentName {
		t.Fatalf("editing = %v focus = %v, want editing on student name", m.form.editing, m.form.focus)
	}

	for _, value := range []string{"Jordan Smith", "123456", "j.smith@tcu.edu", "Film", "Dr. Lee"} {
		m = typeText(t, m, value)
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.form.focus != fieldEquipment {
		t.Fatalf("focus = %v, want equipment picker", m.form.focus)
	}
	// Available items are Canon (1) then Ronin (3); pick the second.
	m = update(t, m, runes("j"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.message.kind != messageSuccess {
		t.Fatalf("message = %+v, want success", m.message)
	}
	if m.form.editing || m.form.value(fieldStudentName) != "" {
		t.Fatal("form was not reset after a successful checkout")
	}

	snap := coord.Snapshot()
	if len(snap.Checkouts) != 2 {
		t.Fatalf("checkouts = %d, want 2", len(snap.Checkouts))
	}
	rec := snap.Checkouts[1]
	if rec.ID != 2 || rec.EquipmentID != 3 || rec.StudentName != "Jordan Smith" {
		t.Fatalf("new checkout = %+v", rec)
	}
	if rec.CheckoutDate != "2024-06-28" || rec.ReturnDate != "2024-07-05" {
		t.Fatalf("dates = %s..%s, want 2024-06-28..2024-07-05", rec.CheckoutDate, rec.ReturnDate)
	}
	if item, _ := inventory.FindEquipment(snap.Equipment, 3); item.Available {
		t.Fatal("checked-out item still available")
	}
	if !strings.Contains(m.message.text, "DJI Ronin") {
		t.Fatalf("message = %q, want it to name the item", m.message.text)
	}
}

func TestCheckoutValidationKeepsForm(t *testing.T) {
	m, coord := newTestModel(t)

	m = update(t, m, runes("i"))
	m = typeText(t, m, "Jordan Smith")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.message.kind != messageError {
		t.Fatalf("message = %+v, want error", m.message)
	}
	if !strings.Contains(m.message.text, "student email is required") {
		t.Fatalf("message = %q, want the missing email listed", m.message.text)
	}
	if got := m.form.value(fieldStudentName); got != "Jordan Smith" {
		t.Fatalf("student name = %q, want it kept", got)
	}
	if n := len(coord.Snapshot().Checkouts); n != 1 {
		t.Fatalf("checkouts = %d, want 1", n)
	}
}

func TestTypingQDoesNotQuitWhileEditing(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("i"))

	m = typeText(t, m, "q")
	if !m.form.editing {
		t.Fatal("form left edit mode after typing q")
	}
	if got := m.form.value(fieldStudentName); got != "q" {
		t.Fatalf("student name = %q, want %q", got, "q")
	}
}

func TestCheckinMarksReturned(t *testing.T) {
	m, coord := newTestModel(t)

	m = update(t, m, runes("2"))
	if m.tab != TabCheckin {
		t.Fatalf("tab = %v, want %v", m.tab, TabCheckin)
	}
	if rows := m.checkinRows(); len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.message.kind != messageSuccess {
		t.Fatalf("message = %+v, want success", m.message)
	}
	snap := coord.Snapshot()
	if !snap.Checkouts[0].Returned {
		t.Fatal("checkout not marked returned")
	}
	if item, _ := inventory.FindEquipment(snap.Equipment, 2); !item.Available {
		t.Fatal("returned item not available")
	}
	if rows := m.checkinRows(); len(rows) != 0 {
		t.Fatalf("rows after return = %d, want 0", len(rows))
	}
}

func TestCheckinSearch(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("2"))
	m = update(t, m, runes("/"))
	if !m.checkin.searching {
		t.Fatal("search not active after /")
	}

	m = typeText(t, m, "nobody")
	if rows := m.checkinRows(); len(rows) != 0 {
		t.Fatalf("rows = %d, want 0 for a non-matching query", len(rows))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.checkin.searching {
		t.Fatal("search still active after esc")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if rows := m.checkinRows(); len(rows) != 1 {
		t.Fatalf("rows after clearing = %d, want 1", len(rows))
	}
}

func TestInventoryToggle(t *testing.T) {
	m, coord := newTestModel(t)
	m = update(t, m, runes("3"))

	items := m.inventoryItems()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	first := items[0]

	m = update(t, m, runes("a"))
	got, ok := inventory.FindEquipment(coord.Snapshot().Equipment, first.ID)
	if !ok || got.Available == first.Available {
		t.Fatalf("item %d availability = %v, want %v", first.ID, got.Available, !first.Available)
	}
}

func TestInventoryToggleRefusedWhileCheckedOut(t *testing.T) {
	m, coord := newTestModel(t)
	m = update(t, m, runes("3"))

	for _, item := range m.inventoryItems() {
		if item.ID == 2 {
			break
		}
		m = update(t, m, runes("j"))
	}
	if got := m.inventoryItems()[m.inventoryCursor].ID; got != 2 {
		t.Fatalf("cursor on item %d, want 2", got)
	}

	m = update(t, m, runes("a"))
	if m.message.kind != messageError || !strings.Contains(m.message.text, "still checked out") {
		t.Fatalf("message = %+v, want checked-out error", m.message)
	}
	if got, _ := inventory.FindEquipment(coord.Snapshot().Equipment, 2); got.Available {
		t.Fatal("equipment 2 made available while checkout 1 is open")
	}
}

func TestQuitSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("3"))
	m = update(t, m, runes("T"))

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Tab != TabInventory.String() || p.Theme != "Nightfox" {
		t.Fatalf("prefs = %+v, want Inventory/Nightfox", p)
	}
}

func TestViewRendersChrome(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{appTitle, "Online", "Local Only", "Check Out", "Check In", "Inventory"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}

	m = update(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not rendered")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatal("help overlay still open after esc")
	}
}

func TestDebugOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("D"))
	if !m.showDebug {
		t.Fatal("diagnostics overlay not open")
	}
	content := m.renderDebugContent()
	for _, want := range []string{"Sheets configured", "3 items, 2 available", "1 records, 1 outstanding"} {
		if !strings.Contains(content, want) {
			t.Fatalf("diagnostics missing %q", want)
		}
	}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in   string
		want Tab
	}{
		{"Check In", TabCheckin},
		{" inventory ", TabInventory},
		{"", TabCheckout},
		{"bogus", TabCheckout},
	}
	for _, tt := range tests {
		if got := ParseTab(tt.in); got != tt.want {
			t.Errorf("ParseTab(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
