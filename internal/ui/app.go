package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/config"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/prefs"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/state"
)

// Tab is one of the three top-level screens.
type Tab int

const (
	TabCheckout Tab = iota
	TabCheckin
	TabInventory
	tabCount
)

var tabTitles = [tabCount]string{"Check Out", "Check In", "Inventory"}

func (t Tab) String() string {
	if t >= 0 && t < tabCount {
		return tabTitles[t]
	}
	return tabTitles[TabCheckout]
}

// ParseTab maps a persisted tab name back to a Tab, defaulting to checkout.
func ParseTab(name string) Tab {
	for i, title := range tabTitles {
		if strings.EqualFold(strings.TrimSpace(name), title) {
			return Tab(i)
		}
	}
	return TabCheckout
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Coordinator *state.Coordinator
	Config      *config.Config
	PollTick    time.Duration
	ThemeName   string
	Tab         string
	PrefsPath   string
}

type messageKind int

const (
	messageInfo messageKind = iota
	messageSuccess
	messageError
)

type message struct {
	text string
	kind messageKind
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	coord     *state.Coordinator
	config    *config.Config
	prefsPath string
	pollTick  time.Duration
	keys      keyMap
	help      help.Model

	theme  Theme
	tab    Tab
	width  int
	height int
	ready  bool

	snapshot   state.Snapshot
	refreshing bool

	form            checkoutForm
	checkin         checkinState
	inventoryCursor int

	showHelp      bool
	showDebug     bool
	debugViewport viewport.Model
	debugLog      []string

	message message
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	h := help.New()
	h.ShowAll = true

	m := Model{
		ctx:           ctx,
		coord:         opts.Coordinator,
		config:        opts.Config,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		keys:          DefaultKeyMap(),
		help:          h,
		theme:         GetTheme(opts.ThemeName),
		tab:           ParseTab(opts.Tab),
		form:          newCheckoutForm(),
		checkin:       newCheckinState(),
		debugViewport: viewport.New(80, 20),
	}
	if m.coord != nil {
		m.snapshot = m.coord.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.coord != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.coord))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.debugViewport.Width = max(20, m.width-8)
		m.debugViewport.Height = max(5, m.height-6)
		m.help.Width = m.width
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.coord != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.coord))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampCursors()
		if m.showDebug {
			m.debugViewport.SetContent(m.renderDebugContent())
		}
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.message = message{text: "Refresh failed: " + msg.err.Error(), kind: messageError}
		} else {
			m.message = message{text: "Data refreshed from the sheet", kind: messageInfo}
		}
		return m, fetchSnapshotCmd(m.coord)

	case debugLogMsg:
		m.debugLog = msg.lines
		m.debugViewport.SetContent(m.renderDebugContent())
		return m, nil
	}

	// Cursor blink and other input plumbing.
	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.showDebug {
		if key.Matches(msg, m.keys.Debug, m.keys.Escape) {
			m.showDebug = false
			return m, nil
		}
		var cmd tea.Cmd
		m.debugViewport, cmd = m.debugViewport.Update(msg)
		return m, cmd
	}

	if m.form.editing {
		return m.handleFormKey(msg)
	}
	if m.checkin.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = true
		m.debugViewport.GotoTop()
		m.debugViewport.SetContent(m.renderDebugContent())
		return m, loadDebugLogCmd(m.logFile())
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing || m.coord == nil {
			return m, nil
		}
		m.refreshing = true
		m.message = message{text: "Refreshing...", kind: messageInfo}
		return m, refreshCmd(m.ctx, m.coord)
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount), nil
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount), nil
	case key.Matches(msg, m.keys.Checkout):
		return m.switchTab(TabCheckout), nil
	case key.Matches(msg, m.keys.Checkin):
		return m.switchTab(TabCheckin), nil
	case key.Matches(msg, m.keys.Inventory):
		return m.switchTab(TabInventory), nil
	case key.Matches(msg, m.keys.ClearMessage):
		m.message = message{}
		return m, nil
	}

	switch m.tab {
	case TabCheckin:
		return m.handleCheckinKey(msg)
	case TabInventory:
		return m.handleInventoryKey(msg)
	default:
		return m.handleCheckoutKey(msg)
	}
}

func (m Model) switchTab(tab Tab) Model {
	if m.tab != tab {
		m.tab = tab
		m.savePrefs()
	}
	return m
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.form.editing && m.form.focus != fieldEquipment:
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	case m.checkin.searching:
		m.checkin.search, cmd = m.checkin.search.Update(msg)
	}
	return m, cmd
}

// refreshSnapshot pulls state synchronously after a local mutation so the
// screen reflects it without waiting for the next tick.
func (m *Model) refreshSnapshot() {
	if m.coord != nil {
		m.snapshot = m.coord.Snapshot()
		m.clampCursors()
	}
}

func (m *Model) clampCursors() {
	m.form.equipCursor = clamp(m.form.equipCursor, len(m.equipmentChoices()))
	m.checkin.cursor = clamp(m.checkin.cursor, len(m.checkinRows()))
	m.inventoryCursor = clamp(m.inventoryCursor, len(m.inventoryItems()))
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Tab: m.tab.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		slog.Warn("save preferences", slog.String("error", err.Error()))
	}
}

func (m Model) logFile() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDebug {
		return m.renderDebug()
	}

	header := m.renderHeader()
	tabs := m.renderTabs()
	status := m.renderMessage()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) -
		lipgloss.Height(status) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch m.tab {
	case TabCheckin:
		body = m.renderCheckin(bodyHeight)
	case TabInventory:
		body = m.renderInventory(bodyHeight)
	default:
		body = m.renderCheckout(bodyHeight)
	}
	body = lipgloss.NewStyle().Width(m.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, status, body, footer)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(coord *state.Coordinator) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(coord.Snapshot())
	}
}

func refreshCmd(ctx context.Context, coord *state.Coordinator) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: coord.RefreshData(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
