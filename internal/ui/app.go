package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"stockgate/internal/gate/service"
	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

// ScanMsg carries a parsed UID from the background reader into the Update
// loop.  Delivered via Program.Send, so scans arrive in FIFO order and all
// decision side effects run on the serializing execution context.
type ScanMsg struct {
	UID string
}

type view int

const (
	viewLogin view = iota
	viewMain
	viewUsers
	viewStock
	viewAccessLogs
	viewStockLogs
)

const logViewLimit = 50

// ── Messages ─────────────────────────────────────────────────────────────────

type (
	usersLoadedMsg      []types.User
	stockLoadedMsg      []types.StockItem
	accessLogsLoadedMsg []types.AccessLogEntry
	stockLogsLoadedMsg  []types.StockLogEntry
	errMsg              struct{ err error }
)

// ── Prompt flows ─────────────────────────────────────────────────────────────

type flowKind int

const (
	flowAddUser flowKind = iota
	flowDeleteUser
	flowAddItem
	flowUpdateQty
)

// promptFlow walks the user through a short sequence of text prompts, the
// terminal stand-in for the original dialog chain.
type promptFlow struct {
	kind    flowKind
	labels  []string
	answers []string
	subject string // selected uid or item name for delete/update
	input   textinput.Model
}

func newFlow(kind flowKind, subject string, labels ...string) *promptFlow {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 128
	return &promptFlow{kind: kind, labels: labels, subject: subject, input: ti}
}

func (f *promptFlow) label() string { return f.labels[len(f.answers)] }

// ── Model ────────────────────────────────────────────────────────────────────

type Model struct {
	access *service.AccessService
	roster *service.RosterService
	stock  *service.StockService
	logger *zap.Logger
	styles Styles

	view    view
	session types.Session
	warning string
	info    string

	table *Table
	flow  *promptFlow

	// Manual UID entry on the login view; with no device attached this is
	// the only way in.
	manualInput textinput.Model

	width  int
	height int
}

func New(access *service.AccessService, roster *service.RosterService, stock *service.StockService, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "or type a UID and press Enter"
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		access:      access,
		roster:      roster,
		stock:       stock,
		logger:      logger,
		styles:      DefaultStyles(),
		view:        viewLogin,
		table:       NewTable(),
		manualInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Session exposes the current session for tests.
func (m Model) Session() types.Session { return m.session }

// ── Update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ScanMsg:
		return m.applyDecision(msg.UID), nil

	case usersLoadedMsg:
		t := NewTable("UID", "Name", "Role")
		for _, u := range msg {
			t.AddRow(u.UID, u.Name, string(u.Role))
		}
		t.MoveSelection(0)
		m.table = t
		return m, nil

	case stockLoadedMsg:
		t := NewTable("Name", "Quantity")
		for _, it := range msg {
			t.AddRow(it.Name, strconv.Itoa(it.Quantity))
		}
		t.MoveSelection(0)
		m.table = t
		return m, nil

	case accessLogsLoadedMsg:
		t := NewTable("Time", "UID", "Status")
		for _, e := range msg {
			t.AddRow(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.UID, string(e.Status))
		}
		m.table = t
		return m, nil

	case stockLogsLoadedMsg:
		t := NewTable("Time", "Item", "Change", "By")
		for _, e := range msg {
			t.AddRow(
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Name,
				fmt.Sprintf("%+d", e.Change),
				fmt.Sprintf("%s (%s)", e.UserName, e.UserUID),
			)
		}
		m.table = t
		return m, nil

	case errMsg:
		m.logger.Warn("view data load failed", zap.Error(msg.err))
		m.warning = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyDecision runs the decision engine for a scanned (or typed) UID and
// applies the outcome to session and view state.  Errors leave both
// unchanged.
func (m Model) applyDecision(uid string) Model {
	m.warning, m.info = "", ""

	d, err := m.access.Decide(context.Background(), uid)
	if err != nil {
		m.warning = fmt.Sprintf("Access check failed: %v", err)
		return m
	}

	if !d.Granted {
		m.warning = fmt.Sprintf("UID: %s - Access Denied. Please try again.", uid)
		return m
	}

	// Last-applied-wins: a later Granted scan simply replaces the session.
	m.session = types.SessionFor(*d.User)
	m.view = viewMain
	m.info = fmt.Sprintf("Welcome, %s - %s!", m.session.Role, m.session.Name)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.flow != nil {
		return m.handleFlowKey(msg)
	}

	switch m.view {
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewMain:
		return m.handleMainKey(msg)
	case viewUsers:
		return m.handleUsersKey(msg)
	case viewStock:
		return m.handleStockKey(msg)
	case viewAccessLogs, viewStockLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		return m, tea.Quit
	case tea.KeyEnter:
		uid := strings.TrimSpace(m.manualInput.Value())
		m.manualInput.SetValue("")
		if uid == "" {
			return m, nil
		}
		return m.applyDecision(uid), nil
	}

	var cmd tea.Cmd
	m.manualInput, cmd = m.manualInput.Update(msg)
	return m, cmd
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warning, m.info = "", ""

	switch msg.String() {
	case "u":
		if m.session.Role != types.RoleAdmin {
			m.warning = "Only an Admin can manage users."
			return m, nil
		}
		m.view = viewUsers
		return m, m.loadUsers()
	case "s":
		m.view = viewStock
		return m, m.loadStock()
	case "a":
		m.view = viewAccessLogs
		return m, m.loadAccessLogs()
	case "g":
		m.view = viewStockLogs
		return m, m.loadStockLogs()
	case "l":
		m.session = types.Session{}
		m.view = viewLogin
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewMain
		return m, nil
	case "up", "k":
		m.table.MoveSelection(-1)
		return m, nil
	case "down", "j":
		m.table.MoveSelection(1)
		return m, nil
	case "r":
		return m, m.loadUsers()
	case "a":
		m.warning, m.info = "", ""
		m.flow = newFlow(flowAddUser, "",
			"Enter RFID UID (e.g. 63:19:CE:12):",
			"Enter User Name:",
			"Enter Role (Admin/User):",
		)
		return m, textinput.Blink
	case "d":
		row := m.table.SelectedRow()
		if row == nil {
			return m, nil
		}
		m.warning, m.info = "", ""
		m.flow = newFlow(flowDeleteUser, row[0],
			fmt.Sprintf("Delete user with UID %s? (y/N):", row[0]),
		)
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleStockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewMain
		return m, nil
	case "up", "k":
		m.table.MoveSelection(-1)
		return m, nil
	case "down", "j":
		m.table.MoveSelection(1)
		return m, nil
	case "r":
		return m, m.loadStock()
	case "a":
		m.warning, m.info = "", ""
		m.flow = newFlow(flowAddItem, "",
			"Enter Item Name:",
			"Enter Initial Quantity:",
		)
		return m, textinput.Blink
	case "u":
		row := m.table.SelectedRow()
		if row == nil {
			return m, nil
		}
		m.warning, m.info = "", ""
		m.flow = newFlow(flowUpdateQty, row[0],
			fmt.Sprintf("Enter new quantity for %q:", row[0]),
		)
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewMain
		return m, nil
	case "r":
		if m.view == viewAccessLogs {
			return m, m.loadAccessLogs()
		}
		return m, m.loadStockLogs()
	}
	return m, nil
}

func (m Model) handleFlowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.flow = nil
		return m, nil
	case tea.KeyEnter:
		m.flow.answers = append(m.flow.answers, m.flow.input.Value())
		if len(m.flow.answers) < len(m.flow.labels) {
			m.flow.input.SetValue("")
			return m, nil
		}
		flow := m.flow
		m.flow = nil
		return m.finishFlow(flow)
	}

	var cmd tea.Cmd
	m.flow.input, cmd = m.flow.input.Update(msg)
	return m, cmd
}

// finishFlow executes the completed prompt sequence.  Non-integer quantity
// input is rejected with a warning and writes nothing, for add and update
// alike.
func (m Model) finishFlow(f *promptFlow) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch f.kind {
	case flowAddUser:
		uid, name, role := f.answers[0], f.answers[1], f.answers[2]
		err := m.roster.AddUser(ctx, uid, name, role)
		switch {
		case errors.Is(err, store.ErrDuplicateUID):
			m.warning = fmt.Sprintf("UID %s already exists.", strings.TrimSpace(uid))
		case err != nil:
			m.warning = fmt.Sprintf("Could not add user: %v", err)
		default:
			m.info = fmt.Sprintf("User %q added.", strings.TrimSpace(name))
		}
		return m, m.loadUsers()

	case flowDeleteUser:
		if ans := strings.ToLower(strings.TrimSpace(f.answers[0])); ans != "y" && ans != "yes" {
			return m, nil
		}
		if err := m.roster.RemoveUser(ctx, f.subject); err != nil {
			m.warning = fmt.Sprintf("Could not delete user: %v", err)
		} else {
			m.info = fmt.Sprintf("User with UID %s deleted.", f.subject)
		}
		return m, m.loadUsers()

	case flowAddItem:
		name := f.answers[0]
		qty, ok := parseQuantity(f.answers[1])
		if !ok {
			m.warning = "Quantity must be a whole number; nothing was added."
			return m, nil
		}
		if err := m.stock.AddItem(ctx, m.session, name, qty); err != nil {
			m.warning = fmt.Sprintf("Could not add item: %v", err)
		} else {
			m.info = fmt.Sprintf("Added %q with quantity %d.", strings.TrimSpace(name), qty)
		}
		return m, m.loadStock()

	case flowUpdateQty:
		qty, ok := parseQuantity(f.answers[0])
		if !ok {
			m.warning = "Quantity must be a whole number; nothing was updated."
			return m, nil
		}
		change, err := m.stock.SetQuantity(ctx, m.session, f.subject, qty)
		if err != nil {
			m.warning = fmt.Sprintf("Could not update %q: %v", f.subject, err)
		} else {
			m.info = fmt.Sprintf("%q quantity updated to %d (change %+d).", f.subject, qty, change)
		}
		return m, m.loadStock()
	}

	return m, nil
}

func parseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ── Load commands ────────────────────────────────────────────────────────────

func (m Model) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.roster.ListUsers(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return usersLoadedMsg(users)
	}
}

func (m Model) loadStock() tea.Cmd {
	return func() tea.Msg {
		items, err := m.stock.Items(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return stockLoadedMsg(items)
	}
}

func (m Model) loadAccessLogs() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.access.RecentLogs(context.Background(), logViewLimit)
		if err != nil {
			return errMsg{err}
		}
		return accessLogsLoadedMsg(entries)
	}
}

func (m Model) loadStockLogs() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.stock.RecentLogs(context.Background(), logViewLimit)
		if err != nil {
			return errMsg{err}
		}
		return stockLogsLoadedMsg(entries)
	}
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("stockgate — RFID Access & Stock"))
	sb.WriteString("\n\n")

	if m.flow != nil {
		sb.WriteString(m.styles.Prompt.Render(m.flow.label()))
		sb.WriteString("\n")
		sb.WriteString(m.flow.input.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Help.Render("enter: next · esc: cancel"))
		sb.WriteString(m.statusLines())
		return sb.String()
	}

	switch m.view {
	case viewLogin:
		sb.WriteString("Please scan your RFID card...\n\n")
		sb.WriteString(m.manualInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Help.Render("enter: check UID · esc: quit"))

	case viewMain:
		sb.WriteString(m.styles.Greeting.Render(
			fmt.Sprintf("Welcome, %s - %s!", m.session.Role, m.session.Name)))
		sb.WriteString("\n\n")
		if m.session.Role == types.RoleAdmin {
			sb.WriteString("  u  Manage Users\n")
		}
		sb.WriteString("  s  Manage Stock\n")
		sb.WriteString("  a  Access Logs\n")
		sb.WriteString("  g  Stock Logs\n")
		sb.WriteString("  l  Logout\n")
		sb.WriteString("  q  Exit Application\n")

	case viewUsers:
		sb.WriteString(m.styles.Title.Render("User Manager"))
		sb.WriteString("\n")
		sb.WriteString(m.table.View(m.styles))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("a: add · d: delete · r: refresh · ↑/↓: select · esc: back"))

	case viewStock:
		sb.WriteString(m.styles.Title.Render("Stock Manager"))
		sb.WriteString("\n")
		sb.WriteString(m.table.View(m.styles))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("a: add item · u: update quantity · r: refresh · ↑/↓: select · esc: back"))

	case viewAccessLogs:
		sb.WriteString(m.styles.Title.Render("Access Logs"))
		sb.WriteString("\n")
		sb.WriteString(m.table.View(m.styles))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("r: refresh · esc: back"))

	case viewStockLogs:
		sb.WriteString(m.styles.Title.Render("Stock Logs"))
		sb.WriteString("\n")
		sb.WriteString(m.table.View(m.styles))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("r: refresh · esc: back"))
	}

	sb.WriteString(m.statusLines())
	return sb.String()
}

func (m Model) statusLines() string {
	var sb strings.Builder
	if m.warning != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Warning.Render(m.warning))
	}
	if m.info != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Success.Render(m.info))
	}
	return sb.String()
}
