package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"stockgate/internal/device"
	"stockgate/internal/gate/service"
	"stockgate/internal/gate/store/memory"
	"stockgate/internal/gate/types"
)

var admin = types.User{UID: "63:19:CE:12", Name: "Default Admin", Role: types.RoleAdmin}

func newTestModel(t *testing.T, users ...types.User) (Model, *memory.AccessLogStore, *memory.StockStore) {
	t.Helper()

	userStore := memory.NewUserStore(users...)
	logStore := memory.NewAccessLogStore()
	stockStore := memory.NewStockStore()

	access := service.NewAccessService(userStore, logStore, device.NoopChannel{}, zap.NewNop())
	roster := service.NewRosterService(userStore)
	stock := service.NewStockService(stockStore)

	return New(access, roster, stock, zap.NewNop()), logStore, stockStore
}

// apply runs one Update and, for convenience, executes any returned command
// synchronously, feeding its message back into the model.
func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	model := next.(Model)
	if cmd != nil {
		if resultMsg := cmd(); resultMsg != nil {
			next, _ = model.Update(resultMsg)
			model = next.(Model)
		}
	}
	return model
}

func pressKey(t *testing.T, m Model, key string) Model {
	t.Helper()
	return apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func pressEnter(t *testing.T, m Model) Model {
	t.Helper()
	return apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// ── Scan handling ────────────────────────────────────────────────────────────

func TestScan_KnownUID_LogsInAndSetsSession(t *testing.T) {
	m, logs, _ := newTestModel(t, admin)

	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	want := types.Session{Role: types.RoleAdmin, Name: "Default Admin", UID: "63:19:CE:12"}
	if m.Session() != want {
		t.Errorf("session = %+v, want %+v", m.Session(), want)
	}
	if !strings.Contains(m.View(), "Welcome, Admin - Default Admin!") {
		t.Error("expected main view greeting after grant")
	}
	if len(logs.Entries()) != 1 || logs.Entries()[0].Status != types.StatusGranted {
		t.Errorf("expected 1 granted log entry, got %+v", logs.Entries())
	}
}

func TestScan_UnknownUID_WarnsAndStaysLoggedOut(t *testing.T) {
	m, logs, _ := newTestModel(t, admin)

	m = apply(t, m, ScanMsg{UID: "AA:BB:CC:DD"})

	if m.Session().Active() {
		t.Errorf("expected no session, got %+v", m.Session())
	}
	view := m.View()
	if !strings.Contains(view, "AA:BB:CC:DD") {
		t.Error("expected warning to contain the denied uid")
	}
	if !strings.Contains(view, "Please scan your RFID card") {
		t.Error("expected login view to remain visible")
	}
	if len(logs.Entries()) != 1 || logs.Entries()[0].Status != types.StatusDenied {
		t.Errorf("expected 1 denied log entry, got %+v", logs.Entries())
	}
}

func TestScan_LaterGrantReplacesSession(t *testing.T) {
	other := types.User{UID: "AA:BB", Name: "John", Role: types.RoleUser}
	m, logs, _ := newTestModel(t, admin, other)

	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})
	m = apply(t, m, ScanMsg{UID: "AA:BB"})

	if m.Session().Name != "John" {
		t.Errorf("expected last-applied session to win, got %+v", m.Session())
	}
	if len(logs.Entries()) != 2 {
		t.Errorf("expected both decisions logged, got %d", len(logs.Entries()))
	}
}

// ── Manual UID entry (manual-only mode) ──────────────────────────────────────

func TestManualEntry_TypedUIDGoesThroughDecisionEngine(t *testing.T) {
	m, logs, _ := newTestModel(t, admin)

	m = pressKey(t, m, "63:19:CE:12")
	m = pressEnter(t, m)

	if !m.Session().Active() {
		t.Fatal("expected session after manual UID entry")
	}
	if len(logs.Entries()) != 1 {
		t.Error("manual entry must produce an audit entry like a scan")
	}
}

// ── Navigation and role gating ───────────────────────────────────────────────

func TestMainView_AdminSeesManageUsers(t *testing.T) {
	m, _, _ := newTestModel(t, admin)
	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	if !strings.Contains(m.View(), "Manage Users") {
		t.Error("expected Manage Users affordance for Admin")
	}
}

func TestMainView_NonAdminBlockedFromUserManager(t *testing.T) {
	user := types.User{UID: "AA:BB", Name: "John", Role: types.RoleUser}
	m, _, _ := newTestModel(t, user)
	m = apply(t, m, ScanMsg{UID: "AA:BB"})

	if strings.Contains(m.View(), "Manage Users") {
		t.Error("expected no Manage Users affordance for non-admin")
	}

	m = pressKey(t, m, "u")
	if strings.Contains(m.View(), "User Manager") {
		t.Error("expected non-admin to be refused the user manager view")
	}
	if !strings.Contains(m.View(), "Only an Admin") {
		t.Error("expected a visible refusal warning")
	}
}

func TestLogout_ClearsSessionAndReturnsToLogin(t *testing.T) {
	m, _, _ := newTestModel(t, admin)
	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	m = pressKey(t, m, "l")

	if m.Session().Active() {
		t.Errorf("expected cleared session, got %+v", m.Session())
	}
	if !strings.Contains(m.View(), "Please scan your RFID card") {
		t.Error("expected login view after logout")
	}
}

func TestUserManager_ListsRoster(t *testing.T) {
	m, _, _ := newTestModel(t, admin)
	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	m = pressKey(t, m, "u")

	view := m.View()
	if !strings.Contains(view, "User Manager") || !strings.Contains(view, "Default Admin") {
		t.Errorf("expected roster listing, got:\n%s", view)
	}
}

// ── Stock flows ──────────────────────────────────────────────────────────────

func TestStockFlow_AddItem(t *testing.T) {
	m, _, stockStore := newTestModel(t, admin)
	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	m = pressKey(t, m, "s") // stock manager
	m = pressKey(t, m, "a") // add item flow
	m = pressKey(t, m, "Widgets")
	m = pressEnter(t, m)
	m = pressKey(t, m, "10")
	m = pressEnter(t, m)

	if !strings.Contains(m.View(), "Widgets") {
		t.Error("expected Widgets in the stock table")
	}

	logs := stockStore.Logs()
	if len(logs) != 1 || logs[0].Change != 10 || logs[0].UserUID != "63:19:CE:12" {
		t.Errorf("expected one stock log with change 10, got %+v", logs)
	}
}

func TestStockFlow_NonIntegerQuantityRejected(t *testing.T) {
	m, _, stockStore := newTestModel(t, admin)
	m = apply(t, m, ScanMsg{UID: "63:19:CE:12"})

	m = pressKey(t, m, "s")
	m = pressKey(t, m, "a")
	m = pressKey(t, m, "Widgets")
	m = pressEnter(t, m)
	m = pressKey(t, m, "lots")
	m = pressEnter(t, m)

	if !strings.Contains(m.View(), "whole number") {
		t.Error("expected a visible warning for non-integer quantity")
	}
	if len(stockStore.Logs()) != 0 {
		t.Error("expected nothing written for rejected input")
	}
	items, _ := stockStore.ListItems(context.Background())
	if len(items) != 0 {
		t.Error("expected no item inserted for rejected input")
	}
}
