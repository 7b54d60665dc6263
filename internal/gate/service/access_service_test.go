package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"stockgate/internal/device"
	"stockgate/internal/gate/service"
	"stockgate/internal/gate/store/memory"
	"stockgate/internal/gate/types"
)

// recordingChannel captures tokens written to the device.  Implements
// device.Channel.
type recordingChannel struct {
	mu     sync.Mutex
	writes []string
}

func (c *recordingChannel) Available() bool { return true }
func (c *recordingChannel) Read() []byte    { return nil }
func (c *recordingChannel) Close()          {}

func (c *recordingChannel) WriteLine(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, token)
}

func (c *recordingChannel) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	copy(out, c.writes)
	return out
}

// newTestAccessService builds an AccessService backed by in-memory stores,
// returning the log store and the channel so tests can inspect side effects.
func newTestAccessService(users ...types.User) (*service.AccessService, *memory.AccessLogStore, *recordingChannel) {
	userStore := memory.NewUserStore(users...)
	logStore := memory.NewAccessLogStore()
	ch := &recordingChannel{}
	svc := service.NewAccessService(userStore, logStore, ch, zap.NewNop())
	return svc, logStore, ch
}

var defaultAdmin = types.User{
	UID:  "63:19:CE:12",
	Name: "Default Admin",
	Role: types.RoleAdmin,
}

// ── Grant path ───────────────────────────────────────────────────────────────

func TestDecide_KnownUID_Granted(t *testing.T) {
	svc, logs, ch := newTestAccessService(defaultAdmin)

	d, err := svc.Decide(context.Background(), "63:19:CE:12")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if !d.Granted {
		t.Error("expected granted=true")
	}
	if d.User == nil || d.User.Name != "Default Admin" || d.User.Role != types.RoleAdmin {
		t.Errorf("expected matched admin user, got %+v", d.User)
	}

	entries := logs.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].UID != "63:19:CE:12" || entries[0].Status != types.StatusGranted {
		t.Errorf("unexpected log entry: %+v", entries[0])
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	if writes := ch.Writes(); len(writes) != 1 || writes[0] != "GRANTED" {
		t.Errorf("expected exactly one GRANTED token, got %v", writes)
	}
}

func TestDecide_GrantedSessionValues(t *testing.T) {
	svc, _, _ := newTestAccessService(defaultAdmin)

	d, err := svc.Decide(context.Background(), "63:19:CE:12")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}

	sess := types.SessionFor(*d.User)
	want := types.Session{Role: types.RoleAdmin, Name: "Default Admin", UID: "63:19:CE:12"}
	if sess != want {
		t.Errorf("session = %+v, want %+v", sess, want)
	}
}

// ── Deny path ────────────────────────────────────────────────────────────────

func TestDecide_UnknownUID_Denied(t *testing.T) {
	svc, logs, ch := newTestAccessService(defaultAdmin)

	d, err := svc.Decide(context.Background(), "AA:BB:CC:DD")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if d.Granted {
		t.Error("expected granted=false for unknown uid")
	}
	if d.User != nil {
		t.Errorf("expected nil user, got %+v", d.User)
	}

	entries := logs.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry even when denied, got %d", len(entries))
	}
	if entries[0].UID != "AA:BB:CC:DD" || entries[0].Status != types.StatusDenied {
		t.Errorf("unexpected log entry: %+v", entries[0])
	}

	if writes := ch.Writes(); len(writes) != 1 || writes[0] != "DENIED" {
		t.Errorf("expected exactly one DENIED token, got %v", writes)
	}
}

// ── Audit properties ─────────────────────────────────────────────────────────

func TestDecide_NDecisions_NLogEntries(t *testing.T) {
	svc, logs, _ := newTestAccessService(defaultAdmin)
	ctx := context.Background()

	uids := []string{"63:19:CE:12", "AA:BB:CC:DD", "63:19:CE:12", "11:22:33:44", "63:19:CE:12"}
	for _, uid := range uids {
		if _, err := svc.Decide(ctx, uid); err != nil {
			t.Fatalf("Decide(%s): %v", uid, err)
		}
	}

	if got := len(logs.Entries()); got != len(uids) {
		t.Errorf("expected %d log entries, got %d", len(uids), got)
	}
}

func TestDecide_AuditFailure_SurfacedButTokenStillWritten(t *testing.T) {
	svc, logs, ch := newTestAccessService(defaultAdmin)
	logs.FailNext = errors.New("disk full")

	_, err := svc.Decide(context.Background(), "63:19:CE:12")
	if err == nil {
		t.Fatal("expected error when audit write fails")
	}

	// The device is never left hanging on a scan.
	if writes := ch.Writes(); len(writes) != 1 {
		t.Errorf("expected token write despite audit failure, got %v", writes)
	}
}

// ── Validation ───────────────────────────────────────────────────────────────

func TestDecide_EmptyUID_NoSideEffects(t *testing.T) {
	svc, logs, ch := newTestAccessService(defaultAdmin)

	_, err := svc.Decide(context.Background(), "   ")
	if !errors.Is(err, service.ErrInvalidUID) {
		t.Fatalf("expected ErrInvalidUID, got %v", err)
	}

	if len(logs.Entries()) != 0 {
		t.Error("expected no log entry for empty uid")
	}
	if len(ch.Writes()) != 0 {
		t.Error("expected no token write for empty uid")
	}
}

// ── Absent channel ───────────────────────────────────────────────────────────

func TestDecide_AbsentChannel_StillAuditsAndDecides(t *testing.T) {
	userStore := memory.NewUserStore(defaultAdmin)
	logStore := memory.NewAccessLogStore()
	svc := service.NewAccessService(userStore, logStore, device.NoopChannel{}, zap.NewNop())

	d, err := svc.Decide(context.Background(), "63:19:CE:12")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Granted {
		t.Error("expected granted=true")
	}
	if len(logStore.Entries()) != 1 {
		t.Error("expected audit entry with absent channel")
	}
}
