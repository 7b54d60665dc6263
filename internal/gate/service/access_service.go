package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockgate/internal/device"
	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

var (
	ErrInvalidUID = errors.New("uid is required")
)

const (
	tokenGranted = "GRANTED"
	tokenDenied  = "DENIED"
)

// AccessService is the decision engine: given a scanned UID it decides
// grant/deny against the user roster, appends the audit row, and writes the
// decision token back to the device.  It holds no session state — the
// returned Decision is applied by the caller on the serializing execution
// context.
type AccessService struct {
	users   store.UserStore
	logs    store.AccessLogStore
	channel device.Channel
	logger  *zap.Logger
}

func NewAccessService(users store.UserStore, logs store.AccessLogStore, ch device.Channel, logger *zap.Logger) *AccessService {
	return &AccessService{users: users, logs: logs, channel: ch, logger: logger}
}

// Decide looks the UID up, records exactly one audit row, and writes exactly
// one token to the device.  The audit write is attempted before the device
// write-back so a device failure can never suppress the audit record.
//
// A non-nil error means the decision was not fully applied (store failure);
// the caller must leave session state unchanged.
func (s *AccessService) Decide(ctx context.Context, uid string) (types.Decision, error) {
	now := time.Now().UTC()

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return types.Decision{}, ErrInvalidUID
	}

	u, err := s.users.GetByUID(ctx, uid)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.Decision{}, fmt.Errorf("user lookup: %w", err)
	}

	d := types.Decision{
		UID:       uid,
		Granted:   err == nil,
		DecidedAt: now,
	}
	if d.Granted {
		d.User = &u
		s.logger.Info("access granted", zap.String("uid", uid), zap.String("name", u.Name))
	} else {
		s.logger.Warn("access denied", zap.String("uid", uid))
	}

	auditErr := s.logs.Append(ctx, types.AccessLogEntry{
		UID:       uid,
		CreatedAt: now,
		Status:    d.Status(),
	})

	// The token is written even when the audit insert failed — the remote
	// display should never be left hanging on a scan.
	s.writeToken(d.Granted)

	if auditErr != nil {
		return types.Decision{}, fmt.Errorf("append access log: %w", auditErr)
	}
	return d, nil
}

// RecentLogs exposes the access audit trail for the log viewer.
func (s *AccessService) RecentLogs(ctx context.Context, limit int) ([]types.AccessLogEntry, error) {
	return s.logs.List(ctx, limit)
}

func (s *AccessService) writeToken(granted bool) {
	if granted {
		s.channel.WriteLine(tokenGranted)
		return
	}
	s.channel.WriteLine(tokenDenied)
}
