package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "stockgate/internal/db"
	"stockgate/internal/gate/types"
)

type AccessLogStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessLogStore(db *sql.DB, writer *dbpkg.Worker) *AccessLogStore {
	return &AccessLogStore{db: db, writer: writer}
}

func (s *AccessLogStore) Append(ctx context.Context, e types.AccessLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	createdMs := e.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_logs(uid, created_at_ms, status)
VALUES (?, ?, ?);
`, e.UID, createdMs, string(e.Status)); err != nil {
			return fmt.Errorf("Append access log: %w", err)
		}
		return nil
	})
}

func (s *AccessLogStore) List(ctx context.Context, limit int) ([]types.AccessLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, uid, created_at_ms, status
FROM access_logs
ORDER BY created_at_ms DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("List access logs query: %w", err)
	}
	defer rows.Close()

	var out []types.AccessLogEntry
	for rows.Next() {
		var e types.AccessLogEntry
		var createdMs int64
		var status string
		if err := rows.Scan(&e.ID, &e.UID, &createdMs, &status); err != nil {
			return nil, fmt.Errorf("List access logs scan: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdMs).UTC()
		e.Status = types.AccessStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List access logs rows: %w", err)
	}
	return out, nil
}
