package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	dbpkg "stockgate/internal/db"
	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

type UserStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewUserStore(db *sql.DB, writer *dbpkg.Worker) *UserStore {
	return &UserStore{db: db, writer: writer}
}

func (s *UserStore) GetByUID(ctx context.Context, uid string) (types.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return types.User{}, store.ErrNotFound
	}

	var u types.User
	var role string
	err := s.db.QueryRowContext(ctx, `
SELECT id, uid, name, role
FROM users
WHERE uid = ?;
`, uid).Scan(&u.ID, &u.UID, &u.Name, &role)

	if err == sql.ErrNoRows {
		return types.User{}, store.ErrNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("GetByUID query: %w", err)
	}

	u.Role = types.ParseRole(role)
	return u, nil
}

func (s *UserStore) Insert(ctx context.Context, u types.User) error {
	uid := strings.TrimSpace(u.UID)
	if uid == "" {
		return fmt.Errorf("Insert: uid is required")
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Writes are serialized on the worker, so check-then-insert is
		// race-free; the UNIQUE constraint remains as a backstop.
		var existing int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE uid = ?;`, uid,
		).Scan(&existing)
		if err == nil {
			return store.ErrDuplicateUID
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("Insert uid check: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO users(uid, name, role) VALUES (?, ?, ?);
`, uid, u.Name, string(u.Role)); err != nil {
			return fmt.Errorf("Insert user: %w", err)
		}
		return nil
	})
}

func (s *UserStore) DeleteByUID(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE uid = ?;`, uid,
		); err != nil {
			return fmt.Errorf("DeleteByUID: %w", err)
		}
		return nil
	})
}

func (s *UserStore) List(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, uid, name, role
FROM users
ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("List users query: %w", err)
	}
	defer rows.Close()

	var out []types.User
	for rows.Next() {
		var u types.User
		var role string
		if err := rows.Scan(&u.ID, &u.UID, &u.Name, &role); err != nil {
			return nil, fmt.Errorf("List users scan: %w", err)
		}
		u.Role = types.ParseRole(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List users rows: %w", err)
	}
	return out, nil
}
