package db

import (
	"context"
	"database/sql"
	"fmt"
)

type SeedOptions struct {
	// AdminUID is the card UID that should always map to an Admin user.
	AdminUID string
}

// Seed inserts the default admin if no user with AdminUID exists yet.
// Without it a fresh database would be a locked room with no key.
func Seed(ctx context.Context, db *sql.DB, opt SeedOptions) (created bool, err error) {
	if opt.AdminUID == "" {
		return false, nil
	}

	var id int64
	err = db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE uid = ?;`, opt.AdminUID,
	).Scan(&id)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("seed admin lookup: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO users(uid, name, role)
VALUES (?, 'Default Admin', 'Admin');`, opt.AdminUID); err != nil {
		return false, fmt.Errorf("seed admin insert: %w", err)
	}

	return true, nil
}
