package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"stockgate/internal/db"
)

func TestWorker_CommitsOnSuccess(t *testing.T) {
	conn := openTestDB(t)
	w := db.NewWorker(conn)
	defer w.Close()
	ctx := context.Background()

	err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users(uid, name, role) VALUES ('AA:BB', 'John', 'User');`)
		return err
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected committed row, got count=%d", count)
	}
}

func TestWorker_RollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	w := db.NewWorker(conn)
	defer w.Close()
	ctx := context.Background()

	boom := errors.New("boom")
	err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users(uid, name, role) VALUES ('AA:BB', 'John', 'User');`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback, got count=%d", count)
	}
}
