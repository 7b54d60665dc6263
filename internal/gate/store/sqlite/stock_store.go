package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "stockgate/internal/db"
	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

type StockStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewStockStore(db *sql.DB, writer *dbpkg.Worker) *StockStore {
	return &StockStore{db: db, writer: writer}
}

func (s *StockStore) ListItems(ctx context.Context) ([]types.StockItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, quantity
FROM stock
ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListItems query: %w", err)
	}
	defer rows.Close()

	var out []types.StockItem
	for rows.Next() {
		var it types.StockItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("ListItems scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListItems rows: %w", err)
	}
	return out, nil
}

func (s *StockStore) GetItemByName(ctx context.Context, name string) (types.StockItem, error) {
	var it types.StockItem
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, quantity
FROM stock
WHERE name = ?
ORDER BY id
LIMIT 1;
`, name).Scan(&it.ID, &it.Name, &it.Quantity)

	if err == sql.ErrNoRows {
		return types.StockItem{}, store.ErrNotFound
	}
	if err != nil {
		return types.StockItem{}, fmt.Errorf("GetItemByName query: %w", err)
	}
	return it, nil
}

func (s *StockStore) InsertItem(ctx context.Context, item types.StockItem) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO stock(name, quantity) VALUES (?, ?);
`, item.Name, item.Quantity); err != nil {
			return fmt.Errorf("InsertItem: %w", err)
		}
		return nil
	})
}

func (s *StockStore) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE stock SET quantity = ? WHERE name = ?;
`, quantity, name)
		if err != nil {
			return fmt.Errorf("UpdateQuantity: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *StockStore) AppendLog(ctx context.Context, e types.StockLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	createdMs := e.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO stock_logs(name, change, user_name, user_uid, created_at_ms)
VALUES (?, ?, ?, ?, ?);
`, e.Name, e.Change, e.UserName, e.UserUID, createdMs); err != nil {
			return fmt.Errorf("AppendLog: %w", err)
		}
		return nil
	})
}

func (s *StockStore) ListLogs(ctx context.Context, limit int) ([]types.StockLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, change, user_name, user_uid, created_at_ms
FROM stock_logs
ORDER BY created_at_ms DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListLogs query: %w", err)
	}
	defer rows.Close()

	var out []types.StockLogEntry
	for rows.Next() {
		var e types.StockLogEntry
		var createdMs int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Change, &e.UserName, &e.UserUID, &createdMs); err != nil {
			return nil, fmt.Errorf("ListLogs scan: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLogs rows: %w", err)
	}
	return out, nil
}
