package memory

import (
	"context"
	"sync"
	"time"

	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

type StockStore struct {
	mu     sync.Mutex
	items  []types.StockItem
	logs   []types.StockLogEntry
	nextID int64
}

func NewStockStore() *StockStore {
	return &StockStore{nextID: 1}
}

func (s *StockStore) ListItems(_ context.Context) ([]types.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.StockItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *StockStore) GetItemByName(_ context.Context, name string) (types.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Name == name {
			return it, nil
		}
	}
	return types.StockItem{}, store.ErrNotFound
}

func (s *StockStore) InsertItem(_ context.Context, item types.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID
	s.nextID++
	s.items = append(s.items, item)
	return nil
}

func (s *StockStore) UpdateQuantity(_ context.Context, name string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Name == name {
			s.items[i].Quantity = quantity
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *StockStore) AppendLog(_ context.Context, e types.StockLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, e)
	return nil
}

func (s *StockStore) ListLogs(_ context.Context, limit int) ([]types.StockLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.StockLogEntry, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.logs[i])
	}
	return out, nil
}

// Logs returns a copy of all stock log entries in append order.
// Test-only helper.
func (s *StockStore) Logs() []types.StockLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.StockLogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}
