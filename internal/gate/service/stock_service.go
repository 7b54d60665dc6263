package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

var (
	ErrNoSession       = errors.New("no authenticated session")
	ErrInvalidItemName = errors.New("item name is required")
)

// StockService covers the stock-manager screen.  Every mutation appends one
// stock_logs row carrying the delta and the acting session's identity.
type StockService struct {
	stock store.StockStore
}

func NewStockService(stock store.StockStore) *StockService {
	return &StockService{stock: stock}
}

// AddItem creates a stock item and logs the initial quantity as the change.
func (s *StockService) AddItem(ctx context.Context, sess types.Session, name string, quantity int) error {
	if !sess.Active() {
		return ErrNoSession
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidItemName
	}

	if err := s.stock.InsertItem(ctx, types.StockItem{Name: name, Quantity: quantity}); err != nil {
		return err
	}

	return s.stock.AppendLog(ctx, types.StockLogEntry{
		Name:     name,
		Change:   quantity,
		UserName: sess.Name,
		UserUID:  sess.UID,
	})
}

// SetQuantity updates the named item to quantity and logs the signed delta
// against the previous value.  Returns the delta that was logged.
func (s *StockService) SetQuantity(ctx context.Context, sess types.Session, name string, quantity int) (change int, err error) {
	if !sess.Active() {
		return 0, ErrNoSession
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrInvalidItemName
	}

	item, err := s.stock.GetItemByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("stock lookup %q: %w", name, err)
	}

	if err := s.stock.UpdateQuantity(ctx, name, quantity); err != nil {
		return 0, err
	}

	change = quantity - item.Quantity
	return change, s.stock.AppendLog(ctx, types.StockLogEntry{
		Name:     name,
		Change:   change,
		UserName: sess.Name,
		UserUID:  sess.UID,
	})
}

func (s *StockService) Items(ctx context.Context) ([]types.StockItem, error) {
	return s.stock.ListItems(ctx)
}

func (s *StockService) RecentLogs(ctx context.Context, limit int) ([]types.StockLogEntry, error) {
	return s.stock.ListLogs(ctx, limit)
}
