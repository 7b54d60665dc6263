package store

import (
	"context"
	"errors"

	"stockgate/internal/gate/types"
)

var (
	// ErrDuplicateUID is returned by UserStore.Insert when the uid is taken.
	ErrDuplicateUID = errors.New("uid already exists")

	// ErrNotFound is returned by lookups and updates that matched no row.
	ErrNotFound = errors.New("not found")
)

type UserStore interface {
	GetByUID(ctx context.Context, uid string) (types.User, error)
	Insert(ctx context.Context, u types.User) error
	DeleteByUID(ctx context.Context, uid string) error
	List(ctx context.Context) ([]types.User, error)
}

// AccessLogStore persists access decisions as an append-only audit log.
type AccessLogStore interface {
	Append(ctx context.Context, e types.AccessLogEntry) error
	List(ctx context.Context, limit int) ([]types.AccessLogEntry, error)
}

type StockStore interface {
	ListItems(ctx context.Context) ([]types.StockItem, error)
	// GetItemByName returns the first item with the given name, or
	// ErrNotFound.
	GetItemByName(ctx context.Context, name string) (types.StockItem, error)
	InsertItem(ctx context.Context, item types.StockItem) error
	// UpdateQuantity sets the quantity for the named item and returns
	// ErrNotFound if no such item exists.
	UpdateQuantity(ctx context.Context, name string, quantity int) error
	AppendLog(ctx context.Context, e types.StockLogEntry) error
	ListLogs(ctx context.Context, limit int) ([]types.StockLogEntry, error)
}
