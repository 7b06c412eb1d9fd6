package repository

import (
	"context"
	"errors"

	"digital-key-store/internal/model"
)

var ErrNoDocument = errors.New("document does not exist")

// DocumentStore persists the inventory and the order book as two whole
// documents. Every save replaces the previous document.
type DocumentStore interface {
	LoadInventory(ctx context.Context) (model.Inventory, error)
	SaveInventory(ctx context.Context, inventory model.Inventory) error
	LoadOrders(ctx context.Context) (*model.OrderBook, error)
	SaveOrders(ctx context.Context, book *model.OrderBook) error
	Close() error
}
