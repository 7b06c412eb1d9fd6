package repository

import (
	"context"
	"errors"
	"fmt"

	"digital-key-store/internal/model"
)

type InventoryRepository interface {
	Seed(ctx context.Context, inventory model.Inventory) (bool, error)
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	Allocate(ctx context.Context, productID string, qty int) ([]string, error)
	Restore(ctx context.Context, productID string, keys []string) error
}

type inventoryRepoImpl struct {
	store DocumentStore
}

func NewInventoryRepository(store DocumentStore) InventoryRepository {
	return &inventoryRepoImpl{
		store: store,
	}
}

// Seed writes the inventory only when none has been stored yet. It
// reports whether it wrote anything.
func (r *inventoryRepoImpl) Seed(ctx context.Context, inventory model.Inventory) (bool, error) {
	_, err := r.store.LoadInventory(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNoDocument) {
		return false, err
	}

	if err := r.store.SaveInventory(ctx, inventory); err != nil {
		return false, fmt.Errorf("seed inventory: %w", err)
	}
	return true, nil
}

func (r *inventoryRepoImpl) load(ctx context.Context) (model.Inventory, error) {
	inventory, err := r.store.LoadInventory(ctx)
	if errors.Is(err, ErrNoDocument) {
		return model.Inventory{}, nil
	}
	return inventory, err
}

func (r *inventoryRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	inventory, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Sorted(), nil
}

func (r *inventoryRepoImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	inventory, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Get(productID)
}

// Allocate takes the first qty keys of the product and persists the
// shortened inventory. On any error the stored inventory is unchanged.
func (r *inventoryRepoImpl) Allocate(ctx context.Context, productID string, qty int) ([]string, error) {
	inventory, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := inventory.Allocate(productID, qty)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveInventory(ctx, inventory); err != nil {
		return nil, fmt.Errorf("save inventory: %w", err)
	}
	return keys, nil
}

func (r *inventoryRepoImpl) Restore(ctx context.Context, productID string, keys []string) error {
	inventory, err := r.load(ctx)
	if err != nil {
		return err
	}

	if err := inventory.Restore(productID, keys); err != nil {
		return err
	}

	if err := r.store.SaveInventory(ctx, inventory); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}
