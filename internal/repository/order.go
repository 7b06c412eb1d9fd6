package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital-key-store/internal/model"
)

var ErrDuplicateOrderID = errors.New("order id already exists")

type OrderRepository interface {
	Init(ctx context.Context) (bool, error)
	Create(ctx context.Context, order *model.Order) error
	ListPending(ctx context.Context) ([]*model.Order, error)
	ListDelivered(ctx context.Context) (map[string]*model.Order, error)
	ListCanceled(ctx context.Context) ([]*model.Order, error)
	FindPending(ctx context.Context, orderID string) (*model.Order, error)
	MoveToDelivered(ctx context.Context, orderID string, assigned []model.AssignedKey, at time.Time) (*model.Order, error)
	MoveToCanceled(ctx context.Context, orderID string, at time.Time) (*model.Order, error)
}

type orderRepoImpl struct {
	store DocumentStore
}

func NewOrderRepository(store DocumentStore) OrderRepository {
	return &orderRepoImpl{
		store: store,
	}
}

// Init writes an empty order book when none exists.
func (r *orderRepoImpl) Init(ctx context.Context) (bool, error) {
	_, err := r.store.LoadOrders(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNoDocument) {
		return false, err
	}

	if err := r.store.SaveOrders(ctx, model.NewOrderBook()); err != nil {
		return false, fmt.Errorf("init orders: %w", err)
	}
	return true, nil
}

func (r *orderRepoImpl) load(ctx context.Context) (*model.OrderBook, error) {
	book, err := r.store.LoadOrders(ctx)
	if errors.Is(err, ErrNoDocument) {
		return model.NewOrderBook(), nil
	}
	return book, err
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	book, err := r.load(ctx)
	if err != nil {
		return err
	}
	if book.Contains(order.OrderID) {
		return ErrDuplicateOrderID
	}

	book.AddPending(order)

	if err := r.store.SaveOrders(ctx, book); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

func (r *orderRepoImpl) ListPending(ctx context.Context) ([]*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return book.Pending, nil
}

func (r *orderRepoImpl) ListDelivered(ctx context.Context) (map[string]*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return book.Delivered, nil
}

func (r *orderRepoImpl) ListCanceled(ctx context.Context) ([]*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return book.Canceled, nil
}

func (r *orderRepoImpl) FindPending(ctx context.Context, orderID string) (*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	order, idx := book.FindPending(orderID)
	if idx < 0 {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (r *orderRepoImpl) MoveToDelivered(ctx context.Context, orderID string, assigned []model.AssignedKey, at time.Time) (*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	order, err := book.MoveToDelivered(orderID, assigned, at)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveOrders(ctx, book); err != nil {
		return nil, fmt.Errorf("save orders: %w", err)
	}
	return order, nil
}

func (r *orderRepoImpl) MoveToCanceled(ctx context.Context, orderID string, at time.Time) (*model.Order, error) {
	book, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	order, err := book.MoveToCanceled(orderID, at)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveOrders(ctx, book); err != nil {
		return nil, fmt.Errorf("save orders: %w", err)
	}
	return order, nil
}
