package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

type AssignedKey struct {
	Key         string `json:"key"`
	ProductName string `json:"productName"`
}

type Order struct {
	OrderID   string      `json:"orderId"`
	ProductID string      `json:"productId"`
	Qty       int         `json:"qty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Total     float64     `json:"total"`     // price x qty at creation, never recomputed
	ProofPath *string     `json:"proofPath"` // null when no proof was uploaded
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`

	Assigned    []AssignedKey `json:"assigned,omitempty"`
	DeliveredAt *time.Time    `json:"deliveredAt,omitempty"`
	CanceledAt  *time.Time    `json:"canceledAt,omitempty"`
}

// Keys returns the assigned key strings in allocation order.
func (o *Order) Keys() []string {
	keys := make([]string, len(o.Assigned))
	for i, a := range o.Assigned {
		keys[i] = a.Key
	}
	return keys
}

// OrderBook is the ledger document. An order id lives in exactly one of
// the three collections.
type OrderBook struct {
	Pending   []*Order          `json:"pending"`
	Delivered map[string]*Order `json:"delivered"`
	Canceled  []*Order          `json:"canceled"`
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Pending:   []*Order{},
		Delivered: map[string]*Order{},
		Canceled:  []*Order{},
	}
}

// Normalize fills collections missing from older documents.
func (b *OrderBook) Normalize() {
	if b.Pending == nil {
		b.Pending = []*Order{}
	}
	if b.Delivered == nil {
		b.Delivered = map[string]*Order{}
	}
	if b.Canceled == nil {
		b.Canceled = []*Order{}
	}
}

// AddPending puts the order at the front so listings show newest first.
func (b *OrderBook) AddPending(order *Order) {
	b.Pending = append([]*Order{order}, b.Pending...)
}

func (b *OrderBook) FindPending(orderID string) (*Order, int) {
	for i, o := range b.Pending {
		if o.OrderID == orderID {
			return o, i
		}
	}
	return nil, -1
}

// Contains reports whether the id is present in any collection.
func (b *OrderBook) Contains(orderID string) bool {
	if _, idx := b.FindPending(orderID); idx >= 0 {
		return true
	}
	if _, ok := b.Delivered[orderID]; ok {
		return true
	}
	for _, o := range b.Canceled {
		if o.OrderID == orderID {
			return true
		}
	}
	return false
}

// MoveToDelivered removes the order from pending and files it under
// delivered with the assigned keys attached.
func (b *OrderBook) MoveToDelivered(orderID string, assigned []AssignedKey, at time.Time) (*Order, error) {
	order, idx := b.FindPending(orderID)
	if idx < 0 {
		return nil, ErrOrderNotFound
	}
	b.Pending = append(b.Pending[:idx:idx], b.Pending[idx+1:]...)

	delivered := *order
	delivered.Status = OrderStatusDelivered
	delivered.Assigned = assigned
	delivered.DeliveredAt = &at
	b.Delivered[orderID] = &delivered

	return &delivered, nil
}

// MoveToCanceled removes the order from pending and appends it to canceled.
func (b *OrderBook) MoveToCanceled(orderID string, at time.Time) (*Order, error) {
	order, idx := b.FindPending(orderID)
	if idx < 0 {
		return nil, ErrOrderNotFound
	}
	b.Pending = append(b.Pending[:idx:idx], b.Pending[idx+1:]...)

	canceled := *order
	canceled.Status = OrderStatusCanceled
	canceled.CanceledAt = &at
	b.Canceled = append(b.Canceled, &canceled)

	return &canceled, nil
}
