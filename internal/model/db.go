package model

import "time"

const (
	DocumentInventory = "inventory"
	DocumentOrders    = "orders"
)

// Document is one whole JSON document stored in a database table.
type Document struct {
	Name      string `gorm:"primaryKey;size:64;not null"` // inventory, orders
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
