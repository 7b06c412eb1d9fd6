package dto

import (
	"io"

	"digital-key-store/internal/model"
)

type ProductView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ProductsResponse struct {
	OK       bool           `json:"ok"`
	Products []*ProductView `json:"products"`
}

// Proof is an uploaded payment proof attached to a buy request.
type Proof struct {
	Filename string
	Content  io.Reader
}

type BuyRequest struct {
	ProductID string
	Qty       int
	Email     string
	Name      string
	Proof     *Proof
}

type BuyResponse struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type OrderActionRequest struct {
	OrderID string `json:"orderId" form:"orderId"`
}

type VerifyResponse struct {
	OK       bool     `json:"ok"`
	OrderID  string   `json:"orderId"`
	Assigned []string `json:"assigned"`
}

type CancelResponse struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId"`
}

type PendingResponse struct {
	OK      bool           `json:"ok"`
	Pending []*model.Order `json:"pending"`
}

type DeliveredResponse struct {
	OK        bool                    `json:"ok"`
	Delivered map[string]*model.Order `json:"delivered"`
}

type CanceledResponse struct {
	OK       bool           `json:"ok"`
	Canceled []*model.Order `json:"canceled"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
