package model

// KeyDelivery is what the buyer is told after verification.
type KeyDelivery struct {
	OrderID     string   `json:"orderId"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	ProductName string   `json:"productName"`
	Keys        []string `json:"keys"`
}
