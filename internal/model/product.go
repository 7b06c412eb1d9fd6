package model

import "sort"

// Product is one sellable item with its pool of unissued keys. Keys are
// handed out from the front of the slice.
type Product struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Price float64  `json:"price" yaml:"price"`
	Keys  []string `json:"keys" yaml:"keys"`
}

func (p *Product) Stock() int {
	return len(p.Keys)
}

// Inventory maps product id to product. It is persisted as one document.
type Inventory map[string]*Product

// Get returns the product or ErrUnknownProduct.
func (inv Inventory) Get(productID string) (*Product, error) {
	p, ok := inv[productID]
	if !ok || p == nil {
		return nil, ErrUnknownProduct
	}
	return p, nil
}

// Allocate removes and returns the first qty keys of the product.
// Nothing is removed when it fails.
func (inv Inventory) Allocate(productID string, qty int) ([]string, error) {
	p, err := inv.Get(productID)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, NewValidationError("Qty must be >= 1")
	}
	if len(p.Keys) < qty {
		return nil, ErrInsufficientStock
	}

	assigned := make([]string, qty)
	copy(assigned, p.Keys[:qty])
	p.Keys = append([]string{}, p.Keys[qty:]...)

	return assigned, nil
}

// Restore puts keys back at the front of the product's sequence, in order.
func (inv Inventory) Restore(productID string, keys []string) error {
	p, err := inv.Get(productID)
	if err != nil {
		return err
	}
	restored := make([]string, 0, len(keys)+len(p.Keys))
	restored = append(restored, keys...)
	p.Keys = append(restored, p.Keys...)
	return nil
}

// Sorted returns the products ordered by id so listings are stable.
func (inv Inventory) Sorted() []*Product {
	products := make([]*Product, 0, len(inv))
	for _, p := range inv {
		if p != nil {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products
}

// SampleInventory is written when no inventory exists yet.
func SampleInventory() Inventory {
	return Inventory{
		"key_1day": {
			ID: "key_1day", Name: "1 Day", Price: 5.0,
			Keys: []string{"1D-AAAA-0001", "1D-AAAA-0002", "1D-AAAA-0003"},
		},
		"key_3day": {
			ID: "key_3day", Name: "3 Day", Price: 10.0,
			Keys: []string{"3D-BBBB-1001", "3D-BBBB-1002"},
		},
		"key_lifetime": {
			ID: "key_lifetime", Name: "Lifetime", Price: 25.0,
			Keys: []string{"LIFE-CCCC-9001"},
		},
	}
}
