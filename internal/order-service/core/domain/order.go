package domain

import "time"

// Order is the aggregate root persisted by the order store.
// Totals are computed once at creation time from catalog prices and are
// never recomputed, even if the catalog changes afterwards.
type Order struct {
	ID          string
	TotalAmount float64
	TotalItems  int
	Status      Status
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a line item belonging to exactly one order. Price is the
// unit price snapshot taken from the catalog when the order was created.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     float64

	// Name is display enrichment fetched live from the catalog when the
	// order is returned to a caller. It is never persisted.
	Name string
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Product is the catalog's view of a product. It is read-only to this
// service and fetched transiently for validation and enrichment.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// RequestedItem is a single entry of an order-creation request, before the
// catalog has been consulted for prices.
type RequestedItem struct {
	ProductID string
	Quantity  int
}
