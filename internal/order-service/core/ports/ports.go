// Package ports declares the interfaces the order workflow is written
// against. Implementations live under infra; tests substitute fakes.
package ports

import (
	"context"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
)

// ProductCatalog is the outbound port to the remote product service.
type ProductCatalog interface {
	// ValidateProducts resolves a set of distinct product ids in a single
	// round trip. Only products that exist are returned; detecting missing
	// ids is the caller's job.
	ValidateProducts(ctx context.Context, ids []string) ([]domain.Product, error)
}

// PageRequest selects a window of orders, optionally filtered by status.
type PageRequest struct {
	Status *domain.Status
	Page   int
	Limit  int
}

// Normalize applies the default window (page 1, limit 10) to unset or
// out-of-range values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

// PageMeta describes the full result set a page was cut from. Total counts
// every matching row regardless of the window; LastPage is ceil(Total/Limit).
type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

// OrderPage is one page of orders plus its pagination metadata.
type OrderPage struct {
	Data []domain.Order `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// OrderRepository is the outbound port to the relational order store.
// Every operation is atomic at single-order granularity.
type OrderRepository interface {
	// Create persists a new order and its items in one transaction and
	// returns the stored order, items included.
	Create(ctx context.Context, agg domain.Aggregation) (*domain.Order, error)

	// FindPage returns one page of orders. Listing does not load items.
	FindPage(ctx context.Context, req PageRequest) (*OrderPage, error)

	// FindByID returns an order with its items, or a NotFound error.
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatus persists a new status and returns the updated order,
	// or a NotFound error when the id is absent.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}

// OrderWorkflow is the inbound port exposed to the transport layer.
type OrderWorkflow interface {
	Create(ctx context.Context, items []domain.RequestedItem) (*domain.Order, error)
	FindAll(ctx context.Context, req PageRequest) (*OrderPage, error)
	FindOne(ctx context.Context, id string) (*domain.Order, error)
	ChangeStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}
