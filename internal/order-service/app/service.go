// Package app hosts the order workflow: the use-case orchestrator composing
// catalog validation, aggregation, persistence and the status machine.
package app

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
	"github.com/jcmexdev/orders-ms/internal/pkg/metrics"
)

// Ensure the workflow implements its inbound port at compile time.
var _ ports.OrderWorkflow = (*OrderService)(nil)

// OrderService orchestrates the order use cases. It holds no request state:
// everything a request needs travels through the context and arguments.
type OrderService struct {
	repo        ports.OrderRepository
	catalog     ports.ProductCatalog
	transitions domain.Transitions
	metrics     *metrics.OrderMetrics // nil-safe
}

// NewOrderService wires the workflow. transitions may be nil, in which case
// the default total table is used. metrics may be nil.
func NewOrderService(
	repo ports.OrderRepository,
	catalog ports.ProductCatalog,
	transitions domain.Transitions,
	m *metrics.OrderMetrics,
) *OrderService {
	if transitions == nil {
		transitions = domain.TotalTransitions()
	}
	return &OrderService{
		repo:        repo,
		catalog:     catalog,
		transitions: transitions,
		metrics:     m,
	}
}

// Create runs the full creation pipeline: validate products against the
// catalog, aggregate totals, persist atomically, then attach catalog names
// to the response items.
//
// Any failure in that chain collapses to one generic Validation error; the
// real cause is logged here and never surfaced to the caller.
func (s *OrderService) Create(ctx context.Context, items []domain.RequestedItem) (*domain.Order, error) {
	order, err := s.create(ctx, items)
	if err != nil {
		slog.ErrorContext(ctx, "order creation failed", "error", err)
		return nil, domain.E(domain.KindValidation, "invalid order request", err)
	}
	s.metrics.OrderCreated()
	return order, nil
}

func (s *OrderService) create(ctx context.Context, items []domain.RequestedItem) (*domain.Order, error) {
	products, err := s.catalog.ValidateProducts(ctx, domain.DistinctProductIDs(items))
	if err != nil {
		return nil, err
	}

	agg, err := domain.Aggregate(items, products)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Create(ctx, agg)
	if err != nil {
		return nil, err
	}

	domain.EnrichNames(order.Items, products)
	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"total_amount", order.TotalAmount,
		"total_items", order.TotalItems,
	)
	return order, nil
}

// FindAll is a pure read-through to the store; no enrichment on listings.
func (s *OrderService) FindAll(ctx context.Context, req ports.PageRequest) (*ports.OrderPage, error) {
	return s.repo.FindPage(ctx, req.Normalize())
}

// FindOne loads an order and enriches each item with the product's current
// catalog name. The lookup is live, not a snapshot from creation time.
func (s *OrderService) FindOne(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]domain.RequestedItem, len(order.Items))
	for i, item := range order.Items {
		ids[i] = domain.RequestedItem{ProductID: item.ProductID}
	}
	products, err := s.catalog.ValidateProducts(ctx, domain.DistinctProductIDs(ids))
	if err != nil {
		slog.ErrorContext(ctx, "catalog lookup failed during enrichment", "order_id", id, "error", err)
		return nil, domain.RemoteUnavailable(err)
	}

	domain.EnrichNames(order.Items, products)
	return order, nil
}

// ChangeStatus applies the status machine: fetch the order, no-op when the
// status already matches, otherwise check the transition table and persist.
func (s *OrderService) ChangeStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}

	if !s.transitions.Allowed(order.Status, status) {
		return nil, domain.TransitionError(order.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.metrics.StatusChanged(string(order.Status), string(status))
	slog.InfoContext(ctx, "order status changed",
		"order_id", id,
		"from", order.Status,
		"to", status,
	)
	return updated, nil
}
