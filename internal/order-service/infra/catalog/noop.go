package catalog

import (
	"context"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
)

var _ ports.ProductCatalog = (*Noop)(nil)

// Noop is the disabled-validation variant of the catalog capability,
// selected by configuration. It accepts every requested id and returns it
// with a zero price and no name, so orders can be recorded when no product
// service is deployed. There is a single workflow code path either way.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) ValidateProducts(_ context.Context, ids []string) ([]domain.Product, error) {
	products := make([]domain.Product, len(ids))
	for i, id := range ids {
		products[i] = domain.Product{ID: id}
	}
	return products, nil
}
