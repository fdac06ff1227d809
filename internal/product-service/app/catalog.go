// Package app implements the in-memory product catalog backing the product
// service simulator. It exists so the order service has a real counterpart
// to talk to in local development and integration tests.
package app

import (
	"sync"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
)

// Catalog is a concurrency-safe in-memory product store.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewCatalog returns a catalog seeded with the given products.
func NewCatalog(seed ...domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		c.products[p.ID] = p
	}
	return c
}

// DefaultSeed is the product set loaded when no other seed is configured.
func DefaultSeed() []domain.Product {
	return []domain.Product{
		{ID: "prod_1", Name: "Mechanical Keyboard", Price: 120.00},
		{ID: "prod_2", Name: "Wireless Mouse", Price: 45.50},
		{ID: "prod_3", Name: "USB-C Hub", Price: 32.99},
	}
}

// Validate resolves the requested ids, silently dropping the ones that do
// not exist. Detecting missing ids is the caller's responsibility.
func (c *Catalog) Validate(ids []string) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			products = append(products, p)
		}
	}
	return products
}

// Get returns a single product by id.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}

// Upsert creates or replaces a product. Orders created before an update
// keep their price snapshot; catalog drift is expected.
func (c *Catalog) Upsert(p domain.Product) {
	if p.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}
