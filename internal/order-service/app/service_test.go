package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
)

// fakeCatalog resolves products from a fixed map and records how often it
// was called.
type fakeCatalog struct {
	products map[string]domain.Product
	err      error
	calls    int
}

func (f *fakeCatalog) ValidateProducts(_ context.Context, ids []string) ([]domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeRepo is a map-backed stand-in for the SQLite store.
type fakeRepo struct {
	orders map[string]*domain.Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeRepo) Create(_ context.Context, agg domain.Aggregation) (*domain.Order, error) {
	order := &domain.Order{
		ID:          uuid.NewString(),
		TotalAmount: agg.TotalAmount,
		TotalItems:  agg.TotalItems,
		Status:      domain.StatusPending,
		Items:       append([]domain.OrderItem(nil), agg.Items...),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &stored
	return order, nil
}

func (f *fakeRepo) FindPage(_ context.Context, req ports.PageRequest) (*ports.OrderPage, error) {
	req = req.Normalize()
	var data []domain.Order
	for _, o := range f.orders {
		if req.Status == nil || o.Status == *req.Status {
			data = append(data, *o)
		}
	}
	total := len(data)
	if len(data) > req.Limit {
		data = data[:req.Limit]
	}
	return &ports.OrderPage{
		Data: data,
		Meta: ports.PageMeta{Total: total, Page: req.Page, LastPage: (total + req.Limit - 1) / req.Limit},
	}, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order with id %s not found", id)
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order with id %s not found", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return f.FindByID(context.Background(), id)
}

func twoProductCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]domain.Product{
		"P1": {ID: "P1", Name: "First", Price: 10},
		"P2": {ID: "P2", Name: "Second", Price: 5},
	}}
}

func TestCreate(t *testing.T) {
	catalog := twoProductCatalog()
	svc := NewOrderService(newFakeRepo(), catalog, nil, nil)

	order, err := svc.Create(context.Background(), []domain.RequestedItem{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 25.0, order.TotalAmount)
	assert.Equal(t, 3, order.TotalItems)
	assert.Equal(t, domain.StatusPending, order.Status)
	// One catalog round trip per request, not per item.
	assert.Equal(t, 1, catalog.calls)
	// Response items are enriched with catalog names.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "First", order.Items[0].Name)
	assert.Equal(t, "Second", order.Items[1].Name)
}

func TestCreate_UnknownProductCollapsesToValidation(t *testing.T) {
	svc := NewOrderService(newFakeRepo(), twoProductCatalog(), nil, nil)

	_, err := svc.Create(context.Background(), []domain.RequestedItem{
		{ProductID: "ghost", Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, "invalid order request", domain.PublicMessage(err))
}

func TestCreate_CatalogFailureCollapsesToValidation(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("dial tcp: connection refused")}
	svc := NewOrderService(newFakeRepo(), catalog, nil, nil)

	_, err := svc.Create(context.Background(), []domain.RequestedItem{
		{ProductID: "P1", Quantity: 1},
	})
	require.Error(t, err)
	// Any create-path failure surfaces as the same generic class; the
	// cause stays internal.
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, "invalid order request", domain.PublicMessage(err))
	assert.ErrorIs(t, err, catalog.err)
}

func TestFindOne_EnrichesNames(t *testing.T) {
	repo := newFakeRepo()
	catalog := twoProductCatalog()
	svc := NewOrderService(repo, catalog, nil, nil)

	created, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	// The enrichment lookup is live: rename the product after creation.
	catalog.products["P1"] = domain.Product{ID: "P1", Name: "Renamed", Price: 99}

	found, err := svc.FindOne(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Renamed", found.Items[0].Name)
	// The price snapshot from creation time is untouched.
	assert.Equal(t, 10.0, found.Items[0].Price)
}

func TestFindOne_NotFound(t *testing.T) {
	svc := NewOrderService(newFakeRepo(), twoProductCatalog(), nil, nil)

	_, err := svc.FindOne(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestFindOne_CatalogDown(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, twoProductCatalog(), nil, nil)
	created, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	broken := NewOrderService(repo, &fakeCatalog{err: errors.New("boom")}, nil, nil)
	_, err = broken.FindOne(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindRemoteUnavailable, domain.KindOf(err))
}

func TestFindAll_ReadThrough(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, twoProductCatalog(), nil, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
		require.NoError(t, err)
	}

	page, err := svc.FindAll(context.Background(), ports.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Page)
	// Listings are not enriched.
	for _, order := range page.Data {
		for _, item := range order.Items {
			assert.Empty(t, item.Name)
		}
	}
}

func TestChangeStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, twoProductCatalog(), nil, nil)
	created, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	delivered, err := svc.ChangeStatus(context.Background(), created.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)

	// The default table is total: moving back to PENDING is allowed.
	back, err := svc.ChangeStatus(context.Background(), created.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, back.Status)
}

func TestChangeStatus_SameStatusIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewOrderService(repo, twoProductCatalog(), nil, nil)
	created, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	before := repo.orders[created.ID].UpdatedAt
	order, err := svc.ChangeStatus(context.Background(), created.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	// No write happened.
	assert.Equal(t, before, repo.orders[created.ID].UpdatedAt)
}

func TestChangeStatus_NotFound(t *testing.T) {
	svc := NewOrderService(newFakeRepo(), twoProductCatalog(), nil, nil)

	_, err := svc.ChangeStatus(context.Background(), "nope", domain.StatusDelivered)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestChangeStatus_RestrictedTable(t *testing.T) {
	repo := newFakeRepo()
	table := domain.Transitions{domain.StatusPending: {domain.StatusCancelled}}
	svc := NewOrderService(repo, twoProductCatalog(), table, nil)
	created, err := svc.Create(context.Background(), []domain.RequestedItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), created.ID, domain.StatusDelivered)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	cancelled, err := svc.ChangeStatus(context.Background(), created.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}
