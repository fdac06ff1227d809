// Package catalog contains the adapters for the remote product service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
	"github.com/jcmexdev/orders-ms/internal/pkg/metrics"
)

var _ ports.ProductCatalog = (*HTTPClient)(nil)

// HTTPClient validates products against the product service over HTTP in a
// single round trip per order. Each call opens a client span and injects the
// W3C trace headers so the catalog shows up in the distributed trace.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	tracer  trace.Tracer
	client  *http.Client
	metrics *metrics.OrderMetrics // nil-safe
}

// NewHTTPClient builds the catalog adapter. timeout bounds every catalog
// round trip regardless of the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, m *metrics.OrderMetrics) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		timeout: timeout,
		tracer:  otel.Tracer("catalog-client"),
		// No Timeout field on the client itself: the per-call context
		// carries the deadline.
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		metrics: m,
	}
}

type validateRequest struct {
	IDs []string `json:"ids"`
}

// ValidateProducts asks the product service for the given ids. Only products
// that exist come back; the caller detects missing ids.
func (c *HTTPClient) ValidateProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "validate-products", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("catalog.requested_ids", len(ids)))

	body, err := json.Marshal(validateRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("catalog: encode request: %w", err)
	}

	url := c.baseURL + "/products/validate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.CatalogCall(float64(time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.RemoteUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("catalog: %s returned status %s", url, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.RemoteUnavailable(err)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		span.RecordError(err)
		return nil, domain.RemoteUnavailable(fmt.Errorf("catalog: decode response: %w", err))
	}
	return products, nil
}
