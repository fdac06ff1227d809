package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/orders-ms/internal/order-service/infra/httpx/middlewares"
	"github.com/jcmexdev/orders-ms/internal/pkg/metrics"
)

// NewRouter mounts the order routes. The paths mirror the message patterns
// of the upstream contract: create_order, find_all_orders, find_one_order,
// change_order_status.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Patch("/orders/{id}/status", handler.ChangeStatus)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}
