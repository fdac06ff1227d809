package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
	"github.com/jcmexdev/orders-ms/internal/order-service/infra/httpx/middlewares"
	"github.com/jcmexdev/orders-ms/internal/pkg/cache"
)

// idempotencyTTL is how long a replayed create can reference its original
// order via the idempotency key.
const idempotencyTTL = 24 * time.Hour

// Handler exposes the order workflow over HTTP.
type Handler struct {
	workflow ports.OrderWorkflow
	cache    cache.Cache // nil-safe: idempotent replay skipped if nil
}

// NewHandler builds the HTTP handler. idempotencyCache may be nil — in that
// case the x-idempotency-key header is ignored.
func NewHandler(workflow ports.OrderWorkflow, idempotencyCache cache.Cache) *Handler {
	return &Handler{workflow: workflow, cache: idempotencyCache}
}

// CreateOrder validates the request body, replays a previous creation when
// the idempotency key is known, and otherwise runs the creation workflow.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}

	items := make([]domain.RequestedItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "productId and a positive quantity are required for every item")
			return
		}
		items = append(items, domain.RequestedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	// Comma-ok keeps the typed context read safe when middleware is absent.
	idempKey, _ := r.Context().Value(middlewares.ContextKeyIdempotencyKey).(string)
	if order, ok := h.replay(r, idempKey); ok {
		writeJSON(w, http.StatusOK, mapOrderToResponse(order))
		return
	}

	order, err := h.workflow.Create(r.Context(), items)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.remember(r, idempKey, order.ID)
	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// ListOrders returns one page of orders, optionally filtered by status.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	req := ports.PageRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		req.Status = &status
	}

	page, err := h.workflow.FindAll(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPageToResponse(page))
}

// GetOrder returns a single order with name-enriched items.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "order id is required")
		return
	}

	order, err := h.workflow.FindOne(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ChangeStatus moves an order through the status machine.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "order id is required")
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	order, err := h.workflow.ChangeStatus(r.Context(), id, status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// replay looks up a previously created order for the idempotency key.
func (h *Handler) replay(r *http.Request, key string) (*domain.Order, bool) {
	if h.cache == nil || key == "" {
		return nil, false
	}
	orderID, err := h.cache.Get(r.Context(), h.cache.Key("create", key))
	if err != nil {
		slog.ErrorContext(r.Context(), "idempotency lookup failed", "error", err)
		return nil, false
	}
	if orderID == "" {
		return nil, false
	}
	order, err := h.workflow.FindOne(r.Context(), orderID)
	if err != nil {
		slog.ErrorContext(r.Context(), "idempotent replay failed", "order_id", orderID, "error", err)
		return nil, false
	}
	slog.InfoContext(r.Context(), "replayed order creation", "order_id", orderID)
	return order, true
}

func (h *Handler) remember(r *http.Request, key, orderID string) {
	if h.cache == nil || key == "" {
		return
	}
	if err := h.cache.Set(r.Context(), h.cache.Key("create", key), orderID, idempotencyTTL); err != nil {
		slog.ErrorContext(r.Context(), "idempotency store failed", "order_id", orderID, "error", err)
	}
}

// writeDomainError is the boundary mapper: it translates the tagged error
// taxonomy into {status, message} and drops the internal cause on the floor.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindRemoteUnavailable:
		status = http.StatusBadGateway
	default:
		slog.ErrorContext(r.Context(), "unclassified error crossed the boundary", "error", err)
	}
	writeError(w, status, domain.PublicMessage(err))
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: msg})
}
