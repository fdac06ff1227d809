package app

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
)

type validateRequest struct {
	IDs []string `json:"ids"`
}

// NewRouter mounts the product service routes.
func NewRouter(catalog *Catalog) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/products/validate", validateHandler(catalog))
	r.Get("/products/{id}", getHandler(catalog))
	r.Put("/products/{id}", upsertHandler(catalog))
	return r
}

// validateHandler answers the order service's single-round-trip validation
// call: it returns only the products that exist.
func validateHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}

		products := catalog.Validate(req.IDs)
		slog.InfoContext(r.Context(), "validated products",
			"requested", len(req.IDs),
			"resolved", len(products),
		)
		writeJSON(w, http.StatusOK, products)
	}
}

func getHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := catalog.Get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func upsertHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		p.ID = chi.URLParam(r, "id")
		catalog.Upsert(p)
		writeJSON(w, http.StatusOK, p)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
