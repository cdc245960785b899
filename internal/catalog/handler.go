// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mudahpos/internal/filter"
)

type Handler struct {
	provider Provider
	log      *zap.Logger
}

func NewHandler(provider Provider, log *zap.Logger) *Handler {
	return &Handler{provider: provider, log: log}
}

// Register mounts the product routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/products", h.HandleList)
	r.Get("/products/{id}", h.HandleGet)
	r.Get("/products/{id}/detail", h.HandleDetail)
}

// HandleList serves the product list narrowed by ?q= and ?available=true.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.provider.List(r.Context())
	if err != nil {
		h.log.Error("list products", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	products = filter.Apply(products, r.URL.Query().Get("q"), SearchFields)
	if r.URL.Query().Get("available") == "true" {
		products = OnlyAvailable(products)
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewDetail(*product))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Product, bool) {
	id := chi.URLParam(r, "id")
	product, err := h.provider.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		h.log.Error("get product", zap.String("product_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return product, true
}

// OnlyAvailable drops sold-out products, keeping order.
func OnlyAvailable(products []Product) []Product {
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if IsAvailable(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
