// internal/customer/handler.go
package customer

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

func (h *Handler) Register(r chi.Router) {
	r.Get("/customers", h.HandleList)
	r.Get("/customers/{id}", h.HandleGet)
}

// HandleList serves the directory narrowed by ?q= over name and contact.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	customers, err := h.provider.List(r.Context())
	if err != nil {
		h.log.Error("list customers", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	customers = filter.Apply(customers, r.URL.Query().Get("q"), SearchFields)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customers)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.provider.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.log.Error("get customer", zap.String("customer_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
