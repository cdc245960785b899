// internal/terminal/handler.go
package terminal

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mudahpos/internal/cart"
	"mudahpos/internal/catalog"
	"mudahpos/internal/customer"
	"mudahpos/internal/money"
	"mudahpos/internal/session"
)

// Handler serves the read-only customer display API.
type Handler struct {
	terminal *Terminal
	log      *zap.Logger
}

func NewHandler(t *Terminal, log *zap.Logger) *Handler {
	return &Handler{terminal: t, log: log}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.HandleHealth)
	r.Get("/session", h.HandleSession)
	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleSession writes the current snapshot plus the lock state.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	snap, locked, err := h.terminal.State(r.Context())
	if err != nil {
		h.log.Error("session snapshot", zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := newSessionView(snap)
	resp.Locked = locked

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type lineView struct {
	cart.Item
	Subtotal      decimal.Decimal `json:"subtotal"`
	SubtotalLabel string          `json:"subtotal_label"`
}

// sessionView is what the customer-facing display renders.
type sessionView struct {
	SessionID  string                 `json:"session_id"`
	Locked     bool                   `json:"locked"`
	View       session.View           `json:"view"`
	Customer   *customer.Customer     `json:"customer,omitempty"`
	Overlay    *catalog.ProductDetail `json:"overlay,omitempty"`
	Items      []lineView             `json:"items"`
	Units      int                    `json:"units"`
	Total      decimal.Decimal        `json:"total"`
	TotalLabel string                 `json:"total_label"`
}

func newSessionView(snap session.Snapshot) sessionView {
	items := make([]lineView, 0, len(snap.Cart.Items))
	for _, item := range snap.Cart.Items {
		sub := item.Subtotal()
		items = append(items, lineView{Item: item, Subtotal: sub, SubtotalLabel: money.Format(sub)})
	}
	return sessionView{
		SessionID:  snap.SessionID.String(),
		View:       snap.View,
		Customer:   snap.Customer,
		Overlay:    snap.Overlay,
		Items:      items,
		Units:      snap.Cart.Units,
		Total:      snap.Cart.Total,
		TotalLabel: money.Format(snap.Cart.Total),
	}
}
