// internal/session/snapshot.go
package session

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mudahpos/internal/cart"
	"mudahpos/internal/catalog"
	"mudahpos/internal/customer"
)

// Snapshot is an immutable copy of everything the presentation layer renders.
type Snapshot struct {
	SessionID     uuid.UUID              `json:"session_id"`
	Revision      uint64                 `json:"revision"`
	View          View                   `json:"view"`
	Query         string                 `json:"query"`
	AvailableOnly bool                   `json:"available_only"`
	Products      []catalog.Product      `json:"products,omitempty"`
	Customers     []customer.Customer    `json:"customers,omitempty"`
	Overlay       *catalog.ProductDetail `json:"overlay,omitempty"`
	Customer      *customer.Customer     `json:"customer,omitempty"`
	Cart          CartSnapshot           `json:"cart"`
}

type CartSnapshot struct {
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Units int             `json:"units"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:     s.id,
		Revision:      s.revision,
		View:          s.view,
		Query:         s.Query(),
		AvailableOnly: s.availableOnly,
		Products:      s.Products(),
		Customers:     s.Customers(),
		Cart:          s.cartSnapshot(),
	}
	if detail, ok := s.Overlay(); ok {
		snap.Overlay = &detail
	}
	if c, ok := s.Customer(); ok {
		snap.Customer = &c
	}
	return snap
}

func (s *Session) cartSnapshot() CartSnapshot {
	items := s.cart.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return CartSnapshot{
		Items: items,
		Total: s.cart.Total(),
		Units: s.cart.Units(),
	}
}
