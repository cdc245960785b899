// internal/checkout/domain.go
package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mudahpos/internal/cart"
	"mudahpos/internal/customer"
	"mudahpos/internal/money"
	"mudahpos/internal/session"
)

// Request is the order handed to payment once the cashier checks out.
type Request struct {
	ID        uuid.UUID          `json:"id"`
	SessionID uuid.UUID          `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	Customer  *customer.Customer `json:"customer,omitempty"`
	Items     []cart.Item        `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	Currency  string             `json:"currency"`
	// Revision is the order revision the request was built from.
	Revision uint64 `json:"revision"`
}

// NewRequest freezes the order in snap. An empty cart is rejected.
func NewRequest(snap session.Snapshot, now time.Time) (Request, error) {
	if len(snap.Cart.Items) == 0 {
		return Request{}, session.ErrEmptyCart
	}
	req := Request{
		ID:        uuid.New(),
		SessionID: snap.SessionID,
		CreatedAt: now.UTC(),
		Items:     snap.Cart.Items,
		Total:     snap.Cart.Total,
		Currency:  money.Currency,
		Revision:  snap.Revision,
	}
	if snap.Customer != nil {
		c := *snap.Customer
		req.Customer = &c
	}
	return req, nil
}
