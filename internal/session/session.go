// internal/session/session.go

// Package session models one terminal session: the active view, per-view
// search text, the product detail overlay, the attached customer and the
// order cart. A Session is a plain value owner with no locking; callers
// serialize access.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"mudahpos/internal/cart"
	"mudahpos/internal/catalog"
	"mudahpos/internal/customer"
	"mudahpos/internal/filter"
)

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrUnknownCustomer = errors.New("unknown customer")
	ErrUnknownView     = errors.New("unknown view")
	ErrNoSelection     = errors.New("no product selected")
	ErrEmptyCart       = errors.New("cart is empty")
)

type Session struct {
	id uuid.UUID

	products      []catalog.Product
	productIndex  map[string]int
	customers     []customer.Customer
	customerIndex map[string]int

	view          View
	queries       map[View]string
	availableOnly bool

	selected string
	open     bool

	cart     *cart.Cart
	customer *customer.Customer

	// revision counts order mutations: cart lines and customer attachment.
	revision uint64
}

// New starts a session on Home with an empty cart and a closed overlay.
func New(products []catalog.Product, customers []customer.Customer) *Session {
	s := &Session{
		id:      uuid.New(),
		view:    Home,
		queries: make(map[View]string),
		cart:    cart.New(),
	}
	s.setIndices(products, customers)
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) ActiveView() View { return s.view }

// SetActiveView switches views. Changing to a different view closes the
// product overlay.
func (s *Session) SetActiveView(v View) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownView, int(v))
	}
	if v != s.view {
		s.CloseOverlay()
	}
	s.view = v
	return nil
}

// Query returns the search text of the active view.
func (s *Session) Query() string { return s.queries[s.view] }

// SetQuery replaces the search text of the active view.
func (s *Session) SetQuery(q string) {
	if q == "" {
		delete(s.queries, s.view)
		return
	}
	s.queries[s.view] = q
}

func (s *Session) AvailableOnly() bool { return s.availableOnly }

// SetAvailableOnly toggles hiding sold-out products in the Products view.
func (s *Session) SetAvailableOnly(on bool) { s.availableOnly = on }

// Products returns the product list of the active view. Home searches the
// catalog for order entry; Products also honours the available-only toggle.
// Other views have no product list.
func (s *Session) Products() []catalog.Product {
	switch s.view {
	case Home:
		return slices.Clone(filter.Apply(s.products, s.queries[Home], catalog.SearchFields))
	case Products:
		products := filter.Apply(s.products, s.queries[Products], catalog.SearchFields)
		if s.availableOnly {
			return catalog.OnlyAvailable(products)
		}
		return slices.Clone(products)
	default:
		return nil
	}
}

// Customers returns the customer list when the Customers view is active.
func (s *Session) Customers() []customer.Customer {
	if s.view != Customers {
		return nil
	}
	return slices.Clone(filter.Apply(s.customers, s.queries[Customers], customer.SearchFields))
}

// SelectProduct opens the detail overlay for id, replacing any open one.
func (s *Session) SelectProduct(id string) error {
	if _, ok := s.productIndex[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	s.selected = id
	s.open = true
	return nil
}

// CloseOverlay closes the detail overlay. Closing a closed overlay is a no-op.
func (s *Session) CloseOverlay() {
	s.selected = ""
	s.open = false
}

// Overlay resolves the open overlay into its product detail.
func (s *Session) Overlay() (catalog.ProductDetail, bool) {
	if !s.open {
		return catalog.ProductDetail{}, false
	}
	return catalog.NewDetail(s.products[s.productIndex[s.selected]]), true
}

// AddItem adds qty units of a catalog product to the cart.
func (s *Session) AddItem(productID string, qty int) error {
	i, ok := s.productIndex[productID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	if err := s.cart.Add(s.products[i], qty); err != nil {
		return err
	}
	s.revision++
	return nil
}

// AddSelected adds qty units of the product shown in the overlay.
func (s *Session) AddSelected(qty int) error {
	if !s.open {
		return ErrNoSelection
	}
	return s.AddItem(s.selected, qty)
}

func (s *Session) RemoveItem(itemID string) {
	before := s.cart.Len()
	s.cart.Remove(itemID)
	if s.cart.Len() != before {
		s.revision++
	}
}

func (s *Session) SetQuantity(itemID string, qty int) error {
	if err := s.cart.SetQuantity(itemID, qty); err != nil {
		return err
	}
	s.revision++
	return nil
}

// DecrementItem takes one unit off a line and removes the line at its last
// unit. Absent ids are ignored.
func (s *Session) DecrementItem(itemID string) {
	switch qty := s.cart.Quantity(itemID); {
	case qty == 0:
		return
	case qty == 1:
		s.cart.Remove(itemID)
	default:
		_ = s.cart.SetQuantity(itemID, qty-1)
	}
	s.revision++
}

// ClearCart empties the order and detaches its customer.
func (s *Session) ClearCart() {
	s.cart.Clear()
	s.customer = nil
	s.revision++
}

// SelectCustomer attaches a known customer to the order.
func (s *Session) SelectCustomer(id string) error {
	i, ok := s.customerIndex[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCustomer, id)
	}
	c := s.customers[i]
	s.customer = &c
	s.revision++
	return nil
}

func (s *Session) DetachCustomer() {
	if s.customer == nil {
		return
	}
	s.customer = nil
	s.revision++
}

// Customer returns the attached customer, if any.
func (s *Session) Customer() (customer.Customer, bool) {
	if s.customer == nil {
		return customer.Customer{}, false
	}
	return *s.customer, true
}

func (s *Session) Cart() *cart.Cart { return s.cart }

func (s *Session) Revision() uint64 { return s.revision }

// ClearIfRevision clears the order only when nothing changed it since rev was
// observed. It reports whether the order was cleared.
func (s *Session) ClearIfRevision(rev uint64) bool {
	if s.revision != rev {
		return false
	}
	s.ClearCart()
	return true
}

// ReplaceIndices swaps in freshly loaded catalog and customer data in one
// step. An overlay whose product disappeared is closed. Cart lines and the
// attached customer keep their snapshots.
func (s *Session) ReplaceIndices(products []catalog.Product, customers []customer.Customer) {
	s.setIndices(products, customers)
	if s.open {
		if _, ok := s.productIndex[s.selected]; !ok {
			s.CloseOverlay()
		}
	}
}

func (s *Session) setIndices(products []catalog.Product, customers []customer.Customer) {
	productIndex := make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := productIndex[p.ID]; !dup {
			productIndex[p.ID] = i
		}
	}
	customerIndex := make(map[string]int, len(customers))
	for i, c := range customers {
		if _, dup := customerIndex[c.ID]; !dup {
			customerIndex[c.ID] = i
		}
	}
	s.products, s.productIndex = products, productIndex
	s.customers, s.customerIndex = customers, customerIndex
}
