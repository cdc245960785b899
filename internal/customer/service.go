// internal/customer/service.go
package customer

import (
	"context"
	"errors"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrDuplicateCustomer = errors.New("duplicate customer id")
)

// Provider is a read-only source of customers in a stable order.
type Provider interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
}
