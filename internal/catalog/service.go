// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidAvailability = errors.New("invalid availability")
	ErrDuplicateProduct    = errors.New("duplicate product id")
	ErrInvalidPrice        = errors.New("price must be >= 0")
)

// Provider is a read-only source of catalog products. List returns products in
// a stable order and may be called again to pick up changes.
type Provider interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
}
