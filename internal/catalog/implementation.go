// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"slices"
)

// Index is an in-memory Provider over a fixed product list.
type Index struct {
	products []Product
	byID     map[string]int
}

// NewIndex validates products and keeps them in the given order.
func NewIndex(products []Product) (*Index, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidPrice, p.ID)
		}
		byID[p.ID] = i
	}
	return &Index{
		products: slices.Clone(products),
		byID:     byID,
	}, nil
}

// List returns a copy of the products in catalog order.
func (x *Index) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(x.products), nil
}

// Get retrieves a product by its ID.
func (x *Index) Get(ctx context.Context, id string) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := x.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	p := x.products[i]
	return &p, nil
}
