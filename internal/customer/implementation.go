// internal/customer/implementation.go
package customer

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/customers.yaml
var defaultFixture []byte

// Directory is an in-memory Provider over a fixed customer list.
type Directory struct {
	customers []Customer
	byID      map[string]int
}

func NewDirectory(customers []Customer) (*Directory, error) {
	byID := make(map[string]int, len(customers))
	for i, c := range customers {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCustomer, c.ID)
		}
		byID[c.ID] = i
	}
	return &Directory{customers: slices.Clone(customers), byID: byID}, nil
}

func (d *Directory) List(ctx context.Context) ([]Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(d.customers), nil
}

func (d *Directory) Get(ctx context.Context, id string) (*Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	c := d.customers[i]
	return &c, nil
}

// LoadCustomers decodes a YAML customer list.
func LoadCustomers(r io.Reader) ([]Customer, error) {
	var fx struct {
		Customers []Customer `yaml:"customers"`
	}
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return fx.Customers, nil
}

func LoadCustomersFile(path string) ([]Customer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open customer fixture: %w", err)
	}
	defer f.Close()
	return LoadCustomers(f)
}

// DefaultCustomers returns the built-in demo directory.
func DefaultCustomers() []Customer {
	customers, err := LoadCustomers(bytes.NewReader(defaultFixture))
	if err != nil {
		panic(fmt.Sprintf("embedded customer fixture: %v", err))
	}
	return customers
}
