// internal/catalog/fixtures.go
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/products.yaml
var defaultFixture []byte

type productRecord struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Availability Availability `yaml:"availability"`
	Price        string       `yaml:"price"`
	Image        string       `yaml:"image"`
}

type productFixture struct {
	Products []productRecord `yaml:"products"`
}

// LoadProducts decodes a YAML product list.
func LoadProducts(r io.Reader) ([]Product, error) {
	var fx productFixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]Product, 0, len(fx.Products))
	for _, rec := range fx.Products {
		price, err := decimal.NewFromString(rec.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", rec.ID, rec.Price, err)
		}
		products = append(products, Product{
			ID:           rec.ID,
			Name:         rec.Name,
			Availability: rec.Availability,
			Price:        price,
			Image:        rec.Image,
		})
	}
	return products, nil
}

// LoadProductsFile reads a YAML product list from disk.
func LoadProductsFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open product fixture: %w", err)
	}
	defer f.Close()
	return LoadProducts(f)
}

// DefaultProducts returns the built-in demo catalog.
func DefaultProducts() []Product {
	products, err := LoadProducts(bytes.NewReader(defaultFixture))
	if err != nil {
		panic(fmt.Sprintf("embedded product fixture: %v", err))
	}
	return products
}
