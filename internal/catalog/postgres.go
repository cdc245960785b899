// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Schema creates the products read model. A NULL availability is the
// sold-out marker.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		position INT NOT NULL,
		name TEXT NOT NULL,
		availability INT CHECK (availability >= 0),
		price NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
		image TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// PostgresProvider reads products from the products table.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// EnsureSchema creates the products table if it does not exist.
func (p *PostgresProvider) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create products schema: %w", err)
	}
	return nil
}

// List returns every product ordered by position.
func (p *PostgresProvider) List(ctx context.Context) ([]Product, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, availability, price, image
		FROM products
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// Get retrieves a product by its ID.
func (p *PostgresProvider) Get(ctx context.Context, id string) (*Product, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, name, availability, price, image
		FROM products
		WHERE id = $1
	`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

// Seed upserts products, numbering positions in slice order.
func (p *PostgresProvider) Seed(ctx context.Context, products []Product) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, position, name, availability, price, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET position = EXCLUDED.position,
		    name = EXCLUDED.name,
		    availability = EXCLUDED.availability,
		    price = EXCLUDED.price,
		    image = EXCLUDED.image,
		    updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, product := range products {
		var availability sql.NullInt64
		if !product.Availability.IsMarker() {
			availability = sql.NullInt64{Int64: int64(product.Availability.Count()), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, product.ID, i, product.Name, availability, product.Price, product.Image); err != nil {
			return fmt.Errorf("upsert product %s: %w", product.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (Product, error) {
	var (
		product      Product
		availability sql.NullInt64
	)
	if err := s.Scan(&product.ID, &product.Name, &availability, &product.Price, &product.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("failed to scan product: %w", err)
	}
	if availability.Valid {
		product.Availability = InStock(int(availability.Int64))
	} else {
		product.Availability = SoldOut()
	}
	return product, nil
}
