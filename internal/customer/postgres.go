// internal/customer/postgres.go
package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const Schema = `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		position INT NOT NULL,
		name TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// PostgresProvider reads customers from the customers table.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// EnsureSchema creates the customers table if it does not exist.
func (p *PostgresProvider) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create customers schema: %w", err)
	}
	return nil
}

func (p *PostgresProvider) List(ctx context.Context) ([]Customer, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, contact
		FROM customers
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, nil
}

func (p *PostgresProvider) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, contact
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// Seed upserts customers, numbering positions in slice order.
func (p *PostgresProvider) Seed(ctx context.Context, customers []Customer) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, c := range customers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO customers (id, position, name, contact)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET position = EXCLUDED.position,
			    name = EXCLUDED.name,
			    contact = EXCLUDED.contact
		`, c.ID, i, c.Name, c.Contact)
		if err != nil {
			return fmt.Errorf("upsert customer %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
