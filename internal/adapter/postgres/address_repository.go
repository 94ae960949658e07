package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type addressRepository struct {
	db DB
}

func NewAddressRepository(db DB) interfaces.AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// First address for a customer becomes the default.
	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM customer_addresses WHERE customer_id = $1`,
		address.CustomerID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count addresses: %w", err)
	}
	if count == 0 {
		address.IsDefault = true
	}

	if address.IsDefault {
		if err := unsetDefaults(ctx, tx, address.CustomerID); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO customer_addresses (customer_id, label, street, city, notes, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		address.CustomerID, address.Label, address.Street, address.City,
		address.Notes, address.IsDefault, address.CreatedAt, address.UpdatedAt,
	).Scan(&address.ID)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *addressRepository) FindByID(ctx context.Context, id int) (*domain.Address, error) {
	query := `
		SELECT id, customer_id, label, street, city, notes, is_default, created_at, updated_at
		FROM customer_addresses
		WHERE id = $1
	`

	var a domain.Address
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.CustomerID, &a.Label, &a.Street, &a.City,
		&a.Notes, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select address: %w", err)
	}

	return &a, nil
}

func (r *addressRepository) ListByCustomer(ctx context.Context, customerID int) ([]*domain.Address, error) {
	query := `
		SELECT id, customer_id, label, street, city, notes, is_default, created_at, updated_at
		FROM customer_addresses
		WHERE customer_id = $1
		ORDER BY is_default DESC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.CustomerID, &a.Label, &a.Street, &a.City,
			&a.Notes, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, &a)
	}

	return addresses, rows.Err()
}

func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if address.IsDefault {
		if err := unsetDefaults(ctx, tx, address.CustomerID); err != nil {
			return err
		}
	}

	query := `
		UPDATE customer_addresses
		SET label = $1, street = $2, city = $3, notes = $4, is_default = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := tx.Exec(ctx, query,
		address.Label, address.Street, address.City, address.Notes,
		address.IsDefault, address.UpdatedAt, address.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *addressRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customer_addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// unsetDefaults clears the default flag on every address of the
// customer inside the caller's transaction, keeping the uniqueness
// invariant before a new default is written.
func unsetDefaults(ctx context.Context, tx Tx, customerID int) error {
	_, err := tx.Exec(ctx,
		`UPDATE customer_addresses SET is_default = FALSE WHERE customer_id = $1 AND is_default`,
		customerID)
	if err != nil {
		return fmt.Errorf("failed to unset default addresses: %w", err)
	}
	return nil
}
