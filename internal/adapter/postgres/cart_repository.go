package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type cartRepository struct {
	db DB
}

func NewCartRepository(db DB) interfaces.CartRepository {
	return &cartRepository{db: db}
}

const cartLineColumns = `
	c.id, c.customer_id, c.menu_item_id, c.restaurant_id,
	m.name, m.price, c.quantity, c.notes, c.created_at, c.updated_at
`

func (r *cartRepository) ListByCustomer(ctx context.Context, customerID int) ([]domain.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_items c
		JOIN menu_items m ON m.id = c.menu_item_id
		WHERE c.customer_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var l domain.CartLine
		if err := scanCartLine(rows, &l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

func (r *cartRepository) FindLine(ctx context.Context, id int) (*domain.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_items c
		JOIN menu_items m ON m.id = c.menu_item_id
		WHERE c.id = $1
	`

	var l domain.CartLine
	err := scanCartLine(r.db.QueryRow(ctx, query, id), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &l, nil
}

func (r *cartRepository) Add(ctx context.Context, line *domain.CartLine) error {
	// Adding the same menu item again merges into the existing line.
	query := `
		INSERT INTO cart_items (customer_id, menu_item_id, restaurant_id, quantity, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (customer_id, menu_item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              notes = COALESCE(EXCLUDED.notes, cart_items.notes),
		              updated_at = EXCLUDED.updated_at
		RETURNING id, quantity
	`
	err := r.db.QueryRow(ctx, query,
		line.CustomerID, line.MenuItemID, line.RestaurantID,
		line.Quantity, line.Notes, line.CreatedAt, line.UpdatedAt,
	).Scan(&line.ID, &line.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) UpdateLine(ctx context.Context, line *domain.CartLine) error {
	query := `
		UPDATE cart_items
		SET quantity = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, line.Quantity, line.Notes, line.UpdatedAt, line.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func scanCartLine(row Row, l *domain.CartLine) error {
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.MenuItemID, &l.RestaurantID,
		&l.ItemName, &l.UnitPrice, &l.Quantity, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan cart item: %w", err)
	}
	return nil
}
