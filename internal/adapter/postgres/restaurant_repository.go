package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type restaurantRepository struct {
	db DB
}

func NewRestaurantRepository(db DB) interfaces.RestaurantRepository {
	return &restaurantRepository{db: db}
}

const restaurantColumns = `
	id, owner_id, name, description, cuisine, address, phone, image_url,
	rating, rating_count, active, created_at, updated_at
`

func (r *restaurantRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE active
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR cuisine ILIKE '%' || $1 || '%')
		ORDER BY rating DESC, name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

func (r *restaurantRepository) FindByID(ctx context.Context, id int) (*domain.Restaurant, error) {
	return r.findBy(ctx, `WHERE id = $1`, id)
}

func (r *restaurantRepository) FindByOwner(ctx context.Context, ownerID int) (*domain.Restaurant, error) {
	return r.findBy(ctx, `WHERE owner_id = $1`, ownerID)
}

func (r *restaurantRepository) findBy(ctx context.Context, clause string, arg any) (*domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ` + clause

	var rest domain.Restaurant
	err := scanRestaurant(r.db.QueryRow(ctx, query, arg), &rest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &rest, nil
}

func (r *restaurantRepository) Menu(ctx context.Context, restaurantID int, includeUnavailable bool) ([]*domain.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, category, price, image_url, available, created_at, updated_at
		FROM menu_items
		WHERE restaurant_id = $1 AND (available OR $2)
		ORDER BY category, name
	`

	rows, err := r.db.Query(ctx, query, restaurantID, includeUnavailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Category,
			&item.Price, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *restaurantRepository) FindMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, category, price, image_url, available, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Category,
		&item.Price, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select menu item: %w", err)
	}

	return &item, nil
}

func (r *restaurantRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (restaurant_id, name, description, category, price, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		item.RestaurantID, item.Name, item.Description, item.Category,
		item.Price, item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *restaurantRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, category = $3, price = $4,
		    image_url = $5, available = $6, updated_at = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		item.Name, item.Description, item.Category, item.Price,
		item.ImageURL, item.Available, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectRestaurants(rows Rows) ([]*domain.Restaurant, error) {
	restaurants := make([]*domain.Restaurant, 0)
	for rows.Next() {
		var rest domain.Restaurant
		if err := scanRestaurant(rows, &rest); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, &rest)
	}
	return restaurants, rows.Err()
}

func scanRestaurant(row Row, rest *domain.Restaurant) error {
	err := row.Scan(
		&rest.ID, &rest.OwnerID, &rest.Name, &rest.Description, &rest.Cuisine,
		&rest.Address, &rest.Phone, &rest.ImageURL, &rest.Rating, &rest.RatingCount,
		&rest.Active, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan restaurant: %w", err)
	}
	return nil
}
