package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type reviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) interfaces.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reviews (order_id, customer_id, restaurant_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		review.OrderID, review.CustomerID, review.RestaurantID,
		review.Rating, review.Comment, review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	// Keep the restaurant's aggregate rating in step with its reviews.
	_, err = tx.Exec(ctx, `
		UPDATE restaurants
		SET rating = sub.avg_rating, rating_count = sub.cnt, updated_at = now()
		FROM (SELECT AVG(rating)::numeric(3,2) AS avg_rating, COUNT(*) AS cnt
		      FROM reviews WHERE restaurant_id = $1) sub
		WHERE id = $1
	`, review.RestaurantID)
	if err != nil {
		return fmt.Errorf("failed to recompute rating: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *reviewRepository) FindByOrder(ctx context.Context, orderID int) (*domain.Review, error) {
	query := `
		SELECT id, order_id, customer_id, restaurant_id, rating, comment, created_at
		FROM reviews
		WHERE order_id = $1
	`

	var rev domain.Review
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&rev.ID, &rev.OrderID, &rev.CustomerID, &rev.RestaurantID,
		&rev.Rating, &rev.Comment, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select review: %w", err)
	}

	return &rev, nil
}

func (r *reviewRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]*domain.Review, error) {
	query := `
		SELECT id, order_id, customer_id, restaurant_id, rating, comment, created_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID, &rev.OrderID, &rev.CustomerID, &rev.RestaurantID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}

	return reviews, rows.Err()
}

type favoriteRepository struct {
	db DB
}

func NewFavoriteRepository(db DB) interfaces.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, customerID, restaurantID int) error {
	query := `
		INSERT INTO favorite_restaurants (customer_id, restaurant_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, customerID, restaurantID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, customerID, restaurantID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorite_restaurants WHERE customer_id = $1 AND restaurant_id = $2`,
		customerID, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *favoriteRepository) ListByCustomer(ctx context.Context, customerID int) ([]*domain.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE id IN (SELECT restaurant_id FROM favorite_restaurants WHERE customer_id = $1)
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}
