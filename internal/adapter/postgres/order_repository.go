package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	o.id, o.number, o.customer_id, o.restaurant_id, o.address_id,
	o.status, o.payment_method, o.payment_status,
	o.subtotal, o.delivery_fee, o.tax, o.discount, o.total,
	o.special_instructions, o.created_at, o.updated_at,
	o.estimated_delivery_at, o.delivered_at,
	r.name, a.street || ', ' || a.city,
	u.name, u.phone
`

const orderJoins = `
	FROM orders o
	JOIN restaurants r ON r.id = o.restaurant_id
	JOIN customer_addresses a ON a.id = o.address_id
	JOIN customers c ON c.id = o.customer_id
	JOIN users u ON u.id = c.user_id
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (number, customer_id, restaurant_id, address_id, status,
		                    payment_method, payment_status, subtotal, delivery_fee, tax,
		                    discount, total, special_instructions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Number, order.CustomerID, order.RestaurantID, order.AddressID, order.Status,
		order.PaymentMethod, order.PaymentStatus, order.Subtotal, order.DeliveryFee, order.Tax,
		order.Discount, order.Total, order.SpecialInstructions, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, menu_item_id, name, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].MenuItemID, order.Items[i].Name,
			order.Items[i].UnitPrice, order.Items[i].Quantity, order.Items[i].Subtotal,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.Exec(ctx, logQuery, order.ID, order.Status, "order-service", time.Now())
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	// Placement consumes the cart.
	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, order.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit(ctx)
}

// GenerateOrderNumber draws the next suffix from a per-day counter row.
// The upsert is atomic, so concurrent placements never see the same
// number.
func (r *orderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO order_number_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_number_counters.counter + 1
		RETURNING counter
	`

	var n int
	if err := r.db.QueryRow(ctx, query, now.Format("2006-01-02")).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to advance order counter: %w", err)
	}

	return fmt.Sprintf("FE_%s_%03d", now.Format("20060102"), n), nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	return r.findBy(ctx, `WHERE o.id = $1`, id)
}

func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.findBy(ctx, `WHERE o.number = $1`, number)
}

func (r *orderRepository) findBy(ctx context.Context, clause string, arg any) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + clause

	var order domain.Order
	err := scanOrder(r.db.QueryRow(ctx, query, arg), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error) {
	return r.list(ctx, `WHERE o.customer_id = $1 ORDER BY o.created_at DESC`, customerID)
}

func (r *orderRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]*domain.Order, error) {
	return r.list(ctx, `WHERE o.restaurant_id = $1 ORDER BY o.created_at DESC`, restaurantID)
}

func (r *orderRepository) list(ctx context.Context, clause string, arg any) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + orderJoins + clause

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var ids []int
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}

	items, err := r.loadItems(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs ...int) (map[int][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_id, name, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name,
			&item.UnitPrice, &item.Quantity, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order, changedBy string, notes *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = $3, delivered_at = $4
		WHERE id = $5
	`
	tag, err := tx.Exec(ctx, query,
		order.Status, order.PaymentStatus, order.UpdatedAt, order.DeliveredAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at, notes)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, logQuery, order.ID, order.Status, changedBy, time.Now(), notes)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	// Delivery closes the active assignment and frees its driver, also
	// when the restaurant marks the order delivered directly.
	if order.Status == domain.StatusDelivered {
		_, err = tx.Exec(ctx, `
			UPDATE drivers SET available = TRUE
			WHERE id IN (SELECT driver_id FROM delivery_assignments
			             WHERE order_id = $1 AND status NOT IN ('delivered', 'failed'))
		`, order.ID)
		if err != nil {
			return fmt.Errorf("failed to free driver: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE delivery_assignments
			SET status = 'delivered', delivered_at = $2, updated_at = $2
			WHERE order_id = $1 AND status NOT IN ('delivered', 'failed')
		`, order.ID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to close assignment: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	query := `
		SELECT id, order_id, status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt, &log.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func (r *orderRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM delivery_assignments WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignments: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanOrder(row Row, o *domain.Order) error {
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.RestaurantID, &o.AddressID,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Discount, &o.Total,
		&o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt,
		&o.EstimatedDeliveryAt, &o.DeliveredAt,
		&o.RestaurantName, &o.AddressText,
		&o.CustomerName, &o.CustomerPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to scan order: %w", err)
	}
	return nil
}
