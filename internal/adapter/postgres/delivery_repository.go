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

type deliveryRepository struct {
	db DB
}

func NewDeliveryRepository(db DB) interfaces.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) ListAvailableOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + orderJoins + `
		WHERE o.status = 'ready'
		  AND NOT EXISTS (SELECT 1 FROM delivery_assignments d
		                  WHERE d.order_id = o.id AND d.status <> 'failed')
		ORDER BY o.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query available orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

// Claim is the single writer-wins point of order acceptance: the
// conditional update both checks and claims the order, so concurrent
// drivers cannot pass the "not yet assigned" check together.
func (r *deliveryRepository) Claim(ctx context.Context, assignment *domain.DeliveryAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	claim := `
		UPDATE orders
		SET status = 'out_for_delivery', updated_at = now()
		WHERE id = $1
		  AND status IN ('confirmed', 'preparing', 'ready')
		  AND NOT EXISTS (SELECT 1 FROM delivery_assignments d
		                  WHERE d.order_id = orders.id AND d.status <> 'failed')
	`
	tag, err := tx.Exec(ctx, claim, assignment.OrderID)
	if err != nil {
		return fmt.Errorf("failed to claim order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyClaimFailure(ctx, tx, assignment.OrderID)
	}

	insert := `
		INSERT INTO delivery_assignments (order_id, driver_id, status, delivery_fee,
		                                  driver_earnings, notes, assigned_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	err = tx.QueryRow(ctx, insert,
		assignment.OrderID, assignment.DriverID, assignment.Status,
		assignment.DeliveryFee, assignment.DriverEarnings, assignment.Notes,
		assignment.AssignedAt,
	).Scan(&assignment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, 'out_for_delivery', $2, $3)
	`
	_, err = tx.Exec(ctx, logQuery, assignment.OrderID,
		fmt.Sprintf("driver-%d", assignment.DriverID), time.Now())
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE drivers SET available = FALSE WHERE id = $1`, assignment.DriverID)
	if err != nil {
		return fmt.Errorf("failed to mark driver unavailable: %w", err)
	}

	return tx.Commit(ctx)
}

// classifyClaimFailure turns a lost claim into the precise error.
func (r *deliveryRepository) classifyClaimFailure(ctx context.Context, tx Tx, orderID int) error {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM delivery_assignments
		               WHERE order_id = $1 AND status <> 'failed')
	`, orderID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to inspect assignments: %w", err)
	}
	if exists {
		return domain.ErrAlreadyAssigned
	}

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to inspect order: %w", err)
	}
	return domain.ErrOrderNotAssignable
}

const assignmentColumns = `
	d.id, d.order_id, d.driver_id, d.status, d.delivery_fee, d.driver_earnings,
	d.latitude, d.longitude, d.notes, d.assigned_at, d.updated_at, d.delivered_at,
	o.number
`

func (r *deliveryRepository) FindByID(ctx context.Context, id int) (*domain.DeliveryAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM delivery_assignments d
		JOIN orders o ON o.id = d.order_id
		WHERE d.id = $1
	`
	return r.findOne(ctx, query, id)
}

func (r *deliveryRepository) FindActiveByDriver(ctx context.Context, driverID int) (*domain.DeliveryAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM delivery_assignments d
		JOIN orders o ON o.id = d.order_id
		WHERE d.driver_id = $1 AND d.status NOT IN ('delivered', 'failed')
		ORDER BY d.assigned_at DESC
		LIMIT 1
	`
	return r.findOne(ctx, query, driverID)
}

func (r *deliveryRepository) findOne(ctx context.Context, query string, arg any) (*domain.DeliveryAssignment, error) {
	var a domain.DeliveryAssignment
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.OrderID, &a.DriverID, &a.Status, &a.DeliveryFee, &a.DriverEarnings,
		&a.Latitude, &a.Longitude, &a.Notes, &a.AssignedAt, &a.UpdatedAt, &a.DeliveredAt,
		&a.OrderNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select assignment: %w", err)
	}

	return &a, nil
}

func (r *deliveryRepository) Update(ctx context.Context, a *domain.DeliveryAssignment) error {
	query := `
		UPDATE delivery_assignments
		SET status = $1, latitude = $2, longitude = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		a.Status, a.Latitude, a.Longitude, a.Notes, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *deliveryRepository) Complete(ctx context.Context, a *domain.DeliveryAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	a.DeliveredAt = &now

	query := `
		UPDATE delivery_assignments
		SET status = 'delivered', latitude = $1, longitude = $2, notes = $3,
		    updated_at = $4, delivered_at = $4
		WHERE id = $5
	`
	_, err = tx.Exec(ctx, query, a.Latitude, a.Longitude, a.Notes, now, a.ID)
	if err != nil {
		return fmt.Errorf("failed to close assignment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status = 'delivered', payment_status = 'completed', updated_at = $2, delivered_at = $2
		WHERE id = $1
	`, a.OrderID, now)
	if err != nil {
		return fmt.Errorf("failed to mark order delivered: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, 'delivered', $2, $3)
	`, a.OrderID, fmt.Sprintf("driver-%d", a.DriverID), now)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE drivers
		SET available = TRUE, completed_deliveries = completed_deliveries + 1
		WHERE id = $1
	`, a.DriverID)
	if err != nil {
		return fmt.Errorf("failed to free driver: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *deliveryRepository) Fail(ctx context.Context, a *domain.DeliveryAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	query := `
		UPDATE delivery_assignments
		SET status = 'failed', latitude = $1, longitude = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	_, err = tx.Exec(ctx, query, a.Latitude, a.Longitude, a.Notes, now, a.ID)
	if err != nil {
		return fmt.Errorf("failed to close assignment: %w", err)
	}

	// The order goes back to the ready pool for another driver.
	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = 'ready', updated_at = $2 WHERE id = $1
	`, a.OrderID, now)
	if err != nil {
		return fmt.Errorf("failed to requeue order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at, notes)
		VALUES ($1, 'ready', $2, $3, $4)
	`, a.OrderID, fmt.Sprintf("driver-%d", a.DriverID), now, a.Notes)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE drivers SET available = TRUE WHERE id = $1`, a.DriverID)
	if err != nil {
		return fmt.Errorf("failed to free driver: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *deliveryRepository) Stats(ctx context.Context, driverID int, now time.Time) (*domain.DriverStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE assigned_at >= date_trunc('day', $2::timestamptz)),
			COALESCE(SUM(driver_earnings) FILTER (WHERE assigned_at >= date_trunc('day', $2::timestamptz)), 0),
			COUNT(*) FILTER (WHERE assigned_at >= date_trunc('week', $2::timestamptz)),
			COALESCE(SUM(driver_earnings) FILTER (WHERE assigned_at >= date_trunc('week', $2::timestamptz)), 0)
		FROM delivery_assignments
		WHERE driver_id = $1 AND status = 'delivered'
	`

	var stats domain.DriverStats
	err := r.db.QueryRow(ctx, query, driverID, now).Scan(
		&stats.TodayDeliveries, &stats.TodayEarnings,
		&stats.WeekDeliveries, &stats.WeekEarnings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query driver stats: %w", err)
	}

	return &stats, nil
}
