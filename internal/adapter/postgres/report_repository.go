package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foodease/foodease/internal/interfaces"
)

type reportRepository struct {
	db DB
}

func NewReportRepository(db DB) interfaces.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) PlatformReport(ctx context.Context) (*interfaces.PlatformReport, error) {
	report := &interfaces.PlatformReport{GeneratedAt: time.Now()}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total) FILTER (WHERE status = 'delivered'), 0),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			(SELECT COUNT(*) FROM drivers WHERE available)
		FROM orders
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&report.TotalOrders, &report.TotalRevenue,
		&report.DeliveredOrders, &report.CancelledOrders, &report.ActiveDrivers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform totals: %w", err)
	}

	topQuery := `
		SELECT r.id, r.name, COUNT(o.id), COALESCE(SUM(o.total), 0)
		FROM restaurants r
		JOIN orders o ON o.restaurant_id = r.id AND o.status = 'delivered'
		GROUP BY r.id, r.name
		ORDER BY COUNT(o.id) DESC
		LIMIT 10
	`
	rows, err := r.db.Query(ctx, topQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query top restaurants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row interfaces.RestaurantReportRow
		if err := rows.Scan(&row.RestaurantID, &row.Name, &row.OrderCount, &row.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report.TopRestaurants = append(report.TopRestaurants, row)
	}

	return report, rows.Err()
}
