package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, driver *domain.Driver) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (name, email, password_hash, phone, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.Role,
		user.Active, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	switch user.Role {
	case domain.RoleCustomer:
		_, err = tx.Exec(ctx,
			`INSERT INTO customers (user_id) VALUES ($1)`, user.ID)
		if err != nil {
			return fmt.Errorf("failed to insert customer profile: %w", err)
		}
	case domain.RoleDriver:
		vehicleType, vehiclePlate := "", ""
		if driver != nil {
			vehicleType, vehiclePlate = driver.VehicleType, driver.VehiclePlate
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO drivers (user_id, vehicle_type, vehicle_plate) VALUES ($1, $2, $3)`,
			user.ID, vehicleType, vehiclePlate)
		if err != nil {
			return fmt.Errorf("failed to insert driver profile: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return r.findBy(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) findBy(ctx context.Context, clause string, arg any) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, active, created_at, updated_at
		FROM users ` + clause

	var user domain.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone,
		&user.Role, &user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	return &user, nil
}

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByUserID(ctx context.Context, userID int) (*domain.Customer, error) {
	query := `
		SELECT id, user_id, total_orders, total_spent, loyalty_points, created_at
		FROM customers
		WHERE user_id = $1
	`

	var c domain.Customer
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.TotalOrders, &c.TotalSpent, &c.LoyaltyPoints, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select customer: %w", err)
	}

	return &c, nil
}

type driverRepository struct {
	db DB
}

func NewDriverRepository(db DB) interfaces.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) FindByUserID(ctx context.Context, userID int) (*domain.Driver, error) {
	query := `
		SELECT id, user_id, vehicle_type, vehicle_plate, available, completed_deliveries, created_at
		FROM drivers
		WHERE user_id = $1
	`

	var d domain.Driver
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.ID, &d.UserID, &d.VehicleType, &d.VehiclePlate,
		&d.Available, &d.CompletedDeliveries, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select driver: %w", err)
	}

	return &d, nil
}

func (r *driverRepository) SetAvailability(ctx context.Context, driverID int, available bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE drivers SET available = $1 WHERE id = $2`, available, driverID)
	if err != nil {
		return fmt.Errorf("failed to update driver availability: %w", err)
	}
	return nil
}
