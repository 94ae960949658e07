package domain

import (
	"errors"
	"regexp"
	"time"
)

type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleDriver          Role = "driver"
	RoleAdmin           Role = "admin"
)

// User represents a platform account of any role.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Customer is the customer-side profile linked to a User. The running
// counters are maintained by database triggers, not by this layer.
type Customer struct {
	ID            int
	UserID        int
	TotalOrders   int
	TotalSpent    float64
	LoyaltyPoints int
	CreatedAt     time.Time
}

// Driver is the courier profile linked to a User.
type Driver struct {
	ID                  int
	UserID              int
	VehicleType         string
	VehiclePlate        string
	Available           bool
	CompletedDeliveries int
	CreatedAt           time.Time
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewUser creates a user with business rules applied. The password hash
// is set by the auth service after hashing.
func NewUser(name, email, phone string, role Role) (*User, error) {
	user := &User{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate applies business validation rules.
func (u *User) Validate() error {
	if len(u.Name) < 1 || len(u.Name) > 100 {
		return errors.New("name must be 1-100 characters")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email address")
	}

	switch u.Role {
	case RoleCustomer, RoleRestaurantOwner, RoleDriver:
	case RoleAdmin:
		return errors.New("admin accounts cannot be self-registered")
	default:
		return errors.New("invalid role")
	}

	return nil
}

// IsStaffFor reports whether the user may manage orders of the given
// restaurant: admins always, owners only for their own restaurant.
func (u *User) IsStaffFor(r *Restaurant) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleRestaurantOwner && r != nil && r.OwnerID == u.ID
}
