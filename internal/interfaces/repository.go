package interfaces

import (
	"context"
	"time"

	"github.com/foodease/foodease/internal/domain"
)

type UserRepository interface {
	// Create inserts the user and its role profile (customer or driver)
	// in one transaction. driver is non-nil only for the driver role.
	Create(ctx context.Context, user *domain.User, driver *domain.Driver) error
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CustomerRepository interface {
	FindByUserID(ctx context.Context, userID int) (*domain.Customer, error)
}

type DriverRepository interface {
	FindByUserID(ctx context.Context, userID int) (*domain.Driver, error)
	SetAvailability(ctx context.Context, driverID int, available bool) error
}

type AddressRepository interface {
	// Create and Update unset sibling defaults in the same transaction
	// when the address carries the default flag.
	Create(ctx context.Context, address *domain.Address) error
	FindByID(ctx context.Context, id int) (*domain.Address, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*domain.Address, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id int) error
}

type CartRepository interface {
	ListByCustomer(ctx context.Context, customerID int) ([]domain.CartLine, error)
	FindLine(ctx context.Context, id int) (*domain.CartLine, error)
	Add(ctx context.Context, line *domain.CartLine) error
	UpdateLine(ctx context.Context, line *domain.CartLine) error
	RemoveLine(ctx context.Context, id int) error
	Clear(ctx context.Context, customerID int) error
}

type RestaurantRepository interface {
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Restaurant, error)
	FindByID(ctx context.Context, id int) (*domain.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID int) (*domain.Restaurant, error)
	Menu(ctx context.Context, restaurantID int, includeUnavailable bool) ([]*domain.MenuItem, error)
	FindMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, customerID, restaurantID int) error
	Remove(ctx context.Context, customerID, restaurantID int) error
	ListByCustomer(ctx context.Context, customerID int) ([]*domain.Restaurant, error)
}

type ReviewRepository interface {
	// Create inserts the review and recomputes the restaurant's rating
	// in the same transaction.
	Create(ctx context.Context, review *domain.Review) error
	FindByOrder(ctx context.Context, orderID int) (*domain.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID int) ([]*domain.Review, error)
}

type OrderRepository interface {
	// Create inserts the order with its items and initial status log and
	// clears the customer's cart, all in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	GenerateOrderNumber(ctx context.Context) (string, error)
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int) ([]*domain.Order, error)
	// UpdateStatus persists the already-transitioned order (status,
	// payment status, delivered timestamp), appends a status log entry
	// and, on delivery, frees the assigned driver — one transaction.
	UpdateStatus(ctx context.Context, order *domain.Order, changedBy string, notes *string) error
	GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error)
	Delete(ctx context.Context, id int) error
}

type DeliveryRepository interface {
	ListAvailableOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	// Claim atomically checks that the order is still claimable, moves it
	// to out_for_delivery, inserts the assignment and marks the driver
	// unavailable. Returns domain.ErrAlreadyAssigned when another driver
	// won the race.
	Claim(ctx context.Context, assignment *domain.DeliveryAssignment) error
	FindByID(ctx context.Context, id int) (*domain.DeliveryAssignment, error)
	FindActiveByDriver(ctx context.Context, driverID int) (*domain.DeliveryAssignment, error)
	Update(ctx context.Context, assignment *domain.DeliveryAssignment) error
	// Complete closes the assignment as delivered: order delivered,
	// payment completed, driver freed with its counter bumped.
	Complete(ctx context.Context, assignment *domain.DeliveryAssignment) error
	// Fail closes the assignment as failed and returns the order to the
	// ready pool so another driver can claim it.
	Fail(ctx context.Context, assignment *domain.DeliveryAssignment) error
	Stats(ctx context.Context, driverID int, now time.Time) (*domain.DriverStats, error)
}

type ReportRepository interface {
	PlatformReport(ctx context.Context) (*PlatformReport, error)
}
