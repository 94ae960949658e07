package interfaces

import (
	"context"
	"time"

	"github.com/foodease/foodease/internal/domain"
)

// Commands carried from transport to the services.

type RegisterCommand struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Role         string
	VehicleType  string
	VehiclePlate string
}

type AddressCommand struct {
	Label     string
	Street    string
	City      string
	Notes     *string
	IsDefault bool
}

type AddCartItemCommand struct {
	MenuItemID int
	Quantity   int
	Notes      *string
}

type UpdateCartItemCommand struct {
	Quantity int
	Notes    *string
}

type PlaceOrderCommand struct {
	AddressID           int
	PaymentMethod       string
	SpecialInstructions *string
	CouponCode          string
}

type DeliveryStatusCommand struct {
	Status    string
	Latitude  *float64
	Longitude *float64
	Notes     *string
}

type ReviewCommand struct {
	OrderID int
	Rating  int
	Comment string
}

type MenuItemCommand struct {
	Name        string
	Description string
	Category    string
	Price       float64
	ImageURL    string
	Available   bool
}

type LoginResult struct {
	Token string
	User  *domain.User
}

type PlatformReport struct {
	TotalOrders     int
	TotalRevenue    float64
	DeliveredOrders int
	CancelledOrders int
	ActiveDrivers   int
	TopRestaurants  []RestaurantReportRow
	GeneratedAt     time.Time
}

type RestaurantReportRow struct {
	RestaurantID int
	Name         string
	OrderCount   int
	Revenue      float64
}

// Service contracts (business logic).

type AuthService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate verifies a bearer token and re-fetches the user row,
	// so deactivated accounts are caught on every request.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AddressService interface {
	Create(ctx context.Context, userID int, cmd AddressCommand) (*domain.Address, error)
	List(ctx context.Context, userID int) ([]*domain.Address, error)
	Update(ctx context.Context, userID, addressID int, cmd AddressCommand) (*domain.Address, error)
	Delete(ctx context.Context, userID, addressID int) error
}

type CartService interface {
	Get(ctx context.Context, userID int) (*domain.Cart, error)
	AddItem(ctx context.Context, userID int, cmd AddCartItemCommand) (*domain.CartLine, error)
	UpdateItem(ctx context.Context, userID, lineID int, cmd UpdateCartItemCommand) (*domain.CartLine, error)
	RemoveItem(ctx context.Context, userID, lineID int) error
	Clear(ctx context.Context, userID int) error
}

type OrderService interface {
	Place(ctx context.Context, userID int, cmd PlaceOrderCommand) (*domain.Order, error)
	ListMine(ctx context.Context, userID int) ([]*domain.Order, error)
	// Get accepts a numeric id or a human-readable order number. The
	// view is limited to the order's customer, the restaurant owner,
	// the assigned driver and admins.
	Get(ctx context.Context, actor *domain.User, idOrNumber string) (*domain.Order, error)
	History(ctx context.Context, actor *domain.User, idOrNumber string) ([]*domain.StatusLog, error)
	UpdateStatus(ctx context.Context, actor *domain.User, orderID int, status string, reason *string) (*domain.Order, error)
	Delete(ctx context.Context, orderID int) error
}

type DeliveryService interface {
	AvailableOrders(ctx context.Context) ([]*domain.Order, error)
	Accept(ctx context.Context, userID, orderID int) (*domain.DeliveryAssignment, error)
	UpdateStatus(ctx context.Context, userID, assignmentID int, cmd DeliveryStatusCommand) (*domain.DeliveryAssignment, error)
	Active(ctx context.Context, userID int) (*domain.DeliveryAssignment, error)
	Stats(ctx context.Context, userID int) (*domain.DriverStats, error)
	// SetAvailability lets a driver go on or off shift. Going offline is
	// refused while a delivery is in progress.
	SetAvailability(ctx context.Context, userID int, available bool) error
}

type CatalogService interface {
	ListRestaurants(ctx context.Context, search string, page int) ([]*domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	Menu(ctx context.Context, restaurantID int) ([]*domain.MenuItem, error)
	ListFavorites(ctx context.Context, userID int) ([]*domain.Restaurant, error)
	AddFavorite(ctx context.Context, userID, restaurantID int) error
	RemoveFavorite(ctx context.Context, userID, restaurantID int) error
	AddReview(ctx context.Context, userID int, cmd ReviewCommand) (*domain.Review, error)
	ListReviews(ctx context.Context, restaurantID int) ([]*domain.Review, error)
	OwnerOrders(ctx context.Context, userID int) ([]*domain.Order, error)
	CreateMenuItem(ctx context.Context, userID int, cmd MenuItemCommand) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, userID, itemID int, cmd MenuItemCommand) (*domain.MenuItem, error)
	PlatformReport(ctx context.Context) (*PlatformReport, error)
}
