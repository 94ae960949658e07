package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

const restaurantsPageSize = 20

type Service struct {
	restaurants interfaces.RestaurantRepository
	favorites   interfaces.FavoriteRepository
	reviews     interfaces.ReviewRepository
	orders      interfaces.OrderRepository
	customers   interfaces.CustomerRepository
	reports     interfaces.ReportRepository
	logger      logger.Logger
}

func NewService(
	restaurants interfaces.RestaurantRepository,
	favorites interfaces.FavoriteRepository,
	reviews interfaces.ReviewRepository,
	orders interfaces.OrderRepository,
	customers interfaces.CustomerRepository,
	reports interfaces.ReportRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		restaurants: restaurants,
		favorites:   favorites,
		reviews:     reviews,
		orders:      orders,
		customers:   customers,
		reports:     reports,
		logger:      logger,
	}
}

func (s *Service) ListRestaurants(ctx context.Context, search string, page int) ([]*domain.Restaurant, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * restaurantsPageSize
	return s.restaurants.List(ctx, search, restaurantsPageSize, offset)
}

func (s *Service) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	return s.restaurants.FindByID(ctx, id)
}

// Menu returns the public menu. Unavailable items are hidden.
func (s *Service) Menu(ctx context.Context, restaurantID int) ([]*domain.MenuItem, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.restaurants.Menu(ctx, restaurantID, false)
}

func (s *Service) ListFavorites(ctx context.Context, userID int) ([]*domain.Restaurant, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.favorites.ListByCustomer(ctx, customer.ID)
}

func (s *Service) AddFavorite(ctx context.Context, userID, restaurantID int) error {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, customer.ID, restaurantID)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, restaurantID int) error {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.favorites.Remove(ctx, customer.ID, restaurantID)
}

// AddReview accepts one review per delivered order, written by the
// customer who placed it.
func (s *Service) AddReview(ctx context.Context, userID int, cmd interfaces.ReviewCommand) (*domain.Review, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.StatusDelivered {
		return nil, fmt.Errorf("validation failed: only delivered orders can be reviewed")
	}

	if existing, err := s.reviews.FindByOrder(ctx, order.ID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyReviewed
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	review := &domain.Review{
		OrderID:      order.ID,
		CustomerID:   customer.ID,
		RestaurantID: order.RestaurantID,
		Rating:       cmd.Rating,
		Comment:      cmd.Comment,
	}
	if err := review.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create review", "", nil, err)
		return nil, err
	}

	return review, nil
}

func (s *Service) ListReviews(ctx context.Context, restaurantID int) ([]*domain.Review, error) {
	if _, err := s.restaurants.FindByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.reviews.ListByRestaurant(ctx, restaurantID)
}

func (s *Service) OwnerOrders(ctx context.Context, userID int) ([]*domain.Order, error) {
	restaurant, err := s.restaurants.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByRestaurant(ctx, restaurant.ID)
}

func (s *Service) CreateMenuItem(ctx context.Context, userID int, cmd interfaces.MenuItemCommand) (*domain.MenuItem, error) {
	restaurant, err := s.restaurants.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         cmd.Name,
		Description:  cmd.Description,
		Category:     cmd.Category,
		Price:        cmd.Price,
		ImageURL:     cmd.ImageURL,
		Available:    cmd.Available,
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.restaurants.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, userID, itemID int, cmd interfaces.MenuItemCommand) (*domain.MenuItem, error) {
	restaurant, err := s.restaurants.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.restaurants.FindMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != restaurant.ID {
		return nil, domain.ErrForbidden
	}

	item.Name = cmd.Name
	item.Description = cmd.Description
	item.Category = cmd.Category
	item.Price = cmd.Price
	item.ImageURL = cmd.ImageURL
	item.Available = cmd.Available
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.restaurants.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) PlatformReport(ctx context.Context) (*interfaces.PlatformReport, error) {
	return s.reports.PlatformReport(ctx)
}
