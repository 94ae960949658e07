package cart

import (
	"context"
	"fmt"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

type Service struct {
	carts       interfaces.CartRepository
	customers   interfaces.CustomerRepository
	restaurants interfaces.RestaurantRepository
	logger      logger.Logger
}

func NewService(
	carts interfaces.CartRepository,
	customers interfaces.CustomerRepository,
	restaurants interfaces.RestaurantRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		carts:       carts,
		customers:   customers,
		restaurants: restaurants,
		logger:      logger,
	}
}

func (s *Service) Get(ctx context.Context, userID int) (*domain.Cart, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	cart := domain.BuildCart(lines)
	return &cart, nil
}

// AddItem adds a menu item to the cart. A cart holds items of a single
// restaurant; adding from a second restaurant is rejected and the
// client must clear the cart first.
func (s *Service) AddItem(ctx context.Context, userID int, cmd interfaces.AddCartItemCommand) (*domain.CartLine, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.restaurants.FindMenuItem(ctx, cmd.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	existing, err := s.carts.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range existing {
		if l.RestaurantID != item.RestaurantID {
			return nil, domain.ErrRestaurantMismatch
		}
	}

	line := &domain.CartLine{
		CustomerID:   customer.ID,
		MenuItemID:   item.ID,
		RestaurantID: item.RestaurantID,
		ItemName:     item.Name,
		UnitPrice:    item.Price,
		Quantity:     cmd.Quantity,
		Notes:        cmd.Notes,
	}
	if err := line.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.carts.Add(ctx, line); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to add cart item", "", nil, err)
		return nil, err
	}

	// The merged quantity may exceed the per-line cap after repeated adds.
	if line.Quantity > 50 {
		line.Quantity = 50
		if err := s.carts.UpdateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	return line, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, lineID int, cmd interfaces.UpdateCartItemCommand) (*domain.CartLine, error) {
	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	line.Quantity = cmd.Quantity
	if cmd.Notes != nil {
		line.Notes = cmd.Notes
	}
	if err := line.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.carts.UpdateLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, lineID int) error {
	if _, err := s.ownedLine(ctx, userID, lineID); err != nil {
		return err
	}
	return s.carts.RemoveLine(ctx, lineID)
}

func (s *Service) Clear(ctx context.Context, userID int) error {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.carts.Clear(ctx, customer.ID)
}

func (s *Service) ownedLine(ctx context.Context, userID, lineID int) (*domain.CartLine, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	line, err := s.carts.FindLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.CustomerID != customer.ID {
		return nil, domain.ErrForbidden
	}
	return line, nil
}
