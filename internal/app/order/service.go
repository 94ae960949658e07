package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

// couponDiscounts maps known promo codes to flat discount amounts.
// Unknown codes are ignored rather than rejected.
var couponDiscounts = map[string]float64{
	"WELCOME10": 10.00,
	"SAVE20":    20.00,
}

type Service struct {
	orders      interfaces.OrderRepository
	carts       interfaces.CartRepository
	customers   interfaces.CustomerRepository
	addresses   interfaces.AddressRepository
	restaurants interfaces.RestaurantRepository
	drivers     interfaces.DriverRepository
	deliveries  interfaces.DeliveryRepository
	publisher   interfaces.EventPublisher
	logger      logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	carts interfaces.CartRepository,
	customers interfaces.CustomerRepository,
	addresses interfaces.AddressRepository,
	restaurants interfaces.RestaurantRepository,
	drivers interfaces.DriverRepository,
	deliveries interfaces.DeliveryRepository,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:      orders,
		carts:       carts,
		customers:   customers,
		addresses:   addresses,
		restaurants: restaurants,
		drivers:     drivers,
		deliveries:  deliveries,
		publisher:   publisher,
		logger:      logger,
	}
}

// Place converts the customer's cart into an order. Prices are read
// from the menu on the server; client-sent amounts are never trusted.
func (s *Service) Place(ctx context.Context, userID int, cmd interfaces.PlaceOrderCommand) (*domain.Order, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	restaurantID := lines[0].RestaurantID
	for _, l := range lines {
		if l.RestaurantID != restaurantID {
			return nil, domain.ErrRestaurantMismatch
		}
	}

	address, err := s.addresses.FindByID(ctx, cmd.AddressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customer.ID {
		return nil, domain.ErrForbidden
	}

	method := domain.PaymentMethod(cmd.PaymentMethod)
	if method != domain.PaymentCash && method != domain.PaymentCard {
		return nil, fmt.Errorf("validation failed: unsupported payment method %q", cmd.PaymentMethod)
	}

	order := &domain.Order{
		CustomerID:          customer.ID,
		RestaurantID:        restaurantID,
		AddressID:           address.ID,
		Status:              domain.StatusPending,
		PaymentMethod:       method,
		PaymentStatus:       domain.PaymentPending,
		SpecialInstructions: cmd.SpecialInstructions,
		Items:               make([]domain.OrderItem, 0, len(lines)),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	// Snapshot each line against the current menu so unavailable items
	// are caught even if they were carted earlier.
	for _, l := range lines {
		item, err := s.restaurants.FindMenuItem(ctx, l.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !item.Available {
			return nil, domain.ErrItemUnavailable
		}
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   l.Quantity,
		})
	}

	domain.PriceOrder(order, couponDiscounts[cmd.CouponCode])

	number, err := s.orders.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	eta := time.Now().Add(45 * time.Minute)
	order.EstimatedDeliveryAt = &eta

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, err
	}
	s.logger.Debug("order_placed", "Order created in DB", "", map[string]interface{}{
		"order_number": order.Number,
		"total":        order.Total,
	})

	s.publish(ctx, interfaces.OrderEventMessage{
		OrderNumber: order.Number,
		Event:       interfaces.EventOrderPlaced,
		NewStatus:   string(order.Status),
		ChangedBy:   actorTag("customer", userID),
		Timestamp:   time.Now(),
	})

	return order, nil
}

func (s *Service) ListMine(ctx context.Context, userID int) ([]*domain.Order, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customer.ID)
}

// Get resolves either a numeric id or an order number like
// FE_20260830_001. The order's customer contact and delivery address
// are only shown to the parties of the order.
func (s *Service) Get(ctx context.Context, actor *domain.User, idOrNumber string) (*domain.Order, error) {
	order, err := s.find(ctx, idOrNumber)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) History(ctx context.Context, actor *domain.User, idOrNumber string) ([]*domain.StatusLog, error) {
	order, err := s.Get(ctx, actor, idOrNumber)
	if err != nil {
		return nil, err
	}
	return s.orders.GetStatusHistory(ctx, order.ID)
}

func (s *Service) find(ctx context.Context, idOrNumber string) (*domain.Order, error) {
	if id, err := strconv.Atoi(idOrNumber); err == nil {
		return s.orders.FindByID(ctx, id)
	}
	return s.orders.FindByNumber(ctx, idOrNumber)
}

// UpdateStatus applies one lifecycle transition. Admins may move any
// order, owners only orders of their restaurant, and customers may only
// cancel their own order while it is still pending.
func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, orderID int, status string, reason *string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	newStatus := domain.Status(status)
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.authorizeTransition(ctx, actor, order, newStatus); err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	changedBy := actorTag(string(actor.Role), actor.ID)
	if err := s.orders.UpdateStatus(ctx, order, changedBy, reason); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update order status", "", nil, err)
		return nil, err
	}

	s.publish(ctx, interfaces.OrderEventMessage{
		OrderNumber: order.Number,
		Event:       interfaces.EventStatusChanged,
		OldStatus:   string(oldStatus),
		NewStatus:   string(order.Status),
		ChangedBy:   changedBy,
		Timestamp:   time.Now(),
	})

	return order, nil
}

func (s *Service) Delete(ctx context.Context, orderID int) error {
	return s.orders.Delete(ctx, orderID)
}

// authorizeView limits an order to its own parties: the customer who
// placed it, the restaurant's owner, the driver currently delivering it
// and admins.
func (s *Service) authorizeView(ctx context.Context, actor *domain.User, order *domain.Order) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil

	case domain.RoleRestaurantOwner:
		restaurant, err := s.restaurants.FindByID(ctx, order.RestaurantID)
		if err != nil {
			return err
		}
		if !actor.IsStaffFor(restaurant) {
			return domain.ErrForbidden
		}
		return nil

	case domain.RoleCustomer:
		customer, err := s.customers.FindByUserID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if order.CustomerID != customer.ID {
			return domain.ErrForbidden
		}
		return nil

	case domain.RoleDriver:
		driver, err := s.drivers.FindByUserID(ctx, actor.ID)
		if err != nil {
			return err
		}
		active, err := s.deliveries.FindActiveByDriver(ctx, driver.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrForbidden
			}
			return err
		}
		if active.OrderID != order.ID {
			return domain.ErrForbidden
		}
		return nil
	}

	return domain.ErrForbidden
}

func (s *Service) authorizeTransition(ctx context.Context, actor *domain.User, order *domain.Order, newStatus domain.Status) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil

	case domain.RoleRestaurantOwner:
		restaurant, err := s.restaurants.FindByID(ctx, order.RestaurantID)
		if err != nil {
			return err
		}
		if !actor.IsStaffFor(restaurant) {
			return domain.ErrForbidden
		}
		return nil

	case domain.RoleCustomer:
		if newStatus != domain.StatusCancelled {
			return domain.ErrForbidden
		}
		customer, err := s.customers.FindByUserID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if order.CustomerID != customer.ID || order.Status != domain.StatusPending {
			return domain.ErrForbidden
		}
		return nil
	}

	return domain.ErrForbidden
}

// publish is best-effort: an unreachable broker must not fail a request
// whose database transaction already committed.
func (s *Service) publish(ctx context.Context, msg interfaces.OrderEventMessage) {
	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", "", map[string]interface{}{
			"order_number": msg.OrderNumber,
			"event":        msg.Event,
		}, err)
	}
}

func actorTag(role string, id int) string {
	return fmt.Sprintf("%s-%d", role, id)
}
