package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

const availableOrdersLimit = 50

type Service struct {
	deliveries interfaces.DeliveryRepository
	drivers    interfaces.DriverRepository
	orders     interfaces.OrderRepository
	publisher  interfaces.EventPublisher
	logger     logger.Logger
}

func NewService(
	deliveries interfaces.DeliveryRepository,
	drivers interfaces.DriverRepository,
	orders interfaces.OrderRepository,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		deliveries: deliveries,
		drivers:    drivers,
		orders:     orders,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) AvailableOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.deliveries.ListAvailableOrders(ctx, availableOrdersLimit)
}

// Accept claims an order for the calling driver. The claim itself is a
// single conditional update, so two drivers racing for the same order
// resolve to exactly one winner.
func (s *Service) Accept(ctx context.Context, userID, orderID int) (*domain.DeliveryAssignment, error) {
	driver, err := s.drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if active, err := s.deliveries.FindActiveByDriver(ctx, driver.ID); err == nil && active != nil {
		return nil, domain.ErrAlreadyAssigned
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// A driver who went off shift stays out of the pool until toggled
	// back.
	if !driver.Available {
		return nil, domain.ErrDriverUnavailable
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	assignment := &domain.DeliveryAssignment{
		OrderID:        order.ID,
		DriverID:       driver.ID,
		Status:         domain.DeliveryAccepted,
		DeliveryFee:    order.DeliveryFee,
		DriverEarnings: domain.DriverEarnings(order.DeliveryFee),
		AssignedAt:     time.Now(),
		UpdatedAt:      time.Now(),
		OrderNumber:    order.Number,
	}

	if err := s.deliveries.Claim(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Debug("delivery_accepted", "Order claimed by driver", "", map[string]interface{}{
		"order_number": order.Number,
		"driver_id":    driver.ID,
	})

	s.publish(ctx, interfaces.OrderEventMessage{
		OrderNumber: order.Number,
		Event:       interfaces.EventStatusChanged,
		OldStatus:   string(order.Status),
		NewStatus:   string(domain.StatusOutForDelivery),
		ChangedBy:   fmt.Sprintf("driver-%d", driver.ID),
		Timestamp:   time.Now(),
	})

	return assignment, nil
}

// UpdateStatus advances the driver's assignment. Delivering or failing
// the assignment also closes out the underlying order.
func (s *Service) UpdateStatus(ctx context.Context, userID, assignmentID int, cmd interfaces.DeliveryStatusCommand) (*domain.DeliveryAssignment, error) {
	driver, err := s.drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.deliveries.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.DriverID != driver.ID {
		return nil, domain.ErrForbidden
	}

	newStatus := domain.DeliveryStatus(cmd.Status)
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if !assignment.CanTransitionTo(newStatus) {
		return nil, domain.ErrInvalidStatusTransition
	}

	oldStatus := assignment.Status
	assignment.Status = newStatus
	assignment.Apply(domain.DeliveryPatch{
		Status:    newStatus,
		Latitude:  cmd.Latitude,
		Longitude: cmd.Longitude,
		Notes:     cmd.Notes,
	})

	switch newStatus {
	case domain.DeliveryDelivered:
		now := time.Now()
		assignment.DeliveredAt = &now
		err = s.deliveries.Complete(ctx, assignment)
	case domain.DeliveryFailed:
		err = s.deliveries.Fail(ctx, assignment)
	default:
		err = s.deliveries.Update(ctx, assignment)
	}
	if err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update delivery status", "", nil, err)
		return nil, err
	}

	s.publish(ctx, interfaces.OrderEventMessage{
		OrderNumber: assignment.OrderNumber,
		Event:       interfaces.EventDeliveryUpdate,
		OldStatus:   string(oldStatus),
		NewStatus:   string(assignment.Status),
		ChangedBy:   fmt.Sprintf("driver-%d", driver.ID),
		Timestamp:   time.Now(),
	})

	return assignment, nil
}

func (s *Service) Active(ctx context.Context, userID int) (*domain.DeliveryAssignment, error) {
	driver, err := s.drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.deliveries.FindActiveByDriver(ctx, driver.ID)
}

func (s *Service) Stats(ctx context.Context, userID int) (*domain.DriverStats, error) {
	driver, err := s.drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.deliveries.Stats(ctx, driver.ID, time.Now())
}

func (s *Service) SetAvailability(ctx context.Context, userID int, available bool) error {
	driver, err := s.drivers.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if !available {
		if active, err := s.deliveries.FindActiveByDriver(ctx, driver.ID); err == nil && active != nil {
			return domain.ErrAlreadyAssigned
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	return s.drivers.SetAvailability(ctx, driver.ID, available)
}

func (s *Service) publish(ctx context.Context, msg interfaces.OrderEventMessage) {
	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish delivery event", "", map[string]interface{}{
			"order_number": msg.OrderNumber,
			"event":        msg.Event,
		}, err)
	}
}
