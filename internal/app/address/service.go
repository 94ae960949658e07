package address

import (
	"context"
	"fmt"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

type Service struct {
	addresses interfaces.AddressRepository
	customers interfaces.CustomerRepository
	logger    logger.Logger
}

func NewService(addresses interfaces.AddressRepository, customers interfaces.CustomerRepository, logger logger.Logger) *Service {
	return &Service{
		addresses: addresses,
		customers: customers,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, userID int, cmd interfaces.AddressCommand) (*domain.Address, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	address := &domain.Address{
		CustomerID: customer.ID,
		Label:      cmd.Label,
		Street:     cmd.Street,
		City:       cmd.City,
		Notes:      cmd.Notes,
		IsDefault:  cmd.IsDefault,
	}
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.addresses.Create(ctx, address); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create address", "", nil, err)
		return nil, err
	}

	return address, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]*domain.Address, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.addresses.ListByCustomer(ctx, customer.ID)
}

func (s *Service) Update(ctx context.Context, userID, addressID int, cmd interfaces.AddressCommand) (*domain.Address, error) {
	address, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = cmd.Label
	address.Street = cmd.Street
	address.City = cmd.City
	address.Notes = cmd.Notes
	address.IsDefault = cmd.IsDefault
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.addresses.Update(ctx, address); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update address", "", nil, err)
		return nil, err
	}

	return address, nil
}

func (s *Service) Delete(ctx context.Context, userID, addressID int) error {
	if _, err := s.owned(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addresses.Delete(ctx, addressID)
}

// owned loads the address and checks it belongs to the caller's
// customer profile.
func (s *Service) owned(ctx context.Context, userID, addressID int) (*domain.Address, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customer.ID {
		return nil, domain.ErrForbidden
	}
	return address, nil
}
