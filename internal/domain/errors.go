package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	ErrCartEmpty          = errors.New("cart is empty")
	ErrRestaurantMismatch = errors.New("cart items must belong to a single restaurant")
	ErrItemUnavailable    = errors.New("menu item is not available")

	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderNotAssignable      = errors.New("order cannot be accepted for delivery")
	ErrAlreadyAssigned         = errors.New("order is already assigned to a driver")
	ErrDriverUnavailable       = errors.New("driver is off shift")
	ErrAlreadyReviewed         = errors.New("order has already been reviewed")
)
