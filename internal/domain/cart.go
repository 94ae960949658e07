package domain

import (
	"errors"
	"time"
)

// CartLine is one selected menu item in a customer's cart. Item name,
// unit price and restaurant are joined in from the menu at read time.
type CartLine struct {
	ID           int
	CustomerID   int
	MenuItemID   int
	RestaurantID int
	ItemName     string
	UnitPrice    float64
	Quantity     int
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subtotal returns the line total at current menu pricing.
func (l *CartLine) Subtotal() float64 {
	return Round2(l.UnitPrice * float64(l.Quantity))
}

// Validate applies business validation rules.
func (l *CartLine) Validate() error {
	if l.Quantity < 1 || l.Quantity > 50 {
		return errors.New("quantity must be between 1 and 50")
	}
	if l.Notes != nil && len(*l.Notes) > 255 {
		return errors.New("notes must not exceed 255 characters")
	}
	return nil
}

// Cart is a customer's current selection with derived totals.
type Cart struct {
	RestaurantID int
	Lines        []CartLine
	Subtotal     float64
}

// BuildCart derives cart totals from its lines. All lines of a valid
// cart reference the same restaurant.
func BuildCart(lines []CartLine) Cart {
	cart := Cart{Lines: lines}
	for _, l := range lines {
		cart.RestaurantID = l.RestaurantID
		cart.Subtotal += l.Subtotal()
	}
	cart.Subtotal = Round2(cart.Subtotal)
	return cart
}
