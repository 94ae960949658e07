package domain

import (
	"errors"
	"time"
)

// Restaurant represents a marketplace restaurant.
type Restaurant struct {
	ID          int
	OwnerID     int
	Name        string
	Description string
	Cuisine     string
	Address     string
	Phone       string
	ImageURL    string
	Rating      float64
	RatingCount int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MenuItem represents a dish offered by a restaurant. Orders snapshot
// name and price at placement time, so later edits here never rewrite
// order history.
type MenuItem struct {
	ID           int
	RestaurantID int
	Name         string
	Description  string
	Category     string
	Price        float64
	ImageURL     string
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate applies business validation rules.
func (m *MenuItem) Validate() error {
	if len(m.Name) < 1 || len(m.Name) > 100 {
		return errors.New("item name must be 1-100 characters")
	}
	if m.Price < 0.01 || m.Price > 9999.99 {
		return errors.New("item price must be 0.01-9999.99")
	}
	return nil
}

// Review is a customer's rating of a delivered order's restaurant.
type Review struct {
	ID           int
	OrderID      int
	CustomerID   int
	RestaurantID int
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// Validate applies business validation rules.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if len(r.Comment) > 1000 {
		return errors.New("comment must not exceed 1000 characters")
	}
	return nil
}
