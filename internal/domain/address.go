package domain

import (
	"errors"
	"fmt"
	"time"
)

// Address is a customer delivery address. At most one address per
// customer carries the default flag; the repository enforces that by
// unsetting siblings in the same transaction.
type Address struct {
	ID         int
	CustomerID int
	Label      string
	Street     string
	City       string
	Notes      *string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate applies business validation rules.
func (a *Address) Validate() error {
	if len(a.Street) < 5 || len(a.Street) > 200 {
		return errors.New("street must be 5-200 characters")
	}
	if len(a.City) < 1 || len(a.City) > 100 {
		return errors.New("city is required")
	}
	if len(a.Label) > 50 {
		return errors.New("label must not exceed 50 characters")
	}
	return nil
}

// DisplayText renders the address as a single line for order views.
func (a *Address) DisplayText() string {
	return fmt.Sprintf("%s, %s", a.Street, a.City)
}
