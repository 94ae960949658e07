package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartLineValidate(t *testing.T) {
	line := &CartLine{Quantity: 1}
	assert.NoError(t, line.Validate())

	line.Quantity = 0
	assert.Error(t, line.Validate())

	line.Quantity = 51
	assert.Error(t, line.Validate())

	long := strings.Repeat("x", 256)
	line = &CartLine{Quantity: 2, Notes: &long}
	assert.Error(t, line.Validate())
}

func TestBuildCart(t *testing.T) {
	cart := BuildCart([]CartLine{
		{RestaurantID: 7, UnitPrice: 12.50, Quantity: 2},
		{RestaurantID: 7, UnitPrice: 3.25, Quantity: 3},
	})

	assert.Equal(t, 7, cart.RestaurantID)
	assert.Equal(t, 34.75, cart.Subtotal)
	assert.Len(t, cart.Lines, 2)
}

func TestBuildCartEmpty(t *testing.T) {
	cart := BuildCart(nil)

	assert.Equal(t, 0, cart.RestaurantID)
	assert.Equal(t, 0.00, cart.Subtotal)
	assert.Empty(t, cart.Lines)
}
