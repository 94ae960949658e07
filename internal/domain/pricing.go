package domain

import "math"

// Server-side pricing rules. These are the single source of truth; the
// frontend mirrors them for display only.
const (
	FlatDeliveryFee = 15.00
	TaxRate         = 0.14
	DriverShare     = 0.70
)

// Round2 rounds a money amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceOrder fills the pricing fields of an order from its line items
// and a discount amount. The discount is clamped to the subtotal.
func PriceOrder(o *Order, discount float64) {
	subtotal := 0.0
	for i := range o.Items {
		o.Items[i].Subtotal = Round2(o.Items[i].UnitPrice * float64(o.Items[i].Quantity))
		subtotal += o.Items[i].Subtotal
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	o.Subtotal = Round2(subtotal)
	o.DeliveryFee = FlatDeliveryFee
	o.Tax = Round2(o.Subtotal * TaxRate)
	o.Discount = Round2(discount)
	o.Total = Round2(o.Subtotal + o.DeliveryFee + o.Tax - o.Discount)
}

// DriverEarnings computes the driver's share of a delivery fee.
func DriverEarnings(deliveryFee float64) float64 {
	return Round2(deliveryFee * DriverShare)
}
