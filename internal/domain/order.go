package domain

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Order represents a customer's purchase from one restaurant. Pricing
// fields are fixed at placement; only status and payment status change
// afterwards.
type Order struct {
	ID                  int
	Number              string
	CustomerID          int
	RestaurantID        int
	AddressID           int
	Status              Status
	PaymentMethod       PaymentMethod
	PaymentStatus       PaymentStatus
	Subtotal            float64
	DeliveryFee         float64
	Tax                 float64
	Discount            float64
	Total               float64
	SpecialInstructions *string
	Items               []OrderItem
	CreatedAt           time.Time
	UpdatedAt           time.Time
	EstimatedDeliveryAt *time.Time
	DeliveredAt         *time.Time

	// Display fields joined in for client views.
	RestaurantName string
	AddressText    string
	CustomerName   string
	CustomerPhone  string
}

// OrderItem snapshots a menu item at placement time, so later menu
// edits never alter historical orders.
type OrderItem struct {
	ID         int
	OrderID    int
	MenuItemID int
	Name       string
	UnitPrice  float64
	Quantity   int
	Subtotal   float64
}

// CanTransitionTo checks if the order can move to the new status.
// Transitions are forward-only along the lifecycle, with cancellation
// reachable from any non-terminal state.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:        {StatusConfirmed, StatusCancelled},
		StatusConfirmed:      {StatusPreparing, StatusCancelled},
		StatusPreparing:      {StatusReady, StatusCancelled},
		StatusReady:          {StatusOutForDelivery, StatusCancelled},
		StatusOutForDelivery: {StatusDelivered, StatusCancelled},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}

	allowed := validTransitions[o.Status]
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the order to a new status. Delivery
// completes payment as a side effect.
func (o *Order) TransitionTo(newStatus Status) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}

	o.Status = newStatus
	o.UpdatedAt = time.Now()

	if newStatus == StatusDelivered {
		o.PaymentStatus = PaymentCompleted
		now := time.Now()
		o.DeliveredAt = &now
	}

	return nil
}

// Assignable reports whether a driver may still claim the order.
func (o *Order) Assignable() bool {
	switch o.Status {
	case StatusConfirmed, StatusPreparing, StatusReady:
		return true
	}
	return false
}
