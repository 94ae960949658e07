package domain

import "time"

// DeliveryAssignment binds one order to one driver. Its status machine
// is separate from the order's: accepted -> picked_up -> in_transit ->
// delivered, with failed reachable from any non-terminal state.
type DeliveryAssignment struct {
	ID             int
	OrderID        int
	DriverID       int
	Status         DeliveryStatus
	DeliveryFee    float64
	DriverEarnings float64
	Latitude       *float64
	Longitude      *float64
	Notes          *string
	AssignedAt     time.Time
	UpdatedAt      time.Time
	DeliveredAt    *time.Time

	// Display fields joined in for driver views.
	OrderNumber string
}

// CanTransitionTo checks if the assignment can move to the new status.
func (a *DeliveryAssignment) CanTransitionTo(newStatus DeliveryStatus) bool {
	validTransitions := map[DeliveryStatus][]DeliveryStatus{
		DeliveryAccepted:  {DeliveryPickedUp, DeliveryFailed},
		DeliveryPickedUp:  {DeliveryInTransit, DeliveryFailed},
		DeliveryInTransit: {DeliveryDelivered, DeliveryFailed},
		DeliveryDelivered: {},
		DeliveryFailed:    {},
	}

	allowed := validTransitions[a.Status]
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Terminal reports whether the assignment is closed.
func (a *DeliveryAssignment) Terminal() bool {
	return a.Status == DeliveryDelivered || a.Status == DeliveryFailed
}

// DeliveryPatch is a sparse update to an assignment. Only non-nil
// fields are applied.
type DeliveryPatch struct {
	Status    DeliveryStatus
	Latitude  *float64
	Longitude *float64
	Notes     *string
}

// Apply merges the patch into the assignment. The status itself is
// transitioned by the caller; Apply only handles the optional fields.
func (a *DeliveryAssignment) Apply(p DeliveryPatch) {
	if p.Latitude != nil {
		a.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		a.Longitude = p.Longitude
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	a.UpdatedAt = time.Now()
}

// DriverStats aggregates a driver's delivered assignments for the
// current day and calendar week, keyed off the assignment timestamp.
type DriverStats struct {
	TodayDeliveries int
	TodayEarnings   float64
	WeekDeliveries  int
	WeekEarnings    float64
}
