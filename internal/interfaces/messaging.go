package interfaces

import (
	"context"
	"time"
)

// Event names published to the order_events exchange.
const (
	EventOrderPlaced    = "order_placed"
	EventStatusChanged  = "status_changed"
	EventDeliveryUpdate = "delivery_update"
)

// OrderEventMessage is the payload broadcast on every order lifecycle
// change. The notification subscriber renders these for customers.
type OrderEventMessage struct {
	OrderNumber string    `json:"order_number"`
	Event       string    `json:"event"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status"`
	ChangedBy   string    `json:"changed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg OrderEventMessage) error
}

type OrderEventHandler func(ctx context.Context, body []byte) error

type MessageConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler OrderEventHandler) error
}
