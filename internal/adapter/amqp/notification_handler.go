package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleOrderEvent(ctx context.Context, body []byte) error {
	var msg interfaces.OrderEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order event", "", nil, err)
		return err
	}

	h.logger.Debug("order_event_received", fmt.Sprintf("Received %s for order %s", msg.Event, msg.OrderNumber),
		msg.OrderNumber, map[string]interface{}{
			"event":      msg.Event,
			"new_status": msg.NewStatus,
		})

	switch msg.Event {
	case interfaces.EventOrderPlaced:
		fmt.Printf("Notification for order %s: order received, status '%s'\n",
			msg.OrderNumber, msg.NewStatus)
	default:
		fmt.Printf("Notification for order %s: status changed from '%s' to '%s' by %s\n",
			msg.OrderNumber, msg.OldStatus, msg.NewStatus, msg.ChangedBy)
	}

	return nil
}
