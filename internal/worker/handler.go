package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// OrderEventHandler is the inventory side of the notification channel. It
// consumes order lifecycle events and records them; delivery here is
// best-effort, so the handler validates the tagged payload at the boundary
// and rejects anything malformed instead of guessing. Validation failures
// carry domain.ErrInvalidEvent so the consumer loop can drop them.
type OrderEventHandler struct {
	logger         *slog.Logger
	eventsReceived metric.Int64Counter
}

func NewOrderEventHandler(logger *slog.Logger) (*OrderEventHandler, error) {
	meter := otel.Meter("worker")

	eventsReceived, err := meter.Int64Counter("worker.order_events_received")
	if err != nil {
		return nil, err
	}

	return &OrderEventHandler{
		logger:         logger,
		eventsReceived: eventsReceived,
	}, nil
}

func (h *OrderEventHandler) HandleOrderPlaced(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: unmarshal order placed event: %v", domain.ErrInvalidEvent, err)
	}
	if event.Type != domain.EventTypeOrderPlaced {
		return fmt.Errorf("%w: unexpected type %q on order placed topic", domain.ErrInvalidEvent, event.Type)
	}
	if event.OrderID == "" || event.CustomerID == "" {
		return fmt.Errorf("%w: order placed event missing identifiers", domain.ErrInvalidEvent)
	}

	h.eventsReceived.Add(ctx, 1)
	h.logger.Info("order placed",
		"order_id", event.OrderID,
		"customer_id", event.CustomerID,
		"total_amount", event.TotalAmount,
		"items", len(event.LineItems))
	return nil
}

func (h *OrderEventHandler) HandleStatusChanged(ctx context.Context, payload []byte) error {
	var event domain.OrderStatusChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: unmarshal status changed event: %v", domain.ErrInvalidEvent, err)
	}
	if event.Type != domain.EventTypeOrderStatusChanged {
		return fmt.Errorf("%w: unexpected type %q on order status topic", domain.ErrInvalidEvent, event.Type)
	}
	if event.OrderID == "" || !event.Status.Valid() {
		return fmt.Errorf("%w: status changed event missing order id or carrying unknown status %q",
			domain.ErrInvalidEvent, event.Status)
	}

	h.eventsReceived.Add(ctx, 1)
	h.logger.Info("order status changed",
		"order_id", event.OrderID,
		"customer_id", event.CustomerID,
		"status", event.Status)
	return nil
}

// DiscardInvalid wraps a consumer handler so a permanently malformed
// message is logged and committed rather than redelivered. Without it one
// bad producer wedges the consumer group: the uncommitted offset is fetched
// again on every restart.
func DiscardInvalid(logger *slog.Logger, handle func(ctx context.Context, payload []byte) error) func(ctx context.Context, payload []byte) error {
	return func(ctx context.Context, payload []byte) error {
		err := handle(ctx, payload)
		if errors.Is(err, domain.ErrInvalidEvent) {
			logger.Warn("discarding invalid order event", "error", err)
			return nil
		}
		return err
	}
}
