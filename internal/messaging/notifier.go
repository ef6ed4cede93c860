package messaging

import (
	"context"
	"errors"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// Topic names shared by the orders-side producers and the inventory-side
// worker.
const (
	TopicOrderPlaced = "order.placed"
	TopicOrderStatus = "order.status"
)

// KafkaNotifier publishes order lifecycle events for the inventory side. It
// implements the orders service's Notifier interface; callers treat every
// publish as best-effort.
type KafkaNotifier struct {
	placed *Producer
	status *Producer
}

func NewKafkaNotifier(brokers []string) *KafkaNotifier {
	return &KafkaNotifier{
		placed: NewProducer(brokers, TopicOrderPlaced),
		status: NewProducer(brokers, TopicOrderStatus),
	}
}

func (n *KafkaNotifier) OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	return n.placed.Publish(ctx, event.OrderID, event)
}

func (n *KafkaNotifier) OrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error {
	return n.status.Publish(ctx, event.OrderID, event)
}

func (n *KafkaNotifier) Close() error {
	return errors.Join(n.placed.Close(), n.status.Close())
}
