package orders

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// OrderStore is the persistence surface the orchestrator needs.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// Notifier announces order lifecycle events to the inventory side. Calls are
// best-effort: the orchestrator logs failures and never surfaces them.
type Notifier interface {
	OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
	OrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error
}

// Service runs the order placement saga: resolve the customer, check
// availability, reserve stock item by item, persist the order, then notify
// inventory. Persisting the order is the commit point; everything before it
// is rolled back on failure, everything after it is best-effort.
type Service struct {
	store       OrderStore
	customers   CustomerDirectory
	inventory   InventoryClient
	coordinator *ReservationCoordinator
	notifier    Notifier
	logger      *slog.Logger

	ordersPlaced        metric.Int64Counter
	reservationFailures metric.Int64Counter
}

func NewService(store OrderStore, customers CustomerDirectory, inventory InventoryClient,
	notifier Notifier, logger *slog.Logger) (*Service, error) {

	meter := otel.Meter("orders")

	ordersPlaced, err := meter.Int64Counter("orders.placed")
	if err != nil {
		return nil, err
	}

	reservationFailures, err := meter.Int64Counter("orders.reservation_failures")
	if err != nil {
		return nil, err
	}

	return &Service{
		store:               store,
		customers:           customers,
		inventory:           inventory,
		coordinator:         NewReservationCoordinator(inventory, logger),
		notifier:            notifier,
		logger:              logger,
		ordersPlaced:        ordersPlaced,
		reservationFailures: reservationFailures,
	}, nil
}

// CreateOrder places an order for the given customer and items. The unit
// prices stored with the order are the ones returned by the availability
// check, a point-in-time snapshot taken before reservation.
func (s *Service) CreateOrder(ctx context.Context, customerID string, items []domain.ItemRequest) (*domain.Order, error) {
	if _, err := s.customers.GetCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}

	availability, err := s.inventory.CheckAvailability(ctx, items)
	if err != nil {
		return nil, err
	}

	var unavailable []string
	for _, result := range availability {
		if !result.IsAvailable {
			unavailable = append(unavailable, result.ProductID)
		}
	}
	if len(unavailable) > 0 {
		return nil, &domain.UnavailableItemsError{ProductIDs: unavailable}
	}

	// Price snapshot: totals come from the check results, not a re-read.
	lineItems := make([]domain.OrderLineItem, len(items))
	var total int64
	for i, item := range items {
		price := availability[i].Price
		lineItems[i] = domain.OrderLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		}
		total += price * int64(item.Quantity)
	}

	if _, err := s.coordinator.ReserveAll(ctx, items); err != nil {
		s.reservationFailures.Add(ctx, 1)
		s.logger.Warn("reservation failed, order not created", "error", err, "customer_id", customerID)
		return nil, err
	}

	order := &domain.Order{
		CustomerID:  customerID,
		LineItems:   lineItems,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
	}

	if err := s.store.Create(ctx, order); err != nil {
		// The stock is already decremented; give it back before failing.
		s.coordinator.compensate(ctx, items)
		s.logger.Error("failed to persist order after reservation", "error", err, "customer_id", customerID)
		return nil, err
	}

	s.ordersPlaced.Add(ctx, 1)

	s.notify(ctx, order.ID, func() error {
		return s.notifier.OrderPlaced(ctx, domain.OrderPlacedEvent{
			Type:        domain.EventTypeOrderPlaced,
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			TotalAmount: order.TotalAmount,
			LineItems:   domain.NotificationLineItems(order.LineItems),
			Timestamp:   time.Now().UTC(),
		})
	})

	s.logger.Info("order created", "order_id", order.ID, "customer_id", customerID, "total", total)
	return order, nil
}

// UpdateStatus overwrites the order's status and fires a best-effort status
// notification. The status value must be a known one, but transitions are
// not restricted: any known status may overwrite any other.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	order, err := s.store.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, order.ID, func() error {
		return s.notifier.OrderStatusChanged(ctx, domain.OrderStatusChangedEvent{
			Type:        domain.EventTypeOrderStatusChanged,
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			TotalAmount: order.TotalAmount,
			LineItems:   domain.NotificationLineItems(order.LineItems),
			Status:      order.Status,
			Timestamp:   time.Now().UTC(),
		})
	})

	s.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

// notify runs a notification publish and swallows its error. Delivery is a
// side channel, not part of the transaction.
func (s *Service) notify(ctx context.Context, orderID string, publish func() error) {
	if s.notifier == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.Error("failed to publish order notification", "error", err, "order_id", orderID)
	}
}
