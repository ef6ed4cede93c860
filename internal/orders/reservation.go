package orders

import (
	"context"
	"log/slog"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// ReservationCoordinator reserves stock for an order's line items one at a
// time. When a reservation fails partway, it releases every already-reserved
// item in reverse order before reporting the failure, so a failed attempt
// leaves stock at its pre-attempt levels.
type ReservationCoordinator struct {
	inventory InventoryClient
	logger    *slog.Logger
}

func NewReservationCoordinator(inventory InventoryClient, logger *slog.Logger) *ReservationCoordinator {
	return &ReservationCoordinator{
		inventory: inventory,
		logger:    logger,
	}
}

// ReserveAll attempts to reserve every item. On success it returns the
// updated stock snapshots in item order. On failure it returns a
// *domain.ReservationError whose Compensated field reports whether every
// prior reservation was rolled back.
func (c *ReservationCoordinator) ReserveAll(ctx context.Context, items []domain.ItemRequest) ([]domain.Product, error) {
	reserved := make([]domain.ItemRequest, 0, len(items))
	snapshots := make([]domain.Product, 0, len(items))

	for _, item := range items {
		product, err := c.inventory.Reserve(ctx, item.ProductID, item.Quantity)
		if err != nil {
			compensated := c.compensate(ctx, reserved)
			return nil, &domain.ReservationError{
				ProductID:   item.ProductID,
				Reason:      err,
				Compensated: compensated,
			}
		}
		reserved = append(reserved, item)
		snapshots = append(snapshots, *product)
	}

	return snapshots, nil
}

// compensate releases the reserved items in reverse order. A release that
// fails leaves stock undercounted; that is logged as an inconsistency for
// out-of-band reconciliation rather than retried forever.
func (c *ReservationCoordinator) compensate(ctx context.Context, reserved []domain.ItemRequest) bool {
	compensated := true
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if _, err := c.inventory.Release(ctx, item.ProductID, item.Quantity); err != nil {
			compensated = false
			c.logger.Error("stock inconsistency: failed to release reserved stock",
				"error", err, "product_id", item.ProductID, "quantity", item.Quantity)
		}
	}
	return compensated
}
