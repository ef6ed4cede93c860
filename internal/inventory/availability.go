package inventory

import (
	"context"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

type productLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

// AvailabilityChecker answers batch availability queries against the stock
// ledger. It is a pure read: a positive answer is a point-in-time signal
// only, and the actual reservation may still fail if stock changes before
// it runs.
type AvailabilityChecker struct {
	products productLookup
}

func NewAvailabilityChecker(products productLookup) *AvailabilityChecker {
	return &AvailabilityChecker{products: products}
}

// Check returns one record per requested item, in request order. Missing
// products come back unavailable with quantity zero and no price.
func (c *AvailabilityChecker) Check(ctx context.Context, items []domain.ItemRequest) ([]domain.ItemAvailability, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := c.products.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ItemAvailability, len(items))
	for i, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			results[i] = domain.ItemAvailability{ProductID: item.ProductID}
			continue
		}
		results[i] = domain.ItemAvailability{
			ProductID:         item.ProductID,
			IsAvailable:       product.Quantity >= item.Quantity,
			AvailableQuantity: product.Quantity,
			Price:             product.Price,
		}
	}

	return results, nil
}
