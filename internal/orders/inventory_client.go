package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// InventoryClient is the orders service's view of the inventory service:
// synchronous request/response calls that either return a result or a
// definitive failure.
type InventoryClient interface {
	CheckAvailability(ctx context.Context, items []domain.ItemRequest) ([]domain.ItemAvailability, error)
	Reserve(ctx context.Context, productID string, quantity int) (*domain.Product, error)
	Release(ctx context.Context, productID string, quantity int) (*domain.Product, error)
}

// HTTPInventoryClient talks to the inventory service over its HTTP API.
// Stock-related failures come back as the same typed errors the ledger
// raises, reconstructed from the response body.
type HTTPInventoryClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPInventoryClient(baseURL string, client *http.Client) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		baseURL: baseURL,
		client:  client,
	}
}

func (c *HTTPInventoryClient) CheckAvailability(ctx context.Context, items []domain.ItemRequest) ([]domain.ItemAvailability, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal availability request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned status %d for availability check", resp.StatusCode)
	}

	var results []domain.ItemAvailability
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}

	return results, nil
}

func (c *HTTPInventoryClient) Reserve(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	return c.adjust(ctx, productID, quantity, "reserve")
}

func (c *HTTPInventoryClient) Release(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	return c.adjust(ctx, productID, quantity, "release")
}

func (c *HTTPInventoryClient) adjust(ctx context.Context, productID string, quantity int, op string) (*domain.Product, error) {
	data, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", op, err)
	}

	url := fmt.Sprintf("%s/products/%s/%s", c.baseURL, productID, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s stock for product %s: %w", op, productID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	case http.StatusConflict:
		var detail struct {
			ProductID string `json:"product_id"`
			Requested int    `json:"requested"`
			Available int    `json:"available"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil || detail.ProductID == "" {
			return nil, &domain.InsufficientStockError{ProductID: productID, Requested: quantity}
		}
		return nil, &domain.InsufficientStockError{
			ProductID: detail.ProductID,
			Requested: detail.Requested,
			Available: detail.Available,
		}
	default:
		return nil, fmt.Errorf("inventory service returned status %d for %s of product %s",
			resp.StatusCode, op, productID)
	}

	product := &domain.Product{}
	if err := json.NewDecoder(resp.Body).Decode(product); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}

	return product, nil
}
