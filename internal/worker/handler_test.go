package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

func newTestHandler(t *testing.T) *OrderEventHandler {
	t.Helper()

	handler, err := NewOrderEventHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return handler
}

func TestOrderEventHandler_HandleOrderPlaced(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("accepts a well-formed event", func(t *testing.T) {
		payload := []byte(`{
			"type": "order_placed",
			"order_id": "ord-1",
			"customer_id": "cust-1",
			"total_amount": 1500,
			"line_items": [{"product_id": "p1", "quantity": 3}]
		}`)
		if err := handler.HandleOrderPlaced(context.Background(), payload); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects malformed json as an invalid event", func(t *testing.T) {
		err := handler.HandleOrderPlaced(context.Background(), []byte(`{`))
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("rejects wrong event type as an invalid event", func(t *testing.T) {
		payload := []byte(`{"type": "order_status_changed", "order_id": "ord-1", "customer_id": "cust-1"}`)
		err := handler.HandleOrderPlaced(context.Background(), payload)
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("rejects missing identifiers as an invalid event", func(t *testing.T) {
		payload := []byte(`{"type": "order_placed", "order_id": "ord-1"}`)
		err := handler.HandleOrderPlaced(context.Background(), payload)
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})
}

func TestOrderEventHandler_HandleStatusChanged(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("accepts a well-formed event", func(t *testing.T) {
		payload := []byte(`{
			"type": "order_status_changed",
			"order_id": "ord-1",
			"customer_id": "cust-1",
			"status": "SHIPPED"
		}`)
		if err := handler.HandleStatusChanged(context.Background(), payload); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects wrong event type as an invalid event", func(t *testing.T) {
		payload := []byte(`{"type": "order_placed", "order_id": "ord-1", "status": "SHIPPED"}`)
		err := handler.HandleStatusChanged(context.Background(), payload)
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("rejects unknown status as an invalid event", func(t *testing.T) {
		payload := []byte(`{"type": "order_status_changed", "order_id": "ord-1", "status": "TELEPORTED"}`)
		err := handler.HandleStatusChanged(context.Background(), payload)
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("rejects missing order id as an invalid event", func(t *testing.T) {
		payload := []byte(`{"type": "order_status_changed", "status": "SHIPPED"}`)
		err := handler.HandleStatusChanged(context.Background(), payload)
		if !errors.Is(err, domain.ErrInvalidEvent) {
			t.Errorf("expected ErrInvalidEvent, got %v", err)
		}
	})
}

func TestDiscardInvalid(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("a malformed message is dropped so its offset commits", func(t *testing.T) {
		handler := newTestHandler(t)
		wrapped := DiscardInvalid(logger, handler.HandleOrderPlaced)

		if err := wrapped(context.Background(), []byte(`not json`)); err != nil {
			t.Errorf("expected malformed message to be discarded, got %v", err)
		}
	})

	t.Run("repeated delivery of the same bad message keeps draining", func(t *testing.T) {
		handler := newTestHandler(t)
		wrapped := DiscardInvalid(logger, handler.HandleStatusChanged)

		payload := []byte(`{"type": "order_status_changed", "status": "TELEPORTED"}`)
		for i := 0; i < 3; i++ {
			if err := wrapped(context.Background(), payload); err != nil {
				t.Fatalf("delivery %d: expected discard, got %v", i+1, err)
			}
		}
	})

	t.Run("other failures still propagate", func(t *testing.T) {
		transient := errors.New("downstream unavailable")
		wrapped := DiscardInvalid(logger, func(ctx context.Context, payload []byte) error {
			return transient
		})

		if err := wrapped(context.Background(), []byte(`{}`)); !errors.Is(err, transient) {
			t.Errorf("expected transient error to propagate, got %v", err)
		}
	})

	t.Run("valid messages pass through untouched", func(t *testing.T) {
		handler := newTestHandler(t)
		wrapped := DiscardInvalid(logger, handler.HandleOrderPlaced)

		payload := []byte(`{"type": "order_placed", "order_id": "ord-1", "customer_id": "cust-1"}`)
		if err := wrapped(context.Background(), payload); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
