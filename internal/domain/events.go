package domain

import "time"

// Notification event types. Every message published to the inventory side
// carries one of these tags so consumers can validate the payload shape at
// the boundary instead of inspecting an untyped bag.
const (
	EventTypeOrderPlaced        = "order_placed"
	EventTypeOrderStatusChanged = "order_status_changed"
)

// EventLineItem is the trimmed line-item shape carried in notifications:
// the inventory side only needs product and quantity.
type EventLineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderPlacedEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount int64           `json:"total_amount"`
	LineItems   []EventLineItem `json:"line_items"`
	Timestamp   time.Time       `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount int64           `json:"total_amount"`
	LineItems   []EventLineItem `json:"line_items"`
	Status      OrderStatus     `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NotificationLineItems converts an order's line items to the event shape.
func NotificationLineItems(items []OrderLineItem) []EventLineItem {
	out := make([]EventLineItem, len(items))
	for i, item := range items {
		out[i] = EventLineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return out
}
