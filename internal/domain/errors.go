package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrInvalidEvent marks a consumed message as permanently malformed.
	// Redelivery cannot fix it, so consumers drop it instead of retrying.
	ErrInvalidEvent = errors.New("invalid event")
)

// InsufficientStockError is returned when a reservation asks for more units
// than the product currently has. It carries the requested-vs-available
// quantities so callers can report them to the user.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// UnavailableItemsError is returned by the availability pre-check when one or
// more requested items cannot be fulfilled. No stock has been mutated at
// that point.
type UnavailableItemsError struct {
	ProductIDs []string
}

func (e *UnavailableItemsError) Error() string {
	return "unavailable items: " + strings.Join(e.ProductIDs, ", ")
}

// ReservationError wraps the failure that stopped a multi-item reservation.
// Compensated reports whether every previously reserved item was released;
// when false, stock is undercounted and needs reconciliation.
type ReservationError struct {
	ProductID   string
	Reason      error
	Compensated bool
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("reservation failed for product %s: %v", e.ProductID, e.Reason)
}

func (e *ReservationError) Unwrap() error {
	return e.Reason
}
