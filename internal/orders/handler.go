package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

type Handler struct {
	service     *Service
	repo        *OrderRepository
	customers   *CustomerRepository
	idempotency IdempotencyStore
	logger      *slog.Logger
}

// NewHandler wires the HTTP surface of the orders service. idempotency may
// be nil, in which case Idempotency-Key headers are ignored.
func NewHandler(service *Service, repo *OrderRepository, customers *CustomerRepository,
	idempotency IdempotencyStore, logger *slog.Logger) *Handler {

	return &Handler{
		service:     service,
		repo:        repo,
		customers:   customers,
		idempotency: idempotency,
		logger:      logger,
	}
}

type createOrderRequest struct {
	CustomerID string               `json:"customer_id"`
	Items      []domain.ItemRequest `json:"items"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CustomerID == "" || len(req.Items) == 0 {
		h.writeError(w, http.StatusBadRequest, "customer_id and items are required")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			h.writeError(w, http.StatusBadRequest, "each item needs a product_id and a positive quantity")
			return
		}
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" && h.idempotency != nil {
		ok, err := h.idempotency.Claim(r.Context(), key)
		if err != nil {
			h.logger.Error("idempotency check failed", "error", err, "key", key)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !ok {
			h.writeError(w, http.StatusConflict, "duplicate request")
			return
		}
	}

	order, err := h.service.CreateOrder(r.Context(), req.CustomerID, req.Items)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			h.writeError(w, http.StatusBadRequest, "invalid order status")
		case errors.Is(err, domain.ErrOrderNotFound):
			h.writeError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("failed to update order status", "error", err, "order_id", id)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		CustomerID: r.URL.Query().Get("customer_id"),
		Status:     domain.OrderStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid order status")
		return
	}
	if page := r.URL.Query().Get("page"); page != "" {
		filter.Page, _ = strconv.Atoi(page)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}

	orders, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	customer := &domain.Customer{Name: req.Name, Email: req.Email}
	if err := h.customers.Create(r.Context(), customer); err != nil {
		h.logger.Error("failed to create customer", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("customer created", "customer_id", customer.ID)
	h.writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	customer, err := h.customers.GetCustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			h.writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		h.logger.Error("failed to get customer", "error", err, "customer_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if customers == nil {
		customers = []domain.Customer{}
	}
	h.writeJSON(w, http.StatusOK, customers)
}

// writeOrderError maps saga failures to HTTP responses. User-correctable
// failures carry their details; everything else collapses to a generic
// message while the full error is logged.
func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	var (
		unavailable  *domain.UnavailableItemsError
		reservation  *domain.ReservationError
		insufficient *domain.InsufficientStockError
	)

	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		h.writeError(w, http.StatusNotFound, "customer not found")
	case errors.As(err, &unavailable):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":       "unavailable items",
			"product_ids": unavailable.ProductIDs,
		})
	case errors.As(err, &reservation):
		body := map[string]any{
			"error":      "reservation failed",
			"product_id": reservation.ProductID,
		}
		if errors.As(reservation.Reason, &insufficient) {
			body["requested"] = insufficient.Requested
			body["available"] = insufficient.Available
		}
		h.writeJSON(w, http.StatusConflict, body)
	default:
		h.logger.Error("order creation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "could not complete operation")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
