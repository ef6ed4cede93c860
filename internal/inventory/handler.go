package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// StockStore is the ledger surface the HTTP handler needs.
type StockStore interface {
	Reserve(ctx context.Context, productID string, quantity int) (*domain.Product, error)
	Release(ctx context.Context, productID string, quantity int) (*domain.Product, error)
	Get(ctx context.Context, productID string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

type Handler struct {
	store   StockStore
	checker *AvailabilityChecker
	logger  *slog.Logger
}

func NewHandler(store StockStore, checker *AvailabilityChecker, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		checker: checker,
		logger:  logger,
	}
}

type createProductRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Quantity < 0 || req.Price < 0 {
		h.writeError(w, http.StatusBadRequest, "name required, quantity and price must be non-negative")
		return
	}

	product := &domain.Product{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
	}

	if err := h.store.Create(r.Context(), product); err != nil {
		h.logger.Error("failed to create product", "error", err, "name", req.Name)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "quantity", product.Quantity)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.store.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", "error", err, "product_id", productID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	var items []domain.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.checker.Check(r.Context(), items)
	if err != nil {
		h.logger.Error("availability check failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("availability checked", "items", len(items))
	h.writeJSON(w, http.StatusOK, results)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// insufficientStockResponse mirrors domain.InsufficientStockError on the
// wire so callers can reconstruct the typed error.
type insufficientStockResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (h *Handler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	h.handleAdjust(w, r, h.store.Reserve, "reserve")
}

func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	h.handleAdjust(w, r, h.store.Release, "release")
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request,
	adjust func(ctx context.Context, productID string, quantity int) (*domain.Product, error), op string) {

	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		h.writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	product, err := adjust(r.Context(), productID, req.Quantity)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			h.writeError(w, http.StatusNotFound, "product not found")
		case errors.As(err, &insufficient):
			h.writeJSON(w, http.StatusConflict, insufficientStockResponse{
				Error:     "insufficient stock",
				ProductID: insufficient.ProductID,
				Requested: insufficient.Requested,
				Available: insufficient.Available,
			})
		default:
			h.logger.Error("stock adjustment failed", "error", err, "op", op, "product_id", productID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.logger.Info("stock adjusted", "op", op, "product_id", productID,
		"quantity", req.Quantity, "remaining", product.Quantity)
	h.writeJSON(w, http.StatusOK, product)
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
