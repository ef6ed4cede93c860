package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/will-me-me/tripilyInventory-backend/internal/domain"
)

// StockLedger owns the products table. All quantity mutations go through
// Reserve and Release; each runs as a single transaction that locks the row
// before reading it, so two concurrent reservations on the same product are
// strictly serialized and the quantity can never go negative.
type StockLedger struct {
	db *sql.DB
}

func NewStockLedger(db *sql.DB) *StockLedger {
	return &StockLedger{db: db}
}

// Reserve atomically decrements the product's quantity by the requested
// amount. It returns domain.ErrProductNotFound when the product does not
// exist and *domain.InsufficientStockError when the request exceeds the
// current quantity; in both cases stock is left unchanged.
func (l *StockLedger) Reserve(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	return l.adjust(ctx, productID, -quantity)
}

// Release is the compensating counterpart of Reserve: it adds the quantity
// back. It shares Reserve's locking discipline so a release cannot race a
// concurrent reservation.
func (l *StockLedger) Release(ctx context.Context, productID string, quantity int) (*domain.Product, error) {
	return l.adjust(ctx, productID, quantity)
}

func (l *StockLedger) adjust(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	product := &domain.Product{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, quantity, price, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&product.ID, &product.Name, &product.Quantity, &product.Price,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	newQuantity := product.Quantity + delta
	if newQuantity < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: -delta,
			Available: product.Quantity,
		}
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE products SET quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING quantity, updated_at
	`, productID, newQuantity).Scan(&product.Quantity, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return product, nil
}

// Lookup batch-fetches products by ID without locking. Missing IDs are
// simply absent from the result map.
func (l *StockLedger) Lookup(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, quantity, price, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (l *StockLedger) Get(ctx context.Context, productID string) (*domain.Product, error) {
	product := &domain.Product{}

	err := l.db.QueryRowContext(ctx, `
		SELECT id, name, quantity, price, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productID).Scan(&product.ID, &product.Name, &product.Quantity, &product.Price,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (l *StockLedger) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, quantity, price, created_at, updated_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (l *StockLedger) Create(ctx context.Context, product *domain.Product) error {
	product.ID = uuid.New().String()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO products (id, name, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, product.ID, product.Name, product.Quantity, product.Price, now)
	return err
}
