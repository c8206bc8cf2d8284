package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con
// pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, sku, name, stock_quantity, has_expiry, created_at, updated_at"

// Create persiste un producto. El stock inicia en el valor dado (normalmente 0).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, stock_quantity, has_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.StockQuantity, product.HasExpiry,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. nil sin error si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) dentro
// de la tx del caller.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.StockQuantity, &p.HasExpiry, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ApplyStockDelta aplica el delta al contador agregado en un solo UPDATE
// condicional: la verificación de no-negatividad y la mutación son la misma
// sentencia, sin ventana para lost updates entre transacciones concurrentes.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, productID string, delta int64) (int64, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING stock_quantity`
	var newStock int64
	err := r.q.QueryRow(ctx, query, productID, delta).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Cero filas: o el producto no existe, o el delta lo dejaría negativo.
			exists, exErr := r.exists(ctx, productID)
			if exErr != nil {
				return 0, exErr
			}
			if !exists {
				return 0, domain.ErrProductNotFound
			}
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return newStock, nil
}

func (r *ProductRepo) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}
