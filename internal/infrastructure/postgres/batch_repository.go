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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool
// o tx). Los lotes nunca se borran: un lote agotado queda con cantidad 0.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = "id, product_id, batch_number, quantity, cost_price, expiry_date, created_at, updated_at"

// Create persiste un lote. Número repetido para el mismo producto (unique en
// (product_id, batch_number)) ⇒ ErrDuplicateBatchNumber.
func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, product_id, batch_number, quantity, cost_price, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		batch.ID, batch.ProductID, batch.BatchNumber, batch.Quantity,
		batch.CostPrice, batch.ExpiryDate, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchNumber
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. nil sin error si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "SELECT "+batchColumns+" FROM batches WHERE id = $1", id)
}

// GetByProductAndNumber obtiene un lote por producto y número.
func (r *BatchRepo) GetByProductAndNumber(ctx context.Context, productID, batchNumber string) (*entity.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches WHERE product_id = $1 AND batch_number = $2"
	return r.getOne(ctx, query, productID, batchNumber)
}

func (r *BatchRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Batch, error) {
	var b entity.Batch
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.Quantity,
		&b.CostPrice, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListAvailableForUpdate devuelve los lotes con cantidad > 0 del producto en
// orden FEFO (vencimiento ascendente con NULLS LAST, luego created_at, luego id)
// y los bloquea FOR UPDATE dentro de la tx del caller.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND quantity > 0
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC, id ASC
		FOR UPDATE`
	return r.list(ctx, query, productID)
}

// ApplyQuantityDelta aplica el delta a la cantidad del lote con el mismo UPDATE
// condicional atómico que el contador de producto.
func (r *BatchRepo) ApplyQuantityDelta(ctx context.Context, batchID string, delta int64) (int64, error) {
	query := `
		UPDATE batches
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`
	var newQty int64
	err := r.q.QueryRow(ctx, query, batchID, delta).Scan(&newQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			exErr := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM batches WHERE id = $1)", batchID).Scan(&exists)
			if exErr != nil {
				return 0, fmt.Errorf("batch exists: %w", exErr)
			}
			if !exists {
				return 0, domain.ErrBatchNotFound
			}
			return 0, domain.ErrInsufficientBatchStock
		}
		return 0, fmt.Errorf("apply batch delta: %w", err)
	}
	return newQty, nil
}

// ListByProduct lista lotes de un producto con filtros y paginación.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string, filter repository.BatchFilter, limit, offset int) ([]*entity.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches WHERE product_id = $1"
	query, args := appendBatchFilter(query, []any{productID}, filter)
	query += fmt.Sprintf(" ORDER BY expiry_date ASC NULLS LAST, created_at ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// CountByProduct cuenta los lotes que matchean el filtro.
func (r *BatchRepo) CountByProduct(ctx context.Context, productID string, filter repository.BatchFilter) (int, error) {
	query := "SELECT count(*) FROM batches WHERE product_id = $1"
	query, args := appendBatchFilter(query, []any{productID}, filter)
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return total, nil
}

// SumQuantityByProduct suma la cantidad restante de todos los lotes del producto.
func (r *BatchRepo) SumQuantityByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM batches WHERE product_id = $1", productID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum batch quantity: %w", err)
	}
	return sum, nil
}

func appendBatchFilter(query string, args []any, filter repository.BatchFilter) (string, []any) {
	if filter.ExpiryAfter != nil {
		args = append(args, *filter.ExpiryAfter)
		query += fmt.Sprintf(" AND expiry_date >= $%d", len(args))
	}
	if filter.ExpiryBefore != nil {
		args = append(args, *filter.ExpiryBefore)
		query += fmt.Sprintf(" AND expiry_date <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND batch_number ILIKE $%d", len(args))
	}
	return query, args
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(
			&b.ID, &b.ProductID, &b.BatchNumber, &b.Quantity,
			&b.CostPrice, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
