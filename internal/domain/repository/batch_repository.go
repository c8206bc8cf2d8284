package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// BatchFilter filtros para listar lotes.
type BatchFilter struct {
	ExpiryAfter  *time.Time
	ExpiryBefore *time.Time
	Search       string // busca por número de lote (ILIKE)
}

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	// Create inserta el lote. Devuelve domain.ErrDuplicateBatchNumber si ya existe
	// un lote con ese número para el producto (unique violation).
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetByProductAndNumber(ctx context.Context, productID, batchNumber string) (*entity.Batch, error)
	// ListAvailableForUpdate devuelve los lotes con cantidad > 0 del producto,
	// ordenados FEFO (vencimiento ascendente, NULLS LAST, luego created_at) y
	// bloqueados FOR UPDATE dentro de la tx del caller.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error)
	// ApplyQuantityDelta aplica delta (con signo) a la cantidad del lote de forma
	// atómica y devuelve el nuevo valor. Falla con domain.ErrInsufficientBatchStock
	// si el resultado sería negativo, o domain.ErrBatchNotFound si no existe.
	ApplyQuantityDelta(ctx context.Context, batchID string, delta int64) (int64, error)
	ListByProduct(ctx context.Context, productID string, filter BatchFilter, limit, offset int) ([]*entity.Batch, error)
	CountByProduct(ctx context.Context, productID string, filter BatchFilter) (int, error)
	// SumQuantityByProduct suma la cantidad restante de todos los lotes del producto.
	// En reposo debe igualar Product.StockQuantity para productos con vencimiento.
	SumQuantityByProduct(ctx context.Context, productID string) (int64, error)
}
