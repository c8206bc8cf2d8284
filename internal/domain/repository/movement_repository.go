package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	Types     []string // IN, OUT, ADJUSTMENT
	DateFrom  *time.Time
	DateTo    *time.Time
	CreatedBy string
}

// MovementRepository define el puerto del ledger append-only. Solo inserta y
// consulta: los movimientos jamás se actualizan ni se borran.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ExistsByReferenceAndReason es la guarda de idempotencia gruesa: debe
	// ejecutarse dentro de la misma tx que los writes que protege.
	ExistsByReferenceAndReason(ctx context.Context, reference, reason string) (bool, error)
	// ExistsReversalForReference verifica si ya hay alguna reversa (IN con razón
	// ORDER_REFUND u ORDER_CANCELLATION) para la referencia.
	ExistsReversalForReference(ctx context.Context, reference string) (bool, error)
	// ExistsReversalOf es la guarda fina por movimiento: busca una reversa cuyo
	// reverses_movement_id apunte al movimiento original.
	ExistsReversalOf(ctx context.Context, movementID string) (bool, error)
	// ListByReferenceAndReason devuelve los movimientos de una referencia con esa
	// razón, en orden de creación ascendente (estable por id).
	ListByReferenceAndReason(ctx context.Context, reference, reason string) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string, filter MovementFilter, limit, offset int) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string, filter MovementFilter) (int, error)
}
