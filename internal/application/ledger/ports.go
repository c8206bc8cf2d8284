package ledger

import (
	"context"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad todo-o-nada para cada
// operación del ledger: si fn retorna error se hace Rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// EventPublisher publica eventos de movimiento a consumidores externos
// (notificaciones, analítica). Best effort: se invoca después del Commit y un
// fallo de publicación nunca revierte la mutación de stock ya confirmada.
type EventPublisher interface {
	PublishMovement(ctx context.Context, movement *entity.Movement) error
}

// Policy política de contabilidad por lotes para el fulfillment.
// strict: si los lotes no cubren el requerimiento, la orden completa falla.
// best-effort (default, comportamiento histórico): el remanente sale como
// movimiento sin lote para que el contador agregado siga siendo autoritativo.
type Policy struct {
	StrictBatchAccounting bool
}
