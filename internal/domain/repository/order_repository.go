package repository

import (
	"context"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// OrderRepository puerto de lectura del agregado de orden (lo produce el
// subsistema de órdenes; el ledger solo lo consume).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE). Serializa el
	// check-then-act de idempotencia: dos llamadas concurrentes para la misma orden
	// no pueden pasar ambas la guarda.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
}
