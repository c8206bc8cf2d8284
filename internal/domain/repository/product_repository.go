package repository

import (
	"context"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// ApplyStockDelta es el único camino para mutar el contador agregado: debe ser un
// incremento/decremento atómico en la capa de almacenamiento (UPDATE condicional),
// nunca un read-modify-write, para evitar lost updates bajo concurrencia.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de la tx
	// del caller, para estabilizar snapshots y el conjunto de lotes durante un fulfillment.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// ApplyStockDelta aplica delta (con signo) al contador agregado y devuelve el
	// nuevo valor. Falla con domain.ErrInsufficientStock si el resultado sería
	// negativo, o domain.ErrProductNotFound si el producto no existe.
	ApplyStockDelta(ctx context.Context, productID string, delta int64) (int64, error)
}
