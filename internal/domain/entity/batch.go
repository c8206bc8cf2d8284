package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote físico de un producto: cantidad restante y vencimiento.
// BatchNumber es único por producto. Un lote agotado (Quantity = 0) nunca se borra:
// queda para auditoría y puede reabastecerse con una nueva entrada.
type Batch struct {
	ID          string
	ProductID   string
	BatchNumber string
	Quantity    int64            // siempre >= 0 (constraint en BD)
	CostPrice   *decimal.Decimal // costo unitario, opcional
	ExpiryDate  *time.Time       // nil = sin vencimiento (se consume de último en FEFO)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Depleted indica si el lote está agotado.
func (b *Batch) Depleted() bool {
	return b.Quantity == 0
}
