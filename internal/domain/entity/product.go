package entity

import "time"

// Product representa un producto o SKU. StockQuantity es el contador agregado de
// stock vendible y solo se modifica vía ApplyStockDelta (incremento atómico en BD);
// nunca con read-modify-write desde la aplicación.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	StockQuantity int64 // siempre >= 0 (constraint en BD)
	HasExpiry     bool  // true si el producto se controla por lotes con vencimiento
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
