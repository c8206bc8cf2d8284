package entity

import "time"

// Order es el agregado de orden que consume el ledger. Lo produce el subsistema
// de órdenes; aquí solo se lee (id, número y líneas con producto y cantidad).
type Order struct {
	ID          string
	OrderNumber string
	Items       []OrderItem
	CreatedAt   time.Time
}

// OrderItem línea de una orden.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
}
