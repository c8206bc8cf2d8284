package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste positivo
)

// Razones conocidas (Reason es texto libre, estas son las que el ledger interpreta).
const (
	ReasonOrderFulfillment  = "ORDER_FULFILLMENT"
	ReasonOrderRefund       = "ORDER_REFUND"
	ReasonOrderCancellation = "ORDER_CANCELLATION"
	ReasonBatchIntake       = "BATCH_INTAKE"
)

// Movement es el registro inmutable de un cambio de stock (ledger append-only).
// Nunca se actualiza ni se borra después de creado. Invariante de conservación:
// NewStock = PreviousStock + Quantity.
type Movement struct {
	ID                 string
	ProductID          string
	Type               string
	Quantity           int64  // con signo: positivo entrada, negativo salida
	Reason             string // texto libre; ver razones conocidas
	Reference          string // referencia externa, p. ej. ID de la orden
	PreviousStock      int64  // snapshot del contador agregado antes del movimiento
	NewStock           int64  // snapshot después del movimiento
	BatchID            *string
	CreatedBy          string
	Notes              string  // marcadores tipo IDEMP:<key> o REVERSAL_OF:<id>
	ReversesMovementID *string // FK explícita al movimiento que este reversa
	CreatedAt          time.Time
}

// IsReversal indica si el movimiento es una reversa (refund o cancelación).
func (m *Movement) IsReversal() bool {
	return m.ReversesMovementID != nil ||
		m.Reason == ReasonOrderRefund || m.Reason == ReasonOrderCancellation
}
