package kafka

import (
	"encoding/json"
	"time"
)

// Tipos de evento publicados por el ledger.
const (
	EventMovementRecorded = "MovementRecorded"
)

// Envelope sobre común de los eventos publicados.
type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // MovementRecorded
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // "ledger-lotes"
	CorrelationID string          `json:"correlation_id,omitempty"` // referencia del movimiento (orden)
	Payload       json.RawMessage `json:"payload"`
}

// MovementRecordedPayload payload del evento de movimiento.
type MovementRecordedPayload struct {
	MovementID    string  `json:"movement_id"`
	ProductID     string  `json:"product_id"`
	Type          string  `json:"type"`
	Quantity      int64   `json:"quantity"`
	Reason        string  `json:"reason,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	PreviousStock int64   `json:"previous_stock"`
	NewStock      int64   `json:"new_stock"`
	BatchID       *string `json:"batch_id,omitempty"`
	CreatedAt     string  `json:"created_at"` // RFC3339
}
