package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// Ensure Publisher implements ledger.EventPublisher.
var _ ledger.EventPublisher = (*Publisher)(nil)

const producerName = "ledger-lotes"

// Publisher publica eventos de movimiento a Kafka. Se invoca después del Commit:
// el caller trata los fallos como best-effort (log y seguir), nunca revierte la
// transacción ya confirmada.
type Publisher struct {
	w *kafka.Writer
}

// NewPublisher construye el publisher. Key por product_id para que los eventos de
// un mismo producto queden en la misma partición (orden relativo preservado).
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// PublishMovement serializa el movimiento en un Envelope y lo escribe al topic.
func (p *Publisher) PublishMovement(ctx context.Context, movement *entity.Movement) error {
	payload, err := json.Marshal(MovementRecordedPayload{
		MovementID:    movement.ID,
		ProductID:     movement.ProductID,
		Type:          movement.Type,
		Quantity:      movement.Quantity,
		Reason:        movement.Reason,
		Reference:     movement.Reference,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		BatchID:       movement.BatchID,
		CreatedAt:     movement.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	envelope, err := json.Marshal(Envelope{
		EventID:       uuid.New().String(),
		EventType:     EventMovementRecorded,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: movement.Reference,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(movement.ProductID),
		Value: envelope,
		Time:  time.Now(),
	})
}

// Close cierra el writer drenando lo pendiente.
func (p *Publisher) Close() error {
	return p.w.Close()
}
