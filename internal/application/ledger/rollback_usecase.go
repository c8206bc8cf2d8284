package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// RollbackReason motivo del rollback de una orden.
type RollbackReason string

const (
	RollbackReasonRefund    RollbackReason = "REFUND"
	RollbackReasonCancelled RollbackReason = "CANCELLED"
)

// movementReason traduce el motivo al reason que queda en el movimiento de reversa.
func (r RollbackReason) movementReason() (string, bool) {
	switch r {
	case RollbackReasonRefund:
		return entity.ReasonOrderRefund, true
	case RollbackReasonCancelled:
		return entity.ReasonOrderCancellation, true
	}
	return "", false
}

// RollbackUseCase reversa los movimientos OUT de un fulfillment previo (refund o
// cancelación), acreditando los mismos lotes, movimiento por movimiento. Doble
// guarda de idempotencia: gruesa por referencia y fina por movimiento original
// (reverses_movement_id), lo que hace seguro el reintento parcial si un rollback
// anterior murió a mitad de camino.
type RollbackUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	log       *logger.Logger
}

// NewRollbackUseCase construye el caso de uso. publisher puede ser nil.
func NewRollbackUseCase(txRunner TxRunner, publisher EventPublisher, log *logger.Logger) *RollbackUseCase {
	return &RollbackUseCase{txRunner: txRunner, publisher: publisher, log: log}
}

// RollbackResult resultado de RollbackOrder.
type RollbackResult struct {
	Success       bool
	Skipped       bool
	ReversedCount int
}

// RollbackOrder reversa las salidas de la orden. Para cada movimiento original no
// reversado: invierte la cantidad, acredita el lote (si lo hubo), aplica el
// incremento atómico al contador agregado y escribe un movimiento IN enlazado vía
// reverses_movement_id (y el marcador REVERSAL_OF en notes para lectura de
// auditoría). Sin movimientos que reversar, o con reversa previa, retorna Skipped.
func (uc *RollbackUseCase) RollbackOrder(ctx context.Context, orderID string, reason RollbackReason, actorID string) (RollbackResult, error) {
	reversalReason, ok := reason.movementReason()
	if !ok || orderID == "" {
		return RollbackResult{}, domain.ErrInvalidInput
	}

	now := time.Now()
	var created []*entity.Movement
	skipped := false

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		// Guarda gruesa: ya existe alguna reversa para esta referencia.
		reversed, err := movRepo.ExistsReversalForReference(ctx, orderID)
		if err != nil {
			return err
		}
		if reversed {
			skipped = true
			return nil
		}

		originals, err := movRepo.ListByReferenceAndReason(ctx, orderID, entity.ReasonOrderFulfillment)
		if err != nil {
			return err
		}
		if len(originals) == 0 {
			// Nada que reversar (la orden nunca se despachó).
			skipped = true
			return nil
		}

		// Agrupar por producto preservando el orden de primera aparición y, dentro
		// de cada producto, el orden de creación de los movimientos originales.
		byProduct := make(map[string][]*entity.Movement)
		var productOrder []string
		for _, mov := range originals {
			if _, seen := byProduct[mov.ProductID]; !seen {
				productOrder = append(productOrder, mov.ProductID)
			}
			byProduct[mov.ProductID] = append(byProduct[mov.ProductID], mov)
		}

		for _, productID := range productOrder {
			for _, original := range byProduct[productID] {
				// Guarda fina: soporta reintentos tras un rollback interrumpido.
				done, err := movRepo.ExistsReversalOf(ctx, original.ID)
				if err != nil {
					return err
				}
				if done {
					continue
				}

				qty := -original.Quantity // los OUT llevan cantidad negativa
				if original.BatchID != nil {
					if _, err := batchRepo.ApplyQuantityDelta(ctx, *original.BatchID, qty); err != nil {
						return err
					}
				}
				newStock, err := productRepo.ApplyStockDelta(ctx, productID, qty)
				if err != nil {
					return err
				}

				originalID := original.ID
				reversal := &entity.Movement{
					ID:                 uuid.New().String(),
					ProductID:          productID,
					Type:               entity.MovementTypeIN,
					Quantity:           qty,
					Reason:             reversalReason,
					Reference:          orderID,
					PreviousStock:      newStock - qty,
					NewStock:           newStock,
					BatchID:            original.BatchID,
					CreatedBy:          actorID,
					Notes:              "REVERSAL_OF:" + originalID,
					ReversesMovementID: &originalID,
					CreatedAt:          now,
				}
				if err := movRepo.Create(ctx, reversal); err != nil {
					return err
				}
				created = append(created, reversal)
			}
		}
		return nil
	})
	if err != nil {
		return RollbackResult{}, err
	}
	if skipped {
		return RollbackResult{Success: true, Skipped: true}, nil
	}

	publishAll(ctx, uc.publisher, uc.log, created)
	return RollbackResult{Success: true, ReversedCount: len(created)}, nil
}
