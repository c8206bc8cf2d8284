package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/inventory"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// FulfillmentUseCase consume stock para todas las líneas de una orden en una sola
// transacción, repartiendo por lotes con FEFO. Idempotente por orden: la guarda
// por referencia corre dentro de la misma tx y la fila de la orden se bloquea
// FOR UPDATE, así dos llamadas concurrentes para la misma orden no pueden pasar
// ambas el check-then-act.
type FulfillmentUseCase struct {
	txRunner  TxRunner
	policy    Policy
	publisher EventPublisher
	log       *logger.Logger
}

// NewFulfillmentUseCase construye el caso de uso. publisher puede ser nil.
func NewFulfillmentUseCase(txRunner TxRunner, policy Policy, publisher EventPublisher, log *logger.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		txRunner:  txRunner,
		policy:    policy,
		publisher: publisher,
		log:       log,
	}
}

// FulfillResult resultado de FulfillOrder.
type FulfillResult struct {
	Success bool
	Skipped bool
}

// FulfillOrder descuenta el stock de cada línea de la orden: un movimiento OUT por
// lote consumido (FEFO) más uno sin lote para el remanente (o para toda la cantidad
// en productos sin vencimiento), con snapshots previous/new en cadena, y un único
// decremento atómico del contador agregado por línea. Si cualquier línea no tiene
// stock suficiente, la orden completa se aborta sin writes parciales. Una orden ya
// procesada retorna Skipped sin efectos.
func (uc *FulfillmentUseCase) FulfillOrder(ctx context.Context, orderID string) (FulfillResult, error) {
	if orderID == "" {
		return FulfillResult{}, domain.ErrInvalidInput
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

		// Guarda de idempotencia: misma tx que los writes que protege.
		exists, err := movRepo.ExistsByReferenceAndReason(ctx, orderID, entity.ReasonOrderFulfillment)
		if err != nil {
			return err
		}
		if exists {
			skipped = true
			return nil
		}

		for _, item := range order.Items {
			if item.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			movs, err := uc.fulfillItem(ctx, movRepo, batchRepo, productRepo, order, item, now)
			if err != nil {
				return err
			}
			created = append(created, movs...)
		}
		return nil
	})
	if err != nil {
		return FulfillResult{}, err
	}
	if skipped {
		return FulfillResult{Success: true, Skipped: true}, nil
	}

	publishAll(ctx, uc.publisher, uc.log, created)
	return FulfillResult{Success: true}, nil
}

// fulfillItem procesa una línea: verifica stock agregado, reparte por lotes si el
// producto controla vencimiento, escribe los movimientos OUT con contador en cadena
// y aplica el decremento agregado una sola vez al final.
func (uc *FulfillmentUseCase) fulfillItem(
	ctx context.Context,
	movRepo repository.MovementRepository,
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
	order *entity.Order,
	item entity.OrderItem,
	now time.Time,
) ([]*entity.Movement, error) {
	// FOR UPDATE: estabiliza el snapshot y el conjunto de lotes de este producto.
	product, err := productRepo.GetForUpdate(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.StockQuantity < item.Quantity {
		return nil, fmt.Errorf("producto %s: %w", product.SKU, domain.ErrInsufficientStock)
	}

	running := product.StockQuantity
	var movements []*entity.Movement

	appendOUT := func(qty int64, batchID *string) {
		movements = append(movements, &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     item.ProductID,
			Type:          entity.MovementTypeOUT,
			Quantity:      -qty,
			Reason:        entity.ReasonOrderFulfillment,
			Reference:     order.ID,
			PreviousStock: running,
			NewStock:      running - qty,
			BatchID:       batchID,
			CreatedAt:     now,
		})
		running -= qty
	}

	remainder := item.Quantity
	if product.HasExpiry {
		batches, err := batchRepo.ListAvailableForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		alloc := inventory.AllocateFEFO(batches, item.Quantity)
		if !alloc.FullyCovered() && uc.policy.StrictBatchAccounting {
			return nil, fmt.Errorf("producto %s: %w", product.SKU, domain.ErrInsufficientBatchStock)
		}
		for _, take := range alloc.Takes {
			if _, err := batchRepo.ApplyQuantityDelta(ctx, take.BatchID, -take.Take); err != nil {
				return nil, err
			}
			batchID := take.BatchID
			appendOUT(take.Take, &batchID)
		}
		remainder = alloc.Remainder
	}
	// Remanente sin lote (o la cantidad completa en productos sin vencimiento):
	// el contador agregado sigue siendo autoritativo aunque falten datos de lote.
	if remainder > 0 {
		appendOUT(remainder, nil)
	}

	newStock, err := productRepo.ApplyStockDelta(ctx, item.ProductID, -item.Quantity)
	if err != nil {
		return nil, err
	}
	if newStock != running {
		// La fila está bloqueada FOR UPDATE, así que esto solo puede ser un bug.
		return nil, fmt.Errorf("contador inconsistente para %s: esperado %d, quedó %d", item.ProductID, running, newStock)
	}

	for _, mov := range movements {
		if err := movRepo.Create(ctx, mov); err != nil {
			return nil, err
		}
	}
	return movements, nil
}
