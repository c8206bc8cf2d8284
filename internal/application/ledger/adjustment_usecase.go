package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// AdjustmentUseCase registra un movimiento manual de stock (IN, OUT, ADJUSTMENT)
// de forma transaccional: contador agregado, lote (si aplica) y movimiento en el
// ledger se escriben todo-o-nada.
type AdjustmentUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	publisher   EventPublisher
	log         *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso. publisher puede ser nil.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		publisher:   publisher,
		log:         log,
	}
}

// CreateAdjustmentInput entrada para CreateAdjustment. Quantity siempre positiva:
// el tipo determina el signo (OUT = -Quantity; IN y ADJUSTMENT = +Quantity). Un
// ajuste hacia abajo se expresa con OUT.
type CreateAdjustmentInput struct {
	ProductID      string
	Type           string
	Quantity       int64
	Reason         string
	BatchID        string
	BatchNumber    string
	IdempotencyKey string
	ReferenceID    string
	ActorID        string
}

// CreateAdjustment valida la entrada, resuelve el lote (por id, por número, o
// creándolo en entradas con número nuevo), aplica el delta al contador agregado y
// al lote con incrementos atómicos, y escribe un movimiento con snapshots
// previous/new. Falla completa ante ErrInsufficientStock o ErrInsufficientBatchStock:
// ningún write parcial sobrevive.
func (uc *AdjustmentUseCase) CreateAdjustment(ctx context.Context, input CreateAdjustmentInput) (*entity.Movement, error) {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	delta := input.Quantity
	if input.Type == entity.MovementTypeOUT {
		delta = -input.Quantity
	}

	now := time.Now()
	var mov *entity.Movement

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
	) error {
		batch, err := resolveBatch(ctx, batchRepo, input, now)
		if err != nil {
			return err
		}

		newStock, err := productRepo.ApplyStockDelta(ctx, input.ProductID, delta)
		if err != nil {
			return err
		}
		var batchID *string
		if batch != nil {
			if _, err := batchRepo.ApplyQuantityDelta(ctx, batch.ID, delta); err != nil {
				return err
			}
			batchID = &batch.ID
		}

		notes := ""
		if input.IdempotencyKey != "" {
			notes = "IDEMP:" + input.IdempotencyKey
		}
		mov = &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     input.ProductID,
			Type:          input.Type,
			Quantity:      delta,
			Reason:        input.Reason,
			Reference:     input.ReferenceID,
			PreviousStock: newStock - delta,
			NewStock:      newStock,
			BatchID:       batchID,
			CreatedBy:     input.ActorID,
			Notes:         notes,
			CreatedAt:     now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.publishMovements(ctx, mov)
	return mov, nil
}

// resolveBatch aplica la resolución de lote del ajuste: batch_id explícito manda;
// si no, batch_number busca el lote del producto y en entradas (IN) lo crea con
// cantidad inicial cero. Sin lote resuelto y tipo distinto de IN, el movimiento
// sigue sin lote (producto sin trazabilidad por lotes).
func resolveBatch(ctx context.Context, batchRepo repository.BatchRepository, input CreateAdjustmentInput, now time.Time) (*entity.Batch, error) {
	if input.BatchID != "" {
		batch, err := batchRepo.GetByID(ctx, input.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil || batch.ProductID != input.ProductID {
			return nil, domain.ErrBatchNotFound
		}
		return batch, nil
	}
	if input.BatchNumber == "" {
		return nil, nil
	}
	batch, err := batchRepo.GetByProductAndNumber(ctx, input.ProductID, input.BatchNumber)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		return batch, nil
	}
	if input.Type != entity.MovementTypeIN {
		return nil, nil
	}
	batch = &entity.Batch{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		BatchNumber: input.BatchNumber,
		Quantity:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("crear lote %s: %w", input.BatchNumber, err)
	}
	return batch, nil
}

// publishMovements publica los movimientos confirmados. Best effort: un fallo se
// loguea en warn y jamás afecta la transacción ya commiteada.
func (uc *AdjustmentUseCase) publishMovements(ctx context.Context, movements ...*entity.Movement) {
	publishAll(ctx, uc.publisher, uc.log, movements)
}
