package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// BatchUseCase crea lotes explícitamente (alternativa a la creación implícita por
// primera entrada con número nuevo en CreateAdjustment).
type BatchUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	publisher   EventPublisher
	log         *logger.Logger
}

// NewBatchUseCase construye el caso de uso. publisher puede ser nil.
func NewBatchUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		publisher:   publisher,
		log:         log,
	}
}

// CreateBatchInput entrada para CreateBatch. Quantity >= 0 (default 0).
type CreateBatchInput struct {
	ProductID   string
	BatchNumber string
	Quantity    int64
	CostPrice   *decimal.Decimal
	ExpiryDate  *time.Time
	ActorID     string
}

// CreateBatch crea el lote. Si la cantidad inicial es mayor a cero, en la misma
// transacción incrementa el contador agregado y registra el movimiento IN
// correspondiente (razón BATCH_INTAKE): de lo contrario la suma de lotes quedaría
// desfasada del contador. Número duplicado para el producto ⇒ ErrDuplicateBatchNumber.
func (uc *BatchUseCase) CreateBatch(ctx context.Context, input CreateBatchInput) (*entity.Batch, error) {
	if input.ProductID == "" || input.BatchNumber == "" || input.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now()
	batch := &entity.Batch{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		BatchNumber: input.BatchNumber,
		Quantity:    input.Quantity,
		CostPrice:   input.CostPrice,
		ExpiryDate:  input.ExpiryDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var mov *entity.Movement

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
	) error {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		if input.Quantity == 0 {
			return nil
		}
		newStock, err := productRepo.ApplyStockDelta(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     input.ProductID,
			Type:          entity.MovementTypeIN,
			Quantity:      input.Quantity,
			Reason:        entity.ReasonBatchIntake,
			PreviousStock: newStock - input.Quantity,
			NewStock:      newStock,
			BatchID:       &batch.ID,
			CreatedBy:     input.ActorID,
			CreatedAt:     now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	if mov != nil {
		publishAll(ctx, uc.publisher, uc.log, []*entity.Movement{mov})
	}
	return batch, nil
}
