package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

func newBatchUC(s *memStore, publisher ledger.EventPublisher) *ledger.BatchUseCase {
	return ledger.NewBatchUseCase(&fakeTxRunner{s: s}, &memProductRepo{s: s}, publisher, testLogger())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateBatch
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: lote con cantidad inicial → sube el contador y registra el IN de intake.
func TestCreateBatch_CantidadInicialGeneraIntake(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 2, true)
	pub := &capturePublisher{}
	uc := newBatchUC(s, pub)

	price := decimal.NewFromFloat(12.50)
	expiry := fixedTime(2026, 3, 15)
	batch, err := uc.CreateBatch(context.Background(), ledger.CreateBatchInput{
		ProductID:   "p1",
		BatchNumber: "L-2026-007",
		Quantity:    10,
		CostPrice:   &price,
		ExpiryDate:  &expiry,
		ActorID:     "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), batch.Quantity)
	assert.Equal(t, int64(12), s.products["p1"].StockQuantity)

	require.Len(t, s.movements, 1)
	mov := s.movements[0]
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, entity.ReasonBatchIntake, mov.Reason)
	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, int64(2), mov.PreviousStock)
	assert.Equal(t, int64(12), mov.NewStock)
	assert.Equal(t, batch.ID, *mov.BatchID)
	assert.Len(t, pub.published, 1)
}

// Caso 2: lote con cantidad cero → sin movimiento y sin tocar el contador.
func TestCreateBatch_CantidadCeroNoMueveStock(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 5, true)
	uc := newBatchUC(s, nil)

	batch, err := uc.CreateBatch(context.Background(), ledger.CreateBatchInput{
		ProductID:   "p1",
		BatchNumber: "L-VACIO",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), batch.Quantity)
	assert.Equal(t, int64(5), s.products["p1"].StockQuantity)
	assert.Empty(t, s.movements)
}

// Caso 3: número duplicado para el mismo producto → ErrDuplicateBatchNumber.
func TestCreateBatch_NumeroDuplicadoRechazado(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 0, true)
	seedBatch(s, "b1", "p1", "L-001", 3, nil, fixedTime(2026, 1, 1))
	uc := newBatchUC(s, nil)

	_, err := uc.CreateBatch(context.Background(), ledger.CreateBatchInput{
		ProductID:   "p1",
		BatchNumber: "L-001",
		Quantity:    5,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateBatchNumber)

	assert.Equal(t, int64(0), s.products["p1"].StockQuantity, "el alta fallida no debe mover stock")
	assert.Empty(t, s.movements)
}

// Caso 4: validaciones de entrada.
func TestCreateBatch_EntradaInvalida(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 0, true)
	uc := newBatchUC(s, nil)
	ctx := context.Background()

	_, err := uc.CreateBatch(ctx, ledger.CreateBatchInput{ProductID: "p1", BatchNumber: "", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin número de lote")

	_, err = uc.CreateBatch(ctx, ledger.CreateBatchInput{ProductID: "p1", BatchNumber: "L-X", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	neg := decimal.NewFromInt(-1)
	_, err = uc.CreateBatch(ctx, ledger.CreateBatchInput{ProductID: "p1", BatchNumber: "L-X", CostPrice: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")

	_, err = uc.CreateBatch(ctx, ledger.CreateBatchInput{ProductID: "ghost", BatchNumber: "L-X"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
