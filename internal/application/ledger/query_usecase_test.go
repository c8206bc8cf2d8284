package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ledger-lotes/internal/application/dto"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

func newQueryUC(s *memStore) *ledger.QueryUseCase {
	return ledger.NewQueryUseCase(&memProductRepo{s: s}, &memBatchRepo{s: s}, &memMovementRepo{s: s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de consultas
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: vista de consistencia en reposo tras un ciclo despachar/reversar.
func TestGetProductStock_ConsistenteTrasCicloCompleto(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 9, true)
	seedBatch(s, "b1", "p1", "L-001", 5, datePtr(fixedTime(2026, 1, 1)), fixedTime(2025, 6, 1))
	seedBatch(s, "b2", "p1", "L-002", 4, datePtr(fixedTime(2026, 2, 1)), fixedTime(2025, 6, 2))
	seedOrder(s, "o1", "ORD-001", entity.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 7})
	fulfillSeededOrder(t, s, "o1")

	uc := newQueryUC(s)
	ctx := context.Background()

	view, err := uc.GetProductStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.StockQuantity)
	assert.Equal(t, int64(2), view.BatchSum)
	assert.True(t, view.Consistent)

	_, err = newRollbackUC(s, nil).RollbackOrder(ctx, "o1", ledger.RollbackReasonRefund, "")
	require.NoError(t, err)

	view, err = uc.GetProductStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), view.StockQuantity)
	assert.Equal(t, int64(9), view.BatchSum)
	assert.True(t, view.Consistent)
}

// Caso 1b: producto sin vencimiento siempre reporta consistente aunque no
// tenga lotes.
func TestGetProductStock_SinVencimientoSiempreConsistente(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 42, false)
	uc := newQueryUC(s)

	view, err := uc.GetProductStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), view.StockQuantity)
	assert.Equal(t, int64(0), view.BatchSum)
	assert.True(t, view.Consistent)
}

// Caso 2: paginación con defaults (page 1, 20 por página).
func TestListMovements_PaginacionConDefaults(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 100, false)
	uc := newAdjustmentUC(s, nil)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := uc.CreateAdjustment(ctx, ledger.CreateAdjustmentInput{
			ProductID: "p1",
			Type:      entity.MovementTypeIN,
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	resp, err := newQueryUC(s).ListMovements(ctx, "p1", dto.PageRequest{}, repository.MovementFilter{})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 20, "default de 20 por página")
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 25, resp.Meta.Total)

	resp, err = newQueryUC(s).ListMovements(ctx, "p1", dto.PageRequest{Page: 2}, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 5, "la segunda página trae el resto")
}

// Caso 3: filtro por tipo de movimiento.
func TestListMovements_FiltroPorTipo(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, false)
	uc := newAdjustmentUC(s, nil)
	ctx := context.Background()

	_, err := uc.CreateAdjustment(ctx, ledger.CreateAdjustmentInput{ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 5})
	require.NoError(t, err)
	_, err = uc.CreateAdjustment(ctx, ledger.CreateAdjustmentInput{ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 2})
	require.NoError(t, err)

	resp, err := newQueryUC(s).ListMovements(ctx, "p1", dto.PageRequest{}, repository.MovementFilter{
		Types: []string{entity.MovementTypeOUT},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, entity.MovementTypeOUT, resp.Data[0].Type)
	assert.Equal(t, int64(-2), resp.Data[0].Quantity)
}

// Caso 4: producto requerido en los listados.
func TestListados_ProductoRequerido(t *testing.T) {
	s := newMemStore()
	uc := newQueryUC(s)
	ctx := context.Background()

	_, err := uc.ListMovements(ctx, "", dto.PageRequest{}, repository.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListBatches(ctx, "", dto.PageRequest{}, repository.BatchFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetProductStock(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
