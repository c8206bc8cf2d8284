package ledger

import (
	"context"

	"github.com/tu-usuario/ledger-lotes/internal/application/dto"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

// QueryUseCase listados paginados de lotes y movimientos. Solo lectura: corre
// contra el pool, fuera de cualquier transacción.
type QueryUseCase struct {
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
) *QueryUseCase {
	return &QueryUseCase{
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
	}
}

// ListBatches pagina los lotes de un producto con filtros de vencimiento y
// búsqueda por número.
func (uc *QueryUseCase) ListBatches(ctx context.Context, productID string, page dto.PageRequest, filter repository.BatchFilter) (*dto.BatchListResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	batches, err := uc.batchRepo.ListByProduct(ctx, productID, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.batchRepo.CountByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchListResponse{
		Data: make([]dto.BatchResponse, 0, len(batches)),
		Meta: dto.PageMeta{Page: page.Page, PageSize: page.PageSize, Total: total},
	}
	for _, b := range batches {
		resp.Data = append(resp.Data, dto.NewBatchResponse(b))
	}
	return resp, nil
}

// ListMovements pagina el historial de movimientos de un producto con filtros de
// tipo, rango de fechas y actor.
func (uc *QueryUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	movements, err := uc.movementRepo.ListByProduct(ctx, productID, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.movementRepo.CountByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.MovementListResponse{
		Data: make([]dto.MovementResponse, 0, len(movements)),
		Meta: dto.PageMeta{Page: page.Page, PageSize: page.PageSize, Total: total},
	}
	for _, m := range movements {
		resp.Data = append(resp.Data, dto.NewMovementResponse(m))
	}
	return resp, nil
}

// GetProductStock devuelve el contador agregado junto con la suma de lotes, para
// verificar la consistencia en reposo de productos con vencimiento.
func (uc *QueryUseCase) GetProductStock(ctx context.Context, productID string) (*dto.ProductStockResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	sum, err := uc.batchRepo.SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStockResponse{
		ProductID:     product.ID,
		StockQuantity: product.StockQuantity,
		BatchSum:      sum,
		Consistent:    !product.HasExpiry || sum == product.StockQuantity,
	}, nil
}
