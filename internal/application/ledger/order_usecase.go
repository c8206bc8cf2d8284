package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

// OrderUseCase siembra órdenes en nombre del subsistema externo de órdenes
// (tooling y pruebas de integración; en producción las órdenes llegan ya creadas).
type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, productRepo: productRepo}
}

// CreateOrderItemInput línea de la orden a crear.
type CreateOrderItemInput struct {
	ProductID string
	Quantity  int64
}

// CreateOrder valida las líneas (producto existente, cantidad positiva) y
// persiste la orden.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, orderNumber string, items []CreateOrderItemInput) (*entity.Order, error) {
	if orderNumber == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	order := &entity.Order{
		ID:          uuid.New().String(),
		OrderNumber: orderNumber,
		CreatedAt:   now,
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
