package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity siempre es positiva; el signo lo determina Type (OUT = salida).
type CreateAdjustmentRequest struct {
	ProductID      string `json:"product_id"`
	Type           string `json:"type"` // IN, OUT, ADJUSTMENT
	Quantity       int64  `json:"quantity"`
	Reason         string `json:"reason,omitempty"`
	BatchID        string `json:"batch_id,omitempty"`
	BatchNumber    string `json:"batch_number,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
	ActorID        string `json:"actor_id,omitempty"`
}

// CreateBatchRequest body para POST /api/inventory/batches.
type CreateBatchRequest struct {
	ProductID   string           `json:"product_id"`
	BatchNumber string           `json:"batch_number"`
	Quantity    int64            `json:"quantity"` // opcional, default 0
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	ActorID     string           `json:"actor_id,omitempty"`
}

// MovementResponse representación de un movimiento con fechas ISO 8601.
type MovementResponse struct {
	ID                 string  `json:"id"`
	ProductID          string  `json:"product_id"`
	Type               string  `json:"type"`
	Quantity           int64   `json:"quantity"`
	Reason             string  `json:"reason,omitempty"`
	Reference          string  `json:"reference,omitempty"`
	PreviousStock      int64   `json:"previous_stock"`
	NewStock           int64   `json:"new_stock"`
	BatchID            *string `json:"batch_id,omitempty"`
	CreatedBy          string  `json:"created_by,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	ReversesMovementID *string `json:"reverses_movement_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// NewMovementResponse mapea la entidad al DTO (fechas en RFC 3339).
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		ProductID:          m.ProductID,
		Type:               m.Type,
		Quantity:           m.Quantity,
		Reason:             m.Reason,
		Reference:          m.Reference,
		PreviousStock:      m.PreviousStock,
		NewStock:           m.NewStock,
		BatchID:            m.BatchID,
		CreatedBy:          m.CreatedBy,
		Notes:              m.Notes,
		ReversesMovementID: m.ReversesMovementID,
		CreatedAt:          m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// BatchResponse representación de un lote.
type BatchResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	BatchNumber string           `json:"batch_number"`
	Quantity    int64            `json:"quantity"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	ExpiryDate  *string          `json:"expiry_date,omitempty"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// NewBatchResponse mapea la entidad al DTO.
func NewBatchResponse(b *entity.Batch) BatchResponse {
	resp := BatchResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		CostPrice:   b.CostPrice,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if b.ExpiryDate != nil {
		s := b.ExpiryDate.UTC().Format(time.RFC3339)
		resp.ExpiryDate = &s
	}
	return resp
}

// BatchListResponse página de lotes.
type BatchListResponse struct {
	Data []BatchResponse `json:"data"`
	Meta PageMeta        `json:"meta"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Data []MovementResponse `json:"data"`
	Meta PageMeta           `json:"meta"`
}

// FulfillOrderResponse resultado de POST /api/orders/:id/fulfill.
type FulfillOrderResponse struct {
	Success bool `json:"success"`
	Skipped bool `json:"skipped,omitempty"`
}

// RollbackOrderRequest body para POST /api/orders/:id/rollback.
type RollbackOrderRequest struct {
	Reason  string `json:"reason"` // REFUND o CANCELLED
	ActorID string `json:"actor_id,omitempty"`
}

// RollbackOrderResponse resultado del rollback.
type RollbackOrderResponse struct {
	Success       bool `json:"success"`
	Skipped       bool `json:"skipped,omitempty"`
	ReversedCount int  `json:"reversed_count"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	HasExpiry bool   `json:"has_expiry"`
}

// ProductStockResponse vista de consistencia contador vs lotes.
type ProductStockResponse struct {
	ProductID     string `json:"product_id"`
	StockQuantity int64  `json:"stock_quantity"`
	BatchSum      int64  `json:"batch_sum"`
	Consistent    bool   `json:"consistent"` // para productos sin vencimiento siempre true
}

// CreateOrderRequest body para POST /api/orders (siembra desde el subsistema de órdenes).
type CreateOrderRequest struct {
	OrderNumber string                   `json:"order_number"`
	Items       []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest línea de la orden.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// OrderItemResponse línea de una orden creada.
type OrderItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// OrderResponse representación de una orden.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

// NewOrderResponse mapea la entidad al DTO.
func NewOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return resp
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
	HasExpiry     bool   `json:"has_expiry"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// NewProductResponse mapea la entidad al DTO.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		HasExpiry:     p.HasExpiry,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
