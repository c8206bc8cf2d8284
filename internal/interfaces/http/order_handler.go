package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/ledger-lotes/internal/application/dto"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
)

// OrderHandler maneja las peticiones HTTP de órdenes: alta, fulfillment y rollback.
type OrderHandler struct {
	orderUC       *ledger.OrderUseCase
	fulfillmentUC *ledger.FulfillmentUseCase
	rollbackUC    *ledger.RollbackUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	orderUC *ledger.OrderUseCase,
	fulfillmentUC *ledger.FulfillmentUseCase,
	rollbackUC *ledger.RollbackUseCase,
) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, fulfillmentUC: fulfillmentUC, rollbackUC: rollbackUC}
}

// CreateOrder godoc
// @Summary      Crear orden (siembra desde el subsistema de órdenes)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "order_number y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]ledger.CreateOrderItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, ledger.CreateOrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.orderUC.CreateOrder(c.Context(), in.OrderNumber, items)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// FulfillOrder godoc
// @Summary      Despachar una orden (descuenta stock, FEFO por lotes)
// @Description  Idempotente: una orden ya despachada responde 200 con skipped=true.
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.FulfillOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [post]
func (h *OrderHandler) FulfillOrder(c *fiber.Ctx) error {
	result, err := h.fulfillmentUC.FulfillOrder(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FulfillOrderResponse{Success: result.Success, Skipped: result.Skipped})
}

// RollbackOrder godoc
// @Summary      Reversar el despacho de una orden (refund o cancelación)
// @Description  Idempotente: sin movimientos que reversar responde 200 con skipped=true.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.RollbackOrderRequest  true  "reason: REFUND o CANCELLED"
// @Success      200   {object}  dto.RollbackOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/rollback [post]
func (h *OrderHandler) RollbackOrder(c *fiber.Ctx) error {
	var in dto.RollbackOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.rollbackUC.RollbackOrder(c.Context(), c.Params("id"), ledger.RollbackReason(in.Reason), in.ActorID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.RollbackOrderResponse{
		Success:       result.Success,
		Skipped:       result.Skipped,
		ReversedCount: result.ReversedCount,
	})
}
