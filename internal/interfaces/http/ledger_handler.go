package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/ledger-lotes/internal/application/dto"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP de ajustes, lotes y movimientos.
type LedgerHandler struct {
	adjustmentUC *ledger.AdjustmentUseCase
	batchUC      *ledger.BatchUseCase
	queryUC      *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	adjustmentUC *ledger.AdjustmentUseCase,
	batchUC *ledger.BatchUseCase,
	queryUC *ledger.QueryUseCase,
) *LedgerHandler {
	return &LedgerHandler{adjustmentUC: adjustmentUC, batchUC: batchUC, queryUC: queryUC}
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de stock (IN/OUT/ADJUSTMENT)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "product_id, type, quantity (positiva), batch_id o batch_number opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *LedgerHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.adjustmentUC.CreateAdjustment(c.Context(), ledger.CreateAdjustmentInput{
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		BatchID:        in.BatchID,
		BatchNumber:    in.BatchNumber,
		IdempotencyKey: in.IdempotencyKey,
		ReferenceID:    in.ReferenceID,
		ActorID:        in.ActorID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// CreateBatch godoc
// @Summary      Crear lote de un producto
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, batch_number; quantity, cost_price y expiry_date opcionales"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *LedgerHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.batchUC.CreateBatch(c.Context(), ledger.CreateBatchInput{
		ProductID:   in.ProductID,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		CostPrice:   in.CostPrice,
		ExpiryDate:  in.ExpiryDate,
		ActorID:     in.ActorID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewBatchResponse(batch))
}

// ListBatches godoc
// @Summary      Listar lotes de un producto
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        page          query  int     false  "Página (desde 1)"
// @Param        page_size     query  int     false  "Tamaño de página (max 100)"
// @Param        expiry_after  query  string  false  "Vencimiento desde (YYYY-MM-DD o RFC3339)"
// @Param        expiry_before query  string  false  "Vencimiento hasta"
// @Param        search        query  string  false  "Buscar por número de lote"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *LedgerHandler) ListBatches(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	filter := repository.BatchFilter{Search: c.Query("search")}
	var err error
	if filter.ExpiryAfter, err = parseDateQuery(c.Query("expiry_after")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_after inválido"})
	}
	if filter.ExpiryBefore, err = parseDateQuery(c.Query("expiry_before")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_before inválido"})
	}

	resp, err := h.queryUC.ListBatches(c.Context(), c.Query("product_id"), page, filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        product_id  query  string    true   "ID del producto"
// @Param        page        query  int       false  "Página (desde 1)"
// @Param        page_size   query  int       false  "Tamaño de página (max 100)"
// @Param        type        query  []string  false  "Filtrar por tipos (IN, OUT, ADJUSTMENT)"
// @Param        date_from   query  string    false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        date_to     query  string    false  "Hasta"
// @Param        created_by  query  string    false  "Filtrar por actor"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	filter := repository.MovementFilter{CreatedBy: c.Query("created_by")}
	if types := c.Query("type"); types != "" {
		filter.Types = splitCSV(types)
	}
	var err error
	if filter.DateFrom, err = parseDateQuery(c.Query("date_from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválido"})
	}
	if filter.DateTo, err = parseDateQuery(c.Query("date_to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválido"})
	}

	resp, err := h.queryUC.ListMovements(c.Context(), c.Query("product_id"), page, filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// parseDateQuery acepta fecha sola (YYYY-MM-DD) o RFC3339. Vacío = sin filtro.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
