package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/ledger-lotes/internal/application/dto"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
)

// ProductHandler maneja el catálogo mínimo que el ledger expone.
type ProductHandler struct {
	productUC *ledger.ProductUseCase
	queryUC   *ledger.QueryUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(productUC *ledger.ProductUseCase, queryUC *ledger.QueryUseCase) *ProductHandler {
	return &ProductHandler{productUC: productUC, queryUC: queryUC}
}

// CreateProduct godoc
// @Summary      Crear producto (stock inicial cero)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "sku, name, has_expiry"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.productUC.CreateProduct(c.Context(), in.SKU, in.Name, in.HasExpiry)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(product))
}

// GetProduct godoc
// @Summary      Obtener un producto
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productUC.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// GetProductStock godoc
// @Summary      Vista de consistencia: contador agregado vs suma de lotes
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) GetProductStock(c *fiber.Ctx) error {
	resp, err := h.queryUC.GetProductStock(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}
