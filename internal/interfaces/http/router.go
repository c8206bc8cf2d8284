package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/ledger-lotes/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *ledger.ProductUseCase
	OrderUC       *ledger.OrderUseCase
	AdjustmentUC  *ledger.AdjustmentUseCase
	BatchUC       *ledger.BatchUseCase
	FulfillmentUC *ledger.FulfillmentUseCase
	RollbackUC    *ledger.RollbackUseCase
	QueryUC       *ledger.QueryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products (catálogo mínimo + vista de consistencia)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.QueryUC)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/stock", productHandler.GetProductStock)

	// Inventory (ajustes, lotes, historial)
	inventory := api.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.AdjustmentUC, deps.BatchUC, deps.QueryUC)
	inventory.Post("/adjustments", ledgerHandler.CreateAdjustment)
	inventory.Post("/batches", ledgerHandler.CreateBatch)
	inventory.Get("/batches", ledgerHandler.ListBatches)
	inventory.Get("/movements", ledgerHandler.ListMovements)

	// Orders (siembra, fulfillment y rollback)
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.FulfillmentUC, deps.RollbackUC)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Post("/:id/fulfill", orderHandler.FulfillOrder)
	orders.Post("/:id/rollback", orderHandler.RollbackOrder)
}
