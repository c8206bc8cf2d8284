package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrProductNotFound        = errors.New("producto no encontrado")
	ErrOrderNotFound          = errors.New("orden no encontrada")
	ErrBatchNotFound          = errors.New("lote no encontrado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInsufficientBatchStock = errors.New("stock insuficiente en el lote")
	ErrDuplicateBatchNumber   = errors.New("número de lote duplicado para el producto")
)
