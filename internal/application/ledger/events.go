package ledger

import (
	"context"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// publishAll publica movimientos ya confirmados. Best effort: los fallos se
// loguean en warn y nunca se propagan (una mutación de stock commiteada no se
// revierte por un fallo de auditoría externa).
func publishAll(ctx context.Context, publisher EventPublisher, log *logger.Logger, movements []*entity.Movement) {
	if publisher == nil {
		return
	}
	for _, mov := range movements {
		if mov == nil {
			continue
		}
		if err := publisher.PublishMovement(ctx, mov); err != nil && log != nil {
			log.Warn().
				Err(err).
				Str("movement_id", mov.ID).
				Str("product_id", mov.ProductID).
				Msg("no se pudo publicar el evento de movimiento")
		}
	}
}
