package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger append-only sobre PostgreSQL (usable con
// pool o tx). Solo INSERT y SELECT: no hay UPDATE ni DELETE sobre stock_movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, type, quantity, reason, reference,
		previous_stock, new_stock, batch_id, created_by, notes, reverses_movement_id, created_at`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, reason, reference,
			previous_stock, new_stock, batch_id, created_by, notes, reverses_movement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Reason, movement.Reference, movement.PreviousStock, movement.NewStock,
		movement.BatchID, createdBy, movement.Notes, movement.ReversesMovementID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ExistsByReferenceAndReason guarda de idempotencia gruesa por referencia.
func (r *MovementRepo) ExistsByReferenceAndReason(ctx context.Context, reference, reason string) (bool, error) {
	return r.exists(ctx,
		"SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reference = $1 AND reason = $2)",
		reference, reason)
}

// ExistsReversalForReference verifica si ya hay alguna reversa para la referencia.
func (r *MovementRepo) ExistsReversalForReference(ctx context.Context, reference string) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE reference = $1 AND type = $2 AND reason IN ($3, $4)
		)`,
		reference, entity.MovementTypeIN, entity.ReasonOrderRefund, entity.ReasonOrderCancellation)
}

// ExistsReversalOf guarda fina: busca una reversa del movimiento original.
func (r *MovementRepo) ExistsReversalOf(ctx context.Context, movementID string) (bool, error) {
	return r.exists(ctx,
		"SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reverses_movement_id = $1)",
		movementID)
}

func (r *MovementRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("movement exists: %w", err)
	}
	return exists, nil
}

// ListByReferenceAndReason devuelve los movimientos de una referencia con esa
// razón en orden de creación ascendente (id como desempate estable).
func (r *MovementRepo) ListByReferenceAndReason(ctx context.Context, reference, reason string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE reference = $1 AND reason = $2
		ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, reference, reason)
}

// ListByProduct lista movimientos de un producto con filtros y paginación, del
// más reciente al más antiguo.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE product_id = $1"
	query, args := appendMovementFilter(query, []any{productID}, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// CountByProduct cuenta los movimientos que matchean el filtro.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string, filter repository.MovementFilter) (int, error) {
	query := "SELECT count(*) FROM stock_movements WHERE product_id = $1"
	query, args := appendMovementFilter(query, []any{productID}, filter)
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}

func appendMovementFilter(query string, args []any, filter repository.MovementFilter) (string, []any) {
	if len(filter.Types) > 0 {
		args = append(args, filter.Types)
		query += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		query += fmt.Sprintf(" AND created_by = $%d", len(args))
	}
	return query, args
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.Reference,
			&m.PreviousStock, &m.NewStock, &m.BatchID, &createdBy, &m.Notes,
			&m.ReversesMovementID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
