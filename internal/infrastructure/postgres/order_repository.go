package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo adaptador de lectura del agregado de orden sobre PostgreSQL (usable
// con pool o tx). Las órdenes las escribe el subsistema de órdenes; Create existe
// para sembrarlas desde tooling.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, order_number, created_at)
		VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, order.ID, order.OrderNumber, order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	for _, item := range order.Items {
		if _, err := r.q.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas. nil sin error si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, "SELECT id, order_number, created_at FROM orders WHERE id = $1", id)
}

// GetForUpdate obtiene la orden y bloquea su fila (SELECT FOR UPDATE). El lock
// serializa fulfillment y rollback concurrentes de la misma orden.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, "SELECT id, order_number, created_at FROM orders WHERE id = $1 FOR UPDATE", id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.OrderNumber, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
