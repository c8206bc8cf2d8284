package ledger_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/ledger-lotes/internal/domain"
	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
	"github.com/tu-usuario/ledger-lotes/internal/domain/repository"
	"github.com/tu-usuario/ledger-lotes/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore estado compartido de los fakes. Replica la semántica del
// almacenamiento real: deltas atómicos que nunca dejan cantidades negativas y
// un log de movimientos append-only.
type memStore struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.Movement
	orders    map[string]*entity.Order
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		batches:  make(map[string]*entity.Batch),
		orders:   make(map[string]*entity.Order),
	}
}

// clone copia profunda del estado, para simular rollback transaccional.
func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, b := range s.batches {
		cb := *b
		c.batches[id] = &cb
	}
	for _, m := range s.movements {
		cm := *m
		c.movements = append(c.movements, &cm)
	}
	for id, o := range s.orders {
		co := *o
		co.Items = append([]entity.OrderItem(nil), o.Items...)
		c.orders[id] = &co
	}
	return c
}

// replace vuelca el estado de other sobre s (commit del fakeTxRunner).
func (s *memStore) replace(other *memStore) {
	s.products = other.products
	s.batches = other.batches
	s.movements = other.movements
	s.orders = other.orders
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) ApplyStockDelta(_ context.Context, productID string, delta int64) (int64, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

// ── BatchRepository ───────────────────────────────────────────────────────────

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) Create(_ context.Context, batch *entity.Batch) error {
	for _, b := range r.s.batches {
		if b.ProductID == batch.ProductID && b.BatchNumber == batch.BatchNumber {
			return domain.ErrDuplicateBatchNumber
		}
	}
	cb := *batch
	r.s.batches[batch.ID] = &cb
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cb := *b
	return &cb, nil
}

func (r *memBatchRepo) GetByProductAndNumber(_ context.Context, productID, batchNumber string) (*entity.Batch, error) {
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.BatchNumber == batchNumber {
			cb := *b
			return &cb, nil
		}
	}
	return nil, nil
}

func (r *memBatchRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.Quantity > 0 {
			cb := *b
			list = append(list, &cb)
		}
	}
	sortFEFO(list)
	return list, nil
}

// sortFEFO replica el orden de consumo: vencimiento ascendente con los sin
// vencimiento al final, luego created_at, luego id.
func sortFEFO(list []*entity.Batch) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *memBatchRepo) ApplyQuantityDelta(_ context.Context, batchID string, delta int64) (int64, error) {
	b, ok := r.s.batches[batchID]
	if !ok {
		return 0, domain.ErrBatchNotFound
	}
	if b.Quantity+delta < 0 {
		return 0, domain.ErrInsufficientBatchStock
	}
	b.Quantity += delta
	return b.Quantity, nil
}

func (r *memBatchRepo) ListByProduct(_ context.Context, productID string, _ repository.BatchFilter, limit, offset int) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			cb := *b
			list = append(list, &cb)
		}
	}
	sortFEFO(list)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *memBatchRepo) CountByProduct(_ context.Context, productID string, _ repository.BatchFilter) (int, error) {
	count := 0
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r *memBatchRepo) SumQuantityByProduct(_ context.Context, productID string) (int64, error) {
	var sum int64
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			sum += b.Quantity
		}
	}
	return sum, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	cm := *movement
	r.s.movements = append(r.s.movements, &cm)
	return nil
}

func (r *memMovementRepo) ExistsByReferenceAndReason(_ context.Context, reference, reason string) (bool, error) {
	for _, m := range r.s.movements {
		if m.Reference == reference && m.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) ExistsReversalForReference(_ context.Context, reference string) (bool, error) {
	for _, m := range r.s.movements {
		if m.Reference == reference && m.Type == entity.MovementTypeIN &&
			(m.Reason == entity.ReasonOrderRefund || m.Reason == entity.ReasonOrderCancellation) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) ExistsReversalOf(_ context.Context, movementID string) (bool, error) {
	for _, m := range r.s.movements {
		if m.ReversesMovementID != nil && *m.ReversesMovementID == movementID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) ListByReferenceAndReason(_ context.Context, reference, reason string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.Reference == reference && m.Reason == reason {
			cm := *m
			list = append(list, &cm)
		}
	}
	return list, nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID string, filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- { // más reciente primero
		m := r.s.movements[i]
		if m.ProductID == productID && matchesMovementFilter(m, filter) {
			cm := *m
			list = append(list, &cm)
		}
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *memMovementRepo) CountByProduct(_ context.Context, productID string, filter repository.MovementFilter) (int, error) {
	count := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID && matchesMovementFilter(m, filter) {
			count++
		}
	}
	return count, nil
}

func matchesMovementFilter(m *entity.Movement, filter repository.MovementFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if m.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.DateFrom != nil && m.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && m.CreatedAt.After(*filter.DateTo) {
		return false
	}
	if filter.CreatedBy != "" && m.CreatedBy != filter.CreatedBy {
		return false
	}
	return true
}

// ── OrderRepository ───────────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	co := *order
	co.Items = append([]entity.OrderItem(nil), order.Items...)
	r.s.orders[order.ID] = &co
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	co := *o
	co.Items = append([]entity.OrderItem(nil), o.Items...)
	return &co, nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn sobre un clon del store y solo vuelca el resultado si
// fn retorna nil, igual que Commit/Rollback en la implementación real.
type fakeTxRunner struct{ s *memStore }

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	work := tr.s.clone()
	err := fn(
		&memMovementRepo{s: work},
		&memBatchRepo{s: work},
		&memProductRepo{s: work},
		&memOrderRepo{s: work},
	)
	if err != nil {
		return err
	}
	tr.s.replace(work)
	return nil
}

// ── EventPublisher ────────────────────────────────────────────────────────────

// capturePublisher acumula los movimientos publicados tras el commit.
type capturePublisher struct {
	published []*entity.Movement
}

func (p *capturePublisher) PublishMovement(_ context.Context, movement *entity.Movement) error {
	p.published = append(p.published, movement)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de armado
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func seedProduct(s *memStore, id string, stock int64, hasExpiry bool) {
	now := time.Now()
	s.products[id] = &entity.Product{
		ID:            id,
		SKU:           "SKU-" + strings.ToUpper(id),
		Name:          "Producto " + id,
		StockQuantity: stock,
		HasExpiry:     hasExpiry,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func seedBatch(s *memStore, id, productID, number string, qty int64, expiry *time.Time, createdAt time.Time) {
	s.batches[id] = &entity.Batch{
		ID:          id,
		ProductID:   productID,
		BatchNumber: number,
		Quantity:    qty,
		ExpiryDate:  expiry,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func seedOrder(s *memStore, id, number string, items ...entity.OrderItem) {
	s.orders[id] = &entity.Order{
		ID:          id,
		OrderNumber: number,
		Items:       items,
		CreatedAt:   time.Now(),
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func fixedTime(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
