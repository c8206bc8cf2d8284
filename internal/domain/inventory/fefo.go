package inventory

import (
	"sort"

	"github.com/tu-usuario/ledger-lotes/internal/domain/entity"
)

// BatchTake es la porción de un requerimiento asignada a un lote.
type BatchTake struct {
	BatchID string
	Take    int64
}

// Allocation resultado de repartir un requerimiento entre lotes. Remainder > 0
// significa que los lotes no alcanzaron a cubrir todo; el caller decide si lo
// permite como salida sin lote o falla (política strict).
type Allocation struct {
	Takes     []BatchTake
	Remainder int64
}

// FullyCovered indica si los lotes cubrieron todo el requerimiento.
func (a Allocation) FullyCovered() bool {
	return a.Remainder == 0
}

// AllocateFEFO reparte required entre los lotes con criterio first-expiry-first-out:
// vencimiento ascendente, los lotes sin vencimiento al final ("nunca vencen", se
// consumen de último), desempate por created_at ascendente y luego por id para
// que el resultado sea determinista. De cada lote toma min(cantidad, pendiente).
// Ignora lotes agotados. required <= 0 devuelve una asignación vacía.
func AllocateFEFO(batches []*entity.Batch, required int64) Allocation {
	if required <= 0 {
		return Allocation{}
	}

	ordered := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Quantity > 0 {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			// ambos sin vencimiento: por antigüedad
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	remaining := required
	takes := make([]BatchTake, 0, len(ordered))
	for _, b := range ordered {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		takes = append(takes, BatchTake{BatchID: b.ID, Take: take})
		remaining -= take
	}
	return Allocation{Takes: takes, Remainder: remaining}
}
