package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// NetDelta efecto neto de deshacer un grupo de transacciones sobre un artículo.
type NetDelta struct {
	ItemID         string
	Delta          decimal.Decimal
	TransactionIDs []string // en orden de entrada
	firstRow       int
}

// NetEffect agrupa por artículo el efecto inverso de las transacciones. Un id repetido
// cuenta una sola vez. El resultado va ordenado por ItemID, así el mismo conjunto de
// transacciones en cualquier orden produce las mismas escrituras.
func NetEffect(txs []entity.Transaction) []NetDelta {
	seen := make(map[string]struct{}, len(txs))
	byItem := make(map[string]*NetDelta)
	for i, tx := range txs {
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		nd, ok := byItem[tx.ItemID]
		if !ok {
			nd = &NetDelta{ItemID: tx.ItemID, Delta: decimal.Zero, firstRow: i + 1}
			byItem[tx.ItemID] = nd
		}
		nd.Delta = nd.Delta.Add(tx.ReverseEffect())
		nd.TransactionIDs = append(nd.TransactionIDs, tx.ID)
	}
	out := make([]NetDelta, 0, len(byItem))
	for _, nd := range byItem {
		out = append(out, *nd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Adjustment escritura de un artículo como resultado de deshacer.
type Adjustment struct {
	ItemID         string
	Delta          decimal.Decimal
	Item           entity.InventoryItem // estado nuevo
	TransactionIDs []string
}

// UndoPlan escrituras para deshacer un conjunto de transacciones.
//
// Adjustments solo incluye artículos existentes con delta neto distinto de cero.
// DeleteIDs incluye todas las transacciones pedidas (sin repetir y ordenadas), también
// las huérfanas y las de grupos con delta cero.
type UndoPlan struct {
	Adjustments []Adjustment
	DeleteIDs   []string
	Orphans     []domain.OrphanReference
}

// Degraded indica que alguna transacción no tenía artículo que ajustar.
func (p *UndoPlan) Degraded() bool { return len(p.Orphans) > 0 }

// PlanUndo calcula el deshacer por efecto neto. Rechaza con ValidationError, antes de
// cualquier escritura, si algún artículo quedaría con cantidad negativa.
func PlanUndo(items Items, txs []entity.Transaction, now time.Time) (*UndoPlan, error) {
	if len(txs) == 0 {
		return nil, domain.Invalid(0, "transactionIds", "no hay transacciones que deshacer")
	}
	plan := &UndoPlan{}
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}
		plan.DeleteIDs = append(plan.DeleteIDs, tx.ID)
	}
	sort.Strings(plan.DeleteIDs)

	for _, nd := range NetEffect(txs) {
		item, ok := items.Item(nd.ItemID)
		if !ok {
			for _, id := range nd.TransactionIDs {
				plan.Orphans = append(plan.Orphans, domain.OrphanReference{TransactionID: id, ItemID: nd.ItemID})
			}
			continue
		}
		if nd.Delta.IsZero() {
			continue
		}
		newQty := item.Quantity.Add(nd.Delta)
		if newQty.IsNegative() {
			return nil, &domain.ValidationError{
				Row:    nd.firstRow,
				Field:  "transactionId",
				Reason: "deshacer dejaría " + item.Name + " con stock negativo (" + newQty.String() + ")",
				Err:    domain.ErrInsufficientStock,
			}
		}
		item.Quantity = newQty
		item.LastUpdated = now
		plan.Adjustments = append(plan.Adjustments, Adjustment{
			ItemID:         nd.ItemID,
			Delta:          nd.Delta,
			Item:           item,
			TransactionIDs: nd.TransactionIDs,
		})
	}
	sort.Slice(plan.Orphans, func(i, j int) bool {
		return plan.Orphans[i].TransactionID < plan.Orphans[j].TransactionID
	})
	return plan, nil
}
