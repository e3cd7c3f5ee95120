package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// ImportRow fila ya interpretada de una hoja de cálculo.
type ImportRow struct {
	Name          string
	Category      string
	Location      string
	Quantity      decimal.Decimal
	Unit          string
	Price         decimal.Decimal
	MinStockLevel decimal.Decimal
	Description   string
}

// ConsolidatedRow fila resultante de fusionar duplicados por nombre dentro del lote.
// Conserva los metadatos de la primera aparición.
type ConsolidatedRow struct {
	ImportRow
	SourceRows []int // filas originales, 1-based
}

// ConsolidateRows valida las filas y suma las cantidades de nombres repetidos.
// El orden de salida es el de primera aparición.
func ConsolidateRows(rows []ImportRow) ([]ConsolidatedRow, error) {
	out := make([]ConsolidatedRow, 0, len(rows))
	pos := make(map[string]int, len(rows))
	for i, r := range rows {
		row := i + 1
		err := validateNewItem(row, NewItem{
			Name: r.Name, Quantity: r.Quantity, MinStockLevel: r.MinStockLevel, Price: r.Price,
		})
		if err != nil {
			return nil, err
		}
		key := NormalizeName(r.Name)
		if j, ok := pos[key]; ok {
			out[j].Quantity = out[j].Quantity.Add(r.Quantity)
			out[j].SourceRows = append(out[j].SourceRows, row)
			continue
		}
		r.Name = strings.TrimSpace(r.Name)
		pos[key] = len(out)
		out = append(out, ConsolidatedRow{ImportRow: r, SourceRows: []int{row}})
	}
	return out, nil
}

// ImportPlan escrituras de una importación: primero artículos, luego transacciones.
type ImportPlan struct {
	Items        []entity.InventoryItem
	Transactions []entity.Transaction
	Created      int
	Merged       int
}

// PlanImport fusiona las filas con el inventario existente. Si el nombre ya existe
// solo se incrementa la cantidad; categoría, ubicación, unidad y precio del artículo
// existente no cambian. Cada fila con cantidad > 0 genera una transacción INBOUND.
func PlanImport(existing []entity.InventoryItem, rows []ImportRow, user string, now time.Time, ids IDSource) (*ImportPlan, error) {
	if len(rows) == 0 {
		return nil, domain.Invalid(0, "rows", "la importación está vacía")
	}
	consolidated, err := ConsolidateRows(rows)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]entity.InventoryItem, len(existing))
	for _, it := range existing {
		key := NormalizeName(it.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = it
		}
	}

	user = actingUser(user, SystemUser)
	plan := &ImportPlan{}
	for _, r := range consolidated {
		item, ok := byName[NormalizeName(r.Name)]
		if ok {
			if r.Quantity.IsZero() {
				continue
			}
			item.Quantity = item.Quantity.Add(r.Quantity)
			item.LastUpdated = now
			plan.Merged++
		} else {
			item = entity.InventoryItem{
				ID:            ids.NewID(PrefixItem),
				Name:          r.Name,
				Category:      strings.TrimSpace(r.Category),
				Location:      strings.TrimSpace(r.Location),
				Quantity:      r.Quantity,
				Unit:          strings.TrimSpace(r.Unit),
				MinStockLevel: r.MinStockLevel,
				Price:         r.Price,
				LastUpdated:   now,
				Description:   r.Description,
			}
			plan.Created++
		}
		plan.Items = append(plan.Items, item)
		if r.Quantity.IsPositive() {
			plan.Transactions = append(plan.Transactions, entity.Transaction{
				ID:        ids.NewID(PrefixTransaction),
				ItemID:    item.ID,
				ItemName:  item.Name,
				Type:      entity.TransactionInbound,
				Quantity:  r.Quantity,
				Timestamp: now,
				User:      user,
				Notes:     NoteBulkImport,
			})
		}
	}
	return plan, nil
}
