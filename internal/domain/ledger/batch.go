package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// BatchEntry una fila del formulario de entrada/salida. Quantity llega como texto
// para distinguir "vacío" de "no numérico".
type BatchEntry struct {
	ItemID   string
	Quantity string
	Notes    string
}

// BatchInput lote completo con su dirección y usuario.
type BatchInput struct {
	Type    entity.TransactionType
	User    string
	Entries []BatchEntry
}

// BatchStep escritura de una fila: artículo con la cantidad resultante y su transacción.
type BatchStep struct {
	Row         int
	Item        entity.InventoryItem
	Transaction entity.Transaction
}

// BatchPlan pasos en el orden de entrada, con timestamp compartido.
type BatchPlan struct {
	Timestamp time.Time
	Steps     []BatchStep
}

// PlanBatch valida el lote completo antes de producir ningún paso. Devuelve el
// ValidationError de la primera fila inválida (1-based). Varias filas del mismo
// artículo se encadenan: cada una parte de la cantidad que dejó la anterior.
func PlanBatch(items Items, in BatchInput, now time.Time, ids IDSource) (*BatchPlan, error) {
	if !in.Type.Valid() {
		return nil, domain.Invalid(0, "type", "debe ser INBOUND u OUTBOUND")
	}
	if len(in.Entries) == 0 {
		return nil, domain.Invalid(0, "entries", "el lote está vacío")
	}

	running := make(map[string]entity.InventoryItem)
	quantities := make([]decimal.Decimal, len(in.Entries))
	for i, e := range in.Entries {
		row := i + 1
		itemID := strings.TrimSpace(e.ItemID)
		if itemID == "" {
			return nil, domain.Invalid(row, "itemId", "falta seleccionar el artículo")
		}
		item, ok := running[itemID]
		if !ok {
			item, ok = items.Item(itemID)
			if !ok {
				return nil, &domain.ValidationError{Row: row, Field: "itemId", Reason: "artículo desconocido", Err: domain.ErrNotFound}
			}
		}
		qty, err := ParseQuantity(row, e.Quantity)
		if err != nil {
			return nil, err
		}
		if in.Type == entity.TransactionOutbound {
			if qty.GreaterThan(item.Quantity) {
				return nil, &domain.ValidationError{
					Row:    row,
					Field:  "quantity",
					Reason: "supera el stock disponible (" + item.Quantity.String() + ")",
					Err:    domain.ErrInsufficientStock,
				}
			}
			item.Quantity = item.Quantity.Sub(qty)
		} else {
			item.Quantity = item.Quantity.Add(qty)
		}
		running[itemID] = item
		quantities[i] = qty
	}

	// Segunda pasada: ya no puede fallar, se recalcula en orden para cada paso.
	current := make(map[string]entity.InventoryItem)
	user := actingUser(in.User, UnknownUser)
	plan := &BatchPlan{Timestamp: now, Steps: make([]BatchStep, 0, len(in.Entries))}
	for i, e := range in.Entries {
		itemID := strings.TrimSpace(e.ItemID)
		item, ok := current[itemID]
		if !ok {
			item, _ = items.Item(itemID)
		}
		tx := entity.Transaction{
			ID:        ids.NewID(PrefixTransaction),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Type:      in.Type,
			Quantity:  quantities[i],
			Timestamp: now,
			User:      user,
			Notes:     strings.TrimSpace(e.Notes),
		}
		item.Quantity = item.Quantity.Add(tx.Effect())
		item.LastUpdated = now
		current[itemID] = item
		plan.Steps = append(plan.Steps, BatchStep{Row: i + 1, Item: item, Transaction: tx})
	}
	return plan, nil
}

// ParseQuantity interpreta una cantidad de fila: obligatoria, numérica y positiva.
func ParseQuantity(row int, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, domain.Invalid(row, "quantity", "es obligatoria")
	}
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Invalid(row, "quantity", "no es un número")
	}
	if !qty.IsPositive() {
		return decimal.Zero, domain.Invalid(row, "quantity", "debe ser mayor que cero")
	}
	return qty, nil
}
