package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// Notas y usuarios por defecto de las transacciones generadas por el motor.
const (
	NoteInitialStock = "entrada de stock inicial"
	NoteBulkImport   = "importación masiva"
	SystemUser       = "sistema"
	UnknownUser      = "usuario desconocido"
)

// NewItem atributos de un artículo nuevo; Quantity es el stock inicial (puede ser 0).
type NewItem struct {
	Name          string
	Category      string
	Location      string
	Quantity      decimal.Decimal
	Unit          string
	MinStockLevel decimal.Decimal
	Price         decimal.Decimal
	Description   string
}

// AddPlan resultado de PlanAddItem. Initial es nil cuando el stock inicial es 0.
type AddPlan struct {
	Item    entity.InventoryItem
	Initial *entity.Transaction
}

// PlanAddItem calcula el artículo nuevo y, si hay stock inicial, su transacción INBOUND
// con el mismo timestamp que LastUpdated.
func PlanAddItem(in NewItem, user string, now time.Time, ids IDSource) (*AddPlan, error) {
	if err := validateNewItem(0, in); err != nil {
		return nil, err
	}
	item := entity.InventoryItem{
		ID:            ids.NewID(PrefixItem),
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Location:      strings.TrimSpace(in.Location),
		Quantity:      in.Quantity,
		Unit:          strings.TrimSpace(in.Unit),
		MinStockLevel: in.MinStockLevel,
		Price:         in.Price,
		LastUpdated:   now,
		Description:   in.Description,
	}
	plan := &AddPlan{Item: item}
	if in.Quantity.IsPositive() {
		plan.Initial = &entity.Transaction{
			ID:        InitialTransactionID(item.ID),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Type:      entity.TransactionInbound,
			Quantity:  in.Quantity,
			Timestamp: now,
			User:      actingUser(user, SystemUser),
			Notes:     NoteInitialStock,
		}
	}
	return plan, nil
}

// ItemChanges metadatos editables de un artículo. La cantidad no se edita: solo se
// mueve con transacciones.
type ItemChanges struct {
	Name          string
	Category      string
	Location      string
	Unit          string
	MinStockLevel decimal.Decimal
	Price         decimal.Decimal
	Description   string
}

// PlanUpdateItem aplica los cambios de metadatos conservando id y cantidad.
func PlanUpdateItem(current entity.InventoryItem, ch ItemChanges, now time.Time) (entity.InventoryItem, error) {
	err := validateNewItem(0, NewItem{
		Name: ch.Name, MinStockLevel: ch.MinStockLevel, Price: ch.Price,
	})
	if err != nil {
		return entity.InventoryItem{}, err
	}
	current.Name = strings.TrimSpace(ch.Name)
	current.Category = strings.TrimSpace(ch.Category)
	current.Location = strings.TrimSpace(ch.Location)
	current.Unit = strings.TrimSpace(ch.Unit)
	current.MinStockLevel = ch.MinStockLevel
	current.Price = ch.Price
	current.Description = ch.Description
	current.LastUpdated = now
	return current, nil
}

func validateNewItem(row int, in NewItem) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Invalid(row, "name", "es obligatorio")
	case in.Quantity.IsNegative():
		return domain.Invalid(row, "quantity", "no puede ser negativa")
	case in.MinStockLevel.IsNegative():
		return domain.Invalid(row, "minStockLevel", "no puede ser negativo")
	case in.Price.IsNegative():
		return domain.Invalid(row, "price", "no puede ser negativo")
	}
	return nil
}

func actingUser(user, fallback string) string {
	if u := strings.TrimSpace(user); u != "" {
		return u
	}
	return fallback
}
