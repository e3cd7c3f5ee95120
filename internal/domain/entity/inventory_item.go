package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem artículo del inventario del hotel.
// Quantity solo cambia a través de transacciones (alta, lote, deshacer, importación).
type InventoryItem struct {
	ID            string
	Name          string
	Category      string // nombre de la categoría, sin FK
	Location      string // nombre de la ubicación, sin FK
	Quantity      decimal.Decimal
	Unit          string
	MinStockLevel decimal.Decimal
	Price         decimal.Decimal // precio unitario
	LastUpdated   time.Time
	Description   string
}

// IsLowStock indica stock bajo: cantidad menor o igual al mínimo.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinStockLevel)
}

// Value valor del stock (cantidad × precio).
func (i *InventoryItem) Value() decimal.Decimal {
	return i.Quantity.Mul(i.Price)
}
