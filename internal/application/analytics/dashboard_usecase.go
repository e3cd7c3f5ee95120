// Package analytics contiene los casos de uso de consulta del dashboard y la regla
// de reposición de stock bajo.
package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

const (
	dashboardRecent = 5               // movimientos en el widget de actividad reciente
	uncategorized   = "Sin categoría" // artículos sin categoría
	defaultCatColor = "#94a3b8"       // categoría sin color registrado
)

// reorderFactor stock ideal = mínimo × 1.5.
var reorderFactor = decimal.NewFromFloat(1.5)

// InventoryReader lecturas del estado de inventario.
type InventoryReader interface {
	ListItems(f inventory.ItemFilter) []entity.InventoryItem
	ListTransactions(f inventory.TransactionFilter) []entity.Transaction
}

// CategoryColors colores por nombre normalizado de categoría.
type CategoryColors interface {
	CategoryColors(ctx context.Context) (map[string]string, error)
}

// SuggestedOrderQty cantidad a pedir para llevar el artículo a su stock ideal
// (mínimo × 1.5). Cero si ya lo alcanza.
func SuggestedOrderQty(it entity.InventoryItem) decimal.Decimal {
	ideal := it.MinStockLevel.Mul(reorderFactor)
	if q := ideal.Sub(it.Quantity); q.IsPositive() {
		return q
	}
	return decimal.Zero
}

// DashboardUseCase genera el resumen del inventario para la pantalla principal.
type DashboardUseCase struct {
	inv     InventoryReader
	catalog CategoryColors
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(inv InventoryReader, catalog CategoryColors) *DashboardUseCase {
	return &DashboardUseCase{inv: inv, catalog: catalog}
}

// GetSummary construye el DashboardDTO. Los colores se leen del catálogo en paralelo
// con el cálculo de totales.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	type colorsResult struct {
		colors map[string]string
		err    error
	}
	colorsCh := make(chan colorsResult, 1)
	go func() {
		c, err := uc.catalog.CategoryColors(ctx)
		colorsCh <- colorsResult{c, err}
	}()

	items := uc.inv.ListItems(inventory.ItemFilter{})
	txs := uc.inv.ListTransactions(inventory.TransactionFilter{})

	out := &dto.DashboardDTO{
		TotalItems: len(items),
		TotalUnits: decimal.Zero,
		TotalValue: decimal.Zero,
		LowStock:   []dto.LowStockDTO{},
	}
	type bucket struct {
		name  string
		items int
		units decimal.Decimal
	}
	byCat := make(map[string]*bucket)
	var catOrder []string
	for _, it := range items {
		out.TotalUnits = out.TotalUnits.Add(it.Quantity)
		out.TotalValue = out.TotalValue.Add(it.Value())
		if it.IsLowStock() {
			suggested := SuggestedOrderQty(it)
			out.LowStock = append(out.LowStock, dto.LowStockDTO{
				ItemID:            it.ID,
				Name:              it.Name,
				Unit:              it.Unit,
				Quantity:          it.Quantity,
				MinStockLevel:     it.MinStockLevel,
				SuggestedOrderQty: suggested,
				EstimatedCost:     suggested.Mul(it.Price),
			})
		}
		name := it.Category
		if name == "" {
			name = uncategorized
		}
		key := ledger.NormalizeName(name)
		b, ok := byCat[key]
		if !ok {
			b = &bucket{name: name, units: decimal.Zero}
			byCat[key] = b
			catOrder = append(catOrder, key)
		}
		b.items++
		b.units = b.units.Add(it.Quantity)
	}
	out.LowStockCount = len(out.LowStock)
	// Más urgente primero: mayor déficit respecto al mínimo.
	sort.SliceStable(out.LowStock, func(i, j int) bool {
		return out.LowStock[i].Quantity.Sub(out.LowStock[i].MinStockLevel).
			LessThan(out.LowStock[j].Quantity.Sub(out.LowStock[j].MinStockLevel))
	})

	for _, tx := range txs {
		if tx.Type == entity.TransactionInbound {
			out.InboundCount++
		} else {
			out.OutboundCount++
		}
	}
	recent := txs
	if len(recent) > dashboardRecent {
		recent = recent[:dashboardRecent]
	}
	out.RecentTransactions = dto.NewTransactionResponses(recent)

	res := <-colorsCh
	if res.err != nil {
		return nil, res.err
	}
	out.Categories = make([]dto.CategoryCountDTO, 0, len(catOrder))
	for _, key := range catOrder {
		b := byCat[key]
		color, ok := res.colors[key]
		if !ok {
			color = defaultCatColor
		}
		out.Categories = append(out.Categories, dto.CategoryCountDTO{Name: b.name, Color: color, Items: b.items, Units: b.units})
	}
	sort.SliceStable(out.Categories, func(i, j int) bool { return out.Categories[i].Items > out.Categories[j].Items })
	return out, nil
}
