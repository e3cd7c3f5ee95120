// Package report genera el informe imprimible de existencias.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/application/analytics"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// StockLine fila del informe.
type StockLine struct {
	Item              entity.InventoryItem
	Value             decimal.Decimal
	LowStock          bool
	SuggestedOrderQty decimal.Decimal
}

// StockReport datos del informe, agrupados por categoría y nombre.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Lines       []StockLine
	TotalUnits  decimal.Decimal
	TotalValue  decimal.Decimal
	LowStock    int
}

// StockPDFGenerator puerto de salida para renderizar el informe.
type StockPDFGenerator interface {
	GenerateStockPDF(ctx context.Context, r *StockReport) ([]byte, error)
}

// ItemLister lectura de artículos.
type ItemLister interface {
	ListItems(f inventory.ItemFilter) []entity.InventoryItem
}

// StockReportUseCase arma el informe y delega el render.
type StockReportUseCase struct {
	inv       ItemLister
	generator StockPDFGenerator
	title     string
	now       func() time.Time
}

// NewStockReportUseCase construye el caso de uso. title suele ser el nombre del hotel.
func NewStockReportUseCase(inv ItemLister, generator StockPDFGenerator, title string) *StockReportUseCase {
	return &StockReportUseCase{inv: inv, generator: generator, title: title, now: time.Now}
}

// Build arma el informe; lowStockOnly deja solo artículos en stock bajo.
func (uc *StockReportUseCase) Build(user string, lowStockOnly bool) *StockReport {
	items := uc.inv.ListItems(inventory.ItemFilter{LowStock: lowStockOnly})
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := ledger.NormalizeName(items[i].Category), ledger.NormalizeName(items[j].Category)
		if ci != cj {
			return ci < cj
		}
		return ledger.NormalizeName(items[i].Name) < ledger.NormalizeName(items[j].Name)
	})
	r := &StockReport{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		GeneratedBy: user,
		Lines:       make([]StockLine, 0, len(items)),
		TotalUnits:  decimal.Zero,
		TotalValue:  decimal.Zero,
	}
	for _, it := range items {
		line := StockLine{
			Item:              it,
			Value:             it.Value(),
			LowStock:          it.IsLowStock(),
			SuggestedOrderQty: analytics.SuggestedOrderQty(it),
		}
		if line.LowStock {
			r.LowStock++
		}
		r.TotalUnits = r.TotalUnits.Add(it.Quantity)
		r.TotalValue = r.TotalValue.Add(line.Value)
		r.Lines = append(r.Lines, line)
	}
	return r
}

// StockPDF genera el PDF del informe.
func (uc *StockReportUseCase) StockPDF(ctx context.Context, user string, lowStockOnly bool) ([]byte, error) {
	b, err := uc.generator.GenerateStockPDF(ctx, uc.Build(user, lowStockOnly))
	if err != nil {
		return nil, fmt.Errorf("informe de stock: %w", err)
	}
	return b, nil
}
