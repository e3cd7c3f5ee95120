// Package pdf genera el informe de existencias en A4 con Maroto v2.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hotel + título      │  Fecha + usuario             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Categoría | Ubicación | Cant | Mín | ...  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades / valor / artículos en stock bajo         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/application/report"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 185, Green: 28, Blue: 28}
)

var _ report.StockPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.StockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStockPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockPDF(_ context.Context, r *report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de existencias", true).
		WithAuthor(nonEmpty(r.GeneratedBy, "sistema"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(r.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin artículos.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, l := range r.Lines {
		m.AddRows(detailRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *report.StockReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.Title, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("INFORME DE EXISTENCIAS", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Generado por: "+nonEmpty(r.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Artículo", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Ubicación", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Precio", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// detailRow resalta en rojo los artículos en stock bajo.
func detailRow(l report.StockLine) core.Row {
	p := props.Text{Size: 8, Top: 1, Left: 1, Right: 1}
	if l.LowStock {
		p.Color = colorAlert
		p.Style = fontstyle.Bold
	}
	at := func(a align.Type) props.Text {
		q := p
		q.Align = a
		return q
	}
	qty := l.Item.Quantity.String()
	if l.Item.Unit != "" {
		qty += " " + l.Item.Unit
	}
	return row.New(7).Add(
		col.New(3).Add(text.New(l.Item.Name, at(align.Left))),
		col.New(2).Add(text.New(nonEmpty(l.Item.Category, "—"), at(align.Left))),
		col.New(2).Add(text.New(nonEmpty(l.Item.Location, "—"), at(align.Left))),
		col.New(1).Add(text.New(qty, at(align.Right))),
		col.New(1).Add(text.New(l.Item.MinStockLevel.String(), at(align.Right))),
		col.New(1).Add(text.New(money(l.Item.Price), at(align.Right))),
		col.New(2).Add(text.New(money(l.Value), at(align.Right))),
	)
}

func totalsRow(r *report.StockReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Artículos:"),
			label("Unidades:"),
			label("Valor total:"),
			label("En stock bajo:"),
		),
		col.New(3).Add(
			value(fmt.Sprint(len(r.Lines))),
			value(r.TotalUnits.String()),
			value(money(r.TotalValue)),
			value(fmt.Sprint(r.LowStock)),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	if d.IsNegative() {
		return "-$" + formatMoney(s)
	}
	return "$" + formatMoney(s)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
