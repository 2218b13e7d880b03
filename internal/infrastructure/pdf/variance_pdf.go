// Package pdf genera la exportación PDF del reporte de variación de utilidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / Costo / Utilidad                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Cant | P.Venta | Costo | ...      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorHeader  = &props.Color{Red: 225, Green: 233, Blue: 242}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ analytics.VarianceRenderer = (*VarianceRenderer)(nil)

// VarianceRenderer implementa analytics.VarianceRenderer usando Maroto v2.
type VarianceRenderer struct {
	storeName string
	loc       *time.Location
}

// NewVarianceRenderer construye el renderer. Las fechas se muestran en loc.
func NewVarianceRenderer(storeName string, loc *time.Location) *VarianceRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &VarianceRenderer{storeName: storeName, loc: loc}
}

// RenderVariance genera el PDF y devuelve sus bytes.
func (g *VarianceRenderer) RenderVariance(report dto.VarianceReportDTO, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de variación de utilidad", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Transactions) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas registradas.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(g.tableDetailRows(report.Transactions)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *VarianceRenderer) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(g.storeName, "Tienda"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de variación de utilidad por venta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: ingresos, costo y utilidad totales.
func summaryRow(s dto.VarianceSummaryDTO) core.Row {
	block := func(label string, v decimal.Decimal, color *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
			text.New("$"+formatMoney(v), props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 6, Align: align.Center, Color: color,
			}),
		)
	}
	profitColor := colorPrimary
	if s.TotalProfit.IsNegative() {
		profitColor = colorLoss
	}
	return row.New(16).Add(
		block("Ingresos", s.TotalRevenue, colorPrimary),
		block("Costo", s.TotalCost, colorPrimary),
		block("Utilidad", s.TotalProfit, profitColor),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader}).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("P. Venta", 1, align.Right),
		h("Costo", 1, align.Right),
		h("Ingreso", 1, align.Right),
		h("Utilidad", 2, align.Right),
		h("Margen", 1, align.Right),
	)
}

// tableDetailRows: una fila por venta; utilidad negativa en rojo.
func (g *VarianceRenderer) tableDetailRows(rows []dto.VarianceRowDTO) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		profitProps := props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1}
		if r.Profit.IsNegative() {
			profitProps.Color = colorLoss
		}
		out = append(out, row.New(6).Add(
			cell(r.Date.In(g.loc).Format("02/01/2006 15:04"), 2, align.Left),
			cell(r.ProductName, 3, align.Left),
			cell(fmt.Sprintf("%d", r.Quantity), 1, align.Center),
			cell(formatMoney(r.SellingPrice), 1, align.Right),
			cell(formatMoney(r.CostPrice), 1, align.Right),
			cell(formatMoney(r.Revenue), 1, align.Right),
			col.New(2).Add(text.New(formatMoney(r.Profit), profitProps)),
			cell(r.Margin.StringFixed(2)+"%", 1, align.Right),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal (2 decimales).
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if v.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
