// Package analytics calcula los reportes financieros a partir del ledger y del
// estado actual del catálogo. Todas las funciones son puras: no leen stores ni reloj.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold productos con stock estrictamente menor entran en alerta.
	LowStockThreshold = 10
	// LowStockLimit máximo de productos en la lista de stock bajo.
	LowStockLimit = 5
	// BestSellersLimit máximo de productos en el ranking de más vendidos.
	BestSellersLimit = 5
	// TrendDays días de la tendencia de ventas, hoy inclusive.
	TrendDays = 7
)

var hundred = decimal.NewFromInt(100)

// Summary totales del periodo y valorización del inventario al momento de la consulta.
type Summary struct {
	TotalRevenue     decimal.Decimal
	TotalCost        decimal.Decimal
	TotalProfit      decimal.Decimal
	ProfitMargin     decimal.Decimal
	InventoryValue   decimal.Decimal
	RetailValue      decimal.Decimal
	PotentialProfit  decimal.Decimal
	TotalProducts    int
	TotalStock       int
	TransactionCount int
}

// LowStockItem producto por debajo del umbral de stock.
type LowStockItem struct {
	ProductID string
	Name      string
	Stock     int
	Image     string
}

// BestSeller agregado de ventas por producto.
type BestSeller struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// CategoryStat agregado por etiqueta de categoría.
type CategoryStat struct {
	Name    string
	Count   int
	Value   decimal.Decimal
	Revenue decimal.Decimal
}

// TrendPoint ingreso de ventas de un día calendario.
type TrendPoint struct {
	Date    time.Time
	Revenue decimal.Decimal
}

// Key fecha del punto en formato YYYY-MM-DD.
func (p TrendPoint) Key() string { return p.Date.Format(dayLayout) }

// VarianceRow utilidad de una venta calculada con el costo base actual del producto.
type VarianceRow struct {
	TransactionID string
	ProductID     string
	ProductName   string
	Date          time.Time
	Quantity      int
	SellingPrice  decimal.Decimal
	CostPrice     decimal.Decimal
	Revenue       decimal.Decimal
	Cost          decimal.Decimal
	Profit        decimal.Decimal
	Margin        decimal.Decimal
}

// VarianceSummary totales de un conjunto de filas de variación.
type VarianceSummary struct {
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	TotalProfit  decimal.Decimal
}

// VarianceReport filas de variación más sus totales.
type VarianceReport struct {
	Summary      VarianceSummary
	Transactions []VarianceRow
}

// Report reporte completo de analítica.
type Report struct {
	Summary           Summary
	LowStockProducts  []LowStockItem
	BestSellers       []BestSeller
	CategoryBreakdown []CategoryStat
	SalesTrend        []TrendPoint
	Transactions      []VarianceRow
}

// margin devuelve profit/revenue*100 redondeado a 2 decimales, o 0 si no hay ingresos.
func margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}
