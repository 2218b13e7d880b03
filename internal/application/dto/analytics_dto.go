package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// AnalyticsRequest parámetros de GET /api/reports/analytics.
type AnalyticsRequest struct {
	StartDate string `query:"startDate"` // YYYY-MM-DD o RFC3339; vacío = sin límite inferior
	EndDate   string `query:"endDate"`   // YYYY-MM-DD (inclusive, día completo) o RFC3339
}

// ── Resumen ───────────────────────────────────────────────────────────────────

// AnalyticsSummaryDTO totales del periodo y valorización del inventario actual.
type AnalyticsSummaryDTO struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	ProfitMargin     decimal.Decimal `json:"profitMargin"` // % con 2 decimales
	InventoryValue   decimal.Decimal `json:"inventoryValue"`
	RetailValue      decimal.Decimal `json:"retailValue"`
	PotentialProfit  decimal.Decimal `json:"potentialProfit"`
	TotalProducts    int             `json:"totalProducts"`
	TotalStock       int             `json:"totalStock"`
	TransactionCount int             `json:"transactionCount"`
}

// ── Rankings y agregados ──────────────────────────────────────────────────────

// LowStockProductDTO producto con stock por debajo del umbral.
type LowStockProductDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
	Image string `json:"image,omitempty"`
}

// BestSellerDTO ventas acumuladas de un producto.
type BestSellerDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategoryStatDTO agregado por categoría. Count es unidades en stock, no productos.
type CategoryStatDTO struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Value   decimal.Decimal `json:"value"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesTrendPointDTO ingreso de un día (YYYY-MM-DD).
type SalesTrendPointDTO struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ── Variación ─────────────────────────────────────────────────────────────────

// VarianceRowDTO utilidad de una venta con el costo base actual.
type VarianceRowDTO struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	Margin       decimal.Decimal `json:"margin"` // % con 2 decimales
}

// VarianceSummaryDTO totales del reporte de variación.
type VarianceSummaryDTO struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
}

// VarianceReportDTO respuesta de GET /api/reports/variance.
type VarianceReportDTO struct {
	Summary      VarianceSummaryDTO `json:"summary"`
	Transactions []VarianceRowDTO   `json:"transactions"`
}

// ── Reporte combinado ─────────────────────────────────────────────────────────

// AnalyticsReportDTO respuesta completa de GET /api/reports/analytics.
type AnalyticsReportDTO struct {
	Summary           AnalyticsSummaryDTO  `json:"summary"`
	LowStockProducts  []LowStockProductDTO `json:"lowStockProducts"`
	BestSellers       []BestSellerDTO      `json:"bestSellers"`
	CategoryBreakdown []CategoryStatDTO    `json:"categoryBreakdown"`
	SalesTrend        []SalesTrendPointDTO `json:"salesTrend"`
	Transactions      []VarianceRowDTO     `json:"transactions"`
}
