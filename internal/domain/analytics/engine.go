package analytics

import (
	"sort"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Input datos ya leídos de los stores para calcular un reporte.
type Input struct {
	// Products snapshot completo del catálogo al momento de la consulta.
	Products []*entity.Product
	// Sales ventas filtradas por la ventana del reporte, más recientes primero.
	Sales []*entity.Transaction
	// TrendSales ventas de los últimos TrendDays días, sin filtro de ventana.
	TrendSales []*entity.Transaction
	Now        time.Time
	Location   *time.Location
}

// Compute arma el reporte completo. No modifica las entradas.
func Compute(in Input) Report {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	byID := indexProducts(in.Products)
	variance := Variance(byID, in.Sales)

	summary := Summary{
		TotalRevenue:     variance.Summary.TotalRevenue,
		TotalCost:        variance.Summary.TotalCost,
		TotalProfit:      variance.Summary.TotalProfit,
		ProfitMargin:     margin(variance.Summary.TotalProfit, variance.Summary.TotalRevenue),
		InventoryValue:   decimal.Zero,
		RetailValue:      decimal.Zero,
		TotalProducts:    len(in.Products),
		TransactionCount: len(in.Sales),
	}
	for _, p := range in.Products {
		stock := decimal.NewFromInt(int64(p.Stock))
		summary.InventoryValue = summary.InventoryValue.Add(stock.Mul(p.CostPrice))
		summary.RetailValue = summary.RetailValue.Add(stock.Mul(p.Price))
		summary.TotalStock += p.Stock
	}
	summary.PotentialProfit = summary.RetailValue.Sub(summary.InventoryValue)

	return Report{
		Summary:           summary,
		LowStockProducts:  LowStock(in.Products),
		BestSellers:       BestSellers(in.Sales),
		CategoryBreakdown: Categories(in.Products, byID, in.Sales),
		SalesTrend:        SalesTrend(in.TrendSales, in.Now, loc),
		Transactions:      variance.Transactions,
	}
}

// VarianceFor calcula el reporte de variación de las ventas contra el catálogo dado.
func VarianceFor(products []*entity.Product, sales []*entity.Transaction) VarianceReport {
	return Variance(indexProducts(products), sales)
}

// Variance calcula una fila por venta, en el orden recibido. Si el producto ya no
// existe el costo base se toma como 0.
func Variance(byID map[string]*entity.Product, sales []*entity.Transaction) VarianceReport {
	rep := VarianceReport{
		Summary: VarianceSummary{
			TotalRevenue: decimal.Zero,
			TotalCost:    decimal.Zero,
			TotalProfit:  decimal.Zero,
		},
		Transactions: make([]VarianceRow, 0, len(sales)),
	}
	for _, sale := range sales {
		costPrice := decimal.Zero
		if p, ok := byID[sale.ProductID]; ok {
			costPrice = p.CostPrice
		}
		revenue := sale.Total
		cost := costPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
		profit := revenue.Sub(cost)

		rep.Transactions = append(rep.Transactions, VarianceRow{
			TransactionID: sale.ID,
			ProductID:     sale.ProductID,
			ProductName:   sale.ProductName,
			Date:          sale.Date,
			Quantity:      sale.Quantity,
			SellingPrice:  sale.UnitPrice,
			CostPrice:     costPrice,
			Revenue:       revenue,
			Cost:          cost,
			Profit:        profit,
			Margin:        margin(profit, revenue),
		})
		rep.Summary.TotalRevenue = rep.Summary.TotalRevenue.Add(revenue)
		rep.Summary.TotalCost = rep.Summary.TotalCost.Add(cost)
	}
	rep.Summary.TotalProfit = rep.Summary.TotalRevenue.Sub(rep.Summary.TotalCost)
	return rep
}

// LowStock productos con stock < LowStockThreshold, ascendente por stock, máximo LowStockLimit.
// Empates conservan el orden del catálogo.
func LowStock(products []*entity.Product) []LowStockItem {
	low := make([]*entity.Product, 0)
	for _, p := range products {
		if p.Stock < LowStockThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	if len(low) > LowStockLimit {
		low = low[:LowStockLimit]
	}
	out := make([]LowStockItem, 0, len(low))
	for _, p := range low {
		out = append(out, LowStockItem{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Image: p.Image})
	}
	return out
}

// BestSellers agrupa por producto y ordena por cantidad descendente, máximo BestSellersLimit.
// Empates quedan en el orden de primera aparición en sales. El nombre es el de la
// venta más reciente cuando sales viene ordenado del más nuevo al más viejo.
func BestSellers(sales []*entity.Transaction) []BestSeller {
	index := make(map[string]int)
	agg := make([]BestSeller, 0)
	for _, sale := range sales {
		i, ok := index[sale.ProductID]
		if !ok {
			i = len(agg)
			index[sale.ProductID] = i
			agg = append(agg, BestSeller{ProductID: sale.ProductID, Name: sale.ProductName, Revenue: decimal.Zero})
		}
		agg[i].Quantity += sale.Quantity
		agg[i].Revenue = agg[i].Revenue.Add(sale.Total)
	}
	sort.SliceStable(agg, func(i, j int) bool { return agg[i].Quantity > agg[j].Quantity })
	if len(agg) > BestSellersLimit {
		agg = agg[:BestSellersLimit]
	}
	return agg
}

// Categories agrega stock y valor de todos los productos, más el ingreso de las ventas
// atribuido a la categoría actual del producto. Ordenado por nombre.
func Categories(products []*entity.Product, byID map[string]*entity.Product, sales []*entity.Transaction) []CategoryStat {
	stats := make(map[string]*CategoryStat)
	get := func(name string) *CategoryStat {
		s, ok := stats[name]
		if !ok {
			s = &CategoryStat{Name: name, Value: decimal.Zero, Revenue: decimal.Zero}
			stats[name] = s
		}
		return s
	}
	for _, p := range products {
		s := get(p.CategoryLabel())
		s.Count += p.Stock
		s.Value = s.Value.Add(decimal.NewFromInt(int64(p.Stock)).Mul(p.CostPrice))
	}
	for _, sale := range sales {
		p, ok := byID[sale.ProductID]
		if !ok {
			continue
		}
		s := get(p.CategoryLabel())
		s.Revenue = s.Revenue.Add(sale.Total)
	}

	out := make([]CategoryStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SalesTrend devuelve exactamente TrendDays puntos ascendentes que terminan en el día
// de now (en loc), con el ingreso de las ventas de cada día y cero donde no hubo ventas.
func SalesTrend(sales []*entity.Transaction, now time.Time, loc *time.Location) []TrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	start := StartOfDay(now, loc).AddDate(0, 0, -(TrendDays - 1))
	points := make([]TrendPoint, TrendDays)
	slot := make(map[string]int, TrendDays)
	for i := range points {
		day := start.AddDate(0, 0, i)
		points[i] = TrendPoint{Date: day, Revenue: decimal.Zero}
		slot[day.Format(dayLayout)] = i
	}
	for _, sale := range sales {
		if sale == nil || sale.Kind != entity.TransactionSell {
			continue
		}
		i, ok := slot[sale.Date.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(sale.Total)
	}
	return points
}

func indexProducts(products []*entity.Product) map[string]*entity.Product {
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}
