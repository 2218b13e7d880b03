package analytics

import (
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/analytics"
)

func toReportDTO(r analytics.Report) dto.AnalyticsReportDTO {
	out := dto.AnalyticsReportDTO{
		Summary: dto.AnalyticsSummaryDTO{
			TotalRevenue:     r.Summary.TotalRevenue,
			TotalCost:        r.Summary.TotalCost,
			TotalProfit:      r.Summary.TotalProfit,
			ProfitMargin:     r.Summary.ProfitMargin,
			InventoryValue:   r.Summary.InventoryValue,
			RetailValue:      r.Summary.RetailValue,
			PotentialProfit:  r.Summary.PotentialProfit,
			TotalProducts:    r.Summary.TotalProducts,
			TotalStock:       r.Summary.TotalStock,
			TransactionCount: r.Summary.TransactionCount,
		},
		LowStockProducts:  make([]dto.LowStockProductDTO, 0, len(r.LowStockProducts)),
		BestSellers:       make([]dto.BestSellerDTO, 0, len(r.BestSellers)),
		CategoryBreakdown: make([]dto.CategoryStatDTO, 0, len(r.CategoryBreakdown)),
		SalesTrend:        make([]dto.SalesTrendPointDTO, 0, len(r.SalesTrend)),
		Transactions:      toVarianceRows(r.Transactions),
	}
	for _, p := range r.LowStockProducts {
		out.LowStockProducts = append(out.LowStockProducts, dto.LowStockProductDTO{
			ID: p.ProductID, Name: p.Name, Stock: p.Stock, Image: p.Image,
		})
	}
	for _, b := range r.BestSellers {
		out.BestSellers = append(out.BestSellers, dto.BestSellerDTO{
			ProductID: b.ProductID, Name: b.Name, Quantity: b.Quantity, Revenue: b.Revenue,
		})
	}
	for _, c := range r.CategoryBreakdown {
		out.CategoryBreakdown = append(out.CategoryBreakdown, dto.CategoryStatDTO{
			Name: c.Name, Count: c.Count, Value: c.Value, Revenue: c.Revenue,
		})
	}
	for _, p := range r.SalesTrend {
		out.SalesTrend = append(out.SalesTrend, dto.SalesTrendPointDTO{Date: p.Key(), Revenue: p.Revenue})
	}
	return out
}

func toVarianceDTO(r analytics.VarianceReport) dto.VarianceReportDTO {
	return dto.VarianceReportDTO{
		Summary: dto.VarianceSummaryDTO{
			TotalRevenue: r.Summary.TotalRevenue,
			TotalCost:    r.Summary.TotalCost,
			TotalProfit:  r.Summary.TotalProfit,
		},
		Transactions: toVarianceRows(r.Transactions),
	}
}

func toVarianceRows(rows []analytics.VarianceRow) []dto.VarianceRowDTO {
	out := make([]dto.VarianceRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.VarianceRowDTO{
			ID:           row.TransactionID,
			Date:         row.Date,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			Quantity:     row.Quantity,
			SellingPrice: row.SellingPrice,
			CostPrice:    row.CostPrice,
			Revenue:      row.Revenue,
			Cost:         row.Cost,
			Profit:       row.Profit,
			Margin:       row.Margin,
		})
	}
	return out
}
