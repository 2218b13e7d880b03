// Package analytics contiene los casos de uso de reportes: analítica de ventas,
// variación de utilidad por transacción y su exportación a PDF.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// VarianceRenderer genera el documento del reporte de variación.
type VarianceRenderer interface {
	RenderVariance(report dto.VarianceReportDTO, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase arma los reportes a partir del catálogo actual y del ledger.
// Se recalcula en cada llamada; no hay caché.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.TransactionRepository
	renderer    VarianceRenderer
	loc         *time.Location
	log         *logger.Logger
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	ledgerRepo repository.TransactionRepository,
	renderer VarianceRenderer,
	loc *time.Location,
	log *logger.Logger,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		renderer:    renderer,
		loc:         loc,
		log:         log,
		now:         time.Now,
	}
}

// ComputeReport construye el reporte completo para el rango dado (YYYY-MM-DD o RFC3339, ambos opcionales).
//
// Tres lecturas en paralelo:
//  1. ListAll productos         → resumen de inventario, stock bajo, categorías
//  2. ventas SELL de la ventana → resumen, más vendidos, variación
//  3. ventas SELL de 7 días     → tendencia (ignora la ventana)
//
// Si cualquiera falla el reporte completo falla.
func (uc *ReportUseCase) ComputeReport(ctx context.Context, in dto.AnalyticsRequest) (*dto.AnalyticsReportDTO, error) {
	window, err := analytics.ParseWindow(in.StartDate, in.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	trend := analytics.TrendWindow(now, uc.loc)

	// ── Goroutines para paralelizar las lecturas ──────────────────────────────
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	type salesResult struct {
		sales []*entity.Transaction
		err   error
	}

	productsCh := make(chan productsResult, 1)
	salesCh := make(chan salesResult, 1)
	trendCh := make(chan salesResult, 1)

	go func() {
		products, err := uc.productRepo.ListAll(ctx)
		productsCh <- productsResult{products, err}
	}()
	go func() {
		sales, err := uc.listSales(ctx, window)
		salesCh <- salesResult{sales, err}
	}()
	go func() {
		sales, err := uc.listSales(ctx, trend)
		trendCh <- salesResult{sales, err}
	}()

	products := <-productsCh
	sales := <-salesCh
	trendSales := <-trendCh

	if products.err != nil {
		return nil, uc.fail("analytics.ComputeReport: productos", products.err)
	}
	if sales.err != nil {
		return nil, uc.fail("analytics.ComputeReport: ventas", sales.err)
	}
	if trendSales.err != nil {
		return nil, uc.fail("analytics.ComputeReport: tendencia", trendSales.err)
	}

	report := analytics.Compute(analytics.Input{
		Products:   products.products,
		Sales:      analytics.FilterSales(sales.sales, window),
		TrendSales: trendSales.sales,
		Now:        now,
		Location:   uc.loc,
	})
	out := toReportDTO(report)
	return &out, nil
}

// VarianceReport calcula la variación sobre todo el histórico de ventas.
func (uc *ReportUseCase) VarianceReport(ctx context.Context) (*dto.VarianceReportDTO, error) {
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	type salesResult struct {
		sales []*entity.Transaction
		err   error
	}
	productsCh := make(chan productsResult, 1)
	salesCh := make(chan salesResult, 1)

	go func() {
		products, err := uc.productRepo.ListAll(ctx)
		productsCh <- productsResult{products, err}
	}()
	go func() {
		sales, err := uc.listSales(ctx, analytics.Window{})
		salesCh <- salesResult{sales, err}
	}()

	products := <-productsCh
	sales := <-salesCh
	if products.err != nil {
		return nil, uc.fail("analytics.VarianceReport: productos", products.err)
	}
	if sales.err != nil {
		return nil, uc.fail("analytics.VarianceReport: ventas", sales.err)
	}

	out := toVarianceDTO(analytics.VarianceFor(products.products, sales.sales))
	return &out, nil
}

// VariancePDF renderiza el reporte de variación completo.
func (uc *ReportUseCase) VariancePDF(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("analytics.VariancePDF: sin generador de PDF configurado")
	}
	rep, err := uc.VarianceReport(ctx)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderVariance(*rep, uc.now().In(uc.loc))
	if err != nil {
		return nil, fmt.Errorf("analytics.VariancePDF: %w", err)
	}
	return pdf, nil
}

func (uc *ReportUseCase) listSales(ctx context.Context, w analytics.Window) ([]*entity.Transaction, error) {
	return uc.ledgerRepo.List(ctx, repository.TransactionFilter{
		Kind: entity.TransactionSell,
		From: w.From,
		To:   w.To,
	})
}

func (uc *ReportUseCase) fail(op string, err error) error {
	uc.log.Error().Err(err).Str("op", op).Msg("reporte falló")
	return domain.StoreError(op, err)
}
