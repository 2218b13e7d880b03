package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// ReportHandler expone la analítica de ventas y el reporte de variación.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Analytics godoc
// @Summary      Reporte de analítica
// @Description  Resumen, stock bajo, más vendidos, categorías, tendencia de 7 días y variación por venta.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        endDate    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.AnalyticsReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/analytics [get]
func (h *ReportHandler) Analytics(c *fiber.Ctx) error {
	in := dto.AnalyticsRequest{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	out, err := h.uc.ComputeReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Variance godoc
// @Summary      Reporte de variación
// @Description  Utilidad por venta sobre todo el histórico, con el costo base actual.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VarianceReportDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/variance [get]
func (h *ReportHandler) Variance(c *fiber.Ctx) error {
	out, err := h.uc.VarianceReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VariancePDF godoc
// @Summary      Reporte de variación en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/variance.pdf [get]
func (h *ReportHandler) VariancePDF(c *fiber.Ctx) error {
	pdf, err := h.uc.VariancePDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("variacion-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
