package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/report"
)

// ReportHandler informes imprimibles.
type ReportHandler struct {
	uc *report.StockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.StockReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockPDF godoc
// @Summary      Informe de existencias en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        low_stock  query  bool  false  "solo stock bajo"
// @Success      200
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	b, err := h.uc.StockPDF(c.UserContext(), GetUsername(c), c.QueryBool("low_stock"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="existencias-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(b)
}
