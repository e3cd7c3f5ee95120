package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-hotel/internal/application/analytics"
)

// DashboardHandler resumen del inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del inventario
// @Description  Unidades, valor total, stock bajo con cantidad sugerida, entradas/salidas y artículos por categoría.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
