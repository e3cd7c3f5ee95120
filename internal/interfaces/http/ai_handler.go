package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
)

// AIHandler análisis del inventario asistido por IA.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Analyze godoc
// @Summary      Análisis ejecutivo del inventario
// @Description  Alertas críticas, reposición, patrones de uso y una recomendación de optimización,
//
//	a partir de los artículos y los últimos 10 movimientos. Timeout interno de 20 s.
//
// @Tags         ai
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AIAnalysisResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      408  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/ai/analysis [post]
func (h *AIHandler) Analyze(c *fiber.Ctx) error {
	out, err := h.uc.AnalyzeInventory(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
