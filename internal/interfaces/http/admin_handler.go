package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
)

// AdminHandler acciones de mantenimiento (solo admin).
type AdminHandler struct {
	inv *inventory.Service
}

// NewAdminHandler construye el handler.
func NewAdminHandler(inv *inventory.Service) *AdminHandler {
	return &AdminHandler{inv: inv}
}

// ResetStock godoc
// @Summary      Poner todo el stock a cero
// @Description  Deja todas las cantidades en 0 y vacía el libro de movimientos.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ResetStockResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/reset-stock [post]
func (h *AdminHandler) ResetStock(c *fiber.Ctx) error {
	res, err := h.inv.ResetStock(c.UserContext(), GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ResetStockResponse{Items: res.Items, DeletedTransactions: res.DeletedTransactions})
}

// Reload godoc
// @Summary      Recargar el estado desde el almacenamiento
// @Description  Útil tras un fallo de persistencia a mitad de una operación.
// @Tags         admin
// @Security     Bearer
// @Success      204
// @Router       /api/admin/reload [post]
func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	if err := h.inv.Reload(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
