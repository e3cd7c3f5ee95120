package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/entry"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
)

// EntryHandler formulario de entradas/salidas con alta rápida.
// Las sesiones son del usuario del token; otro usuario recibe 404.
type EntryHandler struct {
	svc *entry.Service
}

// NewEntryHandler construye el handler.
func NewEntryHandler(svc *entry.Service) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// Start godoc
// @Summary      Abrir formulario de entradas o salidas
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartEntryRequest  true  "INBOUND | OUTBOUND"
// @Success      201   {object}  dto.EntryResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Start(c *fiber.Ctx) error {
	var in dto.StartEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess, err := h.svc.Start(c.UserContext(), GetUsername(c), in.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(sess))
}

// Get godoc
// @Summary      Obtener formulario
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la sesión"
// @Success      200  {object}  dto.EntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) Get(c *fiber.Ctx) error {
	sess, err := h.svc.Get(c.UserContext(), GetUsername(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEntryResponse(sess))
}

// SetRows godoc
// @Summary      Reemplazar filas
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "id de la sesión"
// @Param        body  body  dto.SetRowsRequest  true  "filas"
// @Success      200   {object}  dto.EntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/rows [put]
func (h *EntryHandler) SetRows(c *fiber.Ctx) error {
	var in dto.SetRowsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rows := make([]entry.Row, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, entry.Row{ItemID: r.ItemID, Quantity: string(r.Quantity), Notes: r.Notes, Search: r.Search})
	}
	sess, err := h.svc.SetRows(c.UserContext(), GetUsername(c), c.Params("id"), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEntryResponse(sess))
}

// Search godoc
// @Summary      Buscar artículo para una fila
// @Description  En una entrada (INBOUND), sin coincidencias se abre el alta rápida con el texto buscado.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "id de la sesión"
// @Param        row   path  int                true  "fila (1-based)"
// @Param        body  body  dto.SearchRequest  true  "texto"
// @Success      200   {object}  dto.SearchResponse
// @Router       /api/entries/{id}/rows/{row}/search [post]
func (h *EntryHandler) Search(c *fiber.Ctx) error {
	row, err := c.ParamsInt("row")
	if err != nil {
		return respondError(c, domain.Invalid(0, "row", "fila inválida"))
	}
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.Search(c.UserContext(), GetUsername(c), c.Params("id"), row, in.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SearchResponse{Session: toEntryResponse(res.Session), Matches: dto.NewItemResponses(res.Matches)})
}

// SelectItem godoc
// @Summary      Asignar artículo a una fila
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id de la sesión"
// @Param        row   path  int                    true  "fila (1-based)"
// @Param        body  body  dto.SelectItemRequest  true  "itemId"
// @Success      200   {object}  dto.EntryResponse
// @Router       /api/entries/{id}/rows/{row}/select [post]
func (h *EntryHandler) SelectItem(c *fiber.Ctx) error {
	row, err := c.ParamsInt("row")
	if err != nil {
		return respondError(c, domain.Invalid(0, "row", "fila inválida"))
	}
	var in dto.SelectItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess, err := h.svc.SelectItem(c.UserContext(), GetUsername(c), c.Params("id"), row, in.ItemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEntryResponse(sess))
}

// ConfirmQuickAdd godoc
// @Summary      Confirmar alta rápida
// @Description  Crea categoría/ubicación si se pidió, luego el artículo con cantidad 0. La cantidad de la
//
//	fila se registra al enviar el formulario.
//
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "id de la sesión"
// @Param        body  body  dto.QuickAddRequest  true  "datos del artículo"
// @Success      201   {object}  dto.QuickAddResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/quick-add [post]
func (h *EntryHandler) ConfirmQuickAdd(c *fiber.Ctx) error {
	var in dto.QuickAddRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess, item, err := h.svc.ConfirmQuickAdd(c.UserContext(), GetUsername(c), c.Params("id"), entry.QuickAddForm{
		Name:           in.Name,
		Category:       in.Category,
		CreateCategory: in.CreateCategory,
		Location:       in.Location,
		CreateLocation: in.CreateLocation,
		Unit:           in.Unit,
		Price:          in.Price,
		MinStockLevel:  in.MinStockLevel,
		Description:    in.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.QuickAddResponse{Session: toEntryResponse(sess), Item: dto.NewItemResponse(*item)})
}

// CancelQuickAdd godoc
// @Summary      Cancelar alta rápida
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la sesión"
// @Success      200  {object}  dto.EntryResponse
// @Router       /api/entries/{id}/quick-add [delete]
func (h *EntryHandler) CancelQuickAdd(c *fiber.Ctx) error {
	sess, err := h.svc.CancelQuickAdd(c.UserContext(), GetUsername(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEntryResponse(sess))
}

// Visible godoc
// @Summary      Artículos seleccionables en el formulario
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la sesión"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/entries/{id}/items [get]
func (h *EntryHandler) Visible(c *fiber.Ctx) error {
	items, err := h.svc.Visible(c.UserContext(), GetUsername(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponses(items))
}

// Submit godoc
// @Summary      Enviar formulario como lote
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la sesión"
// @Success      201  {object}  dto.BatchTransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/submit [post]
func (h *EntryHandler) Submit(c *fiber.Ctx) error {
	res, err := h.svc.Submit(c.UserContext(), GetUsername(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BatchTransactionResponse{
		Items:        dto.NewItemResponses(res.Items),
		Transactions: dto.NewTransactionResponses(res.Transactions),
	})
}

// Discard godoc
// @Summary      Descartar formulario
// @Tags         entries
// @Security     Bearer
// @Param        id  path  string  true  "id de la sesión"
// @Success      204
// @Router       /api/entries/{id} [delete]
func (h *EntryHandler) Discard(c *fiber.Ctx) error {
	if err := h.svc.Discard(c.UserContext(), GetUsername(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toEntryResponse(s *entry.Session) dto.EntryResponse {
	rows := make([]dto.EntryRowDTO, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, dto.EntryRowDTO{ItemID: r.ItemID, Quantity: dto.RawQuantity(r.Quantity), Notes: r.Notes, Search: r.Search})
	}
	out := dto.EntryResponse{
		ID:                  s.ID,
		Type:                s.Type,
		Rows:                rows,
		Phase:               string(s.Phase),
		Overlay:             dto.NewItemResponses(s.Overlay),
		PendingTransactions: len(s.Unrecorded),
		UpdatedAt:           s.UpdatedAt,
	}
	if s.Pending != nil {
		out.Pending = &dto.PendingCreateDTO{Row: s.Pending.Row, Name: s.Pending.Name, Quantity: s.Pending.Quantity}
	}
	return out
}
