package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// ItemHandler artículos: consulta, alta, edición de metadatos, borrado e importación.
type ItemHandler struct {
	inv *inventory.Service
}

// NewItemHandler construye el handler.
func NewItemHandler(inv *inventory.Service) *ItemHandler {
	return &ItemHandler{inv: inv}
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q          query  string  false  "búsqueda parcial por nombre"
// @Param        category   query  string  false  "categoría"
// @Param        low_stock  query  bool    false  "solo stock bajo"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items := h.inv.ListItems(inventory.ItemFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		LowStock: c.QueryBool("low_stock"),
	})
	return c.JSON(dto.NewItemResponses(items))
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "id del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	it, err := h.inv.GetItem(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if it == nil {
		return respondError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.NewItemResponse(*it))
}

// Create godoc
// @Summary      Crear artículo
// @Description  Con cantidad inicial > 0 registra además una transacción INBOUND tx_init_<id>.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "artículo"
// @Success      201   {object}  dto.CreateItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.inv.AddItem(c.UserContext(), ledger.NewItem{
		Name:          in.Name,
		Category:      in.Category,
		Location:      in.Location,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		MinStockLevel: in.MinStockLevel,
		Price:         in.Price,
		Description:   in.Description,
	}, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CreateItemResponse{Item: dto.NewItemResponse(res.Item)}
	if res.Transaction != nil {
		tx := dto.NewTransactionResponse(*res.Transaction)
		out.Transaction = &tx
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar metadatos de un artículo
// @Description  La cantidad no se edita: solo cambia mediante transacciones.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "metadatos"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	it, err := h.inv.UpdateItem(c.UserContext(), c.Params("id"), ledger.ItemChanges{
		Name:          in.Name,
		Category:      in.Category,
		Location:      in.Location,
		Unit:          in.Unit,
		MinStockLevel: in.MinStockLevel,
		Price:         in.Price,
		Description:   in.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponse(*it))
}

// Delete godoc
// @Summary      Borrar artículo
// @Description  Sus transacciones quedan en el libro como huérfanas.
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "id del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.inv.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMany godoc
// @Summary      Borrar varios artículos
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.DeleteItemsRequest  true  "ids"
// @Success      204
// @Router       /api/items/delete [post]
func (h *ItemHandler) DeleteMany(c *fiber.Ctx) error {
	var in dto.DeleteItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.inv.DeleteItems(c.UserContext(), in.IDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar hoja de cálculo
// @Description  Fusiona por nombre normalizado: suma cantidades a los existentes y crea el resto.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "filas"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rows := make([]ledger.ImportRow, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, ledger.ImportRow{
			Name:          r.Name,
			Category:      r.Category,
			Location:      r.Location,
			Quantity:      r.Quantity,
			Unit:          r.Unit,
			Price:         r.Price,
			MinStockLevel: r.MinStockLevel,
			Description:   r.Description,
		})
	}
	res, err := h.inv.Import(c.UserContext(), rows, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ImportResponse{
		Created:      res.Created,
		Merged:       res.Merged,
		Items:        dto.NewItemResponses(res.Items),
		Transactions: dto.NewTransactionResponses(res.Transactions),
	})
}
