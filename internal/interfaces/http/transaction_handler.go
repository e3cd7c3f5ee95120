package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// TransactionHandler libro de movimientos: historial, lotes y deshacer.
type TransactionHandler struct {
	inv *inventory.Service
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(inv *inventory.Service) *TransactionHandler {
	return &TransactionHandler{inv: inv}
}

// List godoc
// @Summary      Historial de transacciones
// @Description  Más reciente primero. from/to aceptan RFC3339 o YYYY-MM-DD (to incluye el día completo).
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type     query  string  false  "INBOUND | OUTBOUND"
// @Param        item_id  query  string  false  "artículo"
// @Param        from     query  string  false  "desde"
// @Param        to       query  string  false  "hasta"
// @Param        limit    query  int     false  "tamaño de página (50 por defecto, máx. 500)"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {object}  dto.TransactionPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	f := inventory.TransactionFilter{
		Type:   entity.TransactionType(c.Query("type")),
		ItemID: c.Query("item_id"),
	}
	if f.Type != "" && !f.Type.Valid() {
		return respondError(c, domain.Invalid(0, "type", "debe ser INBOUND u OUTBOUND"))
	}
	var err error
	if f.From, err = parseDate(c.Query("from"), false); err != nil {
		return respondError(c, domain.Invalid(0, "from", "fecha inválida"))
	}
	if f.To, err = parseDate(c.Query("to"), true); err != nil {
		return respondError(c, domain.Invalid(0, "to", "fecha inválida"))
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, domain.Invalid(0, "limit", "paginación inválida"))
	}
	page.DefaultPage()

	all := h.inv.ListTransactions(f)
	from, to := page.Window(len(all))
	return c.JSON(dto.TransactionPage{
		Data: dto.NewTransactionResponses(all[from:to]),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	})
}

// parseDate vacío devuelve el instante cero (sin filtro).
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// Batch godoc
// @Summary      Registrar lote de entradas o salidas
// @Description  Se valida el lote completo antes de escribir. Un fallo de almacenamiento a mitad
//
//	devuelve 502 con la fila y las filas ya confirmadas.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchTransactionRequest  true  "tipo y filas"
// @Success      201   {object}  dto.BatchTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transactions/batch [post]
func (h *TransactionHandler) Batch(c *fiber.Ctx) error {
	var in dto.BatchTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entries := make([]ledger.BatchEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		entries = append(entries, ledger.BatchEntry{ItemID: e.ItemID, Quantity: string(e.Quantity), Notes: e.Notes})
	}
	res, err := h.inv.BatchTransaction(c.UserContext(), ledger.BatchInput{
		Type:    in.Type,
		User:    GetUsername(c),
		Entries: entries,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BatchTransactionResponse{
		Items:        dto.NewItemResponses(res.Items),
		Transactions: dto.NewTransactionResponses(res.Transactions),
	})
}

// Undo godoc
// @Summary      Deshacer una transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la transacción"
// @Success      200  {object}  dto.UndoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/undo [post]
func (h *TransactionHandler) Undo(c *fiber.Ctx) error {
	res, err := h.inv.Undo(c.UserContext(), c.Params("id"))
	return h.respondUndo(c, res, err)
}

// UndoMany godoc
// @Summary      Deshacer varias transacciones por efecto neto
// @Description  Una escritura por artículo y un único borrado de todas las transacciones.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UndoRequest  true  "transactionIds"
// @Success      200   {object}  dto.UndoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transactions/undo [post]
func (h *TransactionHandler) UndoMany(c *fiber.Ctx) error {
	var in dto.UndoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.inv.BatchUndo(c.UserContext(), in.TransactionIDs)
	return h.respondUndo(c, res, err)
}

func (h *TransactionHandler) respondUndo(c *fiber.Ctx, res *inventory.UndoResult, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UndoResponse{
		Items:      dto.NewItemResponses(res.Items),
		DeletedIDs: nonNil(res.DeletedIDs),
		Orphans:    dto.NewOrphanResponses(res.Orphans),
		Degraded:   res.Degraded,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
