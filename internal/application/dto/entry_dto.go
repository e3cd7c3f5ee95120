package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// StartEntryRequest body de POST /api/entries.
type StartEntryRequest struct {
	Type entity.TransactionType `json:"type"`
}

// EntryRowDTO fila del formulario de entradas/salidas.
type EntryRowDTO struct {
	ItemID   string      `json:"itemId"`
	Quantity RawQuantity `json:"quantity"`
	Notes    string      `json:"notes"`
	Search   string      `json:"search"`
}

// SetRowsRequest body de PUT /api/entries/:id/rows.
type SetRowsRequest struct {
	Rows []EntryRowDTO `json:"rows"`
}

// PendingCreateDTO borrador de alta rápida.
type PendingCreateDTO struct {
	Row      int    `json:"row"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// EntryResponse sesión del formulario.
type EntryResponse struct {
	ID                  string                 `json:"id"`
	Type                entity.TransactionType `json:"type"`
	Rows                []EntryRowDTO          `json:"rows"`
	Phase               string                 `json:"phase"`
	Pending             *PendingCreateDTO      `json:"pending,omitempty"`
	Overlay             []ItemResponse         `json:"overlay"`
	PendingTransactions int                    `json:"pendingTransactions,omitempty"` // transacciones por registrar en el próximo envío
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// SearchRequest body de POST /api/entries/:id/rows/:row/search.
type SearchRequest struct {
	Text string `json:"text"`
}

// SelectItemRequest body de POST /api/entries/:id/rows/:row/select.
type SelectItemRequest struct {
	ItemID string `json:"itemId"`
}

// SearchResponse coincidencias y sesión actualizada.
type SearchResponse struct {
	Session EntryResponse  `json:"session"`
	Matches []ItemResponse `json:"matches"`
}

// QuickAddRequest body de POST /api/entries/:id/quick-add.
type QuickAddRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	CreateCategory bool            `json:"createCategory"`
	Location       string          `json:"location"`
	CreateLocation bool            `json:"createLocation"`
	Unit           string          `json:"unit"`
	Price          decimal.Decimal `json:"price"`
	MinStockLevel  decimal.Decimal `json:"minStockLevel"`
	Description    string          `json:"description"`
}

// QuickAddResponse artículo creado y sesión de vuelta en reposo.
type QuickAddResponse struct {
	Session EntryResponse `json:"session"`
	Item    ItemResponse  `json:"item"`
}
