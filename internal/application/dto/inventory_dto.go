package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// RawQuantity cantidad de una fila tal como llega del formulario: número, texto o
// null. Se conserva como texto para que el motor distinga vacío de no numérico.
type RawQuantity string

// UnmarshalJSON acepta 5, 2.5, "5" o null.
func (q *RawQuantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = RawQuantity(s)
		return nil
	}
	*q = RawQuantity(b)
	return nil
}

// ItemResponse artículo de inventario.
type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Location      string          `json:"location"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Price         decimal.Decimal `json:"price"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	Description   string          `json:"description,omitempty"`
	LowStock      bool            `json:"lowStock"`
}

// NewItemResponse mapea la entidad.
func NewItemResponse(it entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Category:      it.Category,
		Location:      it.Location,
		Quantity:      it.Quantity,
		Unit:          it.Unit,
		MinStockLevel: it.MinStockLevel,
		Price:         it.Price,
		LastUpdated:   it.LastUpdated,
		Description:   it.Description,
		LowStock:      it.IsLowStock(),
	}
}

// NewItemResponses mapea una lista (nunca nil, para serializar []).
func NewItemResponses(items []entity.InventoryItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it))
	}
	return out
}

// CreateItemRequest body de POST /api/items. Quantity es el stock inicial.
type CreateItemRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Location      string          `json:"location"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
}

// UpdateItemRequest body de PUT /api/items/:id; la cantidad no se edita.
type UpdateItemRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Location      string          `json:"location"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
}

// CreateItemResponse artículo creado y su transacción de stock inicial, si la hubo.
type CreateItemResponse struct {
	Item        ItemResponse         `json:"item"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// DeleteItemsRequest body de POST /api/items/delete.
type DeleteItemsRequest struct {
	IDs []string `json:"ids"`
}

// TransactionResponse registro del libro.
type TransactionResponse struct {
	ID        string                 `json:"id"`
	ItemID    string                 `json:"itemId"`
	ItemName  string                 `json:"itemName"`
	Type      entity.TransactionType `json:"type"`
	Quantity  decimal.Decimal        `json:"quantity"`
	Timestamp time.Time              `json:"timestamp"`
	User      string                 `json:"user"`
	Notes     string                 `json:"notes,omitempty"`
}

// NewTransactionResponse mapea la entidad.
func NewTransactionResponse(tx entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		ItemID:    tx.ItemID,
		ItemName:  tx.ItemName,
		Type:      tx.Type,
		Quantity:  tx.Quantity,
		Timestamp: tx.Timestamp,
		User:      tx.User,
		Notes:     tx.Notes,
	}
}

// NewTransactionResponses mapea una lista.
func NewTransactionResponses(txs []entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

// TransactionPage respuesta paginada de GET /api/transactions.
type TransactionPage struct {
	Data []TransactionResponse `json:"data"`
	Page PageResponse          `json:"page"`
}

// BatchEntryRequest fila de un lote.
type BatchEntryRequest struct {
	ItemID   string      `json:"itemId"`
	Quantity RawQuantity `json:"quantity"`
	Notes    string      `json:"notes"`
}

// BatchTransactionRequest body de POST /api/transactions/batch.
type BatchTransactionRequest struct {
	Type    entity.TransactionType `json:"type"`
	Entries []BatchEntryRequest    `json:"entries"`
}

// BatchTransactionResponse estado final de los artículos tocados y transacciones creadas.
type BatchTransactionResponse struct {
	Items        []ItemResponse        `json:"items"`
	Transactions []TransactionResponse `json:"transactions"`
}

// UndoRequest body de POST /api/transactions/undo.
type UndoRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

// OrphanResponse transacción deshecha sin artículo que ajustar.
type OrphanResponse struct {
	TransactionID string `json:"transactionId"`
	ItemID        string `json:"itemId"`
}

// UndoResponse resultado de deshacer. Degraded indica huérfanas.
type UndoResponse struct {
	Items      []ItemResponse   `json:"items"`
	DeletedIDs []string         `json:"deletedIds"`
	Orphans    []OrphanResponse `json:"orphans"`
	Degraded   bool             `json:"degraded"`
}

// NewOrphanResponses mapea referencias huérfanas.
func NewOrphanResponses(refs []domain.OrphanReference) []OrphanResponse {
	out := make([]OrphanResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, OrphanResponse{TransactionID: r.TransactionID, ItemID: r.ItemID})
	}
	return out
}

// ImportRowRequest fila ya interpretada de la hoja de cálculo.
type ImportRowRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Location      string          `json:"location"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Description   string          `json:"description"`
}

// ImportRequest body de POST /api/items/import.
type ImportRequest struct {
	Rows []ImportRowRequest `json:"rows"`
}

// ImportResponse resumen de la importación.
type ImportResponse struct {
	Created      int                   `json:"created"`
	Merged       int                   `json:"merged"`
	Items        []ItemResponse        `json:"items"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ResetStockResponse resumen de POST /api/admin/reset-stock.
type ResetStockResponse struct {
	Items               int `json:"items"`
	DeletedTransactions int `json:"deletedTransactions"`
}
