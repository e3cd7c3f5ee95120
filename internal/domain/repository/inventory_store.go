package repository

import (
	"context"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// InventoryStore puerto de persistencia de artículos y libro de movimientos.
//
// Cada llamada es atómica por sí sola, pero varias llamadas no se componen en una
// transacción: el motor asume que un lote puede quedar aplicado a medias.
type InventoryStore interface {
	// GetItem devuelve (nil, nil) si el artículo no existe.
	GetItem(ctx context.Context, id string) (*entity.InventoryItem, error)
	// PutItem hace upsert por id y devuelve el registro confirmado.
	PutItem(ctx context.Context, item entity.InventoryItem) (*entity.InventoryItem, error)
	PutItemsBatch(ctx context.Context, items []entity.InventoryItem) ([]entity.InventoryItem, error)
	InsertTransaction(ctx context.Context, tx entity.Transaction) (*entity.Transaction, error)
	InsertTransactionsBatch(ctx context.Context, txs []entity.Transaction) ([]entity.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	DeleteTransactionsBatch(ctx context.Context, ids []string) error
	DeleteItem(ctx context.Context, id string) error
	DeleteItemsBatch(ctx context.Context, ids []string) error

	// Lecturas para cargar el estado de la aplicación.
	ListItems(ctx context.Context) ([]entity.InventoryItem, error)
	// ListTransactions devuelve el libro ordenado de más reciente a más antiguo.
	ListTransactions(ctx context.Context) ([]entity.Transaction, error)
}
