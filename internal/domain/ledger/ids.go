// Package ledger contiene el motor de mutaciones del inventario: funciones puras
// que, dado el estado actual y la entrada de una operación, calculan los nuevos
// estados de artículo y los registros del libro que deben persistirse.
// No hace I/O; el orden y el manejo de fallos de las escrituras es del llamador.
package ledger

import (
	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// Prefijos de id por tipo de registro.
const (
	PrefixItem        = "item"
	PrefixTransaction = "tx"
	PrefixCategory    = "cat"
	PrefixLocation    = "loc"
	PrefixUser        = "user"
	PrefixSession     = "entry"
)

// IDSource genera ids únicos. No se deriva orden de ellos.
type IDSource interface {
	NewID(prefix string) string
}

// UUIDSource genera ids "<prefijo>_<uuid v4>".
type UUIDSource struct{}

// NewID implementa IDSource.
func (UUIDSource) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// InitialTransactionID id de la transacción de stock inicial, derivado del id del artículo
// para que reintentar el alta no duplique la entrada.
func InitialTransactionID(itemID string) string {
	return "tx_init_" + itemID
}

// Items vista de solo lectura sobre los artículos conocidos.
type Items interface {
	Item(id string) (entity.InventoryItem, bool)
}

// ItemIndex implementación de Items sobre un mapa.
type ItemIndex map[string]entity.InventoryItem

// Item implementa Items.
func (ix ItemIndex) Item(id string) (entity.InventoryItem, bool) {
	it, ok := ix[id]
	return it, ok
}

// IndexItems construye un ItemIndex a partir de una lista.
func IndexItems(items []entity.InventoryItem) ItemIndex {
	ix := make(ItemIndex, len(items))
	for _, it := range items {
		ix[it.ID] = it
	}
	return ix
}
