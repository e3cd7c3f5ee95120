// Package memory implementa los puertos de almacenamiento en memoria. Sirve para
// desarrollo local (STORE_DRIVER=memory) y para las pruebas de los handlers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
)

var _ repository.InventoryStore = (*InventoryStore)(nil)

// InventoryStore artículos y libro en mapas protegidos por un RWMutex.
// Cada llamada es atómica, igual que en Postgres.
type InventoryStore struct {
	mu    sync.RWMutex
	items map[string]entity.InventoryItem
	order []string
	txs   map[string]entity.Transaction
}

// NewInventoryStore crea un almacén vacío.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		items: make(map[string]entity.InventoryItem),
		txs:   make(map[string]entity.Transaction),
	}
}

// GetItem devuelve (nil, nil) si no existe.
func (s *InventoryStore) GetItem(_ context.Context, id string) (*entity.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// PutItem upsert por id.
func (s *InventoryStore) PutItem(_ context.Context, item entity.InventoryItem) (*entity.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(item)
	return &item, nil
}

// PutItemsBatch upsert de todos los artículos en una sola llamada.
func (s *InventoryStore) PutItemsBatch(_ context.Context, items []entity.InventoryItem) ([]entity.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.putLocked(it)
	}
	return append([]entity.InventoryItem(nil), items...), nil
}

func (s *InventoryStore) putLocked(item entity.InventoryItem) {
	if _, ok := s.items[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
}

// InsertTransaction agrega un registro; reinsertar el mismo id lo reemplaza.
func (s *InventoryStore) InsertTransaction(_ context.Context, tx entity.Transaction) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = tx
	return &tx, nil
}

func (s *InventoryStore) InsertTransactionsBatch(_ context.Context, txs []entity.Transaction) ([]entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		s.txs[tx.ID] = tx
	}
	return append([]entity.Transaction(nil), txs...), nil
}

func (s *InventoryStore) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.txs, id)
	return nil
}

func (s *InventoryStore) DeleteTransactionsBatch(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.txs, id)
	}
	return nil
}

func (s *InventoryStore) DeleteItem(ctx context.Context, id string) error {
	return s.DeleteItemsBatch(ctx, []string{id})
}

func (s *InventoryStore) DeleteItemsBatch(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.items, id)
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return nil
}

// ListItems en orden de alta.
func (s *InventoryStore) ListItems(context.Context) ([]entity.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.InventoryItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// ListTransactions más reciente primero; a igual timestamp, por id.
func (s *InventoryStore) ListTransactions(context.Context) ([]entity.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
