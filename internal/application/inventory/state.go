package inventory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// State copia en memoria de artículos y libro, cargada desde el almacenamiento y
// actualizada solo con los registros que el almacenamiento confirma.
type State struct {
	mu       sync.RWMutex
	items    map[string]entity.InventoryItem
	order    []string             // orden de inserción de artículos
	txs      []entity.Transaction // más reciente primero
	reversed map[string]struct{}  // transacciones ya revertidas cuyo borrado falló
}

// NewState crea un estado vacío.
func NewState() *State {
	return &State{
		items:    make(map[string]entity.InventoryItem),
		reversed: make(map[string]struct{}),
	}
}

// Replace sustituye todo el contenido (carga o recarga completa).
func (s *State) Replace(items []entity.InventoryItem, txs []entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]entity.InventoryItem, len(items))
	s.order = s.order[:0]
	for _, it := range items {
		if _, ok := s.items[it.ID]; !ok {
			s.order = append(s.order, it.ID)
		}
		s.items[it.ID] = it
	}
	s.txs = append([]entity.Transaction(nil), txs...)
	sortNewestFirst(s.txs)
	s.reversed = make(map[string]struct{})
}

// Item implementa ledger.Items.
func (s *State) Item(id string) (entity.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	return it, ok
}

// Items copia de los artículos en orden de inserción.
func (s *State) Items() []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.InventoryItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// PutItems inserta o reemplaza artículos.
func (s *State) PutItems(items ...entity.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if _, ok := s.items[it.ID]; !ok {
			s.order = append(s.order, it.ID)
		}
		s.items[it.ID] = it
	}
}

// RemoveItems quita artículos; sus transacciones se conservan.
func (s *State) RemoveItems(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := toSet(ids)
	for id := range drop {
		delete(s.items, id)
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

// Transaction busca una transacción por id.
func (s *State) Transaction(id string) (entity.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return entity.Transaction{}, false
}

// Transactions copia del libro, más reciente primero.
func (s *State) Transactions() []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Transaction(nil), s.txs...)
}

// AddTransactions agrega registros confirmados al libro; un id ya presente se reemplaza.
func (s *State) AddTransactions(txs ...entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		if i := s.txIndex(tx.ID); i >= 0 {
			s.txs[i] = tx
			continue
		}
		s.txs = append(s.txs, tx)
	}
	sortNewestFirst(s.txs)
}

func (s *State) txIndex(id string) int {
	for i, tx := range s.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// RemoveTransactions quita registros del libro.
func (s *State) RemoveTransactions(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := toSet(ids)
	kept := s.txs[:0]
	for _, tx := range s.txs {
		if _, ok := drop[tx.ID]; !ok {
			kept = append(kept, tx)
		}
	}
	s.txs = kept
	for id := range drop {
		delete(s.reversed, id)
	}
}

// MarkReversed registra transacciones cuyo efecto ya se revirtió pero siguen en el libro.
func (s *State) MarkReversed(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.reversed[id] = struct{}{}
	}
}

// IsReversed indica si la transacción ya fue revertida.
func (s *State) IsReversed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reversed[id]
	return ok
}

// StockLevels total de artículos y cuántos están en stock bajo.
func (s *State) StockLevels() (total, low int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.IsLowStock() {
			low++
		}
	}
	return len(s.items), low
}

func sortNewestFirst(txs []entity.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
