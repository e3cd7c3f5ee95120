// Package inventory orquesta el motor de mutaciones contra el almacenamiento y
// mantiene el estado en memoria que leen las consultas.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

// Nombres de operación (métricas, logs y AdapterError.Op).
const (
	opAddItem            = "add_item"
	opUpdateItem         = "update_item"
	opDeleteItems        = "delete_items"
	opBatchTransaction   = "batch_transaction"
	opBatchUndo          = "batch_undo"
	opImport             = "import"
	opRecordTransactions = "record_transactions"
	opResetStock         = "reset_stock"
	opReload             = "reload"
)

// Llamadas al almacenamiento (AdapterError.Step).
const (
	stepPutItem            = "put_item"
	stepPutItems           = "put_items"
	stepInsertTransaction  = "insert_transaction"
	stepInsertTransactions = "insert_transactions"
	stepDeleteTransactions = "delete_transactions"
	stepDeleteItems        = "delete_items"
)

// Service ejecuta los planes del motor contra el InventoryStore.
//
// Las llamadas al almacenamiento no se componen en una transacción: cada operación
// documenta qué queda confirmado si falla a mitad. Las mutaciones se serializan
// dentro del proceso; no hay control de concurrencia entre procesos.
type Service struct {
	store   repository.InventoryStore
	state   *State
	ids     ledger.IDSource
	metrics Metrics
	log     *logger.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewService construye el servicio. El estado arranca vacío hasta llamar a Reload.
func NewService(store repository.InventoryStore, ids ledger.IDSource, metrics Metrics, log *logger.Logger) *Service {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:   store,
		state:   NewState(),
		ids:     ids,
		metrics: metrics,
		log:     log.Component("inventory"),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Reload carga artículos y libro desde el almacenamiento y reemplaza el estado.
func (s *Service) Reload(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opReload, start, err, false) }()

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("cargar artículos: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("cargar transacciones: %w", err)
	}
	s.state.Replace(items, txs)
	s.log.Info().Int("items", len(items)).Int("transactions", len(txs)).Msg("estado de inventario cargado")
	return nil
}

// ItemFilter filtros del listado de artículos.
type ItemFilter struct {
	Query    string // coincidencia parcial por nombre normalizado
	Category string
	LowStock bool
}

// ListItems lista artículos del estado en orden de alta.
func (s *Service) ListItems(f ItemFilter) []entity.InventoryItem {
	items := s.state.Items()
	if strings.TrimSpace(f.Query) != "" {
		items = ledger.SearchByName(items, f.Query)
	}
	out := make([]entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if f.Category != "" && ledger.NormalizeName(it.Category) != ledger.NormalizeName(f.Category) {
			continue
		}
		if f.LowStock && !it.IsLowStock() {
			continue
		}
		out = append(out, it)
	}
	return out
}

// GetItem obtiene un artículo por id; (nil, nil) si no existe.
func (s *Service) GetItem(id string) (*entity.InventoryItem, error) {
	it, ok := s.state.Item(id)
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// TransactionFilter filtros del historial.
type TransactionFilter struct {
	Type   entity.TransactionType
	ItemID string
	From   time.Time
	To     time.Time
	Limit  int
}

// ListTransactions historial filtrado, más reciente primero.
func (s *Service) ListTransactions(f TransactionFilter) []entity.Transaction {
	all := s.state.Transactions()
	out := make([]entity.Transaction, 0, len(all))
	for _, tx := range all {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.ItemID != "" && tx.ItemID != f.ItemID {
			continue
		}
		if !f.From.IsZero() && tx.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && tx.Timestamp.After(f.To) {
			continue
		}
		out = append(out, tx)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// finish registra métricas del resultado de una operación.
func (s *Service) finish(op string, start time.Time, err error, degraded bool) {
	outcome := OutcomeOK
	var ve *domain.ValidationError
	var ae *domain.AdapterError
	switch {
	case errors.As(err, &ve):
		outcome = OutcomeValidation
	case errors.As(err, &ae):
		outcome = OutcomeAdapter
	case err != nil:
		outcome = "error"
	case degraded:
		outcome = OutcomeDegraded
	}
	s.metrics.ObserveOperation(op, outcome, time.Since(start))
	s.metrics.SetStockLevels(s.state.StockLevels())
}
