package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// AddItemResult artículo creado y, si hubo stock inicial, su transacción.
type AddItemResult struct {
	Item        entity.InventoryItem
	Transaction *entity.Transaction
}

// AddItem crea un artículo. El artículo se escribe antes que la transacción inicial;
// si esta falla el artículo queda creado y se devuelve el resultado parcial junto
// con un *domain.AdapterError.
func (s *Service) AddItem(ctx context.Context, in ledger.NewItem, user string) (res *AddItemResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opAddItem, start, err, false) }()

	plan, err := ledger.PlanAddItem(in, user, s.now(), s.ids)
	if err != nil {
		return nil, err
	}
	item, err := s.store.PutItem(ctx, plan.Item)
	if err != nil {
		s.log.Error().Err(err).Str("item_id", plan.Item.ID).Msg("alta de artículo fallida")
		return nil, &domain.AdapterError{Op: opAddItem, Step: stepPutItem, Err: err}
	}
	s.state.PutItems(*item)
	res = &AddItemResult{Item: *item}

	if plan.Initial != nil {
		tx, err := s.store.InsertTransaction(ctx, *plan.Initial)
		if err != nil {
			s.log.Error().Err(err).Str("item_id", item.ID).Msg("artículo creado, transacción inicial fallida")
			return res, &domain.AdapterError{Op: opAddItem, Step: stepInsertTransaction, Completed: 1, Err: err}
		}
		s.state.AddTransactions(*tx)
		res.Transaction = tx
	}
	s.log.Info().Str("item_id", item.ID).Str("name", item.Name).Str("quantity", item.Quantity.String()).Msg("artículo creado")
	return res, nil
}

// UpdateItem edita metadatos; la cantidad no cambia.
func (s *Service) UpdateItem(ctx context.Context, id string, ch ledger.ItemChanges) (res *entity.InventoryItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opUpdateItem, start, err, false) }()

	current, ok := s.state.Item(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated, err := ledger.PlanUpdateItem(current, ch, s.now())
	if err != nil {
		return nil, err
	}
	item, err := s.store.PutItem(ctx, updated)
	if err != nil {
		return nil, &domain.AdapterError{Op: opUpdateItem, Step: stepPutItem, Err: err}
	}
	s.state.PutItems(*item)
	return item, nil
}

// DeleteItems borra artículos. Sus transacciones quedan huérfanas en el libro.
func (s *Service) DeleteItems(ctx context.Context, ids []string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opDeleteItems, start, err, false) }()

	if len(ids) == 0 {
		return domain.Invalid(0, "ids", "no hay artículos que borrar")
	}
	for i, id := range ids {
		if _, ok := s.state.Item(id); !ok {
			return &domain.ValidationError{Row: i + 1, Field: "id", Reason: "artículo desconocido", Err: domain.ErrNotFound}
		}
	}
	if len(ids) == 1 {
		err = s.store.DeleteItem(ctx, ids[0])
	} else {
		err = s.store.DeleteItemsBatch(ctx, ids)
	}
	if err != nil {
		return &domain.AdapterError{Op: opDeleteItems, Step: stepDeleteItems, Err: err}
	}
	s.state.RemoveItems(ids...)
	s.log.Info().Strs("item_ids", ids).Msg("artículos borrados")
	return nil
}

// DeleteItem borra un artículo.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	err := s.DeleteItems(ctx, []string{id})
	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Err == domain.ErrNotFound {
		return domain.ErrNotFound
	}
	return err
}

// BatchResult registros confirmados de un lote.
type BatchResult struct {
	Items        []entity.InventoryItem // estado final por artículo, en orden de primera aparición
	Transactions []entity.Transaction
	// Unrecorded transacción de la fila cuyo artículo ya se escribió pero cuyo registro
	// falló. Reintentarla con RecordTransactions, nunca reenviando la fila.
	Unrecorded *entity.Transaction
}

// BatchTransaction aplica un lote de entradas o salidas. Todo el lote se valida antes
// de escribir. Después, por fila, se escribe el artículo y luego su transacción, en
// orden; si una llamada falla las filas anteriores quedan confirmadas y el
// *domain.AdapterError indica fila, paso y cuántas filas completas hubo.
func (s *Service) BatchTransaction(ctx context.Context, in ledger.BatchInput) (res *BatchResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opBatchTransaction, start, err, false) }()

	plan, err := ledger.PlanBatch(s.state, in, s.now(), s.ids)
	if err != nil {
		return nil, err
	}
	res = &BatchResult{}
	final := newItemSet()
	defer func() { res.Items = final.list() }()

	for i, st := range plan.Steps {
		item, err := s.store.PutItem(ctx, st.Item)
		if err != nil {
			s.log.Error().Err(err).Int("row", st.Row).Int("completed", i).Msg("lote interrumpido al actualizar artículo")
			return res, &domain.AdapterError{Op: opBatchTransaction, Step: stepPutItem, Row: st.Row, Completed: i, Err: err}
		}
		s.state.PutItems(*item)
		final.put(*item)

		tx, err := s.store.InsertTransaction(ctx, st.Transaction)
		if err != nil {
			s.log.Error().Err(err).Int("row", st.Row).Int("completed", i).Msg("lote interrumpido: artículo actualizado, transacción no registrada")
			unrecorded := st.Transaction
			res.Unrecorded = &unrecorded
			return res, &domain.AdapterError{Op: opBatchTransaction, Step: stepInsertTransaction, Row: st.Row, Completed: i, Err: err}
		}
		s.state.AddTransactions(*tx)
		res.Transactions = append(res.Transactions, *tx)
	}
	s.log.Info().Str("type", string(in.Type)).Int("entries", len(plan.Steps)).Str("user", plan.Steps[0].Transaction.User).Msg("lote registrado")
	return res, nil
}

// RecordTransactions registra transacciones cuyo artículo ya se escribió, sin tocar
// cantidades. El almacén las inserta por id, así que repetir una ya registrada no la
// duplica. Si una falla, las anteriores quedan registradas y Completed lo indica.
func (s *Service) RecordTransactions(ctx context.Context, txs []entity.Transaction) (out []entity.Transaction, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opRecordTransactions, start, err, false) }()

	for i, t := range txs {
		tx, err := s.store.InsertTransaction(ctx, t)
		if err != nil {
			s.log.Error().Err(err).Str("transaction_id", t.ID).Int("completed", i).Msg("registro de transacción pendiente fallido")
			return out, &domain.AdapterError{Op: opRecordTransactions, Step: stepInsertTransaction, Completed: i, Err: err}
		}
		s.state.AddTransactions(*tx)
		out = append(out, *tx)
	}
	if len(out) > 0 {
		s.log.Info().Int("transactions", len(out)).Msg("transacciones pendientes registradas")
	}
	return out, nil
}

// ImportResult resultado de una importación masiva.
type ImportResult struct {
	Items        []entity.InventoryItem
	Transactions []entity.Transaction
	Created      int
	Merged       int
}

// Import fusiona filas de una hoja de cálculo con el inventario. Dos llamadas por
// lote: artículos y luego transacciones. Si falla la segunda los artículos quedan
// confirmados.
func (s *Service) Import(ctx context.Context, rows []ledger.ImportRow, user string) (res *ImportResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opImport, start, err, false) }()

	plan, err := ledger.PlanImport(s.state.Items(), rows, user, s.now(), s.ids)
	if err != nil {
		return nil, err
	}
	res = &ImportResult{Created: plan.Created, Merged: plan.Merged}
	if len(plan.Items) == 0 {
		return res, nil
	}
	items, err := s.store.PutItemsBatch(ctx, plan.Items)
	if err != nil {
		return nil, &domain.AdapterError{Op: opImport, Step: stepPutItems, Err: err}
	}
	s.state.PutItems(items...)
	res.Items = items

	if len(plan.Transactions) > 0 {
		txs, err := s.store.InsertTransactionsBatch(ctx, plan.Transactions)
		if err != nil {
			s.log.Error().Err(err).Int("items", len(items)).Msg("importación: artículos confirmados, transacciones fallidas")
			return res, &domain.AdapterError{Op: opImport, Step: stepInsertTransactions, Completed: len(items), Err: err}
		}
		s.state.AddTransactions(txs...)
		res.Transactions = txs
	}
	s.log.Info().Int("created", plan.Created).Int("merged", plan.Merged).Int("transactions", len(res.Transactions)).Msg("importación aplicada")
	return res, nil
}

// ResetResult resumen de la puesta a cero.
type ResetResult struct {
	Items               int
	DeletedTransactions int
}

// ResetStock deja todas las cantidades en cero y vacía el libro. Si falla el borrado
// del libro, las transacciones restantes quedan marcadas como ya revertidas.
func (s *Service) ResetStock(ctx context.Context, user string) (res *ResetResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.finish(opResetStock, start, err, false) }()

	now := s.now()
	items := s.state.Items()
	for i := range items {
		items[i].Quantity = decimal.Zero
		items[i].LastUpdated = now
	}
	res = &ResetResult{}
	if len(items) > 0 {
		committed, err := s.store.PutItemsBatch(ctx, items)
		if err != nil {
			return nil, &domain.AdapterError{Op: opResetStock, Step: stepPutItems, Err: err}
		}
		s.state.PutItems(committed...)
		res.Items = len(committed)
	}

	txs := s.state.Transactions()
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	if len(ids) > 0 {
		if err := s.store.DeleteTransactionsBatch(ctx, ids); err != nil {
			s.state.MarkReversed(ids...)
			return res, &domain.AdapterError{Op: opResetStock, Step: stepDeleteTransactions, Completed: res.Items, Pending: ids, Err: err}
		}
		s.state.RemoveTransactions(ids...)
		res.DeletedTransactions = len(ids)
	}
	s.log.Warn().Str("user", user).Int("items", res.Items).Int("transactions", res.DeletedTransactions).Msg("stock puesto a cero")
	return res, nil
}

// itemSet conserva el último estado de cada artículo en orden de primera aparición.
type itemSet struct {
	order []string
	byID  map[string]entity.InventoryItem
}

func newItemSet() *itemSet { return &itemSet{byID: make(map[string]entity.InventoryItem)} }

func (s *itemSet) put(it entity.InventoryItem) {
	if _, ok := s.byID[it.ID]; !ok {
		s.order = append(s.order, it.ID)
	}
	s.byID[it.ID] = it
}

func (s *itemSet) list() []entity.InventoryItem {
	out := make([]entity.InventoryItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
