package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// UndoResult resultado de deshacer. Degraded es true si alguna transacción no tenía
// artículo que ajustar (se borró el registro igualmente).
type UndoResult struct {
	Items      []entity.InventoryItem
	DeletedIDs []string
	Orphans    []domain.OrphanReference
	Degraded   bool
}

// Undo deshace una transacción; es BatchUndo con un solo elemento.
func (s *Service) Undo(ctx context.Context, txID string) (*UndoResult, error) {
	return s.BatchUndo(ctx, []string{txID})
}

// BatchUndo deshace varias transacciones por efecto neto: una escritura por artículo
// (en orden de id) y un único borrado por lotes de todas las transacciones.
//
// Si falla la escritura de un artículo, se siguen borrando las transacciones cuyo
// efecto sí se aplicó (más huérfanas y grupos de delta cero), nunca las del artículo
// fallido ni las de los siguientes. Si falla el borrado, el AdapterError lista en
// Pending las transacciones ya revertidas que siguen en el libro; repetir el deshacer
// sobre ellas solo reintenta el borrado.
func (s *Service) BatchUndo(ctx context.Context, txIDs []string) (res *UndoResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	degraded := false
	defer func() { s.finish(opBatchUndo, start, err, degraded) }()

	if len(txIDs) == 0 {
		return nil, domain.Invalid(0, "transactionIds", "no hay transacciones que deshacer")
	}

	var (
		txs             []entity.Transaction
		rows            []int
		alreadyReversed []string
	)
	for i, id := range txIDs {
		tx, ok := s.state.Transaction(id)
		if !ok {
			return nil, &domain.ValidationError{Row: i + 1, Field: "transactionId", Reason: "transacción desconocida", Err: domain.ErrNotFound}
		}
		if s.state.IsReversed(id) {
			alreadyReversed = append(alreadyReversed, id)
			continue
		}
		txs = append(txs, tx)
		rows = append(rows, i+1)
	}

	plan := &ledger.UndoPlan{}
	if len(txs) > 0 {
		plan, err = ledger.PlanUndo(s.state, txs, s.now())
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) && ve.Row > 0 && ve.Row <= len(rows) {
				ve.Row = rows[ve.Row-1]
			}
			return nil, err
		}
	}
	res = &UndoResult{Orphans: plan.Orphans, Degraded: plan.Degraded()}
	degraded = res.Degraded

	skip := make(map[string]struct{})
	var putErr error
	failedAt := -1
	for k, adj := range plan.Adjustments {
		item, err := s.store.PutItem(ctx, adj.Item)
		if err != nil {
			putErr, failedAt = err, k
			break
		}
		s.state.PutItems(*item)
		s.state.MarkReversed(adj.TransactionIDs...)
		res.Items = append(res.Items, *item)
	}
	if putErr != nil {
		for _, adj := range plan.Adjustments[failedAt:] {
			for _, id := range adj.TransactionIDs {
				skip[id] = struct{}{}
			}
		}
	}

	toDelete := make([]string, 0, len(plan.DeleteIDs)+len(alreadyReversed))
	for _, id := range uniqueSorted(append(append([]string(nil), plan.DeleteIDs...), alreadyReversed...)) {
		if _, ok := skip[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}

	var delErr error
	if len(toDelete) > 0 {
		delErr = s.store.DeleteTransactionsBatch(ctx, toDelete)
	}
	if delErr == nil {
		s.state.RemoveTransactions(toDelete...)
		res.DeletedIDs = toDelete
	} else {
		// Huérfanas y deltas cero no tienen efecto pendiente: quedan como revertidas.
		s.state.MarkReversed(toDelete...)
	}

	switch {
	case putErr != nil:
		ae := &domain.AdapterError{Op: opBatchUndo, Step: stepPutItem, Completed: failedAt, Err: putErr}
		if delErr != nil {
			ae.Err = errors.Join(putErr, delErr)
			ae.Pending = toDelete
		}
		s.log.Error().Err(ae.Err).Str("item_id", plan.Adjustments[failedAt].ItemID).Int("completed", failedAt).Msg("deshacer interrumpido")
		return res, ae
	case delErr != nil:
		s.log.Error().Err(delErr).Strs("pending", toDelete).Msg("deshacer: cantidades ajustadas, borrado de transacciones pendiente")
		return res, &domain.AdapterError{Op: opBatchUndo, Step: stepDeleteTransactions, Completed: len(plan.Adjustments), Pending: toDelete, Err: delErr}
	}

	var ev *zerolog.Event
	if res.Degraded {
		ev = s.log.Warn().Int("orphans", len(res.Orphans))
	} else {
		ev = s.log.Info()
	}
	ev.Int("transactions", len(toDelete)).Int("items", len(res.Items)).Msg("transacciones deshechas")
	return res, nil
}

func uniqueSorted(ids []string) []string {
	sort.Strings(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := len(out); n > 0 && out[n-1] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
