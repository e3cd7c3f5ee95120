package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// fakeStore almacenamiento en memoria que registra cada llamada y permite forzar
// fallos en la n-ésima llamada de un método.
type fakeStore struct {
	mu     sync.Mutex
	items  map[string]entity.InventoryItem
	txs    map[string]entity.Transaction
	calls  []string
	failOn map[string]int // método -> número de llamada (1-based) que falla
	counts map[string]int
}

var errBoom = errors.New("conexión perdida")

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:  make(map[string]entity.InventoryItem),
		txs:    make(map[string]entity.Transaction),
		failOn: make(map[string]int),
		counts: make(map[string]int),
	}
}

func (f *fakeStore) hit(method string) error {
	f.calls = append(f.calls, method)
	f.counts[method]++
	if n, ok := f.failOn[method]; ok && n == f.counts[method] {
		return errBoom
	}
	return nil
}

func (f *fakeStore) failAt(method string, call int) { f.failOn[method] = call }

func (f *fakeStore) writes() []string {
	var out []string
	for _, c := range f.calls {
		if c != "ListItems" && c != "ListTransactions" && c != "GetItem" {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) GetItem(_ context.Context, id string) (*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetItem"); err != nil {
		return nil, err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (f *fakeStore) PutItem(_ context.Context, item entity.InventoryItem) (*entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("PutItem"); err != nil {
		return nil, err
	}
	f.items[item.ID] = item
	return &item, nil
}

func (f *fakeStore) PutItemsBatch(_ context.Context, items []entity.InventoryItem) ([]entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("PutItemsBatch"); err != nil {
		return nil, err
	}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return append([]entity.InventoryItem(nil), items...), nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, tx entity.Transaction) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("InsertTransaction"); err != nil {
		return nil, err
	}
	f.txs[tx.ID] = tx
	return &tx, nil
}

func (f *fakeStore) InsertTransactionsBatch(_ context.Context, txs []entity.Transaction) ([]entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("InsertTransactionsBatch"); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		f.txs[tx.ID] = tx
	}
	return append([]entity.Transaction(nil), txs...), nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteTransaction"); err != nil {
		return err
	}
	delete(f.txs, id)
	return nil
}

func (f *fakeStore) DeleteTransactionsBatch(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteTransactionsBatch"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(f.txs, id)
	}
	return nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteItem"); err != nil {
		return err
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) DeleteItemsBatch(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteItemsBatch"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(f.items, id)
	}
	return nil
}

func (f *fakeStore) ListItems(context.Context) ([]entity.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListItems"); err != nil {
		return nil, err
	}
	out := make([]entity.InventoryItem, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListTransactions(context.Context) ([]entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListTransactions"); err != nil {
		return nil, err
	}
	out := make([]entity.Transaction, 0, len(f.txs))
	for _, tx := range f.txs {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

type recordedMetrics struct {
	outcomes []string
	items    int
	low      int
}

func (m *recordedMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, op+":"+outcome)
}

func (m *recordedMetrics) SetStockLevels(items, low int) { m.items, m.low = items, low }

var t0 = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture servicio cargado con los artículos y transacciones dados; las llamadas de
// carga se descartan del registro.
func fixture(t *testing.T, items []entity.InventoryItem, txs []entity.Transaction) (*Service, *fakeStore, *recordedMetrics) {
	t.Helper()
	st := newFakeStore()
	for _, it := range items {
		st.items[it.ID] = it
	}
	for _, tx := range txs {
		st.txs[tx.ID] = tx
	}
	m := &recordedMetrics{}
	svc := NewService(st, &seqIDs{}, m, nil)
	tick := t0
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	require.NoError(t, svc.Reload(context.Background()))
	st.calls = nil
	m.outcomes = nil
	return svc, st, m
}

func stock(id, name, qty string) entity.InventoryItem {
	return entity.InventoryItem{ID: id, Name: name, Quantity: dec(qty), MinStockLevel: dec("5"), Price: dec("2")}
}

func ledgerTx(id, itemID string, typ entity.TransactionType, qty string, at time.Time) entity.Transaction {
	return entity.Transaction{ID: id, ItemID: itemID, ItemName: itemID, Type: typ, Quantity: dec(qty), Timestamp: at, User: "ana"}
}

func qtyOf(t *testing.T, svc *Service, id string) string {
	t.Helper()
	it, err := svc.GetItem(id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Quantity.String()
}

func requireAdapter(t *testing.T, err error) *domain.AdapterError {
	t.Helper()
	var ae *domain.AdapterError
	require.True(t, errors.As(err, &ae), "se esperaba AdapterError, got %v", err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	return ae
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_EscribeArticuloYLuegoTransaccion(t *testing.T) {
	svc, st, m := fixture(t, nil, nil)

	res, err := svc.AddItem(context.Background(), ledger.NewItem{Name: "Jabón", Quantity: dec("10")}, "ana")
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)

	assert.Equal(t, []string{"PutItem", "InsertTransaction"}, st.writes())
	assert.Equal(t, "10", qtyOf(t, svc, res.Item.ID))
	assert.Len(t, svc.ListTransactions(TransactionFilter{}), 1)
	assert.Equal(t, []string{"add_item:ok"}, m.outcomes)
	assert.Equal(t, 1, m.items)
}

func TestAddItem_FalloDeTransaccionDejaArticuloCreado(t *testing.T) {
	svc, st, m := fixture(t, nil, nil)
	st.failAt("InsertTransaction", 1)

	res, err := svc.AddItem(context.Background(), ledger.NewItem{Name: "Jabón", Quantity: dec("10")}, "ana")
	ae := requireAdapter(t, err)
	assert.Equal(t, stepInsertTransaction, ae.Step)
	assert.Equal(t, 1, ae.Completed)

	require.NotNil(t, res)
	assert.Nil(t, res.Transaction)
	assert.Equal(t, "10", qtyOf(t, svc, res.Item.ID))
	assert.Empty(t, svc.ListTransactions(TransactionFilter{}))
	assert.Equal(t, []string{"add_item:adapter_error"}, m.outcomes)
}

func TestAddItem_InvalidoNoEscribe(t *testing.T) {
	svc, st, m := fixture(t, nil, nil)

	_, err := svc.AddItem(context.Background(), ledger.NewItem{Name: "  "}, "ana")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, st.writes())
	assert.Equal(t, []string{"add_item:validation_error"}, m.outcomes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchTransaction_ValidacionEsAtomica(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10"), stock("b", "Toallas", "3")}, nil)

	_, err := svc.BatchTransaction(context.Background(), ledger.BatchInput{
		Type: entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{
			{ItemID: "a", Quantity: "4"},
			{ItemID: "b", Quantity: "9"},
		},
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Row)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, st.writes())
	assert.Equal(t, "10", qtyOf(t, svc, "a"))
	assert.Equal(t, "3", qtyOf(t, svc, "b"))
}

func TestBatchTransaction_AplicaPorFilaEnOrden(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10"), stock("b", "Toallas", "3")}, nil)

	res, err := svc.BatchTransaction(context.Background(), ledger.BatchInput{
		Type: entity.TransactionInbound,
		User: "luis",
		Entries: []ledger.BatchEntry{
			{ItemID: "a", Quantity: "2"},
			{ItemID: "b", Quantity: "1"},
			{ItemID: "a", Quantity: "3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PutItem", "InsertTransaction",
		"PutItem", "InsertTransaction",
		"PutItem", "InsertTransaction",
	}, st.writes())
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a", res.Items[0].ID)
	assert.Equal(t, "15", res.Items[0].Quantity.String())
	assert.Equal(t, "4", res.Items[1].Quantity.String())
	assert.Len(t, res.Transactions, 3)
	for _, tx := range res.Transactions {
		assert.Equal(t, "luis", tx.User)
	}
}

func TestBatchTransaction_FalloParcialConservaFilasAnteriores(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10"), stock("b", "Toallas", "3")}, nil)
	st.failAt("PutItem", 2)

	res, err := svc.BatchTransaction(context.Background(), ledger.BatchInput{
		Type: entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{
			{ItemID: "a", Quantity: "4"},
			{ItemID: "b", Quantity: "1"},
		},
	})
	ae := requireAdapter(t, err)
	assert.Equal(t, 2, ae.Row)
	assert.Equal(t, 1, ae.Completed)
	assert.Equal(t, stepPutItem, ae.Step)

	require.NotNil(t, res)
	assert.Len(t, res.Transactions, 1)
	assert.Equal(t, "6", qtyOf(t, svc, "a"))
	assert.Equal(t, "3", qtyOf(t, svc, "b"))
	assert.Len(t, svc.ListTransactions(TransactionFilter{}), 1)
}

func TestBatchTransaction_FalloAlRegistrarTransaccion(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10")}, nil)
	st.failAt("InsertTransaction", 1)

	_, err := svc.BatchTransaction(context.Background(), ledger.BatchInput{
		Type:    entity.TransactionInbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "1"}},
	})
	ae := requireAdapter(t, err)
	assert.Equal(t, stepInsertTransaction, ae.Step)
	assert.Equal(t, 0, ae.Completed)
	// La cantidad ya quedó escrita, el libro no.
	assert.Equal(t, "11", qtyOf(t, svc, "a"))
	assert.Empty(t, svc.ListTransactions(TransactionFilter{}))
}

func TestRecordTransactions_CompletaElLibroSinTocarCantidades(t *testing.T) {
	svc, st, m := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10")}, nil)
	st.failAt("InsertTransaction", 1)

	res, err := svc.BatchTransaction(context.Background(), ledger.BatchInput{
		Type:    entity.TransactionInbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "3"}},
	})
	requireAdapter(t, err)
	require.NotNil(t, res.Unrecorded)
	assert.Equal(t, "a", res.Unrecorded.ItemID)
	st.calls = nil
	m.outcomes = nil

	out, err := svc.RecordTransactions(context.Background(), []entity.Transaction{*res.Unrecorded})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"InsertTransaction"}, st.writes())
	assert.Equal(t, []string{"record_transactions:ok"}, m.outcomes)

	// Repetir el registro no duplica el libro.
	_, err = svc.RecordTransactions(context.Background(), []entity.Transaction{*res.Unrecorded})
	require.NoError(t, err)

	assert.Equal(t, "13", qtyOf(t, svc, "a"))
	txs := svc.ListTransactions(TransactionFilter{})
	require.Len(t, txs, 1)
	assert.Equal(t, "3", txs[0].Quantity.String())
}

func TestRecordTransactions_FalloParcial(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10")}, nil)
	st.failAt("InsertTransaction", 2)

	out, err := svc.RecordTransactions(context.Background(), []entity.Transaction{
		ledgerTx("t1", "a", entity.TransactionInbound, "1", t0),
		ledgerTx("t2", "a", entity.TransactionInbound, "2", t0.Add(time.Minute)),
	})
	ae := requireAdapter(t, err)
	assert.Equal(t, stepInsertTransaction, ae.Step)
	assert.Equal(t, 1, ae.Completed)
	require.Len(t, out, 1)
	assert.Equal(t, "t1", out[0].ID)
	assert.Len(t, svc.ListTransactions(TransactionFilter{}), 1)
	assert.Equal(t, "10", qtyOf(t, svc, "a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Deshacer
// ──────────────────────────────────────────────────────────────────────────────

func undoFixture(t *testing.T) (*Service, *fakeStore, *recordedMetrics) {
	items := []entity.InventoryItem{stock("a", "Jabón", "10"), stock("b", "Toallas", "8")}
	txs := []entity.Transaction{
		ledgerTx("t1", "a", entity.TransactionInbound, "5", t0),
		ledgerTx("t2", "a", entity.TransactionOutbound, "2", t0.Add(time.Minute)),
		ledgerTx("t3", "b", entity.TransactionInbound, "3", t0.Add(2*time.Minute)),
		ledgerTx("t4", "gone", entity.TransactionInbound, "1", t0.Add(3*time.Minute)),
	}
	return fixture(t, items, txs)
}

func TestBatchUndo_UnaEscrituraPorArticuloYUnBorrado(t *testing.T) {
	svc, st, _ := undoFixture(t)

	res, err := svc.BatchUndo(context.Background(), []string{"t2", "t3", "t1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"PutItem", "PutItem", "DeleteTransactionsBatch"}, st.writes())
	assert.Equal(t, "7", qtyOf(t, svc, "a"))
	assert.Equal(t, "5", qtyOf(t, svc, "b"))
	assert.Equal(t, []string{"t1", "t2", "t3"}, res.DeletedIDs)
	assert.False(t, res.Degraded)
	assert.Len(t, svc.ListTransactions(TransactionFilter{}), 1)
}

func TestBatchUndo_OrdenDeEntradaIndiferente(t *testing.T) {
	svc1, st1, _ := undoFixture(t)
	svc2, st2, _ := undoFixture(t)

	_, err := svc1.BatchUndo(context.Background(), []string{"t1", "t2", "t3"})
	require.NoError(t, err)
	_, err = svc2.BatchUndo(context.Background(), []string{"t3", "t1", "t2"})
	require.NoError(t, err)

	assert.Equal(t, st1.writes(), st2.writes())
	assert.Equal(t, svc1.ListItems(ItemFilter{}), svc2.ListItems(ItemFilter{}))
}

func TestBatchUndo_HuerfanaEsExitoDegradado(t *testing.T) {
	svc, st, m := undoFixture(t)

	res, err := svc.BatchUndo(context.Background(), []string{"t4", "t3"})
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	require.Len(t, res.Orphans, 1)
	assert.Equal(t, domain.OrphanReference{TransactionID: "t4", ItemID: "gone"}, res.Orphans[0])
	assert.Equal(t, []string{"PutItem", "DeleteTransactionsBatch"}, st.writes())
	assert.Equal(t, []string{"t3", "t4"}, res.DeletedIDs)
	assert.Equal(t, []string{"batch_undo:degraded"}, m.outcomes)
}

func TestBatchUndo_NegativoSeRechazaSinEscribir(t *testing.T) {
	svc, st, _ := fixture(t,
		[]entity.InventoryItem{stock("a", "Jabón", "1")},
		[]entity.Transaction{ledgerTx("t1", "a", entity.TransactionInbound, "5", t0)},
	)

	_, err := svc.BatchUndo(context.Background(), []string{"t1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, st.writes())
	assert.Equal(t, "1", qtyOf(t, svc, "a"))
}

func TestBatchUndo_IDDesconocido(t *testing.T) {
	svc, st, _ := undoFixture(t)

	_, err := svc.BatchUndo(context.Background(), []string{"t1", "nope"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Row)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, st.writes())
}

func TestBatchUndo_FalloDeEscrituraNoBorraLoNoAplicado(t *testing.T) {
	svc, st, _ := undoFixture(t)
	st.failAt("PutItem", 2) // falla el artículo "b"

	res, err := svc.BatchUndo(context.Background(), []string{"t1", "t2", "t3", "t4"})
	ae := requireAdapter(t, err)
	assert.Equal(t, stepPutItem, ae.Step)
	assert.Equal(t, 1, ae.Completed)

	// Se borran las de "a" y la huérfana; t3 sigue en el libro con su efecto intacto.
	assert.Equal(t, []string{"t1", "t2", "t4"}, res.DeletedIDs)
	assert.Equal(t, "7", qtyOf(t, svc, "a"))
	assert.Equal(t, "8", qtyOf(t, svc, "b"))
	_, ok := svc.state.Transaction("t3")
	assert.True(t, ok)
	assert.False(t, svc.state.IsReversed("t3"))
}

func TestBatchUndo_FalloDeBorradoReintentaSoloElBorrado(t *testing.T) {
	svc, st, _ := undoFixture(t)
	st.failAt("DeleteTransactionsBatch", 1)

	_, err := svc.BatchUndo(context.Background(), []string{"t1", "t2"})
	ae := requireAdapter(t, err)
	assert.Equal(t, stepDeleteTransactions, ae.Step)
	assert.Equal(t, []string{"t1", "t2"}, ae.Pending)
	assert.Equal(t, "7", qtyOf(t, svc, "a"))
	assert.True(t, svc.state.IsReversed("t1"))

	st.calls = nil
	res, err := svc.BatchUndo(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	// No se vuelve a ajustar la cantidad.
	assert.Equal(t, []string{"DeleteTransactionsBatch"}, st.writes())
	assert.Equal(t, "7", qtyOf(t, svc, "a"))
	assert.Equal(t, []string{"t1", "t2"}, res.DeletedIDs)
	assert.False(t, svc.state.IsReversed("t1"))
}

func TestUndo_RestauraLaCantidadPrevia(t *testing.T) {
	svc, _, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10")}, nil)
	ctx := context.Background()

	res, err := svc.BatchTransaction(ctx, ledger.BatchInput{
		Type:    entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "6", qtyOf(t, svc, "a"))

	_, err = svc.Undo(ctx, res.Transactions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "10", qtyOf(t, svc, "a"))
	assert.Empty(t, svc.ListTransactions(TransactionFilter{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación, borrado y puesta a cero
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_DosLlamadasFusionYAlta(t *testing.T) {
	svc, st, _ := fixture(t, []entity.InventoryItem{stock("a", "Jabón", "10")}, nil)

	res, err := svc.Import(context.Background(), []ledger.ImportRow{
		{Name: "jabón", Quantity: dec("5")},
		{Name: "Toallas", Quantity: dec("2"), Category: "Baño"},
		{Name: "TOALLAS", Quantity: dec("1")},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"PutItemsBatch", "InsertTransactionsBatch"}, st.writes())
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, "15", qtyOf(t, svc, "a"))
	require.Len(t, res.Transactions, 2)
	for _, tx := range res.Transactions {
		assert.Equal(t, ledger.SystemUser, tx.User)
		assert.Equal(t, ledger.NoteBulkImport, tx.Notes)
	}
	found := svc.ListItems(ItemFilter{Query: "toallas"})
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].Quantity.String())
}

func TestImport_FalloDeTransaccionesDejaArticulos(t *testing.T) {
	svc, st, _ := fixture(t, nil, nil)
	st.failAt("InsertTransactionsBatch", 1)

	res, err := svc.Import(context.Background(), []ledger.ImportRow{{Name: "Jabón", Quantity: dec("5")}}, "ana")
	ae := requireAdapter(t, err)
	assert.Equal(t, 1, ae.Completed)
	require.NotNil(t, res)
	assert.Len(t, svc.ListItems(ItemFilter{}), 1)
	assert.Empty(t, svc.ListTransactions(TransactionFilter{}))
}

func TestDeleteItems_DejaTransaccionesHuerfanas(t *testing.T) {
	svc, st, _ := undoFixture(t)

	require.NoError(t, svc.DeleteItems(context.Background(), []string{"a", "b"}))
	assert.Equal(t, []string{"DeleteItemsBatch"}, st.writes())
	assert.Empty(t, svc.ListItems(ItemFilter{}))
	assert.Len(t, svc.ListTransactions(TransactionFilter{}), 4)

	assert.ErrorIs(t, svc.DeleteItem(context.Background(), "a"), domain.ErrNotFound)
}

func TestResetStock_CeroYLibroVacio(t *testing.T) {
	svc, st, m := undoFixture(t)

	res, err := svc.ResetStock(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)
	assert.Equal(t, 4, res.DeletedTransactions)
	assert.Equal(t, []string{"PutItemsBatch", "DeleteTransactionsBatch"}, st.writes())
	for _, it := range svc.ListItems(ItemFilter{}) {
		assert.True(t, it.Quantity.IsZero())
	}
	assert.Empty(t, svc.ListTransactions(TransactionFilter{}))
	assert.Equal(t, 2, m.low)
}

func TestListTransactions_Filtros(t *testing.T) {
	svc, _, _ := undoFixture(t)

	all := svc.ListTransactions(TransactionFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, "t4", all[0].ID)

	in := svc.ListTransactions(TransactionFilter{Type: entity.TransactionInbound, Limit: 2})
	assert.Equal(t, []string{"t4", "t3"}, []string{in[0].ID, in[1].ID})

	forA := svc.ListTransactions(TransactionFilter{ItemID: "a"})
	assert.Len(t, forA, 2)
}

func TestReload_ErrorDeAlmacenamiento(t *testing.T) {
	st := newFakeStore()
	st.failAt("ListTransactions", 1)
	svc := NewService(st, &seqIDs{}, nil, nil)

	err := svc.Reload(context.Background())
	assert.ErrorIs(t, err, errBoom)
}
