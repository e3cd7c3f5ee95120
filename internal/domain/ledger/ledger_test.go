package ledger_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
)

// seqIDs genera ids predecibles: item_1, tx_2...
type seqIDs struct{ n int }

func (s *seqIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(id, name, qty string) entity.InventoryItem {
	return entity.InventoryItem{ID: id, Name: name, Quantity: dec(qty), MinStockLevel: dec("2"), Price: dec("1.5")}
}

func tx(id, itemID string, typ entity.TransactionType, qty string) entity.Transaction {
	return entity.Transaction{ID: id, ItemID: itemID, ItemName: itemID, Type: typ, Quantity: dec(qty)}
}

func requireValidation(t *testing.T, err error, row int, field string) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba ValidationError, got %v", err)
	assert.Equal(t, row, ve.Row)
	assert.Equal(t, field, ve.Field)
	return ve
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de artículo
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanAddItem_ConStockInicialGeneraTransaccion(t *testing.T) {
	plan, err := ledger.PlanAddItem(ledger.NewItem{Name: "  Jabón  ", Quantity: dec("12")}, "ana", now, &seqIDs{})
	require.NoError(t, err)

	assert.Equal(t, "item_1", plan.Item.ID)
	assert.Equal(t, "Jabón", plan.Item.Name)
	assert.True(t, plan.Item.Quantity.Equal(dec("12")))
	assert.Equal(t, now, plan.Item.LastUpdated)

	require.NotNil(t, plan.Initial)
	assert.Equal(t, "tx_init_item_1", plan.Initial.ID)
	assert.Equal(t, entity.TransactionInbound, plan.Initial.Type)
	assert.Equal(t, now, plan.Initial.Timestamp)
	assert.Equal(t, ledger.NoteInitialStock, plan.Initial.Notes)
	assert.Equal(t, "ana", plan.Initial.User)
}

func TestPlanAddItem_CantidadCeroSinTransaccion(t *testing.T) {
	plan, err := ledger.PlanAddItem(ledger.NewItem{Name: "Toallas"}, "", now, &seqIDs{})
	require.NoError(t, err)
	assert.Nil(t, plan.Initial)
	assert.True(t, plan.Item.Quantity.IsZero())
}

func TestPlanAddItem_UsuarioVacioUsaSistema(t *testing.T) {
	plan, err := ledger.PlanAddItem(ledger.NewItem{Name: "Toallas", Quantity: dec("1")}, " ", now, &seqIDs{})
	require.NoError(t, err)
	assert.Equal(t, ledger.SystemUser, plan.Initial.User)
}

func TestPlanAddItem_Validaciones(t *testing.T) {
	cases := map[string]struct {
		in    ledger.NewItem
		field string
	}{
		"sin nombre":        {ledger.NewItem{Name: " "}, "name"},
		"cantidad negativa": {ledger.NewItem{Name: "x", Quantity: dec("-1")}, "quantity"},
		"mínimo negativo":   {ledger.NewItem{Name: "x", MinStockLevel: dec("-1")}, "minStockLevel"},
		"precio negativo":   {ledger.NewItem{Name: "x", Price: dec("-0.1")}, "price"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.PlanAddItem(tc.in, "ana", now, &seqIDs{})
			requireValidation(t, err, 0, tc.field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPlanUpdateItem_ConservaCantidad(t *testing.T) {
	cur := item("item_1", "Jabón", "7")
	out, err := ledger.PlanUpdateItem(cur, ledger.ItemChanges{Name: "Jabón líquido", Category: "Baño", Price: dec("3")}, now)
	require.NoError(t, err)
	assert.Equal(t, "item_1", out.ID)
	assert.Equal(t, "Jabón líquido", out.Name)
	assert.True(t, out.Quantity.Equal(dec("7")))
	assert.Equal(t, now, out.LastUpdated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lote de entrada/salida
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanBatch_Inbound(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "5"), item("b", "Champú", "1")})
	plan, err := ledger.PlanBatch(items, ledger.BatchInput{
		Type: entity.TransactionInbound,
		User: "ana",
		Entries: []ledger.BatchEntry{
			{ItemID: "a", Quantity: "3", Notes: "proveedor"},
			{ItemID: "b", Quantity: "2.5"},
		},
	}, now, &seqIDs{})
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)

	assert.True(t, plan.Steps[0].Item.Quantity.Equal(dec("8")))
	assert.True(t, plan.Steps[1].Item.Quantity.Equal(dec("3.5")))
	for i, st := range plan.Steps {
		assert.Equal(t, i+1, st.Row)
		assert.Equal(t, now, st.Transaction.Timestamp, "timestamp compartido")
		assert.Equal(t, now, st.Item.LastUpdated)
		assert.Equal(t, "ana", st.Transaction.User)
		assert.Equal(t, entity.TransactionInbound, st.Transaction.Type)
	}
	assert.Equal(t, "Jabón", plan.Steps[0].Transaction.ItemName)
	assert.Equal(t, "proveedor", plan.Steps[0].Transaction.Notes)
}

func TestPlanBatch_MismoArticuloSeEncadena(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "5")})
	plan, err := ledger.PlanBatch(items, ledger.BatchInput{
		Type:    entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "3"}, {ItemID: "a", Quantity: "2"}},
	}, now, &seqIDs{})
	require.NoError(t, err)
	assert.True(t, plan.Steps[0].Item.Quantity.Equal(dec("2")))
	assert.True(t, plan.Steps[1].Item.Quantity.Equal(dec("0")))
	assert.Equal(t, ledger.UnknownUser, plan.Steps[0].Transaction.User)
}

func TestPlanBatch_OutboundAcumuladoSuperaStock(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "5")})
	_, err := ledger.PlanBatch(items, ledger.BatchInput{
		Type:    entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "3"}, {ItemID: "a", Quantity: "3"}},
	}, now, &seqIDs{})
	requireValidation(t, err, 2, "quantity")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPlanBatch_StockInsuficienteReferenciaFila(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "5")})
	_, err := ledger.PlanBatch(items, ledger.BatchInput{
		Type:    entity.TransactionOutbound,
		Entries: []ledger.BatchEntry{{ItemID: "a", Quantity: "6"}},
	}, now, &seqIDs{})
	requireValidation(t, err, 1, "quantity")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPlanBatch_PrimeraFilaInvalidaEnOrden(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "5")})
	cases := map[string]struct {
		entries []ledger.BatchEntry
		row     int
		field   string
		cause   error
	}{
		"sin artículo":  {[]ledger.BatchEntry{{ItemID: "a", Quantity: "1"}, {Quantity: "1"}}, 2, "itemId", domain.ErrInvalidInput},
		"desconocido":   {[]ledger.BatchEntry{{ItemID: "zz", Quantity: "1"}}, 1, "itemId", domain.ErrNotFound},
		"sin cantidad":  {[]ledger.BatchEntry{{ItemID: "a", Quantity: "1"}, {ItemID: "a", Quantity: "1"}, {ItemID: "a"}}, 3, "quantity", domain.ErrInvalidInput},
		"no numérica":   {[]ledger.BatchEntry{{ItemID: "a", Quantity: "tres"}}, 1, "quantity", domain.ErrInvalidInput},
		"cero":          {[]ledger.BatchEntry{{ItemID: "a", Quantity: "0"}}, 1, "quantity", domain.ErrInvalidInput},
		"negativa":      {[]ledger.BatchEntry{{ItemID: "a", Quantity: "-2"}}, 1, "quantity", domain.ErrInvalidInput},
		"dos inválidas": {[]ledger.BatchEntry{{ItemID: "a", Quantity: "x"}, {ItemID: "zz", Quantity: "1"}}, 1, "quantity", domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			plan, err := ledger.PlanBatch(items, ledger.BatchInput{Type: entity.TransactionInbound, Entries: tc.entries}, now, &seqIDs{})
			assert.Nil(t, plan)
			requireValidation(t, err, tc.row, tc.field)
			assert.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestPlanBatch_LoteVacioOTipoInvalido(t *testing.T) {
	items := ledger.IndexItems(nil)
	_, err := ledger.PlanBatch(items, ledger.BatchInput{Type: entity.TransactionInbound}, now, &seqIDs{})
	requireValidation(t, err, 0, "entries")

	_, err = ledger.PlanBatch(items, ledger.BatchInput{Type: "TRANSFER", Entries: []ledger.BatchEntry{{ItemID: "a"}}}, now, &seqIDs{})
	requireValidation(t, err, 0, "type")
}

// ──────────────────────────────────────────────────────────────────────────────
// Efecto neto y deshacer
// ──────────────────────────────────────────────────────────────────────────────

func TestNetEffect_SumaPorArticuloYDeduplica(t *testing.T) {
	txs := []entity.Transaction{
		tx("t1", "a", entity.TransactionInbound, "3"),
		tx("t2", "b", entity.TransactionOutbound, "2"),
		tx("t3", "a", entity.TransactionInbound, "4"),
		tx("t1", "a", entity.TransactionInbound, "3"),
	}
	got := ledger.NetEffect(txs)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ItemID)
	assert.True(t, got[0].Delta.Equal(dec("-7")))
	assert.Equal(t, []string{"t1", "t3"}, got[0].TransactionIDs)
	assert.Equal(t, "b", got[1].ItemID)
	assert.True(t, got[1].Delta.Equal(dec("2")))
}

func TestPlanUndo_UnaEscrituraPorArticulo(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "10")})
	plan, err := ledger.PlanUndo(items, []entity.Transaction{
		tx("t1", "a", entity.TransactionInbound, "3"),
		tx("t2", "a", entity.TransactionInbound, "4"),
	}, now)
	require.NoError(t, err)
	require.Len(t, plan.Adjustments, 1)
	assert.True(t, plan.Adjustments[0].Item.Quantity.Equal(dec("3")))
	assert.Equal(t, now, plan.Adjustments[0].Item.LastUpdated)
	assert.Equal(t, []string{"t1", "t2"}, plan.DeleteIDs)
	assert.False(t, plan.Degraded())
}

func TestPlanUndo_IndependienteDelOrden(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "10"), item("b", "Champú", "4")})
	A := tx("tA", "a", entity.TransactionInbound, "3")
	B := tx("tB", "b", entity.TransactionOutbound, "1")
	C := tx("tC", "a", entity.TransactionOutbound, "2")

	p1, err := ledger.PlanUndo(items, []entity.Transaction{A, B, C}, now)
	require.NoError(t, err)
	p2, err := ledger.PlanUndo(items, []entity.Transaction{C, B, A}, now)
	require.NoError(t, err)

	require.Len(t, p1.Adjustments, 2)
	require.Len(t, p2.Adjustments, 2)
	for i := range p1.Adjustments {
		assert.Equal(t, p1.Adjustments[i].ItemID, p2.Adjustments[i].ItemID)
		assert.True(t, p1.Adjustments[i].Item.Quantity.Equal(p2.Adjustments[i].Item.Quantity))
	}
	assert.Equal(t, p1.DeleteIDs, p2.DeleteIDs)
	assert.True(t, p1.Adjustments[0].Item.Quantity.Equal(dec("9")))
	assert.True(t, p1.Adjustments[1].Item.Quantity.Equal(dec("5")))
}

func TestPlanUndo_DeltaCeroNoEscribeArticuloPeroBorra(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "10")})
	plan, err := ledger.PlanUndo(items, []entity.Transaction{
		tx("t1", "a", entity.TransactionInbound, "3"),
		tx("t2", "a", entity.TransactionOutbound, "3"),
	}, now)
	require.NoError(t, err)
	assert.Empty(t, plan.Adjustments)
	assert.Equal(t, []string{"t1", "t2"}, plan.DeleteIDs)
}

func TestPlanUndo_HuerfanaEsExitoDegradado(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "10")})
	plan, err := ledger.PlanUndo(items, []entity.Transaction{
		tx("t1", "borrado", entity.TransactionInbound, "3"),
		tx("t2", "a", entity.TransactionOutbound, "1"),
	}, now)
	require.NoError(t, err)
	assert.True(t, plan.Degraded())
	assert.Equal(t, []domain.OrphanReference{{TransactionID: "t1", ItemID: "borrado"}}, plan.Orphans)
	assert.Equal(t, []string{"t1", "t2"}, plan.DeleteIDs)
	require.Len(t, plan.Adjustments, 1)
	assert.True(t, plan.Adjustments[0].Item.Quantity.Equal(dec("11")))
}

func TestPlanUndo_RechazaStockNegativo(t *testing.T) {
	items := ledger.IndexItems([]entity.InventoryItem{item("a", "Jabón", "2")})
	_, err := ledger.PlanUndo(items, []entity.Transaction{
		tx("t1", "a", entity.TransactionInbound, "10"),
	}, now)
	requireValidation(t, err, 1, "transactionId")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPlanUndo_ListaVacia(t *testing.T) {
	_, err := ledger.PlanUndo(ledger.IndexItems(nil), nil, now)
	requireValidation(t, err, 0, "transactionIds")
}

// Alta + N lotes + deshacer todo deja la cantidad del alta.
func TestRoundTrip_ConservacionDeCantidad(t *testing.T) {
	ids := &seqIDs{}
	add, err := ledger.PlanAddItem(ledger.NewItem{Name: "Jabón", Quantity: dec("10")}, "ana", now, ids)
	require.NoError(t, err)
	state := ledger.ItemIndex{add.Item.ID: add.Item}

	var ledgerTxs []entity.Transaction
	batches := []ledger.BatchInput{
		{Type: entity.TransactionInbound, Entries: []ledger.BatchEntry{{ItemID: add.Item.ID, Quantity: "5"}}},
		{Type: entity.TransactionOutbound, Entries: []ledger.BatchEntry{{ItemID: add.Item.ID, Quantity: "12"}}},
		{Type: entity.TransactionInbound, Entries: []ledger.BatchEntry{{ItemID: add.Item.ID, Quantity: "0.25"}, {ItemID: add.Item.ID, Quantity: "4"}}},
	}
	for _, b := range batches {
		plan, err := ledger.PlanBatch(state, b, now, ids)
		require.NoError(t, err)
		for _, st := range plan.Steps {
			state[st.Item.ID] = st.Item
			ledgerTxs = append(ledgerTxs, st.Transaction)
		}
	}
	require.True(t, state[add.Item.ID].Quantity.Equal(dec("7.25")))

	undo, err := ledger.PlanUndo(state, ledgerTxs, now)
	require.NoError(t, err)
	require.Len(t, undo.Adjustments, 1)
	assert.True(t, undo.Adjustments[0].Item.Quantity.Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación
// ──────────────────────────────────────────────────────────────────────────────

func TestConsolidateRows_SumaDuplicadosNormalizados(t *testing.T) {
	rows, err := ledger.ConsolidateRows([]ledger.ImportRow{
		{Name: "Soap", Category: "A", Quantity: dec("2")},
		{Name: "Towel", Quantity: dec("1")},
		{Name: "  ＳＯＡＰ ", Category: "B", Quantity: dec("3")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Soap", rows[0].Name)
	assert.Equal(t, "A", rows[0].Category)
	assert.True(t, rows[0].Quantity.Equal(dec("5")))
	assert.Equal(t, []int{1, 3}, rows[0].SourceRows)
}

func TestConsolidateRows_FilaInvalida(t *testing.T) {
	_, err := ledger.ConsolidateRows([]ledger.ImportRow{
		{Name: "Soap", Quantity: dec("2")},
		{Name: "", Quantity: dec("1")},
	})
	requireValidation(t, err, 2, "name")
}

func TestPlanImport_FusionConservaMetadatos(t *testing.T) {
	existing := []entity.InventoryItem{{ID: "item_x", Name: "Soap", Category: "A", Quantity: dec("10"), Unit: "pz"}}
	plan, err := ledger.PlanImport(existing, []ledger.ImportRow{
		{Name: "soap", Category: "B", Unit: "caja", Quantity: dec("5")},
		{Name: "Towel", Category: "Ropa", Quantity: dec("0")},
	}, "ana", now, &seqIDs{})
	require.NoError(t, err)

	require.Len(t, plan.Items, 2)
	merged := plan.Items[0]
	assert.Equal(t, "item_x", merged.ID)
	assert.Equal(t, "A", merged.Category)
	assert.Equal(t, "pz", merged.Unit)
	assert.True(t, merged.Quantity.Equal(dec("15")))

	created := plan.Items[1]
	assert.Equal(t, "Towel", created.Name)
	assert.Equal(t, "Ropa", created.Category)
	assert.True(t, created.Quantity.IsZero())

	require.Len(t, plan.Transactions, 1, "solo filas con cantidad > 0 generan transacción")
	assert.Equal(t, "item_x", plan.Transactions[0].ItemID)
	assert.Equal(t, "Soap", plan.Transactions[0].ItemName)
	assert.Equal(t, ledger.NoteBulkImport, plan.Transactions[0].Notes)
	assert.Equal(t, 1, plan.Created)
	assert.Equal(t, 1, plan.Merged)
}

func TestPlanImport_ExistenteConCantidadCeroNoEscribe(t *testing.T) {
	existing := []entity.InventoryItem{item("item_x", "Soap", "10")}
	plan, err := ledger.PlanImport(existing, []ledger.ImportRow{{Name: "Soap"}}, "", now, &seqIDs{})
	require.NoError(t, err)
	assert.Empty(t, plan.Items)
	assert.Empty(t, plan.Transactions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Capa transitoria y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestVisibleItems_CapaGanaEnColision(t *testing.T) {
	auth := []entity.InventoryItem{item("a", "Jabón", "1"), item("b", "Champú", "2")}
	overlay := []entity.InventoryItem{item("c", "Velas", "0"), item("a", "Jabón nuevo", "1")}
	got := ledger.VisibleItems(overlay, auth)
	require.Len(t, got, 3)
	assert.Equal(t, "Jabón nuevo", got[0].Name)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestMergeOverlay_Reemplaza(t *testing.T) {
	ov := ledger.MergeOverlay(nil, item("a", "Jabón", "0"))
	ov = ledger.MergeOverlay(ov, item("a", "Jabón 2", "0"))
	require.Len(t, ov, 1)
	assert.Equal(t, "Jabón 2", ov[0].Name)
}

func TestSearchByName(t *testing.T) {
	items := []entity.InventoryItem{item("a", "Jabón de manos", "1"), item("b", "Champú", "1")}
	assert.Len(t, ledger.SearchByName(items, "JABÓN"), 1)
	assert.Len(t, ledger.SearchByName(items, ""), 2)
	assert.Empty(t, ledger.SearchByName(items, "vela"))

	found, ok := ledger.FindByName(items, " champú ")
	require.True(t, ok)
	assert.Equal(t, "b", found.ID)
}
