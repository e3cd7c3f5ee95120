package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

var _ Inventory = (*inventory.Service)(nil)

// Inventory operaciones del motor que usa el formulario.
type Inventory interface {
	ListItems(f inventory.ItemFilter) []entity.InventoryItem
	AddItem(ctx context.Context, in ledger.NewItem, user string) (*inventory.AddItemResult, error)
	BatchTransaction(ctx context.Context, in ledger.BatchInput) (*inventory.BatchResult, error)
	RecordTransactions(ctx context.Context, txs []entity.Transaction) ([]entity.Transaction, error)
}

// Catalog alta de categorías y ubicaciones declaradas en el alta rápida.
// Ensure* no falla si el nombre ya existe.
type Catalog interface {
	EnsureCategory(ctx context.Context, name string) error
	EnsureLocation(ctx context.Context, name string) error
}

// QuickAddForm datos que completa el operador para el artículo nuevo. Name vacío usa
// el texto buscado.
type QuickAddForm struct {
	Name           string
	Category       string
	CreateCategory bool
	Location       string
	CreateLocation bool
	Unit           string
	Price          decimal.Decimal
	MinStockLevel  decimal.Decimal
	Description    string
}

// SearchResult coincidencias de una búsqueda y la sesión resultante.
type SearchResult struct {
	Session *Session
	Matches []entity.InventoryItem
}

// Service gestiona sesiones de entrada.
type Service struct {
	sessions SessionStore
	inv      Inventory
	catalog  Catalog
	ids      ledger.IDSource
	log      *logger.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewService construye el servicio de sesiones.
func NewService(sessions SessionStore, inv Inventory, catalog Catalog, ids ledger.IDSource, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		sessions: sessions,
		inv:      inv,
		catalog:  catalog,
		ids:      ids,
		log:      log.Component("entry"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start abre una sesión vacía para el usuario.
func (s *Service) Start(ctx context.Context, user string, typ entity.TransactionType) (*Session, error) {
	if !typ.Valid() {
		return nil, domain.Invalid(0, "type", "debe ser INBOUND u OUTBOUND")
	}
	if strings.TrimSpace(user) == "" {
		return nil, domain.Invalid(0, "user", "es obligatorio")
	}
	now := s.now()
	sess := &Session{
		ID:        s.ids.NewID(ledger.PrefixSession),
		User:      user,
		Type:      typ,
		Rows:      []Row{},
		Phase:     PhaseIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return sess, nil
}

// Get devuelve la sesión del usuario; domain.ErrNotFound si no existe, caducó o es de otro usuario.
func (s *Service) Get(ctx context.Context, user, id string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer sesión: %w", err)
	}
	if sess == nil || sess.User != user {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// SetRows reemplaza las filas. No se permite con un alta rápida en curso.
func (s *Service) SetRows(ctx context.Context, user, id string, rows []Row) (*Session, error) {
	return s.update(ctx, user, id, func(sess *Session) error {
		if sess.Phase != PhaseIdle {
			return domain.ErrInvalidState
		}
		sess.Rows = append([]Row{}, rows...)
		return nil
	})
}

// Search busca artículos visibles por nombre para una fila. En una sesión de entradas,
// un texto sin coincidencias abre el alta rápida con ese nombre y la cantidad de la fila.
func (s *Service) Search(ctx context.Context, user, id string, row int, text string) (*SearchResult, error) {
	res := &SearchResult{}
	sess, err := s.update(ctx, user, id, func(sess *Session) error {
		if sess.Phase != PhaseIdle {
			return domain.ErrInvalidState
		}
		r, err := rowAt(sess, row)
		if err != nil {
			return err
		}
		r.Search = text
		res.Matches = ledger.SearchByName(s.visible(sess), text)

		name := strings.TrimSpace(text)
		if len(res.Matches) == 0 && name != "" && sess.Type == entity.TransactionInbound {
			sess.Phase = PhasePendingCreate
			sess.Pending = &PendingCreate{Row: row, Name: name, Quantity: r.Quantity}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Session = sess
	return res, nil
}

// SelectItem asigna un artículo visible a la fila.
func (s *Service) SelectItem(ctx context.Context, user, id string, row int, itemID string) (*Session, error) {
	return s.update(ctx, user, id, func(sess *Session) error {
		if sess.Phase != PhaseIdle {
			return domain.ErrInvalidState
		}
		r, err := rowAt(sess, row)
		if err != nil {
			return err
		}
		item, ok := ledger.IndexItems(s.visible(sess)).Item(itemID)
		if !ok {
			return &domain.ValidationError{Row: row, Field: "itemId", Reason: "artículo desconocido", Err: domain.ErrNotFound}
		}
		r.ItemID = item.ID
		r.Search = item.Name
		return nil
	})
}

// ConfirmQuickAdd crea el artículo pendiente con cantidad 0 y lo asigna a su fila; la
// cantidad escrita en la fila se aplica al enviar el lote. Si el alta falla la sesión
// sigue pendiente. Si ya existe un artículo con ese nombre, como el de un intento
// anterior cuya sesión no llegó a guardarse, se asigna ese en lugar de crear otro.
func (s *Service) ConfirmQuickAdd(ctx context.Context, user, id string, form QuickAddForm) (*Session, *entity.InventoryItem, error) {
	var created entity.InventoryItem
	sess, err := s.update(ctx, user, id, func(sess *Session) error {
		if sess.Phase != PhasePendingCreate || sess.Pending == nil {
			return domain.ErrInvalidState
		}
		if sess.Type != entity.TransactionInbound {
			return domain.ErrInvalidState
		}
		r, err := rowAt(sess, sess.Pending.Row)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(form.Name)
		if name == "" {
			name = sess.Pending.Name
		}

		if form.CreateCategory && strings.TrimSpace(form.Category) != "" {
			if err := s.catalog.EnsureCategory(ctx, form.Category); err != nil {
				return err
			}
		}
		if form.CreateLocation && strings.TrimSpace(form.Location) != "" {
			if err := s.catalog.EnsureLocation(ctx, form.Location); err != nil {
				return err
			}
		}

		if existing, ok := ledger.FindByName(s.visible(sess), name); ok {
			created = existing
		} else {
			res, err := s.inv.AddItem(ctx, ledger.NewItem{
				Name:          name,
				Category:      form.Category,
				Location:      form.Location,
				Quantity:      decimal.Zero,
				Unit:          form.Unit,
				MinStockLevel: form.MinStockLevel,
				Price:         form.Price,
				Description:   form.Description,
			}, sess.User)
			if err != nil {
				return err
			}
			created = res.Item
		}
		sess.Overlay = ledger.MergeOverlay(sess.Overlay, created)
		r.ItemID = created.ID
		r.Search = created.Name
		sess.Phase = PhaseIdle
		sess.Pending = nil
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().Str("session_id", id).Str("item_id", created.ID).Msg("alta rápida confirmada")
	return sess, &created, nil
}

// CancelQuickAdd descarta el borrador; no crea nada. Sin alta pendiente no hace nada.
func (s *Service) CancelQuickAdd(ctx context.Context, user, id string) (*Session, error) {
	return s.update(ctx, user, id, func(sess *Session) error {
		sess.Phase = PhaseIdle
		sess.Pending = nil
		return nil
	})
}

// Visible artículos seleccionables: la capa de la sesión sobre el inventario.
func (s *Service) Visible(ctx context.Context, user, id string) ([]entity.InventoryItem, error) {
	sess, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return s.visible(sess), nil
}

// Submit envía las filas no vacías como un lote. Si todo se confirma, se vacían filas y
// capa. Si el lote queda a medias se quitan de la sesión las filas cuyo artículo ya se
// escribió, para que reenviar no las duplique; la transacción que no llegó a
// registrarse queda en la sesión y el siguiente envío la registra sin volver a mover
// la cantidad.
func (s *Service) Submit(ctx context.Context, user, id string) (*inventory.BatchResult, error) {
	res := &inventory.BatchResult{}
	var submitErr error
	_, err := s.update(ctx, user, id, func(sess *Session) error {
		if sess.Phase != PhaseIdle {
			return domain.ErrInvalidState
		}

		var recorded []entity.Transaction
		if len(sess.Unrecorded) > 0 {
			recorded, submitErr = s.inv.RecordTransactions(ctx, sess.Unrecorded)
			sess.Unrecorded = sess.Unrecorded[len(recorded):]
			res.Transactions = append(res.Transactions, recorded...)
			if submitErr != nil {
				return nil
			}
		}

		var (
			entries []ledger.BatchEntry
			rowNums []int
		)
		for i, r := range sess.Rows {
			if r.Blank() {
				continue
			}
			entries = append(entries, ledger.BatchEntry{ItemID: r.ItemID, Quantity: r.Quantity, Notes: r.Notes})
			rowNums = append(rowNums, i+1)
		}
		if len(entries) == 0 && len(recorded) > 0 {
			res.Items = s.itemsOf(res.Transactions)
			sess.Rows = []Row{}
			sess.Overlay = nil
			return nil
		}

		batch, batchErr := s.inv.BatchTransaction(ctx, ledger.BatchInput{Type: sess.Type, User: sess.User, Entries: entries})
		if batch != nil {
			res.Transactions = append(res.Transactions, batch.Transactions...)
			res.Items = batch.Items
			res.Unrecorded = batch.Unrecorded
		}
		if len(recorded) > 0 {
			res.Items = s.itemsOf(res.Transactions)
		}
		if batchErr == nil {
			sess.Rows = []Row{}
			sess.Overlay = nil
			return nil
		}
		submitErr = batchErr

		var ve *domain.ValidationError
		if errors.As(batchErr, &ve) && ve.Row > 0 && ve.Row <= len(rowNums) {
			ve.Row = rowNums[ve.Row-1]
		}
		var ae *domain.AdapterError
		if errors.As(batchErr, &ae) {
			if ae.Row > 0 && ae.Row <= len(rowNums) {
				ae.Row = rowNums[ae.Row-1]
			}
			written := ae.Completed
			if batch != nil && batch.Unrecorded != nil {
				sess.Unrecorded = append(sess.Unrecorded, *batch.Unrecorded)
				written++
			}
			sess.Rows = dropRows(sess.Rows, rowNums[:written])
			return nil
		}
		if len(recorded) > 0 {
			// Guardar lo ya registrado aunque el lote se rechace.
			return nil
		}
		return batchErr
	})
	if err != nil {
		return nil, err
	}
	if submitErr != nil {
		s.log.Error().Err(submitErr).Str("session_id", id).Int("recorded", len(res.Transactions)).Msg("envío de lote incompleto")
		return res, submitErr
	}
	s.log.Info().Str("session_id", id).Int("transactions", len(res.Transactions)).Msg("lote enviado")
	return res, nil
}

// Discard elimina la sesión.
func (s *Service) Discard(ctx context.Context, user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	return nil
}

// update carga la sesión, aplica fn y la guarda si fn no devolvió error.
func (s *Service) update(ctx context.Context, user, id string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return sess, nil
}

func (s *Service) visible(sess *Session) []entity.InventoryItem {
	return ledger.VisibleItems(sess.Overlay, s.inv.ListItems(inventory.ItemFilter{}))
}

// itemsOf estado actual de los artículos tocados por txs, en orden de primera aparición.
func (s *Service) itemsOf(txs []entity.Transaction) []entity.InventoryItem {
	idx := ledger.IndexItems(s.inv.ListItems(inventory.ItemFilter{}))
	seen := make(map[string]struct{}, len(txs))
	var out []entity.InventoryItem
	for _, tx := range txs {
		if _, ok := seen[tx.ItemID]; ok {
			continue
		}
		seen[tx.ItemID] = struct{}{}
		if it, ok := idx.Item(tx.ItemID); ok {
			out = append(out, it)
		}
	}
	return out
}

func rowAt(sess *Session, row int) (*Row, error) {
	if row < 1 || row > len(sess.Rows) {
		return nil, domain.Invalid(row, "row", "fila inexistente")
	}
	return &sess.Rows[row-1], nil
}

// dropRows quita las filas indicadas (1-based).
func dropRows(rows []Row, nums []int) []Row {
	drop := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		drop[n] = struct{}{}
	}
	out := make([]Row, 0, len(rows))
	for i, r := range rows {
		if _, ok := drop[i+1]; !ok {
			out = append(out, r)
		}
	}
	return out
}
