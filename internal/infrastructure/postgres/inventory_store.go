package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
)

var _ repository.InventoryStore = (*InventoryStore)(nil)

const itemColumns = `id, name, category, location, quantity, unit, min_stock_level, price, last_updated, description`

const upsertItem = `
	INSERT INTO inventory_items (` + itemColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, category = EXCLUDED.category, location = EXCLUDED.location,
		quantity = EXCLUDED.quantity, unit = EXCLUDED.unit, min_stock_level = EXCLUDED.min_stock_level,
		price = EXCLUDED.price, last_updated = EXCLUDED.last_updated, description = EXCLUDED.description
	RETURNING ` + itemColumns

const txColumns = `id, item_id, item_name, type, quantity, timestamp, username, notes`

// Reinsertar el mismo id reemplaza el registro (ids deterministas como tx_init_<item>).
const upsertTransaction = `
	INSERT INTO transactions (` + txColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		item_id = EXCLUDED.item_id, item_name = EXCLUDED.item_name, type = EXCLUDED.type,
		quantity = EXCLUDED.quantity, timestamp = EXCLUDED.timestamp, username = EXCLUDED.username,
		notes = EXCLUDED.notes
	RETURNING ` + txColumns

// InventoryStore adaptador PostgreSQL del almacén de inventario. Cada método es atómico;
// los lotes corren dentro de una sola transacción de base de datos.
type InventoryStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewInventoryStore construye el adaptador.
func NewInventoryStore(pool *pgxpool.Pool) *InventoryStore {
	return &InventoryStore{pool: pool, tx: NewTxRunner(pool)}
}

func (s *InventoryStore) GetItem(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *InventoryStore) PutItem(ctx context.Context, item entity.InventoryItem) (*entity.InventoryItem, error) {
	it, err := putItem(ctx, s.pool, item)
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return it, nil
}

func (s *InventoryStore) PutItemsBatch(ctx context.Context, items []entity.InventoryItem) ([]entity.InventoryItem, error) {
	out := make([]entity.InventoryItem, 0, len(items))
	err := s.tx.Run(ctx, func(q Querier) error {
		for _, item := range items {
			it, err := putItem(ctx, q, item)
			if err != nil {
				return fmt.Errorf("put item %s: %w", item.ID, err)
			}
			out = append(out, *it)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("put items batch: %w", err)
	}
	return out, nil
}

func (s *InventoryStore) InsertTransaction(ctx context.Context, tx entity.Transaction) (*entity.Transaction, error) {
	t, err := insertTransaction(ctx, s.pool, tx)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *InventoryStore) InsertTransactionsBatch(ctx context.Context, txs []entity.Transaction) ([]entity.Transaction, error) {
	out := make([]entity.Transaction, 0, len(txs))
	err := s.tx.Run(ctx, func(q Querier) error {
		for _, tx := range txs {
			t, err := insertTransaction(ctx, q, tx)
			if err != nil {
				return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
			}
			out = append(out, *t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert transactions batch: %w", err)
	}
	return out, nil
}

// DeleteTransaction borrar un id inexistente no es error.
func (s *InventoryStore) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *InventoryStore) DeleteTransactionsBatch(ctx context.Context, ids []string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete transactions batch: %w", err)
	}
	return nil
}

func (s *InventoryStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *InventoryStore) DeleteItemsBatch(ctx context.Context, ids []string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete items batch: %w", err)
	}
	return nil
}

// ListItems en orden de alta.
func (s *InventoryStore) ListItems(ctx context.Context) ([]entity.InventoryItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, *it)
	}
	return list, rows.Err()
}

// ListTransactions más reciente primero; a igual timestamp, por id.
func (s *InventoryStore) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+txColumns+` FROM transactions ORDER BY timestamp DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func putItem(ctx context.Context, q Querier, it entity.InventoryItem) (*entity.InventoryItem, error) {
	return scanItem(q.QueryRow(ctx, upsertItem,
		it.ID, it.Name, it.Category, it.Location, it.Quantity, it.Unit,
		it.MinStockLevel, it.Price, it.LastUpdated, it.Description,
	))
}

func insertTransaction(ctx context.Context, q Querier, tx entity.Transaction) (*entity.Transaction, error) {
	return scanTransaction(q.QueryRow(ctx, upsertTransaction,
		tx.ID, tx.ItemID, tx.ItemName, string(tx.Type), tx.Quantity, tx.Timestamp, tx.User, tx.Notes,
	))
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Location, &it.Quantity, &it.Unit,
		&it.MinStockLevel, &it.Price, &it.LastUpdated, &it.Description)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var (
		t   entity.Transaction
		typ string
	)
	if err := row.Scan(&t.ID, &t.ItemID, &t.ItemName, &typ, &t.Quantity, &t.Timestamp, &t.User, &t.Notes); err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	return &t, nil
}
