package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
)

var _ repository.CatalogStore = (*CatalogStore)(nil)

// CatalogStore categorías y ubicaciones sobre PostgreSQL.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore construye el adaptador.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]entity.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, color FROM categories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (s *CatalogStore) InsertCategory(ctx context.Context, c entity.Category) (*entity.Category, error) {
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (id, name, color) VALUES ($1, $2, $3)`, c.ID, c.Name, c.Color)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CatalogStore) ListLocations(ctx context.Context) ([]entity.Location, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM locations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (s *CatalogStore) InsertLocation(ctx context.Context, l entity.Location) (*entity.Location, error) {
	_, err := s.pool.Exec(ctx, `INSERT INTO locations (id, name) VALUES ($1, $2)`, l.ID, l.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert location: %w", err)
	}
	return &l, nil
}

func (s *CatalogStore) DeleteLocation(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
