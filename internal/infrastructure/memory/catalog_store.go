package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
)

var _ repository.CatalogStore = (*CatalogStore)(nil)

// CatalogStore categorías y ubicaciones en orden de alta.
type CatalogStore struct {
	mu         sync.RWMutex
	categories []entity.Category
	locations  []entity.Location
}

func NewCatalogStore() *CatalogStore { return &CatalogStore{} }

func (s *CatalogStore) ListCategories(context.Context) ([]entity.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Category(nil), s.categories...), nil
}

func (s *CatalogStore) InsertCategory(_ context.Context, c entity.Category) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return &c, nil
}

func (s *CatalogStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *CatalogStore) ListLocations(context.Context) ([]entity.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Location(nil), s.locations...), nil
}

func (s *CatalogStore) InsertLocation(_ context.Context, l entity.Location) (*entity.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, l)
	return &l, nil
}

func (s *CatalogStore) DeleteLocation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.locations[:0]
	for _, l := range s.locations {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.locations = kept
	return nil
}
