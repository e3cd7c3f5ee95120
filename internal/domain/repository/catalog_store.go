package repository

import (
	"context"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

// CatalogStore puerto de persistencia para categorías y ubicaciones.
// Borrar no propaga a los artículos: conservan el nombre como texto.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	InsertCategory(ctx context.Context, c entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListLocations(ctx context.Context) ([]entity.Location, error)
	InsertLocation(ctx context.Context, l entity.Location) (*entity.Location, error)
	DeleteLocation(ctx context.Context, id string) error
}
