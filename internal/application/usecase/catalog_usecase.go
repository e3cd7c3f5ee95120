package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/internal/domain/repository"
)

// CategoryPalette colores asignados a categorías creadas sin color.
var CategoryPalette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#84cc16", "#10b981",
	"#06b6d4", "#3b82f6", "#8b5cf6", "#d946ef", "#f43f5e",
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CatalogUseCase categorías y ubicaciones. Los artículos guardan el nombre como texto,
// así que borrar no toca ningún artículo.
type CatalogUseCase struct {
	repo  repository.CatalogStore
	ids   ledger.IDSource
	color func() string
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogStore, ids ledger.IDSource) *CatalogUseCase {
	return &CatalogUseCase{
		repo:  repo,
		ids:   ids,
		color: func() string { return CategoryPalette[rand.IntN(len(CategoryPalette))] },
	}
}

// ListCategories lista categorías en orden de alta.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	return out, nil
}

// CategoryColors nombre normalizado -> color, para el dashboard.
func (uc *CatalogUseCase) CategoryColors(ctx context.Context) (map[string]string, error) {
	cats, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cats))
	for _, c := range cats {
		out[ledger.NormalizeName(c.Name)] = c.Color
	}
	return out, nil
}

// CreateCategory crea una categoría. ErrDuplicate si el nombre ya existe.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid(0, "name", "es obligatorio")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = uc.color()
	} else if !hexColorRe.MatchString(color) {
		return nil, domain.Invalid(0, "color", "debe tener formato #rrggbb")
	}
	cats, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if ledger.NormalizeName(c.Name) == ledger.NormalizeName(name) {
			return nil, domain.ErrDuplicate
		}
	}
	created, err := uc.repo.InsertCategory(ctx, entity.Category{ID: uc.ids.NewID(ledger.PrefixCategory), Name: name, Color: color})
	if err != nil {
		return nil, fmt.Errorf("crear categoría: %w", err)
	}
	return &dto.CategoryResponse{ID: created.ID, Name: created.Name, Color: created.Color}, nil
}

// EnsureCategory crea la categoría si no existe.
func (uc *CatalogUseCase) EnsureCategory(ctx context.Context, name string) error {
	_, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: name})
	if err == domain.ErrDuplicate {
		return nil
	}
	return err
}

// DeleteCategory borra una categoría.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.repo.DeleteCategory(ctx, id)
}

// ListLocations lista ubicaciones en orden de alta.
func (uc *CatalogUseCase) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locs, err := uc.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, dto.LocationResponse{ID: l.ID, Name: l.Name})
	}
	return out, nil
}

// CreateLocation crea una ubicación. ErrDuplicate si el nombre ya existe.
func (uc *CatalogUseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid(0, "name", "es obligatorio")
	}
	locs, err := uc.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		if ledger.NormalizeName(l.Name) == ledger.NormalizeName(name) {
			return nil, domain.ErrDuplicate
		}
	}
	created, err := uc.repo.InsertLocation(ctx, entity.Location{ID: uc.ids.NewID(ledger.PrefixLocation), Name: name})
	if err != nil {
		return nil, fmt.Errorf("crear ubicación: %w", err)
	}
	return &dto.LocationResponse{ID: created.ID, Name: created.Name}, nil
}

// EnsureLocation crea la ubicación si no existe.
func (uc *CatalogUseCase) EnsureLocation(ctx context.Context, name string) error {
	_, err := uc.CreateLocation(ctx, dto.CreateLocationRequest{Name: name})
	if err == domain.ErrDuplicate {
		return nil
	}
	return err
}

// DeleteLocation borra una ubicación.
func (uc *CatalogUseCase) DeleteLocation(ctx context.Context, id string) error {
	return uc.repo.DeleteLocation(ctx, id)
}
