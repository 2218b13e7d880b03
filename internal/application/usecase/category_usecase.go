package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/catalog"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// CategoryUseCase lista categorías y las crea bajo demanda.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Ensure devuelve la categoría con ese nombre, creándola si no existe.
// Un nombre vacío no crea nada (el producto queda sin categoría).
func (uc *CategoryUseCase) Ensure(ctx context.Context, name, image string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, domain.StoreError("usecase.Category.Ensure", err)
	}
	if existing != nil {
		return existing, nil
	}
	slug := catalog.Slug(name)
	if slug == "" {
		return nil, domain.NewValidationError("category", "nombre sin caracteres válidos")
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		// Otra request la creó entre la lectura y la escritura.
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.repo.GetByName(ctx, name)
		}
		return nil, domain.StoreError("usecase.Category.Ensure", err)
	}
	return c, nil
}

// List devuelve todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.StoreError("usecase.Category.List", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{
			ID:        c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			Image:     c.Image,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}
