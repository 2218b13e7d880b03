package memory

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/catalog"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// CategoryRepo implementa repository.CategoryRepository con el slug como clave.
type CategoryRepo struct {
	s *Store
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Category.Create", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.Slug]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.categories[c.Slug] = &cp
	r.s.categoryOrder = append(r.s.categoryOrder, c.Slug)
	return nil
}

// GetByName busca por slug del nombre; (nil, nil) si no existe.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Category.GetByName", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[catalog.Slug(name)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Category.List", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.s.categoryOrder))
	for _, slug := range r.s.categoryOrder {
		cp := *r.s.categories[slug]
		out = append(out, &cp)
	}
	return out, nil
}
