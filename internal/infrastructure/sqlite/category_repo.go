package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/catalog"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

type categoryRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	Image     string `db:"image"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row categoryRow) toEntity() *entity.Category {
	c := &entity.Category{ID: row.ID, Name: row.Name, Slug: row.Slug, Image: row.Image}
	c.CreatedAt, _ = parseTime(row.CreatedAt)
	c.UpdatedAt, _ = parseTime(row.UpdatedAt)
	return c
}

// CategoryRepo implementación de CategoryRepository sobre SQLite.
type CategoryRepo struct {
	q Queryer
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Queryer) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría; devuelve ErrDuplicate si el slug ya existe.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Slug, c.Image, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByName busca por slug. Devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var row categoryRow
	err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT id, name, slug, image, created_at, updated_at FROM categories WHERE slug = ?`, catalog.Slug(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return row.toEntity(), nil
}

// List devuelve las categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var rows []categoryRow
	if err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT id, name, slug, image, created_at, updated_at FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
