package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, category, price, discount_price, cost_price, stock, image, images, rating, created_at, updated_at`

type productRow struct {
	ID            string              `db:"id"`
	Name          string              `db:"name"`
	Description   string              `db:"description"`
	Category      string              `db:"category"`
	Price         decimal.Decimal     `db:"price"`
	DiscountPrice decimal.NullDecimal `db:"discount_price"`
	CostPrice     decimal.Decimal     `db:"cost_price"`
	Stock         int                 `db:"stock"`
	Image         string              `db:"image"`
	Images        string              `db:"images"`
	Rating        decimal.Decimal     `db:"rating"`
	CreatedAt     string              `db:"created_at"`
	UpdatedAt     string              `db:"updated_at"`
}

func toProductRow(p *entity.Product) (productRow, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return productRow{}, fmt.Errorf("images: %w", err)
	}
	row := productRow{
		ID: p.ID, Name: p.Name, Description: p.Description, Category: p.Category,
		Price: p.Price, CostPrice: p.CostPrice, Stock: p.Stock, Image: p.Image,
		Images: string(raw), Rating: p.Rating,
		CreatedAt: formatTime(p.CreatedAt), UpdatedAt: formatTime(p.UpdatedAt),
	}
	if p.DiscountPrice != nil {
		row.DiscountPrice = decimal.NewNullDecimal(*p.DiscountPrice)
	}
	return row, nil
}

func (row productRow) toEntity() (*entity.Product, error) {
	p := &entity.Product{
		ID: row.ID, Name: row.Name, Description: row.Description, Category: row.Category,
		Price: row.Price, CostPrice: row.CostPrice, Stock: row.Stock, Image: row.Image,
		Rating: row.Rating,
	}
	if row.DiscountPrice.Valid {
		d := row.DiscountPrice.Decimal
		p.DiscountPrice = &d
	}
	if err := json.Unmarshal([]byte(row.Images), &p.Images); err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	var err error
	if p.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Queryer
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(q Queryer) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	row, err := toProductRow(product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	_, err = sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :name, :description, :category, :price, :discount_price, :cost_price,
			:stock, :image, :images, :rating, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si el producto no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity()
}

// Update modifica datos de catálogo; stock y cost_price no se tocan.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	row, err := toProductRow(product)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE products SET name = :name, description = :description, category = :category,
			price = :price, discount_price = :discount_price, image = :image, images = :images,
			updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// Delete elimina el producto; el ledger conserva sus transacciones.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// List del más reciente al más antiguo (rowid desempata creaciones en el mismo instante).
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if filter.Category != "" {
		sb.WriteString(` WHERE category = ?`)
		args = append(args, filter.Category)
	}
	sb.WriteString(` ORDER BY created_at DESC, rowid DESC`)
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		sb.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, filter.Offset)
	}
	return r.selectProducts(ctx, "list products", sb.String(), args...)
}

// ListAll devuelve todos los productos en orden de creación.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.selectProducts(ctx, "list all products", `SELECT `+productColumns+` FROM products ORDER BY rowid ASC`)
}

func (r *ProductRepo) selectProducts(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toEntity()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}
	return out, nil
}
