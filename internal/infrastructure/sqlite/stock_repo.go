package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre SQLite.
type StockRepo struct {
	q Queryer
}

// NewStockRepository construye el adaptador de stock.
func NewStockRepository(q Queryer) *StockRepo {
	return &StockRepo{q: q}
}

// AdjustStock aplica delta con un UPDATE condicional (stock + delta >= 0) y RETURNING.
func (r *StockRepo) AdjustStock(ctx context.Context, productID string, delta int, costPrice *decimal.Decimal) (*entity.Product, error) {
	var cost decimal.NullDecimal
	if costPrice != nil {
		cost = decimal.NewNullDecimal(*costPrice)
	}
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		UPDATE products
		SET stock = stock + ?, cost_price = COALESCE(?, cost_price), updated_at = ?
		WHERE id = ? AND stock + ? >= 0
		RETURNING `+productColumns,
		delta, cost, formatTime(nowUTC()), productID, delta,
	)
	if err == nil {
		return row.toEntity()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	var available int
	err = sqlx.GetContext(ctx, r.q, &available, `SELECT stock FROM products WHERE id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stock: %w", err)
	}
	return nil, &domain.InsufficientStockError{ProductID: productID, Available: available, Requested: -delta}
}
