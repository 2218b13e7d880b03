package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// AdjustStock aplica delta con un único UPDATE condicional: la guarda stock + delta >= 0
// se evalúa sobre la fila bloqueada, así dos ventas concurrentes nunca dejan stock negativo.
func (r *StockRepo) AdjustStock(ctx context.Context, productID string, delta int, costPrice *decimal.Decimal) (*entity.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, cost_price = COALESCE($3, cost_price), updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, productID, delta, costPrice))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	// Sin fila: el producto no existe o la guarda rechazó el delta.
	var available int
	err = r.q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stock: %w", err)
	}
	return nil, &domain.InsufficientStockError{ProductID: productID, Available: available, Requested: -delta}
}
