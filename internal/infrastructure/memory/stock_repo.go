package memory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockRepo implementa repository.StockRepository. Fuera de TxRunner toma el lock por
// llamada; dentro de una tx el lock ya lo tiene el runner y se registra el deshacer.
type StockRepo struct {
	s  *Store
	tx *memTx
}

var _ repository.StockRepository = (*StockRepo)(nil)

// AdjustStock valida y aplica el delta bajo el lock de escritura del store.
func (r *StockRepo) AdjustStock(ctx context.Context, productID string, delta int, costPrice *decimal.Decimal) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Stock.AdjustStock", err)
	}
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	p, ok := r.s.products[productID]
	if !ok {
		return nil, nil
	}
	before := cloneProduct(p)
	if err := inventory.ApplyStockDelta(p, delta, costPrice, time.Now().UTC()); err != nil {
		return nil, err
	}
	if r.tx != nil {
		r.tx.undo = append(r.tx.undo, func() { r.s.products[productID] = before })
	}
	return cloneProduct(p), nil
}
