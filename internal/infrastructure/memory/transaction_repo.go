package memory

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TransactionRepo ledger append-only en memoria. El orden de inserción desempata fechas iguales.
type TransactionRepo struct {
	s  *Store
	tx *memTx
}

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// Append agrega una entrada al final del ledger.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Transaction.Append", err)
	}
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.seq++
	r.s.ledger = append(r.s.ledger, ledgerEntry{seq: r.s.seq, tx: *tx})
	if r.tx != nil {
		n := len(r.s.ledger) - 1
		r.tx.undo = append(r.tx.undo, func() { r.s.ledger = r.s.ledger[:n] })
	}
	return nil
}

// List devuelve las entradas que cumplen el filtro, de la más reciente a la más antigua.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Transaction.List", err)
	}
	r.s.mu.RLock()
	entries := make([]ledgerEntry, 0, len(r.s.ledger))
	for _, e := range r.s.ledger {
		if matches(e.tx, filter) {
			entries = append(entries, e)
		}
	}
	r.s.mu.RUnlock()

	sortNewestFirst(entries)
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	out := make([]*entity.Transaction, 0, len(entries))
	for i := range entries {
		tx := entries[i].tx
		out = append(out, &tx)
	}
	return out, nil
}

func matches(tx entity.Transaction, f repository.TransactionFilter) bool {
	if f.ProductID != "" && tx.ProductID != f.ProductID {
		return false
	}
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Date.After(*f.To) {
		return false
	}
	return true
}
