package memory

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner serializa las transacciones con el lock de escritura del store.
// Si fn falla se deshacen sus escrituras en orden inverso.
type TxRunner struct {
	s *Store
}

type memTx struct {
	undo []func()
}

// Run ejecuta fn con repositorios atados a la transacción. Dentro de fn no se
// deben usar los repositorios del Store directamente (el lock ya está tomado).
func (t *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.TransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	tx := &memTx{}
	err := fn(&StockRepo{s: t.s, tx: tx}, &TransactionRepo{s: t.s, tx: tx})
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}
