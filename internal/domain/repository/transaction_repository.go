package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// TransactionFilter filtros de lectura del ledger. Los campos vacíos no filtran.
type TransactionFilter struct {
	ProductID string
	Kind      entity.TransactionKind
	From      *time.Time // inclusivo
	To        *time.Time // inclusivo
	Limit     int        // 0 = sin límite
}

// TransactionRepository es el ledger append-only de transacciones BUY/SELL.
// No existe Update ni Delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx *entity.Transaction) error
	// List devuelve las transacciones de la más reciente a la más antigua.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
}
